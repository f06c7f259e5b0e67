package models

import "time"

// OnboardingStatusPendingReview marks a submitted application awaiting the operations team.
const OnboardingStatusPendingReview = "pending_review"

// OnboardingStep describes one page of the provider onboarding wizard.
type OnboardingStep struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// OnboardingForm is the full provider onboarding form. Numeric answers stay as text so an
// unanswered field is distinguishable from zero.
type OnboardingForm struct {
	FullName           string   `json:"full_name" validate:"max=200"`
	BusinessName       string   `json:"business_name" validate:"max=200"`
	Email              string   `json:"email" validate:"max=320"`
	Phone              string   `json:"phone" validate:"max=40"`
	PrimaryLocation    string   `json:"primary_location" validate:"max=120"`
	ServiceAreas       []string `json:"service_areas" validate:"max=30,dive,max=120"`
	ServicesOffered    []string `json:"services_offered" validate:"max=20,dive,max=120"`
	ExperienceYears    string   `json:"experience_years" validate:"omitempty,numeric,max=3"`
	Certifications     string   `json:"certifications" validate:"max=1000"`
	HourlyRate         string   `json:"hourly_rate" validate:"omitempty,numeric,max=7"`
	MinimumBooking     string   `json:"minimum_booking" validate:"omitempty,numeric,max=2"`
	HasBackgroundCheck bool     `json:"has_background_check"`
	ProvidesSupplies   bool     `json:"provides_supplies"`
	Availability       []string `json:"availability" validate:"max=20,dive,max=120"`
	Bio                string   `json:"bio" validate:"max=4000"`
}

// OnboardingApplication is a submitted onboarding form.
type OnboardingApplication struct {
	ID          string         `json:"id"`
	Form        OnboardingForm `json:"form"`
	Status      string         `json:"status"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// OnboardingValidateRequest checks a single step of the form.
type OnboardingValidateRequest struct {
	Form OnboardingForm `json:"form"`
	Step int            `json:"step" validate:"min=0,max=2"`
}

// OnboardingNavigateRequest asks to move the wizard from one step to another.
type OnboardingNavigateRequest struct {
	Form        OnboardingForm `json:"form"`
	CurrentStep int            `json:"current_step" validate:"min=0,max=2"`
	TargetStep  int            `json:"target_step"`
}

// OnboardingProgress is the wizard position after a validation, navigation or submission.
type OnboardingProgress struct {
	Step      int      `json:"step"`
	Progress  int      `json:"progress"`
	Issues    []string `json:"issues"`
	Submitted bool     `json:"submitted"`
}
