package models

import "time"

// AccountType distinguishes households looking for help from businesses offering it.
type AccountType string

const (
	AccountTypeClient   AccountType = "client"
	AccountTypeProvider AccountType = "provider"
)

// Account is a registered SmartClean user.
type Account struct {
	ID              string      `json:"id"`
	AccountType     AccountType `json:"account_type"`
	FullName        string      `json:"full_name"`
	Email           string      `json:"email"`
	PasswordHash    string      `json:"-"`
	Phone           string      `json:"phone"`
	Location        string      `json:"location"`
	HouseholdNotes  string      `json:"household_notes,omitempty"`
	ServicesNeeded  []string    `json:"services_needed,omitempty"`
	BusinessName    string      `json:"business_name,omitempty"`
	ExperienceYears string      `json:"experience_years,omitempty"`
	ServicesOffered []string    `json:"services_offered,omitempty"`
	UpdatesOptIn    bool        `json:"updates_opt_in"`
	CreatedAt       time.Time   `json:"created_at"`
}

// RegistrationRequest is the sign-up form for both account types.
type RegistrationRequest struct {
	AccountType     AccountType `json:"account_type" validate:"required,oneof=client provider"`
	FullName        string      `json:"full_name" validate:"max=200"`
	Email           string      `json:"email" validate:"max=320"`
	Password        string      `json:"password" validate:"max=128"`
	Phone           string      `json:"phone" validate:"max=40"`
	Location        string      `json:"location" validate:"max=120"`
	HouseholdNotes  string      `json:"household_notes" validate:"max=2000"`
	ServicesNeeded  []string    `json:"services_needed" validate:"max=20,dive,max=120"`
	BusinessName    string      `json:"business_name" validate:"max=200"`
	ExperienceYears string      `json:"experience_years" validate:"omitempty,numeric,max=3"`
	ServicesOffered []string    `json:"services_offered" validate:"max=20,dive,max=120"`
	AcceptsTerms    bool        `json:"accepts_terms"`
	UpdatesOptIn    *bool       `json:"updates_opt_in"`
}

// PasswordCheck reports one strength rule.
type PasswordCheck struct {
	Label string `json:"label"`
	Met   bool   `json:"met"`
}

// PasswordInsight scores a password against the strength rules.
type PasswordInsight struct {
	Score      int             `json:"score"`
	Percentage int             `json:"percentage"`
	Label      string          `json:"label"`
	Checks     []PasswordCheck `json:"checks"`
}
