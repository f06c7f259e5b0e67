package dto

import "github.com/noah-isme/smartclean-api/internal/models"

// OnboardingStepsResponse describes the wizard and its starting state.
type OnboardingStepsResponse struct {
	Steps       []models.OnboardingStep `json:"steps"`
	InitialForm models.OnboardingForm   `json:"initial_form"`
}

// OnboardingValidateResponse lists the outstanding issues on one step.
type OnboardingValidateResponse struct {
	Step   int      `json:"step"`
	Issues []string `json:"issues"`
	Valid  bool     `json:"valid"`
}

// OnboardingSubmitResponse confirms a stored application.
type OnboardingSubmitResponse struct {
	Application models.OnboardingApplication `json:"application"`
	Progress    models.OnboardingProgress    `json:"progress"`
}
