package service

import (
	"context"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/smartclean-api/internal/dto"
	"github.com/noah-isme/smartclean-api/internal/models"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
	"github.com/noah-isme/smartclean-api/pkg/events"
)

var onboardingSteps = []models.OnboardingStep{
	{Index: 0, Title: "Business profile", Description: "Tell us about your team and the neighbourhoods you cover."},
	{Index: 1, Title: "Experience & safety", Description: "Share proof of experience so we can trust you with our families."},
	{Index: 2, Title: "Availability & next steps", Description: "Set expectations for scheduling and what makes your service unique."},
}

type onboardingRepository interface {
	Create(ctx context.Context, app *models.OnboardingApplication) error
	CountPendingByEmail(ctx context.Context, email string) (int, error)
}

// OnboardingService drives the three-step provider onboarding wizard.
type OnboardingService struct {
	repo      onboardingRepository
	events    eventSink
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOnboardingService constructs an OnboardingService.
func NewOnboardingService(repo onboardingRepository, sink eventSink, validate *validator.Validate, logger *zap.Logger) *OnboardingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnboardingService{repo: repo, events: sink, validator: validate, logger: logger}
}

// InitialOnboardingForm is the blank form a new applicant starts from.
func InitialOnboardingForm() models.OnboardingForm {
	return models.OnboardingForm{
		ServiceAreas:       []string{},
		ServicesOffered:    []string{},
		MinimumBooking:     "3",
		HasBackgroundCheck: true,
		ProvidesSupplies:   true,
		Availability:       []string{},
	}
}

// Steps describes the wizard.
func (s *OnboardingService) Steps() dto.OnboardingStepsResponse {
	return dto.OnboardingStepsResponse{
		Steps:       append([]models.OnboardingStep(nil), onboardingSteps...),
		InitialForm: InitialOnboardingForm(),
	}
}

// StepIssues lists the problems blocking step index. Out-of-range steps have no issues.
func StepIssues(form models.OnboardingForm, index int) []string {
	issues := []string{}
	switch index {
	case 0:
		if blank(form.FullName) {
			issues = append(issues, "Add your full name or the primary contact's name.")
		}
		if blank(form.BusinessName) {
			issues = append(issues, "Share your business or team name.")
		}
		if !ValidEmail(form.Email) {
			issues = append(issues, "Enter a valid email address we can reach you on.")
		}
		if blank(form.Phone) {
			issues = append(issues, "Add a phone or WhatsApp number for urgent updates.")
		}
		if form.PrimaryLocation == "" {
			issues = append(issues, "Choose your primary service neighbourhood.")
		}
		if len(form.ServiceAreas) == 0 {
			issues = append(issues, "Select at least one additional area you can cover.")
		}
		if len(form.ServicesOffered) == 0 {
			issues = append(issues, "Pick the services you specialise in.")
		}
	case 1:
		if blank(form.ExperienceYears) {
			issues = append(issues, "Tell us how many years you've worked in this field.")
		}
		if blank(form.HourlyRate) {
			issues = append(issues, "Share your standard hourly rate so we can quote clients clearly.")
		}
		if blank(form.Certifications) {
			issues = append(issues, "List any certifications or training. Mention 'None' if not applicable.")
		}
	case 2:
		if len(form.Availability) == 0 {
			issues = append(issues, "Select the availability windows that suit you best.")
		}
		if blank(form.Bio) {
			issues = append(issues, "Write a short introduction that helps clients understand your style.")
		}
	}
	return issues
}

// StepProgress is the completion percentage shown for a step.
func StepProgress(step int, submitted bool) int {
	complete := step + 1
	if submitted {
		complete = len(onboardingSteps)
	}
	return int(math.Round(float64(complete) / float64(len(onboardingSteps)) * 100))
}

// ValidateStep checks one step of the form.
func (s *OnboardingService) ValidateStep(ctx context.Context, req models.OnboardingValidateRequest) (*dto.OnboardingValidateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid onboarding payload")
	}
	issues := StepIssues(req.Form, req.Step)
	return &dto.OnboardingValidateResponse{Step: req.Step, Issues: issues, Valid: len(issues) == 0}, nil
}

// Navigate moves the wizard. Forward moves are refused while the current step has issues;
// backward moves are always allowed. The target is clamped to the available steps.
func (s *OnboardingService) Navigate(ctx context.Context, req models.OnboardingNavigateRequest) (*models.OnboardingProgress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid onboarding payload")
	}

	issues := StepIssues(req.Form, req.CurrentStep)
	if len(issues) > 0 && req.TargetStep > req.CurrentStep {
		return &models.OnboardingProgress{
			Step:     req.CurrentStep,
			Progress: StepProgress(req.CurrentStep, false),
			Issues:   issues,
		}, nil
	}

	step := req.TargetStep
	if step < 0 {
		step = 0
	}
	if last := len(onboardingSteps) - 1; step > last {
		step = last
	}
	return &models.OnboardingProgress{Step: step, Progress: StepProgress(step, false), Issues: []string{}}, nil
}

// Submit validates every step and stores the application for review.
func (s *OnboardingService) Submit(ctx context.Context, form models.OnboardingForm) (*dto.OnboardingSubmitResponse, error) {
	form = normalizeOnboardingForm(form)
	if err := s.validator.Struct(form); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid onboarding payload")
	}

	var issues []string
	firstInvalid := -1
	for _, step := range onboardingSteps {
		stepIssues := StepIssues(form, step.Index)
		if len(stepIssues) > 0 && firstInvalid < 0 {
			firstInvalid = step.Index
		}
		issues = append(issues, stepIssues...)
	}
	if len(issues) > 0 {
		appErr := appErrors.Validation("onboarding form has issues", issues)
		s.logger.Debug("onboarding submission rejected", zap.Int("first_invalid_step", firstInvalid), zap.Int("issues", len(issues)))
		return nil, appErr
	}

	pending, err := s.repo.CountPendingByEmail(ctx, form.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing applications")
	}
	if pending > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an application for this email is already awaiting review")
	}

	app := &models.OnboardingApplication{Form: form, Status: models.OnboardingStatusPendingReview}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store onboarding application")
	}

	s.logger.Info("onboarding application submitted", zap.String("application_id", app.ID))
	if s.events != nil {
		s.events.Publish(ctx, events.TypeProviderOnboardingSubmitted, app.ID, map[string]interface{}{
			"business_name":    form.BusinessName,
			"primary_location": form.PrimaryLocation,
			"services_offered": form.ServicesOffered,
		})
	}

	last := len(onboardingSteps) - 1
	return &dto.OnboardingSubmitResponse{
		Application: *app,
		Progress: models.OnboardingProgress{
			Step:      last,
			Progress:  StepProgress(last, true),
			Issues:    []string{},
			Submitted: true,
		},
	}, nil
}

func normalizeOnboardingForm(form models.OnboardingForm) models.OnboardingForm {
	form.FullName = strings.TrimSpace(form.FullName)
	form.BusinessName = strings.TrimSpace(form.BusinessName)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(SanitizePhone(form.Phone))
	form.ExperienceYears = strings.TrimSpace(form.ExperienceYears)
	form.Certifications = strings.TrimSpace(form.Certifications)
	form.HourlyRate = strings.TrimSpace(form.HourlyRate)
	form.MinimumBooking = strings.TrimSpace(form.MinimumBooking)
	form.Bio = strings.TrimSpace(form.Bio)
	return form
}
