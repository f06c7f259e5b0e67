package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/smartclean-api/internal/models"
	"github.com/noah-isme/smartclean-api/internal/repository"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
	"github.com/noah-isme/smartclean-api/pkg/events"
)

type accountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
}

type eventSink interface {
	Publish(ctx context.Context, eventType, aggregateID string, data interface{})
}

// RegistrationService signs up clients and providers.
type RegistrationService struct {
	repo      accountRepository
	events    eventSink
	validator *validator.Validate
	logger    *zap.Logger
	hashCost  int
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(repo accountRepository, sink eventSink, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, events: sink, validator: validate, logger: logger, hashCost: bcrypt.DefaultCost}
}

// PasswordStrength scores a candidate password.
func (s *RegistrationService) PasswordStrength(password string) models.PasswordInsight {
	return EvaluatePassword(password)
}

// NormalizeRegistration trims free text, sanitises the phone number and drops the service list
// that belongs to the other account type.
func NormalizeRegistration(req models.RegistrationRequest) models.RegistrationRequest {
	if req.AccountType == "" {
		req.AccountType = models.AccountTypeClient
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(SanitizePhone(req.Phone))
	req.Location = strings.TrimSpace(req.Location)
	req.HouseholdNotes = strings.TrimSpace(req.HouseholdNotes)
	req.BusinessName = strings.TrimSpace(req.BusinessName)
	req.ExperienceYears = strings.TrimSpace(req.ExperienceYears)

	switch req.AccountType {
	case models.AccountTypeClient:
		req.ServicesOffered = nil
		req.BusinessName = ""
		req.ExperienceYears = ""
	case models.AccountTypeProvider:
		req.ServicesNeeded = nil
		req.HouseholdNotes = ""
	}
	return req
}

// RegistrationIssues lists every problem with the form, in display order.
func RegistrationIssues(req models.RegistrationRequest) []string {
	var issues []string
	if blank(req.FullName) {
		issues = append(issues, "Please tell us your full name.")
	}
	if !ValidEmail(req.Email) {
		issues = append(issues, "Enter a valid email address.")
	}
	if EvaluatePassword(req.Password).Score < 3 {
		issues = append(issues, "Choose a stronger password to keep your account safe.")
	}
	if len(req.Password) > maxPasswordBytes {
		issues = append(issues, "Password must be at most 72 characters.")
	}
	if blank(req.Phone) {
		issues = append(issues, "Add a phone number so we can reach you about bookings.")
	}
	if req.Location == "" {
		issues = append(issues, "Select the primary neighbourhood you live or work in.")
	}
	if req.AccountType == models.AccountTypeClient && len(req.ServicesNeeded) == 0 {
		issues = append(issues, "Pick at least one service you need help with.")
	}
	if req.AccountType == models.AccountTypeProvider {
		if blank(req.BusinessName) {
			issues = append(issues, "Tell us your business or team name.")
		}
		if blank(req.ExperienceYears) {
			issues = append(issues, "Share how many years of experience you have.")
		}
		if len(req.ServicesOffered) == 0 {
			issues = append(issues, "Select at least one service you offer.")
		}
	}
	if !req.AcceptsTerms {
		issues = append(issues, "Please accept the SmartClean terms to continue.")
	}
	return issues
}

// Register validates the form and creates the account.
func (s *RegistrationService) Register(ctx context.Context, req models.RegistrationRequest) (*models.Account, error) {
	req = NormalizeRegistration(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if issues := RegistrationIssues(req); len(issues) > 0 {
		return nil, appErrors.Validation("registration form has issues", issues)
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	optIn := true
	if req.UpdatesOptIn != nil {
		optIn = *req.UpdatesOptIn
	}
	account := &models.Account{
		AccountType:     req.AccountType,
		FullName:        req.FullName,
		Email:           req.Email,
		PasswordHash:    string(hash),
		Phone:           req.Phone,
		Location:        req.Location,
		HouseholdNotes:  req.HouseholdNotes,
		ServicesNeeded:  req.ServicesNeeded,
		BusinessName:    req.BusinessName,
		ExperienceYears: req.ExperienceYears,
		ServicesOffered: req.ServicesOffered,
		UpdatesOptIn:    optIn,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an account with this email already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	s.logger.Info("account registered", zap.String("account_id", account.ID), zap.String("account_type", string(account.AccountType)))
	if s.events != nil {
		s.events.Publish(ctx, events.TypeAccountRegistered, account.ID, map[string]interface{}{
			"account_type":   account.AccountType,
			"location":       account.Location,
			"updates_opt_in": account.UpdatesOptIn,
		})
	}
	return account, nil
}
