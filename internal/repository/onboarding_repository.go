package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/smartclean-api/internal/models"
)

type onboardingRow struct {
	ID                 string         `db:"id"`
	FullName           string         `db:"full_name"`
	BusinessName       string         `db:"business_name"`
	Email              string         `db:"email"`
	Phone              string         `db:"phone"`
	PrimaryLocation    string         `db:"primary_location"`
	ServiceAreas       pq.StringArray `db:"service_areas"`
	ServicesOffered    pq.StringArray `db:"services_offered"`
	ExperienceYears    string         `db:"experience_years"`
	Certifications     string         `db:"certifications"`
	HourlyRate         string         `db:"hourly_rate"`
	MinimumBooking     string         `db:"minimum_booking"`
	HasBackgroundCheck bool           `db:"has_background_check"`
	ProvidesSupplies   bool           `db:"provides_supplies"`
	Availability       pq.StringArray `db:"availability"`
	Bio                string         `db:"bio"`
	Status             string         `db:"status"`
	SubmittedAt        time.Time      `db:"submitted_at"`
}

func newOnboardingRow(app *models.OnboardingApplication) onboardingRow {
	f := app.Form
	return onboardingRow{
		ID:                 app.ID,
		FullName:           f.FullName,
		BusinessName:       f.BusinessName,
		Email:              f.Email,
		Phone:              f.Phone,
		PrimaryLocation:    f.PrimaryLocation,
		ServiceAreas:       pq.StringArray(nonNil(f.ServiceAreas)),
		ServicesOffered:    pq.StringArray(nonNil(f.ServicesOffered)),
		ExperienceYears:    f.ExperienceYears,
		Certifications:     f.Certifications,
		HourlyRate:         f.HourlyRate,
		MinimumBooking:     f.MinimumBooking,
		HasBackgroundCheck: f.HasBackgroundCheck,
		ProvidesSupplies:   f.ProvidesSupplies,
		Availability:       pq.StringArray(nonNil(f.Availability)),
		Bio:                f.Bio,
		Status:             app.Status,
		SubmittedAt:        app.SubmittedAt,
	}
}

func (r onboardingRow) toModel() models.OnboardingApplication {
	return models.OnboardingApplication{
		ID: r.ID,
		Form: models.OnboardingForm{
			FullName:           r.FullName,
			BusinessName:       r.BusinessName,
			Email:              r.Email,
			Phone:              r.Phone,
			PrimaryLocation:    r.PrimaryLocation,
			ServiceAreas:       []string(r.ServiceAreas),
			ServicesOffered:    []string(r.ServicesOffered),
			ExperienceYears:    r.ExperienceYears,
			Certifications:     r.Certifications,
			HourlyRate:         r.HourlyRate,
			MinimumBooking:     r.MinimumBooking,
			HasBackgroundCheck: r.HasBackgroundCheck,
			ProvidesSupplies:   r.ProvidesSupplies,
			Availability:       []string(r.Availability),
			Bio:                r.Bio,
		},
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt,
	}
}

// OnboardingRepository persists provider onboarding applications in PostgreSQL.
type OnboardingRepository struct {
	db *sqlx.DB
}

// NewOnboardingRepository constructs the repository.
func NewOnboardingRepository(db *sqlx.DB) *OnboardingRepository {
	return &OnboardingRepository{db: db}
}

// Create inserts a submitted application.
func (r *OnboardingRepository) Create(ctx context.Context, app *models.OnboardingApplication) error {
	prepareApplication(app)
	const query = `INSERT INTO onboarding_applications (id, full_name, business_name, email, phone, primary_location,
service_areas, services_offered, experience_years, certifications, hourly_rate, minimum_booking,
has_background_check, provides_supplies, availability, bio, status, submitted_at)
VALUES (:id, :full_name, :business_name, :email, :phone, :primary_location, :service_areas, :services_offered,
:experience_years, :certifications, :hourly_rate, :minimum_booking, :has_background_check, :provides_supplies,
:availability, :bio, :status, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, newOnboardingRow(app)); err != nil {
		return fmt.Errorf("create onboarding application: %w", err)
	}
	return nil
}

// FindByID returns an application by identifier.
func (r *OnboardingRepository) FindByID(ctx context.Context, id string) (*models.OnboardingApplication, error) {
	const query = `SELECT id, full_name, business_name, email, phone, primary_location, service_areas, services_offered,
experience_years, certifications, hourly_rate, minimum_booking, has_background_check, provides_supplies,
availability, bio, status, submitted_at FROM onboarding_applications WHERE id = $1 LIMIT 1`
	var row onboardingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find onboarding application: %w", err)
	}
	app := row.toModel()
	return &app, nil
}

// CountPendingByEmail counts applications from email still awaiting review.
func (r *OnboardingRepository) CountPendingByEmail(ctx context.Context, email string) (int, error) {
	const query = `SELECT COUNT(*) FROM onboarding_applications WHERE LOWER(email) = LOWER($1) AND status = $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, strings.TrimSpace(email), models.OnboardingStatusPendingReview); err != nil {
		return 0, fmt.Errorf("count onboarding applications: %w", err)
	}
	return total, nil
}

// MemoryOnboardingRepository keeps applications in process memory.
type MemoryOnboardingRepository struct {
	mu   sync.RWMutex
	apps map[string]models.OnboardingApplication
}

// NewMemoryOnboardingRepository constructs an empty in-memory store.
func NewMemoryOnboardingRepository() *MemoryOnboardingRepository {
	return &MemoryOnboardingRepository{apps: make(map[string]models.OnboardingApplication)}
}

// Create stores a copy of app.
func (r *MemoryOnboardingRepository) Create(ctx context.Context, app *models.OnboardingApplication) error {
	prepareApplication(app)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.ID] = *app
	return nil
}

// FindByID returns an application by identifier.
func (r *MemoryOnboardingRepository) FindByID(ctx context.Context, id string) (*models.OnboardingApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &app, nil
}

// CountPendingByEmail counts applications from email still awaiting review.
func (r *MemoryOnboardingRepository) CountPendingByEmail(ctx context.Context, email string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := strings.ToLower(strings.TrimSpace(email))
	total := 0
	for _, app := range r.apps {
		if strings.ToLower(app.Form.Email) == key && app.Status == models.OnboardingStatusPendingReview {
			total++
		}
	}
	return total, nil
}

func prepareApplication(app *models.OnboardingApplication) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.OnboardingStatusPendingReview
	}
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now().UTC()
	}
}
