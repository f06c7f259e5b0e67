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

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("duplicate record")

const pgUniqueViolation = "23505"

type accountRow struct {
	ID              string         `db:"id"`
	AccountType     string         `db:"account_type"`
	FullName        string         `db:"full_name"`
	Email           string         `db:"email"`
	PasswordHash    string         `db:"password_hash"`
	Phone           string         `db:"phone"`
	Location        string         `db:"location"`
	HouseholdNotes  string         `db:"household_notes"`
	ServicesNeeded  pq.StringArray `db:"services_needed"`
	BusinessName    string         `db:"business_name"`
	ExperienceYears string         `db:"experience_years"`
	ServicesOffered pq.StringArray `db:"services_offered"`
	UpdatesOptIn    bool           `db:"updates_opt_in"`
	CreatedAt       time.Time      `db:"created_at"`
}

func newAccountRow(a *models.Account) accountRow {
	return accountRow{
		ID:              a.ID,
		AccountType:     string(a.AccountType),
		FullName:        a.FullName,
		Email:           a.Email,
		PasswordHash:    a.PasswordHash,
		Phone:           a.Phone,
		Location:        a.Location,
		HouseholdNotes:  a.HouseholdNotes,
		ServicesNeeded:  pq.StringArray(nonNil(a.ServicesNeeded)),
		BusinessName:    a.BusinessName,
		ExperienceYears: a.ExperienceYears,
		ServicesOffered: pq.StringArray(nonNil(a.ServicesOffered)),
		UpdatesOptIn:    a.UpdatesOptIn,
		CreatedAt:       a.CreatedAt,
	}
}

func (r accountRow) toModel() *models.Account {
	return &models.Account{
		ID:              r.ID,
		AccountType:     models.AccountType(r.AccountType),
		FullName:        r.FullName,
		Email:           r.Email,
		PasswordHash:    r.PasswordHash,
		Phone:           r.Phone,
		Location:        r.Location,
		HouseholdNotes:  r.HouseholdNotes,
		ServicesNeeded:  []string(r.ServicesNeeded),
		BusinessName:    r.BusinessName,
		ExperienceYears: r.ExperienceYears,
		ServicesOffered: []string(r.ServicesOffered),
		UpdatesOptIn:    r.UpdatesOptIn,
		CreatedAt:       r.CreatedAt,
	}
}

const accountColumns = `id, account_type, full_name, email, password_hash, phone, location, household_notes,
services_needed, business_name, experience_years, services_offered, updates_opt_in, created_at`

// AccountRepository persists registered accounts in PostgreSQL.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account. A taken email yields ErrDuplicate.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	prepareAccount(account)
	const query = `INSERT INTO accounts (` + accountColumns + `) VALUES (:id, :account_type, :full_name, :email,
:password_hash, :phone, :location, :household_notes, :services_needed, :business_name, :experience_years,
:services_offered, :updates_opt_in, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, newAccountRow(account)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// FindByEmail returns an account by email address, case-insensitively.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1) LIMIT 1`
	return r.get(ctx, query, "find account by email", strings.TrimSpace(email))
}

// FindByID returns an account by identifier.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 LIMIT 1`
	return r.get(ctx, query, "find account by id", id)
}

func (r *AccountRepository) get(ctx context.Context, query, op string, arg interface{}) (*models.Account, error) {
	var row accountRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return row.toModel(), nil
}

// MemoryAccountRepository keeps accounts in process memory. It backs the API when no database
// is configured.
type MemoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.Account
	byEmail map[string]string
}

// NewMemoryAccountRepository constructs an empty in-memory store.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:    make(map[string]models.Account),
		byEmail: make(map[string]string),
	}
}

// Create stores a copy of account. A taken email yields ErrDuplicate.
func (r *MemoryAccountRepository) Create(ctx context.Context, account *models.Account) error {
	prepareAccount(account)
	key := strings.ToLower(strings.TrimSpace(account.Email))

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[key]; taken {
		return ErrDuplicate
	}
	r.byID[account.ID] = cloneAccount(*account)
	r.byEmail[key] = account.ID
	return nil
}

// FindByEmail returns an account by email address, case-insensitively.
func (r *MemoryAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, sql.ErrNoRows
	}
	account := cloneAccount(r.byID[id])
	return &account, nil
}

// FindByID returns an account by identifier.
func (r *MemoryAccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	account = cloneAccount(account)
	return &account, nil
}

func prepareAccount(account *models.Account) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
}

func cloneAccount(a models.Account) models.Account {
	a.ServicesNeeded = append([]string(nil), a.ServicesNeeded...)
	a.ServicesOffered = append([]string(nil), a.ServicesOffered...)
	return a
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
