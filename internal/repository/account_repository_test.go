package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smartclean-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var accountColumnNames = []string{
	"id", "account_type", "full_name", "email", "password_hash", "phone", "location", "household_notes",
	"services_needed", "business_name", "experience_years", "services_offered", "updates_opt_in", "created_at",
}

func TestAccountRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(1, 1))

	account := &models.Account{
		AccountType:    models.AccountTypeClient,
		FullName:       "Wanjiru Kamau",
		Email:          "wanjiru@example.com",
		ServicesNeeded: []string{"Home Cleaning"},
	}
	require.NoError(t, repo.Create(context.Background(), account))
	assert.NotEmpty(t, account.ID)
	assert.False(t, account.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectExec("INSERT INTO accounts").WillReturnError(&pq.Error{Code: pgUniqueViolation})

	err := repo.Create(context.Background(), &models.Account{Email: "taken@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAccountRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(accountColumnNames).
		AddRow("acc-1", "provider", "Otieno", "otieno@example.com", "hash", "+254 700 000000", "Karen", "",
			"{}", "Otieno Cleaners", "4", `{"Home Cleaning","Deep Cleaning"}`, true, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("Otieno@Example.com").
		WillReturnRows(rows)

	account, err := repo.FindByEmail(context.Background(), " Otieno@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, models.AccountTypeProvider, account.AccountType)
	assert.Equal(t, []string{"Home Cleaning", "Deep Cleaning"}, account.ServicesOffered)
	assert.Empty(t, account.ServicesNeeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery("FROM accounts WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMemoryAccountRepository(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	account := &models.Account{Email: "Amina@Example.com", ServicesNeeded: []string{"Night Nurse"}}
	require.NoError(t, repo.Create(ctx, account))

	found, err := repo.FindByEmail(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	found.ServicesNeeded[0] = "mutated"
	again, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Night Nurse"}, again.ServicesNeeded)

	assert.ErrorIs(t, repo.Create(ctx, &models.Account{Email: "AMINA@example.com"}), ErrDuplicate)

	_, err = repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
