package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/cryptox"
	"github.com/dmitrijs2005/reverseauction/internal/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

var (
	created = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	columns = []string{"id", "name", "email", "salt", "password_verifier", "company_info",
		"is_admin", "is_approved", "is_rejected", "rejection_reason", "created_at", "updated_at"}
)

func account() *Account {
	return &Account{
		User: models.User{
			ID: "u-1", Name: "Acme", Email: "Buyer@Acme.test",
			CreatedAt: created, UpdatedAt: created,
		},
		Password: cryptox.PasswordHash{Salt: []byte("salt"), Verifier: []byte("ver")},
	}
}

func TestPostgresCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs("u-1", "Acme", "buyer@acme.test", []byte("salt"), []byte("ver"), sqlmock.AnyArg(),
			false, false, false, "", created, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), account())
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.User.ID)
}

func TestPostgresCreate_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), account())
	require.ErrorIs(t, err, shared.ErrorAlreadyExists)
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), account())
	require.ErrorContains(t, err, "db error: db down")
}

func TestPostgresGetByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).
		AddRow("u-1", "Acme", "buyer@acme.test", []byte("salt"), []byte("ver"), []byte(`{"companyName":"Acme Ltd"}`),
			false, true, false, "", created, created)
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("buyer@acme.test").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), " Buyer@Acme.test ")
	require.NoError(t, err)
	assert.True(t, got.User.IsApproved)
	require.NotNil(t, got.User.CompanyInfo)
	assert.Equal(t, "Acme Ltd", got.User.CompanyInfo.CompanyName)
	assert.Equal(t, []byte("ver"), got.Password.Verifier)
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, shared.ErrorNotFound)
}

func TestPostgresUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	a := account()
	a.User.IsApproved = true

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET`).
		WithArgs("u-1", "Acme", sqlmock.AnyArg(), true, false, "", created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), a))

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Update(context.Background(), a), shared.ErrorNotFound)
}

func TestPostgresList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).
		AddRow("u-1", "A", "a@x.test", []byte("s"), []byte("v"), nil, true, true, false, "", created, created).
		AddRow("u-2", "B", "b@x.test", []byte("s"), []byte("v"), nil, false, false, true, "spam", created, created)
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+ORDER\s+BY`).WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].User.IsAdmin)
	assert.Equal(t, models.ApprovalRejected, list[1].User.ApprovalState())
	assert.Nil(t, list[1].User.CompanyInfo)
}
