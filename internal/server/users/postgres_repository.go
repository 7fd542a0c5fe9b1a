package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/dbx"
	"github.com/dmitrijs2005/reverseauction/internal/shared"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, salt, password_verifier, company_info,
		is_admin, is_approved, is_rejected, rejection_reason, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, a *Account) (*Account, error) {
	info, err := encodeCompanyInfo(a.User.CompanyInfo)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (` + userColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 `

	_, err = r.db.ExecContext(ctx, query,
		a.User.ID, a.User.Name, shared.NormalizeEmail(a.User.Email), a.Password.Salt, a.Password.Verifier, info,
		a.User.IsAdmin, a.User.IsApproved, a.User.IsRejected, a.User.RejectionReason, a.User.CreatedAt, a.User.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, shared.Errorf(shared.ErrorAlreadyExists, "email %s is already registered", a.User.Email)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	out := *a
	return &out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, shared.NormalizeEmail(email)))
}

func (r *PostgresRepository) Update(ctx context.Context, a *Account) error {
	info, err := encodeCompanyInfo(a.User.CompanyInfo)
	if err != nil {
		return err
	}

	query :=
		`UPDATE users SET name = $2, company_info = $3, is_approved = $4, is_rejected = $5,
		 rejection_reason = $6, updated_at = $7
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		a.User.ID, a.User.Name, info, a.User.IsApproved, a.User.IsRejected, a.User.RejectionReason, a.User.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return shared.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Account, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*Account, error) {
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrorNotFound
	}
	return a, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*Account, error) {
	a := &Account{}
	var info []byte
	err := s.Scan(&a.User.ID, &a.User.Name, &a.User.Email, &a.Password.Salt, &a.Password.Verifier, &info,
		&a.User.IsAdmin, &a.User.IsApproved, &a.User.IsRejected, &a.User.RejectionReason, &a.User.CreatedAt, &a.User.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(info) > 0 {
		a.User.CompanyInfo = &models.CompanyInfo{}
		if err := json.Unmarshal(info, a.User.CompanyInfo); err != nil {
			return nil, fmt.Errorf("decode company info: %w", err)
		}
	}
	return a, nil
}

func encodeCompanyInfo(info *models.CompanyInfo) ([]byte, error) {
	if info == nil {
		return nil, nil
	}
	return json.Marshal(info)
}
