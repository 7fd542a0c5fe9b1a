package listings

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

// PostgresRepository keeps each listing, bids included, as one JSONB
// document.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, l models.Listing) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO listings (id, created_at, doc)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, l.ID, l.CreatedAt, doc); err != nil {
		if dbx.IsUniqueViolation(err) {
			return shared.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.Listing, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM listings WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Listing{}, shared.Errorf(shared.ErrorNotFound, "listing not found")
		}
		return models.Listing{}, fmt.Errorf("db error: %w", err)
	}
	return decode(doc)
}

func (r *PostgresRepository) Update(ctx context.Context, l models.Listing) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET doc = $2 WHERE id = $1`, l.ID, doc)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM listings ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Listing, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		l, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func decode(doc []byte) (models.Listing, error) {
	var l models.Listing
	if err := json.Unmarshal(doc, &l); err != nil {
		return models.Listing{}, fmt.Errorf("decode listing: %w", err)
	}
	return l, nil
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return shared.Errorf(shared.ErrorNotFound, "listing not found")
	}
	return nil
}
