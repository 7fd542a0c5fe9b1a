package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/reverseauction/internal/server/categories"
	"github.com/dmitrijs2005/reverseauction/internal/server/listings"
	"github.com/dmitrijs2005/reverseauction/internal/server/migrations"
	"github.com/dmitrijs2005/reverseauction/internal/server/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db         *sql.DB
	users      *users.PostgresRepository
	listings   *listings.PostgresRepository
	categories *categories.PostgresRepository
}

// NewPostgresRepositoryManager connects to dsn and brings the schema up to
// date.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return newPostgresRepositoryManager(db), nil
}

func newPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		db:         db,
		users:      users.NewPostgresRepository(db),
		listings:   listings.NewPostgresRepository(db),
		categories: categories.NewPostgresRepository(db),
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (m *PostgresRepositoryManager) Users() users.Repository { return m.users }

func (m *PostgresRepositoryManager) Listings() listings.Repository { return m.listings }

func (m *PostgresRepositoryManager) Categories() categories.Repository { return m.categories }

func (m *PostgresRepositoryManager) Close() error { return m.db.Close() }
