package storage

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/reverseauction/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/reverseauction/internal/common"
	"github.com/dmitrijs2005/reverseauction/internal/dbx"
)

type SQLiteSessionRepository struct {
	db *sql.DB
}

func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

func (r *SQLiteSessionRepository) Load(ctx context.Context) (Credentials, error) {
	return loadCredentials(ctx, metadata.NewSQLiteRepository(r.db))
}

func (r *SQLiteSessionRepository) Save(ctx context.Context, c Credentials) error {
	user, err := encodeUser(c.User)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.StorageKeyToken, []byte(c.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.StorageKeyUser, user)
	})
}

func (r *SQLiteSessionRepository) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(r.db).Delete(ctx, common.StorageKeyToken, common.StorageKeyUser)
}

func (r *SQLiteSessionRepository) Close() error {
	return r.db.Close()
}
