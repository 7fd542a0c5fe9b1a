package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/reverseauction/internal/client/config"
	"github.com/dmitrijs2005/reverseauction/internal/filex"
)

// Open returns the session repository selected by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config) (SessionRepository, error) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		return OpenRedis(ctx, cfg.RedisAddr, "", cfg.RedisDB)
	case config.StorageSQLite, "":
		if _, err := filex.EnsureParentDir(cfg.StoragePath); err != nil {
			return nil, err
		}
		db, err := InitDatabase(ctx, cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
