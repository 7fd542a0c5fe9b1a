package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/reverseauction/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/reverseauction/internal/common"
	"github.com/redis/go-redis/v9"
)

const redisSessionHash = "market:session"

type RedisSessionRepository struct {
	rdb  *redis.Client
	hash string
}

// OpenRedis connects and pings before returning.
func OpenRedis(ctx context.Context, addr, password string, db int) (*RedisSessionRepository, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return NewRedisSessionRepository(rdb, redisSessionHash), nil
}

func NewRedisSessionRepository(rdb *redis.Client, hash string) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, hash: hash}
}

func (r *RedisSessionRepository) Load(ctx context.Context) (Credentials, error) {
	return loadCredentials(ctx, metadata.NewRedisRepository(r.rdb, r.hash))
}

func (r *RedisSessionRepository) Save(ctx context.Context, c Credentials) error {
	user, err := encodeUser(c.User)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		repo := metadata.NewRedisRepository(pipe, r.hash)
		if err := repo.Set(ctx, common.StorageKeyToken, []byte(c.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.StorageKeyUser, user)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) Clear(ctx context.Context) error {
	return metadata.NewRedisRepository(r.rdb, r.hash).Delete(ctx, common.StorageKeyToken, common.StorageKeyUser)
}

func (r *RedisSessionRepository) Close() error {
	return r.rdb.Close()
}
