package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/reverseauction/internal/client/config"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "market.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "market.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestInitDatabase_BadPath(t *testing.T) {
	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	require.Error(t, err)
}

func newSQLiteRepo(t *testing.T) *SQLiteSessionRepository {
	t.Helper()
	db, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "market.db"))
	require.NoError(t, err)
	r := NewSQLiteSessionRepository(db)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLiteSession_LoadEmpty(t *testing.T) {
	r := newSQLiteRepo(t)

	c, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, c.IsZero())
	assert.Nil(t, c.User)
}

func TestSQLiteSession_SaveLoadClear(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	u := &models.User{ID: "u1", Name: "Acme", Email: "a@acme.io", IsApproved: true}

	require.NoError(t, r.Save(ctx, Credentials{Token: "tok-1", User: u}))

	c, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", c.Token)
	require.NotNil(t, c.User)
	assert.Equal(t, "u1", c.User.ID)
	assert.True(t, c.User.IsApproved)

	require.NoError(t, r.Save(ctx, Credentials{Token: "tok-2", User: u}))
	c, err = r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", c.Token)

	require.NoError(t, r.Clear(ctx))
	require.NoError(t, r.Clear(ctx))
	c, err = r.Load(ctx)
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}

func TestSQLiteSession_CorruptUserKeepsToken(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := r.db.ExecContext(ctx, `INSERT INTO metadata(key, value) VALUES ('token', 'tok'), ('user', '{broken')`)
	require.NoError(t, err)

	c, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", c.Token)
	assert.Nil(t, c.User)
}

func TestSQLiteSession_SaveIsAtomic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO metadata").WithArgs("token", []byte("tok")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO metadata").WithArgs("user", sqlmock.AnyArg()).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	r := NewSQLiteSessionRepository(db)
	err = r.Save(context.Background(), Credentials{Token: "tok", User: &models.User{ID: "u1"}})
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoragePath = filepath.Join(t.TempDir(), "nested", "open.db")

	repo, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer repo.Close()
	assert.IsType(t, &SQLiteSessionRepository{}, repo)
}

func TestOpen_Errors(t *testing.T) {
	cfg := &config.Config{StorageBackend: "bolt"}
	_, err := Open(context.Background(), cfg)
	require.Error(t, err)

	cfg = &config.Config{StorageBackend: config.StorageRedis}
	_, err = Open(context.Background(), cfg)
	require.ErrorContains(t, err, "empty redis addr")
}

func TestRedisSession_SaveLoadClear(t *testing.T) {
	addr := os.Getenv("MARKET_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MARKET_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	r := NewRedisSessionRepository(rdb, "test:session:"+uuid.NewString())
	defer r.Close()
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, Credentials{Token: "tok", User: &models.User{ID: "u1"}}))
	c, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", c.Token)
	require.NotNil(t, c.User)
	assert.Equal(t, "u1", c.User.ID)

	require.NoError(t, r.Clear(ctx))
	c, err = r.Load(ctx)
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}
