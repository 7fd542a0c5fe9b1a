package users

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/token"
	"github.com/dmitrijs2005/reverseauction/internal/server/auth"
	"github.com/dmitrijs2005/reverseauction/internal/server/config"
	"github.com/dmitrijs2005/reverseauction/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return NewService(NewInMemoryRepository(), cfg)
}

func TestService_RegisterAndLogin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	resp, err := s.Register(ctx, "Alice", "Alice@Example.org", []byte("secret1"))
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice@example.org", resp.User.Email)
	assert.False(t, resp.User.IsApproved)
	assert.True(t, token.IsValid(resp.Token, time.Now()))

	login, err := s.Login(ctx, "alice@example.org", []byte("secret1"))
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = s.Login(ctx, "alice@example.org", []byte("wrong!!"))
	assert.ErrorIs(t, err, shared.ErrorInvalidLoginPassword)
	_, err = s.Login(ctx, "nobody@example.org", []byte("secret1"))
	assert.ErrorIs(t, err, shared.ErrorInvalidLoginPassword)

	_, err = s.Register(ctx, "Alice 2", "ALICE@example.org", []byte("secret1"))
	assert.ErrorIs(t, err, shared.ErrorAlreadyExists)
}

func TestService_RegisterValidation(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"", "a@b.c", "secret1"},
		{"A", "not-an-email", "secret1"},
		{"A", "a@b.c", "short"},
	}
	for _, tt := range tests {
		_, err := s.Register(ctx, tt.name, tt.email, []byte(tt.password))
		assert.ErrorIs(t, err, shared.ErrorValidation)
	}
}

func TestService_Authenticate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	resp, err := s.Register(ctx, "Bob", "bob@example.org", []byte("secret1"))
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)

	_, err = s.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, shared.ErrorUnauthorized)

	s.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	old, err := s.Login(ctx, "bob@example.org", []byte("secret1"))
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, old.Token)
	assert.ErrorIs(t, err, shared.ErrorUnauthorized)
	assert.Equal(t, "token expired", shared.Message(err))

	foreign, err := auth.GenerateToken("ghost", []byte("secretKey"), time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, foreign)
	assert.ErrorIs(t, err, shared.ErrorUnauthorized)
}

func TestService_ApprovalTransitions(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	resp, err := s.Register(ctx, "Carol", "carol@example.org", []byte("secret1"))
	require.NoError(t, err)
	id := resp.User.ID

	u, err := s.Reject(ctx, id, " no tax id ")
	require.NoError(t, err)
	assert.True(t, u.IsRejected)
	assert.Equal(t, "no tax id", u.RejectionReason)

	_, err = s.Reject(ctx, id, "again")
	assert.ErrorIs(t, err, shared.ErrorNotAllowed)

	u, err = s.Approve(ctx, id)
	require.NoError(t, err)
	assert.True(t, u.IsApproved)
	assert.False(t, u.IsRejected)
	assert.Equal(t, models.ApprovalApproved, u.ApprovalState())

	_, err = s.Approve(ctx, id)
	assert.ErrorIs(t, err, shared.ErrorNotAllowed)

	_, err = s.Approve(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrorNotFound)
}

func TestService_SeedAdminAndProfile(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.SeedAdmin(ctx, "Root", "root@example.org", []byte("admin123")))
	require.NoError(t, s.SeedAdmin(ctx, "Root", "root@example.org", []byte("admin123")))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsAdmin)
	assert.True(t, all[0].IsApproved)

	u, err := s.UpdateProfile(ctx, all[0].ID, models.CompanyInfo{CompanyName: "Acme"})
	require.NoError(t, err)
	require.NotNil(t, u.CompanyInfo)
	assert.Equal(t, "Acme", u.CompanyInfo.CompanyName)
}
