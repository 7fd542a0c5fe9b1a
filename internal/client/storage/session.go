// Package storage persists the client session (token and cached user)
// in sqlite or redis.
package storage

//go:generate mockgen -source=session.go -destination=mock_session.go -package=storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/reverseauction/internal/common"
)

// Credentials is what survives a restart. The zero value means signed out.
type Credentials struct {
	Token string
	User  *models.User
}

func (c Credentials) IsZero() bool {
	return c.Token == ""
}

// SessionRepository stores Credentials. Save and Clear touch both keys
// atomically.
type SessionRepository interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, c Credentials) error
	Clear(ctx context.Context) error
	Close() error
}

// loadCredentials reads both keys from r. A token without a decodable user is
// still returned; the caller revalidates against the server anyway.
func loadCredentials(ctx context.Context, r metadata.Repository) (Credentials, error) {
	tok, err := r.Get(ctx, common.StorageKeyToken)
	if err != nil {
		return Credentials{}, err
	}
	if len(tok) == 0 {
		return Credentials{}, nil
	}

	c := Credentials{Token: string(tok)}

	raw, err := r.Get(ctx, common.StorageKeyUser)
	if err != nil {
		return Credentials{}, err
	}
	if len(raw) > 0 {
		var u models.User
		if err := json.Unmarshal(raw, &u); err == nil {
			c.User = &u
		}
	}
	return c, nil
}

func encodeUser(u *models.User) ([]byte, error) {
	if u == nil {
		return []byte("null"), nil
	}
	b, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	return b, nil
}
