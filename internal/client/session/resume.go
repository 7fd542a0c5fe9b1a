package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/storage"
	"github.com/dmitrijs2005/reverseauction/internal/client/token"
)

type Outcome int

const (
	Absent Outcome = iota
	Expired
	Resumed
)

func (o Outcome) String() string {
	switch o {
	case Resumed:
		return "resumed"
	case Expired:
		return "expired"
	default:
		return "absent"
	}
}

// ResumeResult is the outcome of Resume; User is set only for Resumed.
type ResumeResult struct {
	Outcome Outcome
	User    *models.User
}

// Resume restores a stored session at start in one step:
//
//   - nothing stored: Absent
//   - token past its exp: storage purged, Expired
//   - server rejects the token: storage purged, Expired with ErrSessionExpired
//   - server unreachable: storage kept, Absent with the error
//   - otherwise: Resumed with the fresh user, Session published
func (s *Store) Resume(ctx context.Context) (ResumeResult, error) {
	s.begin()

	creds, err := s.repo.Load(ctx)
	if err != nil {
		return ResumeResult{Outcome: Absent}, s.fail(err)
	}
	if creds.IsZero() {
		s.set(models.Session{})
		return ResumeResult{Outcome: Absent}, nil
	}

	if !token.IsValid(creds.Token, s.now()) {
		s.log.Info(ctx, "stored token expired")
		s.purge(ctx)
		return ResumeResult{Outcome: Expired}, nil
	}

	var u models.User
	err = s.api.Get(client.WithToken(ctx, creds.Token), "/auth/me", &u)
	switch {
	case err == nil:
	case errors.Is(err, client.ErrUnauthorized):
		s.log.Info(ctx, "stored token rejected")
		s.purge(ctx)
		return ResumeResult{Outcome: Expired}, s.fail(ErrSessionExpired)
	default:
		s.log.Warn(ctx, "resume: server unreachable, keeping stored session", "error", err)
		return ResumeResult{Outcome: Absent}, s.fail(err)
	}

	if err := s.repo.Save(ctx, storage.Credentials{Token: creds.Token, User: &u}); err != nil {
		s.log.Warn(ctx, "refresh stored user", "error", err)
	}
	s.set(models.NewSession(creds.Token, u))
	s.log.Info(ctx, "session resumed", "user_id", u.ID)
	return ResumeResult{Outcome: Resumed, User: &u}, nil
}

func (s *Store) purge(ctx context.Context) {
	if err := s.repo.Clear(ctx); err != nil {
		s.log.Warn(ctx, "clear stored session", "error", err)
	}
	s.set(models.Session{})
}
