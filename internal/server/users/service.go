package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/common"
	"github.com/dmitrijs2005/reverseauction/internal/cryptox"
	"github.com/dmitrijs2005/reverseauction/internal/server/auth"
	"github.com/dmitrijs2005/reverseauction/internal/server/config"
	"github.com/dmitrijs2005/reverseauction/internal/shared"
	"github.com/google/uuid"
)

const minPasswordLength = 6

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Register creates an unapproved account and signs it in.
func (s *Service) Register(ctx context.Context, name, email string, password []byte) (*models.AuthResponse, error) {
	a, err := s.create(ctx, name, email, password, false)
	if err != nil {
		return nil, err
	}
	return s.authResponse(a)
}

// SeedAdmin creates an approved admin unless the email is already taken.
func (s *Service) SeedAdmin(ctx context.Context, name, email string, password []byte) error {
	_, err := s.create(ctx, name, email, password, true)
	if errors.Is(err, shared.ErrorAlreadyExists) {
		return nil
	}
	return err
}

func (s *Service) create(ctx context.Context, name, email string, password []byte, admin bool) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.Errorf(shared.ErrorValidation, "name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.Errorf(shared.ErrorValidation, "invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, shared.Errorf(shared.ErrorValidation, "password must be at least %d characters", minPasswordLength)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	a := &Account{
		User: models.User{
			ID:         uuid.NewString(),
			Name:       name,
			Email:      shared.NormalizeEmail(email),
			IsAdmin:    admin,
			IsApproved: admin,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Password: hash,
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Login(ctx context.Context, email string, password []byte) (*models.AuthResponse, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, shared.ErrorInvalidLoginPassword
		}
		return nil, err
	}
	if !cryptox.CheckPassword(a.Password, password) {
		return nil, shared.ErrorInvalidLoginPassword
	}
	return s.authResponse(a)
}

func (s *Service) authResponse(a *Account) (*models.AuthResponse, error) {
	tok, err := auth.GenerateToken(a.User.ID, s.jwtSecret, s.now().Add(s.accessTokenValidityDuration))
	if err != nil {
		return nil, err
	}
	u := a.User
	return &models.AuthResponse{Token: tok, User: &u}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, tok string) (models.User, error) {
	id, err := auth.GetUserIDFromToken(tok, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return models.User{}, shared.Errorf(shared.ErrorUnauthorized, "token expired")
		}
		return models.User{}, shared.ErrorUnauthorized
	}
	u, err := s.Get(ctx, id)
	if errors.Is(err, shared.ErrorNotFound) {
		return models.User{}, shared.ErrorUnauthorized
	}
	return u, err
}

func (s *Service) Get(ctx context.Context, id string) (models.User, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return a.User, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, info models.CompanyInfo) (models.User, error) {
	return s.update(ctx, id, func(u *models.User) error {
		u.CompanyInfo = &info
		return nil
	})
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, len(accounts))
	for i, a := range accounts {
		out[i] = a.User
	}
	return out, nil
}

func (s *Service) Approve(ctx context.Context, id string) (models.User, error) {
	return s.update(ctx, id, func(u *models.User) error {
		if !u.CanTransition(models.ApprovalApproved) {
			return shared.Errorf(shared.ErrorNotAllowed, "user is already %s", u.ApprovalState())
		}
		u.IsApproved, u.IsRejected, u.RejectionReason = true, false, ""
		return nil
	})
}

func (s *Service) Reject(ctx context.Context, id, reason string) (models.User, error) {
	return s.update(ctx, id, func(u *models.User) error {
		if !u.CanTransition(models.ApprovalRejected) {
			return shared.Errorf(shared.ErrorNotAllowed, "user is %s and cannot be rejected", u.ApprovalState())
		}
		u.IsRejected, u.RejectionReason = true, strings.TrimSpace(reason)
		return nil
	})
}

func (s *Service) update(ctx context.Context, id string, fn func(*models.User) error) (models.User, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if err := fn(&a.User); err != nil {
		return models.User{}, err
	}
	a.User.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return models.User{}, err
	}
	return a.User, nil
}
