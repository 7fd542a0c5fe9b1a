package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
)

// UserService is the admin view of accounts.
type UserService struct {
	api API
}

func NewUserService(api API) *UserService {
	return &UserService{api: api}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.api.Get(ctx, "/auth/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Approve moves a pending or rejected account to approved.
func (s *UserService) Approve(ctx context.Context, u models.User) (models.User, error) {
	if !u.CanTransition(models.ApprovalApproved) {
		return models.User{}, client.BusinessRule(fmt.Sprintf("user %s is already %s", u.Email, u.ApprovalState()))
	}
	var out models.User
	err := s.api.Put(ctx, "/auth/users/"+pathID(u.ID)+"/approve", nil, &out)
	return out, err
}

// Reject moves a pending account to rejected.
func (s *UserService) Reject(ctx context.Context, u models.User, reason string) (models.User, error) {
	if !u.CanTransition(models.ApprovalRejected) {
		return models.User{}, client.BusinessRule(fmt.Sprintf("user %s is %s and cannot be rejected", u.Email, u.ApprovalState()))
	}
	var out models.User
	err := s.api.Put(ctx, "/auth/users/"+pathID(u.ID)+"/reject", models.RejectRequest{Reason: reason}, &out)
	return out, err
}

// Find returns the user with id from List.
func (s *UserService) Find(ctx context.Context, id string) (models.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, &client.Error{Kind: client.ErrNotFound}
}
