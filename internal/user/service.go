package user

import (
	"context"
	"errors"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	// CreateUser stores u and fills in its ID and CreatedAt. It returns
	// ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, u *User) error
	// GetUser and GetUserByEmail return ErrNotFound when nothing matches.
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Profile(ctx context.Context, id string) (*Profile, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, apperr.Storage("user.Profile", err)
	}

	return u.Profile(), nil
}
