package services

import (
	"context"

	"github.com/mkalvans/farmline/internal/client/api"
	"github.com/mkalvans/farmline/internal/client/models"
)

// UserService is the administrative user surface.
type UserService interface {
	// ListUsers returns all registered identities with roles normalized to
	// their canonical names.
	ListUsers(ctx context.Context) ([]models.Identity, error)

	// DeleteUser removes an account by ID.
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	api api.Client
}

// NewUserService constructs a UserService over the REST client.
func NewUserService(client api.Client) UserService {
	return &userService{api: client}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.Identity, error) {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Role = string(models.NormalizeRole(users[i].Role))
	}
	return users, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	return s.api.DeleteUser(ctx, id)
}
