package ports

import (
	"context"

	"github.com/99minutos/posts-api/internal/core/domain"
)

// CreateUserInput carries the fields accepted when registering a user.
type CreateUserInput struct {
	Email string
	Name  *string
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Email *string
	Name  *string
}

// Empty reports whether the update carries no fields.
func (in UpdateUserInput) Empty() bool {
	return in.Email == nil && in.Name == nil
}

// UserService defines use-case operations for users.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
