package ports

import (
	"context"

	"github.com/99minutos/posts-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// Lookups report absence through the found return value and never as an
// error. Mutations go to the writer store.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (user *domain.User, found bool, err error)
	FindByEmail(ctx context.Context, email string) (user *domain.User, found bool, err error)
	FindAll(ctx context.Context) ([]domain.User, error)

	// Create inserts u and fills in its ID and timestamps.
	Create(ctx context.Context, u *domain.User) error
	// Update applies only the non-nil fields of in and returns the stored row.
	Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
