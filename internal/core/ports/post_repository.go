package ports

import (
	"context"

	"github.com/99minutos/posts-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts. Returned posts
// carry their resolved Author.
type PostRepository interface {
	FindByID(ctx context.Context, id int64) (post *domain.Post, found bool, err error)
	// FindAll returns every post with its author resolved in a single batched
	// lookup.
	FindAll(ctx context.Context) ([]domain.Post, error)

	// Create fails with domain.ErrAuthorNotFound, without writing, when
	// p.AuthorID does not reference an existing user.
	Create(ctx context.Context, p *domain.Post) error
	// Update re-validates in.AuthorID when present before applying anything.
	Update(ctx context.Context, id int64, in UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
}
