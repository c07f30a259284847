package ports

import (
	"context"

	"github.com/99minutos/posts-api/internal/core/domain"
)

// CreatePostInput carries the fields accepted when publishing a post.
type CreatePostInput struct {
	Title     string
	Content   *string
	Published bool
	AuthorID  int64
}

// UpdatePostInput is a partial update; nil fields are left untouched.
type UpdatePostInput struct {
	Title     *string
	Content   *string
	Published *bool
	AuthorID  *int64
}

// Empty reports whether the update carries no fields.
func (in UpdatePostInput) Empty() bool {
	return in.Title == nil && in.Content == nil && in.Published == nil && in.AuthorID == nil
}

// PostService defines use-case operations for posts.
type PostService interface {
	CreatePost(ctx context.Context, in CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	UpdatePost(ctx context.Context, id int64, in UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id int64) error
}
