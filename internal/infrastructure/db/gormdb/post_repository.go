package gormdb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

// PostRepository persists posts and resolves each post's author from the
// reader user table.
type PostRepository struct {
	store   *Store
	reads   PostFinder
	written PostFinder
	authors UserFinder
}

var _ ports.PostRepository = (*PostRepository)(nil)

func NewPostRepository(store *Store) *PostRepository {
	return newPostRepository(store, newUserTable(store.Reader, store.Tables.ReaderUsers))
}

func newPostRepository(store *Store, authors UserFinder) *PostRepository {
	return &PostRepository{
		store:   store,
		reads:   newPostTable(store.Reader, store.Tables.ReaderPosts),
		written: newPostTable(store.Writer, store.Tables.Posts),
		authors: authors,
	}
}

// ── read path: reader connection ─────────────────────────────────────────────

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, bool, error) {
	p, found, err := r.reads.FindUnique(ctx, id)
	if err != nil || !found {
		return nil, found, err
	}
	if p.Author, _, err = r.authors.FindUnique(ctx, p.AuthorID); err != nil {
		return nil, false, fmt.Errorf("resolve author of post %d: %w", id, err)
	}
	return p, true, nil
}

// FindAll returns every post with its author attached. Authors are fetched in
// one batched query however many posts there are.
func (r *PostRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	posts, err := r.reads.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	authors, err := r.authors.FindMany(ctx, authorIDs(posts))
	if err != nil {
		return nil, fmt.Errorf("resolve post authors: %w", err)
	}
	byID := make(map[int64]*domain.User, len(authors))
	for i := range authors {
		byID[authors[i].ID] = &authors[i]
	}
	for i := range posts {
		posts[i].Author = byID[posts[i].AuthorID]
	}
	return posts, nil
}

func authorIDs(posts []domain.Post) []int64 {
	seen := make(map[int64]struct{}, len(posts))
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}
	return ids
}

// ── write path: writer connection, mirrored to the reader ────────────────────

// Create rejects a post whose author is not visible on the reader before
// anything is written.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	author, found, err := r.authors.FindUnique(ctx, p.AuthorID)
	if err != nil {
		return fmt.Errorf("check author %d: %w", p.AuthorID, err)
	}
	if !found {
		return domain.ErrAuthorNotFound
	}

	p.Author = nil
	err = r.store.insert(ctx, r.store.Tables.Posts, r.store.Tables.ReaderPosts, p, func() any {
		mirror := *p
		return &mirror
	})
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.Author = author
	return nil
}

func (r *PostRepository) Update(ctx context.Context, id int64, in ports.UpdatePostInput) (*domain.Post, error) {
	var author *domain.User
	if in.AuthorID != nil {
		a, found, err := r.authors.FindUnique(ctx, *in.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("check author %d: %w", *in.AuthorID, err)
		}
		if !found {
			return nil, domain.ErrAuthorNotFound
		}
		author = a
	}

	changes := map[string]any{"updated_at": time.Now().UTC()}
	if in.Title != nil {
		changes["title"] = *in.Title
	}
	if in.Content != nil {
		changes["content"] = *in.Content
	}
	if in.Published != nil {
		changes["published"] = *in.Published
	}
	if in.AuthorID != nil {
		changes["author_id"] = *in.AuthorID
	}

	err := r.store.writeBoth(ctx, "update", r.store.Tables.Posts, r.store.Tables.ReaderPosts, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Updates(changes).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}

	p, found, err := r.written.FindUnique(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrPostNotFound
	}
	if author == nil {
		if author, _, err = r.authors.FindUnique(ctx, p.AuthorID); err != nil {
			return nil, fmt.Errorf("resolve author of post %d: %w", id, err)
		}
	}
	p.Author = author
	return p, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	err := r.store.writeBoth(ctx, "delete", r.store.Tables.Posts, r.store.Tables.ReaderPosts, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&domain.Post{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}
