package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

// PostService implements the post use cases on top of a PostRepository.
// Author existence is owned by the repository, which checks it against the
// reader store.
type PostService struct {
	repo   ports.PostRepository
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewPostService(repo ports.PostRepository, audit ports.AuditRecorder, logger zerolog.Logger) *PostService {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &PostService{repo: repo, audit: audit, logger: logger}
}

func (s *PostService) CreatePost(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	now := time.Now().UTC()
	post := &domain.Post{
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		AuthorID:  in.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		recordRejection(domain.EntityPost, err)
		return nil, fmt.Errorf("create post: %w", err)
	}

	recordMutation(s.audit, domain.EntityPost, post.ID, domain.AuditCreated)
	s.logger.Info().Int64("post_id", post.ID).Int64("author_id", post.AuthorID).Msg("post created")
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if !found {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

// ListPosts returns every post with its author attached.
func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id int64, in ports.UpdatePostInput) (*domain.Post, error) {
	current, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if !found {
		recordRejection(domain.EntityPost, domain.ErrPostNotFound)
		return nil, domain.ErrPostNotFound
	}
	if in.Empty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		recordRejection(domain.EntityPost, err)
		return nil, fmt.Errorf("update post: %w", err)
	}

	recordMutation(s.audit, domain.EntityPost, id, domain.AuditUpdated)
	s.logger.Info().Int64("post_id", id).Msg("post updated")
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	_, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if !found {
		recordRejection(domain.EntityPost, domain.ErrPostNotFound)
		return domain.ErrPostNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("post_id", id).Msg("failed to delete post")
		return fmt.Errorf("delete post: %w", err)
	}

	recordMutation(s.audit, domain.EntityPost, id, domain.AuditDeleted)
	s.logger.Info().Int64("post_id", id).Msg("post deleted")
	return nil
}
