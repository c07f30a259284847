package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

// UserService implements the user use cases on top of a UserRepository.
type UserService struct {
	repo   ports.UserRepository
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, audit ports.AuditRecorder, logger zerolog.Logger) *UserService {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &UserService{repo: repo, audit: audit, logger: logger}
}

// CreateUser registers a new user. The email must not belong to any existing
// user; in that case nothing is written.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	_, exists, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if exists {
		recordRejection(domain.EntityUser, domain.ErrEmailExists)
		return nil, domain.ErrEmailExists
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:     in.Email,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		recordRejection(domain.EntityUser, err)
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	recordMutation(s.audit, domain.EntityUser, user.ID, domain.AuditCreated)
	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns every user. No filtering or pagination is applied.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies a partial update. A changed email is re-checked for
// uniqueness before anything is written.
func (s *UserService) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	current, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if !found {
		recordRejection(domain.EntityUser, domain.ErrUserNotFound)
		return nil, domain.ErrUserNotFound
	}

	if in.Email != nil && *in.Email != current.Email {
		other, taken, err := s.repo.FindByEmail(ctx, *in.Email)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if taken && other.ID != id {
			recordRejection(domain.EntityUser, domain.ErrEmailExists)
			return nil, domain.ErrEmailExists
		}
	}

	if in.Empty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		recordRejection(domain.EntityUser, err)
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to update user")
		return nil, fmt.Errorf("update user: %w", err)
	}

	recordMutation(s.audit, domain.EntityUser, id, domain.AuditUpdated)
	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return updated, nil
}

// DeleteUser removes a user. Posts written by the user are left in place.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	_, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !found {
		recordRejection(domain.EntityUser, domain.ErrUserNotFound)
		return domain.ErrUserNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		return fmt.Errorf("delete user: %w", err)
	}

	recordMutation(s.audit, domain.EntityUser, id, domain.AuditDeleted)
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
