package gormdb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

// UserRepository persists users across the reader and writer stores.
type UserRepository struct {
	store *Store
	// reads resolves lookups; written re-reads a row right after a write,
	// before a lagging replica could have caught up.
	reads   UserFinder
	written UserFinder
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{
		store:   store,
		reads:   newUserTable(store.Reader, store.Tables.ReaderUsers),
		written: newUserTable(store.Writer, store.Tables.Users),
	}
}

// ── read path: reader connection ─────────────────────────────────────────────

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, bool, error) {
	return r.reads.FindUnique(ctx, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	return r.reads.FindFirst(ctx, email)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.reads.FindAll(ctx)
}

// FindByIDs returns the users among ids that exist, in no particular order.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	return r.reads.FindMany(ctx, ids)
}

// ── write path: writer connection, mirrored to the reader ────────────────────

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.store.insert(ctx, r.store.Tables.Users, r.store.Tables.ReaderUsers, u, func() any {
		mirror := *u
		return &mirror
	})
	if err != nil {
		if isDuplicateKey(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	changes := map[string]any{"updated_at": time.Now().UTC()}
	if in.Email != nil {
		changes["email"] = *in.Email
	}
	if in.Name != nil {
		changes["name"] = *in.Name
	}

	err := r.store.writeBoth(ctx, "update", r.store.Tables.Users, r.store.Tables.ReaderUsers, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Updates(changes).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	u, found, err := r.written.FindUnique(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	err := r.store.writeBoth(ctx, "delete", r.store.Tables.Users, r.store.Tables.ReaderUsers, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&domain.User{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
