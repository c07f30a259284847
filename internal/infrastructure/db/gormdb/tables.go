package gormdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/99minutos/posts-api/internal/core/domain"
)

// UserFinder is the read capability over a single user table.
type UserFinder interface {
	FindUnique(ctx context.Context, id int64) (*domain.User, bool, error)
	FindFirst(ctx context.Context, email string) (*domain.User, bool, error)
	FindMany(ctx context.Context, ids []int64) ([]domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

// PostFinder is the read capability over a single post table.
type PostFinder interface {
	FindUnique(ctx context.Context, id int64) (*domain.Post, bool, error)
	FindAll(ctx context.Context) ([]domain.Post, error)
}

// userTable binds a connection handle to one user table. Which handle and
// which table is decided once, when the repository is built.
type userTable struct {
	db   *gorm.DB
	name string
}

func newUserTable(db *gorm.DB, name string) userTable {
	return userTable{db: db, name: name}
}

func (t userTable) query(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Table(t.name)
}

func (t userTable) FindUnique(ctx context.Context, id int64) (*domain.User, bool, error) {
	return t.first(ctx, "id = ?", id)
}

func (t userTable) FindFirst(ctx context.Context, email string) (*domain.User, bool, error) {
	return t.first(ctx, "email = ?", email)
}

func (t userTable) first(ctx context.Context, cond string, arg any) (*domain.User, bool, error) {
	var u domain.User
	res := t.query(ctx).Where(cond, arg).Limit(1).Find(&u)
	if res.Error != nil {
		return nil, false, fmt.Errorf("query %s: %w", t.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return &u, true, nil
}

func (t userTable) FindMany(ctx context.Context, ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []domain.User
	if err := t.query(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}
	return users, nil
}

func (t userTable) FindAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := t.query(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}
	return users, nil
}

type postTable struct {
	db   *gorm.DB
	name string
}

func newPostTable(db *gorm.DB, name string) postTable {
	return postTable{db: db, name: name}
}

func (t postTable) query(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Table(t.name)
}

func (t postTable) FindUnique(ctx context.Context, id int64) (*domain.Post, bool, error) {
	var p domain.Post
	res := t.query(ctx).Where("id = ?", id).Limit(1).Find(&p)
	if res.Error != nil {
		return nil, false, fmt.Errorf("query %s: %w", t.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return &p, true, nil
}

func (t postTable) FindAll(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := t.query(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}
	return posts, nil
}
