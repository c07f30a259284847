package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[int64]*domain.User
	nextID  int64
	writes  int   // number of Create/Update/Delete calls that reached the repo
	findErr error // if set, every lookup returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, bool, error) {
	if r.findErr != nil {
		return nil, false, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, false, nil
	}
	clone := *u
	return &clone, true, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, bool, error) {
	if r.findErr != nil {
		return nil, false, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, true, nil
		}
	}
	return nil, false, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.writes++
	r.nextID++
	u.ID = r.nextID
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	r.writes++
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = in.Name
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.writes++
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) seed(email string) *domain.User {
	r.nextID++
	u := &domain.User{ID: r.nextID, Email: email}
	r.byID[u.ID] = u
	return u
}

// stubPostRepo mirrors the author semantics of the real repository: it
// validates AuthorID against users and attaches the author on every read.
type stubPostRepo struct {
	users  *stubUserRepo
	byID   map[int64]*domain.Post
	nextID int64
	writes int
}

func newStubPostRepo(users *stubUserRepo) *stubPostRepo {
	return &stubPostRepo{users: users, byID: make(map[int64]*domain.Post)}
}

func (r *stubPostRepo) withAuthor(p domain.Post) domain.Post {
	if u, ok := r.users.byID[p.AuthorID]; ok {
		clone := *u
		p.Author = &clone
	}
	return p
}

func (r *stubPostRepo) FindByID(_ context.Context, id int64) (*domain.Post, bool, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, false, nil
	}
	out := r.withAuthor(*p)
	return &out, true, nil
}

func (r *stubPostRepo) FindAll(_ context.Context) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, r.withAuthor(*p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	if _, ok := r.users.byID[p.AuthorID]; !ok {
		return domain.ErrAuthorNotFound
	}
	r.writes++
	r.nextID++
	p.ID = r.nextID
	clone := *p
	r.byID[p.ID] = &clone
	*p = r.withAuthor(*p)
	return nil
}

func (r *stubPostRepo) Update(_ context.Context, id int64, in ports.UpdatePostInput) (*domain.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	if in.AuthorID != nil {
		if _, ok := r.users.byID[*in.AuthorID]; !ok {
			return nil, domain.ErrAuthorNotFound
		}
	}
	r.writes++
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Content != nil {
		p.Content = in.Content
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	if in.AuthorID != nil {
		p.AuthorID = *in.AuthorID
	}
	out := r.withAuthor(*p)
	return &out, nil
}

func (r *stubPostRepo) Delete(_ context.Context, id int64) error {
	r.writes++
	delete(r.byID, id)
	return nil
}

// recordingAudit captures every entry handed to it.
type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (a *recordingAudit) Record(e domain.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func ptr[T any](v T) *T { return &v }
