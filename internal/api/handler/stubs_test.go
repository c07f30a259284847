package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

type stubUserService struct {
	createFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	getFn    func(ctx context.Context, id int64) (*domain.User, error)
	listFn   func(ctx context.Context) ([]domain.User, error)
	updateFn func(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubUserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

type stubPostService struct {
	createFn func(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error)
	getFn    func(ctx context.Context, id int64) (*domain.Post, error)
	listFn   func(ctx context.Context) ([]domain.Post, error)
	updateFn func(ctx context.Context, id int64, in ports.UpdatePostInput) (*domain.Post, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubPostService) CreatePost(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	return s.createFn(ctx, in)
}

func (s *stubPostService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.getFn(ctx, id)
}

func (s *stubPostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.listFn(ctx)
}

func (s *stubPostService) UpdatePost(ctx context.Context, id int64, in ports.UpdatePostInput) (*domain.Post, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubPostService) DeletePost(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

// newContext builds an echo context for method/target with an optional JSON
// body and :id parameter.
func newContext(method, target, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

// expectHTTPError asserts err is an echo.HTTPError with the given code.
func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func ptr[T any](v T) *T { return &v }
