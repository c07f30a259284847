package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

func TestPostHandler_Create_Success(t *testing.T) {
	stub := &stubPostService{
		createFn: func(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
			if in.Title != "T" || in.AuthorID != 1 || in.Published {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Post{
				ID: 10, Title: in.Title, AuthorID: in.AuthorID,
				Author: &domain.User{ID: 1, Email: "a@x.com"},
			}, nil
		},
	}
	h := NewPostHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/v1/posts", `{"title":"T","authorId":1}`, "")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["authorId"] != float64(1) || resp["published"] != false {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	author, ok := resp["author"].(map[string]any)
	if !ok || author["email"] != "a@x.com" {
		t.Fatalf("expected embedded author, got %+v", resp["author"])
	}
}

func TestPostHandler_Create_SanitizesMarkup(t *testing.T) {
	var got ports.CreatePostInput
	stub := &stubPostService{
		createFn: func(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
			got = in
			return &domain.Post{ID: 1, Title: in.Title, Content: in.Content, AuthorID: in.AuthorID}, nil
		},
	}
	h := NewPostHandler(stub)

	body := `{"title":"<b>Hi</b><script>x()</script>","content":"<p onclick=\"x()\">ok</p><script>bad()</script>","authorId":1}`
	c, _ := newContext(http.MethodPost, "/api/v1/posts", body, "")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Title != "Hi" {
		t.Errorf("expected plain title, got %q", got.Title)
	}
	if got.Content == nil || strings.Contains(*got.Content, "script") || strings.Contains(*got.Content, "onclick") {
		t.Errorf("content not sanitised: %v", got.Content)
	}
	if got.Content != nil && !strings.Contains(*got.Content, "<p>ok</p>") {
		t.Errorf("expected safe markup kept, got %q", *got.Content)
	}
}

func TestPostHandler_Create_TitleOnlyMarkup(t *testing.T) {
	h := NewPostHandler(&stubPostService{})

	c, _ := newContext(http.MethodPost, "/api/v1/posts", `{"title":"<i></i>","authorId":1}`, "")
	expectHTTPError(t, h.Create(c), http.StatusBadRequest)
}

func TestPostHandler_Create_TitleKeepsPlainText(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want string
	}{
		"entities":         {raw: `Tom & Jerry's \"quote\"`, want: `Tom & Jerry's "quote"`},
		"max length":       {raw: strings.Repeat("&", 255), want: strings.Repeat("&", 255)},
		"tags around text": {raw: "<em>Tom & Jerry</em>", want: "Tom & Jerry"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var got string
			stub := &stubPostService{
				createFn: func(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
					got = in.Title
					return &domain.Post{ID: 1, Title: in.Title, AuthorID: in.AuthorID}, nil
				},
			}
			h := NewPostHandler(stub)

			body := `{"title":"` + tc.raw + `","authorId":1}`
			c, rec := newContext(http.MethodPost, "/api/v1/posts", body, "")
			if err := h.Create(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("title = %q, want %q", got, tc.want)
			}
			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["title"] != tc.want {
				t.Fatalf("response title = %v, want %q", resp["title"], tc.want)
			}
		})
	}
}

func TestPostHandler_Update_TitleKeepsPlainText(t *testing.T) {
	var got *string
	stub := &stubPostService{
		updateFn: func(ctx context.Context, id int64, in ports.UpdatePostInput) (*domain.Post, error) {
			got = in.Title
			return &domain.Post{ID: id, Title: *in.Title, AuthorID: 1}, nil
		},
	}
	h := NewPostHandler(stub)

	c, _ := newContext(http.MethodPatch, "/api/v1/posts/3", `{"title":"R&D's plan"}`, "3")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil || *got != "R&D's plan" {
		t.Fatalf("unexpected title: %v", got)
	}
}

func TestPostHandler_Create_TitleTooLong(t *testing.T) {
	h := NewPostHandler(&stubPostService{})

	body := `{"title":"` + strings.Repeat("a", 256) + `","authorId":1}`
	c, _ := newContext(http.MethodPost, "/api/v1/posts", body, "")
	expectHTTPError(t, h.Create(c), http.StatusBadRequest)
}

func TestCheckTitle(t *testing.T) {
	if err := checkTitle(strings.Repeat("é", maxTitleLength)); err != nil {
		t.Fatalf("255 runes should pass: %v", err)
	}
	if checkTitle(strings.Repeat("é", maxTitleLength+1)) != errLongTitle {
		t.Fatal("256 runes should fail")
	}
	if checkTitle("") != errEmptyTitle {
		t.Fatal("empty title should fail")
	}
}

func TestPostHandler_Create_ValidationErrors(t *testing.T) {
	h := NewPostHandler(&stubPostService{})

	cases := map[string]string{
		"missing title":  `{"authorId":1}`,
		"long title":     `{"title":"` + strings.Repeat("t", 256) + `","authorId":1}`,
		"missing author": `{"title":"T"}`,
		"zero author":    `{"title":"T","authorId":0}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/api/v1/posts", body, "")
			expectHTTPError(t, h.Create(c), http.StatusBadRequest)
		})
	}
}

func TestPostHandler_Create_UnknownAuthor(t *testing.T) {
	stub := &stubPostService{
		createFn: func(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
			return nil, domain.ErrAuthorNotFound
		},
	}
	h := NewPostHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/v1/posts", `{"title":"T","authorId":999999}`, "")
	if err := h.Create(c); !errors.Is(err, domain.ErrReference) {
		t.Fatalf("expected reference error, got %v", err)
	}
}

func TestPostHandler_Update_Partial(t *testing.T) {
	stub := &stubPostService{
		updateFn: func(ctx context.Context, id int64, in ports.UpdatePostInput) (*domain.Post, error) {
			if in.Title != nil || in.AuthorID != nil || in.Published == nil || !*in.Published {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Post{ID: id, Title: "kept", Published: true, AuthorID: 1}, nil
		},
	}
	h := NewPostHandler(stub)

	c, rec := newContext(http.MethodPatch, "/api/v1/posts/4", `{"published":true}`, "4")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPostHandler_Update_RejectsExplicitZeroAuthor(t *testing.T) {
	h := NewPostHandler(&stubPostService{})

	c, _ := newContext(http.MethodPatch, "/api/v1/posts/4", `{"authorId":0}`, "4")
	expectHTTPError(t, h.Update(c), http.StatusBadRequest)
}

func TestPostHandler_Get_NotFound(t *testing.T) {
	stub := &stubPostService{
		getFn: func(ctx context.Context, id int64) (*domain.Post, error) {
			return nil, domain.ErrPostNotFound
		},
	}
	h := NewPostHandler(stub)

	c, _ := newContext(http.MethodGet, "/api/v1/posts/8", "", "8")
	if err := h.Get(c); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostHandler_List(t *testing.T) {
	stub := &stubPostService{
		listFn: func(ctx context.Context) ([]domain.Post, error) {
			return []domain.Post{
				{ID: 1, Title: "a", AuthorID: 1, Author: &domain.User{ID: 1}},
				{ID: 2, Title: "b", AuthorID: 2, Author: &domain.User{ID: 2}},
			}, nil
		},
	}
	h := NewPostHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/v1/posts", "", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []postResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[1].Author == nil || resp[1].Author.ID != 2 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPostHandler_Delete(t *testing.T) {
	stub := &stubPostService{
		deleteFn: func(ctx context.Context, id int64) error { return nil },
	}
	h := NewPostHandler(stub)

	c, rec := newContext(http.MethodDelete, "/api/v1/posts/2", "", "2")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestSanitizeContent_Nil(t *testing.T) {
	if sanitizeContent(nil) != nil {
		t.Fatal("nil content must stay nil")
	}
	if got := sanitizeContent(ptr("plain")); got == nil || *got != "plain" {
		t.Fatalf("plain text changed: %v", got)
	}
}
