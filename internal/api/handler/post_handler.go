package handler

import (
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/posts-api/internal/core/ports"
)

const maxTitleLength = 255

var (
	errEmptyTitle = echo.NewHTTPError(http.StatusBadRequest, "title must contain text")
	errLongTitle  = echo.NewHTTPError(http.StatusBadRequest, "title must be at most 255 characters")
)

// checkTitle validates a title after sanitising.
func checkTitle(title string) error {
	switch {
	case title == "":
		return errEmptyTitle
	case utf8.RuneCountInString(title) > maxTitleLength:
		return errLongTitle
	}
	return nil
}

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /api/v1/posts.
//
// @Summary      Publish a post
// @Description  The author must exist. published defaults to false.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post to create"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in := toCreatePostInput(req)
	if err := checkTitle(in.Title); err != nil {
		return err
	}

	p, err := h.service.CreatePost(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPostResponse(p))
}

// Get handles GET /api/v1/posts/:id.
//
// @Summary      Get a post by id
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p, err := h.service.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(p))
}

// List handles GET /api/v1/posts.
//
// @Summary      List all posts with their authors
// @Tags         posts
// @Produce      json
// @Success      200  {array}   postResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Update handles PATCH /api/v1/posts/:id.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Post id"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/posts/{id} [patch]
func (h *PostHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in := toUpdatePostInput(req)
	if in.Title != nil {
		if err := checkTitle(*in.Title); err != nil {
			return err
		}
	}

	p, err := h.service.UpdatePost(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(p))
}

// Delete handles DELETE /api/v1/posts/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  int  true  "Post id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeletePost(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
