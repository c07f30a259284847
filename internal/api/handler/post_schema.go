package handler

import "time"

type createPostRequest struct {
	Title     string  `json:"title" validate:"required,min=1,max=255"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
	AuthorID  int64   `json:"authorId" validate:"required,gte=1"`
}

// updatePostRequest only touches the fields present in the body.
type updatePostRequest struct {
	Title     *string `json:"title" validate:"omitnil,min=1,max=255"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
	AuthorID  *int64  `json:"authorId" validate:"omitnil,gte=1"`
}

type postResponse struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Content   *string       `json:"content"`
	Published bool          `json:"published"`
	AuthorID  int64         `json:"authorId"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Author    *userResponse `json:"author,omitempty"`
}
