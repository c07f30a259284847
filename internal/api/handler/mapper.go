package handler

import (
	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateUserInput(req createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{Email: req.Email, Name: req.Name}
}

func toUpdateUserInput(req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{Email: req.Email, Name: req.Name}
}

func toCreatePostInput(req createPostRequest) ports.CreatePostInput {
	in := ports.CreatePostInput{
		Title:    sanitizeTitle(req.Title),
		Content:  sanitizeContent(req.Content),
		AuthorID: req.AuthorID,
	}
	if req.Published != nil {
		in.Published = *req.Published
	}
	return in
}

func toUpdatePostInput(req updatePostRequest) ports.UpdatePostInput {
	in := ports.UpdatePostInput{
		Content:   sanitizeContent(req.Content),
		Published: req.Published,
		AuthorID:  req.AuthorID,
	}
	if req.Title != nil {
		title := sanitizeTitle(*req.Title)
		in.Title = &title
	}
	return in
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

func toPostResponse(p *domain.Post) postResponse {
	resp := postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Author != nil {
		author := toUserResponse(p.Author)
		resp.Author = &author
	}
	return resp
}

func toPostResponses(posts []domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	return out
}
