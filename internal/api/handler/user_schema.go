package handler

import "time"

type createUserRequest struct {
	Email string  `json:"email" validate:"required,email,max=255"`
	Name  *string `json:"name" validate:"omitnil,min=1,max=100"`
}

// updateUserRequest only touches the fields present in the body.
type updateUserRequest struct {
	Email *string `json:"email" validate:"omitnil,email,max=255"`
	Name  *string `json:"name" validate:"omitnil,min=1,max=100"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
