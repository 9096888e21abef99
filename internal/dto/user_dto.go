package dto

import "time"

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1"`
	Email string `json:"email" validate:"required,email"`
}

type UserResponse struct {
	Id        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type MemoryTurnResponse struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}
