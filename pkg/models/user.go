package models

import "time"

// User represents a user owned by the user service.
type User struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	Email     string    `json:"email" db:"email" binding:"required,email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required" example:"John Doe"`
	Email string `json:"email" binding:"required,email" example:"john@example.com"`
}

// UpdateUserRequest is the request body for updating a user.
type UpdateUserRequest struct {
	Name  string `json:"name,omitempty" binding:"omitempty" example:"John Doe"`
	Email string `json:"email,omitempty" binding:"omitempty,email" example:"john@example.com"`
}
