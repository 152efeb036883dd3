// Package dto defines request and response shapes for the HTTP API.
package dto

import "github.com/taskdeck/taskdeck/internal/model"

// MsgResponse is the generic {"msg": ...} body used across the API.
type MsgResponse struct {
	Msg string `json:"msg"`
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmpassword"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body for POST /auth/login.
type LoginResponse struct {
	Msg    string `json:"msg"`
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// UserResponse wraps a user lookup result. The password hash is excluded
// by the model's JSON tags.
type UserResponse struct {
	User *model.User `json:"user"`
}

// CreateTaskRequest is the body for POST /task/create.
// Conclusion is a date string, RFC 3339 or YYYY-MM-DD.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Conclusion  string `json:"conclusion"`
	Status      string `json:"status"`
	UserID      string `json:"userId"`
}

// TaskResponse wraps a created task.
type TaskResponse struct {
	Task *model.Task `json:"task"`
}

// ListTasksByStatusRequest is the body for POST /task/listStatus.
type ListTasksByStatusRequest struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}
