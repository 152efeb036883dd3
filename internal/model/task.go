package model

import "time"

// Task represents a unit of work owned by a user.
// UserID is a plain reference to a User.ID; the store does not enforce
// that the referenced user exists.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Conclusion  time.Time `json:"conclusion"`
	Status      string    `json:"status"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"created_at"`
}
