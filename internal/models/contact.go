package models

import "time"

// Contact belongs to exactly one user; every query is scoped by UserID.
type Contact struct {
	ID          int       `json:"id"`
	UserID      int       `json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Birthday    time.Time `json:"birthday"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
