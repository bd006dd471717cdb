package models

import "time"

const (
	RoleClient = "CLIENT"
	RoleAdmin  = "ADMIN"
)

const UserStatusActive = "active"

type User struct {
	ID             int       `json:"id" db:"id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	Identification *int64    `json:"identification,omitempty" db:"identification"`
	Role           string    `json:"role" db:"role"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
