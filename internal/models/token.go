package models

import "time"

// Access Token Response
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"type"`
	ExpiresIn int       `json:"expires_in"`
	TokenID   string    `json:"token_id"`
	UserID    int       `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
}
