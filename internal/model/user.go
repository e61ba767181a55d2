package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the authenticated identity resolved from a bearer token.
// It never carries the password hash.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (u User) Principal() Principal {
	return Principal{ID: u.ID, Username: u.Username}
}

// AuthClaims is the decoded payload of a verified access token.
type AuthClaims struct {
	UserID    int64
	Username  string
	Kind      string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Principal `json:"user"`
}
