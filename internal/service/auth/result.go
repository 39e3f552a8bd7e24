package auth

import "github.com/pollylang/pollylang-backend/internal/domain"

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string // signed session token for the cookie
	User  domain.User
}
