// Package app holds the application services and business logic.
package app

import "errors"

var (
	// ErrInvalidCredentials indicates that the provided password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken indicates a missing, malformed, mis-signed or expired token.
	ErrInvalidToken = errors.New("invalid token")
)

// TokenProvider issues and checks bearer tokens keyed by user email.
type TokenProvider interface {
	CreateToken(email string) (string, error)
	ValidateToken(token string) bool
	Subject(token string) (string, error)
}
