package domain

import "errors"

var (
	// ErrNotFound indicates that a referenced user, meal or workout does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict, such as an email already in use.
	ErrDuplicate = errors.New("already exists")
)
