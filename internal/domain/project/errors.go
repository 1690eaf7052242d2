package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist or belongs to another user.
	ErrProjectNotFound = errors.New("project not found")
	// ErrClientNotFound indicates the referenced client doesn't exist for this user.
	ErrClientNotFound = errors.New("project client not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
)
