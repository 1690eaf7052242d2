package client

import "errors"

var (
	// ErrClientNotFound indicates the client doesn't exist or belongs to another user.
	ErrClientNotFound = errors.New("client not found")
	// ErrInvalidInput indicates invalid client input.
	ErrInvalidInput = errors.New("invalid client input")
)
