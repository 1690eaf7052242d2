package interaction

import "errors"

var (
	// ErrInteractionNotFound indicates the interaction doesn't exist or belongs to another user.
	ErrInteractionNotFound = errors.New("interaction not found")
	// ErrClientNotFound indicates the linked client doesn't exist for this user.
	ErrClientNotFound = errors.New("interaction client not found")
	// ErrProjectNotFound indicates the linked project doesn't exist for this user.
	ErrProjectNotFound = errors.New("interaction project not found")
	// ErrInvalidInput indicates invalid interaction input.
	ErrInvalidInput = errors.New("invalid interaction input")
)
