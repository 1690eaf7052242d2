package reminder

import "errors"

var (
	// ErrReminderNotFound indicates the reminder doesn't exist or belongs to another user.
	ErrReminderNotFound = errors.New("reminder not found")
	// ErrClientNotFound indicates the linked client doesn't exist for this user.
	ErrClientNotFound = errors.New("reminder client not found")
	// ErrProjectNotFound indicates the linked project doesn't exist for this user.
	ErrProjectNotFound = errors.New("reminder project not found")
	// ErrInvalidInput indicates invalid reminder input.
	ErrInvalidInput = errors.New("invalid reminder input")
	// ErrSyncIncomplete indicates at least one project could not be synchronized.
	ErrSyncIncomplete = errors.New("project deadline sync incomplete")
)
