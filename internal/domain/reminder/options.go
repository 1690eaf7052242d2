package reminder

import "time"

// ListOptions provides filtering options for listing reminders.
type ListOptions struct {
	DueFrom      *time.Time
	DueTo        *time.Time
	ExcludeTypes []string
}
