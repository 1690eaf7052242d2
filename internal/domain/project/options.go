package project

import "time"

// ListOptions provides filtering options for listing projects.
type ListOptions struct {
	ClientID        string
	DeadlineFrom    *time.Time
	DeadlineTo      *time.Time
	ExcludeStatuses []Status
}
