package client

import "time"

// Client is a customer tracked by a user.
type Client struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientSummary is a client with counts of its dependent rows.
type ClientSummary struct {
	Client
	ProjectCount     int `json:"project_count"`
	InteractionCount int `json:"interaction_count"`
	ReminderCount    int `json:"reminder_count"`
}

// DeleteResult reports a completed cascading delete.
type DeleteResult struct {
	Client              Client `json:"client"`
	ProjectsDeleted     int64  `json:"projects_deleted"`
	InteractionsDeleted int64  `json:"interactions_deleted"`
	RemindersDeleted    int64  `json:"reminders_deleted"`
}
