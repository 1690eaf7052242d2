package interaction

import "time"

// Interaction is a logged touchpoint (call, meeting, email, ...). It may link
// to a client, a project, both or neither.
type Interaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ClientID  *string   `json:"client_id,omitempty"`
	ProjectID *string   `json:"project_id,omitempty"`
	Date      time.Time `json:"date"`
	Type      string    `json:"type"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListOptions provides filtering options for listing interactions.
type ListOptions struct {
	ClientID  *string
	ProjectID *string
}
