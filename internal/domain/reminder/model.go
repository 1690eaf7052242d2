package reminder

import (
	"time"

	"github.com/rpggio/crmdesk/internal/domain/project"
)

const (
	// TypeAutomatic tags reminders created by the deadline synchronizer.
	TypeAutomatic = "automatic"
	// TypeProjectDeadline tags virtual weekly entries derived from projects.
	TypeProjectDeadline = "project_deadline"
)

// Reminder is a dated note owned by a user, optionally linked to a client or
// project.
type Reminder struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Type        string    `json:"type,omitempty"`
	ClientID    *string   `json:"client_id,omitempty"`
	ProjectID   *string   `json:"project_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectRef is the project summary embedded in weekly entries.
type ProjectRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WeeklyItem is one entry of the "due this week" view. Entries derived from a
// project deadline carry the project's id and have no persisted row.
type WeeklyItem struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	DueDate     time.Time          `json:"due_date"`
	Type        string             `json:"type"`
	Virtual     bool               `json:"virtual"`
	Project     *ProjectRef        `json:"project,omitempty"`
	Client      *project.ClientRef `json:"client,omitempty"`
	ClientID    *string            `json:"client_id,omitempty"`
}

// SyncResult summarizes one synchronizer run.
type SyncResult struct {
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Failed    []string `json:"failed,omitempty"`
}
