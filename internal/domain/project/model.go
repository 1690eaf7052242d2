package project

import "time"

// Status is the lifecycle state of a project.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the project is finished and no longer has an
// upcoming deadline to track.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Project is paid work for a client with a deadline
type Project struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	ClientID  string     `json:"client_id"`
	Title     string     `json:"title"`
	Budget    float64    `json:"budget"`
	Deadline  time.Time  `json:"deadline"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Client    *ClientRef `json:"client,omitempty"`
}

// ClientRef is the client summary embedded in project reads.
type ClientRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

// Stats counts a user's projects by status.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}
