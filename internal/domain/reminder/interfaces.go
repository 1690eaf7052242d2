package reminder

import (
	"context"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/project"
)

// Repository provides persistence for reminders.
type Repository interface {
	Create(ctx context.Context, userID string, r *Reminder) error
	Get(ctx context.Context, userID, id string) (*Reminder, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]Reminder, error)
	Update(ctx context.Context, userID string, r *Reminder) error
	Delete(ctx context.Context, userID, id string) error
	ListAutomatic(ctx context.Context, userID, projectID string) ([]Reminder, error)
}

// ProjectRepository provides the project reads reminders depend on.
type ProjectRepository interface {
	Get(ctx context.Context, userID, id string) (*project.Project, error)
	List(ctx context.Context, userID string, opts project.ListOptions) ([]project.Project, error)
}

// ClientRepository resolves linked clients.
type ClientRepository interface {
	Get(ctx context.Context, userID, id string) (*client.Client, error)
}

// Transactor runs fn with a reminder repository bound to one transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
