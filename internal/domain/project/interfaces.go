package project

import (
	"context"

	"github.com/rpggio/crmdesk/internal/domain/client"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, userID string, proj *Project) error
	Get(ctx context.Context, userID, id string) (*Project, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]Project, error)
	Update(ctx context.Context, userID string, proj *Project) error
	Delete(ctx context.Context, userID, id string) error
	CountByStatus(ctx context.Context, userID string) (map[Status]int, error)
}

// ClientRepository resolves the client a project belongs to.
type ClientRepository interface {
	Get(ctx context.Context, userID, id string) (*client.Client, error)
}

// InteractionRepository removes a project's interactions.
type InteractionRepository interface {
	DeleteByProject(ctx context.Context, userID, projectID string) (int64, error)
}

// ReminderRepository removes a project's reminders.
type ReminderRepository interface {
	DeleteByProject(ctx context.Context, userID, projectID string) (int64, error)
}

// Stores groups the repositories bound to one transaction.
type Stores struct {
	Projects     Repository
	Interactions InteractionRepository
	Reminders    ReminderRepository
}

// Transactor runs fn with repositories sharing a single transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
