package client

import "context"

// Repository provides persistence for clients.
type Repository interface {
	Create(ctx context.Context, userID string, c *Client) error
	Get(ctx context.Context, userID, id string) (*Client, error)
	List(ctx context.Context, userID string) ([]ClientSummary, error)
	Update(ctx context.Context, userID string, c *Client) error
	Delete(ctx context.Context, userID, id string) error
}

// ProjectRepository provides the project operations a client delete needs.
type ProjectRepository interface {
	ListIDsByClient(ctx context.Context, userID, clientID string) ([]string, error)
	DeleteByClient(ctx context.Context, userID, clientID string) (int64, error)
}

// InteractionRepository provides the interaction operations a client delete needs.
type InteractionRepository interface {
	DeleteByProject(ctx context.Context, userID, projectID string) (int64, error)
	DeleteByClient(ctx context.Context, userID, clientID string) (int64, error)
}

// ReminderRepository provides the reminder operations a client delete needs.
type ReminderRepository interface {
	DeleteByProject(ctx context.Context, userID, projectID string) (int64, error)
	DeleteByClient(ctx context.Context, userID, clientID string) (int64, error)
}

// Stores groups the repositories bound to one transaction.
type Stores struct {
	Clients      Repository
	Projects     ProjectRepository
	Interactions InteractionRepository
	Reminders    ReminderRepository
}

// Transactor runs fn with repositories sharing a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
