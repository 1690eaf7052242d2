package interaction

import (
	"context"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/project"
)

// Repository provides persistence for interactions.
type Repository interface {
	Create(ctx context.Context, userID string, in *Interaction) error
	Get(ctx context.Context, userID, id string) (*Interaction, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]Interaction, error)
	Update(ctx context.Context, userID string, in *Interaction) error
	Delete(ctx context.Context, userID, id string) error
}

// ClientRepository resolves linked clients.
type ClientRepository interface {
	Get(ctx context.Context, userID, id string) (*client.Client, error)
}

// ProjectRepository resolves linked projects.
type ProjectRepository interface {
	Get(ctx context.Context, userID, id string) (*project.Project, error)
}
