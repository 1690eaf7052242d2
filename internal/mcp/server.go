package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/interaction"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
)

// ClientService defines client operations needed by MCP.
type ClientService interface {
	Create(ctx context.Context, userID string, req client.CreateRequest) (*client.Client, error)
	Get(ctx context.Context, userID, id string) (*client.Client, error)
	List(ctx context.Context, userID string) ([]client.ClientSummary, error)
	Delete(ctx context.Context, userID, id string) (*client.DeleteResult, error)
}

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, userID string, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context, userID string, opts project.ListOptions) ([]project.Project, error)
	Stats(ctx context.Context, userID string) (project.Stats, error)
}

// InteractionService defines interaction operations needed by MCP.
type InteractionService interface {
	Create(ctx context.Context, userID string, req interaction.CreateRequest) (*interaction.Interaction, error)
	List(ctx context.Context, userID string) ([]interaction.Interaction, error)
	ListByClient(ctx context.Context, userID, clientID string) ([]interaction.Interaction, error)
	ListByProject(ctx context.Context, userID, projectID string) ([]interaction.Interaction, error)
}

// ReminderService defines reminder operations needed by MCP.
type ReminderService interface {
	Create(ctx context.Context, userID string, req reminder.CreateRequest) (*reminder.Reminder, error)
	List(ctx context.Context, userID string, opts reminder.ListOptions) ([]reminder.Reminder, error)
	SyncProjectDeadlines(ctx context.Context, userID string) (*reminder.SyncResult, error)
	ThisWeek(ctx context.Context, userID string) ([]reminder.WeeklyItem, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Clients      ClientService
	Projects     ProjectService
	Interactions InteractionService
	Reminders    ReminderService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	TransportMode string // "stdio" or "http"
	// StdioUserID is the account every stdio call acts as.
	StdioUserID string
	Version     string
	Logger      *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "crmdesk",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is a local, single-user transport; HTTP always carries a bearer JWT.
	if cfg.TransportMode == "stdio" {
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.StdioUserID))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{svc: cfg.Services, logger: cfg.Logger})

	return server
}
