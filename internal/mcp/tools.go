package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/interaction"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
	"github.com/rpggio/crmdesk/internal/metrics"
)

type tools struct {
	svc    Services
	logger *slog.Logger
}

func registerTools(server *sdkmcp.Server, t *tools) {
	// Clients
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_clients",
		Description: "List all clients with their project, interaction and reminder counts",
	}, instrument(t, "list_clients", t.listClients))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_client",
		Description: "Get a single client by ID",
	}, instrument(t, "get_client", t.getClient))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_client",
		Description: "Create a new client",
	}, instrument(t, "create_client", t.createClient))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_client",
		Description: "Permanently delete a client with all of its projects, interactions and reminders",
	}, instrument(t, "delete_client", t.deleteClient))

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects ordered by deadline, optionally for one client",
	}, instrument(t, "list_projects", t.listProjects))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project for an existing client",
	}, instrument(t, "create_project", t.createProject))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_stats",
		Description: "Count projects by status",
	}, instrument(t, "project_stats", t.projectStats))

	// Interactions
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "log_interaction",
		Description: "Log a call, meeting, email or other touchpoint",
	}, instrument(t, "log_interaction", t.logInteraction))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_interactions",
		Description: "List interactions newest first, optionally for one client or one project",
	}, instrument(t, "list_interactions", t.listInteractions))

	// Reminders
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_reminder",
		Description: "Create a manual reminder",
	}, instrument(t, "create_reminder", t.createReminder))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_reminders",
		Description: "List reminders ordered by due date, optionally within a date range",
	}, instrument(t, "list_reminders", t.listReminders))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "sync_project_deadlines",
		Description: "Create or refresh the automatic reminder due seven days before each upcoming project deadline",
	}, instrument(t, "sync_project_deadlines", t.syncProjectDeadlines))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reminders_this_week",
		Description: "List manual reminders and project deadlines due in the next seven days",
	}, instrument(t, "reminders_this_week", t.remindersThisWeek))
}

type toolFunc[In, Out any] func(ctx context.Context, userID string, in In) (Out, error)

// instrument adapts a tool body to the SDK handler shape. It resolves the
// acting user, records the call and hides unexpected errors behind a generic
// message.
func instrument[In, Out any](t *tools, name string, fn toolFunc[In, Out]) sdkmcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		var zero Out
		userID := getUserID(ctx)
		if userID == "" {
			metrics.ObserveToolCall(name, errors.New("unauthorized"))
			return nil, zero, fmt.Errorf("unauthorized: no user in context")
		}

		out, err := fn(ctx, userID, in)
		metrics.ObserveToolCall(name, err)
		if err != nil {
			if apiErr := MapError(err); apiErr != nil {
				return nil, zero, apiErr
			}
			if t.logger != nil {
				t.logger.Error("mcp tool failed", "tool", name, "user_id", userID, "error", err)
			}
			return nil, zero, &APIError{Code: "INTERNAL", Message: "internal error"}
		}
		return nil, out, nil
	}
}

// Inputs

type emptyInput struct{}

type getClientInput struct {
	ID string `json:"id" jsonschema:"Client ID"`
}

type createClientInput struct {
	Name    string `json:"name" jsonschema:"Client name"`
	Email   string `json:"email" jsonschema:"Client email address"`
	Phone   string `json:"phone" jsonschema:"Client phone number"`
	Company string `json:"company,omitempty" jsonschema:"Company name"`
	Notes   string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

type deleteClientInput struct {
	ID string `json:"id" jsonschema:"Client ID to delete together with all dependent rows"`
}

type listProjectsInput struct {
	ClientID string `json:"client_id,omitempty" jsonschema:"Only projects of this client"`
}

type createProjectInput struct {
	ClientID string  `json:"client_id" jsonschema:"Client the project belongs to"`
	Title    string  `json:"title" jsonschema:"Project title"`
	Budget   float64 `json:"budget,omitempty" jsonschema:"Budget amount, zero or more"`
	Deadline string  `json:"deadline" jsonschema:"Deadline as RFC 3339 or YYYY-MM-DD"`
	Status   string  `json:"status,omitempty" jsonschema:"pending (default), in_progress, completed or cancelled"`
}

type logInteractionInput struct {
	Date      string `json:"date,omitempty" jsonschema:"When it happened, RFC 3339 or YYYY-MM-DD; defaults to now"`
	Type      string `json:"type" jsonschema:"Kind of interaction, e.g. call, meeting, email"`
	Notes     string `json:"notes,omitempty" jsonschema:"What was discussed"`
	ClientID  string `json:"client_id,omitempty" jsonschema:"Linked client ID"`
	ProjectID string `json:"project_id,omitempty" jsonschema:"Linked project ID"`
}

type listInteractionsInput struct {
	ClientID  string `json:"client_id,omitempty" jsonschema:"Only interactions of this client"`
	ProjectID string `json:"project_id,omitempty" jsonschema:"Only interactions of this project"`
}

type createReminderInput struct {
	Title       string `json:"title" jsonschema:"Reminder title"`
	Description string `json:"description,omitempty" jsonschema:"Details"`
	DueDate     string `json:"due_date" jsonschema:"Due date as RFC 3339 or YYYY-MM-DD"`
	ClientID    string `json:"client_id,omitempty" jsonschema:"Linked client ID"`
	ProjectID   string `json:"project_id,omitempty" jsonschema:"Linked project ID"`
}

type listRemindersInput struct {
	DueFrom string `json:"due_from,omitempty" jsonschema:"Earliest due date, inclusive"`
	DueTo   string `json:"due_to,omitempty" jsonschema:"Latest due date, inclusive"`
}

// Outputs

type ClientOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ClientSummaryOutput struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Company          string `json:"company,omitempty"`
	ProjectCount     int    `json:"project_count"`
	InteractionCount int    `json:"interaction_count"`
	ReminderCount    int    `json:"reminder_count"`
}

type ListClientsOutput struct {
	Clients []ClientSummaryOutput `json:"clients"`
}

type DeleteClientOutput struct {
	ClientID            string `json:"client_id"`
	Name                string `json:"name"`
	ProjectsDeleted     int64  `json:"projects_deleted"`
	InteractionsDeleted int64  `json:"interactions_deleted"`
	RemindersDeleted    int64  `json:"reminders_deleted"`
}

type ProjectOutput struct {
	ID         string  `json:"id"`
	ClientID   string  `json:"client_id"`
	ClientName string  `json:"client_name,omitempty"`
	Title      string  `json:"title"`
	Budget     float64 `json:"budget"`
	Deadline   string  `json:"deadline"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type ListProjectsOutput struct {
	Projects []ProjectOutput `json:"projects"`
}

type InteractionOutput struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Type      string  `json:"type"`
	Notes     string  `json:"notes"`
	ClientID  *string `json:"client_id,omitempty"`
	ProjectID *string `json:"project_id,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type ListInteractionsOutput struct {
	Interactions []InteractionOutput `json:"interactions"`
}

type ReminderOutput struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date"`
	Type        string  `json:"type,omitempty"`
	ClientID    *string `json:"client_id,omitempty"`
	ProjectID   *string `json:"project_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type ListRemindersOutput struct {
	Reminders []ReminderOutput `json:"reminders"`
}

type SyncOutput struct {
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Failed    []string `json:"failed,omitempty"`
}

type WeeklyItemOutput struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	DueDate      string  `json:"due_date"`
	Type         string  `json:"type"`
	Virtual      bool    `json:"virtual"`
	ProjectID    string  `json:"project_id,omitempty"`
	ProjectTitle string  `json:"project_title,omitempty"`
	ClientID     *string `json:"client_id,omitempty"`
	ClientName   string  `json:"client_name,omitempty"`
}

type WeekOutput struct {
	Items []WeeklyItemOutput `json:"items"`
}

// Handlers

func (t *tools) listClients(ctx context.Context, userID string, _ emptyInput) (ListClientsOutput, error) {
	clients, err := t.svc.Clients.List(ctx, userID)
	if err != nil {
		return ListClientsOutput{}, err
	}
	out := ListClientsOutput{Clients: make([]ClientSummaryOutput, 0, len(clients))}
	for _, c := range clients {
		out.Clients = append(out.Clients, ClientSummaryOutput{
			ID:               c.ID,
			Name:             c.Name,
			Email:            c.Email,
			Phone:            c.Phone,
			Company:          c.Company,
			ProjectCount:     c.ProjectCount,
			InteractionCount: c.InteractionCount,
			ReminderCount:    c.ReminderCount,
		})
	}
	return out, nil
}

func (t *tools) getClient(ctx context.Context, userID string, in getClientInput) (ClientOutput, error) {
	c, err := t.svc.Clients.Get(ctx, userID, in.ID)
	if err != nil {
		return ClientOutput{}, err
	}
	return toClientOutput(c), nil
}

func (t *tools) createClient(ctx context.Context, userID string, in createClientInput) (ClientOutput, error) {
	c, err := t.svc.Clients.Create(ctx, userID, client.CreateRequest{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
		Notes:   in.Notes,
	})
	if err != nil {
		return ClientOutput{}, err
	}
	return toClientOutput(c), nil
}

func (t *tools) deleteClient(ctx context.Context, userID string, in deleteClientInput) (DeleteClientOutput, error) {
	res, err := t.svc.Clients.Delete(ctx, userID, in.ID)
	if errors.Is(err, client.ErrClientNotFound) {
		return DeleteClientOutput{}, err
	}
	if err != nil {
		metrics.ObserveClientDelete(0, 0, 0, err)
		return DeleteClientOutput{}, err
	}
	metrics.ObserveClientDelete(res.ProjectsDeleted, res.InteractionsDeleted, res.RemindersDeleted, nil)
	return DeleteClientOutput{
		ClientID:            res.Client.ID,
		Name:                res.Client.Name,
		ProjectsDeleted:     res.ProjectsDeleted,
		InteractionsDeleted: res.InteractionsDeleted,
		RemindersDeleted:    res.RemindersDeleted,
	}, nil
}

func (t *tools) listProjects(ctx context.Context, userID string, in listProjectsInput) (ListProjectsOutput, error) {
	projects, err := t.svc.Projects.List(ctx, userID, project.ListOptions{ClientID: strings.TrimSpace(in.ClientID)})
	if err != nil {
		return ListProjectsOutput{}, err
	}
	out := ListProjectsOutput{Projects: make([]ProjectOutput, 0, len(projects))}
	for i := range projects {
		out.Projects = append(out.Projects, toProjectOutput(&projects[i]))
	}
	return out, nil
}

func (t *tools) createProject(ctx context.Context, userID string, in createProjectInput) (ProjectOutput, error) {
	deadline, err := parseTime(in.Deadline)
	if err != nil {
		return ProjectOutput{}, fmt.Errorf("%w: deadline: %v", errInvalidArgument, err)
	}
	p, err := t.svc.Projects.Create(ctx, userID, project.CreateRequest{
		ClientID: in.ClientID,
		Title:    in.Title,
		Budget:   in.Budget,
		Deadline: deadline,
		Status:   project.Status(strings.TrimSpace(in.Status)),
	})
	if err != nil {
		return ProjectOutput{}, err
	}
	return toProjectOutput(p), nil
}

func (t *tools) projectStats(ctx context.Context, userID string, _ emptyInput) (project.Stats, error) {
	return t.svc.Projects.Stats(ctx, userID)
}

func (t *tools) logInteraction(ctx context.Context, userID string, in logInteractionInput) (InteractionOutput, error) {
	date := time.Now().UTC()
	if strings.TrimSpace(in.Date) != "" {
		d, err := parseTime(in.Date)
		if err != nil {
			return InteractionOutput{}, fmt.Errorf("%w: date: %v", errInvalidArgument, err)
		}
		date = d
	}
	it, err := t.svc.Interactions.Create(ctx, userID, interaction.CreateRequest{
		Date:      date,
		Type:      in.Type,
		Notes:     in.Notes,
		ClientID:  optional(in.ClientID),
		ProjectID: optional(in.ProjectID),
	})
	if err != nil {
		return InteractionOutput{}, err
	}
	return toInteractionOutput(it), nil
}

func (t *tools) listInteractions(ctx context.Context, userID string, in listInteractionsInput) (ListInteractionsOutput, error) {
	clientID := strings.TrimSpace(in.ClientID)
	projectID := strings.TrimSpace(in.ProjectID)

	var (
		items []interaction.Interaction
		err   error
	)
	switch {
	case clientID != "" && projectID != "":
		return ListInteractionsOutput{}, fmt.Errorf("%w: pass client_id or project_id, not both", errInvalidArgument)
	case clientID != "":
		items, err = t.svc.Interactions.ListByClient(ctx, userID, clientID)
	case projectID != "":
		items, err = t.svc.Interactions.ListByProject(ctx, userID, projectID)
	default:
		items, err = t.svc.Interactions.List(ctx, userID)
	}
	if err != nil {
		return ListInteractionsOutput{}, err
	}

	out := ListInteractionsOutput{Interactions: make([]InteractionOutput, 0, len(items))}
	for i := range items {
		out.Interactions = append(out.Interactions, toInteractionOutput(&items[i]))
	}
	return out, nil
}

func (t *tools) createReminder(ctx context.Context, userID string, in createReminderInput) (ReminderOutput, error) {
	due, err := parseTime(in.DueDate)
	if err != nil {
		return ReminderOutput{}, fmt.Errorf("%w: due_date: %v", errInvalidArgument, err)
	}
	r, err := t.svc.Reminders.Create(ctx, userID, reminder.CreateRequest{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     due,
		ClientID:    optional(in.ClientID),
		ProjectID:   optional(in.ProjectID),
	})
	if err != nil {
		return ReminderOutput{}, err
	}
	return toReminderOutput(r), nil
}

func (t *tools) listReminders(ctx context.Context, userID string, in listRemindersInput) (ListRemindersOutput, error) {
	var opts reminder.ListOptions
	if strings.TrimSpace(in.DueFrom) != "" {
		from, err := parseTime(in.DueFrom)
		if err != nil {
			return ListRemindersOutput{}, fmt.Errorf("%w: due_from: %v", errInvalidArgument, err)
		}
		opts.DueFrom = &from
	}
	if strings.TrimSpace(in.DueTo) != "" {
		to, err := parseTime(in.DueTo)
		if err != nil {
			return ListRemindersOutput{}, fmt.Errorf("%w: due_to: %v", errInvalidArgument, err)
		}
		opts.DueTo = &to
	}

	items, err := t.svc.Reminders.List(ctx, userID, opts)
	if err != nil {
		return ListRemindersOutput{}, err
	}
	out := ListRemindersOutput{Reminders: make([]ReminderOutput, 0, len(items))}
	for i := range items {
		out.Reminders = append(out.Reminders, toReminderOutput(&items[i]))
	}
	return out, nil
}

// syncProjectDeadlines reports a partial failure through Failed rather than
// as a tool error, so the caller still sees what was synchronized.
func (t *tools) syncProjectDeadlines(ctx context.Context, userID string, _ emptyInput) (SyncOutput, error) {
	res, err := t.svc.Reminders.SyncProjectDeadlines(ctx, userID)
	if err != nil && !errors.Is(err, reminder.ErrSyncIncomplete) {
		return SyncOutput{}, err
	}
	metrics.ObserveReminderSync(res.Created, res.Updated, res.Unchanged, len(res.Failed))
	return SyncOutput{
		Created:   res.Created,
		Updated:   res.Updated,
		Unchanged: res.Unchanged,
		Failed:    res.Failed,
	}, nil
}

func (t *tools) remindersThisWeek(ctx context.Context, userID string, _ emptyInput) (WeekOutput, error) {
	items, err := t.svc.Reminders.ThisWeek(ctx, userID)
	if err != nil {
		return WeekOutput{}, err
	}
	out := WeekOutput{Items: make([]WeeklyItemOutput, 0, len(items))}
	for _, it := range items {
		o := WeeklyItemOutput{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			DueDate:     formatTime(it.DueDate),
			Type:        it.Type,
			Virtual:     it.Virtual,
			ClientID:    it.ClientID,
		}
		if it.Project != nil {
			o.ProjectID = it.Project.ID
			o.ProjectTitle = it.Project.Title
		}
		if it.Client != nil {
			o.ClientName = it.Client.Name
		}
		out.Items = append(out.Items, o)
	}
	return out, nil
}

func toClientOutput(c *client.Client) ClientOutput {
	return ClientOutput{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Notes:     c.Notes,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

func toProjectOutput(p *project.Project) ProjectOutput {
	out := ProjectOutput{
		ID:        p.ID,
		ClientID:  p.ClientID,
		Title:     p.Title,
		Budget:    p.Budget,
		Deadline:  formatTime(p.Deadline),
		Status:    string(p.Status),
		CreatedAt: formatTime(p.CreatedAt),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
	if p.Client != nil {
		out.ClientName = p.Client.Name
	}
	return out
}

func toInteractionOutput(it *interaction.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:        it.ID,
		Date:      formatTime(it.Date),
		Type:      it.Type,
		Notes:     it.Notes,
		ClientID:  it.ClientID,
		ProjectID: it.ProjectID,
		CreatedAt: formatTime(it.CreatedAt),
	}
}

func toReminderOutput(r *reminder.Reminder) ReminderOutput {
	return ReminderOutput{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     formatTime(r.DueDate),
		Type:        r.Type,
		ClientID:    r.ClientID,
		ProjectID:   r.ProjectID,
		CreatedAt:   formatTime(r.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", value)
	}
	return t, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
