package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `crmdesk is a small CRM for freelancers: Clients -> Projects, with Interactions and Reminders attached to either.

Core concepts:
- Client: a customer (name, email, phone, company, notes).
- Project: paid work for one client with a budget, a deadline and a status (pending, in_progress, completed, cancelled).
- Interaction: a logged touchpoint (call, meeting, email...) linked to a client, a project, both or neither.
- Reminder: a dated note. Reminders of type "automatic" are owned by the deadline synchronizer.

Rules of engagement:
1) Orient: call list_clients and list_projects to learn IDs. Never invent IDs.
2) Log work as it happens: log_interaction after calls and meetings.
3) Deadlines: call sync_project_deadlines after creating or moving projects, then reminders_this_week for the agenda.
4) delete_client is permanent and removes every project, interaction and reminder of that client. Confirm with the user first.

Dates are RFC 3339 timestamps or plain YYYY-MM-DD dates (midnight UTC).

Docs:
- crmdesk://docs/index
- crmdesk://docs/reminders
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "crmdesk://docs/index",
		Name:        "docs_index",
		Title:       "crmdesk docs index",
		Description: "Entry point for agent-facing docs: the data model and the available tools.",
		Content: `# crmdesk: Agent Docs Index

## Data model

- users own everything; you only ever see the authenticated user's rows
- clients
  - projects (exactly one client each)
- interactions (optional client, optional project)
- reminders (optional client, optional project)

## Tools

| Tool | Use |
|------|-----|
| list_clients | clients with project, interaction and reminder counts |
| get_client | one client |
| create_client | add a client (name, email and phone required) |
| delete_client | remove a client and everything attached to it |
| list_projects | projects ordered by deadline, optional client filter |
| create_project | add a project for a client |
| project_stats | project counts by status |
| log_interaction | record a call, meeting or email |
| list_interactions | newest first, optional client or project filter |
| create_reminder | add a manual reminder |
| list_reminders | reminders ordered by due date, optional range |
| sync_project_deadlines | create or refresh deadline reminders |
| reminders_this_week | everything due in the next seven days |

## Errors

Tool errors start with a code such as CLIENT_NOT_FOUND or INVALID_INPUT.
A client that belongs to another account is reported as not found.
`,
	},
	{
		URI:         "crmdesk://docs/reminders",
		Name:        "docs_reminders",
		Title:       "Deadline reminders and the weekly view",
		Description: "How automatic deadline reminders are created and what reminders_this_week returns.",
		Content: `# Deadline reminders

sync_project_deadlines looks at every project whose deadline has not passed.
For each one it keeps exactly one reminder of type "automatic":

- title: "Project Deadline: <project title>"
- due date: seven days before the deadline
- linked to the project and its client

Running the sync again is safe. Reminders already up to date are counted as
unchanged; a renamed or rescheduled project updates its reminder in place.
If some projects fail the others are still processed and the result lists the
failed project IDs.

# The weekly view

reminders_this_week covers now through now + 7 days and merges:

- manual (non-automatic) reminders due in the window
- one virtual entry per active project whose deadline falls in the window
  (type "project_deadline", virtual = true, id = the project id)

Automatic reminders are never listed there, so a project deadline never shows
up twice. Entries are sorted by due date.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
