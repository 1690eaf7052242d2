package sqlite

import (
	"context"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
)

// ClientTransactor implements client.Transactor
type ClientTransactor struct {
	db *DB
}

// NewClientTransactor creates a new ClientTransactor
func NewClientTransactor(db *DB) *ClientTransactor {
	return &ClientTransactor{db: db}
}

// WithinTx runs fn with client, project, interaction and reminder
// repositories bound to one transaction.
func (t *ClientTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, s client.Stores) error) error {
	return t.db.WithTx(ctx, func(q querier) error {
		return fn(ctx, client.Stores{
			Clients:      &ClientRepository{q: q},
			Projects:     &ProjectRepository{q: q},
			Interactions: &InteractionRepository{q: q},
			Reminders:    &ReminderRepository{q: q},
		})
	})
}

// ProjectTransactor implements project.Transactor
type ProjectTransactor struct {
	db *DB
}

// NewProjectTransactor creates a new ProjectTransactor
func NewProjectTransactor(db *DB) *ProjectTransactor {
	return &ProjectTransactor{db: db}
}

// WithinTx runs fn with project, interaction and reminder repositories bound
// to one transaction.
func (t *ProjectTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, s project.Stores) error) error {
	return t.db.WithTx(ctx, func(q querier) error {
		return fn(ctx, project.Stores{
			Projects:     &ProjectRepository{q: q},
			Interactions: &InteractionRepository{q: q},
			Reminders:    &ReminderRepository{q: q},
		})
	})
}

// ReminderTransactor implements reminder.Transactor
type ReminderTransactor struct {
	db *DB
}

// NewReminderTransactor creates a new ReminderTransactor
func NewReminderTransactor(db *DB) *ReminderTransactor {
	return &ReminderTransactor{db: db}
}

// WithinTx runs fn with a reminder repository bound to one transaction.
func (t *ReminderTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repo reminder.Repository) error) error {
	return t.db.WithTx(ctx, func(q querier) error {
		return fn(ctx, &ReminderRepository{q: q})
	})
}
