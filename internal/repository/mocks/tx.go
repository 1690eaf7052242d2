package mocks

import (
	"context"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
)

// ClientTransactor hands its Stores to fn without a real transaction. Calls
// counts invocations.
type ClientTransactor struct {
	Stores client.Stores
	Calls  int
}

func (t *ClientTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, s client.Stores) error) error {
	t.Calls++
	return fn(ctx, t.Stores)
}

// ProjectTransactor hands its Stores to fn without a real transaction.
type ProjectTransactor struct {
	Stores project.Stores
	Calls  int
}

func (t *ProjectTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, s project.Stores) error) error {
	t.Calls++
	return fn(ctx, t.Stores)
}

// ReminderTransactor hands Repo to fn without a real transaction.
type ReminderTransactor struct {
	Repo  reminder.Repository
	Calls int
}

func (t *ReminderTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repo reminder.Repository) error) error {
	t.Calls++
	return fn(ctx, t.Repo)
}
