package mocks

import (
	"context"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/interaction"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
	"github.com/rpggio/crmdesk/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// UserRepository is a mock for user.Repository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// PasswordHasher is a mock for user.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// ClientRepository is a mock for client.Repository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Create(ctx context.Context, userID string, c *client.Client) error {
	args := m.Called(ctx, userID, c)
	return args.Error(0)
}

func (m *ClientRepository) Get(ctx context.Context, userID, id string) (*client.Client, error) {
	args := m.Called(ctx, userID, id)
	if c, ok := args.Get(0).(*client.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) List(ctx context.Context, userID string) ([]client.ClientSummary, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]client.ClientSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) Update(ctx context.Context, userID string, c *client.Client) error {
	args := m.Called(ctx, userID, c)
	return args.Error(0)
}

func (m *ClientRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// ProjectRepository is a mock for project.Repository and the narrower project
// views other packages depend on.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, userID string, proj *project.Project) error {
	args := m.Called(ctx, userID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, userID, id string) (*project.Project, error) {
	args := m.Called(ctx, userID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, userID string, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, userID string, proj *project.Project) error {
	args := m.Called(ctx, userID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *ProjectRepository) CountByStatus(ctx context.Context, userID string) (map[project.Status]int, error) {
	args := m.Called(ctx, userID)
	if counts, ok := args.Get(0).(map[project.Status]int); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListIDsByClient(ctx context.Context, userID, clientID string) ([]string, error) {
	args := m.Called(ctx, userID, clientID)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) DeleteByClient(ctx context.Context, userID, clientID string) (int64, error) {
	args := m.Called(ctx, userID, clientID)
	return args.Get(0).(int64), args.Error(1)
}

// InteractionRepository is a mock for interaction.Repository.
type InteractionRepository struct {
	mock.Mock
}

func (m *InteractionRepository) Create(ctx context.Context, userID string, in *interaction.Interaction) error {
	args := m.Called(ctx, userID, in)
	return args.Error(0)
}

func (m *InteractionRepository) Get(ctx context.Context, userID, id string) (*interaction.Interaction, error) {
	args := m.Called(ctx, userID, id)
	if in, ok := args.Get(0).(*interaction.Interaction); ok {
		return in, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InteractionRepository) List(ctx context.Context, userID string, opts interaction.ListOptions) ([]interaction.Interaction, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]interaction.Interaction); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InteractionRepository) Update(ctx context.Context, userID string, in *interaction.Interaction) error {
	args := m.Called(ctx, userID, in)
	return args.Error(0)
}

func (m *InteractionRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *InteractionRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *InteractionRepository) DeleteByClient(ctx context.Context, userID, clientID string) (int64, error) {
	args := m.Called(ctx, userID, clientID)
	return args.Get(0).(int64), args.Error(1)
}

// ReminderRepository is a mock for reminder.Repository.
type ReminderRepository struct {
	mock.Mock
}

func (m *ReminderRepository) Create(ctx context.Context, userID string, r *reminder.Reminder) error {
	args := m.Called(ctx, userID, r)
	return args.Error(0)
}

func (m *ReminderRepository) Get(ctx context.Context, userID, id string) (*reminder.Reminder, error) {
	args := m.Called(ctx, userID, id)
	if r, ok := args.Get(0).(*reminder.Reminder); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReminderRepository) List(ctx context.Context, userID string, opts reminder.ListOptions) ([]reminder.Reminder, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]reminder.Reminder); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReminderRepository) Update(ctx context.Context, userID string, r *reminder.Reminder) error {
	args := m.Called(ctx, userID, r)
	return args.Error(0)
}

func (m *ReminderRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *ReminderRepository) ListAutomatic(ctx context.Context, userID, projectID string) ([]reminder.Reminder, error) {
	args := m.Called(ctx, userID, projectID)
	if list, ok := args.Get(0).([]reminder.Reminder); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReminderRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReminderRepository) DeleteByClient(ctx context.Context, userID, clientID string) (int64, error) {
	args := m.Called(ctx, userID, clientID)
	return args.Get(0).(int64), args.Error(1)
}
