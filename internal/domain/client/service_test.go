package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/repository"
	"github.com/rpggio/crmdesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cascadeFixture struct {
	clients      *mocks.ClientRepository
	projects     *mocks.ProjectRepository
	interactions *mocks.InteractionRepository
	reminders    *mocks.ReminderRepository
	tx           *mocks.ClientTransactor
	svc          *client.Service
}

func newCascadeFixture() *cascadeFixture {
	f := &cascadeFixture{
		clients:      &mocks.ClientRepository{},
		projects:     &mocks.ProjectRepository{},
		interactions: &mocks.InteractionRepository{},
		reminders:    &mocks.ReminderRepository{},
	}
	f.tx = &mocks.ClientTransactor{Stores: client.Stores{
		Clients:      f.clients,
		Projects:     f.projects,
		Interactions: f.interactions,
		Reminders:    f.reminders,
	}}
	f.svc = client.NewService(f.clients, f.tx, nil)
	return f
}

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ClientRepository{}
	repo.On("Create", ctx, "u1", mock.MatchedBy(func(c *client.Client) bool {
		return c.Name == "Acme" && c.UserID == "u1"
	})).Return(nil)

	svc := client.NewService(repo, nil, nil)
	c, err := svc.Create(ctx, "u1", client.CreateRequest{Name: " Acme ", Email: "a@acme.test", Phone: "555"})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, "Acme", c.Name)
}

func TestClientService_CreateValidation(t *testing.T) {
	svc := client.NewService(&mocks.ClientRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), "u1", client.CreateRequest{Email: "a@acme.test", Phone: "555"})
	require.ErrorIs(t, err, client.ErrInvalidInput)

	_, err = svc.Create(context.Background(), "u1", client.CreateRequest{Name: "Acme", Email: "nope", Phone: "555"})
	require.ErrorIs(t, err, client.ErrInvalidInput)
}

func TestClientService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ClientRepository{}
	repo.On("Get", ctx, "u2", "c1").Return((*client.Client)(nil), repository.ErrNotFound)

	svc := client.NewService(repo, nil, nil)
	_, err := svc.Get(ctx, "u2", "c1")
	require.ErrorIs(t, err, client.ErrClientNotFound)
}

func TestClientService_DeleteCascadeOrder(t *testing.T) {
	ctx := context.Background()
	f := newCascadeFixture()

	var order []string
	record := func(step string) func(mock.Arguments) {
		return func(mock.Arguments) { order = append(order, step) }
	}

	f.clients.On("Get", ctx, "u1", "c1").Return(&client.Client{ID: "c1", Name: "Acme"}, nil)
	f.projects.On("ListIDsByClient", ctx, "u1", "c1").Return([]string{"p1", "p2"}, nil)
	f.interactions.On("DeleteByProject", ctx, "u1", "p1").Return(int64(2), nil).Run(record("interactions:p1"))
	f.reminders.On("DeleteByProject", ctx, "u1", "p1").Return(int64(1), nil).Run(record("reminders:p1"))
	f.interactions.On("DeleteByProject", ctx, "u1", "p2").Return(int64(0), nil).Run(record("interactions:p2"))
	f.reminders.On("DeleteByProject", ctx, "u1", "p2").Return(int64(0), nil).Run(record("reminders:p2"))
	f.projects.On("DeleteByClient", ctx, "u1", "c1").Return(int64(2), nil).Run(record("projects"))
	f.interactions.On("DeleteByClient", ctx, "u1", "c1").Return(int64(1), nil).Run(record("interactions:client"))
	f.reminders.On("DeleteByClient", ctx, "u1", "c1").Return(int64(0), nil).Run(record("reminders:client"))
	f.clients.On("Delete", ctx, "u1", "c1").Return(nil).Run(record("client"))

	result, err := f.svc.Delete(ctx, "u1", "c1")
	require.NoError(t, err)
	require.Equal(t, 1, f.tx.Calls)
	require.EqualValues(t, 2, result.ProjectsDeleted)
	require.EqualValues(t, 3, result.InteractionsDeleted)
	require.EqualValues(t, 1, result.RemindersDeleted)
	require.Equal(t, "Acme", result.Client.Name)

	require.Equal(t, []string{
		"interactions:p1", "reminders:p1",
		"interactions:p2", "reminders:p2",
		"projects",
		"interactions:client", "reminders:client",
		"client",
	}, order)
}

func TestClientService_DeleteNotFound(t *testing.T) {
	ctx := context.Background()
	f := newCascadeFixture()
	f.clients.On("Get", ctx, "u2", "c1").Return((*client.Client)(nil), repository.ErrNotFound)

	_, err := f.svc.Delete(ctx, "u2", "c1")
	require.ErrorIs(t, err, client.ErrClientNotFound)
	f.projects.AssertNotCalled(t, "ListIDsByClient", mock.Anything, mock.Anything, mock.Anything)
	f.clients.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestClientService_DeleteStopsOnFailure(t *testing.T) {
	ctx := context.Background()
	f := newCascadeFixture()
	boom := errors.New("disk full")

	f.clients.On("Get", ctx, "u1", "c1").Return(&client.Client{ID: "c1"}, nil)
	f.projects.On("ListIDsByClient", ctx, "u1", "c1").Return([]string{"p1"}, nil)
	f.interactions.On("DeleteByProject", ctx, "u1", "p1").Return(int64(0), boom)

	_, err := f.svc.Delete(ctx, "u1", "c1")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, client.ErrClientNotFound)
	f.projects.AssertNotCalled(t, "DeleteByClient", mock.Anything, mock.Anything, mock.Anything)
	f.clients.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
