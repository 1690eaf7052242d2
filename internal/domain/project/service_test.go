package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/repository"
	"github.com/rpggio/crmdesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateDefaultsPending(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	clients := &mocks.ClientRepository{}

	clients.On("Get", ctx, "u1", "c1").Return(&client.Client{ID: "c1", Name: "Acme"}, nil)
	repo.On("Create", ctx, "u1", mock.Anything).Return(nil)

	svc := project.NewService(repo, clients, nil, nil)
	deadline := time.Now().Add(30 * 24 * time.Hour)
	proj, err := svc.Create(ctx, "u1", project.CreateRequest{ClientID: "c1", Title: "Website", Budget: 5000, Deadline: deadline})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, project.StatusPending, proj.Status)
	require.Equal(t, "Acme", proj.Client.Name)
}

func TestProjectService_CreateForeignClient(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	clients := &mocks.ClientRepository{}
	clients.On("Get", ctx, "u2", "c1").Return((*client.Client)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, clients, nil, nil)
	_, err := svc.Create(ctx, "u2", project.CreateRequest{ClientID: "c1", Title: "Website", Deadline: time.Now()})
	require.ErrorIs(t, err, project.ErrClientNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_CreateValidation(t *testing.T) {
	svc := project.NewService(&mocks.ProjectRepository{}, &mocks.ClientRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), "u1", project.CreateRequest{ClientID: "c1", Deadline: time.Now()})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = svc.Create(context.Background(), "u1", project.CreateRequest{ClientID: "c1", Title: "x", Deadline: time.Now(), Status: "paused"})
	require.ErrorIs(t, err, project.ErrInvalidInput)
}

func TestProjectService_UpdateMoveToForeignClient(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	clients := &mocks.ClientRepository{}
	repo.On("Get", ctx, "u1", "p1").Return(&project.Project{ID: "p1", ClientID: "c1"}, nil)
	clients.On("Get", ctx, "u1", "other").Return((*client.Client)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, clients, nil, nil)
	other := "other"
	_, err := svc.Update(ctx, "u1", "p1", project.UpdateRequest{ClientID: &other})
	require.ErrorIs(t, err, project.ErrClientNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_DeleteRemovesDependents(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	interactions := &mocks.InteractionRepository{}
	reminders := &mocks.ReminderRepository{}
	tx := &mocks.ProjectTransactor{Stores: project.Stores{Projects: repo, Interactions: interactions, Reminders: reminders}}

	repo.On("Get", ctx, "u1", "p1").Return(&project.Project{ID: "p1"}, nil)
	interactions.On("DeleteByProject", ctx, "u1", "p1").Return(int64(3), nil)
	reminders.On("DeleteByProject", ctx, "u1", "p1").Return(int64(1), nil)
	repo.On("Delete", ctx, "u1", "p1").Return(nil)

	svc := project.NewService(repo, nil, tx, nil)
	require.NoError(t, svc.Delete(ctx, "u1", "p1"))
	require.Equal(t, 1, tx.Calls)
	interactions.AssertExpectations(t)
	reminders.AssertExpectations(t)
}

func TestProjectService_DeleteNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	tx := &mocks.ProjectTransactor{Stores: project.Stores{Projects: repo}}
	repo.On("Get", ctx, "u2", "p1").Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil, tx, nil)
	require.ErrorIs(t, svc.Delete(ctx, "u2", "p1"), project.ErrProjectNotFound)
}

func TestProjectService_Stats(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("CountByStatus", ctx, "u1").Return(map[project.Status]int{
		project.StatusPending:   2,
		project.StatusCompleted: 1,
	}, nil)

	svc := project.NewService(repo, nil, nil, nil)
	stats, err := svc.Stats(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, project.Stats{Total: 3, Pending: 2, Completed: 1}, stats)
}
