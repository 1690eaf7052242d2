package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/interaction"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
	"github.com/rpggio/crmdesk/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestClientRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedClient(t, db, "u1", "c1")

	got, err := repo.Get(ctx, "u1", "c1")
	require.NoError(t, err)
	require.Equal(t, "Client c1", got.Name)

	got.Company = "Acme Inc"
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, "u1", got))

	got, err = repo.Get(ctx, "u1", "c1")
	require.NoError(t, err)
	require.Equal(t, "Acme Inc", got.Company)

	require.NoError(t, repo.Delete(ctx, "u1", "c1"))
	_, err = repo.Get(ctx, "u1", "c1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "u1", "c1"), repository.ErrNotFound)
}

func TestClientRepository_UserIsolation(t *testing.T) {
	db := NewTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	seedClient(t, db, "u1", "c1")

	_, err := repo.Get(ctx, "u2", "c1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	c := &client.Client{ID: "c1", Name: "Hijack", UpdatedAt: time.Now().UTC()}
	require.ErrorIs(t, repo.Update(ctx, "u2", c), repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "u2", "c1"), repository.ErrNotFound)

	list, err := repo.List(ctx, "u2")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestClientRepository_ListCounts(t *testing.T) {
	db := NewTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedClient(t, db, "u1", "c1")
	seedClient(t, db, "u1", "c2")
	seedProject(t, db, "u1", "c1", "p1", time.Now().Add(48*time.Hour), project.StatusPending)
	seedProject(t, db, "u1", "c1", "p2", time.Now().Add(96*time.Hour), project.StatusPending)

	now := time.Now().UTC()
	c1 := "c1"
	require.NoError(t, NewInteractionRepository(db).Create(ctx, "u1", &interaction.Interaction{
		ID: "i1", ClientID: &c1, Date: now, Type: "call", Notes: "hello", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, NewReminderRepository(db).Create(ctx, "u1", &reminder.Reminder{
		ID: "r1", ClientID: &c1, Title: "Follow up", DueDate: now, CreatedAt: now, UpdatedAt: now,
	}))

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "c1", list[0].ID)
	require.Equal(t, 2, list[0].ProjectCount)
	require.Equal(t, 1, list[0].InteractionCount)
	require.Equal(t, 1, list[0].ReminderCount)
	require.Equal(t, 0, list[1].ProjectCount)
}

func TestClientRepository_DeleteWithDependentsRejected(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedClient(t, db, "u1", "c1")
	seedProject(t, db, "u1", "c1", "p1", time.Now(), project.StatusPending)

	err := NewClientRepository(db).Delete(ctx, "u1", "c1")
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestClientTransactor_Cascade(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedClient(t, db, "u1", "c1")
	seedProject(t, db, "u1", "c1", "p1", time.Now().Add(240*time.Hour), project.StatusPending)

	now := time.Now().UTC()
	p1 := "p1"
	require.NoError(t, NewInteractionRepository(db).Create(ctx, "u1", &interaction.Interaction{
		ID: "i1", ProjectID: &p1, Date: now, Type: "call", Notes: "kickoff", CreatedAt: now, UpdatedAt: now,
	}))

	svc := client.NewService(NewClientRepository(db), NewClientTransactor(db), nil)
	result, err := svc.Delete(ctx, "u1", "c1")
	require.NoError(t, err)
	require.EqualValues(t, 1, result.ProjectsDeleted)
	require.EqualValues(t, 1, result.InteractionsDeleted)

	for _, table := range []string{"clients", "projects", "interactions", "reminders"} {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		require.Zero(t, n, table)
	}
}
