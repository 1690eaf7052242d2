package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
	"github.com/rpggio/crmdesk/internal/repository"
	"github.com/stretchr/testify/require"
)

func newReminder(id string, due time.Time, typ string, projectID *string) *reminder.Reminder {
	now := time.Now().UTC()
	return &reminder.Reminder{
		ID:        id,
		Title:     "Reminder " + id,
		DueDate:   due,
		Type:      typ,
		ProjectID: projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestReminderRepository_ListWindow(t *testing.T) {
	db := NewTestDB(t)
	repo := NewReminderRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedClient(t, db, "u1", "c1")
	seedProject(t, db, "u1", "c1", "p1", time.Now(), project.StatusPending)

	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	p1 := "p1"
	require.NoError(t, repo.Create(ctx, "u1", newReminder("r1", base, "", nil)))
	require.NoError(t, repo.Create(ctx, "u1", newReminder("r2", base.Add(24*time.Hour), reminder.TypeAutomatic, &p1)))
	require.NoError(t, repo.Create(ctx, "u1", newReminder("r3", base.Add(10*24*time.Hour), "", nil)))

	from := base
	to := base.Add(7 * 24 * time.Hour)
	got, err := repo.List(ctx, "u1", reminder.ListOptions{DueFrom: &from, DueTo: &to})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = repo.List(ctx, "u1", reminder.ListOptions{
		DueFrom:      &from,
		DueTo:        &to,
		ExcludeTypes: []string{reminder.TypeAutomatic},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "r1", got[0].ID)
	require.Nil(t, got[0].ProjectID)
}

func TestReminderRepository_ListAutomatic(t *testing.T) {
	db := NewTestDB(t)
	repo := NewReminderRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedClient(t, db, "u1", "c1")
	seedProject(t, db, "u1", "c1", "p1", time.Now(), project.StatusPending)

	p1 := "p1"
	got, err := repo.ListAutomatic(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, repo.Create(ctx, "u1", newReminder("manual", time.Now(), "", &p1)))
	got, err = repo.ListAutomatic(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Empty(t, got)

	older := newReminder("auto-b", time.Now(), reminder.TypeAutomatic, &p1)
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, "u1", newReminder("auto-a", time.Now(), reminder.TypeAutomatic, &p1)))
	require.NoError(t, repo.Create(ctx, "u1", older))
	got, err = repo.ListAutomatic(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "auto-b", got[0].ID)
	require.Equal(t, "p1", *got[0].ProjectID)

	got, err = repo.ListAutomatic(ctx, "u2", "p1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestReminderRepository_UpdateDelete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewReminderRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u1")

	r := newReminder("r1", time.Now(), "", nil)
	require.NoError(t, repo.Create(ctx, "u1", r))

	r.Title = "Renamed"
	require.NoError(t, repo.Update(ctx, "u1", r))
	got, err := repo.Get(ctx, "u1", "r1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Title)

	require.ErrorIs(t, repo.Update(ctx, "u2", r), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "u1", "r1"))
	require.ErrorIs(t, repo.Delete(ctx, "u1", "r1"), repository.ErrNotFound)
}

func TestReminderService_SyncAgainstSQLite(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedClient(t, db, "u1", "c1")

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	seedProject(t, db, "u1", "c1", "launch", now.Add(10*24*time.Hour), project.StatusPending)
	seedProject(t, db, "u1", "c1", "past", now.Add(-24*time.Hour), project.StatusPending)

	projects := NewProjectRepository(db)
	svc := reminder.NewService(NewReminderRepository(db), projects, NewClientRepository(db), NewReminderTransactor(db), nil).
		WithClock(func() time.Time { return now })

	result, err := svc.SyncProjectDeadlines(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	result, err = svc.SyncProjectDeadlines(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, result.Created)
	require.Equal(t, 1, result.Unchanged)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM reminders WHERE type = 'automatic'`).Scan(&n))
	require.Equal(t, 1, n)

	got, err := NewReminderRepository(db).ListAutomatic(ctx, "u1", "launch")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, now.Add(3*24*time.Hour).Equal(got[0].DueDate))
	require.Equal(t, "Project Deadline: Project launch", got[0].Title)
}
