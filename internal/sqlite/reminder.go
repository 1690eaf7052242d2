package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/crmdesk/internal/domain/reminder"
	"github.com/rpggio/crmdesk/internal/repository"
)

// ReminderRepository implements reminder.Repository for SQLite
type ReminderRepository struct {
	q querier
}

// NewReminderRepository creates a new ReminderRepository
func NewReminderRepository(db *DB) *ReminderRepository {
	return &ReminderRepository{q: db.DB}
}

const reminderColumns = `id, user_id, client_id, project_id, title, description, due_date, type, created_at, updated_at`

// Create inserts a reminder
func (r *ReminderRepository) Create(ctx context.Context, userID string, rem *reminder.Reminder) error {
	query := `INSERT INTO reminders (` + reminderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.q.ExecContext(ctx, query,
		rem.ID,
		userID,
		nullString(rem.ClientID),
		nullString(rem.ProjectID),
		rem.Title,
		rem.Description,
		formatTime(rem.DueDate),
		rem.Type,
		formatTime(rem.CreatedAt),
		formatTime(rem.UpdatedAt),
	)
	if err != nil {
		return translateWriteError("create reminder", err)
	}
	return nil
}

// Get retrieves a reminder by ID
func (r *ReminderRepository) Get(ctx context.Context, userID, id string) (*reminder.Reminder, error) {
	return r.getOne(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = ? AND user_id = ?`, id, userID)
}

// ListAutomatic returns the synchronizer's reminders for a project, oldest first
func (r *ReminderRepository) ListAutomatic(ctx context.Context, userID, projectID string) ([]reminder.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE user_id = ? AND project_id = ? AND type = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.q.QueryContext(ctx, query, userID, projectID, reminder.TypeAutomatic)
	if err != nil {
		return nil, fmt.Errorf("failed to list automatic reminders: %w", err)
	}
	defer rows.Close()

	items := []reminder.Reminder{}
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		items = append(items, *rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate automatic reminders: %w", err)
	}
	return items, nil
}

// List returns the user's reminders by due date. Due bounds are inclusive.
func (r *ReminderRepository) List(ctx context.Context, userID string, opts reminder.ListOptions) ([]reminder.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = ?`
	args := []any{userID}

	if opts.DueFrom != nil {
		query += " AND due_date >= ?"
		args = append(args, formatTime(*opts.DueFrom))
	}
	if opts.DueTo != nil {
		query += " AND due_date <= ?"
		args = append(args, formatTime(*opts.DueTo))
	}
	if len(opts.ExcludeTypes) > 0 {
		query += fmt.Sprintf(" AND type NOT IN (%s)", placeholders(len(opts.ExcludeTypes)))
		for _, t := range opts.ExcludeTypes {
			args = append(args, t)
		}
	}
	query += " ORDER BY due_date ASC, id ASC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	items := []reminder.Reminder{}
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		items = append(items, *rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}
	return items, nil
}

// Update writes the mutable fields of rem
func (r *ReminderRepository) Update(ctx context.Context, userID string, rem *reminder.Reminder) error {
	query := `
		UPDATE reminders
		SET client_id = ?, project_id = ?, title = ?, description = ?, due_date = ?, type = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(rem.ClientID),
		nullString(rem.ProjectID),
		rem.Title,
		rem.Description,
		formatTime(rem.DueDate),
		rem.Type,
		formatTime(rem.UpdatedAt),
		rem.ID,
		userID,
	)
	if err != nil {
		return translateWriteError("update reminder", err)
	}
	return requireAffected(result)
}

// Delete removes a reminder
func (r *ReminderRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM reminders WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return translateWriteError("delete reminder", err)
	}
	return requireAffected(result)
}

// DeleteByProject removes the reminders linked to a project
func (r *ReminderRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM reminders WHERE user_id = ? AND project_id = ?`, userID, projectID)
	if err != nil {
		return 0, translateWriteError("delete project reminders", err)
	}
	return result.RowsAffected()
}

// DeleteByClient removes the reminders linked to a client
func (r *ReminderRepository) DeleteByClient(ctx context.Context, userID, clientID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM reminders WHERE user_id = ? AND client_id = ?`, userID, clientID)
	if err != nil {
		return 0, translateWriteError("delete client reminders", err)
	}
	return result.RowsAffected()
}

func (r *ReminderRepository) getOne(ctx context.Context, query string, args ...any) (*reminder.Reminder, error) {
	rem, err := scanReminder(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return rem, nil
}

func scanReminder(row rowScanner) (*reminder.Reminder, error) {
	var rem reminder.Reminder
	var clientID, projectID sql.NullString
	if err := row.Scan(
		&rem.ID,
		&rem.UserID,
		&clientID,
		&projectID,
		&rem.Title,
		&rem.Description,
		scanTime(&rem.DueDate),
		&rem.Type,
		scanTime(&rem.CreatedAt),
		scanTime(&rem.UpdatedAt),
	); err != nil {
		return nil, err
	}
	rem.ClientID = stringPtr(clientID)
	rem.ProjectID = stringPtr(projectID)
	return &rem, nil
}
