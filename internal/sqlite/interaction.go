package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/crmdesk/internal/domain/interaction"
	"github.com/rpggio/crmdesk/internal/repository"
)

// InteractionRepository implements interaction.Repository for SQLite
type InteractionRepository struct {
	q querier
}

// NewInteractionRepository creates a new InteractionRepository
func NewInteractionRepository(db *DB) *InteractionRepository {
	return &InteractionRepository{q: db.DB}
}

const interactionColumns = `id, user_id, client_id, project_id, date, type, notes, created_at, updated_at`

// Create inserts an interaction
func (r *InteractionRepository) Create(ctx context.Context, userID string, in *interaction.Interaction) error {
	query := `INSERT INTO interactions (` + interactionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.q.ExecContext(ctx, query,
		in.ID,
		userID,
		nullString(in.ClientID),
		nullString(in.ProjectID),
		formatTime(in.Date),
		in.Type,
		in.Notes,
		formatTime(in.CreatedAt),
		formatTime(in.UpdatedAt),
	)
	if err != nil {
		return translateWriteError("create interaction", err)
	}
	return nil
}

// Get retrieves an interaction by ID
func (r *InteractionRepository) Get(ctx context.Context, userID, id string) (*interaction.Interaction, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+interactionColumns+` FROM interactions WHERE id = ? AND user_id = ?`, id, userID)

	in, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interaction: %w", err)
	}
	return in, nil
}

// List returns the user's interactions, most recent date first
func (r *InteractionRepository) List(ctx context.Context, userID string, opts interaction.ListOptions) ([]interaction.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE user_id = ?`
	args := []any{userID}

	if opts.ClientID != nil {
		query += " AND client_id = ?"
		args = append(args, *opts.ClientID)
	}
	if opts.ProjectID != nil {
		query += " AND project_id = ?"
		args = append(args, *opts.ProjectID)
	}
	query += " ORDER BY date DESC, id ASC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	defer rows.Close()

	items := []interaction.Interaction{}
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		items = append(items, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}
	return items, nil
}

// Update writes the mutable fields of in
func (r *InteractionRepository) Update(ctx context.Context, userID string, in *interaction.Interaction) error {
	query := `
		UPDATE interactions
		SET client_id = ?, project_id = ?, date = ?, type = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(in.ClientID),
		nullString(in.ProjectID),
		formatTime(in.Date),
		in.Type,
		in.Notes,
		formatTime(in.UpdatedAt),
		in.ID,
		userID,
	)
	if err != nil {
		return translateWriteError("update interaction", err)
	}
	return requireAffected(result)
}

// Delete removes an interaction
func (r *InteractionRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM interactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return translateWriteError("delete interaction", err)
	}
	return requireAffected(result)
}

// DeleteByProject removes the interactions linked to a project
func (r *InteractionRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM interactions WHERE user_id = ? AND project_id = ?`, userID, projectID)
	if err != nil {
		return 0, translateWriteError("delete project interactions", err)
	}
	return result.RowsAffected()
}

// DeleteByClient removes the interactions linked to a client
func (r *InteractionRepository) DeleteByClient(ctx context.Context, userID, clientID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM interactions WHERE user_id = ? AND client_id = ?`, userID, clientID)
	if err != nil {
		return 0, translateWriteError("delete client interactions", err)
	}
	return result.RowsAffected()
}

func scanInteraction(row rowScanner) (*interaction.Interaction, error) {
	var in interaction.Interaction
	var clientID, projectID sql.NullString
	if err := row.Scan(
		&in.ID,
		&in.UserID,
		&clientID,
		&projectID,
		scanTime(&in.Date),
		&in.Type,
		&in.Notes,
		scanTime(&in.CreatedAt),
		scanTime(&in.UpdatedAt),
	); err != nil {
		return nil, err
	}
	in.ClientID = stringPtr(clientID)
	in.ProjectID = stringPtr(projectID)
	return &in, nil
}
