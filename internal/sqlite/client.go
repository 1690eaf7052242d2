package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/repository"
)

// ClientRepository implements client.Repository for SQLite
type ClientRepository struct {
	q querier
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{q: db.DB}
}

// Create inserts a client owned by userID
func (r *ClientRepository) Create(ctx context.Context, userID string, c *client.Client) error {
	query := `
		INSERT INTO clients (id, user_id, name, email, phone, company, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.ExecContext(ctx, query,
		c.ID,
		userID,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Notes,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return translateWriteError("create client", err)
	}
	return nil
}

// Get retrieves a client by ID. A client owned by someone else is reported
// as repository.ErrNotFound.
func (r *ClientRepository) Get(ctx context.Context, userID, id string) (*client.Client, error) {
	query := `
		SELECT id, user_id, name, email, phone, company, notes, created_at, updated_at
		FROM clients
		WHERE id = ? AND user_id = ?
	`

	var c client.Client
	err := r.q.QueryRowContext(ctx, query, id, userID).Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Notes,
		scanTime(&c.CreatedAt),
		scanTime(&c.UpdatedAt),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

// List returns the user's clients by name with dependent row counts
func (r *ClientRepository) List(ctx context.Context, userID string) ([]client.ClientSummary, error) {
	query := `
		SELECT
			c.id, c.user_id, c.name, c.email, c.phone, c.company, c.notes,
			c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM projects p WHERE p.client_id = c.id AND p.user_id = c.user_id),
			(SELECT COUNT(*) FROM interactions i WHERE i.client_id = c.id AND i.user_id = c.user_id),
			(SELECT COUNT(*) FROM reminders m WHERE m.client_id = c.id AND m.user_id = c.user_id)
		FROM clients c
		WHERE c.user_id = ?
		ORDER BY c.name ASC, c.id ASC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []client.ClientSummary{}
	for rows.Next() {
		var s client.ClientSummary
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.Email,
			&s.Phone,
			&s.Company,
			&s.Notes,
			scanTime(&s.CreatedAt),
			scanTime(&s.UpdatedAt),
			&s.ProjectCount,
			&s.InteractionCount,
			&s.ReminderCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return clients, nil
}

// Update writes the mutable fields of c
func (r *ClientRepository) Update(ctx context.Context, userID string, c *client.Client) error {
	query := `
		UPDATE clients
		SET name = ?, email = ?, phone = ?, company = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.q.ExecContext(ctx, query,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Notes,
		formatTime(c.UpdatedAt),
		c.ID,
		userID,
	)
	if err != nil {
		return translateWriteError("update client", err)
	}
	return requireAffected(result)
}

// Delete removes a single client row. Dependent rows must already be gone or
// the foreign key check rejects the delete.
func (r *ClientRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM clients WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return translateWriteError("delete client", err)
	}
	return requireAffected(result)
}
