package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	q querier
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{q: db.DB}
}

const projectSelect = `
	SELECT
		p.id, p.user_id, p.client_id, p.title, p.budget, p.deadline, p.status,
		p.created_at, p.updated_at,
		c.id, c.name, c.email, c.company
	FROM projects p
	LEFT JOIN clients c ON c.id = p.client_id AND c.user_id = p.user_id
`

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, userID string, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, user_id, client_id, title, budget, deadline, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.ExecContext(ctx, query,
		proj.ID,
		userID,
		proj.ClientID,
		proj.Title,
		proj.Budget,
		formatTime(proj.Deadline),
		string(proj.Status),
		formatTime(proj.CreatedAt),
		formatTime(proj.UpdatedAt),
	)
	if err != nil {
		return translateWriteError("create project", err)
	}
	return nil
}

// Get retrieves a project with its client summary
func (r *ProjectRepository) Get(ctx context.Context, userID, id string) (*project.Project, error) {
	row := r.q.QueryRowContext(ctx, projectSelect+` WHERE p.id = ? AND p.user_id = ?`, id, userID)

	proj, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// List returns the user's projects matching opts, ordered by deadline.
// Deadline bounds are inclusive.
func (r *ProjectRepository) List(ctx context.Context, userID string, opts project.ListOptions) ([]project.Project, error) {
	query := projectSelect + ` WHERE p.user_id = ?`
	args := []any{userID}
	conditions := []string{}

	if opts.ClientID != "" {
		conditions = append(conditions, "p.client_id = ?")
		args = append(args, opts.ClientID)
	}
	if opts.DeadlineFrom != nil {
		conditions = append(conditions, "p.deadline >= ?")
		args = append(args, formatTime(*opts.DeadlineFrom))
	}
	if opts.DeadlineTo != nil {
		conditions = append(conditions, "p.deadline <= ?")
		args = append(args, formatTime(*opts.DeadlineTo))
	}
	if len(opts.ExcludeStatuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("p.status NOT IN (%s)", placeholders(len(opts.ExcludeStatuses))))
		for _, st := range opts.ExcludeStatuses {
			args = append(args, string(st))
		}
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.deadline ASC, p.id ASC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// Update writes the mutable fields of proj
func (r *ProjectRepository) Update(ctx context.Context, userID string, proj *project.Project) error {
	query := `
		UPDATE projects
		SET client_id = ?, title = ?, budget = ?, deadline = ?, status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.q.ExecContext(ctx, query,
		proj.ClientID,
		proj.Title,
		proj.Budget,
		formatTime(proj.Deadline),
		string(proj.Status),
		formatTime(proj.UpdatedAt),
		proj.ID,
		userID,
	)
	if err != nil {
		return translateWriteError("update project", err)
	}
	return requireAffected(result)
}

// Delete removes a single project row
func (r *ProjectRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return translateWriteError("delete project", err)
	}
	return requireAffected(result)
}

// ListIDsByClient returns the ids of the client's projects
func (r *ProjectRepository) ListIDsByClient(ctx context.Context, userID, clientID string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id FROM projects WHERE user_id = ? AND client_id = ? ORDER BY id`,
		userID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteByClient removes every project of the client
func (r *ProjectRepository) DeleteByClient(ctx context.Context, userID, clientID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM projects WHERE user_id = ? AND client_id = ?`, userID, clientID)
	if err != nil {
		return 0, translateWriteError("delete client projects", err)
	}
	return result.RowsAffected()
}

// CountByStatus counts the user's projects per status
func (r *ProjectRepository) CountByStatus(ctx context.Context, userID string) (map[project.Status]int, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM projects WHERE user_id = ? GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	defer rows.Close()

	counts := map[project.Status]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan project count: %w", err)
		}
		counts[project.Status(status)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var status string
	var clientID, clientName, clientEmail, clientCompany sql.NullString

	if err := row.Scan(
		&proj.ID,
		&proj.UserID,
		&proj.ClientID,
		&proj.Title,
		&proj.Budget,
		scanTime(&proj.Deadline),
		&status,
		scanTime(&proj.CreatedAt),
		scanTime(&proj.UpdatedAt),
		&clientID,
		&clientName,
		&clientEmail,
		&clientCompany,
	); err != nil {
		return nil, err
	}

	proj.Status = project.Status(status)
	if clientID.Valid {
		proj.Client = &project.ClientRef{
			ID:      clientID.String,
			Name:    clientName.String,
			Email:   clientEmail.String,
			Company: clientCompany.String,
		}
	}
	return &proj, nil
}
