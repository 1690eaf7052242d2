package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/crmdesk/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo    Repository
	clients ClientRepository
	tx      Transactor
	logger  *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, clients ClientRepository, tx Transactor, logger *slog.Logger) *Service {
	return &Service{repo: repo, clients: clients, tx: tx, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ClientID string
	Title    string
	Budget   float64
	Deadline time.Time
	Status   Status
}

// UpdateRequest holds optional project changes.
type UpdateRequest struct {
	ClientID *string
	Title    *string
	Budget   *float64
	Deadline *time.Time
	Status   *Status
}

// Create creates a new project for one of the user's clients.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Project, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	c, err := s.ownedClient(ctx, userID, req.ClientID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}

	now := time.Now().UTC()
	proj := &Project{
		ID:        uuid.NewString(),
		UserID:    userID,
		ClientID:  c.ID,
		Title:     strings.TrimSpace(req.Title),
		Budget:    req.Budget,
		Deadline:  req.Deadline.UTC(),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
		Client:    c,
	}

	if err := s.repo.Create(ctx, userID, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns the user's projects.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]Project, error) {
	projects, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Update applies the non-nil fields of req. Moving a project to another
// client requires that client to belong to the same user.
func (s *Service) Update(ctx context.Context, userID, id string, req UpdateRequest) (*Project, error) {
	if err := ValidateUpdateInput(req); err != nil {
		return nil, err
	}

	proj, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil && *req.ClientID != proj.ClientID {
		c, err := s.ownedClient(ctx, userID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		proj.ClientID = c.ID
		proj.Client = c
	}
	if req.Title != nil {
		proj.Title = strings.TrimSpace(*req.Title)
	}
	if req.Budget != nil {
		proj.Budget = *req.Budget
	}
	if req.Deadline != nil {
		proj.Deadline = req.Deadline.UTC()
	}
	if req.Status != nil {
		proj.Status = *req.Status
	}
	proj.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, userID, proj); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return proj, nil
}

// Delete removes a project with its interactions and reminders.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st Stores) error {
		proj, err := st.Projects.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		if _, err := st.Interactions.DeleteByProject(ctx, userID, proj.ID); err != nil {
			return fmt.Errorf("deleting project interactions: %w", err)
		}
		if _, err := st.Reminders.DeleteByProject(ctx, userID, proj.ID); err != nil {
			return fmt.Errorf("deleting project reminders: %w", err)
		}
		return st.Projects.Delete(ctx, userID, proj.ID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Stats counts the user's projects by status.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	counts, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("counting projects: %w", err)
	}

	stats := Stats{
		Pending:    counts[StatusPending],
		InProgress: counts[StatusInProgress],
		Completed:  counts[StatusCompleted],
		Cancelled:  counts[StatusCancelled],
	}
	stats.Total = stats.Pending + stats.InProgress + stats.Completed + stats.Cancelled

	if s.logger != nil {
		s.logger.Debug("project stats", "user_id", userID, "total", stats.Total)
	}

	return stats, nil
}

func (s *Service) ownedClient(ctx context.Context, userID, clientID string) (*ClientRef, error) {
	c, err := s.clients.Get(ctx, userID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("loading client: %w", err)
	}
	return &ClientRef{ID: c.ID, Name: c.Name, Email: c.Email, Company: c.Company}, nil
}
