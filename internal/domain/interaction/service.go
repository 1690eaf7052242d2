package interaction

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

// Service handles interaction operations.
type Service struct {
	repo     Repository
	clients  ClientRepository
	projects ProjectRepository
	logger   *slog.Logger
}

// NewService creates a new interaction service.
func NewService(repo Repository, clients ClientRepository, projects ProjectRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, clients: clients, projects: projects, logger: logger}
}

// CreateRequest defines interaction inputs.
type CreateRequest struct {
	Date      time.Time
	Type      string
	Notes     string
	ClientID  *string
	ProjectID *string
}

// UpdateRequest holds optional changes. A non-nil empty ClientID or ProjectID
// removes that link.
type UpdateRequest struct {
	Date      *time.Time
	Type      *string
	Notes     *string
	ClientID  *string
	ProjectID *string
}

// Create logs a new interaction.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Interaction, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	clientID, err := s.resolveClient(ctx, userID, req.ClientID)
	if err != nil {
		return nil, err
	}
	projectID, err := s.resolveProject(ctx, userID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	in := &Interaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		ClientID:  clientID,
		ProjectID: projectID,
		Date:      req.Date.UTC(),
		Type:      strings.TrimSpace(req.Type),
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, userID, in); err != nil {
		return nil, fmt.Errorf("creating interaction: %w", err)
	}

	return in, nil
}

// Get fetches an interaction by ID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Interaction, error) {
	in, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInteractionNotFound
		}
		return nil, fmt.Errorf("getting interaction: %w", err)
	}
	return in, nil
}

// List returns the user's interactions, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Interaction, error) {
	return s.list(ctx, userID, ListOptions{})
}

// ListByClient returns interactions linked to one of the user's clients.
func (s *Service) ListByClient(ctx context.Context, userID, clientID string) ([]Interaction, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, ErrClientNotFound
	}
	if _, err := s.resolveClient(ctx, userID, &clientID); err != nil {
		return nil, err
	}
	return s.list(ctx, userID, ListOptions{ClientID: &clientID})
}

// ListByProject returns interactions linked to one of the user's projects.
func (s *Service) ListByProject(ctx context.Context, userID, projectID string) ([]Interaction, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, ErrProjectNotFound
	}
	if _, err := s.resolveProject(ctx, userID, &projectID); err != nil {
		return nil, err
	}
	return s.list(ctx, userID, ListOptions{ProjectID: &projectID})
}

// Update applies the non-nil fields of req.
func (s *Service) Update(ctx context.Context, userID, id string, req UpdateRequest) (*Interaction, error) {
	if err := ValidateUpdateInput(req); err != nil {
		return nil, err
	}

	in, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		if in.ClientID, err = s.resolveClient(ctx, userID, req.ClientID); err != nil {
			return nil, err
		}
	}
	if req.ProjectID != nil {
		if in.ProjectID, err = s.resolveProject(ctx, userID, req.ProjectID); err != nil {
			return nil, err
		}
	}
	if req.Date != nil {
		in.Date = req.Date.UTC()
	}
	if req.Type != nil {
		in.Type = strings.TrimSpace(*req.Type)
	}
	if req.Notes != nil {
		in.Notes = *req.Notes
	}
	in.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, userID, in); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInteractionNotFound
		}
		return nil, fmt.Errorf("updating interaction: %w", err)
	}

	return in, nil
}

// Delete removes an interaction.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInteractionNotFound
		}
		return fmt.Errorf("deleting interaction: %w", err)
	}
	return nil
}

func (s *Service) list(ctx context.Context, userID string, opts ListOptions) ([]Interaction, error) {
	items, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}
	return items, nil
}

// resolveClient returns nil for an absent or empty id, and the id itself once
// the client is confirmed to belong to userID.
func (s *Service) resolveClient(ctx context.Context, userID string, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	c, err := s.clients.Get(ctx, userID, *id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("loading client: %w", err)
	}
	return &c.ID, nil
}

func (s *Service) resolveProject(ctx context.Context, userID string, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	p, err := s.projects.Get(ctx, userID, *id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return &p.ID, nil
}
