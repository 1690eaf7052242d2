package client

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

// Service handles client operations.
type Service struct {
	repo   Repository
	tx     Transactor
	logger *slog.Logger
}

// NewService creates a new client service.
func NewService(repo Repository, tx Transactor, logger *slog.Logger) *Service {
	return &Service{repo: repo, tx: tx, logger: logger}
}

// CreateRequest defines client creation inputs.
type CreateRequest struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Notes   string
}

// UpdateRequest holds optional client changes.
type UpdateRequest struct {
	Name    *string
	Email   *string
	Phone   *string
	Company *string
	Notes   *string
}

// Create creates a new client owned by userID.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Client, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &Client{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   req.Company,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, userID, c); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return c, nil
}

// Get fetches a client by ID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Client, error) {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return c, nil
}

// List returns the user's clients with dependent counts.
func (s *Service) List(ctx context.Context, userID string) ([]ClientSummary, error) {
	clients, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return clients, nil
}

// Update applies the non-nil fields of req.
func (s *Service) Update(ctx context.Context, userID, id string, req UpdateRequest) (*Client, error) {
	if err := ValidateUpdateInput(req); err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		c.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		c.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Company != nil {
		c.Company = *req.Company
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, userID, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("updating client: %w", err)
	}

	return c, nil
}

// Delete removes a client together with everything that references it:
// interactions and reminders of each of its projects, the projects, then the
// interactions and reminders attached to the client directly. All steps share
// one transaction, so either every row is gone or none is.
func (s *Service) Delete(ctx context.Context, userID, id string) (*DeleteResult, error) {
	var result DeleteResult

	err := s.tx.WithinTx(ctx, func(ctx context.Context, st Stores) error {
		c, err := st.Clients.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		projectIDs, err := st.Projects.ListIDsByClient(ctx, userID, c.ID)
		if err != nil {
			return fmt.Errorf("listing client projects: %w", err)
		}

		for _, projectID := range projectIDs {
			n, err := st.Interactions.DeleteByProject(ctx, userID, projectID)
			if err != nil {
				return fmt.Errorf("deleting project interactions: %w", err)
			}
			result.InteractionsDeleted += n

			n, err = st.Reminders.DeleteByProject(ctx, userID, projectID)
			if err != nil {
				return fmt.Errorf("deleting project reminders: %w", err)
			}
			result.RemindersDeleted += n
		}

		n, err := st.Projects.DeleteByClient(ctx, userID, c.ID)
		if err != nil {
			return fmt.Errorf("deleting projects: %w", err)
		}
		result.ProjectsDeleted = n

		n, err = st.Interactions.DeleteByClient(ctx, userID, c.ID)
		if err != nil {
			return fmt.Errorf("deleting client interactions: %w", err)
		}
		result.InteractionsDeleted += n

		n, err = st.Reminders.DeleteByClient(ctx, userID, c.ID)
		if err != nil {
			return fmt.Errorf("deleting client reminders: %w", err)
		}
		result.RemindersDeleted += n

		if err := st.Clients.Delete(ctx, userID, c.ID); err != nil {
			return fmt.Errorf("deleting client: %w", err)
		}

		result.Client = *c
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		if s.logger != nil {
			s.logger.Error("client delete failed", "user_id", userID, "client_id", id, "error", err)
		}
		return nil, fmt.Errorf("deleting client: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("client deleted",
			"user_id", userID,
			"client_id", id,
			"projects", result.ProjectsDeleted,
			"interactions", result.InteractionsDeleted,
			"reminders", result.RemindersDeleted,
		)
	}

	return &result, nil
}
