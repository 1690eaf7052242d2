package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/repository"
)

const (
	// LeadTime is how far ahead of a deadline the automatic reminder falls due.
	LeadTime = 7 * 24 * time.Hour
	// Window is the span of the weekly view.
	Window = 7 * 24 * time.Hour

	automaticDescription = "Project deadline is approaching in 7 days"
	weeklyDescription    = "Project deadline is approaching"
)

// DeadlineTitle is the title used for a project's deadline entries.
func DeadlineTitle(projectTitle string) string {
	return "Project Deadline: " + projectTitle
}

// Service handles reminder operations.
type Service struct {
	repo     Repository
	projects ProjectRepository
	clients  ClientRepository
	tx       Transactor
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new reminder service.
func NewService(repo Repository, projects ProjectRepository, clients ClientRepository, tx Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		clients:  clients,
		tx:       tx,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source. It returns s for chaining.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// CreateRequest defines reminder inputs.
type CreateRequest struct {
	Title       string
	Description string
	DueDate     time.Time
	ClientID    *string
	ProjectID   *string
}

// UpdateRequest holds optional changes. A non-nil empty ClientID or ProjectID
// removes that link.
type UpdateRequest struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	ClientID    *string
	ProjectID   *string
}

// Create stores a user reminder.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Reminder, error) {
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

	now := s.now().UTC()
	r := &Reminder{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate.UTC(),
		ClientID:    clientID,
		ProjectID:   projectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("creating reminder: %w", err)
	}

	return r, nil
}

// Get fetches a reminder by ID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Reminder, error) {
	r, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("getting reminder: %w", err)
	}
	return r, nil
}

// List returns the user's reminders ordered by due date.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]Reminder, error) {
	items, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	return items, nil
}

// Update applies the non-nil fields of req.
func (s *Service) Update(ctx context.Context, userID, id string, req UpdateRequest) (*Reminder, error) {
	if err := ValidateUpdateInput(req); err != nil {
		return nil, err
	}

	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	// Automatic reminders stay bound to the project the synchronizer made them for.
	if r.Type == TypeAutomatic && (req.ClientID != nil || req.ProjectID != nil) {
		return nil, fmt.Errorf("%w: automatic reminder links cannot change", ErrInvalidInput)
	}

	if req.ClientID != nil {
		if r.ClientID, err = s.resolveClient(ctx, userID, req.ClientID); err != nil {
			return nil, err
		}
	}
	if req.ProjectID != nil {
		if r.ProjectID, err = s.resolveProject(ctx, userID, req.ProjectID); err != nil {
			return nil, err
		}
	}
	if req.Title != nil {
		r.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.DueDate != nil {
		r.DueDate = req.DueDate.UTC()
	}
	r.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, userID, r); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("updating reminder: %w", err)
	}

	return r, nil
}

// Delete removes a reminder.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReminderNotFound
		}
		return fmt.Errorf("deleting reminder: %w", err)
	}
	return nil
}

type syncOutcome int

const (
	syncUnchanged syncOutcome = iota
	syncCreated
	syncUpdated
)

// SyncProjectDeadlines makes sure every project of the user with a deadline
// at or after now has exactly one automatic reminder due LeadTime before the
// deadline. Existing automatic reminders whose title or due date drifted from
// the project are corrected in place. Each project is handled in its own
// transaction; a failing project is recorded in the result and the rest are
// still processed, in which case ErrSyncIncomplete is returned with the result.
func (s *Service) SyncProjectDeadlines(ctx context.Context, userID string) (*SyncResult, error) {
	now := s.now().UTC()
	projects, err := s.projects.List(ctx, userID, project.ListOptions{DeadlineFrom: &now})
	if err != nil {
		return nil, fmt.Errorf("listing projects for sync: %w", err)
	}

	result := &SyncResult{}
	for i := range projects {
		p := &projects[i]
		outcome, err := s.syncProject(ctx, userID, p, now)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("project deadline sync failed", "user_id", userID, "project_id", p.ID, "error", err)
			}
			result.Failed = append(result.Failed, p.ID)
			continue
		}
		switch outcome {
		case syncCreated:
			result.Created++
		case syncUpdated:
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	if s.logger != nil {
		s.logger.Info("project deadlines synced",
			"user_id", userID,
			"created", result.Created,
			"updated", result.Updated,
			"unchanged", result.Unchanged,
			"failed", len(result.Failed),
		)
	}

	if len(result.Failed) > 0 {
		return result, ErrSyncIncomplete
	}
	return result, nil
}

func (s *Service) syncProject(ctx context.Context, userID string, p *project.Project, now time.Time) (syncOutcome, error) {
	outcome := syncUnchanged
	title := DeadlineTitle(p.Title)
	due := p.Deadline.UTC().Add(-LeadTime)
	var clientID *string
	if p.ClientID != "" {
		id := p.ClientID
		clientID = &id
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.ListAutomatic(ctx, userID, p.ID)
		if err != nil {
			return fmt.Errorf("finding automatic reminder: %w", err)
		}

		if len(existing) == 0 {
			projectID := p.ID
			r := &Reminder{
				ID:          uuid.NewString(),
				UserID:      userID,
				Title:       title,
				Description: automaticDescription,
				DueDate:     due,
				Type:        TypeAutomatic,
				ClientID:    clientID,
				ProjectID:   &projectID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := repo.Create(ctx, userID, r); err != nil {
				return fmt.Errorf("creating automatic reminder: %w", err)
			}
			outcome = syncCreated
			return nil
		}

		// Keep the oldest row and drop any duplicates.
		for _, extra := range existing[1:] {
			if err := repo.Delete(ctx, userID, extra.ID); err != nil {
				return fmt.Errorf("deleting duplicate automatic reminder: %w", err)
			}
			outcome = syncUpdated
		}

		keep := &existing[0]
		if keep.Title == title && keep.DueDate.Equal(due) && sameID(keep.ClientID, clientID) {
			return nil
		}
		keep.Title = title
		keep.DueDate = due
		keep.ClientID = clientID
		keep.UpdatedAt = now
		if err := repo.Update(ctx, userID, keep); err != nil {
			return fmt.Errorf("updating automatic reminder: %w", err)
		}
		outcome = syncUpdated
		return nil
	})
	return outcome, err
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ThisWeek returns everything due in [now, now+Window]: one virtual entry per
// open project whose deadline falls in the window, plus the user's own
// reminders due in the window. Automatic reminders are left out since the
// project entry already covers them. Entries are ordered by due date, then id.
func (s *Service) ThisWeek(ctx context.Context, userID string) ([]WeeklyItem, error) {
	from := s.now().UTC()
	to := from.Add(Window)

	projects, err := s.projects.List(ctx, userID, project.ListOptions{
		DeadlineFrom:    &from,
		DeadlineTo:      &to,
		ExcludeStatuses: []project.Status{project.StatusCompleted, project.StatusCancelled},
	})
	if err != nil {
		return nil, fmt.Errorf("listing projects due this week: %w", err)
	}

	reminders, err := s.repo.List(ctx, userID, ListOptions{
		DueFrom:      &from,
		DueTo:        &to,
		ExcludeTypes: []string{TypeAutomatic},
	})
	if err != nil {
		return nil, fmt.Errorf("listing reminders due this week: %w", err)
	}

	titles := make(map[string]string, len(projects))
	items := make([]WeeklyItem, 0, len(projects)+len(reminders))
	for _, p := range projects {
		titles[p.ID] = p.Title
		clientID := p.ClientID
		items = append(items, WeeklyItem{
			ID:          p.ID,
			Title:       DeadlineTitle(p.Title),
			Description: weeklyDescription,
			DueDate:     p.Deadline.UTC(),
			Type:        TypeProjectDeadline,
			Virtual:     true,
			Project:     &ProjectRef{ID: p.ID, Title: p.Title},
			Client:      p.Client,
			ClientID:    &clientID,
		})
	}
	for _, r := range reminders {
		items = append(items, WeeklyItem{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			DueDate:     r.DueDate.UTC(),
			Type:        r.Type,
			ClientID:    r.ClientID,
		})
		if r.ProjectID != nil {
			ref, err := s.projectRef(ctx, userID, *r.ProjectID, titles)
			if err != nil {
				return nil, err
			}
			items[len(items)-1].Project = ref
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].DueDate.Equal(items[j].DueDate) {
			return items[i].DueDate.Before(items[j].DueDate)
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

// projectRef names the project a reminder is linked to, caching titles by id.
func (s *Service) projectRef(ctx context.Context, userID, id string, titles map[string]string) (*ProjectRef, error) {
	if title, ok := titles[id]; ok {
		return &ProjectRef{ID: id, Title: title}, nil
	}
	p, err := s.projects.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading reminder project: %w", err)
	}
	titles[id] = p.Title
	return &ProjectRef{ID: id, Title: p.Title}, nil
}

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
