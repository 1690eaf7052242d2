package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
	"github.com/rpggio/crmdesk/internal/metrics"
)

type createReminderRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date"`
	ClientID    *string `json:"client_id"`
	ProjectID   *string `json:"project_id"`
}

type updateReminderRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	ClientID    *string `json:"client_id"`
	ProjectID   *string `json:"project_id"`
}

type syncResponse struct {
	*reminder.SyncResult
	Error string `json:"error,omitempty"`
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var body createReminderRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	due, err := parseTime(body.DueDate)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	rem, err := s.svc.Reminders.Create(r.Context(), currentUser(r), reminder.CreateRequest{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     due,
		ClientID:    body.ClientID,
		ProjectID:   body.ProjectID,
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rem)
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	from, err := queryTime(r, "due_from")
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	to, err := queryTime(r, "due_to")
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	items, err := s.svc.Reminders.List(r.Context(), currentUser(r), reminder.ListOptions{DueFrom: from, DueTo: to})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleRemindersThisWeek(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Reminders.ThisWeek(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleSyncProjectDeadlines reports a partial run as 500 with the counts of
// what did succeed and the ids that failed.
func (s *Server) handleSyncProjectDeadlines(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Reminders.SyncProjectDeadlines(r.Context(), currentUser(r))
	if result != nil {
		metrics.ObserveReminderSync(result.Created, result.Updated, result.Unchanged, len(result.Failed))
	}
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, syncResponse{SyncResult: result})
	case errors.Is(err, reminder.ErrSyncIncomplete) && result != nil:
		writeJSON(w, http.StatusInternalServerError, syncResponse{SyncResult: result, Error: err.Error()})
	default:
		respondError(w, r, s.logger, err)
	}
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	rem, err := s.svc.Reminders.Get(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	var body updateReminderRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	due, err := parseTimePtr(body.DueDate)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	rem, err := s.svc.Reminders.Update(r.Context(), currentUser(r), chi.URLParam(r, "id"), reminder.UpdateRequest{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     due,
		ClientID:    body.ClientID,
		ProjectID:   body.ProjectID,
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reminders.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
