package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/crmdesk/internal/domain/interaction"
)

type createInteractionRequest struct {
	Date      string  `json:"date"`
	Type      string  `json:"type"`
	Notes     string  `json:"notes"`
	ClientID  *string `json:"client_id"`
	ProjectID *string `json:"project_id"`
}

type updateInteractionRequest struct {
	Date      *string `json:"date"`
	Type      *string `json:"type"`
	Notes     *string `json:"notes"`
	ClientID  *string `json:"client_id"`
	ProjectID *string `json:"project_id"`
}

func (s *Server) handleCreateInteraction(w http.ResponseWriter, r *http.Request) {
	var body createInteractionRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	date, err := parseTime(body.Date)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	in, err := s.svc.Interactions.Create(r.Context(), currentUser(r), interaction.CreateRequest{
		Date:      date,
		Type:      body.Type,
		Notes:     body.Notes,
		ClientID:  body.ClientID,
		ProjectID: body.ProjectID,
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Interactions.List(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleListClientInteractions(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Interactions.ListByClient(r.Context(), currentUser(r), chi.URLParam(r, "clientID"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleListProjectInteractions(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Interactions.ListByProject(r.Context(), currentUser(r), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetInteraction(w http.ResponseWriter, r *http.Request) {
	in, err := s.svc.Interactions.Get(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleUpdateInteraction(w http.ResponseWriter, r *http.Request) {
	var body updateInteractionRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	date, err := parseTimePtr(body.Date)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	in, err := s.svc.Interactions.Update(r.Context(), currentUser(r), chi.URLParam(r, "id"), interaction.UpdateRequest{
		Date:      date,
		Type:      body.Type,
		Notes:     body.Notes,
		ClientID:  body.ClientID,
		ProjectID: body.ProjectID,
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleDeleteInteraction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Interactions.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
