package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/metrics"
)

type clientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Notes   *string `json:"notes"`
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var body clientRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	c, err := s.svc.Clients.Create(r.Context(), currentUser(r), client.CreateRequest{
		Name:    deref(body.Name),
		Email:   deref(body.Email),
		Phone:   deref(body.Phone),
		Company: deref(body.Company),
		Notes:   deref(body.Notes),
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.svc.Clients.List(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Clients.Get(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var body clientRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	c, err := s.svc.Clients.Update(r.Context(), currentUser(r), chi.URLParam(r, "id"), client.UpdateRequest{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Company: body.Company,
		Notes:   body.Notes,
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Clients.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		if status, _ := statusFor(err); status == http.StatusInternalServerError {
			metrics.ObserveClientDelete(0, 0, 0, err)
		}
		respondError(w, r, s.logger, err)
		return
	}
	metrics.ObserveClientDelete(result.ProjectsDeleted, result.InteractionsDeleted, result.RemindersDeleted, nil)
	writeJSON(w, http.StatusOK, result)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
