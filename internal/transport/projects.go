package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/crmdesk/internal/domain/project"
)

type createProjectRequest struct {
	ClientID string         `json:"client_id"`
	Title    string         `json:"title"`
	Budget   float64        `json:"budget"`
	Deadline string         `json:"deadline"`
	Status   project.Status `json:"status"`
}

type updateProjectRequest struct {
	ClientID *string         `json:"client_id"`
	Title    *string         `json:"title"`
	Budget   *float64        `json:"budget"`
	Deadline *string         `json:"deadline"`
	Status   *project.Status `json:"status"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	deadline, err := parseTime(body.Deadline)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	proj, err := s.svc.Projects.Create(r.Context(), currentUser(r), project.CreateRequest{
		ClientID: body.ClientID,
		Title:    body.Title,
		Budget:   body.Budget,
		Deadline: deadline,
		Status:   body.Status,
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	from, err := queryTime(r, "deadline_from")
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	to, err := queryTime(r, "deadline_to")
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	projects, err := s.svc.Projects.List(r.Context(), currentUser(r), project.ListOptions{
		ClientID:     r.URL.Query().Get("client_id"),
		DeadlineFrom: from,
		DeadlineTo:   to,
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleProjectStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Projects.Stats(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.svc.Projects.Get(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var body updateProjectRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	deadline, err := parseTimePtr(body.Deadline)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	proj, err := s.svc.Projects.Update(r.Context(), currentUser(r), chi.URLParam(r, "id"), project.UpdateRequest{
		ClientID: body.ClientID,
		Title:    body.Title,
		Budget:   body.Budget,
		Deadline: deadline,
		Status:   body.Status,
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Projects.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
