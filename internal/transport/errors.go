package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/interaction"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
	"github.com/rpggio/crmdesk/internal/domain/user"
	"github.com/rpggio/crmdesk/internal/repository"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("malformed request")

type errorResponse struct {
	Error string `json:"error"`
}

// errorTable lists the errors safe to report to callers. Anything else is a
// 500 with a generic message.
var errorTable = []struct {
	err    error
	status int
}{
	{client.ErrClientNotFound, http.StatusNotFound},
	{project.ErrProjectNotFound, http.StatusNotFound},
	{project.ErrClientNotFound, http.StatusNotFound},
	{interaction.ErrInteractionNotFound, http.StatusNotFound},
	{interaction.ErrClientNotFound, http.StatusNotFound},
	{interaction.ErrProjectNotFound, http.StatusNotFound},
	{reminder.ErrReminderNotFound, http.StatusNotFound},
	{reminder.ErrClientNotFound, http.StatusNotFound},
	{reminder.ErrProjectNotFound, http.StatusNotFound},
	{user.ErrUserNotFound, http.StatusNotFound},
	{user.ErrEmailTaken, http.StatusConflict},
	{repository.ErrConflict, http.StatusConflict},
	{client.ErrInvalidInput, http.StatusBadRequest},
	{project.ErrInvalidInput, http.StatusBadRequest},
	{interaction.ErrInvalidInput, http.StatusBadRequest},
	{reminder.ErrInvalidInput, http.StatusBadRequest},
	{user.ErrInvalidInput, http.StatusBadRequest},
	{errBadRequest, http.StatusBadRequest},
	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrUnauthorized, http.StatusUnauthorized},
}

// statusFor maps err to an HTTP status and a message safe to return.
func statusFor(err error) (int, string) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError writes err as a JSON error. Unexpected errors are logged with
// full detail and reported generically.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, message)
}
