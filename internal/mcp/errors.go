package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/interaction"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var errInvalidArgument = errors.New("invalid argument")

// MapError maps domain errors to MCP error codes. Unknown errors return nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, client.ErrClientNotFound),
		errors.Is(err, project.ErrClientNotFound),
		errors.Is(err, interaction.ErrClientNotFound),
		errors.Is(err, reminder.ErrClientNotFound):
		return &APIError{Code: "CLIENT_NOT_FOUND", Message: "client not found", RecoveryHint: "Call list_clients for valid IDs"}
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, interaction.ErrProjectNotFound),
		errors.Is(err, reminder.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid IDs"}
	case errors.Is(err, reminder.ErrReminderNotFound):
		return &APIError{Code: "REMINDER_NOT_FOUND", Message: "reminder not found"}
	case errors.Is(err, reminder.ErrSyncIncomplete):
		return &APIError{Code: "SYNC_INCOMPLETE", Message: "some projects could not be synchronized", RecoveryHint: "Retry sync_project_deadlines"}
	case errors.Is(err, client.ErrInvalidInput),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, interaction.ErrInvalidInput),
		errors.Is(err, reminder.ErrInvalidInput),
		errors.Is(err, errInvalidArgument):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check required fields and date formats"}
	default:
		return nil
	}
}
