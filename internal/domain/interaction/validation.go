package interaction

import "strings"

// ValidateCreateInput validates fields required to log an interaction.
func ValidateCreateInput(req CreateRequest) error {
	if req.Date.IsZero() {
		return ErrInvalidInput
	}
	if strings.TrimSpace(req.Type) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(req.Notes) == "" {
		return ErrInvalidInput
	}
	return nil
}

// ValidateUpdateInput validates the fields present in an update.
func ValidateUpdateInput(req UpdateRequest) error {
	if req.Date != nil && req.Date.IsZero() {
		return ErrInvalidInput
	}
	if req.Type != nil && strings.TrimSpace(*req.Type) == "" {
		return ErrInvalidInput
	}
	if req.Notes != nil && strings.TrimSpace(*req.Notes) == "" {
		return ErrInvalidInput
	}
	return nil
}
