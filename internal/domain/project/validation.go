package project

import "strings"

// ValidateCreateInput validates fields required to create a project.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(req.ClientID) == "" {
		return ErrInvalidInput
	}
	if req.Deadline.IsZero() {
		return ErrInvalidInput
	}
	if req.Budget < 0 {
		return ErrInvalidInput
	}
	if req.Status != "" && !req.Status.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateUpdateInput validates the fields present in an update.
func ValidateUpdateInput(req UpdateRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return ErrInvalidInput
	}
	if req.ClientID != nil && strings.TrimSpace(*req.ClientID) == "" {
		return ErrInvalidInput
	}
	if req.Deadline != nil && req.Deadline.IsZero() {
		return ErrInvalidInput
	}
	if req.Budget != nil && *req.Budget < 0 {
		return ErrInvalidInput
	}
	if req.Status != nil && !req.Status.Valid() {
		return ErrInvalidInput
	}
	return nil
}
