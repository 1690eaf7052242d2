package reminder

import "strings"

// ValidateCreateInput validates fields required to create a reminder.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrInvalidInput
	}
	if req.DueDate.IsZero() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateUpdateInput validates the fields present in an update.
func ValidateUpdateInput(req UpdateRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return ErrInvalidInput
	}
	if req.DueDate != nil && req.DueDate.IsZero() {
		return ErrInvalidInput
	}
	return nil
}
