package client

import (
	"net/mail"
	"strings"
)

// ValidateCreateInput validates fields required to create a client.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrInvalidInput
	}
	if !validEmail(req.Email) {
		return ErrInvalidInput
	}
	if strings.TrimSpace(req.Phone) == "" {
		return ErrInvalidInput
	}
	return nil
}

// ValidateUpdateInput validates the fields present in an update.
func ValidateUpdateInput(req UpdateRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return ErrInvalidInput
	}
	if req.Email != nil && !validEmail(*req.Email) {
		return ErrInvalidInput
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) == "" {
		return ErrInvalidInput
	}
	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
