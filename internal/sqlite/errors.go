package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/crmdesk/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateWriteError maps constraint failures to repository errors and
// wraps everything else with op.
func translateWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return repository.ErrConflict
	case isForeignKeyViolation(err):
		return repository.ErrForeignKeyViolation
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
