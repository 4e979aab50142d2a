package persistence

import (
	"errors"
	"strings"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// translateError maps driver-level failures onto the shared domain
// errors so raw storage errors never cross the repository boundary.
// Unique violations matter most: the validation pre-check is advisory
// and the database constraint is the authority (two racing creates are
// only serialized here).
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return shared.ErrAlreadyExists
		case "23503": // foreign_key_violation
			return shared.ErrInUse
		}
	}

	// sqlite (used by tests) reports constraint violations as strings
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return shared.ErrAlreadyExists
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return shared.ErrInUse
	}

	return err
}
