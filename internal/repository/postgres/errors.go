package postgres

import (
	"database/sql"
	stderrors "errors"

	"github.com/lib/pq"
	ierr "github.com/nodehive/nodehive/internal/errors"
)

const uniqueViolation = "23505"

// wrapDBError maps driver-level failures onto the module's sentinel errors
func wrapDBError(err error, entity string) error {
	if err == nil {
		return nil
	}

	if stderrors.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHintf("%s not found", entity).
			Mark(ierr.ErrNotFound)
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ierr.WithError(err).
			WithHintf("%s already exists", entity).
			Mark(ierr.ErrAlreadyExists)
	}

	return ierr.WithError(err).
		WithHintf("database operation on %s failed", entity).
		Mark(ierr.ErrDatabase)
}
