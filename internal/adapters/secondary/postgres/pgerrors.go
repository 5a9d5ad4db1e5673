package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
)

// SQLSTATE codes that a concurrent allocation race can produce. They all mean
// "lost this round, try again", not "the request is wrong".
const (
	codeUniqueViolation   = "23505" // two issuers picked the same sequence
	codeSerializationFail = "40001"
	codeDeadlockDetected  = "40P01"
	codeLockNotAvailable  = "55P03" // lock_timeout expired
)

// classifyConflict translates storage-level race failures into the core's
// transient-conflict error so the retry policy stays ignorant of pgx. Other
// errors pass through unchanged.
func classifyConflict(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation, codeSerializationFail, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %s", apperrors.ErrTransientConflict, pgErr.Code)
	}
	return err
}
