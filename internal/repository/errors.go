package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for a unique
// constraint violation.
const pgUniqueViolation = "23505"

// ErrConflict marks a unique-constraint violation. Callers that retry
// (the order-number generator) test for it with errors.Is; every other
// persistence error propagates untouched.
var ErrConflict = errors.New("unique constraint violation")

// classifyError maps a structured PostgreSQL unique violation onto
// ErrConflict and leaves all other errors as-is.
func classifyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w on %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}
