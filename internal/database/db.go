package database

import (
	"errors"

	"github.com/clmblockchain/devpool/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPostgresError translates driver-level failures into the sentinel errors
// callers dispatch on. The unique-constraint violation on developers.email is
// the one duplicate key in the schema, so 23505 maps to ErrDuplicateEmail and
// stays distinguishable from every other store failure.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // unique_violation
			return models.ErrDuplicateEmail
		}
	}

	return err
}
