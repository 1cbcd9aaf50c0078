package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/licensing/internal/licensing/store"
	"github.com/lib/pq"
)

const uniqueViolation = pq.ErrorCode("23505")

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrAlreadyExists, pqErr.Constraint)
	}
	return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
}
