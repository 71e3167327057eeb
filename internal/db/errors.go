package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type ConstraintKind int

const (
	ConstraintUnique ConstraintKind = iota + 1
	ConstraintForeignKey
	ConstraintNotNull
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintUnique:
		return "unique"
	case ConstraintForeignKey:
		return "foreign_key"
	case ConstraintNotNull:
		return "not_null"
	default:
		return "unknown"
	}
}

// ConstraintViolation is the typed error the storage layer returns for
// integrity failures, so callers classify on Kind instead of inspecting
// driver message text.
type ConstraintViolation struct {
	Kind       ConstraintKind
	Constraint string
	err        error
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("%s constraint violation on %q", e.Kind, e.Constraint)
}

func (e *ConstraintViolation) Unwrap() error { return e.err }

// wrapErr converts pgx integrity-violation errors (SQLSTATE class 23) into
// ConstraintViolation and passes everything else through unchanged.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &ConstraintViolation{Kind: ConstraintUnique, Constraint: pgErr.ConstraintName, err: err}
		case "23503":
			return &ConstraintViolation{Kind: ConstraintForeignKey, Constraint: pgErr.ConstraintName, err: err}
		case "23502":
			return &ConstraintViolation{Kind: ConstraintNotNull, Constraint: pgErr.ColumnName, err: err}
		}
	}
	return err
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
