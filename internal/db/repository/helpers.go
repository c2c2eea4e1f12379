// Package repository implements the domain identity-store ports on SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"identity-console/internal/domain"
)

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY violation.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// mapDBError translates driver errors into the domain error taxonomy.
// Anything that is not a client-caused failure becomes an UnavailableError.
func mapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &domain.ConflictError{Message: "resource already exists"}
		case sqlite3.ErrConstraintForeignKey:
			return &domain.NotFoundError{Message: "referenced resource not found"}
		default:
			return &domain.ValidationError{Message: se.Error()}
		}
	}
	return &domain.UnavailableError{Op: op, Err: err}
}

// requireAffected turns a zero-row mutation into a NotFoundError.
func requireAffected(res sql.Result, op string, notFound *domain.NotFoundError) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapDBError(op, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
