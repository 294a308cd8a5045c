package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

// wrapErr classifies a driver error. Uniqueness violations become
// types.ErrConflict; everything else becomes types.ErrStore. The driver
// error stays in the chain.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, types.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w: %w", op, types.ErrStore, err)
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Primary result code only; the message still names the constraint.
		return strings.Contains(se.Error(), "UNIQUE constraint failed")
	}
	return false
}
