package database

import (
	"errors"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// IsUniqueViolation reports whether err is a UNIQUE (or primary key)
// constraint failure. Handlers map these to validation errors so that
// concurrent duplicate submissions lose cleanly with a 400.
func IsUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key failure,
// including RESTRICT rejections such as deleting a category that a
// title still references. RESTRICT errors can surface as a bare
// SQLITE_CONSTRAINT with no extended code, so the message is checked
// as well.
func IsForeignKeyViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return true
	}
	return se.Code == sqlite3.ErrConstraint &&
		strings.Contains(err.Error(), "FOREIGN KEY")
}
