package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// IsUniqueViolation reports whether err is a UNIQUE constraint failure,
// e.g. a duplicate user email.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// IsForeignKeyViolation reports whether err is a FOREIGN KEY constraint
// failure. With foreign keys enforced, an insert racing a parent delete
// fails here instead of leaving an orphaned row.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
