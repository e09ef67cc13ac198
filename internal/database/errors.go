package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a write would break a uniqueness rule or a
	// delete is blocked by a dependent row.
	ErrConflict = errors.New("conflict")
	// ErrConsistency means a subtype row exists without its parent row.
	ErrConsistency = errors.New("inconsistent inheritance chain")
	// ErrMissingReference means a foreign key points at a row that does not exist.
	ErrMissingReference = errors.New("referenced record does not exist")
	// ErrInvalidPosition means a target position lies outside 1..N.
	ErrInvalidPosition = errors.New("position out of range")
)

// StorageError wraps a failure from the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage failure: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Translate maps a GORM or SQLite error onto the package sentinels. Errors
// that already carry a sentinel pass through unchanged.
func Translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isSentinel(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case IsUniqueViolation(err):
		return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
	case IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w: %v", op, ErrMissingReference, err)
	default:
		return &StorageError{Op: op, Err: err}
	}
}

// NotFound builds an ErrNotFound for the given entity and key.
func NotFound(entity string, key any) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
}

// Conflict builds an ErrConflict with a readable reason.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Inconsistent reports a subtype row whose parent is missing. The result
// matches both ErrConsistency and ErrNotFound so lookups treat it as absent.
func Inconsistent(entity string, id uint, missing string) error {
	return fmt.Errorf("%s %d has no %s row: %w (%w)", entity, id, missing, ErrConsistency, ErrNotFound)
}

func isSentinel(err error) bool {
	var storageErr *StorageError
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrConsistency) ||
		errors.Is(err, ErrMissingReference) ||
		errors.Is(err, ErrInvalidPosition) ||
		errors.As(err, &storageErr)
}

// IsUniqueViolation reports a UNIQUE or PRIMARY KEY constraint failure.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports a FOREIGN KEY constraint failure.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
