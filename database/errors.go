package database

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the referenced expense id does not exist.
var ErrNotFound = errors.New("expense not found")

// ValidationError reports client-fixable input problems. It is always
// detected before any SQL is issued, so a rejected write never touches
// the database.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// StorageError wraps an infrastructure fault (connection loss, failed
// query) so handlers can distinguish it from bad input.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
