package db

import (
	"errors"
	"fmt"
	"net/http"

	"users-backend/constant"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("record not found")

// FatalStartupError means the retry budget ran out before a connection could
// be made. The service must not start.
type FatalStartupError struct {
	Attempts int
	Err      error
}

func (e *FatalStartupError) Error() string {
	return fmt.Sprintf("database unreachable after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *FatalStartupError) Unwrap() error { return e.Err }

// DataAccessError wraps any failure raised inside a session. Callers only see
// the generic message; the cause is for logs.
type DataAccessError struct {
	Err error
}

func (e *DataAccessError) Error() string {
	return "data access failed: " + e.Err.Error()
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func (e *DataAccessError) StatusCode() int { return http.StatusInternalServerError }

func (e *DataAccessError) PublicMessage() string { return constant.MSG_DATABASE_FAILURE }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsDataAccess(err error) bool {
	var dae *DataAccessError
	return errors.As(err, &dae)
}
