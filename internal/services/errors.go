package services

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/dto"
)

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUsernameTaken        = errors.New("username already registered")
	ErrReportNotFound       = errors.New("report not found")
	ErrInvalidStatus        = errors.New("invalid status: must be pending, validated, in_progress, or resolved")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

// ValidationError collects every failing field of a request, not just the first.
type ValidationError struct {
	Fields []dto.FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, dto.FieldError{Field: field, Message: message})
}

func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns nil when no field failed, so callers can `return v.Err()`.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
