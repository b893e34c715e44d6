package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Handlers map these to status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrStore        = errors.New("store unavailable")
)

var (
	ErrProfileNotFound = fmt.Errorf("profile %w", ErrNotFound)
	ErrLinkNotFound    = fmt.Errorf("link %w", ErrNotFound)
	ErrNoIdentity      = fmt.Errorf("no active identity: %w", ErrUnauthorized)
	ErrUsernameTaken   = fmt.Errorf("username already taken: %w", ErrConflict)
)

// ValidationError lists the offending fields and their problems.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, problem string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: problem}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
