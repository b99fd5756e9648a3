package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")
)

// ValidationError reports a query the datastore rejected. Details maps a
// request key to the messages produced for it.
type ValidationError struct {
	Details map[string][]string
}

func NewValidationError(key string, messages ...string) *ValidationError {
	return &ValidationError{Details: map[string][]string{key: messages}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Details[k], "; ")))
	}
	return "validation error: " + strings.Join(parts, ", ")
}
