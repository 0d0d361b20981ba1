// Package model defines the persisted entities and the explicit validation
// pass each one runs before hitting the database. Constraint violations are
// reported as a ValidationError carrying one message per offending field so
// handlers can return them verbatim to the client.
package model

import (
	"sort"
	"strings"
)

// ValidationError maps field names to human-readable constraint messages.
type ValidationError struct {
	Fields map[string]string
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
	return strings.Join(parts, "; ")
}

// newValidationError returns nil when no field failed, so callers can write
// `return v.err()` style checks without a nil-map special case.
func newValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
