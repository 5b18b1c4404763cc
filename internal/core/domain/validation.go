package domain

import (
	"sort"
	"strings"
)

// NonFieldErrors is the key used for errors not tied to a single field.
const NonFieldErrors = "non_field_errors"

// ValidationError collects field-keyed messages for a rejected payload.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// FieldError is shorthand for a ValidationError with one message.
func FieldError(field, msg string) *ValidationError {
	ve := NewValidationError()
	ve.Add(field, msg)
	return ve
}

// Add appends msg under field, skipping exact duplicates.
func (e *ValidationError) Add(field, msg string) {
	for _, existing := range e.Fields[field] {
		if existing == msg {
			return
		}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Has reports whether field already carries at least one message.
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns nil when nothing was collected so callers can return it as an error.
func (e *ValidationError) OrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
