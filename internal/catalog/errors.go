package catalog

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no record matches an id or slug.
var ErrNotFound = errors.New("record not found")

// InputError reports a missing or malformed request field.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func inputError(field, message string) *InputError {
	return &InputError{Field: field, Message: message}
}

// PersistenceError wraps a rejection from the data store. Details holds
// field-attributable messages (duplicate slug, document validation) and is
// empty when the failure cannot be pinned on the input.
type PersistenceError struct {
	Details []string
	Err     error
}

func (e *PersistenceError) Error() string {
	if len(e.Details) > 0 {
		return "persistence rejected: " + strings.Join(e.Details, "; ")
	}
	if e.Err != nil {
		return "persistence failed: " + e.Err.Error()
	}
	return "persistence failed"
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// FieldAttributable reports whether the rejection was caused by the input.
func (e *PersistenceError) FieldAttributable() bool {
	return len(e.Details) > 0
}
