package persistence

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentifier indicates a caller-supplied id that matches neither the
// native-key shape nor a base-10 sequence id. Surfaced as a client error and
// never retried.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// ErrSequenceUnavailable indicates the counter store failed while issuing a
// sequence id. The enclosing creation fails entirely; no document is ever
// persisted without its sequence id.
var ErrSequenceUnavailable = errors.New("sequence counter unavailable")

// ReferenceError reports a mandatory foreign key that does not resolve to a
// satisfying document at write time. Dangling references discovered at read
// time are not errors; the hydrator leaves the raw value in place instead.
type ReferenceError struct {
	// DisplayName is the human-facing relationship name, e.g. "Catering Type".
	DisplayName string
	// Field is the foreign-key field that failed.
	Field string
	// Value is the rejected sequence id; nil when the field was required but absent.
	Value *int64
}

func (e *ReferenceError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s is required", e.DisplayName)
	}
	return fmt.Sprintf("%s not found or inactive", e.DisplayName)
}
