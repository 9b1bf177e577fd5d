package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Callers match with errors.Is.
var (
	// ErrInvalidArgument marks malformed caller input; no index round-trip was attempted.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a missing document where absence is a failure (update-only writes).
	ErrNotFound = errors.New("not found")

	// ErrIndexUnavailable marks a search engine that could not be reached or failed internally.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrIndexRejected marks a request the search engine refused (unknown sort field, bad input).
	ErrIndexRejected = errors.New("index rejected request")
)

// IndexError carries the context of a failed index round-trip.
// It unwraps to one of ErrIndexUnavailable or ErrIndexRejected and to the underlying cause.
type IndexError struct {
	Op     string // search, get, exists, put, bulk, ...
	Key    string // document id for single-document operations
	Status int    // HTTP status returned by the engine, 0 when no response
	Reason string // engine-provided reason
	Kind   error
	Err    error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	msg := fmt.Sprintf("index %s", e.Op)
	if e.Key != "" {
		msg += fmt.Sprintf(" [%s]", e.Key)
	}
	msg += ": " + e.Kind.Error()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap exposes both the taxonomy sentinel and the cause.
func (e *IndexError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}
