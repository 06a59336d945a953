// Package vectorerr defines the stable error kinds shared by the vector
// store and the HNSW index. Callers branch on Kind rather than matching
// error strings.
package vectorerr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of failure. Kinds are part of the public API
// and must not be renumbered or renamed once released.
type Kind string

const (
	// InvalidArgument covers malformed parameters: non-positive
	// dimension, M < 2, efConstruction < M, or non-positive k/efSearch.
	InvalidArgument Kind = "invalid_argument"

	// DimensionMismatch covers any vector whose length does not equal
	// the store's fixed dimension.
	DimensionMismatch Kind = "dimension_mismatch"

	// DuplicateID covers adding an id already present in the store or
	// the index.
	DuplicateID Kind = "duplicate_id"

	// NotFound covers retrieving or indexing an id absent from the
	// store.
	NotFound Kind = "not_found"

	// ZeroMagnitude covers cosine or normalize applied to a vector
	// whose magnitude is below the zero threshold.
	ZeroMagnitude Kind = "zero_magnitude"
)

// Error is the concrete error type returned at every package boundary in
// this module. Op names the failing operation (e.g. "vectorstore.AddVector")
// so a wrapped error chain reads like a call stack even without panics.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no wrapped detail.
func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op}
}

// Wrap builds an *Error carrying a wrapped detail error.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is a *Error of the given kind, unwrapping as
// needed.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
