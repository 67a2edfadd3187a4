package metadata

import (
	"errors"
	"strings"
)

// Sentinel errors recorded while building a model.
var (
	// ErrDuplicateType is returned when a type name is declared twice with
	// incompatible shapes.
	ErrDuplicateType = errors.New("metadata: duplicate type")

	// ErrUnknownType is returned when a builder refers to a type that does
	// not exist.
	ErrUnknownType = errors.New("metadata: unknown type")

	// ErrUnknownProperty is returned when a key, index or foreign key refers
	// to a property that does not exist.
	ErrUnknownProperty = errors.New("metadata: unknown property")

	// ErrInvalidMapping is returned for structurally invalid configuration,
	// e.g. a key on a derived type or an inheritance cycle.
	ErrInvalidMapping = errors.New("metadata: invalid mapping")

	// ErrFinalized is returned when a finalized model is mutated.
	ErrFinalized = errors.New("metadata: model is finalized")

	// ErrNotConverged is returned when conventions keep raising events
	// past the dispatch limit.
	ErrNotConverged = errors.New("metadata: conventions did not converge")
)

// ModelError describes a builder misuse on a specific type member.
type ModelError struct {
	// Type is the name of the structural type involved.
	Type string
	// Member is the property, key or relationship involved, if any.
	Member string
	// Message describes the problem.
	Message string
	// Cause is the underlying sentinel error.
	Cause error
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	var b strings.Builder
	b.WriteString("metadata: ")
	b.WriteString(e.Type)
	if e.Member != "" {
		b.WriteString(".")
		b.WriteString(e.Member)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ModelError) Unwrap() error {
	return e.Cause
}

// NewModelError creates a new ModelError.
func NewModelError(typ, member, message string, cause error) *ModelError {
	return &ModelError{Type: typ, Member: member, Message: message, Cause: cause}
}

// IsModelError reports whether err is or wraps a ModelError.
func IsModelError(err error) bool {
	var e *ModelError
	return errors.As(err, &e)
}
