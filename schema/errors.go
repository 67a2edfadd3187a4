package schema

import (
	"errors"
	"strings"
)

// ErrInvalidSchema indicates a malformed model description.
var ErrInvalidSchema = errors.New("schema: invalid description")

// SchemaError represents a model description error.
type SchemaError struct {
	Type    string // Entity type name
	Field   string // Property or relationship (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema: ")
	if e.Type != "" {
		b.WriteString("type ")
		b.WriteString(e.Type)
		if e.Field != "" {
			b.WriteString(" field ")
			b.WriteString(e.Field)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(typeName, field, message string, cause error) *SchemaError {
	return &SchemaError{Type: typeName, Field: field, Message: message, Cause: cause}
}
