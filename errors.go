package naming

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for configuration failures.
var (
	// ErrInvalidConfig is returned when an option is given an unusable value.
	ErrInvalidConfig = errors.New("naming: invalid configuration")

	// ErrUnknownStyle is returned when a naming style is not recognized.
	ErrUnknownStyle = errors.New("naming: unknown naming style")
)

// ConfigError represents a configuration error raised by an Option or by
// Register. Configuration errors are never recovered from: they are reported
// before any model is built.
type ConfigError struct {
	Option  string
	Value   any
	Message string
	Cause   error
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Value != nil {
		return fmt.Sprintf("naming: config error for %q (value: %v): %s", e.Option, e.Value, msg)
	}
	return fmt.Sprintf("naming: config error for %q: %s", e.Option, msg)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ConfigError.
// This allows errors.Is(configErr, ErrInvalidConfig) to return true.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError returns a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// WrapConfigError returns a new ConfigError caused by err.
func WrapConfigError(option string, value any, message string, err error) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message, Cause: err}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}

// IsUnknownStyle returns true if the error reports an unrecognized style.
func IsUnknownStyle(err error) bool {
	return errors.Is(err, ErrUnknownStyle)
}
