package naming_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/naming"
)

func TestConfigError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := naming.NewConfigError("Style", "weird", "unrecognized style")
		assert.Equal(t, `naming: config error for "Style" (value: weird): unrecognized style`, err.Error())

		err = naming.NewConfigError("Rewriter", nil, "rewriter cannot be nil")
		assert.Equal(t, `naming: config error for "Rewriter": rewriter cannot be nil`, err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := naming.NewConfigError("Phase", 1, "too early")
		assert.True(t, errors.Is(err, naming.ErrInvalidConfig))
		assert.False(t, errors.Is(err, naming.ErrUnknownStyle))
	})

	t.Run("Unwrap", func(t *testing.T) {
		err := naming.WrapConfigError("Style", "weird", "unrecognized style", naming.ErrUnknownStyle)
		assert.True(t, errors.Is(err, naming.ErrUnknownStyle))
		assert.True(t, errors.Is(err, naming.ErrInvalidConfig))
		assert.True(t, naming.IsUnknownStyle(err))
		assert.Contains(t, err.Error(), naming.ErrUnknownStyle.Error())
	})

	t.Run("IsConfigError", func(t *testing.T) {
		err := naming.NewConfigError("Style", nil, "bad")
		assert.True(t, naming.IsConfigError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, naming.IsConfigError(wrapped))

		assert.False(t, naming.IsConfigError(naming.ErrInvalidConfig))
		assert.False(t, naming.IsConfigError(errors.New("other error")))
		assert.False(t, naming.IsConfigError(nil))
	})
}
