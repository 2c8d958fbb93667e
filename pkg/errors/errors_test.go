package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/webhost/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "todo",
			ID:       "42",
		}
		assert.Equal(t, "todo with ID 42 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("handler", "CreateTodo")
		wrapped := fmt.Errorf("dispatching: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))

		var nf *pkgerrors.NotFoundError
		assert.True(t, errors.As(wrapped, &nf))
		assert.Equal(t, "CreateTodo", nf.ID)
	})
}

func TestAlreadyExistsError(t *testing.T) {
	err := pkgerrors.NewAlreadyExistsError("handler", "Ping")
	assert.Equal(t, "handler Ping already exists", err.Error())
	assert.True(t, pkgerrors.IsAlreadyExists(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "title",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field title: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid configuration",
		}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestConfigError(t *testing.T) {
	base := errors.New("bad level")
	err := pkgerrors.NewConfigError("logging", "cannot parse filter", base)
	assert.Equal(t, "configuration error in logging: cannot parse filter", err.Error())
	assert.ErrorIs(t, err, base)

	bare := &pkgerrors.ConfigError{Message: "missing key"}
	assert.Equal(t, "configuration error: missing key", bare.Error())
}

func TestSentinelHelpers(t *testing.T) {
	assert.True(t, pkgerrors.IsAlreadyStarted(fmt.Errorf("host: %w", pkgerrors.ErrAlreadyStarted)))
	assert.True(t, pkgerrors.IsCanceled(pkgerrors.ErrCanceled))
	assert.False(t, pkgerrors.IsCanceled(nil))
}
