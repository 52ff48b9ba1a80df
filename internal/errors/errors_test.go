package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goto/diffpack/internal/errors"
)

func TestDomainError(t *testing.T) {
	t.Run("formats entity and message", func(t *testing.T) {
		err := errors.InvalidArgument("bundle", "left revision is empty")
		assert.EqualError(t, err, "invalid argument for entity bundle: left revision is empty")
	})
	t.Run("includes the cause when wrapping", func(t *testing.T) {
		cause := stderrors.New("exit status 128")
		err := errors.Wrap("git", "unable to resolve revision", cause)
		assert.EqualError(t, err, "internal error for entity git: unable to resolve revision: exit status 128")
		assert.ErrorIs(t, err, cause)
	})
	t.Run("wrap preserves the inner error type", func(t *testing.T) {
		inner := errors.Unavailable("git", "binary not on PATH")
		outer := errors.Wrap("bundle", "unable to resolve revision", inner)
		assert.True(t, errors.IsErrorType(outer, errors.ErrUnavailable))
	})
	t.Run("wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, errors.Wrap("bundle", "context", nil))
	})
	t.Run("is error type matches only the recorded type", func(t *testing.T) {
		err := errors.NotFound("revision", "main")
		assert.True(t, errors.IsErrorType(err, errors.ErrNotFound))
		assert.False(t, errors.IsErrorType(err, errors.ErrInternalError))
		assert.False(t, errors.IsErrorType(stderrors.New("plain"), errors.ErrNotFound))
	})
}

func TestMultiError(t *testing.T) {
	t.Run("to err is nil when nothing was appended", func(t *testing.T) {
		me := errors.NewMultiError("staging files")
		me.Append(nil)
		assert.NoError(t, me.ToErr())
	})
	t.Run("collects appended errors under its name", func(t *testing.T) {
		me := errors.NewMultiError("staging files")
		me.Append(stderrors.New("first"))
		me.Append(nil)
		me.Append(stderrors.New("second"))

		err := me.ToErr()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "staging files")
		assert.Contains(t, err.Error(), "first")
		assert.Contains(t, err.Error(), "second")
	})
}
