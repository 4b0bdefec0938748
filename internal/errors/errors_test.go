package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	require.Error(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("WrapNonNilError", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		require.Error(t, wrapped)
		assert.Equal(t, "wrapped: base error", wrapped.Error())
		assert.True(t, errors.Is(wrapped, baseErr))
	})

	t.Run("WrapNilError", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "wrapped"))
	})

	t.Run("WrapSentinel", func(t *testing.T) {
		wrapped := Wrap(ErrUnavailable, "entropy source failed")
		assert.True(t, Is(wrapped, ErrUnavailable))
		assert.False(t, Is(wrapped, ErrNotFound))
	})
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", customError{Msg: "inner"})

	var target customError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "inner", target.Msg)
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrConflict, ErrInvalidInput, ErrUnauthorized, ErrForbidden, ErrUnavailable}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.False(t, Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestWithCode(t *testing.T) {
	t.Run("KeepsChainAndMessage", func(t *testing.T) {
		err := WithCode(Wrap(ErrNotFound, "credentials not found"), "credentials_not_found")

		assert.Equal(t, "credentials not found: not found", err.Error())
		assert.True(t, Is(err, ErrNotFound))
		assert.Equal(t, "credentials_not_found", Code(err))
	})

	t.Run("OutermostCodeWins", func(t *testing.T) {
		inner := WithCode(ErrInvalidInput, "inner")
		outer := WithCode(fmt.Errorf("context: %w", inner), "outer")

		assert.Equal(t, "outer", Code(outer))
		assert.Equal(t, "inner", Code(fmt.Errorf("wrapped: %w", inner)))
	})

	t.Run("NilError", func(t *testing.T) {
		assert.Nil(t, WithCode(nil, "unused"))
	})

	t.Run("NoCode", func(t *testing.T) {
		assert.Empty(t, Code(ErrConflict))
		assert.Empty(t, Code(nil))
	})
}
