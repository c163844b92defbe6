package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesSentinelByKind(t *testing.T) {
	err := NotFound("product not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidArgument))

	wrapped := fmt.Errorf("add item: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, "product not found", Message(wrapped))
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal(errors.New("connection refused"))
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "internal error", Message(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestInternalKeepsTypedErrors(t *testing.T) {
	err := Internal(ErrEmptyCart)
	assert.Equal(t, KindEmptyCart, KindOf(err))
	assert.Nil(t, Internal(nil))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "internal error", Message(errors.New("boom")))
}
