package constellation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerErrorUnwrapAndAs(t *testing.T) {
	base := errors.New("boom")
	wrapped := fmt.Errorf("context: %w", NewSchedulerError(InternalInvariant, Identifier{Sequence: 9}, base))

	se, ok := AsSchedulerError(wrapped)
	require.True(t, ok)
	assert.Equal(t, InternalInvariant, se.Kind)
	assert.Equal(t, uint64(9), se.Identifier.Sequence)
	assert.ErrorIs(t, wrapped, base)
}

func TestKindOf(t *testing.T) {
	err := NewSchedulerError(ShutdownPending, Identifier{}, nil)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ShutdownPending, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestSchedulerErrorMessageWithoutCause(t *testing.T) {
	err := NewSchedulerError(StateError, Identifier{}, nil)
	assert.Equal(t, "constellation: StateError", err.Error())
}
