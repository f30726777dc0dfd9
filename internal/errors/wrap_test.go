package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesErrorChain(t *testing.T) {
	t.Parallel()

	wrapped := Wrap(ErrScenarioNotFound, "looking up run")

	assert.ErrorIs(t, wrapped, ErrScenarioNotFound)
	assert.Equal(t, "looking up run: scenario not found", wrapped.Error())
}

func TestWrapNilReturnsNil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))
}

func TestWrapfFormatsMessage(t *testing.T) {
	t.Parallel()

	wrapped := Wrapf(ErrStepTimeout, "step %s after %d attempts", "create_file_1", 3)

	assert.ErrorIs(t, wrapped, ErrStepTimeout)
	assert.Equal(t, "step create_file_1 after 3 attempts: step timed out", wrapped.Error())
}

func TestSentinelsAreDistinct(t *testing.T) {
	t.Parallel()

	assert.False(t, stderrors.Is(ErrUnknownAction, ErrUnknownStepType))
	assert.False(t, stderrors.Is(ErrScenarioNotFound, ErrRunNotFound))
}
