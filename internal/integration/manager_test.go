package integration

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orionvision/orion/internal/controller"
	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
	"github.com/orionvision/orion/internal/metrics"
)

type fixture struct {
	manager   *Manager
	pointer   *controller.SimulatedPointer
	typist    *controller.SimulatedTypist
	vision    *controller.SimulatedVision
	collector *metrics.InMemory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	pointer := &controller.SimulatedPointer{}
	typist := &controller.SimulatedTypist{}
	vision := controller.NewSimulatedVision([]controller.Element{
		{Type: "button", Label: "OK", X: 10, Y: 10, Confidence: 0.9},
	})
	collector := metrics.NewInMemory()

	terminal := controller.NewTerminal(nil, t.TempDir(), zerolog.Nop())
	mouse := controller.NewMouse(pointer, 1920, 1080, zerolog.Nop())
	keyboard := controller.NewKeyboard(typist, nil, 0, zerolog.Nop())
	screen := controller.NewScreen(vision, zerolog.Nop())

	return &fixture{
		manager:   NewManager(terminal, mouse, keyboard, screen, collector, zerolog.Nop()),
		pointer:   pointer,
		typist:    typist,
		vision:    vision,
		collector: collector,
	}
}

func TestDispatchRoutesByStepType(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		stepType domain.StepType
		action   string
		params   map[string]any
	}{
		{name: "terminal", stepType: domain.StepTypeTerminal, action: "create_file", params: map[string]any{"filename": "out.txt", "content": "x"}},
		{name: "mouse", stepType: domain.StepTypeMouse, action: "move", params: map[string]any{"x": 10, "y": 20}},
		{name: "keyboard", stepType: domain.StepTypeKeyboard, action: "type_text", params: map[string]any{"text": "hi"}},
		{name: "vision", stepType: domain.StepTypeVision, action: "capture_screen", params: nil},
		{name: "coordinated", stepType: domain.StepTypeCoordinated, action: "click_and_type", params: map[string]any{"x": 1, "y": 1, "text": "!"}},
	}

	for _, tt := range tests {
		res, err := f.manager.Dispatch(ctx, tt.stepType, tt.action, tt.params)
		require.NoError(t, err, tt.name)
		require.NotNil(t, res, tt.name)
		assert.True(t, res.Success, tt.name)
	}
}

func TestDispatchUnknownStepType(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.manager.Dispatch(context.Background(), domain.StepType("telepathy"), "anything", nil)

	assert.ErrorIs(t, err, orionerrors.ErrUnknownStepType)
	assert.Nil(t, res)
}

func TestUnknownActionsPerDomain(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	for _, stepType := range []domain.StepType{
		domain.StepTypeTerminal,
		domain.StepTypeMouse,
		domain.StepTypeKeyboard,
		domain.StepTypeVision,
		domain.StepTypeCoordinated,
	} {
		res, err := f.manager.Dispatch(ctx, stepType, "levitate", nil)
		assert.ErrorIs(t, err, orionerrors.ErrUnknownAction, string(stepType))
		assert.Nil(t, res, string(stepType))
	}
}

func TestClickAndTypeComposition(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	res, err := f.manager.ExecuteCoordinatedAction(context.Background(), "click_and_type", map[string]any{
		"x": 150, "y": 250, "text": "typed after click",
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	x, y := f.pointer.Position()
	assert.Equal(t, 150, x)
	assert.Equal(t, 250, y)
	assert.Equal(t, 1, f.pointer.Clicks())
	assert.Equal(t, "typed after click", f.typist.Typed())
}

func TestSelectAllAndReplaceComposition(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	res, err := f.manager.ExecuteCoordinatedAction(context.Background(), "select_all_and_replace", map[string]any{
		"text": "replacement",
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, []string{"hotkey:ctrl+a"}, f.typist.Keys())
	assert.Equal(t, "replacement", f.typist.Typed())
}

func TestCoordinatedStopsOnFirstFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	// Missing text makes the type stage fail after the click succeeded.
	res, err := f.manager.ExecuteCoordinatedAction(context.Background(), "click_and_type", map[string]any{
		"x": 1, "y": 1,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 1, f.pointer.Clicks())
	assert.Empty(t, f.typist.Typed())
}

func TestControllerFailureRecordsMetric(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	res, err := f.manager.ExecuteTerminalAction(context.Background(), "read_file", map[string]any{
		"filename": "does-not-exist.txt",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 1, f.collector.Snapshot().IntegrationFailures)
}

func TestControllerPanicBecomesFailedResult(t *testing.T) {
	t.Parallel()

	// A nil screen controller panics on dispatch; the manager folds the
	// panic into a failed result instead of crashing the run.
	m := NewManager(
		controller.NewTerminal(nil, t.TempDir(), zerolog.Nop()),
		controller.NewMouse(nil, 1920, 1080, zerolog.Nop()),
		controller.NewKeyboard(nil, nil, 0, zerolog.Nop()),
		nil,
		metrics.NewInMemory(),
		zerolog.Nop(),
	)

	res, err := m.ExecuteVisionAction(context.Background(), "capture_screen", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "controller panic")
}

func TestRequiresDevices(t *testing.T) {
	t.Parallel()

	assert.True(t, RequiresDevices(domain.StepTypeMouse))
	assert.True(t, RequiresDevices(domain.StepTypeKeyboard))
	assert.True(t, RequiresDevices(domain.StepTypeCoordinated))
	assert.False(t, RequiresDevices(domain.StepTypeTerminal))
	assert.False(t, RequiresDevices(domain.StepTypeVision))
	assert.False(t, RequiresDevices(domain.StepTypeValidation))
}

func TestDispatchSetsDuration(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.manager.ExecuteVisionAction(context.Background(), "capture_and_analyze", map[string]any{"element_type": "button"})

	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Greater(t, res.Duration.Nanoseconds(), int64(0))
}
