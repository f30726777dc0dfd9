package controller

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMouseMoveClampsToBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		x, y         any
		wantX, wantY int
	}{
		{name: "in bounds", x: 500, y: 300, wantX: 500, wantY: 300},
		{name: "negative coordinates", x: -50, y: -10, wantX: 0, wantY: 0},
		{name: "beyond bounds", x: 5000, y: 5000, wantX: 1919, wantY: 1079},
		{name: "float coordinates from json", x: 10.0, y: 20.0, wantX: 10, wantY: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pointer := &SimulatedPointer{}
			mouse := NewMouse(pointer, 1920, 1080, zerolog.Nop())

			res := mouse.Move(context.Background(), map[string]any{"x": tt.x, "y": tt.y})
			require.True(t, res.Success)

			x, y := pointer.Position()
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestMouseClickAtCoordinates(t *testing.T) {
	t.Parallel()

	pointer := &SimulatedPointer{}
	mouse := NewMouse(pointer, 1920, 1080, zerolog.Nop())

	res := mouse.Click(context.Background(), map[string]any{"x": 10, "y": 20, "button": "right"})
	require.True(t, res.Success)

	assert.Equal(t, 1, pointer.Clicks())
	assert.Equal(t, "right", res.Details["button"])

	x, y := mouse.Position()
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
}

func TestMouseClickDefaultsToLeftAtCurrentPosition(t *testing.T) {
	t.Parallel()

	pointer := &SimulatedPointer{}
	mouse := NewMouse(pointer, 1920, 1080, zerolog.Nop())

	require.True(t, mouse.Move(context.Background(), map[string]any{"x": 700, "y": 400}).Success)

	res := mouse.Click(context.Background(), nil)
	require.True(t, res.Success)
	assert.Equal(t, "left", res.Details["button"])
	assert.Equal(t, 700, res.Details["x"])
}

func TestMouseDoubleClick(t *testing.T) {
	t.Parallel()

	pointer := &SimulatedPointer{}
	mouse := NewMouse(pointer, 1920, 1080, zerolog.Nop())

	res := mouse.DoubleClick(context.Background(), map[string]any{"x": 5, "y": 5})
	require.True(t, res.Success)
	assert.Equal(t, 2, pointer.Clicks())
	assert.Equal(t, 2, res.Details["clicks"])
}

func TestMouseDragClampsBothEnds(t *testing.T) {
	t.Parallel()

	pointer := &SimulatedPointer{}
	mouse := NewMouse(pointer, 1920, 1080, zerolog.Nop())

	res := mouse.Drag(context.Background(), map[string]any{
		"from_x": -10, "from_y": 50,
		"to_x": 99999, "to_y": 60,
	})
	require.True(t, res.Success)

	assert.Equal(t, 0, res.Details["from_x"])
	assert.Equal(t, 1919, res.Details["to_x"])

	x, y := mouse.Position()
	assert.Equal(t, 1919, x)
	assert.Equal(t, 60, y)
}

func TestMouseScroll(t *testing.T) {
	t.Parallel()

	mouse := NewMouse(nil, 1920, 1080, zerolog.Nop())
	res := mouse.Scroll(context.Background(), map[string]any{"amount": -3})

	require.True(t, res.Success)
	assert.Equal(t, -3, res.Details["amount"])
}

func TestMouseCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mouse := NewMouse(nil, 1920, 1080, zerolog.Nop())
	res := mouse.Move(ctx, map[string]any{"x": 1, "y": 1})

	assert.False(t, res.Success)
}
