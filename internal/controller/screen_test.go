package controller

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureScreen(t *testing.T) {
	t.Parallel()

	screen := NewScreen(nil, zerolog.Nop())
	res := screen.CaptureScreen(context.Background(), nil)

	require.True(t, res.Success)
	assert.Equal(t, "simulated://capture", res.Details["capture"])
}

func TestCaptureAndAnalyzeFiltersByType(t *testing.T) {
	t.Parallel()

	vision := NewSimulatedVision([]Element{
		{Type: "button", Label: "Save", X: 100, Y: 200, Confidence: 0.95},
		{Type: "text_field", Label: "Name", X: 50, Y: 80, Confidence: 0.9},
		{Type: "button", Label: "Cancel", X: 200, Y: 200, Confidence: 0.92},
	})
	screen := NewScreen(vision, zerolog.Nop())

	res := screen.CaptureAndAnalyze(context.Background(), map[string]any{"element_type": "button"})
	require.True(t, res.Success)

	assert.Equal(t, 3, res.Details["total"])
	assert.Equal(t, true, res.Details["found"])

	matching, ok := res.Details["elements"].([]Element)
	require.True(t, ok)
	assert.Len(t, matching, 2)
}

func TestCaptureAndAnalyzeNoMatch(t *testing.T) {
	t.Parallel()

	vision := NewSimulatedVision([]Element{{Type: "window", Label: "Editor"}})
	screen := NewScreen(vision, zerolog.Nop())

	res := screen.CaptureAndAnalyze(context.Background(), map[string]any{"element_type": "button"})
	require.True(t, res.Success)
	assert.Equal(t, false, res.Details["found"])
}

func TestCaptureAndAnalyzeEmptyTypeMatchesAll(t *testing.T) {
	t.Parallel()

	vision := NewSimulatedVision([]Element{{Type: "button"}, {Type: "window"}})
	screen := NewScreen(vision, zerolog.Nop())

	res := screen.CaptureAndAnalyze(context.Background(), nil)
	require.True(t, res.Success)

	matching, ok := res.Details["elements"].([]Element)
	require.True(t, ok)
	assert.Len(t, matching, 2)
}

func TestFindElement(t *testing.T) {
	t.Parallel()

	vision := NewSimulatedVision([]Element{{Type: "button", Label: "OK", X: 10, Y: 10, Confidence: 0.99}})
	screen := NewScreen(vision, zerolog.Nop())

	res := screen.FindElement(context.Background(), map[string]any{"element_type": "button"})
	assert.True(t, res.Success)
}

func TestFindElementAbsent(t *testing.T) {
	t.Parallel()

	screen := NewScreen(NewSimulatedVision(nil), zerolog.Nop())
	res := screen.FindElement(context.Background(), map[string]any{"element_type": "menu"})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no menu element found")
}

func TestScreenCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	screen := NewScreen(nil, zerolog.Nop())
	res := screen.CaptureScreen(ctx, nil)
	assert.False(t, res.Success)
}
