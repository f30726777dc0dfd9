package controller

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Mouse drives the pointer device with coordinate clamping. The tracked
// position is guarded by a mutex, but true isolation between concurrent
// scenario runs comes from the DeviceLease held by the executor.
type Mouse struct {
	pointer Pointer
	width   int
	height  int
	logger  zerolog.Logger

	mu   sync.Mutex
	x, y int
}

// NewMouse creates a mouse controller bound to the given pointer device and
// screen bounds. A nil pointer selects the simulated device.
func NewMouse(pointer Pointer, width, height int, logger zerolog.Logger) *Mouse {
	if pointer == nil {
		pointer = &SimulatedPointer{}
	}
	return &Mouse{
		pointer: pointer,
		width:   width,
		height:  height,
		logger:  logger,
	}
}

// Move moves the pointer to the x/y parameters, clamped to screen bounds.
func (m *Mouse) Move(ctx context.Context, params map[string]any) *Result {
	x := clampInt(intParam(params, "x", 0), 0, m.width-1)
	y := clampInt(intParam(params, "y", 0), 0, m.height-1)

	if err := m.pointer.MoveTo(ctx, x, y); err != nil {
		return failErr(err)
	}

	m.setPosition(x, y)
	m.logger.Debug().Int("x", x).Int("y", y).Msg("pointer moved")
	return ok("", map[string]any{"x": x, "y": y})
}

// Click moves to the optional x/y parameters and clicks the "button"
// parameter (default "left").
func (m *Mouse) Click(ctx context.Context, params map[string]any) *Result {
	if hasParam(params, "x") || hasParam(params, "y") {
		if res := m.Move(ctx, params); !res.Success {
			return res
		}
	}

	button := stringParam(params, "button", "left")
	if err := m.pointer.Click(ctx, button); err != nil {
		return failErr(err)
	}

	x, y := m.position()
	return ok("", map[string]any{"x": x, "y": y, "button": button})
}

// DoubleClick performs two clicks at the optional x/y parameters.
func (m *Mouse) DoubleClick(ctx context.Context, params map[string]any) *Result {
	if res := m.Click(ctx, params); !res.Success {
		return res
	}
	button := stringParam(params, "button", "left")
	if err := m.pointer.Click(ctx, button); err != nil {
		return failErr(err)
	}
	x, y := m.position()
	return ok("", map[string]any{"x": x, "y": y, "button": button, "clicks": 2})
}

// Drag presses at from_x/from_y, moves to to_x/to_y, and releases.
// The simulated device models this as move+click+move.
func (m *Mouse) Drag(ctx context.Context, params map[string]any) *Result {
	fromX := clampInt(intParam(params, "from_x", 0), 0, m.width-1)
	fromY := clampInt(intParam(params, "from_y", 0), 0, m.height-1)
	toX := clampInt(intParam(params, "to_x", 0), 0, m.width-1)
	toY := clampInt(intParam(params, "to_y", 0), 0, m.height-1)

	if err := m.pointer.MoveTo(ctx, fromX, fromY); err != nil {
		return failErr(err)
	}
	if err := m.pointer.Click(ctx, "left"); err != nil {
		return failErr(err)
	}
	if err := m.pointer.MoveTo(ctx, toX, toY); err != nil {
		return failErr(err)
	}

	m.setPosition(toX, toY)
	return ok("", map[string]any{
		"from_x": fromX, "from_y": fromY,
		"to_x": toX, "to_y": toY,
	})
}

// Scroll scrolls by the "amount" parameter (negative scrolls down).
func (m *Mouse) Scroll(ctx context.Context, params map[string]any) *Result {
	amount := intParam(params, "amount", 0)
	if err := m.pointer.Scroll(ctx, amount); err != nil {
		return failErr(err)
	}
	return ok("", map[string]any{"amount": amount})
}

// Position returns the tracked pointer position.
func (m *Mouse) Position() (int, int) {
	return m.position()
}

func (m *Mouse) position() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.x, m.y
}

func (m *Mouse) setPosition(x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.x, m.y = x, y
}

// clampInt bounds v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
