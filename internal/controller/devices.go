package controller

import (
	"context"
	"strings"
	"sync"
)

// Pointer abstracts the physical mouse device. Implementations bind to an
// OS automation layer; the simulated default only tracks state, which is
// enough for tests and headless runs.
type Pointer interface {
	// MoveTo moves the pointer to absolute screen coordinates.
	MoveTo(ctx context.Context, x, y int) error

	// Click presses and releases the named button at the current position.
	Click(ctx context.Context, button string) error

	// Scroll scrolls vertically by the given number of notches
	// (negative scrolls down).
	Scroll(ctx context.Context, amount int) error
}

// Typist abstracts the physical keyboard device.
type Typist interface {
	// TypeRune emits one character.
	TypeRune(ctx context.Context, r rune) error

	// PressKey emits a named non-character key (enter, tab, escape, ...).
	PressKey(ctx context.Context, key string) error

	// Hotkey emits a chorded combination such as ctrl+s.
	Hotkey(ctx context.Context, keys []string) error
}

// Element is one detected UI element from screen analysis.
type Element struct {
	// Type categorizes the element (button, text_field, window, ...).
	Type string `json:"type"`

	// Label is the recognized text, if any.
	Label string `json:"label,omitempty"`

	// X, Y are the element's center coordinates.
	X int `json:"x"`
	Y int `json:"y"`

	// Confidence is the detection confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// VisionBackend abstracts screen capture and analysis. Implementations bind
// to an OS capture layer plus an element detector; the simulated default
// returns a configured element set.
type VisionBackend interface {
	// Capture grabs the current screen and returns an opaque image
	// reference (a file path for the default backend).
	Capture(ctx context.Context) (string, error)

	// Analyze detects UI elements on the current screen.
	Analyze(ctx context.Context) ([]Element, error)
}

// SimulatedPointer is the default Pointer: it records the last position and
// click without touching any OS device. Safe for concurrent use.
type SimulatedPointer struct {
	mu         sync.Mutex
	x, y       int
	lastButton string
	clicks     int
}

// MoveTo implements Pointer.
func (p *SimulatedPointer) MoveTo(ctx context.Context, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.x, p.y = x, y
	return nil
}

// Click implements Pointer.
func (p *SimulatedPointer) Click(ctx context.Context, button string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastButton = button
	p.clicks++
	return nil
}

// Scroll implements Pointer.
func (p *SimulatedPointer) Scroll(ctx context.Context, _ int) error {
	return ctx.Err()
}

// Position returns the last recorded pointer position.
func (p *SimulatedPointer) Position() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y
}

// Clicks returns the number of clicks recorded.
func (p *SimulatedPointer) Clicks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clicks
}

// SimulatedTypist is the default Typist: it records typed text without
// touching any OS device. Safe for concurrent use.
type SimulatedTypist struct {
	mu    sync.Mutex
	typed []rune
	keys  []string
}

// TypeRune implements Typist.
func (t *SimulatedTypist) TypeRune(ctx context.Context, r rune) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.typed = append(t.typed, r)
	return nil
}

// PressKey implements Typist.
func (t *SimulatedTypist) PressKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys = append(t.keys, key)
	return nil
}

// Hotkey implements Typist.
func (t *SimulatedTypist) Hotkey(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys = append(t.keys, "hotkey:"+strings.Join(keys, "+"))
	return nil
}

// Typed returns the text typed so far.
func (t *SimulatedTypist) Typed() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.typed)
}

// Keys returns the non-character keys pressed so far.
func (t *SimulatedTypist) Keys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// SimulatedVision is the default VisionBackend: Analyze returns a fixed
// element set configured at construction. Safe for concurrent use.
type SimulatedVision struct {
	mu       sync.Mutex
	elements []Element
	captures int
}

// NewSimulatedVision creates a vision backend that reports the given
// elements on every analysis.
func NewSimulatedVision(elements []Element) *SimulatedVision {
	return &SimulatedVision{elements: elements}
}

// Capture implements VisionBackend.
func (v *SimulatedVision) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.captures++
	return "simulated://capture", nil
}

// Analyze implements VisionBackend.
func (v *SimulatedVision) Analyze(ctx context.Context) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Element, len(v.elements))
	copy(out, v.elements)
	return out, nil
}

// SetElements replaces the configured element set.
func (v *SimulatedVision) SetElements(elements []Element) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.elements = elements
}

// Ensure simulated devices implement their interfaces.
var (
	_ Pointer       = (*SimulatedPointer)(nil)
	_ Typist        = (*SimulatedTypist)(nil)
	_ VisionBackend = (*SimulatedVision)(nil)
)
