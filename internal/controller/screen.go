package controller

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Screen captures and analyzes the display through the vision backend.
type Screen struct {
	vision VisionBackend
	logger zerolog.Logger
}

// NewScreen creates a screen controller. A nil backend selects the
// simulated vision backend with no elements.
func NewScreen(vision VisionBackend, logger zerolog.Logger) *Screen {
	if vision == nil {
		vision = NewSimulatedVision(nil)
	}
	return &Screen{
		vision: vision,
		logger: logger,
	}
}

// CaptureScreen grabs the current screen and returns the capture reference.
func (s *Screen) CaptureScreen(ctx context.Context, _ map[string]any) *Result {
	ref, err := s.vision.Capture(ctx)
	if err != nil {
		return failErr(err)
	}
	return ok(ref, map[string]any{"capture": ref})
}

// CaptureAndAnalyze captures the screen and runs element detection.
// The optional "element_type" parameter filters the reported elements;
// success means at least one matching element was found.
func (s *Screen) CaptureAndAnalyze(ctx context.Context, params map[string]any) *Result {
	if _, err := s.vision.Capture(ctx); err != nil {
		return failErr(err)
	}

	elements, err := s.vision.Analyze(ctx)
	if err != nil {
		return failErr(err)
	}

	elementType := stringParam(params, "element_type", "")
	matching := filterElements(elements, elementType)

	s.logger.Debug().
		Int("detected", len(elements)).
		Int("matching", len(matching)).
		Str("element_type", elementType).
		Msg("screen analyzed")

	return &Result{
		Success: true,
		Output:  fmt.Sprintf("%d elements detected", len(elements)),
		Details: map[string]any{
			"elements":     matching,
			"total":        len(elements),
			"found":        len(matching) > 0,
			"element_type": elementType,
		},
	}
}

// FindElement analyzes the screen and fails when no element matches the
// "element_type" parameter.
func (s *Screen) FindElement(ctx context.Context, params map[string]any) *Result {
	res := s.CaptureAndAnalyze(ctx, params)
	if !res.Success {
		return res
	}

	found, _ := res.Details["found"].(bool)
	if !found {
		elementType := stringParam(params, "element_type", "any")
		return fail("no %s element found on screen", elementType)
	}
	return res
}

// filterElements returns elements matching the given type; an empty type
// matches everything.
func filterElements(elements []Element, elementType string) []Element {
	if elementType == "" {
		return elements
	}
	var matching []Element
	for _, e := range elements {
		if e.Type == elementType {
			matching = append(matching, e)
		}
	}
	return matching
}
