// Package integration provides the routing facade that maps abstract step
// types and action strings onto concrete controllers.
//
// Each domain has a fixed, small action vocabulary. Unknown actions and
// step types surface as sentinel errors so the executor can record them as
// failed steps; controller failures never cross this boundary as errors,
// only as failed results.
//
// Import rules:
//   - CAN import: internal/controller, internal/domain, internal/errors,
//     internal/metrics, std lib
//   - MUST NOT import: internal/executor, internal/cli
package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/orionvision/orion/internal/controller"
	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
	"github.com/orionvision/orion/internal/metrics"
)

// Manager routes actions to the terminal, mouse, keyboard, and screen
// controllers and owns the input device lease.
type Manager struct {
	terminal  *controller.Terminal
	mouse     *controller.Mouse
	keyboard  *controller.Keyboard
	screen    *controller.Screen
	lease     *controller.DeviceLease
	collector metrics.Collector
	logger    zerolog.Logger
}

// NewManager creates an integration manager over the given controllers.
// A nil collector selects the no-op collector.
func NewManager(terminal *controller.Terminal, mouse *controller.Mouse, keyboard *controller.Keyboard, screen *controller.Screen, collector metrics.Collector, logger zerolog.Logger) *Manager {
	if collector == nil {
		collector = metrics.Noop{}
	}
	return &Manager{
		terminal:  terminal,
		mouse:     mouse,
		keyboard:  keyboard,
		screen:    screen,
		lease:     controller.NewDeviceLease(),
		collector: collector,
		logger:    logger,
	}
}

// Lease returns the exclusive input device lease. The executor acquires it
// for runs that contain mouse, keyboard, or coordinated steps.
func (m *Manager) Lease() *controller.DeviceLease {
	return m.lease
}

// RequiresDevices reports whether the step type drives physical input
// devices and therefore needs the lease.
func RequiresDevices(stepType domain.StepType) bool {
	switch stepType {
	case domain.StepTypeMouse, domain.StepTypeKeyboard, domain.StepTypeCoordinated:
		return true
	default:
		return false
	}
}

// Dispatch routes one step to its controller by step type and action.
// Unknown step types return ErrUnknownStepType; unknown actions return
// ErrUnknownAction. Both leave the result nil.
func (m *Manager) Dispatch(ctx context.Context, stepType domain.StepType, action string, params map[string]any) (*controller.Result, error) {
	switch stepType {
	case domain.StepTypeTerminal:
		return m.ExecuteTerminalAction(ctx, action, params)
	case domain.StepTypeMouse:
		return m.ExecuteMouseAction(ctx, action, params)
	case domain.StepTypeKeyboard:
		return m.ExecuteKeyboardAction(ctx, action, params)
	case domain.StepTypeVision:
		return m.ExecuteVisionAction(ctx, action, params)
	case domain.StepTypeCoordinated:
		return m.ExecuteCoordinatedAction(ctx, action, params)
	default:
		return nil, fmt.Errorf("%w: %s", orionerrors.ErrUnknownStepType, stepType)
	}
}

// ExecuteTerminalAction routes a terminal-domain action.
// Vocabulary: execute_command, create_file, write_content, read_file.
func (m *Manager) ExecuteTerminalAction(ctx context.Context, action string, params map[string]any) (*controller.Result, error) {
	return m.run(domain.StepTypeTerminal, action, func() (*controller.Result, error) {
		switch action {
		case "execute_command":
			return m.terminal.ExecuteCommand(ctx, params), nil
		case "create_file":
			return m.terminal.CreateFile(ctx, params), nil
		case "write_content":
			return m.terminal.WriteContent(ctx, params), nil
		case "read_file":
			return m.terminal.ReadFile(ctx, params), nil
		default:
			return nil, fmt.Errorf("%w: terminal action %q", orionerrors.ErrUnknownAction, action)
		}
	})
}

// ExecuteMouseAction routes a mouse-domain action.
// Vocabulary: move, click, double_click, drag, scroll.
func (m *Manager) ExecuteMouseAction(ctx context.Context, action string, params map[string]any) (*controller.Result, error) {
	return m.run(domain.StepTypeMouse, action, func() (*controller.Result, error) {
		switch action {
		case "move":
			return m.mouse.Move(ctx, params), nil
		case "click":
			return m.mouse.Click(ctx, params), nil
		case "double_click":
			return m.mouse.DoubleClick(ctx, params), nil
		case "drag":
			return m.mouse.Drag(ctx, params), nil
		case "scroll":
			return m.mouse.Scroll(ctx, params), nil
		default:
			return nil, fmt.Errorf("%w: mouse action %q", orionerrors.ErrUnknownAction, action)
		}
	})
}

// ExecuteKeyboardAction routes a keyboard-domain action.
// Vocabulary: type_text, press_key, hotkey, wait.
func (m *Manager) ExecuteKeyboardAction(ctx context.Context, action string, params map[string]any) (*controller.Result, error) {
	return m.run(domain.StepTypeKeyboard, action, func() (*controller.Result, error) {
		switch action {
		case "type_text":
			return m.keyboard.TypeText(ctx, params), nil
		case "press_key":
			return m.keyboard.PressKey(ctx, params), nil
		case "hotkey":
			return m.keyboard.Hotkey(ctx, params), nil
		case "wait":
			return m.keyboard.Wait(ctx, params), nil
		default:
			return nil, fmt.Errorf("%w: keyboard action %q", orionerrors.ErrUnknownAction, action)
		}
	})
}

// ExecuteVisionAction routes a vision-domain action.
// Vocabulary: capture_screen, capture_and_analyze, find_element.
func (m *Manager) ExecuteVisionAction(ctx context.Context, action string, params map[string]any) (*controller.Result, error) {
	return m.run(domain.StepTypeVision, action, func() (*controller.Result, error) {
		switch action {
		case "capture_screen":
			return m.screen.CaptureScreen(ctx, params), nil
		case "capture_and_analyze":
			return m.screen.CaptureAndAnalyze(ctx, params), nil
		case "find_element":
			return m.screen.FindElement(ctx, params), nil
		default:
			return nil, fmt.Errorf("%w: vision action %q", orionerrors.ErrUnknownAction, action)
		}
	})
}

// ExecuteCoordinatedAction routes a multi-device action.
// Vocabulary: click_and_type, select_all_and_replace.
func (m *Manager) ExecuteCoordinatedAction(ctx context.Context, action string, params map[string]any) (*controller.Result, error) {
	return m.run(domain.StepTypeCoordinated, action, func() (*controller.Result, error) {
		switch action {
		case "click_and_type":
			return m.clickAndType(ctx, params), nil
		case "select_all_and_replace":
			return m.selectAllAndReplace(ctx, params), nil
		default:
			return nil, fmt.Errorf("%w: coordinated action %q", orionerrors.ErrUnknownAction, action)
		}
	})
}

// clickAndType clicks at x/y and then types the text parameter.
func (m *Manager) clickAndType(ctx context.Context, params map[string]any) *controller.Result {
	if res := m.mouse.Click(ctx, params); !res.Success {
		return res
	}
	return m.keyboard.TypeText(ctx, params)
}

// selectAllAndReplace selects everything and types the replacement text.
func (m *Manager) selectAllAndReplace(ctx context.Context, params map[string]any) *controller.Result {
	hotkeyParams := map[string]any{"keys": "ctrl+a"}
	if res := m.keyboard.Hotkey(ctx, hotkeyParams); !res.Success {
		return res
	}
	return m.keyboard.TypeText(ctx, params)
}

// run wraps one routed call with panic recovery, failure metrics, and
// timing. Controller panics become failed results, never process crashes.
func (m *Manager) run(stepType domain.StepType, action string, fn func() (*controller.Result, error)) (result *controller.Result, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().
				Str("step_type", string(stepType)).
				Str("action", action).
				Any("panic", r).
				Msg("controller panicked")
			result = &controller.Result{
				Success: false,
				Error:   fmt.Sprintf("controller panic: %v", r),
			}
			err = nil
		}
		if err != nil || (result != nil && !result.Success) {
			m.collector.RecordIntegrationFailure(stepType, time.Since(start))
		}
	}()

	result, err = fn()
	if err != nil {
		m.logger.Warn().
			Err(err).
			Str("step_type", string(stepType)).
			Str("action", action).
			Msg("action routing failed")
		return nil, err
	}

	if result.Duration == 0 {
		result.Duration = time.Since(start)
	}
	return result, nil
}
