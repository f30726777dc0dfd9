package template

import (
	"time"

	"github.com/orionvision/orion/internal/domain"
)

// builtinTemplates returns the templates shipped with Orion. Placeholders
// like {filename} are substituted at render time.
func builtinTemplates() []*Template {
	return []*Template{
		{
			Name:        "terminal_file_creation",
			Description: "Create a text file through the terminal and verify it on disk",
			Mode:        domain.ModeStepByStep,
			Timeout:     2 * time.Minute,
			Steps: []StepTemplate{
				{
					ID:     "create_file_1",
					Type:   domain.StepTypeTerminal,
					Action: "create_file",
					Parameters: map[string]any{
						"filename": "{filename}",
						"content":  "{content}",
					},
					OnError: domain.StrategyAbort,
				},
			},
			ValidationCriteria: []string{"file_creation"},
		},
		{
			Name:        "command_with_output",
			Description: "Run a shell command and verify its output",
			Mode:        domain.ModeStepByStep,
			Timeout:     2 * time.Minute,
			Steps: []StepTemplate{
				{
					ID:     "run_command_1",
					Type:   domain.StepTypeTerminal,
					Action: "execute_command",
					Parameters: map[string]any{
						"command": "{command}",
					},
					OnError: domain.StrategyRetry,
				},
			},
			ValidationCriteria: []string{"command_output"},
		},
		{
			Name:        "text_editor_session",
			Description: "Open an editor, type content, and save it",
			Mode:        domain.ModeStepByStep,
			Timeout:     5 * time.Minute,
			Steps: []StepTemplate{
				{
					ID:     "launch_editor",
					Type:   domain.StepTypeTerminal,
					Action: "execute_command",
					Parameters: map[string]any{
						"command": "{editor_command}",
					},
					OnError: domain.StrategyAbort,
				},
				{
					ID:     "find_editor_window",
					Type:   domain.StepTypeVision,
					Action: "find_element",
					Parameters: map[string]any{
						"element_type": "window",
					},
					RetryCount: 2,
					OnError:    domain.StrategyRetry,
				},
				{
					ID:     "focus_and_type",
					Type:   domain.StepTypeCoordinated,
					Action: "click_and_type",
					Parameters: map[string]any{
						"x": 960, "y": 540,
						"text": "{content}",
					},
					OnError: domain.StrategyAbort,
				},
				{
					ID:     "save_file",
					Type:   domain.StepTypeKeyboard,
					Action: "hotkey",
					Parameters: map[string]any{
						"keys": "ctrl+s",
					},
					OnError: domain.StrategyAbort,
				},
			},
			ValidationCriteria: []string{"ui_interaction"},
		},
		{
			Name:        "screen_survey",
			Description: "Capture the screen and report detected elements",
			Mode:        domain.ModeContinuous,
			Timeout:     time.Minute,
			Steps: []StepTemplate{
				{
					ID:     "capture",
					Type:   domain.StepTypeVision,
					Action: "capture_screen",
				},
				{
					ID:     "analyze",
					Type:   domain.StepTypeVision,
					Action: "capture_and_analyze",
					Parameters: map[string]any{
						"element_type": "{element_type}",
					},
					OnError: domain.StrategySkip,
				},
			},
		},
	}
}
