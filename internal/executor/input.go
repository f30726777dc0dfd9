package executor

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
)

// StepInput is the caller-facing shape of one ad-hoc scenario step.
type StepInput struct {
	// ID uniquely identifies the step. Empty IDs are assigned step_<n>.
	ID string `json:"id,omitempty"`

	// Type selects the controller domain.
	Type domain.StepType `json:"type"`

	// Action is the command name within the domain's vocabulary.
	Action string `json:"action"`

	// Parameters holds action-specific arguments.
	Parameters map[string]any `json:"parameters,omitempty"`

	// Timeout is the per-attempt ceiling for this step.
	Timeout time.Duration `json:"timeout,omitempty"`

	// RetryCount is the extra attempts allowed under the retry strategy.
	RetryCount int `json:"retry_count,omitempty"`

	// OnError selects the error strategy.
	OnError domain.ErrorStrategy `json:"on_error,omitempty"`
}

// ExecuteInput selects one of three ways to describe a scenario run:
// a registered template plus parameters, a fully built Scenario, or an
// ad-hoc step list. Exactly one shape must be populated.
type ExecuteInput struct {
	// TemplateName names a template in the executor's registry.
	TemplateName string `json:"template_name,omitempty"`

	// Parameters feeds template rendering.
	Parameters map[string]any `json:"parameters,omitempty"`

	// Scenario is a complete pre-built scenario definition.
	Scenario *domain.Scenario `json:"scenario,omitempty"`

	// Steps is an ad-hoc step list, used with the fields below.
	Steps []StepInput `json:"steps,omitempty"`

	// Name labels an ad-hoc scenario.
	Name string `json:"name,omitempty"`

	// Mode selects pacing for ad-hoc scenarios.
	Mode domain.ExecutionMode `json:"mode,omitempty"`

	// Timeout is the overall ceiling for ad-hoc scenarios.
	Timeout time.Duration `json:"timeout,omitempty"`

	// ValidationCriteria names post-run validation criteria for ad-hoc
	// scenarios.
	ValidationCriteria []string `json:"validation_criteria,omitempty"`
}

// newScenarioID returns a fresh scn-<uuid> identifier.
func newScenarioID() string {
	return "scn-" + uuid.NewString()
}

// parseInput normalizes the three input shapes into one Scenario with a
// fresh ID, validated step IDs, and defaults applied.
func (e *Executor) parseInput(input ExecuteInput) (*domain.Scenario, error) {
	var scenario *domain.Scenario

	switch {
	case input.Scenario != nil:
		clone := *input.Scenario
		clone.Steps = append([]domain.ScenarioStep(nil), input.Scenario.Steps...)
		scenario = &clone

	case input.TemplateName != "":
		tmpl, err := e.templates.Get(input.TemplateName)
		if err != nil {
			return nil, err
		}
		scenario = &domain.Scenario{
			Name:               tmpl.Name,
			Description:        tmpl.Description,
			Mode:               tmpl.Mode,
			Timeout:            tmpl.Timeout,
			Steps:              tmpl.Render(input.Parameters),
			ValidationCriteria: append([]string(nil), tmpl.ValidationCriteria...),
		}
		// Caller overrides win over the template's own settings.
		if input.Mode != "" {
			scenario.Mode = input.Mode
		}
		if input.Timeout > 0 {
			scenario.Timeout = input.Timeout
		}

	case len(input.Steps) > 0:
		steps := make([]domain.ScenarioStep, 0, len(input.Steps))
		for i, si := range input.Steps {
			id := si.ID
			if strings.TrimSpace(id) == "" {
				id = fmt.Sprintf("step_%d", i+1)
			}
			steps = append(steps, domain.ScenarioStep{
				ID:         id,
				Type:       si.Type,
				Action:     si.Action,
				Parameters: si.Parameters,
				Timeout:    si.Timeout,
				RetryCount: si.RetryCount,
				OnError:    si.OnError,
			})
		}
		scenario = &domain.Scenario{
			Name:               input.Name,
			Mode:               input.Mode,
			Timeout:            input.Timeout,
			Steps:              steps,
			ValidationCriteria: append([]string(nil), input.ValidationCriteria...),
		}

	default:
		return nil, fmt.Errorf("%w: input names no template, scenario, or steps", orionerrors.ErrScenarioInvalid)
	}

	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario has no steps", orionerrors.ErrScenarioInvalid)
	}

	seen := make(map[string]bool, len(scenario.Steps))
	for _, step := range scenario.Steps {
		if seen[step.ID] {
			return nil, fmt.Errorf("%w: duplicate step id %q", orionerrors.ErrScenarioInvalid, step.ID)
		}
		seen[step.ID] = true
	}

	if scenario.ID == "" {
		scenario.ID = newScenarioID()
	}
	if scenario.Name == "" {
		scenario.Name = "ad-hoc scenario"
	}
	if scenario.Mode == "" {
		scenario.Mode = domain.ExecutionMode(e.cfg.DefaultMode)
	}
	if scenario.Timeout <= 0 {
		scenario.Timeout = e.cfg.ScenarioTimeout
	}
	return scenario, nil
}
