// Package template provides scenario template management for Orion.
// Templates define reusable step sequences that callers instantiate with
// per-run parameters.
package template

import (
	"strings"
	"time"

	"github.com/orionvision/orion/internal/domain"
)

// Template is a reusable scenario definition. Step parameters may contain
// {placeholder} strings that Render substitutes from the caller's
// parameters.
type Template struct {
	// Name identifies the template in the registry.
	Name string `yaml:"name" json:"name"`

	// Description explains what scenarios built from this template do.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Mode is the execution mode for rendered scenarios.
	Mode domain.ExecutionMode `yaml:"mode,omitempty" json:"mode,omitempty"`

	// Timeout is the overall run ceiling for rendered scenarios.
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Steps is the ordered step sequence.
	Steps []StepTemplate `yaml:"steps" json:"steps"`

	// ValidationCriteria names validation criteria for rendered scenarios.
	ValidationCriteria []string `yaml:"validation_criteria,omitempty" json:"validation_criteria,omitempty"`
}

// StepTemplate is one step within a template.
type StepTemplate struct {
	// ID uniquely identifies the step within the template.
	ID string `yaml:"id" json:"id"`

	// Type selects the controller domain.
	Type domain.StepType `yaml:"type" json:"type"`

	// Action is the command name within the domain's vocabulary.
	Action string `yaml:"action" json:"action"`

	// Parameters holds action arguments, possibly with {placeholders}.
	Parameters map[string]any `yaml:"parameters,omitempty" json:"parameters,omitempty"`

	// Timeout is the per-attempt ceiling for this step.
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// RetryCount is the extra attempts allowed under the retry strategy.
	RetryCount int `yaml:"retry_count,omitempty" json:"retry_count,omitempty"`

	// OnError selects the error strategy for this step.
	OnError domain.ErrorStrategy `yaml:"on_error,omitempty" json:"on_error,omitempty"`
}

// Clone returns a deep copy of the template, safe to mutate.
func (t *Template) Clone() *Template {
	clone := *t
	clone.Steps = make([]StepTemplate, len(t.Steps))
	for i, step := range t.Steps {
		clone.Steps[i] = step
		clone.Steps[i].Parameters = cloneParams(step.Parameters)
	}
	clone.ValidationCriteria = append([]string(nil), t.ValidationCriteria...)
	return &clone
}

// Render instantiates the template into scenario steps, substituting
// {placeholder} strings in parameter values. Parameters with no matching
// placeholder are merged into every step that does not already define the
// key, which lets callers pass values like filename or content without the
// template naming them explicitly.
func (t *Template) Render(params map[string]any) []domain.ScenarioStep {
	steps := make([]domain.ScenarioStep, 0, len(t.Steps))
	for _, st := range t.Steps {
		merged := make(map[string]any, len(st.Parameters)+len(params))
		for k, v := range st.Parameters {
			if s, ok := v.(string); ok {
				merged[k] = substitute(s, params)
			} else {
				merged[k] = v
			}
		}
		for k, v := range params {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}

		steps = append(steps, domain.ScenarioStep{
			ID:         st.ID,
			Type:       st.Type,
			Action:     st.Action,
			Parameters: merged,
			Timeout:    st.Timeout,
			RetryCount: st.RetryCount,
			OnError:    st.OnError,
		})
	}
	return steps
}

// substitute replaces {key} markers with the string form of params[key].
func substitute(s string, params map[string]any) string {
	if len(params) == 0 {
		return s
	}
	out := s
	for k, v := range params {
		if sv, ok := v.(string); ok {
			out = strings.ReplaceAll(out, "{"+k+"}", sv)
		}
	}
	return out
}

func cloneParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
