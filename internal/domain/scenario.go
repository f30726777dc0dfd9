// Package domain provides shared domain types for the Orion scenario
// automation pipeline. These types are used across all internal packages to
// ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case per architecture requirements.
package domain

import (
	"time"

	"github.com/orionvision/orion/internal/constants"
)

// StepType categorizes the kind of action a scenario step performs.
// This determines which controller handles the step.
type StepType string

// Step type constants define the valid action domains for steps.
const (
	// StepTypeTerminal indicates the step runs a terminal action
	// (command execution, file creation, content writes).
	StepTypeTerminal StepType = "terminal"

	// StepTypeMouse indicates the step drives the pointer device.
	StepTypeMouse StepType = "mouse"

	// StepTypeKeyboard indicates the step drives the keyboard device.
	StepTypeKeyboard StepType = "keyboard"

	// StepTypeVision indicates the step captures or analyzes the screen.
	StepTypeVision StepType = "vision"

	// StepTypeCoordinated indicates the step combines pointer and keyboard
	// input through the input coordinator.
	StepTypeCoordinated StepType = "input_coordinator"

	// StepTypeValidation indicates the step runs a named validation rule
	// inline rather than as a post-run check.
	StepTypeValidation StepType = "validation"
)

// String returns the string representation of the StepType.
func (s StepType) String() string {
	return string(s)
}

// ExecutionMode controls how the executor paces through scenario steps.
type ExecutionMode string

// Execution mode constants.
const (
	// ModeStepByStep pauses for the configured pacing delay after every step.
	ModeStepByStep ExecutionMode = "step_by_step"

	// ModeContinuous runs steps back to back with minimal pacing.
	ModeContinuous ExecutionMode = "continuous"

	// ModeInteractive waits for the caller to proceed between steps.
	ModeInteractive ExecutionMode = "interactive"

	// ModeBatch runs without pacing delays, intended for unattended runs.
	ModeBatch ExecutionMode = "batch"
)

// String returns the string representation of the ExecutionMode.
func (m ExecutionMode) String() string {
	return string(m)
}

// ErrorStrategy determines how the executor reacts to a failed step.
type ErrorStrategy string

// Error strategy constants.
const (
	// StrategyAbort halts the scenario on the first failure.
	StrategyAbort ErrorStrategy = "abort"

	// StrategyRetry re-attempts the step under the configured retry policy
	// before escalating to abort semantics.
	StrategyRetry ErrorStrategy = "retry"

	// StrategySkip absorbs the failure and continues with the next step.
	StrategySkip ErrorStrategy = "skip"

	// StrategyFallback substitutes the step's fallback_action parameter;
	// without one it degrades to skip semantics.
	StrategyFallback ErrorStrategy = "fallback"
)

// ScenarioStep is one atomic action within a scenario.
// Steps are immutable once constructed and owned by their Scenario.
//
// Example JSON representation:
//
//	{
//	    "id": "create_file_1",
//	    "type": "terminal",
//	    "action": "create_file",
//	    "parameters": {"filename": "orion_test.txt", "content": "..."},
//	    "timeout": 30000000000,
//	    "retry_count": 2,
//	    "on_error": "abort"
//	}
type ScenarioStep struct {
	// ID uniquely identifies the step within its owning scenario.
	ID string `json:"id"`

	// Type selects the controller domain for this step.
	Type StepType `json:"type"`

	// Action is the command name within the domain's vocabulary.
	Action string `json:"action"`

	// Parameters holds action-specific arguments.
	Parameters map[string]any `json:"parameters,omitempty"`

	// Timeout is the maximum duration for one attempt of this step.
	// Zero means the executor default applies.
	Timeout time.Duration `json:"timeout,omitempty"`

	// RetryCount is how many extra attempts the retry strategy may use.
	// Zero means the configured default applies.
	RetryCount int `json:"retry_count,omitempty"`

	// OnError selects the error strategy for this step.
	OnError ErrorStrategy `json:"on_error,omitempty"`
}

// Scenario is an ordered sequence of steps plus execution metadata.
// Scenarios are created by parsing caller input and consumed once per run.
type Scenario struct {
	// ID is the unique identifier for this scenario run.
	// Format: scn-<uuid>
	ID string `json:"id"`

	// Name is a human-readable scenario name.
	Name string `json:"name"`

	// Description explains what the scenario does.
	Description string `json:"description,omitempty"`

	// Mode selects the execution pacing.
	Mode ExecutionMode `json:"mode"`

	// Timeout is the overall ceiling for the whole run.
	Timeout time.Duration `json:"timeout,omitempty"`

	// Steps is the ordered list of actions. Step IDs are unique within
	// the scenario; this is enforced at parse time.
	Steps []ScenarioStep `json:"steps"`

	// ValidationCriteria optionally names criteria registered with the
	// validation engine, checked after a successful run.
	ValidationCriteria []string `json:"validation_criteria,omitempty"`
}

// StepRecord captures the outcome of executing one scenario step.
// Records are appended in execution order to the scenario result.
type StepRecord struct {
	// StepID identifies which step produced this record.
	StepID string `json:"step_id"`

	// Index is the zero-based position of the step in the scenario.
	Index int `json:"index"`

	// Status is one of the constants.StepStatus* values.
	Status string `json:"status"`

	// Attempts counts how many times this step was executed.
	Attempts int `json:"attempts"`

	// Output contains any text output from the action (terminal stdout,
	// detected element summaries, etc.).
	Output string `json:"output,omitempty"`

	// ReturnCode is the subprocess exit code for terminal actions.
	ReturnCode int `json:"return_code,omitempty"`

	// Details carries domain-specific result fields from the controller.
	Details map[string]any `json:"details,omitempty"`

	// Error contains the failure message if the step did not succeed.
	Error string `json:"error,omitempty"`

	// StartedAt is when the first attempt began.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the final attempt finished.
	CompletedAt time.Time `json:"completed_at"`

	// Duration is the total wall time across attempts.
	Duration time.Duration `json:"duration"`
}

// Transition records one status change in a scenario's lifecycle,
// forming an audit trail on the result.
type Transition struct {
	// FromStatus is the status before the transition.
	FromStatus constants.ScenarioStatus `json:"from_status"`

	// ToStatus is the status after the transition.
	ToStatus constants.ScenarioStatus `json:"to_status"`

	// Timestamp is when the transition occurred (UTC).
	Timestamp time.Time `json:"timestamp"`

	// Reason is an optional explanation for the transition.
	Reason string `json:"reason,omitempty"`
}

// ScenarioResult is the outcome record returned by the executor.
// It is immutable once returned to the caller.
//
// Invariant: StepsCompleted never exceeds TotalSteps, and skipped steps
// are not counted as completed.
type ScenarioResult struct {
	// ScenarioID links the result to its scenario run.
	ScenarioID string `json:"scenario_id"`

	// Name is the scenario name, carried for display.
	Name string `json:"name,omitempty"`

	// Status is the final scenario status.
	Status constants.ScenarioStatus `json:"status"`

	// Success is true only if every non-skipped step succeeded AND
	// post-run validation (if any) passed.
	Success bool `json:"success"`

	// StepsCompleted counts steps that finished successfully.
	StepsCompleted int `json:"steps_completed"`

	// TotalSteps is the number of steps in the scenario.
	TotalSteps int `json:"total_steps"`

	// ExecutionTime is the total wall time of the run.
	ExecutionTime time.Duration `json:"execution_time"`

	// ErrorMessage describes the failure, if any. A failing post-run
	// validation overwrites this even when all steps succeeded.
	ErrorMessage string `json:"error_message,omitempty"`

	// StepRecords holds per-step outcomes in execution order.
	StepRecords []StepRecord `json:"step_records"`

	// Validation holds the post-run validation outcome when the scenario
	// declared validation criteria and completed successfully.
	Validation *ValidationSummary `json:"validation,omitempty"`

	// Transitions is the audit trail of status changes.
	Transitions []Transition `json:"transitions,omitempty"`

	// StartedAt is when the run began (UTC).
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the run finished (UTC).
	CompletedAt time.Time `json:"completed_at"`

	// SchemaVersion enables forward-compatible schema migrations of
	// persisted results.
	SchemaVersion int `json:"schema_version"`
}
