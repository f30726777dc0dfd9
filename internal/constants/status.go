package constants

// ScenarioStatus represents the state of a scenario in the Orion state machine.
// Status values use snake_case for JSON serialization compatibility.
type ScenarioStatus string

// Scenario status constants define the valid states a scenario can be in.
// These follow the state machine:
//
//	Pending → Running
//	Running → Completed, Failed, Cancelled, Paused
//	Paused → Running, Cancelled
const (
	// ScenarioStatusPending indicates a scenario is parsed but not yet started.
	ScenarioStatusPending ScenarioStatus = "pending"

	// ScenarioStatusRunning indicates the executor is actively running steps.
	ScenarioStatusRunning ScenarioStatus = "running"

	// ScenarioStatusCompleted indicates all steps finished and validation
	// (if any) did not abort the run. Note that post-hoc validation can still
	// flip the result's success flag without changing this status.
	ScenarioStatusCompleted ScenarioStatus = "completed"

	// ScenarioStatusFailed indicates a step failed under the abort strategy
	// or retries were exhausted.
	ScenarioStatusFailed ScenarioStatus = "failed"

	// ScenarioStatusCancelled indicates the run was cancelled by the caller.
	ScenarioStatusCancelled ScenarioStatus = "cancelled"

	// ScenarioStatusPaused indicates an interactive run is waiting for the
	// caller to proceed. Only reachable in interactive mode.
	ScenarioStatusPaused ScenarioStatus = "paused"
)

// String returns the string representation of the ScenarioStatus.
// This implements fmt.Stringer for convenient logging and debugging.
func (s ScenarioStatus) String() string {
	return string(s)
}

// Step status constants describe the outcome of a single step attempt.
const (
	// StepStatusPending indicates the step has not started.
	StepStatusPending = "pending"

	// StepStatusRunning indicates the step is executing.
	StepStatusRunning = "running"

	// StepStatusSuccess indicates the step completed successfully.
	StepStatusSuccess = "success"

	// StepStatusFailed indicates the step failed after all attempts.
	StepStatusFailed = "failed"

	// StepStatusSkipped indicates the step failed but its error strategy
	// absorbed the failure and execution continued.
	StepStatusSkipped = "skipped"
)
