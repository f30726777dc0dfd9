// Package errors provides centralized error handling for Orion.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrUnknownAction indicates an action string is not in the vocabulary
	// of the targeted controller domain.
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnknownStepType indicates a step type has no registered route in
	// the integration manager.
	ErrUnknownStepType = errors.New("unknown step type")

	// ErrInvalidTransition indicates an attempted scenario status change
	// that is not allowed by the state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrScenarioNotFound indicates the requested scenario is not registered
	// with the executor.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrScenarioInvalid indicates a scenario definition failed parsing
	// (missing steps, duplicate step IDs, unknown mode, etc.).
	ErrScenarioInvalid = errors.New("invalid scenario definition")

	// ErrTemplateNotFound indicates the named scenario template does not
	// exist in the built-in table or the template directory.
	ErrTemplateNotFound = errors.New("scenario template not found")

	// ErrCriteriaNotFound indicates the named validation criteria is not
	// registered with the validation engine.
	ErrCriteriaNotFound = errors.New("validation criteria not found")

	// ErrValidationFailed indicates one or more validation rules evaluated
	// false after an otherwise successful run.
	ErrValidationFailed = errors.New("validation failed")

	// ErrStepTimeout indicates a step exceeded its deadline and was
	// abandoned by the dispatch watchdog.
	ErrStepTimeout = errors.New("step timed out")

	// ErrRetryExhausted indicates a retry-strategy step failed on every
	// allowed attempt.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrPlanUnresolved indicates strict planning rejected a plan with
	// missing or cyclic dependencies.
	ErrPlanUnresolved = errors.New("plan has unresolved dependencies")

	// ErrUnknownGoal is returned only in strict planning when a goal string
	// is not recognized; lenient planning falls back to a generic task.
	ErrUnknownGoal = errors.New("unknown planning goal")

	// ErrDeviceBusy indicates the input device lease is held by another run
	// and the caller asked not to wait.
	ErrDeviceBusy = errors.New("input devices busy")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrValueOutOfRange indicates that a configuration value is outside
	// the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrRunNotFound indicates the requested run result is not in the store.
	ErrRunNotFound = errors.New("run result not found")

	// ErrInvalidOutputFormat indicates an unsupported --output value.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidParameter indicates a malformed --param argument.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrLockTimeout indicates a file lock could not be acquired within the
	// timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")
)
