// Package controller provides the terminal, mouse, keyboard, and screen
// facades that the integration manager routes scenario steps to.
//
// Controllers follow a uniform boundary contract: methods accept a context
// and a parameter map and return a *Result. Failures never cross the
// boundary as errors or panics; they are folded into Result with
// Success=false and a populated Error message.
//
// Import rules:
//   - CAN import: internal/clock, internal/constants, internal/errors, std lib
//   - MUST NOT import: internal/executor, internal/integration, internal/cli
package controller

import (
	"fmt"
	"time"
)

// Result is the uniform outcome record returned by every controller action.
type Result struct {
	// Success indicates whether the action completed without failure.
	Success bool `json:"success"`

	// Output contains any text output (terminal stdout, element summary).
	Output string `json:"output,omitempty"`

	// ReturnCode is the subprocess exit code for terminal actions.
	ReturnCode int `json:"return_code,omitempty"`

	// Details carries action-specific structured data.
	Details map[string]any `json:"details,omitempty"`

	// Error describes the failure when Success is false.
	Error string `json:"error,omitempty"`

	// Duration is how long the action took.
	Duration time.Duration `json:"duration"`
}

// ok builds a successful result.
func ok(output string, details map[string]any) *Result {
	return &Result{Success: true, Output: output, Details: details}
}

// fail builds a failed result from a message.
func fail(format string, args ...any) *Result {
	return &Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// failErr builds a failed result from an error.
func failErr(err error) *Result {
	return &Result{Success: false, Error: err.Error()}
}
