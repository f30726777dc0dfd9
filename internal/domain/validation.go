// Package domain provides shared domain types for the Orion scenario
// automation pipeline.
package domain

import "time"

// ValidationType identifies the kind of post-hoc check a rule performs.
type ValidationType string

// Validation type constants.
const (
	// ValidationFileExists checks that a file is present on disk.
	ValidationFileExists ValidationType = "file_exists"

	// ValidationContentMatch checks that a file contains the expected
	// content. The semantic is substring containment, not exact match.
	ValidationContentMatch ValidationType = "content_match"

	// ValidationVisual checks that the screen analysis reports at least one
	// element, optionally filtered by element type.
	ValidationVisual ValidationType = "visual_verification"

	// ValidationOutput checks terminal step output and return codes
	// recorded during the run against expected values.
	ValidationOutput ValidationType = "output_verification"

	// ValidationPerformance checks the run's execution time against a
	// configured ceiling.
	ValidationPerformance ValidationType = "performance_check"
)

// String returns the string representation of the ValidationType.
func (v ValidationType) String() string {
	return string(v)
}

// ValidationRule binds a validation type to its parameters and timeout.
// Rules are registered once at engine initialization and reused across
// scenario runs.
type ValidationRule struct {
	// ID uniquely identifies the rule within the engine.
	ID string `json:"id"`

	// Type selects the check implementation.
	Type ValidationType `json:"type"`

	// Parameters holds type-specific arguments (filename, expected_content,
	// element_type, expected_output, expected_return_code,
	// max_execution_time, ...).
	Parameters map[string]any `json:"parameters,omitempty"`

	// Timeout is the ceiling for evaluating this rule.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// ValidationResult is the transient outcome of evaluating one rule.
type ValidationResult struct {
	// RuleID identifies which rule produced this result.
	RuleID string `json:"rule_id"`

	// Success indicates whether the check passed.
	Success bool `json:"success"`

	// Message is a human-readable outcome description.
	Message string `json:"message,omitempty"`

	// Details carries structured check-specific data.
	Details map[string]any `json:"details,omitempty"`

	// ExecutionTime is how long the check took.
	ExecutionTime time.Duration `json:"execution_time"`
}

// ValidationSummary aggregates the results of one validation pass.
type ValidationSummary struct {
	// Success is true only when every rule passed.
	Success bool `json:"success"`

	// Criteria lists the criteria names that were evaluated.
	Criteria []string `json:"criteria"`

	// Results holds per-rule outcomes in registration order.
	Results []ValidationResult `json:"results"`

	// ExecutionTime is the total wall time of the validation pass.
	ExecutionTime time.Duration `json:"execution_time"`

	// TotalValidations is the number of rules evaluated.
	TotalValidations int `json:"total_validations"`
}

// FailedRules returns the IDs of rules that did not pass.
func (s *ValidationSummary) FailedRules() []string {
	var failed []string
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r.RuleID)
		}
	}
	return failed
}
