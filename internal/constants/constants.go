// Package constants provides centralized constant values used throughout Orion.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by Orion for organizing data.
const (
	// OrionHome is the hidden directory name where Orion stores all its data.
	// This directory is created in the user's home directory.
	OrionHome = ".orion"

	// RunsDir is the directory name where scenario run results are stored.
	RunsDir = "runs"

	// TemplatesDir is the directory name where scenario template files are stored.
	TemplatesDir = "templates"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the name of the rotating CLI log file.
	CLILogFileName = "orion.log"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age in days of a rotated file.
	LogMaxAgeDays = 30

	// LogCompress controls whether rotated files are gzip compressed.
	LogCompress = true
)

// Timeout and pacing configurations for scenario execution.
const (
	// DefaultStepTimeout is the maximum duration for a single step when the
	// step does not declare its own timeout.
	DefaultStepTimeout = 30 * time.Second

	// DefaultScenarioTimeout is the overall ceiling for one scenario run.
	DefaultScenarioTimeout = 5 * time.Minute

	// StepPacingDelay is the fixed delay inserted between consecutive steps.
	StepPacingDelay = 100 * time.Millisecond

	// DefaultValidationTimeout is the per-rule ceiling for validation checks.
	DefaultValidationTimeout = 10 * time.Second
)

// Retry configuration defaults for the step retry strategy.
const (
	// DefaultMaxRetryAttempts is the maximum number of attempts for a step
	// whose error strategy is retry (the first attempt counts).
	DefaultMaxRetryAttempts = 3

	// DefaultInitialBackoff is the backoff before the first retry.
	// Subsequent retries use exponential backoff based on this value.
	DefaultInitialBackoff = 500 * time.Millisecond
)

// Input device defaults.
const (
	// DefaultMaxActionsPerSecond caps the keyboard action rate.
	DefaultMaxActionsPerSecond = 20

	// DefaultKeyDelay is the pause inserted between simulated keystrokes.
	DefaultKeyDelay = 10 * time.Millisecond

	// DefaultScreenWidth is the assumed horizontal screen bound for
	// coordinate clamping when no bounds are configured.
	DefaultScreenWidth = 1920

	// DefaultScreenHeight is the assumed vertical screen bound.
	DefaultScreenHeight = 1080
)

// Terminal controller defaults.
const (
	// DefaultCommandTimeout is the subprocess ceiling for terminal actions
	// that do not declare their own timeout.
	DefaultCommandTimeout = 30 * time.Second

	// DefaultFileMode is the permission mode for files created by the
	// terminal controller's create_file and write_content actions.
	DefaultFileMode = 0o644
)

// Schema version constants for data migration support.
const (
	// ScenarioSchemaVersion is the current version of the persisted
	// ScenarioResult schema.
	ScenarioSchemaVersion = 1
)
