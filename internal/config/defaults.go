package config

import (
	"github.com/orionvision/orion/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Executor: ExecutorConfig{
			// StepTimeout: generous enough for slow terminal commands
			// while still bounding hung controllers.
			StepTimeout: constants.DefaultStepTimeout,

			// ScenarioTimeout: overall ceiling for one run.
			ScenarioTimeout: constants.DefaultScenarioTimeout,

			// PacingDelay: small fixed delay between steps so GUI targets
			// have time to settle.
			PacingDelay: constants.StepPacingDelay,

			// DefaultMode: continuous is the unattended default.
			DefaultMode: "continuous",
		},
		Retry: RetryConfig{
			MaxAttempts:    constants.DefaultMaxRetryAttempts,
			InitialBackoff: constants.DefaultInitialBackoff,
		},
		Keyboard: KeyboardConfig{
			MaxActionsPerSecond: constants.DefaultMaxActionsPerSecond,
			KeyDelay:            constants.DefaultKeyDelay,
		},
		Screen: ScreenConfig{
			Width:  constants.DefaultScreenWidth,
			Height: constants.DefaultScreenHeight,
		},
		Planner: PlannerConfig{
			// Strict: false preserves the lenient planning behavior where
			// unresolved dependencies are reported, not fatal.
			Strict: false,
		},
		Validation: ValidationConfig{
			RuleTimeout: constants.DefaultValidationTimeout,
		},
	}
}
