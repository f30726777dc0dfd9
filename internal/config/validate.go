package config

import (
	"github.com/orionvision/orion/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - executor timeouts must be positive; pacing delay must not be negative
//   - retry max attempts must be between 1 and 10; backoff must be positive
//   - keyboard rate must be between 1 and 1000; key delay must not be negative
//   - screen bounds must be positive
//   - validation rule timeout must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateExecutorConfig(&cfg.Executor); err != nil {
		return err
	}
	if err := validateRetryConfig(&cfg.Retry); err != nil {
		return err
	}
	if err := validateKeyboardConfig(&cfg.Keyboard); err != nil {
		return err
	}
	if err := validateScreenConfig(&cfg.Screen); err != nil {
		return err
	}
	if err := validateValidationConfig(&cfg.Validation); err != nil {
		return err
	}

	return nil
}

// validateExecutorConfig checks executor-specific configuration values.
func validateExecutorConfig(cfg *ExecutorConfig) error {
	if cfg.StepTimeout <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"executor.step_timeout must be positive, got %s", cfg.StepTimeout)
	}
	if cfg.ScenarioTimeout <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"executor.scenario_timeout must be positive, got %s", cfg.ScenarioTimeout)
	}
	if cfg.PacingDelay < 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"executor.pacing_delay must not be negative, got %s", cfg.PacingDelay)
	}
	switch cfg.DefaultMode {
	case "step_by_step", "continuous", "interactive", "batch":
	default:
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"executor.default_mode must be a known execution mode, got %q", cfg.DefaultMode)
	}
	return nil
}

// validateRetryConfig checks retry-specific configuration values.
func validateRetryConfig(cfg *RetryConfig) error {
	if cfg.MaxAttempts < 1 || cfg.MaxAttempts > 10 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"retry.max_attempts must be between 1 and 10, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"retry.initial_backoff must be positive, got %s", cfg.InitialBackoff)
	}
	return nil
}

// validateKeyboardConfig checks keyboard-specific configuration values.
func validateKeyboardConfig(cfg *KeyboardConfig) error {
	if cfg.MaxActionsPerSecond < 1 || cfg.MaxActionsPerSecond > 1000 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"keyboard.max_actions_per_second must be between 1 and 1000, got %d", cfg.MaxActionsPerSecond)
	}
	if cfg.KeyDelay < 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"keyboard.key_delay must not be negative, got %s", cfg.KeyDelay)
	}
	return nil
}

// validateScreenConfig checks screen bound values.
func validateScreenConfig(cfg *ScreenConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"screen bounds must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	return nil
}

// validateValidationConfig checks validation engine configuration values.
func validateValidationConfig(cfg *ValidationConfig) error {
	if cfg.RuleTimeout <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"validation.rule_timeout must be positive, got %s", cfg.RuleTimeout)
	}
	return nil
}
