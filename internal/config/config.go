// Package config provides configuration management for Orion with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (ORION_* prefix)
//  3. Project config (.orion/config.yaml)
//  4. Global config (~/.orion/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for Orion.
// It contains all configuration sections for the scenario pipeline.
type Config struct {
	// Executor contains settings for scenario execution.
	Executor ExecutorConfig `yaml:"executor" mapstructure:"executor"`

	// Retry contains settings for the step retry strategy.
	Retry RetryConfig `yaml:"retry" mapstructure:"retry"`

	// Keyboard contains settings for the keyboard controller.
	Keyboard KeyboardConfig `yaml:"keyboard" mapstructure:"keyboard"`

	// Screen contains settings for screen bounds and vision analysis.
	Screen ScreenConfig `yaml:"screen" mapstructure:"screen"`

	// Planner contains settings for task planning.
	Planner PlannerConfig `yaml:"planner" mapstructure:"planner"`

	// Validation contains settings for the validation engine.
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
}

// ExecutorConfig contains settings for scenario execution.
type ExecutorConfig struct {
	// StepTimeout is the default ceiling for one step attempt when the
	// step declares no timeout of its own.
	// Default: 30s
	StepTimeout time.Duration `yaml:"step_timeout" mapstructure:"step_timeout"`

	// ScenarioTimeout is the default overall ceiling for one run.
	// Default: 5m
	ScenarioTimeout time.Duration `yaml:"scenario_timeout" mapstructure:"scenario_timeout"`

	// PacingDelay is the fixed delay inserted between steps outside batch mode.
	// Default: 100ms
	PacingDelay time.Duration `yaml:"pacing_delay" mapstructure:"pacing_delay"`

	// DefaultMode is the execution mode used when the caller specifies none.
	// Default: "continuous"
	DefaultMode string `yaml:"default_mode" mapstructure:"default_mode"`
}

// RetryConfig contains settings for the step retry strategy.
type RetryConfig struct {
	// MaxAttempts is the total attempts allowed for a retry-strategy step,
	// including the first. Step-level retry_count overrides this.
	// Default: 3, Valid range: 1-10
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`

	// InitialBackoff is the delay before the first retry; subsequent
	// retries double it.
	// Default: 500ms
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
}

// KeyboardConfig contains settings for the keyboard controller.
type KeyboardConfig struct {
	// MaxActionsPerSecond caps the keyboard action rate.
	// Default: 20, Valid range: 1-1000
	MaxActionsPerSecond int `yaml:"max_actions_per_second" mapstructure:"max_actions_per_second"`

	// KeyDelay is the pause between simulated keystrokes within one action.
	// Default: 10ms
	KeyDelay time.Duration `yaml:"key_delay" mapstructure:"key_delay"`
}

// ScreenConfig contains settings for screen bounds and vision analysis.
type ScreenConfig struct {
	// Width is the horizontal bound for mouse coordinate clamping.
	// Default: 1920
	Width int `yaml:"width" mapstructure:"width"`

	// Height is the vertical bound for mouse coordinate clamping.
	// Default: 1080
	Height int `yaml:"height" mapstructure:"height"`
}

// PlannerConfig contains settings for task planning.
type PlannerConfig struct {
	// Strict upgrades missing-dependency plan issues to errors.
	// When false (default), CreatePlan records issues but never fails.
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

// ValidationConfig contains settings for the validation engine.
type ValidationConfig struct {
	// RuleTimeout is the default per-rule ceiling when a rule declares
	// no timeout of its own.
	// Default: 10s
	RuleTimeout time.Duration `yaml:"rule_timeout" mapstructure:"rule_timeout"`
}
