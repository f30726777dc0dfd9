package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/orionvision/orion/internal/constants"
	"github.com/orionvision/orion/internal/errors"
)

// newViperInstance creates a new Viper instance with standard Orion configuration.
// This includes environment variable prefix (ORION_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("ORION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers built-in default values on the viper instance.
func setDefaults(v *viper.Viper) {
	// Executor defaults
	v.SetDefault("executor.step_timeout", constants.DefaultStepTimeout.String())
	v.SetDefault("executor.scenario_timeout", constants.DefaultScenarioTimeout.String())
	v.SetDefault("executor.pacing_delay", constants.StepPacingDelay.String())
	v.SetDefault("executor.default_mode", "continuous")

	// Retry defaults
	v.SetDefault("retry.max_attempts", constants.DefaultMaxRetryAttempts)
	v.SetDefault("retry.initial_backoff", constants.DefaultInitialBackoff.String())

	// Keyboard defaults
	v.SetDefault("keyboard.max_actions_per_second", constants.DefaultMaxActionsPerSecond)
	v.SetDefault("keyboard.key_delay", constants.DefaultKeyDelay.String())

	// Screen defaults
	v.SetDefault("screen.width", constants.DefaultScreenWidth)
	v.SetDefault("screen.height", constants.DefaultScreenHeight)

	// Planner defaults
	v.SetDefault("planner.strict", false)

	// Validation defaults
	v.SetDefault("validation.rule_timeout", constants.DefaultValidationTimeout.String())
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// viperDecoderOption returns the decode hooks used for unmarshaling.
// The duration hook lets config files use strings like "30s" or "2m".
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (ORION_* prefix)
//  2. Project config (.orion/config.yaml)
//  3. Global config (~/.orion/config.yaml)
//  4. Built-in defaults
//
// The function returns an error only for actual configuration problems,
// not for missing config files (which are expected in many scenarios).
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	// Load global config first (lower precedence)
	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	// Load project config (higher precedence, merges over global)
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Dur("executor.step_timeout", cfg.Executor.StepTimeout).
		Dur("executor.scenario_timeout", cfg.Executor.ScenarioTimeout).
		Int("keyboard.max_actions_per_second", cfg.Keyboard.MaxActionsPerSecond).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a single explicit file path,
// still layered over built-in defaults and environment variables.
// This backs the CLI's --config flag.
func LoadFromFile(_ context.Context, path string) (*Config, error) {
	v := newViperInstance()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.orion/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := globalConfigPathIfExists()
	if !ok {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// globalConfigPathIfExists returns the global config path if it exists.
func globalConfigPathIfExists() (string, bool) {
	home := os.Getenv("ORION_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		home = filepath.Join(userHome, constants.OrionHome)
	}

	globalConfigPath := filepath.Join(home, "config.yaml")
	if _, err := os.Stat(globalConfigPath); err != nil {
		return "", false
	}
	return globalConfigPath, true
}

// loadProjectConfig attempts to load the project config file (.orion/config.yaml).
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := filepath.Join(".orion", "config.yaml")
	if _, err := os.Stat(projectConfigPath); err != nil {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}
