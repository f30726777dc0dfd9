package cli

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/orionvision/orion/internal/clock"
	"github.com/orionvision/orion/internal/config"
	"github.com/orionvision/orion/internal/constants"
	"github.com/orionvision/orion/internal/controller"
	"github.com/orionvision/orion/internal/errors"
	"github.com/orionvision/orion/internal/executor"
	"github.com/orionvision/orion/internal/integration"
	"github.com/orionvision/orion/internal/logging"
	"github.com/orionvision/orion/internal/metrics"
	"github.com/orionvision/orion/internal/planner"
	"github.com/orionvision/orion/internal/store"
	"github.com/orionvision/orion/internal/template"
	"github.com/orionvision/orion/internal/validation"
)

// pipeline bundles the fully wired automation stack behind one CLI command
// invocation. Every command builds a fresh pipeline; nothing is shared
// across invocations except the Orion home directory.
type pipeline struct {
	cfg       *config.Config
	collector *metrics.InMemory
	manager   *integration.Manager
	engine    *validation.Engine
	templates *template.Registry
	runs      *store.Store
	exec      *executor.Executor
	planner   *planner.Planner
	logger    zerolog.Logger
}

// newPipeline loads configuration and wires the controllers, integration
// manager, validation engine, template registry, run store, executor, and
// planner together.
func newPipeline(ctx context.Context, flags *GlobalFlags, logger zerolog.Logger) (*pipeline, error) {
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	home, err := logging.OrionHome()
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve orion home")
	}

	clk := clock.RealClock{}
	collector := metrics.NewInMemory()

	terminal := controller.NewTerminal(nil, "", logger)
	mouse := controller.NewMouse(nil, cfg.Screen.Width, cfg.Screen.Height, logger)
	limiter := controller.NewRateLimiter(cfg.Keyboard.MaxActionsPerSecond, clk)
	keyboard := controller.NewKeyboard(nil, limiter, cfg.Keyboard.KeyDelay, logger)
	screen := controller.NewScreen(nil, logger)

	manager := integration.NewManager(terminal, mouse, keyboard, screen, collector, logger)
	engine := validation.NewEngine(cfg.Validation, screen, collector, logger)

	templates := template.NewRegistry()
	templateDir := filepath.Join(home, constants.TemplatesDir)
	if err := template.LoadDir(templates, templateDir); err != nil {
		return nil, errors.Wrapf(err, "failed to load templates from %s", templateDir)
	}

	runs := store.New(filepath.Join(home, constants.RunsDir), logger)

	exec := executor.New(executor.Options{
		Config:    cfg.Executor,
		Retry:     cfg.Retry,
		Manager:   manager,
		Validator: engine,
		Templates: templates,
		Runs:      runs,
		Collector: collector,
		Clock:     clk,
		Logger:    logger,
	})

	plnr := planner.New(cfg.Planner, collector, clk, logger)

	return &pipeline{
		cfg:       cfg,
		collector: collector,
		manager:   manager,
		engine:    engine,
		templates: templates,
		runs:      runs,
		exec:      exec,
		planner:   plnr,
		logger:    logger,
	}, nil
}

// loadConfig resolves configuration from the --config flag or the layered
// default locations.
func loadConfig(ctx context.Context, flags *GlobalFlags) (*config.Config, error) {
	if flags.ConfigPath != "" {
		return config.LoadFromFile(ctx, flags.ConfigPath)
	}
	return config.Load(ctx)
}

// parseParams converts repeated key=value arguments into a parameter map.
// Integer and boolean values are coerced so step parameters like retry
// counts and coordinates arrive typed.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.Wrapf(errors.ErrInvalidParameter, "%q is not key=value", pair)
		}
		params[key] = coerceValue(value)
	}
	return params, nil
}

// coerceValue parses value strings into ints and bools where possible.
func coerceValue(value string) any {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}
