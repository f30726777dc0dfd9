// Package executor runs scenarios: it parses caller input into a scenario,
// drives the step loop through the integration manager, applies per-step
// error strategies, and runs post-hoc validation.
//
// Each run is tracked by a small state machine (pending, running, paused,
// completed, failed, cancelled) whose transitions are recorded on the
// result as an audit trail. Runs that drive input devices hold the device
// lease for their whole duration so concurrent scenarios cannot interleave
// gestures.
//
// Import rules:
//   - CAN import: internal/integration, internal/validation,
//     internal/template, internal/store, internal/domain, internal/config,
//     internal/metrics, internal/clock, internal/constants,
//     internal/errors, std lib
//   - MUST NOT import: internal/cli
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/orionvision/orion/internal/clock"
	"github.com/orionvision/orion/internal/config"
	"github.com/orionvision/orion/internal/constants"
	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
	"github.com/orionvision/orion/internal/integration"
	"github.com/orionvision/orion/internal/metrics"
	"github.com/orionvision/orion/internal/store"
	"github.com/orionvision/orion/internal/template"
	"github.com/orionvision/orion/internal/validation"
)

// activeRun is the executor's bookkeeping for one in-flight scenario.
type activeRun struct {
	scenario *domain.Scenario
	result   *domain.ScenarioResult
	status   constants.ScenarioStatus
	cancel   context.CancelFunc
	proceed  chan struct{}
}

// Executor coordinates scenario runs.
type Executor struct {
	cfg       config.ExecutorConfig
	retry     config.RetryConfig
	manager   *integration.Manager
	validator *validation.Engine
	templates *template.Registry
	runs      *store.Store
	collector metrics.Collector
	clk       clock.Clock
	logger    zerolog.Logger

	// sleep paces steps and retry backoff; it returns early when the run's
	// context ends. Swapped in tests to avoid real delays.
	sleep func(context.Context, time.Duration)

	mu        sync.Mutex
	active    map[string]*activeRun
	completed map[string]*domain.ScenarioResult
}

// Options carries the executor's collaborators. Manager and Validator are
// required; the rest fall back to sensible defaults.
type Options struct {
	Config    config.ExecutorConfig
	Retry     config.RetryConfig
	Manager   *integration.Manager
	Validator *validation.Engine
	Templates *template.Registry
	Runs      *store.Store
	Collector metrics.Collector
	Clock     clock.Clock
	Logger    zerolog.Logger
}

// New creates an executor. A nil template registry gets the built-ins; a
// nil run store disables persistence.
func New(opts Options) *Executor {
	if opts.Collector == nil {
		opts.Collector = metrics.Noop{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Templates == nil {
		opts.Templates = template.NewRegistry()
	}
	if opts.Config.StepTimeout <= 0 {
		opts.Config.StepTimeout = constants.DefaultStepTimeout
	}
	if opts.Config.ScenarioTimeout <= 0 {
		opts.Config.ScenarioTimeout = constants.DefaultScenarioTimeout
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry.MaxAttempts = constants.DefaultMaxRetryAttempts
	}
	if opts.Retry.InitialBackoff <= 0 {
		opts.Retry.InitialBackoff = constants.DefaultInitialBackoff
	}

	return &Executor{
		cfg:       opts.Config,
		retry:     opts.Retry,
		manager:   opts.Manager,
		validator: opts.Validator,
		templates: opts.Templates,
		runs:      opts.Runs,
		collector: opts.Collector,
		clk:       opts.Clock,
		logger:    opts.Logger,
		sleep:     sleepContext,
		active:    make(map[string]*activeRun),
		completed: make(map[string]*domain.ScenarioResult),
	}
}

// Execute parses the input and runs the scenario to completion. Parse
// failures return an error with no result; execution failures are reported
// on the result with a nil error.
func (e *Executor) Execute(ctx context.Context, input ExecuteInput) (*domain.ScenarioResult, error) {
	scenario, err := e.parseInput(input)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, scenario.Timeout)
	defer cancel()

	run := &activeRun{
		scenario: scenario,
		status:   constants.ScenarioStatusPending,
		cancel:   cancel,
		proceed:  make(chan struct{}, 1),
		result: &domain.ScenarioResult{
			ScenarioID:    scenario.ID,
			Name:          scenario.Name,
			Status:        constants.ScenarioStatusPending,
			TotalSteps:    len(scenario.Steps),
			StartedAt:     e.clk.Now().UTC(),
			SchemaVersion: constants.ScenarioSchemaVersion,
		},
	}

	e.register(run)
	defer e.retire(run)

	e.collector.RecordScenarioStart(scenario.ID, scenario.Name)
	e.logger.Info().
		Str("scenario_id", scenario.ID).
		Str("name", scenario.Name).
		Int("steps", len(scenario.Steps)).
		Str("mode", scenario.Mode.String()).
		Msg("scenario started")

	e.runScenario(runCtx, run)

	result := run.result
	result.CompletedAt = e.clk.Now().UTC()
	result.ExecutionTime = result.CompletedAt.Sub(result.StartedAt)

	e.collector.RecordScenarioEnd(scenario.ID, result.ExecutionTime, result.Status.String())
	e.logger.Info().
		Str("scenario_id", scenario.ID).
		Str("status", result.Status.String()).
		Bool("success", result.Success).
		Int("steps_completed", result.StepsCompleted).
		Dur("execution_time", result.ExecutionTime).
		Msg("scenario finished")

	if e.runs != nil {
		// Persist with a fresh context so a cancelled run still lands in
		// run history.
		saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer saveCancel()
		if err := e.runs.Save(saveCtx, result); err != nil {
			e.logger.Warn().Err(err).Str("scenario_id", scenario.ID).Msg("saving run result failed")
		}
	}
	return result, nil
}

// CancelScenario cancels an in-flight run. Returns ErrScenarioNotFound if
// no active run has the given ID.
func (e *Executor) CancelScenario(scenarioID string) error {
	e.mu.Lock()
	run, ok := e.active[scenarioID]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", orionerrors.ErrScenarioNotFound, scenarioID)
	}

	run.cancel()
	return nil
}

// Proceed resumes a paused interactive run. It is a no-op for runs that are
// not waiting.
func (e *Executor) Proceed(scenarioID string) error {
	e.mu.Lock()
	run, ok := e.active[scenarioID]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", orionerrors.ErrScenarioNotFound, scenarioID)
	}

	select {
	case run.proceed <- struct{}{}:
	default:
	}
	return nil
}

// ActiveScenarios returns the IDs of in-flight runs.
func (e *Executor) ActiveScenarios() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.active))
	for id := range e.active {
		ids = append(ids, id)
	}
	return ids
}

// Result returns the result of a completed run from this process.
// Returns ErrScenarioNotFound for unknown or still-active IDs.
func (e *Executor) Result(scenarioID string) (*domain.ScenarioResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, ok := e.completed[scenarioID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", orionerrors.ErrScenarioNotFound, scenarioID)
	}
	return result, nil
}

func (e *Executor) register(run *activeRun) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active[run.scenario.ID] = run
}

func (e *Executor) retire(run *activeRun) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, run.scenario.ID)
	e.completed[run.scenario.ID] = run.result
}

// sleepContext waits for d or until ctx ends, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
