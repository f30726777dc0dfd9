package executor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orionvision/orion/internal/config"
	"github.com/orionvision/orion/internal/constants"
	"github.com/orionvision/orion/internal/controller"
	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
	"github.com/orionvision/orion/internal/integration"
	"github.com/orionvision/orion/internal/metrics"
	"github.com/orionvision/orion/internal/store"
	"github.com/orionvision/orion/internal/validation"
)

// testHarness bundles an executor with its simulated devices for assertions.
type testHarness struct {
	executor *Executor
	pointer  *controller.SimulatedPointer
	typist   *controller.SimulatedTypist
	vision   *controller.SimulatedVision
	runner   *fakeRunner
	sleeps   *sleepRecorder
}

// fakeRunner scripts terminal command outcomes by substring match.
type fakeRunner struct {
	mu       sync.Mutex
	failures map[string]int // command substring -> remaining failures
	commands []string
}

func (r *fakeRunner) Run(_ context.Context, _, command string) (string, string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, command)

	for substr, remaining := range r.failures {
		if strings.Contains(command, substr) && remaining > 0 {
			r.failures[substr] = remaining - 1
			return "", "scripted failure", 1, assert.AnError
		}
	}
	return "ok: " + command, "", 0, nil
}

func (r *fakeRunner) commandLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
}

func (s *sleepRecorder) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.sleeps...)
}

func newHarness(t *testing.T, collector metrics.Collector, runStore *store.Store) *testHarness {
	t.Helper()

	logger := zerolog.Nop()
	runner := &fakeRunner{failures: make(map[string]int)}
	pointer := &controller.SimulatedPointer{}
	typist := &controller.SimulatedTypist{}
	vision := controller.NewSimulatedVision(nil)

	terminal := controller.NewTerminal(runner, t.TempDir(), logger)
	mouse := controller.NewMouse(pointer, 1920, 1080, logger)
	keyboard := controller.NewKeyboard(typist, nil, 0, logger)
	screen := controller.NewScreen(vision, logger)

	manager := integration.NewManager(terminal, mouse, keyboard, screen, collector, logger)
	validator := validation.NewEngine(config.ValidationConfig{}, screen, collector, logger)

	recorder := &sleepRecorder{}
	exec := New(Options{
		Config: config.ExecutorConfig{
			StepTimeout:     5 * time.Second,
			ScenarioTimeout: time.Minute,
			PacingDelay:     100 * time.Millisecond,
			DefaultMode:     "continuous",
		},
		Retry:     config.RetryConfig{MaxAttempts: 3, InitialBackoff: 50 * time.Millisecond},
		Manager:   manager,
		Validator: validator,
		Runs:      runStore,
		Collector: collector,
		Logger:    logger,
	})
	exec.sleep = recorder.sleep

	return &testHarness{
		executor: exec,
		pointer:  pointer,
		typist:   typist,
		vision:   vision,
		runner:   runner,
		sleeps:   recorder,
	}
}

func terminalStep(id, command string, onError domain.ErrorStrategy) StepInput {
	return StepInput{
		ID:         id,
		Type:       domain.StepTypeTerminal,
		Action:     "execute_command",
		Parameters: map[string]any{"command": command},
		OnError:    onError,
	}
}

func TestExecuteRunsStepsInOrder(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "ordered",
		Steps: []StepInput{
			terminalStep("first", "echo 1", domain.StrategyAbort),
			terminalStep("second", "echo 2", domain.StrategyAbort),
			terminalStep("third", "echo 3", domain.StrategyAbort),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.ScenarioStatusCompleted, result.Status)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.StepsCompleted)
	assert.Equal(t, 3, result.TotalSteps)

	assert.Equal(t, []string{"echo 1", "echo 2", "echo 3"}, h.runner.commandLog())

	require.Len(t, result.StepRecords, 3)
	for i, record := range result.StepRecords {
		assert.Equal(t, i, record.Index)
		assert.Equal(t, constants.StepStatusSuccess, record.Status)
	}
}

func TestExecuteAbortOnFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)
	h.runner.failures["boom"] = 1

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "abort run",
		Steps: []StepInput{
			terminalStep("ok", "echo fine", domain.StrategyAbort),
			terminalStep("explodes", "boom", domain.StrategyAbort),
			terminalStep("never", "echo unreachable", domain.StrategyAbort),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.ScenarioStatusFailed, result.Status)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.StepsCompleted)
	assert.Contains(t, result.ErrorMessage, "step 2 (explodes) failed")

	// The third step never ran.
	require.Len(t, result.StepRecords, 2)
	assert.NotContains(t, h.runner.commandLog(), "echo unreachable")
}

func TestExecuteSkipStrategyContinues(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)
	h.runner.failures["flaky"] = 10

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "skip run",
		Steps: []StepInput{
			terminalStep("a", "echo a", domain.StrategyAbort),
			terminalStep("b", "flaky", domain.StrategySkip),
			terminalStep("c", "echo c", domain.StrategyAbort),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.ScenarioStatusCompleted, result.Status)
	assert.True(t, result.Success)

	// Skipped steps are not counted as completed.
	assert.Equal(t, 2, result.StepsCompleted)
	assert.Equal(t, 3, result.TotalSteps)
	assert.Equal(t, constants.StepStatusSkipped, result.StepRecords[1].Status)
	assert.LessOrEqual(t, result.StepsCompleted, result.TotalSteps)
}

func TestExecuteRetryWithBackoff(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)
	h.runner.failures["flaky"] = 2

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "retry run",
		Steps: []StepInput{
			terminalStep("flaky_step", "flaky", domain.StrategyRetry),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.ScenarioStatusCompleted, result.Status)
	assert.True(t, result.Success)
	require.Len(t, result.StepRecords, 1)
	assert.Equal(t, 3, result.StepRecords[0].Attempts)

	// Exponential backoff: 50ms then 100ms.
	sleeps := h.sleeps.recorded()
	require.Len(t, sleeps, 2)
	assert.Equal(t, 50*time.Millisecond, sleeps[0])
	assert.Equal(t, 100*time.Millisecond, sleeps[1])
}

func TestExecuteRetryExhausted(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)
	h.runner.failures["always"] = 100

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "exhausted run",
		Steps: []StepInput{
			{
				ID:         "hopeless",
				Type:       domain.StepTypeTerminal,
				Action:     "execute_command",
				Parameters: map[string]any{"command": "always"},
				RetryCount: 2,
				OnError:    domain.StrategyRetry,
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.ScenarioStatusFailed, result.Status)
	require.Len(t, result.StepRecords, 1)
	assert.Equal(t, 3, result.StepRecords[0].Attempts)
	assert.Contains(t, result.StepRecords[0].Error, orionerrors.ErrRetryExhausted.Error())
}

func TestExecuteFallbackAction(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)
	h.runner.failures["primary"] = 10

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "fallback run",
		Steps: []StepInput{
			{
				ID:     "with_fallback",
				Type:   domain.StepTypeTerminal,
				Action: "execute_command",
				Parameters: map[string]any{
					"command":             "primary",
					"fallback_action":     "execute_command",
					"fallback_parameters": map[string]any{"command": "echo plan-b"},
				},
				OnError: domain.StrategyFallback,
			},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.StepRecords, 1)
	assert.Equal(t, constants.StepStatusSuccess, result.StepRecords[0].Status)
	assert.Contains(t, h.runner.commandLog(), "echo plan-b")
}

func TestExecuteFallbackWithoutActionSkips(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)
	h.runner.failures["primary"] = 10

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "fallback skip run",
		Steps: []StepInput{
			terminalStep("no_fallback", "primary", domain.StrategyFallback),
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.StepsCompleted)
	assert.Equal(t, constants.StepStatusSkipped, result.StepRecords[0].Status)
}

func TestExecuteValidationFlipsSuccess(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	missing := filepath.Join(t.TempDir(), "never-created.txt")
	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "validated run",
		Steps: []StepInput{
			terminalStep("work", "echo pretend-to-create "+missing, domain.StrategyAbort),
		},
		ValidationCriteria: []string{"file_creation"},
	})
	require.NoError(t, err)

	// All steps succeeded, but validation failed: status stays completed
	// while success flips.
	assert.Equal(t, constants.ScenarioStatusCompleted, result.Status)
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, orionerrors.ErrValidationFailed.Error())
	require.NotNil(t, result.Validation)
	assert.False(t, result.Validation.Success)
}

func TestExecuteUnknownActionFails(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "bad action",
		Steps: []StepInput{
			{ID: "bogus", Type: domain.StepTypeTerminal, Action: "summon_shell_demon"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.ScenarioStatusFailed, result.Status)
	assert.Contains(t, result.StepRecords[0].Error, orionerrors.ErrUnknownAction.Error())
}

func TestExecuteInlineValidationStep(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	filePath := filepath.Join(t.TempDir(), "present.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("content"), 0o644))

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "inline validation",
		Steps: []StepInput{
			{
				ID:         "check_file",
				Type:       domain.StepTypeValidation,
				Action:     "file_exists",
				Parameters: map[string]any{"filename": filePath},
			},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.StepsCompleted)
}

func TestExecuteRecordsTransitions(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name:  "audit run",
		Steps: []StepInput{terminalStep("only", "echo hi", domain.StrategyAbort)},
	})
	require.NoError(t, err)

	require.Len(t, result.Transitions, 2)
	assert.Equal(t, constants.ScenarioStatusPending, result.Transitions[0].FromStatus)
	assert.Equal(t, constants.ScenarioStatusRunning, result.Transitions[0].ToStatus)
	assert.Equal(t, constants.ScenarioStatusRunning, result.Transitions[1].FromStatus)
	assert.Equal(t, constants.ScenarioStatusCompleted, result.Transitions[1].ToStatus)
}

// blockingVision hangs Capture until released, ignoring its context. It
// stands in for a controller backend that does not honor cancellation.
type blockingVision struct {
	release chan struct{}
}

func (b *blockingVision) Capture(context.Context) (string, error) {
	<-b.release
	return "blocked://capture", nil
}

func (b *blockingVision) Analyze(context.Context) ([]controller.Element, error) {
	return nil, nil
}

func TestExecuteStepTimeoutBoundsHungController(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()
	backend := &blockingVision{release: make(chan struct{})}
	defer close(backend.release)

	terminal := controller.NewTerminal(&fakeRunner{failures: map[string]int{}}, t.TempDir(), logger)
	mouse := controller.NewMouse(&controller.SimulatedPointer{}, 1920, 1080, logger)
	keyboard := controller.NewKeyboard(&controller.SimulatedTypist{}, nil, 0, logger)
	screen := controller.NewScreen(backend, logger)
	manager := integration.NewManager(terminal, mouse, keyboard, screen, metrics.NewInMemory(), logger)

	exec := New(Options{
		Config:  config.ExecutorConfig{StepTimeout: 100 * time.Millisecond, ScenarioTimeout: time.Minute},
		Manager: manager,
		Logger:  logger,
	})

	start := time.Now()
	result, err := exec.Execute(context.Background(), ExecuteInput{
		Name: "hung capture",
		Steps: []StepInput{
			{ID: "capture", Type: domain.StepTypeVision, Action: "capture_screen"},
		},
	})
	require.NoError(t, err)

	// The run settles at the step deadline even though the backend never
	// observed its context.
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, constants.ScenarioStatusFailed, result.Status)
	require.Len(t, result.StepRecords, 1)
	assert.Contains(t, result.StepRecords[0].Error, orionerrors.ErrStepTimeout.Error())
}

func TestExecuteCancelDuringRetryBackoff(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)
	h.executor.sleep = sleepContext
	h.executor.retry.InitialBackoff = 30 * time.Second
	h.runner.failures["always"] = 100

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result, err := h.executor.Execute(ctx, ExecuteInput{
		Name: "cancelled backoff",
		Steps: []StepInput{
			terminalStep("hopeless", "always", domain.StrategyRetry),
		},
	})
	require.NoError(t, err)

	// Cancellation interrupts the backoff wait instead of finishing it.
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, constants.ScenarioStatusCancelled, result.Status)
	assert.False(t, result.Success)
}

func TestExecuteScenarioTimeout(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	steps := []StepInput{
		{
			ID:         "long_wait",
			Type:       domain.StepTypeKeyboard,
			Action:     "wait",
			Parameters: map[string]any{"duration": "10s"},
		},
		terminalStep("after", "echo never", domain.StrategyAbort),
	}

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name:    "timeout run",
		Steps:   steps,
		Timeout: 150 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, constants.ScenarioStatusFailed, result.Status)
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "timed out")
}

func TestCancelScenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	started := make(chan string, 1)
	done := make(chan *domain.ScenarioResult, 1)

	go func() {
		result, err := h.executor.Execute(context.Background(), ExecuteInput{
			Name: "cancel run",
			Steps: []StepInput{
				{
					ID:         "long_wait",
					Type:       domain.StepTypeKeyboard,
					Action:     "wait",
					Parameters: map[string]any{"duration": "30s"},
				},
			},
			Timeout: time.Minute,
		})
		assert.NoError(t, err)
		done <- result
	}()

	// Wait for the run to register, then cancel it.
	require.Eventually(t, func() bool {
		ids := h.executor.ActiveScenarios()
		if len(ids) == 1 {
			started <- ids[0]
			return true
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	id := <-started
	require.NoError(t, h.executor.CancelScenario(id))

	select {
	case result := <-done:
		assert.Equal(t, constants.ScenarioStatusCancelled, result.Status)
		assert.False(t, result.Success)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled run did not finish")
	}

	// The run is retired and its result retrievable.
	_, err := h.executor.Result(id)
	assert.NoError(t, err)
	assert.Empty(t, h.executor.ActiveScenarios())
}

func TestCancelUnknownScenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)
	err := h.executor.CancelScenario("scn-ghost")
	assert.ErrorIs(t, err, orionerrors.ErrScenarioNotFound)
}

func TestExecutePersistsRunResult(t *testing.T) {
	t.Parallel()

	runStore := store.New(t.TempDir(), zerolog.Nop())
	h := newHarness(t, metrics.NewInMemory(), runStore)

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name:  "persisted run",
		Steps: []StepInput{terminalStep("only", "echo hi", domain.StrategyAbort)},
	})
	require.NoError(t, err)

	loaded, err := runStore.Load(context.Background(), result.ScenarioID)
	require.NoError(t, err)
	assert.Equal(t, result.ScenarioID, loaded.ScenarioID)
	assert.Equal(t, constants.ScenarioStatusCompleted, loaded.Status)
}

func TestExecuteCollectsMetrics(t *testing.T) {
	t.Parallel()

	collector := metrics.NewInMemory()
	h := newHarness(t, collector, nil)

	_, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "metered run",
		Steps: []StepInput{
			terminalStep("a", "echo a", domain.StrategyAbort),
			terminalStep("b", "echo b", domain.StrategyAbort),
		},
	})
	require.NoError(t, err)

	snap := collector.Snapshot()
	assert.Equal(t, 1, snap.ScenariosStarted)
	assert.Equal(t, 1, snap.ScenariosCompleted)
	assert.Equal(t, 2, snap.StepsExecuted)
	assert.Zero(t, snap.StepsFailed)
}

func TestExecuteEndToEndFileCreationTemplate(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	dir := t.TempDir()
	filePath := filepath.Join(dir, "orion_test.txt")

	// The harness terminal resolves relative paths against its own temp
	// dir, so pass an absolute path.
	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		TemplateName: "terminal_file_creation",
		Parameters: map[string]any{
			"filename": filePath,
			"content":  "Orion Vision Core Test",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.ScenarioStatusCompleted, result.Status)
	assert.True(t, result.Success)
	require.NotNil(t, result.Validation)
	assert.True(t, result.Validation.Success)

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Orion Vision Core Test")
}

func TestExecuteCoordinatedStepUsesDevices(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	result, err := h.executor.Execute(context.Background(), ExecuteInput{
		Name: "coordinated run",
		Steps: []StepInput{
			{
				ID:     "click_and_type",
				Type:   domain.StepTypeCoordinated,
				Action: "click_and_type",
				Parameters: map[string]any{
					"x": 100, "y": 200,
					"text": "hello",
				},
			},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, h.pointer.Clicks())
	assert.Equal(t, "hello", h.typist.Typed())

	x, y := h.pointer.Position()
	assert.Equal(t, 100, x)
	assert.Equal(t, 200, y)
}

func TestParseInputRejectsBadInput(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	_, err := h.executor.Execute(context.Background(), ExecuteInput{})
	assert.ErrorIs(t, err, orionerrors.ErrScenarioInvalid)

	_, err = h.executor.Execute(context.Background(), ExecuteInput{
		Steps: []StepInput{
			terminalStep("dup", "echo 1", domain.StrategyAbort),
			terminalStep("dup", "echo 2", domain.StrategyAbort),
		},
	})
	assert.ErrorIs(t, err, orionerrors.ErrScenarioInvalid)

	_, err = h.executor.Execute(context.Background(), ExecuteInput{TemplateName: "no_such_template"})
	assert.ErrorIs(t, err, orionerrors.ErrTemplateNotFound)
}

func TestParseInputAppliesDefaults(t *testing.T) {
	t.Parallel()

	h := newHarness(t, metrics.NewInMemory(), nil)

	scenario, err := h.executor.parseInput(ExecuteInput{
		Steps: []StepInput{{Type: domain.StepTypeTerminal, Action: "execute_command"}},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(scenario.ID, "scn-"))
	assert.Equal(t, "step_1", scenario.Steps[0].ID)
	assert.Equal(t, domain.ModeContinuous, scenario.Mode)
	assert.Equal(t, time.Minute, scenario.Timeout)
}
