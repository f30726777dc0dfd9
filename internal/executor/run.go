package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orionvision/orion/internal/constants"
	"github.com/orionvision/orion/internal/controller"
	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
	"github.com/orionvision/orion/internal/integration"
)

// runScenario drives the step loop and settles the run's final status.
// All failures are reported on the result; this function never returns an
// error to the caller.
func (e *Executor) runScenario(ctx context.Context, run *activeRun) {
	if err := run.transition(constants.ScenarioStatusRunning, "execution started", e.clk.Now()); err != nil {
		run.result.ErrorMessage = err.Error()
		return
	}

	if needsDevices(run.scenario) {
		if err := e.manager.Lease().Acquire(ctx); err != nil {
			e.settleInterrupted(ctx, run)
			return
		}
		defer e.manager.Lease().Release()
	}

	for i := range run.scenario.Steps {
		if ctx.Err() != nil {
			e.settleInterrupted(ctx, run)
			return
		}

		if i > 0 {
			if run.scenario.Mode == domain.ModeInteractive {
				if err := e.pauseForProceed(ctx, run); err != nil {
					e.settleInterrupted(ctx, run)
					return
				}
			}
			if run.scenario.Mode != domain.ModeBatch && e.cfg.PacingDelay > 0 {
				e.sleep(ctx, e.cfg.PacingDelay)
			}
		}

		record := e.executeStep(ctx, run, i)
		run.result.StepRecords = append(run.result.StepRecords, record)

		switch record.Status {
		case constants.StepStatusSuccess:
			run.result.StepsCompleted++
		case constants.StepStatusSkipped:
			// Absorbed failure; not counted as completed.
		case constants.StepStatusFailed:
			if ctx.Err() != nil {
				e.settleInterrupted(ctx, run)
				return
			}
			reason := fmt.Sprintf("step %d (%s) failed: %s", i+1, record.StepID, record.Error)
			_ = run.transition(constants.ScenarioStatusFailed, reason, e.clk.Now())
			run.result.ErrorMessage = reason
			return
		}
	}

	_ = run.transition(constants.ScenarioStatusCompleted, "all steps processed", e.clk.Now())
	run.result.Success = true

	e.validate(ctx, run)
}

// validate runs post-hoc validation when the scenario names criteria and
// finished successfully. A failing validation flips Success but leaves the
// completed status intact.
func (e *Executor) validate(ctx context.Context, run *activeRun) {
	if len(run.scenario.ValidationCriteria) == 0 || !run.result.Success || e.validator == nil {
		return
	}

	summary, err := e.validator.ValidateScenario(ctx, run.scenario, run.result)
	if err != nil {
		run.result.Success = false
		run.result.ErrorMessage = orionerrors.Wrap(err, "validation aborted").Error()
		return
	}

	run.result.Validation = summary
	if !summary.Success {
		run.result.Success = false
		run.result.ErrorMessage = fmt.Sprintf("%s: rules %v did not pass",
			orionerrors.ErrValidationFailed, summary.FailedRules())
	}
}

// executeStep runs one step, applying the retry strategy when configured.
// The returned record's status reflects the step's error strategy: failed
// steps under skip or fallback come back as skipped.
func (e *Executor) executeStep(ctx context.Context, run *activeRun, idx int) domain.StepRecord {
	step := run.scenario.Steps[idx]
	record := domain.StepRecord{
		StepID:    step.ID,
		Index:     idx,
		Status:    constants.StepStatusRunning,
		StartedAt: e.clk.Now().UTC(),
	}

	attempts := 1
	if step.OnError == domain.StrategyRetry {
		attempts = e.retry.MaxAttempts
		if step.RetryCount > 0 {
			attempts = step.RetryCount + 1
		}
	}

	backoff := e.retry.InitialBackoff
	var res *controller.Result
	for attempt := 1; attempt <= attempts; attempt++ {
		record.Attempts = attempt

		res = e.attemptStep(ctx, step)
		e.collector.RecordStepExecuted(run.scenario.ID, step.ID, step.Type, res.Duration, res.Success)

		if res.Success {
			break
		}
		e.logger.Warn().
			Str("scenario_id", run.scenario.ID).
			Str("step_id", step.ID).
			Int("attempt", attempt).
			Str("error", res.Error).
			Msg("step attempt failed")

		if attempt < attempts && ctx.Err() == nil {
			e.sleep(ctx, backoff)
			backoff *= 2
		}
	}

	record.Output = res.Output
	record.ReturnCode = res.ReturnCode
	record.Details = res.Details
	record.Error = res.Error
	record.CompletedAt = e.clk.Now().UTC()
	record.Duration = record.CompletedAt.Sub(record.StartedAt)

	if res.Success {
		record.Status = constants.StepStatusSuccess
		return record
	}

	if step.OnError == domain.StrategyRetry && attempts > 1 {
		record.Error = fmt.Sprintf("%s after %d attempts: %s",
			orionerrors.ErrRetryExhausted, record.Attempts, res.Error)
	}

	switch step.OnError {
	case domain.StrategySkip:
		record.Status = constants.StepStatusSkipped
	case domain.StrategyFallback:
		record = e.runFallback(ctx, run, step, record)
	default:
		record.Status = constants.StepStatusFailed
	}
	return record
}

// runFallback substitutes the step's fallback_action and re-attempts once.
// Without a fallback_action, or when the fallback also fails, the step is
// skipped rather than failed.
func (e *Executor) runFallback(ctx context.Context, run *activeRun, step domain.ScenarioStep, record domain.StepRecord) domain.StepRecord {
	fallbackAction, _ := step.Parameters["fallback_action"].(string)
	if fallbackAction == "" {
		record.Status = constants.StepStatusSkipped
		return record
	}

	substitute := step
	substitute.Action = fallbackAction
	if fp, ok := step.Parameters["fallback_parameters"].(map[string]any); ok {
		substitute.Parameters = fp
	}

	res := e.attemptStep(ctx, substitute)
	record.Attempts++
	e.collector.RecordStepExecuted(run.scenario.ID, step.ID, step.Type, res.Duration, res.Success)

	record.CompletedAt = e.clk.Now().UTC()
	record.Duration = record.CompletedAt.Sub(record.StartedAt)

	if res.Success {
		record.Status = constants.StepStatusSuccess
		record.Output = res.Output
		record.ReturnCode = res.ReturnCode
		record.Details = res.Details
		record.Error = ""
		e.logger.Info().
			Str("scenario_id", run.scenario.ID).
			Str("step_id", step.ID).
			Str("fallback_action", fallbackAction).
			Msg("fallback action succeeded")
		return record
	}

	record.Status = constants.StepStatusSkipped
	record.Error = fmt.Sprintf("%s; fallback %q also failed: %s", record.Error, fallbackAction, res.Error)
	return record
}

// attemptStep performs one attempt under the step's timeout. The dispatch
// runs in a watchdog goroutine so a controller that ignores its context
// cannot block the run past the deadline; the abandoned worker writes into
// a buffered channel and is collected whenever it eventually returns.
// Routing errors and timeouts come back as failed results.
func (e *Executor) attemptStep(ctx context.Context, step domain.ScenarioStep) *controller.Result {
	timeout := step.Timeout
	if timeout <= 0 {
		timeout = e.cfg.StepTimeout
	}
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	done := make(chan *controller.Result, 1)
	go func() {
		done <- e.dispatchStep(stepCtx, step)
	}()

	var res *controller.Result
	select {
	case res = <-done:
	case <-stepCtx.Done():
		res = &controller.Result{Success: false, Error: stepCtx.Err().Error()}
	}

	if res.Duration == 0 {
		res.Duration = time.Since(start)
	}
	if !res.Success && errors.Is(stepCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		res.Error = fmt.Sprintf("%s: %s elapsed", orionerrors.ErrStepTimeout, timeout)
	}
	return res
}

// dispatchStep routes one attempt. Validation steps run through the
// validation engine; everything else dispatches to the integration manager.
func (e *Executor) dispatchStep(ctx context.Context, step domain.ScenarioStep) *controller.Result {
	if step.Type == domain.StepTypeValidation {
		return e.attemptValidationStep(ctx, step)
	}

	res, err := e.manager.Dispatch(ctx, step.Type, step.Action, step.Parameters)
	if err != nil {
		return &controller.Result{Success: false, Error: err.Error()}
	}
	return res
}

// attemptValidationStep evaluates an inline validation rule. The step's
// action names the validation type.
func (e *Executor) attemptValidationStep(ctx context.Context, step domain.ScenarioStep) *controller.Result {
	if e.validator == nil {
		return &controller.Result{Success: false, Error: "no validation engine configured"}
	}

	rule := domain.ValidationRule{
		ID:         step.ID,
		Type:       domain.ValidationType(step.Action),
		Parameters: step.Parameters,
		Timeout:    step.Timeout,
	}
	vr, err := e.validator.ValidateStep(ctx, rule)
	if err != nil {
		return &controller.Result{Success: false, Error: err.Error()}
	}

	res := &controller.Result{
		Success: vr.Success,
		Output:  vr.Message,
		Details: vr.Details,
	}
	if !vr.Success {
		res.Error = vr.Message
	}
	return res
}

// pauseForProceed parks an interactive run until Proceed is called or the
// context ends.
func (e *Executor) pauseForProceed(ctx context.Context, run *activeRun) error {
	if err := run.transition(constants.ScenarioStatusPaused, "awaiting proceed", e.clk.Now()); err != nil {
		return err
	}

	select {
	case <-run.proceed:
		return run.transition(constants.ScenarioStatusRunning, "proceed received", e.clk.Now())
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settleInterrupted resolves an interrupted run: a deadline becomes a
// failed run, a caller cancellation becomes cancelled.
func (e *Executor) settleInterrupted(ctx context.Context, run *activeRun) {
	now := e.clk.Now()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		reason := fmt.Sprintf("scenario timed out after %s", run.scenario.Timeout)
		_ = run.transition(constants.ScenarioStatusFailed, reason, now)
		run.result.ErrorMessage = reason
		return
	}

	_ = run.transition(constants.ScenarioStatusCancelled, "cancelled by caller", now)
	run.result.ErrorMessage = "scenario cancelled"
}

// needsDevices reports whether any step drives the input devices.
func needsDevices(scenario *domain.Scenario) bool {
	for _, step := range scenario.Steps {
		if integration.RequiresDevices(step.Type) {
			return true
		}
	}
	return false
}
