// Package validation evaluates post-run validation rules against a
// scenario and its result.
//
// Rules never abort a run with an error: every evaluation produces a
// ValidationResult, and boundary failures (missing files, unknown rule
// kinds, unregistered criteria) are failed results with a message. Rules
// belonging to one criterion evaluate concurrently.
//
// Import rules:
//   - CAN import: internal/controller, internal/domain, internal/errors,
//     internal/metrics, internal/config, std lib
//   - MUST NOT import: internal/executor, internal/cli
package validation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/orionvision/orion/internal/config"
	"github.com/orionvision/orion/internal/constants"
	"github.com/orionvision/orion/internal/controller"
	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
	"github.com/orionvision/orion/internal/metrics"
)

// Engine evaluates validation criteria. Criteria are named rule groups;
// scenarios reference them by name. Registration and lookup are safe for
// concurrent use.
type Engine struct {
	screen      *controller.Screen
	collector   metrics.Collector
	ruleTimeout time.Duration
	logger      zerolog.Logger

	mu       sync.RWMutex
	criteria map[string][]domain.ValidationRule
}

// NewEngine creates a validation engine with the built-in criteria table.
// A nil collector selects the no-op collector.
func NewEngine(cfg config.ValidationConfig, screen *controller.Screen, collector metrics.Collector, logger zerolog.Logger) *Engine {
	if collector == nil {
		collector = metrics.Noop{}
	}
	ruleTimeout := cfg.RuleTimeout
	if ruleTimeout <= 0 {
		ruleTimeout = constants.DefaultValidationTimeout
	}

	e := &Engine{
		screen:      screen,
		collector:   collector,
		ruleTimeout: ruleTimeout,
		criteria:    make(map[string][]domain.ValidationRule),
		logger:      logger,
	}
	for name, rules := range builtinCriteria() {
		e.criteria[name] = rules
	}
	return e
}

// RegisterCriteria adds or replaces a named rule group.
func (e *Engine) RegisterCriteria(name string, rules []domain.ValidationRule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.criteria[name] = rules
}

// Criteria returns the rules registered under name.
func (e *Engine) Criteria(name string) ([]domain.ValidationRule, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules, ok := e.criteria[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", orionerrors.ErrCriteriaNotFound, name)
	}
	return rules, nil
}

// CriteriaNames returns the registered criteria names in no particular
// order.
func (e *Engine) CriteriaNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.criteria))
	for name := range e.criteria {
		names = append(names, name)
	}
	return names
}

// ValidateScenario evaluates every criterion the scenario names against the
// run result. Rules within one criterion run concurrently. The summary's
// Success is the conjunction of all rule results; an unregistered criterion
// contributes a failed result rather than an error.
func (e *Engine) ValidateScenario(ctx context.Context, scenario *domain.Scenario, result *domain.ScenarioResult) (*domain.ValidationSummary, error) {
	start := time.Now()

	summary := &domain.ValidationSummary{
		Success:  true,
		Criteria: append([]string(nil), scenario.ValidationCriteria...),
	}

	for _, name := range scenario.ValidationCriteria {
		rules, err := e.Criteria(name)
		if err != nil {
			summary.Success = false
			summary.Results = append(summary.Results, domain.ValidationResult{
				RuleID:  name,
				Success: false,
				Message: fmt.Sprintf("validation criteria %q is not registered", name),
			})
			continue
		}

		results, err := e.evaluateRules(ctx, rules, scenario, result)
		if err != nil {
			return nil, err
		}
		for _, res := range results {
			if !res.Success {
				summary.Success = false
			}
			summary.Results = append(summary.Results, res)
		}
	}

	summary.TotalValidations = len(summary.Results)
	summary.ExecutionTime = time.Since(start)

	e.logger.Debug().
		Bool("success", summary.Success).
		Int("validations", summary.TotalValidations).
		Strs("criteria", summary.Criteria).
		Msg("scenario validated")
	return summary, nil
}

// ValidateStep evaluates a single rule with no scenario context. Rule kinds
// that need the run result (output_verification, performance_check) fail
// with a message explaining the missing context.
func (e *Engine) ValidateStep(ctx context.Context, rule domain.ValidationRule) (*domain.ValidationResult, error) {
	res := e.evaluate(ctx, rule, nil, nil)
	return &res, ctx.Err()
}

// evaluateRules runs one criterion's rules concurrently and returns results
// in rule order.
func (e *Engine) evaluateRules(ctx context.Context, rules []domain.ValidationRule, scenario *domain.Scenario, result *domain.ScenarioResult) ([]domain.ValidationResult, error) {
	results := make([]domain.ValidationResult, len(rules))

	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range rules {
		g.Go(func() error {
			results[i] = e.evaluate(gctx, rule, scenario, result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// evaluate runs one rule under its timeout and records its timing.
func (e *Engine) evaluate(ctx context.Context, rule domain.ValidationRule, scenario *domain.Scenario, result *domain.ScenarioResult) domain.ValidationResult {
	timeout := rule.Timeout
	if timeout <= 0 {
		timeout = e.ruleTimeout
	}
	ruleCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res := e.evaluateKind(ruleCtx, rule, scenario, result)
	res.RuleID = rule.ID
	res.ExecutionTime = time.Since(start)

	e.collector.RecordValidation(rule.ID, res.ExecutionTime, res.Success)
	return res
}

func (e *Engine) evaluateKind(ctx context.Context, rule domain.ValidationRule, scenario *domain.Scenario, result *domain.ScenarioResult) domain.ValidationResult {
	params := resolveParams(rule, scenario, result)

	switch rule.Type {
	case domain.ValidationFileExists:
		return checkFileExists(params)
	case domain.ValidationContentMatch:
		return checkContentMatch(params)
	case domain.ValidationVisual:
		return e.checkVisual(ctx, params)
	case domain.ValidationOutput:
		return checkOutput(params, result)
	case domain.ValidationPerformance:
		return checkPerformance(params, result)
	default:
		return domain.ValidationResult{
			Success: false,
			Message: fmt.Sprintf("unknown validation type %q", rule.Type),
		}
	}
}
