// Package metrics provides an injectable metrics collector for the scenario
// pipeline. Collectors are passed explicitly to the executor, planner, and
// validation engine so that concurrent scenario runs never share mutable
// counters through package state.
package metrics

import (
	"sync"
	"time"

	"github.com/orionvision/orion/internal/domain"
)

// Collector receives timing and outcome events from the pipeline.
// Implementations can forward these to monitoring systems like Prometheus,
// StatsD, or custom observability platforms.
type Collector interface {
	// RecordScenarioStart is called when a scenario run begins.
	RecordScenarioStart(scenarioID, name string)

	// RecordScenarioEnd is called when a scenario run finishes.
	RecordScenarioEnd(scenarioID string, duration time.Duration, status string)

	// RecordPlanningTime is called after the planner produces a plan.
	RecordPlanningTime(goal string, duration time.Duration, taskCount int)

	// RecordStepExecuted is called after each step attempt completes.
	RecordStepExecuted(scenarioID, stepID string, stepType domain.StepType, duration time.Duration, success bool)

	// RecordValidation is called after each validation rule evaluates.
	RecordValidation(ruleID string, duration time.Duration, success bool)

	// RecordIntegrationFailure is called whenever the integration manager
	// converts a controller failure into a failed result.
	RecordIntegrationFailure(stepType domain.StepType, duration time.Duration)
}

// Noop is a no-op implementation of Collector for default behavior.
// Use this when metrics collection is not needed.
type Noop struct{}

// Ensure Noop implements Collector.
var _ Collector = (*Noop)(nil)

// RecordScenarioStart implements Collector.
func (Noop) RecordScenarioStart(string, string) {}

// RecordScenarioEnd implements Collector.
func (Noop) RecordScenarioEnd(string, time.Duration, string) {}

// RecordPlanningTime implements Collector.
func (Noop) RecordPlanningTime(string, time.Duration, int) {}

// RecordStepExecuted implements Collector.
func (Noop) RecordStepExecuted(string, string, domain.StepType, time.Duration, bool) {}

// RecordValidation implements Collector.
func (Noop) RecordValidation(string, time.Duration, bool) {}

// RecordIntegrationFailure implements Collector.
func (Noop) RecordIntegrationFailure(domain.StepType, time.Duration) {}

// Snapshot is a point-in-time copy of the in-memory collector's counters.
type Snapshot struct {
	ScenariosStarted    int
	ScenariosCompleted  int
	ScenariosFailed     int
	StepsExecuted       int
	StepsFailed         int
	ValidationsRun      int
	ValidationsFailed   int
	IntegrationFailures int
	TotalStepTime       time.Duration
	TotalPlanningTime   time.Duration
	TotalValidationTime time.Duration
}

// InMemory is a mutex-guarded Collector that accumulates counters for the
// lifetime of one process. It backs the CLI's run summary output.
type InMemory struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory creates an empty in-memory collector.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// Ensure InMemory implements Collector.
var _ Collector = (*InMemory)(nil)

// RecordScenarioStart implements Collector.
func (m *InMemory) RecordScenarioStart(string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.ScenariosStarted++
}

// RecordScenarioEnd implements Collector.
func (m *InMemory) RecordScenarioEnd(_ string, _ time.Duration, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == "completed" {
		m.snap.ScenariosCompleted++
	} else {
		m.snap.ScenariosFailed++
	}
}

// RecordPlanningTime implements Collector.
func (m *InMemory) RecordPlanningTime(_ string, duration time.Duration, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.TotalPlanningTime += duration
}

// RecordStepExecuted implements Collector.
func (m *InMemory) RecordStepExecuted(_, _ string, _ domain.StepType, duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.StepsExecuted++
	m.snap.TotalStepTime += duration
	if !success {
		m.snap.StepsFailed++
	}
}

// RecordValidation implements Collector.
func (m *InMemory) RecordValidation(_ string, duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.ValidationsRun++
	m.snap.TotalValidationTime += duration
	if !success {
		m.snap.ValidationsFailed++
	}
}

// RecordIntegrationFailure implements Collector.
func (m *InMemory) RecordIntegrationFailure(domain.StepType, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.IntegrationFailures++
}

// Snapshot returns a copy of the current counters.
func (m *InMemory) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}
