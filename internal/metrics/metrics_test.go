package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/orionvision/orion/internal/domain"
)

func TestInMemoryAccumulatesCounters(t *testing.T) {
	t.Parallel()

	m := NewInMemory()

	m.RecordScenarioStart("scn-1", "demo")
	m.RecordScenarioEnd("scn-1", 2*time.Second, "completed")
	m.RecordScenarioStart("scn-2", "demo")
	m.RecordScenarioEnd("scn-2", time.Second, "failed")

	m.RecordStepExecuted("scn-1", "step_1", domain.StepTypeTerminal, 100*time.Millisecond, true)
	m.RecordStepExecuted("scn-1", "step_2", domain.StepTypeMouse, 50*time.Millisecond, false)

	m.RecordValidation("file_exists_check", 10*time.Millisecond, true)
	m.RecordValidation("file_content_check", 5*time.Millisecond, false)

	m.RecordPlanningTime("create_text_file", 3*time.Millisecond, 3)
	m.RecordIntegrationFailure(domain.StepTypeMouse, time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, 2, snap.ScenariosStarted)
	assert.Equal(t, 1, snap.ScenariosCompleted)
	assert.Equal(t, 1, snap.ScenariosFailed)
	assert.Equal(t, 2, snap.StepsExecuted)
	assert.Equal(t, 1, snap.StepsFailed)
	assert.Equal(t, 150*time.Millisecond, snap.TotalStepTime)
	assert.Equal(t, 2, snap.ValidationsRun)
	assert.Equal(t, 1, snap.ValidationsFailed)
	assert.Equal(t, 15*time.Millisecond, snap.TotalValidationTime)
	assert.Equal(t, 3*time.Millisecond, snap.TotalPlanningTime)
	assert.Equal(t, 1, snap.IntegrationFailures)
}

func TestInMemorySnapshotIsACopy(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.RecordScenarioStart("scn-1", "demo")

	snap := m.Snapshot()
	m.RecordScenarioStart("scn-2", "demo")

	assert.Equal(t, 1, snap.ScenariosStarted)
	assert.Equal(t, 2, m.Snapshot().ScenariosStarted)
}

func TestInMemoryConcurrentRecording(t *testing.T) {
	t.Parallel()

	m := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordStepExecuted("scn", "step", domain.StepTypeTerminal, time.Microsecond, j%2 == 0)
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, 1000, snap.StepsExecuted)
	assert.Equal(t, 500, snap.StepsFailed)
}

func TestNoopImplementsCollector(t *testing.T) {
	t.Parallel()

	var c Collector = Noop{}
	c.RecordScenarioStart("scn", "noop")
	c.RecordScenarioEnd("scn", time.Second, "completed")
	c.RecordStepExecuted("scn", "step", domain.StepTypeTerminal, time.Second, true)
	c.RecordValidation("rule", time.Second, true)
	c.RecordPlanningTime("goal", time.Second, 1)
	c.RecordIntegrationFailure(domain.StepTypeTerminal, time.Second)
}
