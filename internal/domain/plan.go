// Package domain provides shared domain types for the Orion scenario
// automation pipeline.
package domain

import "time"

// TaskType categorizes the kind of work a planned task performs.
// The planner's optimization pass groups tasks by this type.
type TaskType string

// Task type constants.
const (
	// TaskTypeTerminal indicates shell-level work.
	TaskTypeTerminal TaskType = "terminal"

	// TaskTypeGUI indicates pointer/keyboard interaction work.
	TaskTypeGUI TaskType = "gui"

	// TaskTypeFileOperation indicates filesystem manipulation.
	TaskTypeFileOperation TaskType = "file_operation"

	// TaskTypeNetwork indicates network-bound work.
	TaskTypeNetwork TaskType = "network"

	// TaskTypeSystem indicates system-level queries or changes.
	TaskTypeSystem TaskType = "system"
)

// TaskPriority orders tasks of equal dependency depth.
type TaskPriority string

// Task priority constants.
const (
	// PriorityLow is for best-effort tasks.
	PriorityLow TaskPriority = "low"

	// PriorityNormal is the default priority.
	PriorityNormal TaskPriority = "normal"

	// PriorityHigh is for tasks that should run before normal work.
	PriorityHigh TaskPriority = "high"

	// PriorityCritical is for tasks that must not be delayed.
	PriorityCritical TaskPriority = "critical"
)

// Task is the planner's internal unit of work. Tasks are generated fresh
// per goal and are not persisted.
type Task struct {
	// ID uniquely identifies the task within its plan.
	ID string `json:"id"`

	// Type categorizes the task for grouping optimization.
	Type TaskType `json:"type"`

	// Action is the concrete operation the task maps to.
	Action string `json:"action"`

	// Parameters holds action-specific arguments.
	Parameters map[string]any `json:"parameters,omitempty"`

	// Priority orders tasks of equal dependency depth.
	Priority TaskPriority `json:"priority"`

	// DependsOn lists task IDs that must complete before this task.
	// Every entry must resolve within the same plan; a missing entry is
	// reported through the plan's Issues list.
	DependsOn []string `json:"depends_on,omitempty"`

	// EstimatedDuration is the planner's duration estimate.
	EstimatedDuration time.Duration `json:"estimated_duration,omitempty"`

	// Timeout is the ceiling for executing this task.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// TaskPlan is a dependency-ordered task list produced by the planner.
type TaskPlan struct {
	// Goal is the goal string the plan was created from.
	Goal string `json:"goal"`

	// Tasks is the ordered task list. When Resolved is false the tail of
	// the list may contain tasks whose dependencies never resolved,
	// appended in their original order.
	Tasks []Task `json:"tasks"`

	// TotalEstimated is the sum of task duration estimates.
	TotalEstimated time.Duration `json:"total_estimated"`

	// Resolved is true when dependency resolution reached a fixed point
	// with every task placed after its dependencies.
	Resolved bool `json:"resolved"`

	// Optimized is true when the type-grouping pass ran.
	Optimized bool `json:"optimized"`

	// Issues lists validation findings (missing dependencies, nonsensical
	// durations). A non-empty list with Resolved=false signals a cyclic or
	// missing dependency that lenient planning chose not to fail on.
	Issues []string `json:"issues,omitempty"`

	// CreatedAt is when the plan was generated (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// TaskIndex returns the position of the task with the given ID, or -1.
func (p *TaskPlan) TaskIndex(id string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}
