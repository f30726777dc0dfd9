package planner

import (
	"fmt"

	"github.com/orionvision/orion/internal/domain"
)

// ValidatePlan checks a plan for structural problems: dependencies that
// reference task IDs outside the plan, duplicate task IDs, and nonpositive
// duration estimates or timeouts. It returns true with no issues for a
// clean plan.
func ValidatePlan(plan *domain.TaskPlan) (bool, []string) {
	var issues []string

	ids := make(map[string]bool, len(plan.Tasks))
	for i := range plan.Tasks {
		id := plan.Tasks[i].ID
		if ids[id] {
			issues = append(issues, fmt.Sprintf("duplicate task id %q", id))
		}
		ids[id] = true
	}

	for i := range plan.Tasks {
		task := &plan.Tasks[i]
		for _, dep := range task.DependsOn {
			if !ids[dep] {
				issues = append(issues, fmt.Sprintf("task %q depends on unknown task %q", task.ID, dep))
			}
		}
		if task.EstimatedDuration <= 0 {
			issues = append(issues, fmt.Sprintf("task %q has nonpositive estimated duration", task.ID))
		}
		if task.Timeout <= 0 {
			issues = append(issues, fmt.Sprintf("task %q has nonpositive timeout", task.ID))
		}
	}

	return len(issues) == 0, issues
}
