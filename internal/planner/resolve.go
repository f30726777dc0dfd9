package planner

import "github.com/orionvision/orion/internal/domain"

// resolveDependencies orders tasks so every task appears after all of its
// dependencies. It iterates to a fixed point, bounded to 2x the task count;
// when an iteration makes no progress (a cycle or a missing dependency) the
// remaining tasks are appended in their original order and the plan is
// marked unresolved.
func (p *Planner) resolveDependencies(tasks []domain.Task) ([]domain.Task, bool) {
	if len(tasks) <= 1 {
		return tasks, true
	}

	ordered := make([]domain.Task, 0, len(tasks))
	placed := make(map[string]bool, len(tasks))
	remaining := append([]domain.Task(nil), tasks...)

	maxIterations := 2 * len(tasks)
	for iter := 0; iter < maxIterations && len(remaining) > 0; iter++ {
		progressed := false
		next := remaining[:0]
		for _, task := range remaining {
			if depsSatisfied(task, placed) {
				ordered = append(ordered, task)
				placed[task.ID] = true
				progressed = true
			} else {
				next = append(next, task)
			}
		}
		remaining = next

		if !progressed {
			p.logger.Warn().
				Int("unresolved", len(remaining)).
				Msg("dependency resolution stalled, appending remaining tasks in input order")
			return append(ordered, remaining...), false
		}
	}

	if len(remaining) > 0 {
		return append(ordered, remaining...), false
	}
	return ordered, true
}

func depsSatisfied(task domain.Task, placed map[string]bool) bool {
	for _, dep := range task.DependsOn {
		if !placed[dep] {
			return false
		}
	}
	return true
}

// optimizeByType groups tasks into terminal, gui, and other buckets and
// interleaves the groups round-robin. Dependency order is restored by the
// resolution pass that runs afterwards.
func optimizeByType(tasks []domain.Task) []domain.Task {
	if len(tasks) <= 1 {
		return tasks
	}

	var terminal, gui, other []domain.Task
	for _, task := range tasks {
		switch task.Type {
		case domain.TaskTypeTerminal:
			terminal = append(terminal, task)
		case domain.TaskTypeGUI:
			gui = append(gui, task)
		default:
			other = append(other, task)
		}
	}

	groups := [][]domain.Task{terminal, gui, other}
	out := make([]domain.Task, 0, len(tasks))
	for len(out) < len(tasks) {
		for i := range groups {
			if len(groups[i]) > 0 {
				out = append(out, groups[i][0])
				groups[i] = groups[i][1:]
			}
		}
	}
	return out
}
