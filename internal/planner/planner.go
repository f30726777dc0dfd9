// Package planner turns high-level goal strings into dependency-ordered
// task plans.
//
// Plans are advisory: the CLI renders them and callers may map tasks onto
// scenario steps, but the planner never executes anything itself. Dependency
// resolution is deliberately lenient by default. Cycles and missing
// dependencies degrade the plan (Resolved=false, Issues populated) instead
// of failing it; strict mode upgrades those findings to errors.
//
// Import rules:
//   - CAN import: internal/domain, internal/errors, internal/metrics,
//     internal/clock, internal/config, std lib
//   - MUST NOT import: internal/executor, internal/integration, internal/cli
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/orionvision/orion/internal/clock"
	"github.com/orionvision/orion/internal/config"
	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
	"github.com/orionvision/orion/internal/metrics"
)

// Planner generates task plans from recognized goal strings.
type Planner struct {
	strict    bool
	collector metrics.Collector
	clk       clock.Clock
	logger    zerolog.Logger
}

// New creates a planner. A nil collector selects the no-op collector and a
// nil clock selects the real clock.
func New(cfg config.PlannerConfig, collector metrics.Collector, clk clock.Clock, logger zerolog.Logger) *Planner {
	if collector == nil {
		collector = metrics.Noop{}
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Planner{
		strict:    cfg.Strict,
		collector: collector,
		clk:       clk,
		logger:    logger,
	}
}

// Strict returns a copy of the planner with strict mode enabled. The CLI
// uses it for the --strict flag without rebuilding the pipeline.
func (p *Planner) Strict() *Planner {
	clone := *p
	clone.strict = true
	return &clone
}

// CreatePlan builds a plan for the goal. Unrecognized goals fall back to a
// single generic terminal task (strict mode rejects them instead). The
// returned plan is always validated; findings land on plan.Issues. In
// strict mode a plan with missing dependencies or an unresolved ordering
// returns ErrPlanUnresolved.
func (p *Planner) CreatePlan(ctx context.Context, goal string, params map[string]any) (*domain.TaskPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	tasks, known := p.tasksForGoal(goal, params)
	if !known {
		if p.strict {
			return nil, fmt.Errorf("%w: %s", orionerrors.ErrUnknownGoal, goal)
		}
		p.logger.Warn().Str("goal", goal).Msg("unrecognized goal, using generic terminal task")
	}

	plan := &domain.TaskPlan{
		Goal:      goal,
		Tasks:     tasks,
		CreatedAt: p.clk.Now().UTC(),
	}

	plan.Tasks = optimizeByType(plan.Tasks)
	plan.Optimized = true

	ordered, resolved := p.resolveDependencies(plan.Tasks)
	plan.Tasks = ordered
	plan.Resolved = resolved

	for i := range plan.Tasks {
		plan.TotalEstimated += plan.Tasks[i].EstimatedDuration
	}

	valid, issues := ValidatePlan(plan)
	plan.Issues = issues
	if !resolved {
		plan.Issues = append(plan.Issues, "dependency resolution did not reach a fixed point")
	}

	p.collector.RecordPlanningTime(goal, time.Since(start), len(plan.Tasks))
	p.logger.Debug().
		Str("goal", goal).
		Int("tasks", len(plan.Tasks)).
		Bool("resolved", plan.Resolved).
		Int("issues", len(plan.Issues)).
		Msg("plan created")

	if p.strict && (!valid || !resolved) {
		return nil, fmt.Errorf("%w: %v", orionerrors.ErrPlanUnresolved, plan.Issues)
	}
	return plan, nil
}

// tasksForGoal maps a goal string to its task template. The second return
// reports whether the goal was recognized.
func (p *Planner) tasksForGoal(goal string, params map[string]any) ([]domain.Task, bool) {
	switch goal {
	case "create_text_file":
		return createTextFileTasks(params), true
	case "open_text_editor":
		return openTextEditorTasks(params), true
	case "type_and_save":
		return typeAndSaveTasks(params), true
	case "file_operations":
		return fileOperationsTasks(params), true
	default:
		return genericTasks(goal, params), false
	}
}

func createTextFileTasks(params map[string]any) []domain.Task {
	filePath := stringOr(params, "filename", "output.txt")
	return []domain.Task{
		{
			ID:     "prepare_directory",
			Type:   domain.TaskTypeTerminal,
			Action: "execute_command",
			Parameters: map[string]any{
				"command": fmt.Sprintf("mkdir -p %q", dirOf(filePath)),
			},
			Priority:          domain.PriorityNormal,
			EstimatedDuration: 1 * time.Second,
			Timeout:           10 * time.Second,
		},
		{
			ID:     "write_file",
			Type:   domain.TaskTypeFileOperation,
			Action: "create_file",
			Parameters: map[string]any{
				"filename": filePath,
				"content":  stringOr(params, "content", ""),
			},
			Priority:          domain.PriorityHigh,
			DependsOn:         []string{"prepare_directory"},
			EstimatedDuration: 1 * time.Second,
			Timeout:           10 * time.Second,
		},
		{
			ID:     "verify_file",
			Type:   domain.TaskTypeTerminal,
			Action: "read_file",
			Parameters: map[string]any{
				"filename": filePath,
			},
			Priority:          domain.PriorityNormal,
			DependsOn:         []string{"write_file"},
			EstimatedDuration: 1 * time.Second,
			Timeout:           10 * time.Second,
		},
	}
}

func openTextEditorTasks(params map[string]any) []domain.Task {
	editor := stringOr(params, "editor", "gedit")
	return []domain.Task{
		{
			ID:     "launch_editor",
			Type:   domain.TaskTypeTerminal,
			Action: "execute_command",
			Parameters: map[string]any{
				"command": editor + " &",
			},
			Priority:          domain.PriorityHigh,
			EstimatedDuration: 2 * time.Second,
			Timeout:           15 * time.Second,
		},
		{
			ID:     "locate_editor_window",
			Type:   domain.TaskTypeGUI,
			Action: "find_element",
			Parameters: map[string]any{
				"element_type": "window",
			},
			Priority:          domain.PriorityNormal,
			DependsOn:         []string{"launch_editor"},
			EstimatedDuration: 3 * time.Second,
			Timeout:           20 * time.Second,
		},
		{
			ID:     "focus_editor",
			Type:   domain.TaskTypeGUI,
			Action: "click",
			Parameters: map[string]any{
				"x": 960, "y": 540,
			},
			Priority:          domain.PriorityNormal,
			DependsOn:         []string{"locate_editor_window"},
			EstimatedDuration: 1 * time.Second,
			Timeout:           10 * time.Second,
		},
	}
}

func typeAndSaveTasks(params map[string]any) []domain.Task {
	return []domain.Task{
		{
			ID:     "type_content",
			Type:   domain.TaskTypeGUI,
			Action: "type_text",
			Parameters: map[string]any{
				"text": stringOr(params, "text", ""),
			},
			Priority:          domain.PriorityNormal,
			EstimatedDuration: 5 * time.Second,
			Timeout:           30 * time.Second,
		},
		{
			ID:     "save_document",
			Type:   domain.TaskTypeGUI,
			Action: "hotkey",
			Parameters: map[string]any{
				"keys": "ctrl+s",
			},
			Priority:          domain.PriorityHigh,
			DependsOn:         []string{"type_content"},
			EstimatedDuration: 1 * time.Second,
			Timeout:           10 * time.Second,
		},
		{
			ID:     "confirm_saved",
			Type:   domain.TaskTypeGUI,
			Action: "capture_and_analyze",
			Parameters: map[string]any{
				"element_type": "dialog",
			},
			Priority:          domain.PriorityLow,
			DependsOn:         []string{"save_document"},
			EstimatedDuration: 2 * time.Second,
			Timeout:           15 * time.Second,
		},
	}
}

// fileOperationsTasks chains the "operations" parameter (a list of shell
// commands) into sequentially dependent terminal tasks.
func fileOperationsTasks(params map[string]any) []domain.Task {
	ops := stringListOr(params, "operations", []string{"ls -la"})
	tasks := make([]domain.Task, 0, len(ops))
	for i, op := range ops {
		task := domain.Task{
			ID:     fmt.Sprintf("operation_%d", i+1),
			Type:   domain.TaskTypeFileOperation,
			Action: "execute_command",
			Parameters: map[string]any{
				"command": op,
			},
			Priority:          domain.PriorityNormal,
			EstimatedDuration: 2 * time.Second,
			Timeout:           30 * time.Second,
		}
		if i > 0 {
			task.DependsOn = []string{fmt.Sprintf("operation_%d", i)}
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func genericTasks(goal string, params map[string]any) []domain.Task {
	return []domain.Task{
		{
			ID:     "generic_task",
			Type:   domain.TaskTypeTerminal,
			Action: "execute_command",
			Parameters: map[string]any{
				"command": stringOr(params, "command", fmt.Sprintf("echo %q", goal)),
			},
			Priority:          domain.PriorityNormal,
			EstimatedDuration: 2 * time.Second,
			Timeout:           30 * time.Second,
		},
	}
}

func stringOr(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func stringListOr(params map[string]any, key string, fallback []string) []string {
	switch v := params[key].(type) {
	case []string:
		if len(v) > 0 {
			return v
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			if i == 0 {
				return "/"
			}
			return path[:i]
		}
	}
	return "."
}
