package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/orionvision/orion/internal/domain"
	"github.com/orionvision/orion/internal/metrics"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult renders one scenario result as human-readable text.
func printResult(w io.Writer, result *domain.ScenarioResult) {
	status := "FAILED"
	if result.Success {
		status = "OK"
	}

	fmt.Fprintf(w, "%s  %s (%s)\n", status, result.ScenarioID, result.Name)
	fmt.Fprintf(w, "  status:    %s\n", result.Status)
	fmt.Fprintf(w, "  steps:     %d/%d completed\n", result.StepsCompleted, result.TotalSteps)
	fmt.Fprintf(w, "  duration:  %s\n", result.ExecutionTime.Round(time.Millisecond))
	if result.ErrorMessage != "" {
		fmt.Fprintf(w, "  error:     %s\n", result.ErrorMessage)
	}

	for _, rec := range result.StepRecords {
		line := fmt.Sprintf("  [%d] %-12s %s", rec.Index+1, rec.Status, rec.StepID)
		if rec.Attempts > 1 {
			line += fmt.Sprintf(" (%d attempts)", rec.Attempts)
		}
		if rec.Error != "" {
			line += ": " + rec.Error
		}
		fmt.Fprintln(w, line)
	}

	if result.Validation != nil {
		printValidationSummary(w, result.Validation)
	}
}

// printValidationSummary renders a post-run validation summary.
func printValidationSummary(w io.Writer, summary *domain.ValidationSummary) {
	verdict := "passed"
	if !summary.Success {
		verdict = "FAILED"
	}
	fmt.Fprintf(w, "  validation: %s (%d rules, %s)\n",
		verdict, summary.TotalValidations, summary.ExecutionTime.Round(time.Millisecond))

	for _, res := range summary.Results {
		mark := "pass"
		if !res.Success {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "    %s  %s: %s\n", mark, res.RuleID, res.Message)
	}
}

// printPlan renders a task plan as human-readable text.
func printPlan(w io.Writer, plan *domain.TaskPlan) {
	fmt.Fprintf(w, "plan for %q (%d tasks, ~%s)\n",
		plan.Goal, len(plan.Tasks), plan.TotalEstimated.Round(time.Millisecond))
	if !plan.Resolved {
		fmt.Fprintln(w, "  WARNING: dependencies did not fully resolve")
	}

	for i, task := range plan.Tasks {
		line := fmt.Sprintf("  %2d. %-22s %s/%s", i+1, task.ID, task.Type, task.Action)
		if len(task.DependsOn) > 0 {
			line += fmt.Sprintf("  (after %v)", task.DependsOn)
		}
		fmt.Fprintln(w, line)
	}

	for _, issue := range plan.Issues {
		fmt.Fprintf(w, "  issue: %s\n", issue)
	}
}

// printMetrics renders the collector snapshot that accumulates during one
// CLI invocation.
func printMetrics(w io.Writer, snap metrics.Snapshot) {
	fmt.Fprintf(w, "  metrics:   %d steps (%d failed), %d validations (%d failed), step time %s\n",
		snap.StepsExecuted, snap.StepsFailed,
		snap.ValidationsRun, snap.ValidationsFailed,
		snap.TotalStepTime.Round(time.Millisecond))
}
