package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// AddRunsCommand adds the runs command group to the root command.
func AddRunsCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List and inspect stored run results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRuns(cmd, global)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <scenario-id>",
		Short: "Show one stored run result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRun(cmd, global, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <scenario-id>",
		Short: "Delete one stored run result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteRun(cmd, global, args[0])
		},
	})

	root.AddCommand(cmd)
}

// listRuns prints stored run results, most recent first.
func listRuns(cmd *cobra.Command, global *GlobalFlags) error {
	p, err := newPipeline(cmd.Context(), global, GetLogger())
	if err != nil {
		return err
	}

	results, err := p.runs.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if global.Output == OutputJSON {
		return printJSON(out, results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "no stored runs")
		return nil
	}
	for _, result := range results {
		verdict := "failed"
		if result.Success {
			verdict = "ok"
		}
		fmt.Fprintf(out, "%s  %-9s %-9s %2d/%d steps  %-8s  %s\n",
			result.StartedAt.Local().Format(time.DateTime),
			result.Status, verdict,
			result.StepsCompleted, result.TotalSteps,
			result.ExecutionTime.Round(time.Millisecond),
			result.ScenarioID)
	}
	return nil
}

// showRun prints one stored run result in full.
func showRun(cmd *cobra.Command, global *GlobalFlags, scenarioID string) error {
	p, err := newPipeline(cmd.Context(), global, GetLogger())
	if err != nil {
		return err
	}

	result, err := p.runs.Load(cmd.Context(), scenarioID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if global.Output == OutputJSON {
		return printJSON(out, result)
	}
	printResult(out, result)
	return nil
}

// deleteRun removes one stored run result.
func deleteRun(cmd *cobra.Command, global *GlobalFlags, scenarioID string) error {
	p, err := newPipeline(cmd.Context(), global, GetLogger())
	if err != nil {
		return err
	}

	if err := p.runs.Delete(cmd.Context(), scenarioID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", scenarioID)
	return nil
}
