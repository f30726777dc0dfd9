package cli

import (
	"github.com/spf13/cobra"
)

// planFlags holds flags specific to the plan command.
type planFlags struct {
	params []string
	strict bool
}

// AddPlanCommand adds the plan command to the root command.
func AddPlanCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan <goal>",
		Short: "Show the task plan for a goal",
		Long: `Build and display the dependency-ordered task plan for a goal.

Recognized goals map to task templates (create_text_file, open_text_editor,
type_and_save, file_operations); anything else plans a single generic task.

  orion plan create_text_file --param filename=/tmp/notes.txt
  orion plan file_operations --param operations=copy,move`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showPlan(cmd, global, flags, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&flags.params, "param", "p", nil, "goal parameter (key=value, repeatable)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail on unknown goals and unresolved dependencies")

	root.AddCommand(cmd)
}

// showPlan builds a plan for the goal and prints it.
func showPlan(cmd *cobra.Command, global *GlobalFlags, flags *planFlags, goal string) error {
	logger := GetLogger()
	ctx := cmd.Context()

	p, err := newPipeline(ctx, global, logger)
	if err != nil {
		return err
	}

	params, err := parseParams(flags.params)
	if err != nil {
		return err
	}

	plnr := p.planner
	if flags.strict {
		plnr = plnr.Strict()
	}

	plan, err := plnr.CreatePlan(ctx, goal, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if global.Output == OutputJSON {
		return printJSON(out, plan)
	}
	printPlan(out, plan)
	return nil
}
