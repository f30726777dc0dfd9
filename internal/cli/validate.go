package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orionvision/orion/internal/domain"
	"github.com/orionvision/orion/internal/errors"
)

// validateFlags holds flags specific to the validate command.
type validateFlags struct {
	params []string
}

// AddValidateCommand adds the validate command to the root command.
func AddValidateCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate [criteria]",
		Short: "Run a validation criteria against the current system state",
		Long: `Evaluate the rules of a named validation criteria directly, outside any
scenario run. Parameters fill rule inputs such as the file to check.

  orion validate file_creation --param filename=/tmp/out.txt --param expected_content=hello

Without arguments the registered criteria names are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listCriteria(cmd, global)
			}
			return runCriteria(cmd, global, flags, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&flags.params, "param", "p", nil, "rule parameter (key=value, repeatable)")

	root.AddCommand(cmd)
}

// listCriteria prints the registered criteria names.
func listCriteria(cmd *cobra.Command, global *GlobalFlags) error {
	p, err := newPipeline(cmd.Context(), global, GetLogger())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if global.Output == OutputJSON {
		return printJSON(out, p.engine.CriteriaNames())
	}
	for _, name := range p.engine.CriteriaNames() {
		fmt.Fprintln(out, name)
	}
	return nil
}

// runCriteria evaluates every rule of the named criteria with the given
// parameters and reports the results. A failing rule fails the command.
func runCriteria(cmd *cobra.Command, global *GlobalFlags, flags *validateFlags, name string) error {
	p, err := newPipeline(cmd.Context(), global, GetLogger())
	if err != nil {
		return err
	}

	params, err := parseParams(flags.params)
	if err != nil {
		return err
	}

	rules, err := p.engine.Criteria(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failures := 0
	results := make([]domain.ValidationResult, 0, len(rules))
	for _, rule := range rules {
		rule.Parameters = mergeParams(rule.Parameters, params)

		result, err := p.engine.ValidateStep(cmd.Context(), rule)
		if err != nil {
			return err
		}
		results = append(results, *result)
		if !result.Success {
			failures++
		}
	}

	if global.Output == OutputJSON {
		if err := printJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			mark := "pass"
			if !result.Success {
				mark = "FAIL"
			}
			fmt.Fprintf(out, "%s  %-24s %s (%s)\n",
				mark, result.RuleID, result.Message, result.ExecutionTime.Round(time.Millisecond))
		}
	}

	if failures > 0 {
		return fmt.Errorf("%w: %d of %d rules failed", errors.ErrValidationFailed, failures, len(rules))
	}
	return nil
}

// mergeParams overlays CLI parameters onto a rule's own parameters. CLI
// values win.
func mergeParams(base, overrides map[string]any) map[string]any {
	if len(overrides) == 0 {
		return base
	}
	merged := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
