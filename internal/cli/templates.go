package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddTemplatesCommand adds the templates command group to the root command.
func AddTemplatesCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List and inspect scenario templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listTemplates(cmd, global)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show one template's steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTemplate(cmd, global, args[0])
		},
	})

	root.AddCommand(cmd)
}

// listTemplates prints every registered template, built-in and on-disk.
func listTemplates(cmd *cobra.Command, global *GlobalFlags) error {
	p, err := newPipeline(cmd.Context(), global, GetLogger())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if global.Output == OutputJSON {
		return printJSON(out, p.templates.List())
	}

	for _, tpl := range p.templates.List() {
		fmt.Fprintf(out, "%-28s %2d steps  %s\n", tpl.Name, len(tpl.Steps), tpl.Description)
	}
	return nil
}

// showTemplate prints one template in detail.
func showTemplate(cmd *cobra.Command, global *GlobalFlags, name string) error {
	p, err := newPipeline(cmd.Context(), global, GetLogger())
	if err != nil {
		return err
	}

	tpl, err := p.templates.Get(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if global.Output == OutputJSON {
		return printJSON(out, tpl)
	}

	fmt.Fprintf(out, "%s: %s\n", tpl.Name, tpl.Description)
	fmt.Fprintf(out, "  mode: %s", tpl.Mode)
	if tpl.Timeout > 0 {
		fmt.Fprintf(out, ", timeout: %s", tpl.Timeout)
	}
	fmt.Fprintln(out)
	if len(tpl.ValidationCriteria) > 0 {
		fmt.Fprintf(out, "  validation: %v\n", tpl.ValidationCriteria)
	}
	for i, step := range tpl.Steps {
		fmt.Fprintf(out, "  %2d. %-20s %s/%s", i+1, step.ID, step.Type, step.Action)
		if step.OnError != "" {
			fmt.Fprintf(out, "  on_error=%s", step.OnError)
		}
		fmt.Fprintln(out)
	}
	return nil
}
