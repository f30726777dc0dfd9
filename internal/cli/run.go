package cli

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orionvision/orion/internal/domain"
	"github.com/orionvision/orion/internal/errors"
	"github.com/orionvision/orion/internal/executor"
	"github.com/orionvision/orion/internal/signal"
	"github.com/orionvision/orion/internal/template"
)

// runFlags holds flags specific to the run command.
type runFlags struct {
	params  []string
	file    string
	mode    string
	timeout time.Duration
}

// AddRunCommand adds the run command to the root command.
func AddRunCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [template]",
		Short: "Execute a scenario from a template",
		Long: `Execute a scenario built from a named template or a template file.

Templates are looked up in the built-in table and in ~/.orion/templates.
Parameters fill the template's {placeholder} values:

  orion run terminal_file_creation --param filename=/tmp/out.txt --param content=hello
  orion run --file ./my-scenario.yaml --param filename=report.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, global, flags, args)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.params, "param", "p", nil, "template parameter (key=value, repeatable)")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "path to a scenario template YAML file")
	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "", "execution mode override (step_by_step|continuous|interactive|batch)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "overall scenario timeout override")

	root.AddCommand(cmd)
}

// runScenario wires the pipeline, executes one scenario, and prints the
// result. Ctrl+C cancels the run; the partial result is still persisted
// and printed.
func runScenario(cmd *cobra.Command, global *GlobalFlags, flags *runFlags, args []string) error {
	logger := GetLogger()

	handler := signal.NewHandler(cmd.Context())
	defer handler.Stop()
	ctx := handler.Context()

	p, err := newPipeline(ctx, global, logger)
	if err != nil {
		return err
	}

	params, err := parseParams(flags.params)
	if err != nil {
		return err
	}

	input, err := buildRunInput(p, flags, args, params)
	if err != nil {
		return err
	}

	interactive := input.Mode == domain.ModeInteractive
	if input.Mode == "" && input.TemplateName != "" {
		if tpl, tplErr := p.templates.Get(input.TemplateName); tplErr == nil {
			interactive = tpl.Mode == domain.ModeInteractive
		}
	}
	if interactive {
		go proceedOnEnter(ctx, cmd, p.exec)
	}

	result, err := p.exec.Execute(ctx, input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if global.Output == OutputJSON {
		if err := printJSON(out, result); err != nil {
			return err
		}
	} else {
		printResult(out, result)
		if global.Verbose {
			printMetrics(out, p.collector.Snapshot())
		}
	}

	if handler.WasInterrupted() {
		return fmt.Errorf("run interrupted: %s", result.Status)
	}
	if !result.Success {
		return fmt.Errorf("scenario %s did not succeed: %s", result.ScenarioID, result.ErrorMessage)
	}
	return nil
}

// buildRunInput resolves the template source (name or file) into an
// executor input.
func buildRunInput(p *pipeline, flags *runFlags, args []string, params map[string]any) (executor.ExecuteInput, error) {
	var input executor.ExecuteInput

	switch {
	case flags.file != "":
		tpl, err := template.LoadFromFile(flags.file)
		if err != nil {
			return input, err
		}
		if err := p.templates.Register(tpl); err != nil {
			return input, err
		}
		input.TemplateName = tpl.Name
	case len(args) == 1:
		input.TemplateName = args[0]
	default:
		return input, errors.Wrap(errors.ErrInvalidParameter, "a template name or --file is required")
	}

	input.Parameters = params
	input.Mode = domain.ExecutionMode(flags.mode)
	input.Timeout = flags.timeout
	return input, nil
}

// proceedOnEnter advances interactive runs one step per line of input. It
// returns when input is exhausted or ctx ends. The reader goroutine can
// still be parked in a blocking stdin read at that point; it exits on the
// next read return instead of looping forever.
func proceedOnEnter(ctx context.Context, cmd *cobra.Command, exec *executor.Executor) {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
			for _, id := range exec.ActiveScenarios() {
				_ = exec.Proceed(id)
			}
		case <-ctx.Done():
			return
		}
	}
}
