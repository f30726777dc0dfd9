package cli

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orionvision/orion/internal/errors"
	"github.com/orionvision/orion/internal/logging"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// It is set during PersistentPreRunE and accessed via GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands. It must
// only be called after the root command's PersistentPreRunE has executed.
// Safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates and returns the root command for the orion CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "orion",
		Short: "Orion - scenario automation pipeline",
		Long: `Orion plans, executes, and validates desktop automation scenarios.

A scenario is an ordered list of steps routed to terminal, mouse, keyboard,
and screen controllers, with per-step error strategies and post-run
validation criteria. Scenarios come from built-in templates, YAML template
files under ~/.orion/templates, or goal-driven task planning.`,
		Version: formatVersion(info),
		// Run displays help when the root command is invoked without
		// subcommands so PersistentPreRunE still validates the flags.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalLogger = logging.InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()

			return nil
		},
		// SilenceUsage prevents printing usage on error.
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, flags)

	AddRunCommand(cmd, flags)
	AddPlanCommand(cmd, flags)
	AddTemplatesCommand(cmd, flags)
	AddRunsCommand(cmd, flags)
	AddValidateCommand(cmd, flags)

	return cmd
}

// Execute runs the CLI and returns a process exit code.
func Execute(info BuildInfo) int {
	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, info)
	defer logging.CloseLogFile()

	if err := cmd.Execute(); err != nil {
		if stderrors.Is(err, errors.ErrInvalidOutputFormat) || stderrors.Is(err, errors.ErrInvalidParameter) {
			return ExitInvalidInput
		}
		return ExitError
	}
	return ExitSuccess
}

// formatVersion renders the --version output.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		return "dev"
	}
	if info.Commit == "" {
		return info.Version
	}
	return fmt.Sprintf("%s (commit %s, built %s)", info.Version, info.Commit, info.Date)
}
