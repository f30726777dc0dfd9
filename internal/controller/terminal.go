package controller

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/orionvision/orion/internal/constants"
)

// CommandRunner defines the interface for executing shell commands.
// This allows for testing by injecting mock implementations.
type CommandRunner interface {
	// Run executes a shell command and returns its output.
	Run(ctx context.Context, workDir, command string) (stdout, stderr string, exitCode int, err error)
}

// DefaultCommandRunner implements CommandRunner using os/exec.
//
// Commands run through "sh -c" so that pipes and redirects work the way
// scenario authors expect. Commands come from scenario definitions the user
// supplies, the same trust model as Makefiles or CI configuration.
type DefaultCommandRunner struct{}

// Run executes a shell command using sh -c. The context deadline is
// enforced by exec.CommandContext, which kills the process on expiry.
func (r *DefaultCommandRunner) Run(ctx context.Context, workDir, command string) (stdout, stderr string, exitCode int, err error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workDir

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err = cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = 1
		}
	}

	return stdout, stderr, exitCode, err
}

// Ensure DefaultCommandRunner implements CommandRunner.
var _ CommandRunner = (*DefaultCommandRunner)(nil)

// Terminal executes shell-level actions: running commands and basic file
// operations. The subprocess timeout is the only hard enforcement here; the
// executor layers its own step deadline on top.
type Terminal struct {
	runner  CommandRunner
	workDir string
	logger  zerolog.Logger
}

// NewTerminal creates a terminal controller. A nil runner selects the
// default os/exec implementation. workDir is the working directory for
// commands and relative file paths; empty means the process working
// directory.
func NewTerminal(runner CommandRunner, workDir string, logger zerolog.Logger) *Terminal {
	if runner == nil {
		runner = &DefaultCommandRunner{}
	}
	return &Terminal{
		runner:  runner,
		workDir: workDir,
		logger:  logger,
	}
}

// ExecuteCommand runs the "command" parameter under sh -c with a timeout.
// Parameters: command (required), timeout (optional duration).
func (t *Terminal) ExecuteCommand(ctx context.Context, params map[string]any) *Result {
	command := stringParam(params, "command", "")
	if command == "" {
		return fail("terminal execute_command requires a command parameter")
	}

	timeout := durationParam(params, "timeout", constants.DefaultCommandTimeout)
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, exitCode, err := t.runner.Run(cmdCtx, t.workDir, command)
	duration := time.Since(start)

	t.logger.Debug().
		Str("command", command).
		Int("return_code", exitCode).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("terminal command finished")

	result := &Result{
		Success:    err == nil,
		Output:     stdout,
		ReturnCode: exitCode,
		Duration:   duration,
		Details: map[string]any{
			"stderr": stderr,
		},
	}
	if err != nil {
		result.Error = err.Error()
		if cmdCtx.Err() != nil {
			result.Error = "command timed out after " + timeout.String()
		}
	}
	return result
}

// CreateFile creates (or truncates) the file named by the "filename"
// parameter, writing the optional "content" parameter.
func (t *Terminal) CreateFile(ctx context.Context, params map[string]any) *Result {
	if err := ctx.Err(); err != nil {
		return failErr(err)
	}

	filename := stringParam(params, "filename", "")
	if filename == "" {
		return fail("terminal create_file requires a filename parameter")
	}
	content := stringParam(params, "content", "")

	path := t.resolvePath(filename)
	if err := os.WriteFile(path, []byte(content), constants.DefaultFileMode); err != nil {
		return failErr(err)
	}

	t.logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("file created")
	return ok("", map[string]any{"path": path, "bytes_written": len(content)})
}

// WriteContent appends the "content" parameter to the file named by
// "filename", creating it if needed.
func (t *Terminal) WriteContent(ctx context.Context, params map[string]any) *Result {
	if err := ctx.Err(); err != nil {
		return failErr(err)
	}

	filename := stringParam(params, "filename", "")
	if filename == "" {
		return fail("terminal write_content requires a filename parameter")
	}
	content := stringParam(params, "content", "")

	path := t.resolvePath(filename)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.DefaultFileMode)
	if err != nil {
		return failErr(err)
	}
	defer func() { _ = f.Close() }()

	n, err := f.WriteString(content)
	if err != nil {
		return failErr(err)
	}
	return ok("", map[string]any{"path": path, "bytes_written": n})
}

// ReadFile reads the file named by the "filename" parameter and returns its
// content as the result output.
func (t *Terminal) ReadFile(ctx context.Context, params map[string]any) *Result {
	if err := ctx.Err(); err != nil {
		return failErr(err)
	}

	filename := stringParam(params, "filename", "")
	if filename == "" {
		return fail("terminal read_file requires a filename parameter")
	}

	path := t.resolvePath(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return failErr(err)
	}
	return ok(string(data), map[string]any{"path": path, "bytes_read": len(data)})
}

// resolvePath joins relative filenames with the controller working directory.
func (t *Terminal) resolvePath(filename string) string {
	if filepath.IsAbs(filename) || t.workDir == "" {
		return filename
	}
	return filepath.Join(t.workDir, filename)
}
