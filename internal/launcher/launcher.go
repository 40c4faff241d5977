// Package launcher runs the GUI process with the negotiated environment,
// escalating to more conservative rendering settings on failure.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// MaxAttempts is the length of the escalation chain.
const MaxAttempts = 3

// ErrMissingExecutable indicates the GUI entry point is absent or not
// executable. It is checked before any launch attempt.
var ErrMissingExecutable = errors.New("launcher: executable missing or not executable")

// LaunchSpec describes what to run and with which base environment. BaseEnv
// holds the negotiated overrides; the runner layers them over the inherited
// process environment.
type LaunchSpec struct {
	Executable string
	Args       []string
	Dir        string
	BaseEnv    map[string]string
}

// Escalation overrides, cumulative across attempts. Attempt 1 runs the base
// environment unchanged; attempt 2 forces software Quick rendering and
// software GL; attempt 3 additionally disables the XCB GL integration.
var escalations = []map[string]string{
	{},
	{"QT_QUICK_BACKEND": "software", "LIBGL_ALWAYS_SOFTWARE": "1"},
	{"QT_XCB_GL_INTEGRATION": "none"},
}

// ProcessRunner executes a single blocking launch attempt and returns the
// child's exit code. Abstracted for testability.
type ProcessRunner interface {
	Run(ctx context.Context, spec LaunchSpec, env map[string]string) (int, error)
}

// Launcher retries the GUI process with monotonically more conservative
// rendering settings. Escalation never reverts; success halts the chain.
type Launcher struct {
	runner ProcessRunner
	out    io.Writer
	logger *slog.Logger
}

// NewLauncher creates a Launcher. out receives human-readable progress
// narration (advisory only); pass os.Stdout for interactive use.
func NewLauncher(runner ProcessRunner, out io.Writer, logger *slog.Logger) *Launcher {
	return &Launcher{
		runner: runner,
		out:    out,
		logger: logger.With("component", "launcher"),
	}
}

// Launch runs the escalation chain and returns the final attempt's exit
// code verbatim. A non-zero exit code is not an error here: infrastructure
// failures (missing executable, unstartable process) are errors, the
// child's own failure is reported through the code.
func (l *Launcher) Launch(ctx context.Context, spec LaunchSpec) (int, error) {
	if err := checkExecutable(spec.Executable); err != nil {
		return 0, err
	}

	env := make(map[string]string, len(spec.BaseEnv))
	for k, v := range spec.BaseEnv {
		env[k] = v
	}

	exitCode := 0
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		for k, v := range escalations[attempt-1] {
			env[k] = v
		}

		fmt.Fprintf(l.out, "Starting application (attempt %d/%d)...\n", attempt, MaxAttempts)
		l.logger.Info("launch attempt", "attempt", attempt, "executable", spec.Executable)

		code, err := l.runner.Run(ctx, spec, env)
		if err != nil {
			return 0, fmt.Errorf("launcher: attempt %d: %w", attempt, err)
		}
		exitCode = code
		if code == 0 {
			fmt.Fprintln(l.out, "Application exited cleanly.")
			return 0, nil
		}

		l.logger.Warn("launch attempt failed", "attempt", attempt, "exit_code", code)
		if attempt < MaxAttempts {
			fmt.Fprintf(l.out, "Application exited with code %d, retrying with software rendering...\n", code)
		}
	}

	fmt.Fprintf(l.out, "Application failed after %d attempts (last exit code %d).\n", MaxAttempts, exitCode)
	return exitCode, nil
}

// checkExecutable verifies the entry point exists and is executable.
func checkExecutable(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingExecutable, path, err)
	}
	if err := unix.Access(path, unix.X_OK); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingExecutable, path, err)
	}
	return nil
}
