package launcher

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
)

// execRunner implements ProcessRunner using os/exec. The child inherits the
// orchestrator's stdio so the GUI framework's own output stays visible.
type execRunner struct{}

// NewProcessRunner returns a ProcessRunner that executes the real process.
func NewProcessRunner() ProcessRunner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, spec LaunchSpec, env map[string]string) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Executable, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = mergeEnviron(os.Environ(), env)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

// mergeEnviron layers overrides onto the inherited environment. Overrides
// are appended in sorted key order; later entries win for duplicate keys.
func mergeEnviron(base []string, overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, len(base), len(base)+len(keys))
	copy(env, base)
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}
	return env
}
