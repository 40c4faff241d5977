package launcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockRunner returns scripted exit codes and records the environment of
// each attempt. Env maps are copied because the launcher reuses one map
// across attempts.
type mockRunner struct {
	exitCodes []int
	runErr    error

	envs  []map[string]string
	specs []LaunchSpec
}

func (m *mockRunner) Run(_ context.Context, spec LaunchSpec, env map[string]string) (int, error) {
	if m.runErr != nil {
		return 0, m.runErr
	}
	snapshot := make(map[string]string, len(env))
	for k, v := range env {
		snapshot[k] = v
	}
	m.envs = append(m.envs, snapshot)
	m.specs = append(m.specs, spec)

	attempt := len(m.envs) - 1
	if attempt >= len(m.exitCodes) {
		attempt = len(m.exitCodes) - 1
	}
	return m.exitCodes[attempt], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExecutable creates an executable file under t.TempDir().
func fakeExecutable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("WriteFile(%q) = %v", path, err)
	}
	return path
}

func TestLaunch_SucceedsFirstAttempt(t *testing.T) {
	runner := &mockRunner{exitCodes: []int{0}}
	l := NewLauncher(runner, io.Discard, testLogger())

	code, err := l.Launch(context.Background(), LaunchSpec{
		Executable: fakeExecutable(t),
		BaseEnv:    map[string]string{"DISPLAY": ":0"},
	})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if code != 0 {
		t.Errorf("Launch() code = %d, want 0", code)
	}
	if len(runner.envs) != 1 {
		t.Fatalf("attempts = %d, want 1", len(runner.envs))
	}
	// No escalation on a clean first attempt.
	if _, ok := runner.envs[0]["QT_QUICK_BACKEND"]; ok {
		t.Error("attempt 1 env contains escalation override QT_QUICK_BACKEND")
	}
	if _, ok := runner.envs[0]["QT_XCB_GL_INTEGRATION"]; ok {
		t.Error("attempt 1 env contains escalation override QT_XCB_GL_INTEGRATION")
	}
}

func TestLaunch_EscalatesThenSucceeds(t *testing.T) {
	runner := &mockRunner{exitCodes: []int{1, 1, 0}}
	l := NewLauncher(runner, io.Discard, testLogger())

	code, err := l.Launch(context.Background(), LaunchSpec{
		Executable: fakeExecutable(t),
		BaseEnv:    map[string]string{"DISPLAY": ":0"},
	})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if code != 0 {
		t.Errorf("Launch() code = %d, want 0", code)
	}
	if len(runner.envs) != 3 {
		t.Fatalf("attempts = %d, want 3", len(runner.envs))
	}

	// Attempt 2 carries the software-rendering overrides.
	for _, key := range []string{"QT_QUICK_BACKEND", "LIBGL_ALWAYS_SOFTWARE"} {
		if _, ok := runner.envs[1][key]; !ok {
			t.Errorf("attempt 2 env missing %s", key)
		}
	}
	if _, ok := runner.envs[1]["QT_XCB_GL_INTEGRATION"]; ok {
		t.Error("attempt 2 env contains attempt-3 override QT_XCB_GL_INTEGRATION")
	}

	// Attempt 3 carries everything from attempt 2 plus the XCB override:
	// escalation is monotone and never reverts.
	for key, value := range runner.envs[1] {
		if got := runner.envs[2][key]; got != value {
			t.Errorf("attempt 3 env[%s] = %q, want %q (reverted)", key, got, value)
		}
	}
	if got := runner.envs[2]["QT_XCB_GL_INTEGRATION"]; got != "none" {
		t.Errorf("attempt 3 env[QT_XCB_GL_INTEGRATION] = %q, want none", got)
	}
}

func TestLaunch_ExhaustsAttempts(t *testing.T) {
	runner := &mockRunner{exitCodes: []int{1, 1, 7}}
	l := NewLauncher(runner, io.Discard, testLogger())

	code, err := l.Launch(context.Background(), LaunchSpec{Executable: fakeExecutable(t)})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if len(runner.envs) != 3 {
		t.Errorf("attempts = %d, want exactly 3", len(runner.envs))
	}
	if code != 7 {
		t.Errorf("Launch() code = %d, want final attempt's code 7", code)
	}
}

func TestLaunch_MissingExecutable(t *testing.T) {
	runner := &mockRunner{exitCodes: []int{0}}
	l := NewLauncher(runner, io.Discard, testLogger())

	_, err := l.Launch(context.Background(), LaunchSpec{
		Executable: filepath.Join(t.TempDir(), "nope"),
	})
	if !errors.Is(err, ErrMissingExecutable) {
		t.Fatalf("Launch() error = %v, want ErrMissingExecutable", err)
	}
	if len(runner.envs) != 0 {
		t.Errorf("attempts = %d, want 0 for missing executable", len(runner.envs))
	}
}

func TestLaunch_NotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) = %v", path, err)
	}

	l := NewLauncher(&mockRunner{exitCodes: []int{0}}, io.Discard, testLogger())
	_, err := l.Launch(context.Background(), LaunchSpec{Executable: path})
	if !errors.Is(err, ErrMissingExecutable) {
		t.Fatalf("Launch() error = %v, want ErrMissingExecutable", err)
	}
}

func TestLaunch_RunnerError(t *testing.T) {
	runner := &mockRunner{runErr: errors.New("fork failed")}
	l := NewLauncher(runner, io.Discard, testLogger())

	_, err := l.Launch(context.Background(), LaunchSpec{Executable: fakeExecutable(t)})
	if err == nil || !strings.Contains(err.Error(), "fork failed") {
		t.Fatalf("Launch() error = %v, want wrapped runner error", err)
	}
}

func TestLaunch_Narration(t *testing.T) {
	out := new(bytes.Buffer)
	runner := &mockRunner{exitCodes: []int{1, 0}}
	l := NewLauncher(runner, out, testLogger())

	if _, err := l.Launch(context.Background(), LaunchSpec{Executable: fakeExecutable(t)}); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	narration := out.String()
	if !strings.Contains(narration, "attempt 1/3") {
		t.Errorf("narration missing attempt 1/3: %q", narration)
	}
	if !strings.Contains(narration, "attempt 2/3") {
		t.Errorf("narration missing attempt 2/3: %q", narration)
	}
}

func TestMergeEnviron_OverridesSorted(t *testing.T) {
	env := mergeEnviron([]string{"HOME=/root"}, map[string]string{
		"B_KEY": "2",
		"A_KEY": "1",
	})
	want := []string{"HOME=/root", "A_KEY=1", "B_KEY=2"}
	if len(env) != len(want) {
		t.Fatalf("mergeEnviron() len = %d, want %d", len(env), len(want))
	}
	for i := range want {
		if env[i] != want[i] {
			t.Errorf("mergeEnviron()[%d] = %q, want %q", i, env[i], want[i])
		}
	}
}
