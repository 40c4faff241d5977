package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{})

	_ = rootCmd.Execute()

	output := buf.String()
	if !strings.Contains(output, "fridgectl") {
		t.Errorf("help output should contain 'fridgectl', got: %s", output)
	}
	if !strings.Contains(output, "service") {
		t.Errorf("help output should list the service command, got: %s", output)
	}
	if !strings.Contains(output, "run") {
		t.Errorf("help output should list the run command, got: %s", output)
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--version"})

	_ = rootCmd.Execute()

	output := buf.String()
	if !strings.Contains(output, "1.2.3") {
		t.Errorf("version output should contain '1.2.3', got: %s", output)
	}
	if !strings.Contains(output, "abc123") {
		t.Errorf("version output should contain 'abc123', got: %s", output)
	}
}

func TestServiceCommand_NoSubcommandPrintsUsage(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"service"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v, want usage output without error", err)
	}

	output := buf.String()
	for _, op := range []string{"install", "uninstall", "start", "stop", "restart", "status", "enable", "disable", "logs"} {
		if !strings.Contains(output, op) {
			t.Errorf("service usage should list %q, got: %s", op, output)
		}
	}
}

func TestExitCodeError(t *testing.T) {
	var err error = &ExitCodeError{Code: 7}

	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatal("errors.As failed for *ExitCodeError")
	}
	if exitErr.Code != 7 {
		t.Errorf("Code = %d, want 7", exitErr.Code)
	}
	if !strings.Contains(err.Error(), "7") {
		t.Errorf("Error() = %q, want the code in the message", err.Error())
	}
}
