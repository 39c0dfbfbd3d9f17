package execctx

import (
	"context"
	"strings"
	"testing"
)

func TestShellRunCapturesOutput(t *testing.T) {
	runner := NewShellRunner("", nil)

	result := runner.Run(context.Background(), "echo", "hello")

	if !result.Ok() {
		t.Fatalf("ExitCode = %d, stderr = %q", result.ExitCode, result.Stderr)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Errorf("Stdout = %q", result.Stdout)
	}
}

func TestShellRunNonZeroExit(t *testing.T) {
	runner := NewShellRunner("", nil)

	result := runner.Run(context.Background(), "sh", "-c", "exit 3")

	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
}

func TestShellRunSpawnFailure(t *testing.T) {
	runner := NewShellRunner("", nil)

	result := runner.Run(context.Background(), "definitely-not-a-command-xyz")

	if result.ExitCode != 127 {
		t.Errorf("ExitCode = %d, want 127", result.ExitCode)
	}
	if result.Stderr == "" {
		t.Error("Stderr should carry the spawn failure reason")
	}
}

func TestShellRunNilContext(t *testing.T) {
	runner := NewShellRunner("", nil)

	if result := runner.Run(nil, "true"); !result.Ok() {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
}
