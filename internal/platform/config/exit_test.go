package config_test

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/tickverse/internal/platform/config"
)

// os.Exit cannot be observed in-process, so the test re-runs itself.
func TestExitfWritesStderrAndExits(t *testing.T) {
	if os.Getenv("TICKVERSE_EXITF_CHILD") == "1" {
		config.Exitf("fatal: %s", "universe store unavailable")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfWritesStderrAndExits$")
	cmd.Env = append(os.Environ(), "TICKVERSE_EXITF_CHILD=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "fatal: universe store unavailable") {
		t.Fatalf("unexpected output %q", out)
	}
}
