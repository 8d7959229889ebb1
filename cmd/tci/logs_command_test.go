package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogsPrintsTrailingMatchingLines(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	content := "level=INFO msg=loaded\nlevel=WARN msg=ambiguous\nlevel=INFO msg=bound\nlevel=INFO msg=exported\n"
	if err := os.WriteFile(filepath.Join(env.cfg.Paths.LogDir, "tci.log"), []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out := mustRunCLI(t, env, "logs", "-n", "2")
	if strings.Contains(out, "ambiguous") {
		t.Fatalf("expected only the last two lines, got %q", out)
	}
	requireContains(t, out, "msg=bound")
	requireContains(t, out, "msg=exported")

	out = mustRunCLI(t, env, "logs", "-n", "10", "--grep", "WARN")
	if strings.TrimSpace(out) != "level=WARN msg=ambiguous" {
		t.Fatalf("unexpected filtered output %q", out)
	}
}

func TestLogsWithoutFileIsEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out := mustRunCLI(t, env, "logs")
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected no output, got %q", out)
	}
}
