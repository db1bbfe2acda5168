package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir     string
	sourceRoot  string
	targetRoot  string
	historyPath string
	configPath  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{
		"MEDIASORT_SOURCE_ROOT",
		"MEDIASORT_TARGET_ROOT",
		"MEDIASORT_REPORT_DIR",
		"MEDIASORT_LOG_LEVEL",
		"MEDIASORT_HISTORY_PATH",
	} {
		t.Setenv(key, "")
	}

	env := &cliTestEnv{
		baseDir:     base,
		sourceRoot:  filepath.Join(base, "source"),
		targetRoot:  filepath.Join(base, "target"),
		historyPath: filepath.Join(base, "state", "history.db"),
		configPath:  filepath.Join(base, "config.toml"),
	}
	if err := os.MkdirAll(env.sourceRoot, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	writeTestConfig(t, env)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
source_root = %q
target_root = %q
log_dir = %q

[[entities]]
alias = "Alpha (X)"
name = "Alpha"

[review]
min_width = 0
min_height = 0
min_file_bytes = 0
max_file_bytes = 0

[history]
enabled = true
path = %q

[logging]
level = "error"
`, env.sourceRoot, env.targetRoot, filepath.Join(env.baseDir, "logs"), env.historyPath)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) seed(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(env.sourceRoot, "Alpha (X)", filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
