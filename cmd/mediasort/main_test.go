package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediasort/internal/pipeline"
	"mediasort/internal/report"
)

func TestOrganizeCommandMaterializesTree(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, "Shimano-Di2-detail.jpg", "component")
	env.seed(t, "nested/hero.jpg", "hero")

	out, _, err := runCLI(t, env.configPath, "organize")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	requireContains(t, out, "== Organize")
	requireContains(t, out, "1 of 1 resolved")
	requireContains(t, out, report.SummaryFileName)

	for _, rel := range []string{"Alpha/components/Shimano-Di2-detail.jpg", "Alpha/images/clean/hero.jpg"} {
		if _, err := os.Stat(filepath.Join(env.targetRoot, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("expected %s: %v", rel, err)
		}
	}
}

func TestOrganizeCommandFailsWhenNothingResolved(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "organize")
	if !errors.Is(err, pipeline.ErrNothingResolved) {
		t.Fatalf("expected ErrNothingResolved, got %v", err)
	}
	requireContains(t, out, "0 of 1 resolved")
}

func TestSourceOverrideFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	other := filepath.Join(env.baseDir, "elsewhere")
	path := filepath.Join(other, "Alpha (X)", "spec-sheet.png")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("spec"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, env.configPath, "--source", other, "organize"); err != nil {
		t.Fatalf("organize with --source: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.targetRoot, "Alpha", "specs", "spec-sheet.png")); err != nil {
		t.Fatalf("expected file from override source: %v", err)
	}
}

func TestRunThenHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, "promo.mp4", "video")

	out, _, err := runCLI(t, env.configPath, "run")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Dedupe:")

	out, _, err = runCLI(t, env.configPath, "history", "--json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var rows []historyRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode history output %q: %v", out, err)
	}
	if len(rows) != 1 || rows[0].Command != "run" || rows[0].Organized != 1 {
		t.Fatalf("unexpected history rows %+v", rows)
	}
}

func TestDedupeDryRunCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.targetRoot, "Alpha", "videos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"promo.mp4", "promo_1.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("video"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, _, err := runCLI(t, env.configPath, "dedupe", "--dry-run")
	if err != nil {
		t.Fatalf("dedupe --dry-run: %v", err)
	}
	requireContains(t, out, "would remove 1")
	if _, err := os.Stat(filepath.Join(dir, "promo_1.mp4")); err != nil {
		t.Fatalf("dry run must keep the copy: %v", err)
	}
}
