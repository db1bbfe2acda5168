package main

import (
	"encoding/json"
	"testing"
)

func TestClassifyCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "classify", "--json", "Shimano-Di2-detail.jpg", "hero.jpg")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var results []classifyResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode classify output %q: %v", out, err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %+v", results)
	}
	if results[0].Category != "components" || results[0].Rule != "component-brands" {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if results[1].Category != "clean" || results[1].Rule != "default" || results[1].Subdir != "images/clean" {
		t.Fatalf("unexpected second result %+v", results[1])
	}
}

func TestClassifyCommandRequiresArgs(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env.configPath, "classify"); err == nil {
		t.Fatal("expected error without filenames")
	}
}

func TestRulesCommandListsTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "rules")
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	for _, want := range []string{"specs", "component-brands", "extension: .mp4", "default"} {
		requireContains(t, out, want)
	}
}
