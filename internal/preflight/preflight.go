package preflight

import (
	"context"
	"fmt"
	"strings"

	"mediasort/internal/config"
	"mediasort/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Scope selects which directories a stage needs.
type Scope int

const (
	// ScopeOrganize reads the source root and writes the target tree.
	ScopeOrganize Scope = iota
	// ScopeTarget only works on an existing target tree.
	ScopeTarget
)

// RunAll executes the directory checks a stage needs.
func RunAll(_ context.Context, cfg *config.Config, scope Scope) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if scope == ScopeOrganize {
		results = append(results, CheckDirectoryAccess("Source root", cfg.Paths.SourceRoot, ReadOnly))
	}
	results = append(results, CheckDirectoryAccess("Target root", cfg.Paths.TargetRoot, ReadWrite))
	if dir := cfg.ReportDir(); dir != cfg.Paths.TargetRoot {
		results = append(results, CheckDirectoryAccess("Report directory", dir, ReadWrite))
	}
	return results
}

// Err converts failed results into a configuration error, or nil when every
// check passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(
		services.ErrConfiguration,
		"preflight",
		"check directories",
		strings.Join(failed, "; "),
		nil,
	)
}
