// Package report aggregates a pipeline run and renders its documents.
//
// A RunReport is built incrementally while the pipeline runs: one
// EntityReport per entity (resolved or not), every materialization outcome,
// every review flag, and the dedupe summary when that pass ran. The
// aggregation has no business logic of its own; documents are rendered from
// it as markdown with go-pretty tables.
package report

import (
	"cmp"
	"slices"
	"time"

	"mediasort/internal/classify"
	"mediasort/internal/dedupe"
	"mediasort/internal/organizer"
	"mediasort/internal/review"
	"mediasort/internal/services"
)

// Failure is a recoverable problem surfaced to the operator.
type Failure struct {
	Entity  string
	Path    string
	Code    string
	Message string
}

// EntityReport holds per-entity counts. Organized includes files whose
// destination already held identical content; Unchanged counts only those.
// ByCategory counts organized files; failures and flags have their own maps.
type EntityReport struct {
	Alias             string
	Name              string
	SourceRoot        string
	Resolved          bool
	Note              string
	Processed         int
	Organized         int
	Unchanged         int
	Failed            int
	Skipped           int
	Flagged           int
	ByCategory        map[classify.Category]int
	FailedByCategory  map[classify.Category]int
	FlaggedByCategory map[classify.Category]int
}

func newEntityReport(alias, name string) *EntityReport {
	return &EntityReport{
		Alias:             alias,
		Name:              name,
		ByCategory:        make(map[classify.Category]int),
		FailedByCategory:  make(map[classify.Category]int),
		FlaggedByCategory: make(map[classify.Category]int),
	}
}

// RunReport is the outcome of one pipeline invocation.
type RunReport struct {
	RunID      string
	Command    string
	StartedAt  time.Time
	FinishedAt time.Time
	SourceRoot string
	TargetRoot string
	Entities   []*EntityReport
	Failures   []Failure
	Flags      []review.Flag
	Dedupe     *dedupe.Summary
}

// Totals are run-wide counts. FlaggedByCategory is taken from the flags
// themselves so a review-only run, which has no entity reports, still fills it.
type Totals struct {
	Entities          int
	Resolved          int
	Processed         int
	Organized         int
	Unchanged         int
	Failed            int
	Skipped           int
	Flagged           int
	ByCategory        map[classify.Category]int
	FailedByCategory  map[classify.Category]int
	FlaggedByCategory map[classify.Category]int
}

// New starts a report.
func New(runID, command, sourceRoot, targetRoot string, startedAt time.Time) *RunReport {
	return &RunReport{RunID: runID, Command: command, SourceRoot: sourceRoot, TargetRoot: targetRoot, StartedAt: startedAt}
}

// Entity returns the report for an entity, creating it on first use.
func (r *RunReport) Entity(alias, name string) *EntityReport {
	for _, e := range r.Entities {
		if e.Alias == alias {
			return e
		}
	}
	e := newEntityReport(alias, name)
	r.Entities = append(r.Entities, e)
	return e
}

// Unresolved records an entity whose source root could not be found.
func (r *RunReport) Unresolved(alias, name string, err error) {
	e := r.Entity(alias, name)
	e.Resolved = false
	if err != nil {
		e.Note = err.Error()
	}
	r.Failures = append(r.Failures, Failure{Entity: name, Code: services.Code(err), Message: e.Note})
}

// Resolved marks an entity as resolved to sourceRoot.
func (r *RunReport) Resolved(alias, name, sourceRoot string) *EntityReport {
	e := r.Entity(alias, name)
	e.Resolved = true
	e.SourceRoot = sourceRoot
	return e
}

// Materialized records one materialization outcome.
func (r *RunReport) Materialized(e *EntityReport, result organizer.Result) {
	e.Processed++
	switch result.Status {
	case organizer.StatusFailed:
		e.Failed++
		e.FailedByCategory[result.Category]++
		message := ""
		if result.Err != nil {
			message = result.Err.Error()
		}
		r.Failures = append(r.Failures, Failure{Entity: e.Name, Path: result.Source, Code: services.Code(result.Err), Message: message})
	default:
		e.Organized++
		if result.Status == organizer.StatusUnchanged {
			e.Unchanged++
		}
		e.ByCategory[result.Category]++
	}
}

// SkippedFile records a file that was deliberately not organized.
func (r *RunReport) SkippedFile(e *EntityReport) {
	e.Skipped++
}

// AddFlags appends review flags and updates per-entity counts.
func (r *RunReport) AddFlags(flags ...review.Flag) {
	for _, f := range flags {
		r.Flags = append(r.Flags, f)
		for _, e := range r.Entities {
			if e.Name == f.Entity {
				e.Flagged++
				e.FlaggedByCategory[f.Category]++
				break
			}
		}
	}
}

// SetFlags replaces the review flags, as after a full review pass.
func (r *RunReport) SetFlags(flags []review.Flag) {
	for _, e := range r.Entities {
		e.Flagged = 0
		clear(e.FlaggedByCategory)
	}
	r.Flags = nil
	r.AddFlags(flags...)
}

// AddFailure records an additional recoverable failure.
func (r *RunReport) AddFailure(f Failure) {
	r.Failures = append(r.Failures, f)
}

// Finish stamps the completion time.
func (r *RunReport) Finish(at time.Time) {
	r.FinishedAt = at
}

// Duration is the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Totals sums the entity reports.
func (r *RunReport) Totals() Totals {
	t := Totals{
		Entities:          len(r.Entities),
		Flagged:           len(r.Flags),
		ByCategory:        make(map[classify.Category]int),
		FailedByCategory:  make(map[classify.Category]int),
		FlaggedByCategory: make(map[classify.Category]int),
	}
	for _, f := range r.Flags {
		t.FlaggedByCategory[f.Category]++
	}
	for _, e := range r.Entities {
		if e.Resolved {
			t.Resolved++
		}
		t.Processed += e.Processed
		t.Organized += e.Organized
		t.Unchanged += e.Unchanged
		t.Failed += e.Failed
		t.Skipped += e.Skipped
		for c, n := range e.ByCategory {
			t.ByCategory[c] += n
		}
		for c, n := range e.FailedByCategory {
			t.FailedByCategory[c] += n
		}
	}
	return t
}

// SortedEntities returns entity reports ordered by name.
func (r *RunReport) SortedEntities() []*EntityReport {
	out := slices.Clone(r.Entities)
	slices.SortFunc(out, func(a, b *EntityReport) int { return cmp.Compare(a.Name, b.Name) })
	return out
}
