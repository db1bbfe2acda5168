package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"mediasort/internal/dedupe"
	"mediasort/internal/report"
)

// printRunReport writes the terminal summary of a finished stage.
func printRunReport(out io.Writer, rep *report.RunReport, reportDir string) {
	if rep == nil {
		return
	}
	p := newStatusPrinter(out)
	p.header(fmt.Sprintf("%s %s", titleCase(rep.Command), rep.RunID))

	totals := rep.Totals()
	if totals.Entities > 0 {
		p.line("Entities", resolvedStatus(totals), "%d of %d resolved", totals.Resolved, totals.Entities)
		p.line("Files", statusInfo, "%d organized (%d unchanged, %d skipped)", totals.Organized, totals.Unchanged, totals.Skipped)
		p.line("Failures", countStatus(totals.Failed, statusWarn), "%d", totals.Failed)
	}
	if rep.Command != "dedupe" {
		p.line("Review flags", countStatus(totals.Flagged, statusWarn), "%d", totals.Flagged)
	}
	if rep.Dedupe != nil {
		p.line("Dedupe", countStatus(rep.Dedupe.Failed, statusWarn), "%s", dedupeLine(rep.Dedupe))
	}
	p.line("Duration", statusInfo, "%s", rep.Duration().Round(time.Millisecond))

	if totals.Entities > 0 {
		headers := report.EntityHeaders()
		p.block(renderTable(headers, report.EntityRows(rep), countAligns(2, len(headers))))
		headers = report.CategoryHeaders()
		p.block(renderTable(headers, report.CategoryRows(totals), countAligns(2, len(headers))))
	}
	if rows := report.FlagCodeRows(rep.Flags); len(rows) > 0 {
		p.block(renderTable([]string{"Flag", "Files"}, rows, countAligns(1, 2)))
	}

	if reportDir == "" || rep.Command == "dedupe" {
		return
	}
	fmt.Fprintln(out)
	if rep.Command != "review" {
		p.line("Summary", statusInfo, "%s", filepath.Join(reportDir, report.SummaryFileName))
	}
	p.line("Checklist", statusInfo, "%s", filepath.Join(reportDir, report.ChecklistFileName))
}

func resolvedStatus(t report.Totals) statusKind {
	switch {
	case t.Resolved == 0:
		return statusError
	case t.Resolved < t.Entities:
		return statusWarn
	default:
		return statusOK
	}
}

func dedupeLine(s *dedupe.Summary) string {
	if s.DryRun {
		return fmt.Sprintf("would remove %d, kept %d distinct (dry run)", s.WouldRemove, s.KeptDistinct)
	}
	return fmt.Sprintf("removed %d (%s freed), kept %d distinct, %d failed",
		s.Removed, humanize.IBytes(uint64(s.FreedBytes)), s.KeptDistinct, s.Failed)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeJSON encodes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
