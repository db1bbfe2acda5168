package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"mediasort/internal/classify"
	"mediasort/internal/dedupe"
	"mediasort/internal/review"
)

const (
	SummaryFileName   = "ORGANIZATION_SUMMARY.md"
	ChecklistFileName = "MANUAL_REVIEW_CHECKLIST.md"
)

// layout documents the per-entity target tree.
const layout = "```\n" +
	"<entity>/\n" +
	"├── images/\n" +
	"│   ├── clean/      # primary photos without overlays\n" +
	"│   ├── details/    # close-ups and finish shots\n" +
	"│   ├── colors/     # colour variations\n" +
	"│   └── geometry/   # geometry diagrams\n" +
	"├── components/     # groupsets, brakes, drivetrain parts\n" +
	"├── overlays/       # logos, watermarks, text overlays\n" +
	"├── comparisons/    # side-by-side and versus images\n" +
	"├── specs/          # specification screenshots\n" +
	"└── videos/         # video files\n" +
	"```\n"

// WriteSummary writes ORGANIZATION_SUMMARY.md into dir and returns its path.
func WriteSummary(dir string, r *RunReport) (string, error) {
	return writeDocument(filepath.Join(dir, SummaryFileName), Summary(r))
}

// WriteChecklist writes MANUAL_REVIEW_CHECKLIST.md into dir and returns its path.
func WriteChecklist(dir string, r *RunReport) (string, error) {
	return writeDocument(filepath.Join(dir, ChecklistFileName), Checklist(r))
}

func writeDocument(path, body string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

// Summary renders the organization summary document.
func Summary(r *RunReport) string {
	var b strings.Builder
	totals := r.Totals()

	b.WriteString("# Organization Summary\n\n")
	writeRunHeader(&b, r)

	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "- Total files processed: %d\n", totals.Processed)
	fmt.Fprintf(&b, "- Successfully organized: %d (%d already present)\n", totals.Organized, totals.Unchanged)
	fmt.Fprintf(&b, "- Failed: %d\n", totals.Failed)
	fmt.Fprintf(&b, "- Skipped: %d\n", totals.Skipped)
	fmt.Fprintf(&b, "- Flagged for review: %d\n", totals.Flagged)
	fmt.Fprintf(&b, "- Entities resolved: %d of %d\n\n", totals.Resolved, totals.Entities)

	b.WriteString("## Files by Category\n\n")
	b.WriteString(markdownTable(CategoryHeaders(), CategoryRows(totals)))
	b.WriteString("\n\n")

	if len(r.Entities) > 0 {
		b.WriteString("## Files by Entity\n\n")
		b.WriteString(markdownTable(EntityHeaders(), EntityRows(r)))
		b.WriteString("\n\n")
	}

	writeFailures(&b, r)

	if r.Dedupe != nil {
		writeDedupe(&b, r.Dedupe)
	}

	b.WriteString("## Structure\n\n")
	b.WriteString("Each entity has the following structure:\n\n")
	b.WriteString(layout)
	return b.String()
}

// Checklist renders the manual review checklist document.
func Checklist(r *RunReport) string {
	var b strings.Builder
	b.WriteString("# Manual Review Checklist\n\n")
	writeRunHeader(&b, r)

	b.WriteString("## Files That May Need Review\n\n")
	if len(r.Flags) == 0 {
		b.WriteString("No files were flagged for review.\n\n")
	} else {
		b.WriteString(markdownTable([]string{"Reason code", "Files"}, FlagCodeRows(r.Flags)))
		b.WriteString("\n\n")
		for _, f := range r.Flags {
			fmt.Fprintf(&b, "- [ ] **%s**: `%s`\n", f.Entity, f.Rel)
			fmt.Fprintf(&b, "  - Issue: %s\n", f.Code)
			fmt.Fprintf(&b, "  - Reason: %s\n", f.Reason)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Next Steps\n\n")
	b.WriteString("- [ ] Manually review all images in `images/clean/` folders\n")
	b.WriteString("- [ ] Move any images with logos or overlays to `overlays/`\n")
	b.WriteString("- [ ] Move any component images to `components/`\n")
	b.WriteString("- [ ] Verify all images are correctly categorized\n")
	b.WriteString("- [ ] Remove duplicate files (`mediasort dedupe --dry-run`, then `mediasort dedupe`)\n")
	return b.String()
}

func writeRunHeader(b *strings.Builder, r *RunReport) {
	if r.RunID != "" {
		fmt.Fprintf(b, "- Run: `%s` (%s)\n", r.RunID, r.Command)
	}
	if !r.StartedAt.IsZero() {
		fmt.Fprintf(b, "- Started: %s\n", r.StartedAt.Format(time.RFC3339))
	}
	if d := r.Duration(); d > 0 {
		fmt.Fprintf(b, "- Duration: %s\n", d.Round(time.Millisecond))
	}
	if r.SourceRoot != "" {
		fmt.Fprintf(b, "- Source root: `%s`\n", r.SourceRoot)
	}
	if r.TargetRoot != "" {
		fmt.Fprintf(b, "- Target root: `%s`\n", r.TargetRoot)
	}
	b.WriteString("\n")
}

func writeFailures(b *strings.Builder, r *RunReport) {
	var unresolved []*EntityReport
	for _, e := range r.SortedEntities() {
		if !e.Resolved && e.Note != "" {
			unresolved = append(unresolved, e)
		}
	}
	if len(unresolved) > 0 {
		b.WriteString("## Resolution Failures\n\n")
		for _, e := range unresolved {
			fmt.Fprintf(b, "- **%s**: %s\n", e.Alias, e.Note)
		}
		b.WriteString("\n")
	}

	var rows [][]string
	for _, f := range r.Failures {
		if f.Path == "" {
			continue
		}
		rows = append(rows, []string{f.Entity, f.Path, f.Code, f.Message})
	}
	if len(rows) > 0 {
		b.WriteString("## File Failures\n\n")
		b.WriteString(markdownTable([]string{"Entity", "File", "Code", "Error"}, rows))
		b.WriteString("\n\n")
	}
}

func writeDedupe(b *strings.Builder, s *dedupe.Summary) {
	b.WriteString("## Deduplication\n\n")
	mode := "name and content"
	if !s.Verified {
		mode = "name only"
	}
	fmt.Fprintf(b, "- Match rule: %s\n", mode)
	if s.DryRun {
		fmt.Fprintf(b, "- Would remove: %d\n", s.WouldRemove)
	} else {
		fmt.Fprintf(b, "- Removed: %d (%s freed)\n", s.Removed, humanize.IBytes(uint64(s.FreedBytes)))
	}
	fmt.Fprintf(b, "- Kept (content differs): %d\n", s.KeptDistinct)
	fmt.Fprintf(b, "- Failed: %d\n\n", s.Failed)
}

// CategoryHeaders are the columns of the per-category table.
func CategoryHeaders() []string {
	return []string{"Category", "Directory", "Files", "Failed", "Flagged"}
}

// CategoryRows lists every category in layout order, including empty ones.
func CategoryRows(t Totals) [][]string {
	rows := make([][]string, 0, len(classify.Categories()))
	for _, c := range classify.Categories() {
		rows = append(rows, []string{
			string(c),
			c.Subdir() + "/",
			strconv.Itoa(t.ByCategory[c]),
			strconv.Itoa(t.FailedByCategory[c]),
			strconv.Itoa(t.FlaggedByCategory[c]),
		})
	}
	return rows
}

// EntityHeaders are the columns of the per-entity table.
func EntityHeaders() []string {
	return []string{"Entity", "Status", "Processed", "Organized", "Unchanged", "Failed", "Skipped", "Flagged"}
}

// EntityRows lists entity counts ordered by name.
func EntityRows(r *RunReport) [][]string {
	var rows [][]string
	for _, e := range r.SortedEntities() {
		status := "resolved"
		if !e.Resolved {
			status = "not found"
		}
		rows = append(rows, []string{
			e.Name,
			status,
			strconv.Itoa(e.Processed),
			strconv.Itoa(e.Organized),
			strconv.Itoa(e.Unchanged),
			strconv.Itoa(e.Failed),
			strconv.Itoa(e.Skipped),
			strconv.Itoa(e.Flagged),
		})
	}
	return rows
}

// FlagCodeRows counts flags per reason code in a fixed order.
func FlagCodeRows(flags []review.Flag) [][]string {
	counts := make(map[review.Code]int)
	for _, f := range flags {
		counts[f.Code]++
	}
	var rows [][]string
	for _, code := range []review.Code{review.CodeSmallImage, review.CodeSmallFile, review.CodeLargeFile, review.CodeUnreadableImage} {
		if counts[code] > 0 {
			rows = append(rows, []string{string(code), strconv.Itoa(counts[code])})
		}
	}
	return rows
}

func markdownTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.RenderMarkdown()
}
