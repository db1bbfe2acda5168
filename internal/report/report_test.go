package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mediasort/internal/classify"
	"mediasort/internal/dedupe"
	"mediasort/internal/organizer"
	"mediasort/internal/review"
	"mediasort/internal/services"
)

func sampleReport() *RunReport {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := New("run-1", "organize", "/src", "/out", start)

	e := r.Resolved("CYCLONE-3rd (105 big)", "CYCLONE-3rd", "/src/CYCLONE-3rd (105 big)")
	r.Materialized(e, organizer.Result{Source: "/src/a.jpg", Category: classify.Clean, Status: organizer.StatusCopied})
	r.Materialized(e, organizer.Result{Source: "/src/b.jpg", Category: classify.Clean, Status: organizer.StatusUnchanged})
	r.Materialized(e, organizer.Result{Source: "/src/c.jpg", Category: classify.Components, Status: organizer.StatusCopied})
	r.Materialized(e, organizer.Result{
		Source:   "/src/d.jpg",
		Category: classify.Details,
		Status:   organizer.StatusFailed,
		Err:      services.Wrap(services.ErrCopy, "materialize", "copy file", "", errors.New("disk full")),
	})
	r.SkippedFile(e)

	r.Unresolved("ghost (2)", "ghost", services.Wrap(services.ErrResolution, "resolve", "locate source root", "no candidates", nil))

	r.AddFlags(review.Flag{Entity: "CYCLONE-3rd", Rel: "CYCLONE-3rd/images/clean/a.jpg", Category: classify.Clean, Code: review.CodeSmallImage, Reason: "Very small (150x150) - might be component/logo"})
	r.Finish(start.Add(2 * time.Second))
	return r
}

func TestTotalsAggregateEntities(t *testing.T) {
	totals := sampleReport().Totals()
	if totals.Processed != 4 || totals.Organized != 3 || totals.Unchanged != 1 || totals.Failed != 1 || totals.Skipped != 1 {
		t.Fatalf("unexpected totals %+v", totals)
	}
	if totals.Entities != 2 || totals.Resolved != 1 || totals.Flagged != 1 {
		t.Fatalf("unexpected entity totals %+v", totals)
	}
	if totals.ByCategory[classify.Clean] != 2 || totals.ByCategory[classify.Details] != 0 {
		t.Fatalf("failed files must not count toward categories: %+v", totals.ByCategory)
	}
	if totals.FailedByCategory[classify.Details] != 1 || totals.FailedByCategory[classify.Clean] != 0 {
		t.Fatalf("unexpected failed-by-category counts: %+v", totals.FailedByCategory)
	}
	if totals.FlaggedByCategory[classify.Clean] != 1 || totals.FlaggedByCategory[classify.Details] != 0 {
		t.Fatalf("unexpected flagged-by-category counts: %+v", totals.FlaggedByCategory)
	}
}

func TestCategoryRowsCarryFailedAndFlagged(t *testing.T) {
	rows := CategoryRows(sampleReport().Totals())
	want := map[classify.Category][]string{
		classify.Clean:   {"2", "0", "1"},
		classify.Details: {"0", "1", "0"},
	}
	if len(CategoryHeaders()) != 5 {
		t.Fatalf("unexpected headers %v", CategoryHeaders())
	}
	for _, row := range rows {
		counts, ok := want[classify.Category(row[0])]
		if !ok {
			continue
		}
		if got := row[2:]; strings.Join(got, ",") != strings.Join(counts, ",") {
			t.Errorf("%s row = %v, want counts %v", row[0], row, counts)
		}
	}
}

func TestSetFlagsResetsCategoryCounts(t *testing.T) {
	r := sampleReport()
	r.SetFlags([]review.Flag{{Entity: "CYCLONE-3rd", Category: classify.Components, Code: review.CodeSmallFile}})
	e := r.Entity("CYCLONE-3rd (105 big)", "CYCLONE-3rd")
	if e.FlaggedByCategory[classify.Clean] != 0 || e.FlaggedByCategory[classify.Components] != 1 {
		t.Fatalf("unexpected entity flag counts: %+v", e.FlaggedByCategory)
	}
}

func TestUnresolvedEntityReportsZeroOrganized(t *testing.T) {
	r := sampleReport()
	var ghost *EntityReport
	for _, e := range r.Entities {
		if e.Alias == "ghost (2)" {
			ghost = e
		}
	}
	if ghost == nil || ghost.Resolved || ghost.Organized != 0 {
		t.Fatalf("expected unresolved ghost with zero files, got %+v", ghost)
	}
	if r.Failures[len(r.Failures)-1].Code != "resolution" {
		t.Fatalf("expected resolution failure, got %+v", r.Failures)
	}
}

func TestSummaryDocument(t *testing.T) {
	doc := Summary(sampleReport())
	for _, want := range []string{
		"# Organization Summary",
		"- Total files processed: 4",
		"- Successfully organized: 3 (1 already present)",
		"- Failed: 1",
		"## Files by Category",
		"images/clean/",
		"## Files by Entity",
		"## Resolution Failures",
		"**ghost (2)**",
		"## File Failures",
		"disk full",
		"## Structure",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("summary missing %q\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "## Deduplication") {
		t.Error("dedupe section must only appear when dedupe ran")
	}
}

func TestSummaryIncludesDedupeWhenPresent(t *testing.T) {
	r := sampleReport()
	r.Dedupe = &dedupe.Summary{Verified: true, Removed: 2, FreedBytes: 2048, KeptDistinct: 1}
	doc := Summary(r)
	if !strings.Contains(doc, "- Removed: 2 (2.0 KiB freed)") || !strings.Contains(doc, "- Kept (content differs): 1") {
		t.Fatalf("unexpected dedupe section:\n%s", doc)
	}
}

func TestChecklistDocument(t *testing.T) {
	doc := Checklist(sampleReport())
	for _, want := range []string{
		"# Manual Review Checklist",
		"- [ ] **CYCLONE-3rd**: `CYCLONE-3rd/images/clean/a.jpg`",
		"  - Issue: small_image",
		"## Next Steps",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("checklist missing %q\n%s", want, doc)
		}
	}

	empty := Checklist(New("run-2", "review", "", "/out", time.Time{}))
	if !strings.Contains(empty, "No files were flagged for review.") || !strings.Contains(empty, "## Next Steps") {
		t.Fatalf("unexpected empty checklist:\n%s", empty)
	}
}

func TestSetFlagsReplacesCounts(t *testing.T) {
	r := sampleReport()
	r.SetFlags(nil)
	if len(r.Flags) != 0 || r.Entities[0].Flagged != 0 {
		t.Fatalf("expected flags cleared, got %d / %d", len(r.Flags), r.Entities[0].Flagged)
	}
}

func TestWriteDocuments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := sampleReport()

	summaryPath, err := WriteSummary(dir, r)
	if err != nil {
		t.Fatalf("WriteSummary returned error: %v", err)
	}
	checklistPath, err := WriteChecklist(dir, r)
	if err != nil {
		t.Fatalf("WriteChecklist returned error: %v", err)
	}
	for _, path := range []string{summaryPath, checklistPath} {
		data, err := os.ReadFile(path)
		if err != nil || len(data) == 0 {
			t.Fatalf("expected document at %s: %v", path, err)
		}
	}
	if filepath.Base(summaryPath) != SummaryFileName || filepath.Base(checklistPath) != ChecklistFileName {
		t.Fatalf("unexpected document names %q, %q", summaryPath, checklistPath)
	}
	if _, err := os.Stat(summaryPath + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temporary file left behind")
	}
}
