package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediasort/internal/classify"
	"mediasort/internal/logging"
	"mediasort/internal/scan"
	"mediasort/internal/services"
)

func sourceRecord(t *testing.T, dir, rel, body string) scan.FileRecord {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return scan.FileRecord{Path: path, Rel: rel, Name: filepath.Base(path), Ext: filepath.Ext(path), Size: int64(len(body))}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestTargetTreeLayout(t *testing.T) {
	tree := NewTargetTree("/out", "CYCLONE-3rd")
	if got := tree.Dir(classify.Clean); got != filepath.Join("/out", "CYCLONE-3rd", "images", "clean") {
		t.Fatalf("unexpected clean dir %q", got)
	}
	if got := tree.Dir(classify.Components); got != filepath.Join("/out", "CYCLONE-3rd", "components") {
		t.Fatalf("unexpected components dir %q", got)
	}
}

func TestMaterializeCollisionKeepsBothFiles(t *testing.T) {
	src := t.TempDir()
	tree := NewTargetTree(t.TempDir(), "bike")
	first := sourceRecord(t, src, "a/bike.jpg", "first")
	second := sourceRecord(t, src, "b/bike.jpg", "second")
	m := New(logging.NewNop())

	r1 := m.Materialize(context.Background(), tree, first, classify.Clean)
	r2 := m.Materialize(context.Background(), tree, second, classify.Clean)
	if r1.Status != StatusCopied || r2.Status != StatusCopied {
		t.Fatalf("expected both copied, got %s / %s (%v %v)", r1.Status, r2.Status, r1.Err, r2.Err)
	}
	dir := tree.Dir(classify.Clean)
	if r1.Dest != filepath.Join(dir, "bike.jpg") || r2.Dest != filepath.Join(dir, "bike_1.jpg") {
		t.Fatalf("unexpected destinations %q, %q", r1.Dest, r2.Dest)
	}
	if readFile(t, r1.Dest) != "first" || readFile(t, r2.Dest) != "second" {
		t.Fatal("destinations must be byte-identical to their sources")
	}
}

func TestMaterializeNeverOverwritesExistingTarget(t *testing.T) {
	src := t.TempDir()
	tree := NewTargetTree(t.TempDir(), "bike")
	dir, err := tree.Ensure(classify.Clean)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bike.jpg"), []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(logging.NewNop()).Materialize(context.Background(), tree, sourceRecord(t, src, "bike.jpg", "incoming"), classify.Clean)
	if r.Status != StatusCopied || filepath.Base(r.Dest) != "bike_1.jpg" {
		t.Fatalf("expected bike_1.jpg, got %+v", r)
	}
	if readFile(t, filepath.Join(dir, "bike.jpg")) != "already here" {
		t.Fatal("existing file was overwritten")
	}
}

func TestMaterializeTwiceIsIdempotent(t *testing.T) {
	src := t.TempDir()
	tree := NewTargetTree(t.TempDir(), "bike")
	records := []scan.FileRecord{
		sourceRecord(t, src, "a/bike.jpg", "first"),
		sourceRecord(t, src, "b/bike.jpg", "second"),
	}
	m := New(logging.NewNop())
	for _, rec := range records {
		m.Materialize(context.Background(), tree, rec, classify.Clean)
	}
	for _, rec := range records {
		r := m.Materialize(context.Background(), tree, rec, classify.Clean)
		if r.Status != StatusUnchanged {
			t.Fatalf("second run for %s: expected unchanged, got %+v", rec.Rel, r)
		}
	}
	entries, err := os.ReadDir(tree.Dir(classify.Clean))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 files after rerun, got %d", len(entries))
	}
}

func TestMaterializeCopyFailureIsReported(t *testing.T) {
	src := t.TempDir()
	tree := NewTargetTree(t.TempDir(), "bike")
	boom := errors.New("disk full")
	m := NewWithCopier(logging.NewNop(), func(string, string) error { return boom })

	r := m.Materialize(context.Background(), tree, sourceRecord(t, src, "bike.jpg", "x"), classify.Details)
	if r.Status != StatusFailed {
		t.Fatalf("expected failed status, got %s", r.Status)
	}
	if !errors.Is(r.Err, services.ErrCopy) || !errors.Is(r.Err, boom) {
		t.Fatalf("expected ErrCopy wrapping cause, got %v", r.Err)
	}
	if r.Dest != "" {
		t.Fatalf("failed result must not report a destination, got %q", r.Dest)
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct{ in, stem, ext string }{
		{"bike.jpg", "bike", ".jpg"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"README", "README", ""},
		{".profile", ".profile", ""},
	}
	for _, tt := range tests {
		stem, ext := splitName(tt.in)
		if stem != tt.stem || ext != tt.ext {
			t.Errorf("splitName(%q) = %q, %q; want %q, %q", tt.in, stem, ext, tt.stem, tt.ext)
		}
	}
	if got := suffixedName("bike", ".jpg", 2); got != "bike_2.jpg" {
		t.Errorf("suffixedName = %q", got)
	}
}
