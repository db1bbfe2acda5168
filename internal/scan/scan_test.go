package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediasort/internal/probe"
	"mediasort/internal/services"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkFiltersJunkAndSortsRecords(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "photo.JPG"), "jpg")
	writeFile(t, filepath.Join(root, "a.mp4"), "video")
	writeFile(t, filepath.Join(root, ".DS_Store"), "junk")
	writeFile(t, filepath.Join(root, "__MACOSX", "._photo.jpg"), "junk")
	writeFile(t, filepath.Join(root, ".hidden", "x.jpg"), "junk")

	opts := Options{
		IgnoreHidden:    true,
		IgnoreNames:     []string{".DS_Store", "__MACOSX"},
		ProbeExtensions: []string{".jpg"},
		Prober: func(string) (probe.Dimensions, error) {
			return probe.Dimensions{Width: 1200, Height: 800}, nil
		},
	}
	records, skipped, err := Walk(context.Background(), root, opts)
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Rel != "a.mp4" || records[1].Rel != "b/photo.JPG" {
		t.Fatalf("unexpected order: %q, %q", records[0].Rel, records[1].Rel)
	}
	if records[1].Ext != ".jpg" {
		t.Fatalf("expected lowercased extension, got %q", records[1].Ext)
	}
	if records[1].Dims == nil || records[1].Dims.Width != 1200 {
		t.Fatalf("expected probed dimensions, got %+v", records[1].Dims)
	}
	if records[0].Dims != nil {
		t.Fatal("video must not be probed")
	}
	if len(skipped) != 3 {
		t.Fatalf("expected 3 skipped entries, got %+v", skipped)
	}
}

func TestWalkKeepsProbeErrorsOnRecord(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "broken.png"), "nope")

	probeErr := services.Wrap(services.ErrProbe, "probe", "decode image header", "", errors.New("bad header"))
	records, _, err := Walk(context.Background(), root, Options{
		ProbeExtensions: []string{".png"},
		Prober:          func(string) (probe.Dimensions, error) { return probe.Dimensions{}, probeErr },
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(records) != 1 || records[0].Dims != nil || !errors.Is(records[0].ProbeErr, services.ErrProbe) {
		t.Fatalf("expected record with probe error, got %+v", records)
	}
}

func TestWalkMissingRootFails(t *testing.T) {
	if _, _, err := Walk(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestWalkHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Walk(ctx, root, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHasFiles(t *testing.T) {
	root := t.TempDir()
	if HasFiles(root, Options{}) {
		t.Fatal("empty directory must not count")
	}
	if err := os.MkdirAll(filepath.Join(root, "nested", "deeper"), 0o755); err != nil {
		t.Fatal(err)
	}
	if HasFiles(root, Options{}) {
		t.Fatal("directories alone must not count")
	}
	writeFile(t, filepath.Join(root, "nested", "deeper", "file.jpg"), "x")
	if !HasFiles(root, Options{}) {
		t.Fatal("expected nested file to be found")
	}
	if HasFiles(filepath.Join(root, "nested", "deeper", "file.jpg"), Options{}) {
		t.Fatal("a file is not a content root")
	}
}

func TestHasFilesIgnoresJunk(t *testing.T) {
	root := t.TempDir()
	opts := Options{IgnoreHidden: true, IgnoreNames: []string{"Thumbs.db", "__MACOSX"}}
	writeFile(t, filepath.Join(root, ".DS_Store"), "x")
	writeFile(t, filepath.Join(root, "Thumbs.db"), "x")
	writeFile(t, filepath.Join(root, "__MACOSX", "photo.jpg"), "x")
	if HasFiles(root, opts) {
		t.Fatal("a directory holding only ignored entries must not count")
	}
	if !HasFiles(root, Options{}) {
		t.Fatal("without ignore rules the junk files are real files")
	}
	writeFile(t, filepath.Join(root, "photo.jpg"), "x")
	if !HasFiles(root, opts) {
		t.Fatal("expected the real file to be found")
	}
}
