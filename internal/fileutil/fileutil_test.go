package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCopyExclusivePreservesContentModeAndTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o640); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := CopyExclusive(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("expected mode 0640, got %o", info.Mode().Perm())
	}
	if !info.ModTime().Equal(mtime) {
		t.Fatalf("expected mtime %v, got %v", mtime, info.ModTime())
	}
}

func TestCopyExclusiveRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := CopyExclusive(src, dst)
	if !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "original" {
		t.Fatalf("existing destination was modified: %q", got)
	}
}

func TestCopyExclusiveMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.jpg")
	if err := CopyExclusive(filepath.Join(dir, "missing.jpg"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("expected no destination, got %v", err)
	}
}

func TestSameContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	d := filepath.Join(dir, "d")
	for path, body := range map[string]string{a: "same", b: "same", c: "diff", d: "longer body"} {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		x, y string
		want bool
	}{
		{"identical", a, b, true},
		{"same size different bytes", a, c, false},
		{"different size", a, d, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SameContent(tt.x, tt.y)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("SameContent = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := SameContent(a, filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestChecksumIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	sum, err := Checksum(path)
	if err != nil {
		t.Fatal(err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if sum != want {
		t.Fatalf("Checksum = %s, want %s", sum, want)
	}
}
