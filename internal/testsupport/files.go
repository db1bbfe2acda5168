package testsupport

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes size bytes of a repeating pattern to path, creating parent
// directories. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	WriteContent(t, path, string(bytes.Repeat([]byte{0x42}, int(size))))
}

// WriteContent writes content to path, creating parent directories.
func WriteContent(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePNG writes a blank PNG of the given dimensions to path.
func WritePNG(t testing.TB, path string, width, height int) {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	WriteContent(t, path, buf.String())
}
