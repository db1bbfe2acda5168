package probe

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mediasort/internal/services"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestImageReadsHeaderDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	writePNG(t, path, 150, 120)

	dims, err := Image(path)
	if err != nil {
		t.Fatalf("Image returned error: %v", err)
	}
	if dims.Width != 150 || dims.Height != 120 {
		t.Fatalf("unexpected dimensions %s", dims)
	}
	if dims.String() != "150x120" {
		t.Fatalf("unexpected String(): %q", dims.String())
	}
}

func TestImageCorruptFileIsProbeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Image(path)
	if err == nil {
		t.Fatal("expected probe error")
	}
	if !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected ErrProbe marker, got %v", err)
	}
}

func TestImageMissingFileIsProbeError(t *testing.T) {
	_, err := Image(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected ErrProbe marker, got %v", err)
	}
}
