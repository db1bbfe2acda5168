// Package probe reads image dimensions without decoding pixel data.
//
// Probing is best effort. Header decoding covers JPEG, PNG, GIF, and WebP;
// when the header cannot be parsed the EXIF pixel dimensions are tried. EXIF
// orientations 5 through 8 swap width and height so dimensions match the
// image as displayed. Failures are tagged services.ErrProbe and callers treat
// the dimensions as unknown.
package probe

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"

	"mediasort/internal/services"
)

// Dimensions is an image's displayed size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Image returns the dimensions of the image at path.
func Image(path string) (Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, services.Wrap(services.ErrProbe, "probe", "open image", "", err)
	}
	defer f.Close()

	cfg, format, decodeErr := image.DecodeConfig(f)
	if decodeErr == nil && cfg.Width > 0 && cfg.Height > 0 {
		dims := Dimensions{Width: cfg.Width, Height: cfg.Height}
		if format == "jpeg" {
			if orientation, ok := exifOrientation(f); ok && orientation >= 5 && orientation <= 8 {
				dims.Width, dims.Height = dims.Height, dims.Width
			}
		}
		return dims, nil
	}

	dims, exifErr := exifDimensions(f)
	if exifErr == nil {
		return dims, nil
	}
	if decodeErr == nil {
		decodeErr = errors.New("image header reports zero dimensions")
	}
	return Dimensions{}, services.Wrap(services.ErrProbe, "probe", "decode image header", "unsupported or corrupt image", decodeErr)
}

func exifOrientation(f *os.File) (int, bool) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, false
	}
	x, err := exif.Decode(f)
	if err != nil {
		return 0, false
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0, false
	}
	value, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return value, true
}

func exifDimensions(f *os.File) (Dimensions, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Dimensions{}, err
	}
	x, err := exif.Decode(f)
	if err != nil {
		return Dimensions{}, err
	}
	width, err := exifInt(x, exif.PixelXDimension)
	if err != nil {
		return Dimensions{}, err
	}
	height, err := exifInt(x, exif.PixelYDimension)
	if err != nil {
		return Dimensions{}, err
	}
	if width <= 0 || height <= 0 {
		return Dimensions{}, errors.New("exif reports zero dimensions")
	}
	return Dimensions{Width: width, Height: height}, nil
}

func exifInt(x *exif.Exif, field exif.FieldName) (int, error) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, err
	}
	return tag.Int(0)
}
