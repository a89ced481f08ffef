package cli

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type encoder func(f *os.File, img image.Image) error

var encoders = map[string]encoder{
	".png": func(f *os.File, img image.Image) error { return png.Encode(f, img) },
	".jpg": func(f *os.File, img image.Image) error {
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	},
	".bmp":  func(f *os.File, img image.Image) error { return bmp.Encode(f, img) },
	".tiff": func(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) },
}

func encoderFor(path string) (encoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpeg":
		ext = ".jpg"
	case ".tif":
		ext = ".tiff"
	}
	enc, ok := encoders[ext]
	if !ok {
		return nil, errors.Errorf("unsupported output format %q, use .png, .jpg, .bmp or .tiff", ext)
	}
	return enc, nil
}

// writeImage encodes img to path, choosing the format by extension.
func writeImage(path string, img image.Image) error {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create output")
	}
	if err := enc(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return errors.Wrap(f.Close(), "failed to close output")
}
