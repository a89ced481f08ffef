package frame

import (
	"bytes"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

func decodeJPEG() decoderFunc {
	return func(src Planes, f Format) (*image.RGBA, error) {
		if err := src.require(0, 1); err != nil {
			return nil, err
		}
		img, err := jpeg.Decode(bytes.NewReader(src.Data[0]))
		if err != nil {
			return nil, err
		}
		return ToRGBA(img), nil
	}
}

// ToRGBA returns img as an *image.RGBA anchored at the origin, converting it
// when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}
