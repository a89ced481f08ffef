package video

import (
	"image"

	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/transform"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// affineFor maps source coordinates of a w×h image to destination
// coordinates after t.
func affineFor(t transform.Transformation, w, h float64) f64.Aff3 {
	var m f64.Aff3
	switch t.Rotation {
	case transform.Rotation90:
		m = f64.Aff3{0, -1, h, 1, 0, 0}
	case transform.Rotation180:
		m = f64.Aff3{-1, 0, w, 0, -1, h}
	case transform.Rotation270:
		m = f64.Aff3{0, 1, 0, -1, 0, w}
	default:
		m = f64.Aff3{1, 0, 0, 0, 1, 0}
	}
	if t.MirroredHorizontallyAfterRotation {
		outW := w
		if t.Rotation.SwapsDimensions() {
			outW = h
		}
		m[0], m[1], m[2] = -m[0], -m[1], outW-m[2]
	}
	return m
}

// applyTransformation returns src rotated and mirrored by t in a new image
// anchored at the origin. src is returned as is when nothing needs to change.
func applyTransformation(src *image.RGBA, t transform.Transformation) *image.RGBA {
	b := src.Bounds()
	if t.IsIdentity() {
		return frame.ToRGBA(src)
	}

	size := t.Size(b.Size())
	dst := image.NewRGBA(image.Rectangle{Max: size})
	m := affineFor(t, float64(b.Dx()), float64(b.Dy()))
	// Shift the source origin to (0, 0) first.
	mx, my := float64(b.Min.X), float64(b.Min.Y)
	m[2] -= m[0]*mx + m[1]*my
	m[5] -= m[3]*mx + m[4]*my

	draw.NearestNeighbor.Transform(dst, m, src, b, draw.Src, nil)
	return dst
}
