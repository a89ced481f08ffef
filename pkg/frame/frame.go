// Package frame describes pixel layouts: the per-format catalog, the Format
// value carried by every frame and CPU decoders that turn mapped planes into
// RGBA images.
package frame

import (
	"fmt"
	"image"
)

// Planes are the mapped bytes of a frame, one entry per plane.
type Planes struct {
	Count  int
	Data   [MaxPlanes][]byte
	Stride [MaxPlanes]int
}

// Decoder converts mapped planes described by f into a premultiplied RGBA
// image of f's frame size.
type Decoder interface {
	Decode(src Planes, f Format) (*image.RGBA, error)
}

// decoderFunc is a proxy type for Decoder
type decoderFunc func(src Planes, f Format) (*image.RGBA, error)

func (fn decoderFunc) Decode(src Planes, f Format) (*image.RGBA, error) {
	return fn(src, f)
}

// InsufficientDataError is returned when a plane is shorter than the frame
// size requires.
type InsufficientDataError struct {
	Plane    int
	Actual   int
	Expected int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("plane %d length (%d) less than expected (%d)", e.Plane, e.Actual, e.Expected)
}

// require checks that plane holds at least n bytes.
func (p *Planes) require(plane, n int) error {
	if plane >= p.Count || len(p.Data[plane]) < n {
		actual := 0
		if plane < MaxPlanes {
			actual = len(p.Data[plane])
		}
		return &InsufficientDataError{Plane: plane, Actual: actual, Expected: n}
	}
	return nil
}

// span is the number of bytes covered by rows lines of rowBytes each.
func span(rows, stride, rowBytes int) int {
	if rows <= 0 {
		return 0
	}
	return (rows-1)*stride + rowBytes
}
