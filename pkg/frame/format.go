package frame

import (
	"fmt"
	"image"

	"github.com/pion/videoframe/pkg/colorspace"
	"github.com/pion/videoframe/pkg/transform"
)

// ScanLineDirection is the order in which lines are stored.
type ScanLineDirection int

const (
	TopToBottom ScanLineDirection = iota
	BottomToTop
)

// Format describes the pixels of a frame. It is a plain value: copies are
// independent and setters only change the receiver.
type Format struct {
	pixelFormat  PixelFormat
	size         image.Point
	viewport     image.Rectangle
	scanLine     ScanLineDirection
	colorSpace   colorspace.ColorSpace
	transfer     colorspace.Transfer
	colorRange   colorspace.Range
	maxLuminance float64
	mirrored     bool
	rotation     transform.Rotation
	frameRate    float64
}

// NewFormat returns a format of the given size and layout with a full frame
// viewport and undefined color properties.
func NewFormat(size image.Point, pf PixelFormat) Format {
	return Format{pixelFormat: pf, size: size}
}

// IsValid reports whether the format has a pixel format and a non-empty size.
func (f Format) IsValid() bool {
	return f.pixelFormat != Invalid && f.size.X > 0 && f.size.Y > 0
}

func (f Format) PixelFormat() PixelFormat { return f.pixelFormat }

func (f *Format) SetPixelFormat(pf PixelFormat) { f.pixelFormat = pf }

// Descriptor returns the catalog entry of the pixel format.
func (f Format) Descriptor() Descriptor { return Lookup(f.pixelFormat) }

// PlaneCount returns the number of planes of the pixel format.
func (f Format) PlaneCount() int { return Lookup(f.pixelFormat).PlaneCount }

func (f Format) FrameSize() image.Point { return f.size }
func (f Format) FrameWidth() int        { return f.size.X }
func (f Format) FrameHeight() int       { return f.size.Y }

// SetFrameSize changes the size. A viewport that no longer fits is reset to
// the full frame.
func (f *Format) SetFrameSize(size image.Point) {
	f.size = size
	if !f.viewport.In(image.Rectangle{Max: size}) {
		f.viewport = image.Rectangle{}
	}
}

// Viewport returns the displayed part of the frame, the whole frame unless
// set otherwise.
func (f Format) Viewport() image.Rectangle {
	if f.viewport.Empty() {
		return image.Rectangle{Max: f.size}
	}
	return f.viewport
}

// SetViewport restricts the displayed part of the frame. The rectangle is
// clipped to the frame; an empty result restores the full frame.
func (f *Format) SetViewport(r image.Rectangle) {
	f.viewport = r.Intersect(image.Rectangle{Max: f.size})
}

func (f Format) ScanLineDirection() ScanLineDirection { return f.scanLine }

func (f *Format) SetScanLineDirection(d ScanLineDirection) { f.scanLine = d }

func (f Format) ColorSpace() colorspace.ColorSpace { return f.colorSpace }

func (f *Format) SetColorSpace(s colorspace.ColorSpace) { f.colorSpace = s }

func (f Format) ColorTransfer() colorspace.Transfer { return f.transfer }

func (f *Format) SetColorTransfer(t colorspace.Transfer) { f.transfer = t }

func (f Format) ColorRange() colorspace.Range { return f.colorRange }

func (f *Format) SetColorRange(r colorspace.Range) { f.colorRange = r }

// MaxLuminance returns the mastering peak in nits. Unless set, it is derived
// from the transfer function.
func (f Format) MaxLuminance() float64 {
	if f.maxLuminance <= 0 {
		return colorspace.DefaultMaxLuminance(f.transfer)
	}
	return f.maxLuminance
}

// SetMaxLuminance sets the mastering peak. Zero restores the default.
func (f *Format) SetMaxLuminance(nits float64) { f.maxLuminance = nits }

func (f Format) IsMirrored() bool { return f.mirrored }

func (f *Format) SetMirrored(mirrored bool) { f.mirrored = mirrored }

func (f Format) Rotation() transform.Rotation { return f.rotation }

func (f *Format) SetRotation(r transform.Rotation) { f.rotation = r }

func (f Format) FrameRate() float64 { return f.frameRate }

func (f *Format) SetFrameRate(fps float64) { f.frameRate = fps }

// Transformation folds the scan line direction, rotation and mirroring of
// the surface into one orientation.
func (f Format) Transformation() transform.Transformation {
	return transform.Surface(f.rotation, f.mirrored, f.scanLine == BottomToTop)
}

// ColorMatrix returns the YUV to RGB matrix for the format's color space and
// range, resolving an undefined space from the frame height.
func (f Format) ColorMatrix() colorspace.Matrix {
	return colorspace.YUVToRGB(f.colorSpace, f.colorRange, f.size.Y)
}

// Equal reports whether both formats describe the same frames.
func (f Format) Equal(other Format) bool {
	return f.pixelFormat == other.pixelFormat &&
		f.size == other.size &&
		f.Viewport() == other.Viewport() &&
		f.scanLine == other.scanLine &&
		f.colorSpace == other.colorSpace &&
		f.transfer == other.transfer &&
		f.colorRange == other.colorRange &&
		f.MaxLuminance() == other.MaxLuminance() &&
		f.mirrored == other.mirrored &&
		f.rotation == other.rotation &&
		f.frameRate == other.frameRate
}

func (f Format) String() string {
	return fmt.Sprintf("%s %dx%d %s/%s/%s", f.pixelFormat, f.size.X, f.size.Y, f.colorSpace, f.transfer, f.colorRange)
}
