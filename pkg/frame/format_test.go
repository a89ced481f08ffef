package frame

import (
	"image"
	"testing"

	"github.com/pion/videoframe/pkg/colorspace"
	"github.com/pion/videoframe/pkg/transform"
	"github.com/stretchr/testify/assert"
)

func TestFormatIsValid(t *testing.T) {
	assert.True(t, NewFormat(image.Pt(2, 2), NV12).IsValid())
	assert.False(t, NewFormat(image.Pt(2, 2), Invalid).IsValid())
	assert.False(t, NewFormat(image.Pt(0, 2), NV12).IsValid())
	assert.False(t, Format{}.IsValid())
}

func TestFormatDefaults(t *testing.T) {
	f := NewFormat(image.Pt(640, 480), YUV420P)
	assert.Equal(t, image.Rect(0, 0, 640, 480), f.Viewport())
	assert.Equal(t, TopToBottom, f.ScanLineDirection())
	assert.Equal(t, 100.0, f.MaxLuminance())
	assert.Equal(t, 3, f.PlaneCount())
	assert.True(t, f.Transformation().IsIdentity())

	f.SetColorTransfer(colorspace.TransferST2084)
	assert.Equal(t, 10000.0, f.MaxLuminance())
	f.SetColorTransfer(colorspace.TransferSTDB67)
	assert.Equal(t, 1500.0, f.MaxLuminance())
	f.SetMaxLuminance(4000)
	assert.Equal(t, 4000.0, f.MaxLuminance())
}

func TestFormatCopyIsIndependent(t *testing.T) {
	a := NewFormat(image.Pt(640, 480), NV12)
	b := a
	b.SetMirrored(true)
	b.SetRotation(transform.Rotation90)
	b.SetColorSpace(colorspace.SpaceBT2020)

	assert.False(t, a.IsMirrored())
	assert.Equal(t, transform.RotationNone, a.Rotation())
	assert.Equal(t, colorspace.SpaceUndefined, a.ColorSpace())
	assert.False(t, a.Equal(b))

	c := a
	assert.True(t, a.Equal(c))
}

func TestFormatViewport(t *testing.T) {
	f := NewFormat(image.Pt(100, 50), ARGB8888)
	f.SetViewport(image.Rect(10, 10, 200, 40))
	assert.Equal(t, image.Rect(10, 10, 100, 40), f.Viewport())

	f.SetFrameSize(image.Pt(50, 50))
	assert.Equal(t, image.Rect(0, 0, 50, 50), f.Viewport())
}

func TestFormatTransformation(t *testing.T) {
	f := NewFormat(image.Pt(4, 2), RGBA8888)
	f.SetScanLineDirection(BottomToTop)
	assert.Equal(t, transform.Identity.MirrorVertically(), f.Transformation())

	f.SetScanLineDirection(TopToBottom)
	f.SetRotation(transform.Rotation270)
	f.SetMirrored(true)
	assert.Equal(t, transform.Transformation{Rotation: transform.Rotation270, MirroredHorizontallyAfterRotation: true}, f.Transformation())
}

func TestFormatColorMatrix(t *testing.T) {
	f := NewFormat(image.Pt(1280, 720), NV12)
	assert.Equal(t, colorspace.YUVToRGB(colorspace.SpaceBT709, colorspace.RangeUnknown, 0), f.ColorMatrix())
	f.SetFrameSize(image.Pt(640, 480))
	assert.Equal(t, colorspace.YUVToRGB(colorspace.SpaceBT601, colorspace.RangeUnknown, 0), f.ColorMatrix())
}
