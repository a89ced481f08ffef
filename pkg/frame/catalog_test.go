package frame

import (
	"fmt"
	"image"
	"testing"

	"github.com/pion/videoframe/pkg/gpu"
	"github.com/stretchr/testify/assert"
)

func TestLookupInvalid(t *testing.T) {
	d := Lookup(Invalid)
	assert.Equal(t, 0, d.PlaneCount)
	assert.Equal(t, 0, d.BytesForSize(image.Pt(640, 480)))
	assert.Equal(t, Descriptor{}.PlaneCount, Lookup(PixelFormat(-1)).PlaneCount)
	assert.Equal(t, 0, Lookup(pixelFormatCount+3).PlaneCount)
}

func TestCatalogConsistency(t *testing.T) {
	for _, pf := range PixelFormats() {
		pf := pf
		t.Run(pf.String(), func(t *testing.T) {
			d := Lookup(pf)
			assert.GreaterOrEqual(t, d.PlaneCount, 1)
			assert.LessOrEqual(t, d.PlaneCount, MaxPlanes)
			for p := 0; p < MaxPlanes; p++ {
				if p < d.PlaneCount {
					assert.GreaterOrEqual(t, d.Subsampling[p].X, 1)
					assert.GreaterOrEqual(t, d.Subsampling[p].Y, 1)
					assert.NotEqual(t, gpu.TextureFormatUnknown, d.TextureFormats[p])
				} else {
					assert.Equal(t, Subsample{}, d.Subsampling[p])
					assert.Equal(t, gpu.TextureFormatUnknown, d.TextureFormats[p])
				}
			}
		})
	}
}

func TestBytesForSizeLowerBound(t *testing.T) {
	sizes := []image.Point{{1, 1}, {2, 2}, {3, 5}, {17, 9}, {640, 480}, {1920, 1080}, {1279, 719}}
	for _, pf := range PixelFormats() {
		d := Lookup(pf)
		for _, sz := range sizes {
			minimum := sz.X * sz.Y * d.BitsPerPixel / 8
			assert.GreaterOrEqual(t, d.BytesForSize(sz), minimum, "%s %v", pf, sz)
		}
	}
}

func TestBytesForSize(t *testing.T) {
	cases := map[string]struct {
		format   PixelFormat
		size     image.Point
		expected int
	}{
		"YUV420P": {YUV420P, image.Pt(640, 480), 460800},
		"YV12":    {YV12, image.Pt(640, 480), 460800},
		"NV12":    {NV12, image.Pt(640, 480), 460800},
		// Total line count is padded to an even number.
		"NV12Padded": {NV12, image.Pt(16, 6), 16 * 10},
		"YUV422P":  {YUV422P, image.Pt(640, 480), 640 * 480 * 2},
		"IMC1":     {IMC1, image.Pt(640, 480), 640 * 480 * 2},
		"IMC2":     {IMC2, image.Pt(640, 480), 460800},
		"UYVY":     {UYVY, image.Pt(640, 480), 640 * 480 * 2},
		"ARGB8888": {ARGB8888, image.Pt(640, 480), 640 * 480 * 4},
		"P010":     {P010, image.Pt(640, 480), 921600},
		"Y16":      {Y16, image.Pt(10, 10), 32 * 10},
		"Jpeg":     {Jpeg, image.Pt(640, 480), 0},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.expected, Lookup(c.format).BytesForSize(c.size))
		})
	}
}

func TestStrideForWidth(t *testing.T) {
	assert.Equal(t, 640, Lookup(YUV420P).StrideForWidth(640))
	assert.Equal(t, 656, Lookup(YUV420P).StrideForWidth(641))
	assert.Equal(t, 2560, Lookup(BGRA8888).StrideForWidth(640))
	assert.Equal(t, 16, Lookup(UYVY).StrideForWidth(3))
	assert.Equal(t, 0, Lookup(SamplerRect).StrideForWidth(640))
}

func TestPlaneDimensions(t *testing.T) {
	d := Lookup(YUV420P)
	assert.Equal(t, 641, d.WidthForPlane(641, 0))
	assert.Equal(t, 321, d.WidthForPlane(641, 1))
	assert.Equal(t, 241, d.HeightForPlane(481, 2))
	assert.Equal(t, 0, d.WidthForPlane(641, 3))

	d = Lookup(YUV422P)
	assert.Equal(t, 320, d.WidthForPlane(640, 1))
	assert.Equal(t, 480, d.HeightForPlane(480, 1))

	d = Lookup(IMC2)
	assert.Equal(t, 640, d.WidthForPlane(640, 1))
	assert.Equal(t, 240, d.HeightForPlane(480, 1))

	d = Lookup(UYVY)
	assert.Equal(t, 320, d.WidthForPlane(640, 0))
	assert.Equal(t, gpu.TextureFormatRGBA8, d.TextureFormats[0])

	d = Lookup(P010)
	assert.Equal(t, gpu.TextureFormatRG16, d.TextureFormats[1])
}

func TestOpaqueFormats(t *testing.T) {
	for _, pf := range []PixelFormat{SamplerExternalOES, SamplerRect, Jpeg} {
		assert.True(t, Lookup(pf).IsOpaque(), pf.String())
	}
	assert.False(t, Lookup(NV12).IsOpaque())
	assert.False(t, Lookup(Invalid).IsOpaque())
}

func TestParsePixelFormat(t *testing.T) {
	for _, pf := range PixelFormats() {
		parsed, err := ParsePixelFormat(pf.String())
		assert.NoError(t, err)
		assert.Equal(t, pf, parsed)
	}

	parsed, err := ParsePixelFormat("i420")
	assert.NoError(t, err)
	assert.Equal(t, YUV420P, parsed)

	_, err = ParsePixelFormat("RGB565")
	assert.Error(t, err)
	assert.Equal(t, "PixelFormat(99)", fmt.Sprint(PixelFormat(99)))
}
