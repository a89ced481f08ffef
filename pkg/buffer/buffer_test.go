package buffer

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/pion/logging"
	internallogging "github.com/pion/videoframe/internal/logging"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/gpu"
	"github.com/pion/videoframe/pkg/gpu/soft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	internallogging.SetLoggerFactory(&logging.DefaultLoggerFactory{
		Writer:          &buf,
		DefaultLogLevel: logging.LogLevelWarn,
	})
	saved := logger
	logger = internallogging.NewLogger("buffer")
	t.Cleanup(func() {
		logger = saved
		internallogging.SetLoggerFactory(nil)
	})
	return &buf
}

func TestMapMode(t *testing.T) {
	assert.True(t, ReadWrite.CanRead())
	assert.True(t, ReadWrite.CanWrite())
	assert.False(t, ReadOnly.CanWrite())
	assert.False(t, WriteOnly.CanRead())
	assert.Equal(t, "ReadWrite", ReadWrite.String())
}

func TestMemoryBufferMap(t *testing.T) {
	b := NewMemoryBuffer([]byte{1, 2, 3, 4, 5, 6}, 3)
	assert.Equal(t, NoHandle, b.HandleType())

	m := b.Map(ReadOnly)
	require.Equal(t, 1, m.PlaneCount)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, m.Data[0])
	assert.Equal(t, 3, m.BytesPerLine[0])
	assert.Equal(t, 6, m.Size[0])
	assert.Equal(t, ReadOnly, b.MapMode())

	// A second map while mapped fails.
	assert.True(t, func() bool { m := b.Map(ReadOnly); return m.IsEmpty() }())

	b.Unmap()
	assert.Equal(t, NotMapped, b.MapMode())

	m = b.Map(NotMapped)
	assert.True(t, m.IsEmpty())
	assert.Equal(t, NotMapped, b.MapMode())
}

func TestMemoryBufferCopyOnWrite(t *testing.T) {
	original := NewMemoryBuffer([]byte{1, 2, 3, 4}, 4)
	clone := original.Clone()
	assert.True(t, original.Shared())

	m := clone.Map(ReadWrite)
	require.Equal(t, 1, m.PlaneCount)
	m.Data[0][0] = 0xFF
	clone.Unmap()

	assert.False(t, original.Shared())
	assert.False(t, clone.Shared())

	m = original.Map(ReadOnly)
	assert.Equal(t, byte(1), m.Data[0][0])
	original.Unmap()

	m = clone.Map(ReadOnly)
	assert.Equal(t, byte(0xFF), m.Data[0][0])
	clone.Unmap()
}

func TestMemoryBufferReadMapKeepsSharing(t *testing.T) {
	original := NewMemoryBuffer([]byte{1, 2, 3, 4}, 4)
	clone := original.Clone()
	a := original.Map(ReadOnly)
	b := clone.Map(ReadOnly)
	assert.Equal(t, &a.Data[0][0], &b.Data[0][0])
	original.Unmap()
	clone.Unmap()

	clone.Release()
	assert.False(t, original.Shared())
}

func TestUnbalancedUnmapWarns(t *testing.T) {
	buf := captureWarnings(t)

	NewMemoryBuffer([]byte{1}, 1).Unmap()
	assert.Contains(t, buf.String(), "unmap called on an unmapped memory buffer")
}

func TestImageBufferRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Pix[0] = 7
	b := NewImageBuffer(img)
	assert.Equal(t, frame.RGBA8888Premultiplied, b.Format().PixelFormat())
	assert.Equal(t, image.Pt(2, 2), b.Format().FrameSize())

	m := b.Map(ReadOnly)
	require.Equal(t, 1, m.PlaneCount)
	assert.Equal(t, 8, m.BytesPerLine[0])
	assert.Equal(t, byte(7), m.Data[0][0])
	b.Unmap()

	// Writing never touches the caller's image.
	m = b.Map(ReadWrite)
	m.Data[0][0] = 9
	b.Unmap()
	assert.Equal(t, byte(7), img.Pix[0])
	assert.Equal(t, byte(9), b.Image().(*image.RGBA).Pix[0])
}

func TestImageBufferSubImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	sub := img.SubImage(image.Rect(1, 2, 3, 4)).(*image.Gray)
	b := NewImageBuffer(sub)
	assert.Equal(t, frame.Y8, b.Format().PixelFormat())

	m := b.Map(ReadOnly)
	require.Equal(t, 1, m.PlaneCount)
	assert.Equal(t, byte(9), m.Data[0][0])
	assert.Equal(t, 4, m.BytesPerLine[0])
	b.Unmap()
}

func TestImageBufferYCbCrSubImage(t *testing.T) {
	src := image.NewYCbCr(image.Rect(0, 0, 6, 4), image.YCbCrSubsampleRatio420)
	for i := range src.Y {
		src.Y[i] = 128
	}
	for i := range src.Cb {
		src.Cb[i] = byte(40 + i*30)
		src.Cr[i] = byte(220 - i*25)
	}

	cases := map[string]struct {
		rect     image.Rectangle
		expected frame.PixelFormat
	}{
		"Aligned": {image.Rect(2, 2, 6, 4), frame.YUV420P},
		"OddX":    {image.Rect(1, 0, 5, 2), frame.RGBA8888Premultiplied},
		"OddY":    {image.Rect(0, 1, 4, 3), frame.RGBA8888Premultiplied},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			sub := src.SubImage(c.rect).(*image.YCbCr)
			b := NewImageBuffer(sub)
			assert.Equal(t, c.expected, b.Format().PixelFormat())

			got := b.Image()
			for y := 0; y < c.rect.Dy(); y++ {
				for x := 0; x < c.rect.Dx(); x++ {
					want := color.RGBAModel.Convert(sub.At(c.rect.Min.X+x, c.rect.Min.Y+y))
					origin := got.Bounds().Min
					assert.Equal(t, want, color.RGBAModel.Convert(got.At(origin.X+x, origin.Y+y)), "(%d, %d)", x, y)
				}
			}
		})
	}
}

func TestImageBufferYCbCr(t *testing.T) {
	img := image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio420)
	b := NewImageBuffer(img)
	f := b.Format()
	assert.Equal(t, frame.YUV420P, f.PixelFormat())

	m := b.Map(ReadOnly)
	require.Equal(t, 3, m.PlaneCount)
	assert.Equal(t, 4, m.BytesPerLine[0])
	assert.Equal(t, 2, m.BytesPerLine[1])
	assert.Equal(t, 16, m.Size[0])
	assert.Equal(t, 4, m.Size[2])
	b.Unmap()

	b = NewImageBuffer(image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio444))
	assert.Equal(t, frame.RGBA8888Premultiplied, b.Format().PixelFormat())
}

func TestImageBufferEmpty(t *testing.T) {
	b := NewImageBuffer(image.NewRGBA(image.Rectangle{}))
	m := b.Map(ReadOnly)
	assert.True(t, m.IsEmpty())
	assert.Equal(t, NotMapped, b.MapMode())
}

func TestHardwareBufferMap(t *testing.T) {
	d := soft.New()
	tex, err := d.CreateTexture(gpu.TextureFormatR8, image.Pt(2, 2))
	require.NoError(t, err)
	var batch gpu.UpdateBatch
	batch.UploadTexture(tex, []byte{1, 2, 3, 4}, 2)
	require.NoError(t, d.Submit(&batch))

	b := NewHardwareBuffer(d, tex)
	assert.Equal(t, TextureHandle, b.HandleType())

	m := b.Map(ReadOnly)
	require.Equal(t, 1, m.PlaneCount)
	assert.Equal(t, []byte{1, 2, 3, 4}, m.Data[0])
	assert.Equal(t, 2, m.BytesPerLine[0])

	// The mapped bytes outlive the source texture.
	d.ReleaseTexture(tex)
	assert.Equal(t, []byte{1, 2, 3, 4}, m.Data[0])
	b.Unmap()

	m = b.Map(ReadOnly)
	assert.True(t, m.IsEmpty())
	assert.Equal(t, NotMapped, b.MapMode())
}

func TestHardwareBufferWriteBack(t *testing.T) {
	d := soft.New()
	tex, err := d.CreateTexture(gpu.TextureFormatR8, image.Pt(2, 1))
	require.NoError(t, err)
	b := NewHardwareBuffer(d, tex)

	m := b.Map(ReadWrite)
	require.Equal(t, 1, m.PlaneCount)
	copy(m.Data[0], []byte{5, 6})
	b.Unmap()

	pix, _, err := d.ReadTexture(tex)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6}, pix)

	m = b.Map(WriteOnly)
	require.Equal(t, 1, m.PlaneCount)
	b.Unmap()
	b.Release()
}

func TestHardwareBufferReadbackFailure(t *testing.T) {
	d := soft.New()
	tex, err := d.CreateTexture(gpu.TextureFormatR8, image.Pt(1, 1))
	require.NoError(t, err)
	d.FailReadback(true)

	b := NewHardwareBuffer(d, tex)
	m := b.Map(ReadOnly)
	assert.True(t, m.IsEmpty())
	assert.Equal(t, NotMapped, b.MapMode())
}
