package camera

import (
	"image"
	"testing"

	"github.com/pion/videoframe/pkg/buffer"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFourCC(t *testing.T) {
	// V4L2_PIX_FMT_YUYV
	assert.Equal(t, FourCC(0x56595559), NewFourCC('Y', 'U', 'Y', 'V'))
	assert.Equal(t, "MJPG", NewFourCC('M', 'J', 'P', 'G').String())

	cases := map[string]frame.PixelFormat{
		"YUYV": frame.YUYV,
		"NV12": frame.NV12,
		"YU12": frame.YUV420P,
		"MJPG": frame.Jpeg,
		"AR24": frame.BGRA8888,
		"H264": frame.Invalid,
	}
	for name, expected := range cases {
		code := NewFourCC(name[0], name[1], name[2], name[3])
		assert.Equal(t, expected, PixelFormatOf(code), name)
	}
}

func TestNewFrame(t *testing.T) {
	// A 4x2 NV12 capture: 8 bytes of luma, 4 of interleaved chroma.
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	f := newFrame(data, frame.NewFormat(image.Pt(4, 2), frame.NV12))
	data[0] = 0xFF

	require.True(t, f.Map(buffer.ReadOnly))
	defer f.Unmap()
	require.Equal(t, 2, f.PlaneCount())
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, f.Bits(0))
	assert.Equal(t, []byte{9, 10, 11, 12}, f.Bits(1))
	assert.Equal(t, 4, f.BytesPerLine(1))
}

func TestNewFrameJPEG(t *testing.T) {
	f := newFrame([]byte{0xFF, 0xD8}, frame.NewFormat(image.Pt(4, 2), frame.Jpeg))
	require.True(t, f.Map(buffer.ReadOnly))
	defer f.Unmap()
	assert.Equal(t, []byte{0xFF, 0xD8}, f.Bits(0))
}
