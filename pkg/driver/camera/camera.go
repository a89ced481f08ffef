/*
Package camera provides a video camera driver.

Device Label Generation Rules

On Linux, the device label will be in the format of:
	pci-0000:00:00.0-usb-0:0:0.0-video-index0;video0
If /dev/v4l/by-path/* is not available (for example in a docker container without
bindings in /dev/v4l/by-path/), it will be:
	video0;video0
*/
package camera

import (
	"github.com/pion/videoframe/pkg/buffer"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/video"
)

// LabelSeparator is used to separate labels for a driver that
// is found from multiple locations on a host.
const LabelSeparator = ";"

// FourCC is a V4L2 pixel format code.
type FourCC uint32

// NewFourCC packs four characters in little endian order, like the
// v4l2_fourcc macro.
func NewFourCC(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

func (f FourCC) String() string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

// Reference: https://www.kernel.org/doc/html/latest/userspace-api/media/v4l/pixfmt.html
var fourCCFormats = map[FourCC]frame.PixelFormat{
	NewFourCC('Y', 'U', 'Y', 'V'): frame.YUYV,
	NewFourCC('U', 'Y', 'V', 'Y'): frame.UYVY,
	NewFourCC('N', 'V', '1', '2'): frame.NV12,
	NewFourCC('N', 'V', '2', '1'): frame.NV21,
	NewFourCC('Y', 'U', '1', '2'): frame.YUV420P,
	NewFourCC('Y', 'V', '1', '2'): frame.YV12,
	NewFourCC('4', '2', '2', 'P'): frame.YUV422P,
	NewFourCC('G', 'R', 'E', 'Y'): frame.Y8,
	NewFourCC('Y', '1', '6', ' '): frame.Y16,
	NewFourCC('P', '0', '1', '0'): frame.P010,
	NewFourCC('M', 'J', 'P', 'G'): frame.Jpeg,
	NewFourCC('J', 'P', 'E', 'G'): frame.Jpeg,
	// V4L2 names packed RGB by component order in a little endian word.
	NewFourCC('A', 'B', '2', '4'): frame.RGBA8888,
	NewFourCC('X', 'B', '2', '4'): frame.RGBX8888,
	NewFourCC('A', 'R', '2', '4'): frame.BGRA8888,
	NewFourCC('X', 'R', '2', '4'): frame.BGRX8888,
	NewFourCC('B', 'A', '2', '4'): frame.ARGB8888,
	NewFourCC('B', 'X', '2', '4'): frame.XRGB8888,
}

// PixelFormatOf returns the pixel format of a V4L2 code, Invalid if frames
// cannot describe it.
func PixelFormatOf(code FourCC) frame.PixelFormat {
	return fourCCFormats[code]
}

// newFrame copies a captured buffer into a frame. Planes after the first are
// located by the frame from the buffer size.
func newFrame(data []byte, format frame.Format) video.Frame {
	stride := format.FrameWidth() * frame.Lookup(format.PixelFormat()).StrideFactor
	return video.NewFrame(buffer.NewMemoryBuffer(append([]byte(nil), data...), stride), format)
}
