package frame

import (
	"image"

	"github.com/pion/videoframe/pkg/gpu"
)

// MaxPlanes is the largest plane count of any pixel format.
const MaxPlanes = 3

// Subsample is the ratio by which a plane is smaller than the frame.
type Subsample struct {
	X, Y int
}

// Descriptor describes the layout of one pixel format.
type Descriptor struct {
	// PlaneCount is the number of planes, 0 only for Invalid.
	PlaneCount int
	// StrideFactor is the number of bytes per pixel in a plane 0 line.
	StrideFactor int
	// BitsPerPixel is the average storage cost of one visible pixel.
	BitsPerPixel int
	// ChromaStrideDivisor divides the plane 0 stride to get the stride of
	// the chroma planes of a contiguous buffer.
	ChromaStrideDivisor int
	TextureFormats      [MaxPlanes]gpu.TextureFormat
	Subsampling         [MaxPlanes]Subsample

	bytesRequired func(stride, height int) int
}

// Lookup returns the descriptor of f. Unknown values yield the zero
// descriptor of Invalid.
func Lookup(f PixelFormat) Descriptor {
	if f < 0 || f >= pixelFormatCount {
		return Descriptor{}
	}
	return catalog[f]
}

// HasPlane reports whether plane is a plane of the format.
func (d Descriptor) HasPlane(plane int) bool {
	return plane >= 0 && plane < d.PlaneCount
}

// StrideForWidth returns the plane 0 line size for width pixels, aligned to
// 16 bytes.
func (d Descriptor) StrideForWidth(width int) int {
	return (width*d.StrideFactor + 15) &^ 15
}

// BytesRequired returns the size of a contiguous frame with the given plane 0
// stride and height.
func (d Descriptor) BytesRequired(stride, height int) int {
	if d.bytesRequired == nil || stride <= 0 || height <= 0 {
		return 0
	}
	return d.bytesRequired(stride, height)
}

// BytesForSize returns the size of a contiguous frame of size using the
// default stride.
func (d Descriptor) BytesForSize(size image.Point) int {
	return d.BytesRequired(d.StrideForWidth(size.X), size.Y)
}

// WidthForPlane returns the width of plane in texels for a frame width.
func (d Descriptor) WidthForPlane(width, plane int) int {
	if !d.HasPlane(plane) {
		return 0
	}
	s := d.Subsampling[plane].X
	return (width + s - 1) / s
}

// HeightForPlane returns the height of plane in lines for a frame height.
func (d Descriptor) HeightForPlane(height, plane int) int {
	if !d.HasPlane(plane) {
		return 0
	}
	s := d.Subsampling[plane].Y
	return (height + s - 1) / s
}

// IsOpaque reports whether frames of the format have no addressable pixels
// and can only be consumed as textures or handed to a codec.
func (d Descriptor) IsOpaque() bool {
	return d.PlaneCount > 0 && d.StrideFactor == 0
}

func packedBytes(stride, height int) int {
	return stride * height
}

// Chroma planes of 4:2:0 formats need an even number of lines.
func yuv420Bytes(stride, height int) int {
	return stride * ((height*3/2 + 1) &^ 1)
}

func yuv422Bytes(stride, height int) int {
	return stride * height * 2
}

func imcInterleavedBytes(stride, height int) int {
	return stride * height * 3 / 2
}

func noBytes(_, _ int) int {
	return 0
}

var (
	full  = Subsample{1, 1}
	half  = Subsample{2, 2}
	halfX = Subsample{2, 1}
	halfY = Subsample{1, 2}
)

func packedRGB() Descriptor {
	return Descriptor{
		PlaneCount:          1,
		StrideFactor:        4,
		BitsPerPixel:        32,
		ChromaStrideDivisor: 1,
		TextureFormats:      [MaxPlanes]gpu.TextureFormat{gpu.TextureFormatRGBA8},
		Subsampling:         [MaxPlanes]Subsample{full},
		bytesRequired:       packedBytes,
	}
}

func triPlanar(factor, bits, divisor int, tex gpu.TextureFormat, chroma Subsample, bytes func(int, int) int) Descriptor {
	return Descriptor{
		PlaneCount:          3,
		StrideFactor:        factor,
		BitsPerPixel:        bits,
		ChromaStrideDivisor: divisor,
		TextureFormats:      [MaxPlanes]gpu.TextureFormat{tex, tex, tex},
		Subsampling:         [MaxPlanes]Subsample{full, chroma, chroma},
		bytesRequired:       bytes,
	}
}

func biPlanar(factor, bits int, luma, chroma gpu.TextureFormat, chromaSub Subsample, bytes func(int, int) int) Descriptor {
	return Descriptor{
		PlaneCount:          2,
		StrideFactor:        factor,
		BitsPerPixel:        bits,
		ChromaStrideDivisor: 1,
		TextureFormats:      [MaxPlanes]gpu.TextureFormat{luma, chroma},
		Subsampling:         [MaxPlanes]Subsample{full, chromaSub},
		bytesRequired:       bytes,
	}
}

func singlePlane(factor, bits int, tex gpu.TextureFormat, sub Subsample, bytes func(int, int) int) Descriptor {
	return Descriptor{
		PlaneCount:          1,
		StrideFactor:        factor,
		BitsPerPixel:        bits,
		ChromaStrideDivisor: 1,
		TextureFormats:      [MaxPlanes]gpu.TextureFormat{tex},
		Subsampling:         [MaxPlanes]Subsample{sub},
		bytesRequired:       bytes,
	}
}

var catalog = [pixelFormatCount]Descriptor{
	Invalid: {},

	ARGB8888:              packedRGB(),
	ARGB8888Premultiplied: packedRGB(),
	XRGB8888:              packedRGB(),
	BGRA8888:              packedRGB(),
	BGRA8888Premultiplied: packedRGB(),
	BGRX8888:              packedRGB(),
	ABGR8888:              packedRGB(),
	XBGR8888:              packedRGB(),
	RGBA8888:              packedRGB(),
	RGBA8888Premultiplied: packedRGB(),
	RGBX8888:              packedRGB(),
	AYUV:                  packedRGB(),
	AYUVPremultiplied:     packedRGB(),

	YUV420P:   triPlanar(1, 12, 2, gpu.TextureFormatR8, half, yuv420Bytes),
	YV12:      triPlanar(1, 12, 2, gpu.TextureFormatR8, half, yuv420Bytes),
	YUV422P:   triPlanar(1, 16, 2, gpu.TextureFormatR8, halfX, yuv422Bytes),
	IMC1:      triPlanar(1, 12, 1, gpu.TextureFormatR8, half, yuv422Bytes),
	IMC3:      triPlanar(1, 12, 1, gpu.TextureFormatR8, half, yuv422Bytes),
	YUV420P10: triPlanar(2, 24, 2, gpu.TextureFormatR16, half, yuv420Bytes),

	NV12: biPlanar(1, 12, gpu.TextureFormatR8, gpu.TextureFormatRG8, half, yuv420Bytes),
	NV21: biPlanar(1, 12, gpu.TextureFormatR8, gpu.TextureFormatRG8, half, yuv420Bytes),
	P010: biPlanar(2, 24, gpu.TextureFormatR16, gpu.TextureFormatRG16, half, yuv420Bytes),
	P016: biPlanar(2, 24, gpu.TextureFormatR16, gpu.TextureFormatRG16, half, yuv420Bytes),
	// The chroma plane holds full stride lines: one component in the left
	// half, the other starting at stride/2.
	IMC2: biPlanar(1, 12, gpu.TextureFormatR8, gpu.TextureFormatR8, halfY, imcInterleavedBytes),
	IMC4: biPlanar(1, 12, gpu.TextureFormatR8, gpu.TextureFormatR8, halfY, imcInterleavedBytes),

	UYVY: singlePlane(2, 16, gpu.TextureFormatRGBA8, halfX, packedBytes),
	YUYV: singlePlane(2, 16, gpu.TextureFormatRGBA8, halfX, packedBytes),
	Y8:   singlePlane(1, 8, gpu.TextureFormatR8, full, packedBytes),
	Y16:  singlePlane(2, 16, gpu.TextureFormatR16, full, packedBytes),

	SamplerExternalOES: singlePlane(0, 0, gpu.TextureFormatRGBA8, full, noBytes),
	Jpeg:               singlePlane(0, 0, gpu.TextureFormatRGBA8, full, noBytes),
	SamplerRect:        singlePlane(0, 0, gpu.TextureFormatRGBA8, full, noBytes),
}
