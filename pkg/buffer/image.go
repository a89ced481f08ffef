package buffer

import (
	"image"
	"sync"

	"github.com/pion/videoframe/pkg/colorspace"
	"github.com/pion/videoframe/pkg/frame"
)

// ImageBuffer exposes a decoded Go image as frame planes without copying.
// The caller's image is copied before the first write map, so it is never
// modified.
type ImageBuffer struct {
	mu    sync.Mutex
	img   image.Image
	owned bool
	state mapState
}

// NewImageBuffer wraps img. *image.RGBA, *image.NRGBA, *image.Gray and 4:2:0
// or 4:2:2 *image.YCbCr are used as they are; anything else is converted to
// RGBA once. A YCbCr sub-image whose origin splits a chroma sample is
// converted too, since its planes cannot start on a chroma boundary.
func NewImageBuffer(img image.Image) *ImageBuffer {
	switch src := img.(type) {
	case *image.RGBA, *image.NRGBA, *image.Gray:
		return &ImageBuffer{img: img}
	case *image.YCbCr:
		if chromaAligned(src) {
			return &ImageBuffer{img: img}
		}
	}
	return &ImageBuffer{img: frame.ToRGBA(img), owned: true}
}

func chromaAligned(img *image.YCbCr) bool {
	switch img.SubsampleRatio {
	case image.YCbCrSubsampleRatio420:
		return img.Rect.Min.X%2 == 0 && img.Rect.Min.Y%2 == 0
	case image.YCbCrSubsampleRatio422:
		return img.Rect.Min.X%2 == 0
	}
	return false
}

// Image returns the wrapped image. It must not be modified while mapped.
func (b *ImageBuffer) Image() image.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.img
}

// Format describes the wrapped image. Go's YCbCr images are full range
// BT.601.
func (b *ImageBuffer) Format() frame.Format {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := b.img.Bounds().Size()
	var pf frame.PixelFormat
	switch img := b.img.(type) {
	case *image.RGBA:
		pf = frame.RGBA8888Premultiplied
	case *image.NRGBA:
		pf = frame.RGBA8888
	case *image.Gray:
		pf = frame.Y8
	case *image.YCbCr:
		pf = frame.YUV420P
		if img.SubsampleRatio == image.YCbCrSubsampleRatio422 {
			pf = frame.YUV422P
		}
	}
	f := frame.NewFormat(size, pf)
	if _, ok := b.img.(*image.YCbCr); ok {
		f.SetColorSpace(colorspace.SpaceBT601)
		f.SetColorRange(colorspace.RangeFull)
	}
	return f
}

func (b *ImageBuffer) HandleType() HandleType { return NoHandle }

func (b *ImageBuffer) MapMode() MapMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.mode
}

func (b *ImageBuffer) Map(mode MapMode) MapData {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.state.begin("image", mode) {
		return MapData{}
	}
	if mode.CanWrite() && !b.owned {
		b.img = detach(b.img)
		b.owned = true
	}

	var m MapData
	switch img := b.img.(type) {
	case *image.RGBA:
		m = packedPlane(img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y):], img.Stride)
	case *image.NRGBA:
		m = packedPlane(img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y):], img.Stride)
	case *image.Gray:
		m = packedPlane(img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y):], img.Stride)
	case *image.YCbCr:
		origin := img.Rect.Min
		m.PlaneCount = 3
		m.Data[0] = img.Y[img.YOffset(origin.X, origin.Y):]
		m.Data[1] = img.Cb[img.COffset(origin.X, origin.Y):]
		m.Data[2] = img.Cr[img.COffset(origin.X, origin.Y):]
		m.BytesPerLine[0] = img.YStride
		m.BytesPerLine[1] = img.CStride
		m.BytesPerLine[2] = img.CStride
		for i := 0; i < 3; i++ {
			m.Size[i] = len(m.Data[i])
		}
	}
	if m.IsEmpty() || m.Size[0] == 0 {
		return MapData{}
	}
	b.state.mode = mode
	return m
}

func (b *ImageBuffer) Unmap() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.end("image")
}

func packedPlane(pix []byte, stride int) MapData {
	var m MapData
	m.PlaneCount = 1
	m.Data[0] = pix
	m.BytesPerLine[0] = stride
	m.Size[0] = len(pix)
	return m
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func detach(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.RGBA:
		copied := *src
		copied.Pix = clone(src.Pix)
		return &copied
	case *image.NRGBA:
		copied := *src
		copied.Pix = clone(src.Pix)
		return &copied
	case *image.Gray:
		copied := *src
		copied.Pix = clone(src.Pix)
		return &copied
	case *image.YCbCr:
		copied := *src
		copied.Y = clone(src.Y)
		copied.Cb = clone(src.Cb)
		copied.Cr = clone(src.Cr)
		return &copied
	}
	return img
}
