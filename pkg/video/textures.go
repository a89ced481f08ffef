package video

import (
	"fmt"
	"image"

	"github.com/pion/videoframe/pkg/buffer"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/gpu"
)

// TextureSet holds one texture per plane of a frame.
type TextureSet struct {
	device      gpu.Device
	pixelFormat frame.PixelFormat
	size        image.Point
	textures    []gpu.Texture
	// borrowed textures belong to the frame's buffer.
	borrowed bool
}

// Textures returns the textures in plane order.
func (s *TextureSet) Textures() []gpu.Texture {
	if s == nil {
		return nil
	}
	return s.textures
}

// Texture returns the texture of plane, nil if there is none.
func (s *TextureSet) Texture(plane int) gpu.Texture {
	if s == nil || plane < 0 || plane >= len(s.textures) {
		return nil
	}
	return s.textures[plane]
}

// IsBorrowed reports whether the textures are the frame's own, used without
// any copy.
func (s *TextureSet) IsBorrowed() bool { return s != nil && s.borrowed }

// Release frees textures owned by the set. Borrowed textures are left alone.
func (s *TextureSet) Release() {
	if s == nil || s.borrowed {
		return
	}
	for _, tex := range s.textures {
		s.device.ReleaseTexture(tex)
	}
	s.textures = nil
}

func (s *TextureSet) fits(d gpu.Device, pf frame.PixelFormat, size image.Point) bool {
	return s != nil && !s.borrowed && len(s.textures) > 0 &&
		s.device.ID() == d.ID() && s.pixelFormat == pf && s.size == size
}

// CreateTextures returns the planes of f as textures on the context's device.
//
// Frames whose buffer already holds textures of that device are returned as a
// borrowed set without copying. Otherwise plane uploads are queued on batch,
// into previous when it has the same device, layout and size, or into new
// textures. The caller submits batch before the frame is written to again and
// owns the returned set; previous is never released here.
func CreateTextures(f Frame, ctx *gpu.Context, batch *gpu.UpdateBatch, previous *TextureSet) (*TextureSet, error) {
	return createTextures(f, ctx, batch, previous, true)
}

func createTextures(f Frame, ctx *gpu.Context, batch *gpu.UpdateBatch, previous *TextureSet, allowNative bool) (*TextureSet, error) {
	if !f.IsValid() {
		return nil, ErrInvalidFrame
	}
	if ctx == nil || ctx.Device == nil {
		return nil, gpu.ErrUnavailable
	}
	pf := f.PixelFormat()
	if allowNative {
		if textures, ok := nativeTextures(f, ctx.Device); ok {
			return &TextureSet{device: ctx.Device, pixelFormat: pf, size: f.Size(), textures: textures, borrowed: true}, nil
		}
	}

	d := frame.Lookup(pf)
	if d.IsOpaque() {
		return nil, fmt.Errorf("%s frames can only be used as native textures", pf)
	}

	set := previous
	if !previous.fits(ctx.Device, pf, f.Size()) {
		var err error
		if set, err = allocateTextures(ctx.Device, d, pf, f.Size()); err != nil {
			return nil, err
		}
	}

	if !f.Map(buffer.ReadOnly) {
		if set != previous {
			set.Release()
		}
		return nil, errMapFailed
	}
	defer f.Unmap()

	for plane, tex := range set.textures {
		data, bpl := f.Bits(plane), f.BytesPerLine(plane)
		if (pf == frame.IMC2 || pf == frame.IMC4) && plane == 1 {
			size := tex.Size()
			data, bpl = joinHalfLines(data, bpl, size.X, size.Y), size.X
		}
		batch.UploadTexture(tex, data, bpl)
	}
	return set, nil
}

func allocateTextures(dev gpu.Device, d frame.Descriptor, pf frame.PixelFormat, size image.Point) (*TextureSet, error) {
	set := &TextureSet{device: dev, pixelFormat: pf, size: size}
	for plane := 0; plane < d.PlaneCount; plane++ {
		texSize := image.Pt(d.WidthForPlane(size.X, plane), d.HeightForPlane(size.Y, plane))
		if (pf == frame.IMC2 || pf == frame.IMC4) && plane == 1 {
			texSize.X = 2 * ((size.X + 1) / 2)
		}
		tex, err := dev.CreateTexture(d.TextureFormats[plane], texSize)
		if err != nil {
			set.Release()
			return nil, fmt.Errorf("plane %d texture: %w", plane, err)
		}
		set.textures = append(set.textures, tex)
	}
	return set, nil
}

// joinHalfLines packs the chroma plane of IMC2 and IMC4 frames, whose second
// component starts halfway through each line, into lines of width bytes with
// each component taking one half. width is even.
func joinHalfLines(data []byte, stride, width, rows int) []byte {
	half := width / 2
	out := make([]byte, width*rows)
	for y := 0; y < rows; y++ {
		start := y * stride
		if start >= len(data) {
			break
		}
		line := data[start:min(start+stride, len(data))]
		dst := out[y*width : (y+1)*width]
		copy(dst[:half], line)
		if stride/2 < len(line) {
			copy(dst[half:], line[stride/2:min(stride/2+half, len(line))])
		}
	}
	return out
}
