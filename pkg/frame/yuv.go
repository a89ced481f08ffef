package frame

import (
	"encoding/binary"
	"image"

	"github.com/pion/videoframe/pkg/colorspace"
)

// chromaRef locates one chroma component: its plane and whether its samples
// start halfway through each line.
type chromaRef struct {
	plane      int
	offset     int
	halfStride bool
}

type yuvLayout struct {
	cb, cr         chromaRef
	step           int
	shiftX, shiftY uint
	sampleBytes    int
	// shift8 reduces a 16 bit sample to 8 bits.
	shift8 uint
	// maxValue is the sample value of full intensity.
	maxValue float64
}

var yuvLayouts = map[PixelFormat]yuvLayout{
	YUV420P:   {cb: chromaRef{plane: 1}, cr: chromaRef{plane: 2}, step: 1, shiftX: 1, shiftY: 1, sampleBytes: 1, maxValue: 255},
	YV12:      {cb: chromaRef{plane: 2}, cr: chromaRef{plane: 1}, step: 1, shiftX: 1, shiftY: 1, sampleBytes: 1, maxValue: 255},
	YUV422P:   {cb: chromaRef{plane: 1}, cr: chromaRef{plane: 2}, step: 1, shiftX: 1, shiftY: 0, sampleBytes: 1, maxValue: 255},
	IMC1:      {cb: chromaRef{plane: 2}, cr: chromaRef{plane: 1}, step: 1, shiftX: 1, shiftY: 1, sampleBytes: 1, maxValue: 255},
	IMC3:      {cb: chromaRef{plane: 1}, cr: chromaRef{plane: 2}, step: 1, shiftX: 1, shiftY: 1, sampleBytes: 1, maxValue: 255},
	IMC2:      {cb: chromaRef{plane: 1, halfStride: true}, cr: chromaRef{plane: 1}, step: 1, shiftX: 1, shiftY: 1, sampleBytes: 1, maxValue: 255},
	IMC4:      {cb: chromaRef{plane: 1}, cr: chromaRef{plane: 1, halfStride: true}, step: 1, shiftX: 1, shiftY: 1, sampleBytes: 1, maxValue: 255},
	NV12:      {cb: chromaRef{plane: 1}, cr: chromaRef{plane: 1, offset: 1}, step: 2, shiftX: 1, shiftY: 1, sampleBytes: 1, maxValue: 255},
	NV21:      {cb: chromaRef{plane: 1, offset: 1}, cr: chromaRef{plane: 1}, step: 2, shiftX: 1, shiftY: 1, sampleBytes: 1, maxValue: 255},
	P010:      {cb: chromaRef{plane: 1}, cr: chromaRef{plane: 1, offset: 2}, step: 4, shiftX: 1, shiftY: 1, sampleBytes: 2, shift8: 8, maxValue: 65535},
	P016:      {cb: chromaRef{plane: 1}, cr: chromaRef{plane: 1, offset: 2}, step: 4, shiftX: 1, shiftY: 1, sampleBytes: 2, shift8: 8, maxValue: 65535},
	YUV420P10: {cb: chromaRef{plane: 1}, cr: chromaRef{plane: 2}, step: 2, shiftX: 1, shiftY: 1, sampleBytes: 2, shift8: 2, maxValue: 1023},
}

func (l *yuvLayout) chromaStart(c chromaRef, stride int) int {
	if c.halfStride {
		return c.offset + stride/2
	}
	return c.offset
}

func (l *yuvLayout) check(src *Planes, w, h int) error {
	if err := src.require(0, span(h, src.Stride[0], w*l.sampleBytes)); err != nil {
		return err
	}
	rows := (h + 1<<l.shiftY - 1) >> l.shiftY
	cols := (w + 1<<l.shiftX - 1) >> l.shiftX
	for _, c := range []chromaRef{l.cb, l.cr} {
		stride := 0
		if c.plane < MaxPlanes {
			stride = src.Stride[c.plane]
		}
		rowBytes := l.chromaStart(c, stride) + (cols-1)*l.step + l.sampleBytes
		if err := src.require(c.plane, span(rows, stride, rowBytes)); err != nil {
			return err
		}
	}
	return nil
}

func (l *yuvLayout) raw(b []byte, off int) uint32 {
	if l.sampleBytes == 1 {
		return uint32(b[off])
	}
	return uint32(binary.LittleEndian.Uint16(b[off:]))
}

func (l *yuvLayout) sample8(b []byte, off int) uint8 {
	v := l.raw(b, off) >> l.shift8
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}

// decodeYUV converts planar and semi-planar YUV. HDR transfer functions are
// tone mapped to SDR in floating point, everything else uses the fixed point
// matrix on 8 bit samples.
func decodeYUV(l yuvLayout) func() decoderFunc {
	return func() decoderFunc {
		return func(src Planes, f Format) (*image.RGBA, error) {
			w, h := f.FrameWidth(), f.FrameHeight()
			if err := l.check(&src, w, h); err != nil {
				return nil, err
			}

			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			if f.ColorTransfer().IsHDR() {
				l.decodeHDR(&src, f, dst)
				return dst, nil
			}

			m := f.ColorMatrix().Fixed()
			yPlane, cbPlane, crPlane := src.Data[0], src.Data[l.cb.plane], src.Data[l.cr.plane]
			cbStride, crStride := src.Stride[l.cb.plane], src.Stride[l.cr.plane]
			cbStart, crStart := l.chromaStart(l.cb, cbStride), l.chromaStart(l.cr, crStride)

			for y := 0; y < h; y++ {
				yRow := y * src.Stride[0]
				cy := y >> l.shiftY
				cbRow := cy*cbStride + cbStart
				crRow := cy*crStride + crStart
				out := dst.Pix[y*dst.Stride:]
				for x := 0; x < w; x++ {
					cx := (x >> l.shiftX) * l.step
					r, g, b := m.Apply(
						l.sample8(yPlane, yRow+x*l.sampleBytes),
						l.sample8(cbPlane, cbRow+cx),
						l.sample8(crPlane, crRow+cx),
					)
					out[4*x], out[4*x+1], out[4*x+2], out[4*x+3] = r, g, b, 0xFF
				}
			}
			return dst, nil
		}
	}
}

func (l *yuvLayout) decodeHDR(src *Planes, f Format, dst *image.RGBA) {
	w, h := f.FrameWidth(), f.FrameHeight()
	m := f.ColorMatrix()
	space := colorspace.ResolveSpace(f.ColorSpace(), h)
	tm := colorspace.NewToneMapper(f.ColorTransfer(), space, f.MaxLuminance(), 0)

	yPlane, cbPlane, crPlane := src.Data[0], src.Data[l.cb.plane], src.Data[l.cr.plane]
	cbStride, crStride := src.Stride[l.cb.plane], src.Stride[l.cr.plane]
	cbStart, crStart := l.chromaStart(l.cb, cbStride), l.chromaStart(l.cr, crStride)
	scale := 1 / l.maxValue

	for y := 0; y < h; y++ {
		yRow := y * src.Stride[0]
		cy := y >> l.shiftY
		cbRow := cy*cbStride + cbStart
		crRow := cy*crStride + crStart
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			cx := (x >> l.shiftX) * l.step
			r, g, b := m.Apply(
				float64(l.raw(yPlane, yRow+x*l.sampleBytes))*scale,
				float64(l.raw(cbPlane, cbRow+cx))*scale,
				float64(l.raw(crPlane, crRow+cx))*scale,
			)
			r, g, b = tm.Map(clamp01(r), clamp01(g), clamp01(b))
			out[4*x], out[4*x+1], out[4*x+2], out[4*x+3] = unorm8(r), unorm8(g), unorm8(b), 0xFF
		}
	}
}

// decodePacked422 decodes 4 byte macropixels covering two pixels. y0 and y1
// are the positions of the luma samples of the even and odd pixel.
func decodePacked422(y0, y1, cb, cr int) func() decoderFunc {
	return func() decoderFunc {
		return func(src Planes, f Format) (*image.RGBA, error) {
			w, h := f.FrameWidth(), f.FrameHeight()
			macro := (w + 1) / 2
			if err := src.require(0, span(h, src.Stride[0], 4*macro)); err != nil {
				return nil, err
			}

			m := f.ColorMatrix().Fixed()
			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			for y := 0; y < h; y++ {
				in := src.Data[0][y*src.Stride[0]:]
				out := dst.Pix[y*dst.Stride:]
				for x := 0; x < w; x++ {
					p := in[(x/2)*4:]
					luma := p[y0]
					if x%2 == 1 {
						luma = p[y1]
					}
					r, g, b := m.Apply(luma, p[cb], p[cr])
					out[4*x], out[4*x+1], out[4*x+2], out[4*x+3] = r, g, b, 0xFF
				}
			}
			return dst, nil
		}
	}
}

// decodeAYUV decodes A, Y, U, V byte quadruplets.
func decodeAYUV(premultiplied bool) func() decoderFunc {
	return func() decoderFunc {
		return func(src Planes, f Format) (*image.RGBA, error) {
			w, h := f.FrameWidth(), f.FrameHeight()
			if err := src.require(0, span(h, src.Stride[0], 4*w)); err != nil {
				return nil, err
			}

			m := f.ColorMatrix().Fixed()
			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			for y := 0; y < h; y++ {
				in := src.Data[0][y*src.Stride[0]:]
				out := dst.Pix[y*dst.Stride:]
				for x := 0; x < w; x++ {
					p := in[4*x : 4*x+4]
					r, g, b := m.Apply(p[1], p[2], p[3])
					if !premultiplied && p[0] != 0xFF {
						r, g, b = premultiply(r, p[0]), premultiply(g, p[0]), premultiply(b, p[0])
					}
					out[4*x], out[4*x+1], out[4*x+2], out[4*x+3] = r, g, b, p[0]
				}
			}
			return dst, nil
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unorm8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
