package soft

import (
	"github.com/pion/videoframe/pkg/colorspace"
	"github.com/pion/videoframe/pkg/gpu"
)

// kernel computes the color of one target pixel from the input textures at
// texture coordinate (u, v). Alpha is straight unless the uniforms say the
// source is premultiplied.
type kernel func(in []*texture, u, v float32, uni *gpu.Uniforms) [4]float32

type kernelSpec struct {
	inputs int
	run    kernel
}

var kernels = map[string]kernelSpec{
	"rgba": {1, swizzle(0, 1, 2, 3)},
	"bgra": {1, swizzle(2, 1, 0, 3)},
	"argb": {1, swizzle(1, 2, 3, 0)},
	"abgr": {1, swizzle(3, 2, 1, 0)},
	"rgbx": {1, opaque(0, 1, 2)},
	"bgrx": {1, opaque(2, 1, 0)},
	"xrgb": {1, opaque(1, 2, 3)},
	"xbgr": {1, opaque(3, 2, 1)},

	"externalsampler": {1, swizzle(0, 1, 2, 3)},
	"rectsampler":     {1, swizzle(0, 1, 2, 3)},

	"y":    {1, gray},
	"ayuv": {1, ayuv},
	"uyvy": {1, packed422(1, 3, 0, 2)},
	"yuyv": {1, packed422(0, 2, 1, 3)},

	"nv12": {2, semiPlanar(false)},
	"nv21": {2, semiPlanar(true)},
	"imc2": {2, halfLines(true)},
	"imc4": {2, halfLines(false)},

	"yuv_triplanar":     {3, triPlanar(false, 1)},
	"yvu_triplanar":     {3, triPlanar(true, 1)},
	"yuv_triplanar_p10": {3, triPlanar(false, 65535.0/1023.0)},

	"nv12_bt2020_pq":               {2, hdr(semiPlanar(false), colorspace.TransferST2084)},
	"nv12_bt2020_hlg":              {2, hdr(semiPlanar(false), colorspace.TransferSTDB67)},
	"yuv_triplanar_p10_bt2020_pq":  {3, hdr(triPlanar(false, 65535.0/1023.0), colorspace.TransferST2084)},
	"yuv_triplanar_p10_bt2020_hlg": {3, hdr(triPlanar(false, 65535.0/1023.0), colorspace.TransferSTDB67)},
}

func swizzle(r, g, b, a int) kernel {
	return func(in []*texture, u, v float32, _ *gpu.Uniforms) [4]float32 {
		c := in[0].sample(u, v)
		return [4]float32{c[r], c[g], c[b], c[a]}
	}
}

func opaque(r, g, b int) kernel {
	return func(in []*texture, u, v float32, _ *gpu.Uniforms) [4]float32 {
		c := in[0].sample(u, v)
		return [4]float32{c[r], c[g], c[b], 1}
	}
}

func gray(in []*texture, u, v float32, _ *gpu.Uniforms) [4]float32 {
	c := in[0].sample(u, v)
	return [4]float32{c[0], c[0], c[0], 1}
}

func yuvToRGB(y, cb, cr float32, uni *gpu.Uniforms) [4]float32 {
	m := &uni.ColorMatrix
	return [4]float32{
		clamp01(m[0]*y + m[1]*cb + m[2]*cr + m[3]),
		clamp01(m[4]*y + m[5]*cb + m[6]*cr + m[7]),
		clamp01(m[8]*y + m[9]*cb + m[10]*cr + m[11]),
		1,
	}
}

func ayuv(in []*texture, u, v float32, uni *gpu.Uniforms) [4]float32 {
	c := in[0].sample(u, v)
	out := yuvToRGB(c[1], c[2], c[3], uni)
	out[3] = c[0]
	return out
}

// pixel returns the frame pixel covered by texture coordinate (u, v).
func pixel(u, v float32, uni *gpu.Uniforms) (int, int) {
	return int(u * uni.Width), int(v * uni.Height)
}

// chroma returns the texel of a chroma plane holding pixel (x, y). Planes
// narrower or shorter than the luma plane hold one sample per two pixels.
func chroma(luma, t *texture, x, y int) [4]float32 {
	if t.size.X < luma.size.X {
		x >>= 1
	}
	if t.size.Y < luma.size.Y {
		y >>= 1
	}
	return t.at(x, y)
}

// packed422 reads macropixels holding two luma samples; y0 and y1 are the
// channel indices of the even and odd pixel.
func packed422(y0, y1, cb, cr int) kernel {
	return func(in []*texture, u, v float32, uni *gpu.Uniforms) [4]float32 {
		x, row := pixel(u, v, uni)
		c := in[0].at(x>>1, row)
		y := c[y0]
		if x%2 == 1 {
			y = c[y1]
		}
		return yuvToRGB(y, c[cb], c[cr], uni)
	}
}

func semiPlanar(swapped bool) kernel {
	return func(in []*texture, u, v float32, uni *gpu.Uniforms) [4]float32 {
		x, row := pixel(u, v, uni)
		y := in[0].at(x, row)[0]
		c := chroma(in[0], in[1], x, row)
		if swapped {
			return yuvToRGB(y, c[1], c[0], uni)
		}
		return yuvToRGB(y, c[0], c[1], uni)
	}
}

// halfLines reads a chroma plane where each line holds one chroma component
// in its left half and the other in its right half. Both halves are
// (width+1)/2 texels wide.
func halfLines(crFirst bool) kernel {
	return func(in []*texture, u, v float32, uni *gpu.Uniforms) [4]float32 {
		x, row := pixel(u, v, uni)
		y := in[0].at(x, row)[0]
		half := in[1].size.X / 2
		left := in[1].at(x>>1, row>>1)[0]
		right := in[1].at(half+x>>1, row>>1)[0]
		if crFirst {
			return yuvToRGB(y, right, left, uni)
		}
		return yuvToRGB(y, left, right, uni)
	}
}

func triPlanar(swapped bool, scale float32) kernel {
	return func(in []*texture, u, v float32, uni *gpu.Uniforms) [4]float32 {
		x, row := pixel(u, v, uni)
		y := in[0].at(x, row)[0] * scale
		c1 := chroma(in[0], in[1], x, row)[0] * scale
		c2 := chroma(in[0], in[2], x, row)[0] * scale
		if swapped {
			return yuvToRGB(y, c2, c1, uni)
		}
		return yuvToRGB(y, c1, c2, uni)
	}
}

func hdr(base kernel, transfer colorspace.Transfer) kernel {
	return func(in []*texture, u, v float32, uni *gpu.Uniforms) [4]float32 {
		c := base(in, u, v, uni)
		tm := colorspace.ToneMapper{
			Transfer: transfer,
			Uniforms: colorspace.LuminanceUniforms{
				MasteringWhite: uni.MasteringWhite,
				MaxLum:         uni.MaxLum,
			},
			WideGamut: uni.GamutConversion,
		}
		r, g, b := tm.Map(float64(c[0]), float64(c[1]), float64(c[2]))
		return [4]float32{float32(r), float32(g), float32(b), c[3]}
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
