package frame

import (
	"image"
)

// packed32 decodes 4 byte pixels. r, g, b and a are byte positions inside a
// pixel; a < 0 means the fourth byte is padding and the pixel is opaque.
func packed32(r, g, b, a int, premultiplied bool) func() decoderFunc {
	return func() decoderFunc {
		return func(src Planes, f Format) (*image.RGBA, error) {
			w, h := f.FrameWidth(), f.FrameHeight()
			if err := src.require(0, span(h, src.Stride[0], 4*w)); err != nil {
				return nil, err
			}

			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			for y := 0; y < h; y++ {
				in := src.Data[0][y*src.Stride[0] : y*src.Stride[0]+4*w]
				out := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
				for i := 0; i < len(in); i += 4 {
					alpha := uint8(0xFF)
					if a >= 0 {
						alpha = in[i+a]
					}
					if premultiplied || alpha == 0xFF {
						out[i], out[i+1], out[i+2] = in[i+r], in[i+g], in[i+b]
					} else {
						out[i] = premultiply(in[i+r], alpha)
						out[i+1] = premultiply(in[i+g], alpha)
						out[i+2] = premultiply(in[i+b], alpha)
					}
					out[i+3] = alpha
				}
			}
			return dst, nil
		}
	}
}

func premultiply(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 127) / 255)
}

// decodeGray decodes single channel luma of bytes 1 or 2 (little endian).
func decodeGray(bytes int) func() decoderFunc {
	return func() decoderFunc {
		return func(src Planes, f Format) (*image.RGBA, error) {
			w, h := f.FrameWidth(), f.FrameHeight()
			if err := src.require(0, span(h, src.Stride[0], bytes*w)); err != nil {
				return nil, err
			}

			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			for y := 0; y < h; y++ {
				in := src.Data[0][y*src.Stride[0]:]
				out := dst.Pix[y*dst.Stride:]
				for x := 0; x < w; x++ {
					// Keep the high byte of 16 bit samples.
					v := in[x*bytes+bytes-1]
					out[4*x], out[4*x+1], out[4*x+2], out[4*x+3] = v, v, v, 0xFF
				}
			}
			return dst, nil
		}
	}
}
