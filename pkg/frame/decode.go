package frame

import (
	"fmt"
)

// NewDecoder returns the CPU converter for pf.
func NewDecoder(pf PixelFormat) (Decoder, error) {
	var buildDecoder func() decoderFunc

	switch pf {
	case ARGB8888:
		buildDecoder = packed32(1, 2, 3, 0, false)
	case ARGB8888Premultiplied:
		buildDecoder = packed32(1, 2, 3, 0, true)
	case XRGB8888:
		buildDecoder = packed32(1, 2, 3, -1, true)
	case BGRA8888:
		buildDecoder = packed32(2, 1, 0, 3, false)
	case BGRA8888Premultiplied:
		buildDecoder = packed32(2, 1, 0, 3, true)
	case BGRX8888:
		buildDecoder = packed32(2, 1, 0, -1, true)
	case ABGR8888:
		buildDecoder = packed32(3, 2, 1, 0, false)
	case XBGR8888:
		buildDecoder = packed32(3, 2, 1, -1, true)
	case RGBA8888:
		buildDecoder = packed32(0, 1, 2, 3, false)
	case RGBA8888Premultiplied:
		buildDecoder = packed32(0, 1, 2, 3, true)
	case RGBX8888:
		buildDecoder = packed32(0, 1, 2, -1, true)
	case AYUV:
		buildDecoder = decodeAYUV(false)
	case AYUVPremultiplied:
		buildDecoder = decodeAYUV(true)
	case UYVY:
		buildDecoder = decodePacked422(1, 3, 0, 2)
	case YUYV:
		buildDecoder = decodePacked422(0, 2, 1, 3)
	case Y8:
		buildDecoder = decodeGray(1)
	case Y16:
		buildDecoder = decodeGray(2)
	case YUV420P, YV12, YUV422P, NV12, NV21, IMC1, IMC2, IMC3, IMC4, P010, P016, YUV420P10:
		buildDecoder = decodeYUV(yuvLayouts[pf])
	case Jpeg:
		buildDecoder = decodeJPEG
	default:
		return nil, fmt.Errorf("%s is not supported", pf)
	}

	return buildDecoder(), nil
}
