package frame

import (
	"fmt"
	"strings"
)

// PixelFormat identifies the memory layout of a frame. Packed RGB names give
// the byte order in memory, so ARGB8888 stores A, R, G, B.
type PixelFormat int

const (
	Invalid PixelFormat = iota
	ARGB8888
	ARGB8888Premultiplied
	XRGB8888
	BGRA8888
	BGRA8888Premultiplied
	BGRX8888
	ABGR8888
	XBGR8888
	RGBA8888
	RGBA8888Premultiplied
	RGBX8888

	AYUV
	AYUVPremultiplied
	// YUV420P https://www.fourcc.org/pixel-format/yuv-i420/
	YUV420P
	YUV422P
	// YV12 https://www.fourcc.org/pixel-format/yuv-yv12/
	YV12
	UYVY
	// YUYV https://www.fourcc.org/pixel-format/yuv-yuy2/
	YUYV
	NV12
	// NV21 https://www.fourcc.org/pixel-format/yuv-nv21/
	NV21
	IMC1
	IMC2
	IMC3
	IMC4
	Y8
	Y16
	P010
	P016

	// SamplerExternalOES frames only exist as GPU textures.
	SamplerExternalOES
	// Jpeg frames hold one compressed JPEG image.
	Jpeg
	// SamplerRect frames only exist as GPU rectangle textures.
	SamplerRect
	YUV420P10

	pixelFormatCount
)

var pixelFormatNames = [pixelFormatCount]string{
	Invalid:               "Invalid",
	ARGB8888:              "ARGB8888",
	ARGB8888Premultiplied: "ARGB8888_Premultiplied",
	XRGB8888:              "XRGB8888",
	BGRA8888:              "BGRA8888",
	BGRA8888Premultiplied: "BGRA8888_Premultiplied",
	BGRX8888:              "BGRX8888",
	ABGR8888:              "ABGR8888",
	XBGR8888:              "XBGR8888",
	RGBA8888:              "RGBA8888",
	RGBA8888Premultiplied: "RGBA8888_Premultiplied",
	RGBX8888:              "RGBX8888",
	AYUV:                  "AYUV",
	AYUVPremultiplied:     "AYUV_Premultiplied",
	YUV420P:               "YUV420P",
	YUV422P:               "YUV422P",
	YV12:                  "YV12",
	UYVY:                  "UYVY",
	YUYV:                  "YUYV",
	NV12:                  "NV12",
	NV21:                  "NV21",
	IMC1:                  "IMC1",
	IMC2:                  "IMC2",
	IMC3:                  "IMC3",
	IMC4:                  "IMC4",
	Y8:                    "Y8",
	Y16:                   "Y16",
	P010:                  "P010",
	P016:                  "P016",
	SamplerExternalOES:    "SamplerExternalOES",
	Jpeg:                  "Jpeg",
	SamplerRect:           "SamplerRect",
	YUV420P10:             "YUV420P10",
}

func (f PixelFormat) String() string {
	if f < 0 || f >= pixelFormatCount {
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
	return pixelFormatNames[f]
}

// PixelFormats returns every valid pixel format in declaration order.
func PixelFormats() []PixelFormat {
	formats := make([]PixelFormat, 0, pixelFormatCount-1)
	for f := Invalid + 1; f < pixelFormatCount; f++ {
		formats = append(formats, f)
	}
	return formats
}

// ParsePixelFormat looks a format up by name, ignoring case. "I420" and "YUY2"
// are accepted as aliases.
func ParsePixelFormat(name string) (PixelFormat, error) {
	switch strings.ToUpper(name) {
	case "I420":
		return YUV420P, nil
	case "YUY2":
		return YUYV, nil
	}
	for f := Invalid + 1; f < pixelFormatCount; f++ {
		if strings.EqualFold(pixelFormatNames[f], name) {
			return f, nil
		}
	}
	return Invalid, fmt.Errorf("%s is not a known pixel format", name)
}
