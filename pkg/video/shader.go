package video

import (
	"github.com/pion/videoframe/pkg/colorspace"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/gpu"
)

var shaderNames = map[frame.PixelFormat]string{
	frame.ARGB8888:              "argb",
	frame.ARGB8888Premultiplied: "argb",
	frame.XRGB8888:              "xrgb",
	frame.BGRA8888:              "bgra",
	frame.BGRA8888Premultiplied: "bgra",
	frame.BGRX8888:              "bgrx",
	frame.ABGR8888:              "abgr",
	frame.XBGR8888:              "xbgr",
	frame.RGBA8888:              "rgba",
	frame.RGBA8888Premultiplied: "rgba",
	frame.RGBX8888:              "rgbx",
	frame.AYUV:                  "ayuv",
	frame.AYUVPremultiplied:     "ayuv",
	frame.UYVY:                  "uyvy",
	frame.YUYV:                  "yuyv",
	frame.Y8:                    "y",
	frame.Y16:                   "y",
	frame.NV12:                  "nv12",
	frame.NV21:                  "nv21",
	frame.P010:                  "nv12",
	frame.P016:                  "nv12",
	frame.IMC2:                  "imc2",
	frame.IMC4:                  "imc4",
	frame.YUV420P:               "yuv_triplanar",
	frame.YUV422P:               "yuv_triplanar",
	frame.IMC3:                  "yuv_triplanar",
	frame.YV12:                  "yvu_triplanar",
	frame.IMC1:                  "yvu_triplanar",
	frame.YUV420P10:             "yuv_triplanar_p10",
	frame.SamplerExternalOES:    "externalsampler",
	frame.SamplerRect:           "rectsampler",
}

// ShaderName returns the fragment shader converting frames of f to RGBA, or
// "" when no shader handles them. HDR frames get the tone mapping variants,
// which exist for the semi-planar and 10 bit triplanar layouts only.
func ShaderName(f frame.Format) string {
	name := shaderNames[f.PixelFormat()]
	if name == "" {
		return ""
	}
	var suffix string
	switch f.ColorTransfer() {
	case colorspace.TransferST2084:
		suffix = "_bt2020_pq"
	case colorspace.TransferSTDB67:
		suffix = "_bt2020_hlg"
	default:
		return name
	}
	if name != "nv12" && name != "yuv_triplanar_p10" {
		return ""
	}
	return name + suffix
}

func isPremultiplied(pf frame.PixelFormat) bool {
	switch pf {
	case frame.ARGB8888Premultiplied, frame.BGRA8888Premultiplied, frame.RGBA8888Premultiplied, frame.AYUVPremultiplied:
		return true
	}
	return false
}

// uniformsFor fills the shader constants for frames of f shown on a display
// peaking at targetNits.
func uniformsFor(f frame.Format, targetNits float64) gpu.Uniforms {
	u := gpu.Uniforms{
		ColorMatrix:   f.ColorMatrix().Float32(),
		Opacity:       1,
		Width:         float32(f.FrameWidth()),
		Height:        float32(f.FrameHeight()),
		Premultiplied: isPremultiplied(f.PixelFormat()),
	}
	if t := f.ColorTransfer(); t.IsHDR() {
		l := colorspace.NewLuminanceUniforms(t, f.MaxLuminance(), targetNits)
		u.MasteringWhite, u.MaxLum = l.MasteringWhite, l.MaxLum
		u.GamutConversion = colorspace.ResolveSpace(f.ColorSpace(), f.FrameHeight()) == colorspace.SpaceBT2020
	}
	return u
}
