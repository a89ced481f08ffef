// Package gpu describes the GPU collaborator used by the conversion pipeline:
// devices that create and read back textures and run named fragment shaders.
//
// There is no process-wide GPU state. Callers pass a Context holding the
// device and an injected ShaderCache to every operation that needs them.
package gpu

import (
	"errors"
	"image"

	"github.com/google/uuid"
)

var (
	// ErrShaderNotFound is returned by Device.LoadShader for unknown names.
	ErrShaderNotFound = errors.New("gpu: shader not found")
	// ErrUnavailable is returned when no usable device is present.
	ErrUnavailable = errors.New("gpu: device unavailable")
)

// TextureFormat is the texel layout of a texture.
type TextureFormat int

const (
	TextureFormatUnknown TextureFormat = iota
	TextureFormatR8
	TextureFormatRG8
	TextureFormatR16
	TextureFormatRG16
	TextureFormatRGBA8
)

// BytesPerTexel returns the size of one texel, or 0 for unknown formats.
func (f TextureFormat) BytesPerTexel() int {
	switch f {
	case TextureFormatR8:
		return 1
	case TextureFormatRG8, TextureFormatR16:
		return 2
	case TextureFormatRG16, TextureFormatRGBA8:
		return 4
	default:
		return 0
	}
}

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatR8:
		return "R8"
	case TextureFormatRG8:
		return "RG8"
	case TextureFormatR16:
		return "R16"
	case TextureFormatRG16:
		return "RG16"
	case TextureFormatRGBA8:
		return "RGBA8"
	default:
		return "unknown"
	}
}

// Texture is a device-owned image.
type Texture interface {
	ID() uuid.UUID
	Format() TextureFormat
	Size() image.Point
}

// Shader is a compiled fragment program.
type Shader interface {
	Name() string
}

// Device is a GPU. Textures it hands out stay valid until ReleaseTexture.
type Device interface {
	ID() uuid.UUID
	CreateTexture(format TextureFormat, size image.Point) (Texture, error)
	ReleaseTexture(tex Texture)
	// Submit executes all pending uploads of batch.
	Submit(batch *UpdateBatch) error
	// IsRecordingFrame reports whether the device is inside a frame and cannot
	// accept offscreen work.
	IsRecordingFrame() bool
	LoadShader(name string) (Shader, error)
	Render(pass RenderPass) error
	// ReadTexture copies the texture to CPU memory. It blocks until the copy
	// is complete.
	ReadTexture(tex Texture) (pix []byte, bytesPerLine int, err error)
}

// Upload is one pending texture update.
type Upload struct {
	Texture      Texture
	Data         []byte
	BytesPerLine int
}

// UpdateBatch collects texture uploads so they can be submitted at once.
type UpdateBatch struct {
	uploads []Upload
}

// UploadTexture queues data, laid out with bytesPerLine, for tex.
func (b *UpdateBatch) UploadTexture(tex Texture, data []byte, bytesPerLine int) {
	b.uploads = append(b.uploads, Upload{Texture: tex, Data: data, BytesPerLine: bytesPerLine})
}

// Uploads returns the queued uploads in order.
func (b *UpdateBatch) Uploads() []Upload {
	return b.uploads
}

// Len returns the number of queued uploads.
func (b *UpdateBatch) Len() int {
	return len(b.uploads)
}

// Reset drops all queued uploads.
func (b *UpdateBatch) Reset() {
	b.uploads = b.uploads[:0]
}
