// Package soft is a software gpu.Device. Textures live in Go memory and the
// conversion shaders run as Go kernels, one call per target pixel. It backs
// tests and hosts without a GPU.
package soft

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/videoframe/pkg/gpu"
)

var (
	errForeignTexture  = errors.New("soft: texture was not created by this device")
	errReleasedTexture = errors.New("soft: texture has been released")
	errInjected        = errors.New("soft: injected failure")
)

type texture struct {
	id     uuid.UUID
	format gpu.TextureFormat
	size   image.Point
	stride int
	pix    []byte
}

func (t *texture) ID() uuid.UUID             { return t.id }
func (t *texture) Format() gpu.TextureFormat { return t.format }
func (t *texture) Size() image.Point         { return t.size }

func (t *texture) texel(x, y int) []byte {
	bpt := t.format.BytesPerTexel()
	off := y*t.stride + x*bpt
	return t.pix[off : off+bpt]
}

// sample returns the normalized channels of the texel nearest to (u, v).
func (t *texture) sample(u, v float32) [4]float32 {
	return t.at(int(u*float32(t.size.X)), int(v*float32(t.size.Y)))
}

// at returns the normalized channels of texel (x, y), clamped to the edge.
// Missing channels read as 0, missing alpha as 1.
func (t *texture) at(x, y int) [4]float32 {
	p := t.texel(clampIndex(x, t.size.X), clampIndex(y, t.size.Y))

	out := [4]float32{0, 0, 0, 1}
	switch t.format {
	case gpu.TextureFormatR8:
		out[0] = float32(p[0]) / 255
	case gpu.TextureFormatRG8:
		out[0] = float32(p[0]) / 255
		out[1] = float32(p[1]) / 255
	case gpu.TextureFormatR16:
		out[0] = float32(binary.LittleEndian.Uint16(p)) / 65535
	case gpu.TextureFormatRG16:
		out[0] = float32(binary.LittleEndian.Uint16(p)) / 65535
		out[1] = float32(binary.LittleEndian.Uint16(p[2:])) / 65535
	case gpu.TextureFormatRGBA8:
		for i := 0; i < 4; i++ {
			out[i] = float32(p[i]) / 255
		}
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

type shader struct {
	name string
	spec kernelSpec
}

func (s *shader) Name() string { return s.name }

// Stats counts the work a Device has done.
type Stats struct {
	TexturesCreated int
	Uploads         int
	Renders         int
	Readbacks       int
}

// Device is an in-memory gpu.Device. It is safe for concurrent use.
type Device struct {
	id uuid.UUID

	mu             sync.Mutex
	textures       map[uuid.UUID]*texture
	recording      bool
	failCreate     bool
	failReadback   bool
	missingShaders map[string]bool
	stats          Stats
}

// New creates a device with a random ID.
func New() *Device {
	return &Device{
		id:             uuid.New(),
		textures:       make(map[uuid.UUID]*texture),
		missingShaders: make(map[string]bool),
	}
}

func (d *Device) ID() uuid.UUID { return d.id }

// SetRecording simulates a device that is in the middle of a frame.
func (d *Device) SetRecording(recording bool) {
	d.mu.Lock()
	d.recording = recording
	d.mu.Unlock()
}

// FailTextureCreation makes every following CreateTexture call fail.
func (d *Device) FailTextureCreation(fail bool) {
	d.mu.Lock()
	d.failCreate = fail
	d.mu.Unlock()
}

// FailReadback makes every following ReadTexture call fail.
func (d *Device) FailReadback(fail bool) {
	d.mu.Lock()
	d.failReadback = fail
	d.mu.Unlock()
}

// RemoveShader hides a built-in shader from LoadShader.
func (d *Device) RemoveShader(name string) {
	d.mu.Lock()
	d.missingShaders[name] = true
	d.mu.Unlock()
}

// Stats returns a snapshot of the work counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// LiveTextures returns the number of textures not yet released.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.textures)
}

func (d *Device) IsRecordingFrame() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recording
}

func (d *Device) CreateTexture(format gpu.TextureFormat, size image.Point) (gpu.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failCreate {
		return nil, errInjected
	}
	bpt := format.BytesPerTexel()
	if bpt == 0 {
		return nil, fmt.Errorf("soft: unsupported texture format %s", format)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("soft: invalid texture size %v", size)
	}

	t := &texture{
		id:     uuid.New(),
		format: format,
		size:   size,
		stride: size.X * bpt,
	}
	t.pix = make([]byte, t.stride*size.Y)
	d.textures[t.id] = t
	d.stats.TexturesCreated++
	return t, nil
}

func (d *Device) ReleaseTexture(tex gpu.Texture) {
	if tex == nil {
		return
	}
	d.mu.Lock()
	delete(d.textures, tex.ID())
	d.mu.Unlock()
}

// lookup must be called with d.mu held.
func (d *Device) lookup(tex gpu.Texture) (*texture, error) {
	t, ok := tex.(*texture)
	if !ok {
		return nil, errForeignTexture
	}
	if _, live := d.textures[t.id]; !live {
		return nil, errReleasedTexture
	}
	return t, nil
}

func (d *Device) Submit(batch *gpu.UpdateBatch) error {
	if batch == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, up := range batch.Uploads() {
		t, err := d.lookup(up.Texture)
		if err != nil {
			return err
		}
		rowBytes := t.size.X * t.format.BytesPerTexel()
		for y := 0; y < t.size.Y; y++ {
			start := y * up.BytesPerLine
			if start >= len(up.Data) {
				break
			}
			end := start + rowBytes
			if end > len(up.Data) {
				end = len(up.Data)
			}
			copy(t.pix[y*t.stride:], up.Data[start:end])
		}
		d.stats.Uploads++
	}
	batch.Reset()
	return nil
}

func (d *Device) LoadShader(name string) (gpu.Shader, error) {
	d.mu.Lock()
	missing := d.missingShaders[name]
	d.mu.Unlock()

	k, ok := kernels[name]
	if !ok || missing {
		return nil, fmt.Errorf("%w: %s", gpu.ErrShaderNotFound, name)
	}
	return &shader{name: name, spec: k}, nil
}

func (d *Device) Render(pass gpu.RenderPass) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sh, ok := pass.Shader.(*shader)
	if !ok {
		return fmt.Errorf("%w: foreign shader", gpu.ErrShaderNotFound)
	}
	target, err := d.lookup(pass.Target)
	if err != nil {
		return err
	}
	if target.format != gpu.TextureFormatRGBA8 {
		return fmt.Errorf("soft: render target must be RGBA8, got %s", target.format)
	}
	inputs := make([]*texture, len(pass.Inputs))
	for i, in := range pass.Inputs {
		if inputs[i], err = d.lookup(in); err != nil {
			return err
		}
	}
	if len(inputs) < sh.spec.inputs {
		return fmt.Errorf("soft: shader %s needs %d inputs, got %d", sh.name, sh.spec.inputs, len(inputs))
	}

	uni := &pass.Uniforms
	w, h := target.size.X, target.size.Y
	for y := 0; y < h; y++ {
		t := (float32(y) + 0.5) / float32(h)
		for x := 0; x < w; x++ {
			s := (float32(x) + 0.5) / float32(w)
			u, v := pass.Quad.At(s, t)
			c := sh.spec.run(inputs, u, v, uni)
			if !uni.Premultiplied {
				c[0] *= c[3]
				c[1] *= c[3]
				c[2] *= c[3]
			}
			px := target.texel(x, y)
			for i := 0; i < 4; i++ {
				px[i] = unorm8(c[i] * uni.Opacity)
			}
		}
	}
	d.stats.Renders++
	return nil
}

func (d *Device) ReadTexture(tex gpu.Texture) ([]byte, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failReadback {
		return nil, 0, errInjected
	}
	t, err := d.lookup(tex)
	if err != nil {
		return nil, 0, err
	}
	pix := make([]byte, len(t.pix))
	copy(pix, t.pix)
	d.stats.Readbacks++
	return pix, t.stride, nil
}

func unorm8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
