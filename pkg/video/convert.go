package video

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/pion/videoframe/pkg/buffer"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/gpu"
	"github.com/pion/videoframe/pkg/transform"
)

var (
	// ErrInvalidFrame is returned for frames without a buffer or a valid
	// format.
	ErrInvalidFrame = errors.New("video: invalid frame")
	// ErrNoConversion is returned when no stage can convert a frame.
	ErrNoConversion = errors.New("video: no conversion path")

	errNotApplicable = errors.New("video: stage not applicable")
	errMapFailed     = errors.New("video: frame could not be mapped")
)

// Names of the conversion stages, in the order a Converter tries them.
const (
	StageCompressed = "compressed"
	StageNative     = "native"
	StageShader     = "shader"
	StageCPU        = "cpu"
)

// ConvertOptions tune a single conversion. The zero value converts on the
// CPU.
type ConvertOptions struct {
	// GPU enables the native and shader stages.
	GPU *gpu.Context
	// RequireCPU skips the zero-copy native stage.
	RequireCPU bool
	// Rotation is applied after the orientation of the frame.
	Rotation transform.Rotation
}

type conversion struct {
	frame          Frame
	opts           ConvertOptions
	transformation transform.Transformation
}

type stage struct {
	name string
	run  func(c *Converter, job *conversion) (*image.RGBA, error)
}

var allStages = []stage{
	{StageCompressed, (*Converter).convertCompressed},
	{StageNative, (*Converter).convertNative},
	{StageShader, (*Converter).convertShader},
	{StageCPU, (*Converter).convertCPU},
}

// Converter turns frames into RGBA images, trying its stages in order until
// one succeeds. A failing stage falls through to the next one.
//
// The shader stage keeps the textures of the last upload and reuses them for
// frames of the same layout. A Converter is safe for concurrent use.
type Converter struct {
	stages []stage

	mu       sync.Mutex
	previous *TextureSet
}

// NewConverter returns a converter running the named stages, all of them when
// none are given. Unknown names are ignored.
func NewConverter(names ...string) *Converter {
	if len(names) == 0 {
		return &Converter{stages: allStages}
	}
	c := &Converter{}
	for _, s := range allStages {
		for _, name := range names {
			if s.name == name {
				c.stages = append(c.stages, s)
				break
			}
		}
	}
	if len(c.stages) < len(names) {
		logger.Warnf("unknown conversion stages in %v", names)
	}
	return c
}

// Stages returns the stage names in the order they are tried.
func (c *Converter) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.name
	}
	return names
}

// Release frees the textures kept for reuse.
func (c *Converter) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previous.Release()
	c.previous = nil
}

// Convert returns f as a premultiplied RGBA image with its viewport cropped
// and its orientation applied.
func (c *Converter) Convert(f Frame, opts ConvertOptions) (*image.RGBA, error) {
	if !f.IsValid() {
		return nil, ErrInvalidFrame
	}
	job := &conversion{
		frame:          f,
		opts:           opts,
		transformation: f.Transformation(opts.Rotation),
	}

	lastErr := ErrNoConversion
	for _, s := range c.stages {
		img, err := s.run(c, job)
		switch {
		case err == nil:
			return img, nil
		case errors.Is(err, errNotApplicable):
			continue
		}
		logger.Debugf("%s conversion of %s failed, falling back: %v", s.name, f.format, err)
		lastErr = err
	}
	if lastErr == ErrNoConversion {
		return nil, fmt.Errorf("%w for %s", ErrNoConversion, f.PixelFormat())
	}
	return nil, fmt.Errorf("%w for %s: %v", ErrNoConversion, f.PixelFormat(), lastErr)
}

func (c *Converter) convertCompressed(job *conversion) (*image.RGBA, error) {
	if job.frame.PixelFormat() != frame.Jpeg {
		return nil, errNotApplicable
	}
	return decodeMapped(job)
}

func (c *Converter) convertCPU(job *conversion) (*image.RGBA, error) {
	if job.frame.PixelFormat() == frame.Jpeg {
		return nil, errNotApplicable
	}
	return decodeMapped(job)
}

func decodeMapped(job *conversion) (*image.RGBA, error) {
	f := job.frame
	d, err := frame.NewDecoder(f.PixelFormat())
	if err != nil {
		return nil, err
	}
	if !f.Map(buffer.ReadOnly) {
		return nil, errMapFailed
	}
	img, err := d.Decode(f.planes(), f.format)
	f.Unmap()
	if err != nil {
		return nil, err
	}

	viewport := f.format.Viewport()
	if f.PixelFormat() == frame.Jpeg {
		viewport = viewport.Intersect(img.Rect)
		if viewport.Empty() {
			viewport = img.Rect
		}
	}
	return applyTransformation(img.SubImage(viewport).(*image.RGBA), job.transformation), nil
}

// textureSource is implemented by buffers backed by GPU textures.
type textureSource interface {
	Device() gpu.Device
	Textures() []gpu.Texture
}

func nativeTextures(f Frame, d gpu.Device) ([]gpu.Texture, bool) {
	if f.HandleType() != buffer.TextureHandle || d == nil {
		return nil, false
	}
	src, ok := f.Buffer().(textureSource)
	if !ok || src.Device() == nil || src.Device().ID() != d.ID() {
		return nil, false
	}
	textures := src.Textures()
	if len(textures) < f.format.PlaneCount() {
		return nil, false
	}
	return textures, true
}

func (c *Converter) convertNative(job *conversion) (*image.RGBA, error) {
	ctx := job.opts.GPU
	if job.opts.RequireCPU || !ctx.Available() {
		return nil, errNotApplicable
	}
	textures, ok := nativeTextures(job.frame, ctx.Device)
	if !ok {
		return nil, errNotApplicable
	}
	name := ShaderName(job.frame.format)
	if name == "" {
		return nil, errNotApplicable
	}
	sh, err := ctx.Shader(name)
	if err != nil {
		return nil, err
	}
	return render(ctx, sh, textures, job)
}

func (c *Converter) convertShader(job *conversion) (*image.RGBA, error) {
	ctx := job.opts.GPU
	if !ctx.Available() {
		return nil, errNotApplicable
	}
	name := ShaderName(job.frame.format)
	if name == "" {
		return nil, errNotApplicable
	}
	sh, err := ctx.Shader(name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var batch gpu.UpdateBatch
	set, err := createTextures(job.frame, ctx, &batch, c.previous, false)
	if err != nil {
		return nil, err
	}
	if set != c.previous {
		c.previous.Release()
		c.previous = set
	}
	if err := ctx.Device.Submit(&batch); err != nil {
		return nil, err
	}
	return render(ctx, sh, set.Textures(), job)
}

// render draws the viewport of the frame held by inputs into a new RGBA
// texture and reads it back.
func render(ctx *gpu.Context, sh gpu.Shader, inputs []gpu.Texture, job *conversion) (*image.RGBA, error) {
	f := job.frame.format
	viewport := f.Viewport()
	size := job.transformation.Size(viewport.Size())

	target, err := ctx.Device.CreateTexture(gpu.TextureFormatRGBA8, size)
	if err != nil {
		return nil, err
	}
	defer ctx.Device.ReleaseTexture(target)

	pass := gpu.RenderPass{
		Shader:   sh,
		Inputs:   inputs,
		Target:   target,
		Quad:     cropQuad(gpu.QuadFor(job.transformation), viewport, f.FrameSize()),
		Uniforms: uniformsFor(f, ctx.TargetLuminance),
	}
	if err := ctx.Device.Render(pass); err != nil {
		return nil, err
	}
	pix, bpl, err := ctx.Device.ReadTexture(target)
	if err != nil {
		return nil, err
	}
	return &image.RGBA{Pix: pix, Stride: bpl, Rect: image.Rectangle{Max: size}}, nil
}

// cropQuad narrows texture coordinates covering the whole frame to viewport.
func cropQuad(q gpu.Quad, viewport image.Rectangle, size image.Point) gpu.Quad {
	if viewport == (image.Rectangle{Max: size}) {
		return q
	}
	w, h := float32(size.X), float32(size.Y)
	for i := range q {
		q[i].U = (float32(viewport.Min.X) + q[i].U*float32(viewport.Dx())) / w
		q[i].V = (float32(viewport.Min.Y) + q[i].V*float32(viewport.Dy())) / h
	}
	return q
}
