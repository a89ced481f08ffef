package gpu

import "github.com/pion/videoframe/pkg/transform"

// Vertex is a texture coordinate in [0, 1].
type Vertex struct {
	U, V float32
}

// Quad holds the source texture coordinates of the target corners in the
// order top-left, top-right, bottom-left, bottom-right.
type Quad [4]Vertex

var rotationQuads = [4]Quad{
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	{{0, 1}, {0, 0}, {1, 1}, {1, 0}},
	{{1, 1}, {0, 1}, {1, 0}, {0, 0}},
	{{1, 0}, {1, 1}, {0, 0}, {0, 1}},
}

// QuadFor returns the texture coordinates that draw a frame with t applied.
func QuadFor(t transform.Transformation) Quad {
	q := rotationQuads[t.RotationIndex()]
	if t.MirroredHorizontallyAfterRotation {
		q[0], q[1] = q[1], q[0]
		q[2], q[3] = q[3], q[2]
	}
	return q
}

// At interpolates the texture coordinate at normalized target position (s, t).
func (q Quad) At(s, t float32) (float32, float32) {
	topU := q[0].U + (q[1].U-q[0].U)*s
	topV := q[0].V + (q[1].V-q[0].V)*s
	botU := q[2].U + (q[3].U-q[2].U)*s
	botV := q[2].V + (q[3].V-q[2].V)*s
	return topU + (botU-topU)*t, topV + (botV-topV)*t
}

// Uniforms is the per-draw constant data of the conversion shaders.
type Uniforms struct {
	// ColorMatrix converts YUV samples to RGB, row-major.
	ColorMatrix [16]float32
	Opacity     float32
	// Width and Height are the frame size in pixels. Shaders reading
	// subsampled planes use them to find the chroma sample of a pixel.
	Width  float32
	Height float32
	// Premultiplied marks RGB sources whose color is already scaled by alpha.
	Premultiplied bool
	// MasteringWhite and MaxLum are forward-encoded luminance values used by
	// the HDR shaders.
	MasteringWhite float32
	MaxLum         float32
	// GamutConversion maps BT.2020 primaries to BT.709 in the HDR shaders.
	GamutConversion bool
}

// RenderPass draws one textured quad into Target with Shader.
type RenderPass struct {
	Shader   Shader
	Inputs   []Texture
	Target   Texture
	Quad     Quad
	Uniforms Uniforms
}
