package colorspace

// Matrix is a 4×4 affine color matrix applied to (c0, c1, c2, 1) column
// vectors with normalized [0, 1] samples.
type Matrix [4][4]float64

// Apply transforms one sample triple.
func (m Matrix) Apply(c0, c1, c2 float64) (float64, float64, float64) {
	return m[0][0]*c0 + m[0][1]*c1 + m[0][2]*c2 + m[0][3],
		m[1][0]*c0 + m[1][1]*c1 + m[1][2]*c2 + m[1][3],
		m[2][0]*c0 + m[2][1]*c1 + m[2][2]*c2 + m[2][3]
}

// Float32 flattens m in row-major order for shader uniforms.
func (m Matrix) Float32() [16]float32 {
	var out [16]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = float32(m[r][c])
		}
	}
	return out
}

type coefficients struct {
	kr, kb float64
}

func coefficientsFor(space ColorSpace) coefficients {
	switch space {
	case SpaceBT709:
		return coefficients{kr: 0.2126, kb: 0.0722}
	case SpaceBT2020:
		return coefficients{kr: 0.2627, kb: 0.0593}
	default:
		return coefficients{kr: 0.299, kb: 0.114}
	}
}

// quantization maps stored samples to Y' in [0, 1] and Cb/Cr in [-0.5, 0.5]:
// y' = ys*y + yo, c' = cs*c + co.
type quantization struct {
	ys, yo, cs, co float64
}

func quantizationFor(space ColorSpace, r Range) quantization {
	if r == RangeFull || space == SpaceAdobeRGB {
		return quantization{ys: 1, yo: 0, cs: 1, co: -0.5}
	}
	return quantization{
		ys: 255.0 / 219.0,
		yo: -16.0 / 219.0,
		cs: 255.0 / 224.0,
		co: -128.0 / 224.0,
	}
}

// YUVToRGB returns the matrix converting (Y, Cb, Cr) samples to R'G'B'.
// An undefined space is resolved from frameHeight, see ResolveSpace.
func YUVToRGB(space ColorSpace, r Range, frameHeight int) Matrix {
	space = ResolveSpace(space, frameHeight)
	k := coefficientsFor(space)
	q := quantizationFor(space, r)

	kg := 1 - k.kr - k.kb
	a := 2 * (1 - k.kr)
	b := 2 * k.kb * (1 - k.kb) / kg
	c := 2 * k.kr * (1 - k.kr) / kg
	d := 2 * (1 - k.kb)

	return Matrix{
		{q.ys, 0, a * q.cs, q.yo + a*q.co},
		{q.ys, -b * q.cs, -c * q.cs, q.yo - (b+c)*q.co},
		{q.ys, d * q.cs, 0, q.yo + d*q.co},
		{0, 0, 0, 1},
	}
}

// RGBToYUV is the inverse of YUVToRGB.
func RGBToYUV(space ColorSpace, r Range, frameHeight int) Matrix {
	space = ResolveSpace(space, frameHeight)
	k := coefficientsFor(space)
	q := quantizationFor(space, r)

	kg := 1 - k.kr - k.kb
	a := 2 * (1 - k.kr)
	d := 2 * (1 - k.kb)
	off := -q.co / q.cs

	return Matrix{
		{k.kr / q.ys, kg / q.ys, k.kb / q.ys, -q.yo / q.ys},
		{-k.kr / (d * q.cs), -kg / (d * q.cs), (1 - k.kb) / (d * q.cs), off},
		{(1 - k.kr) / (a * q.cs), -kg / (a * q.cs), -k.kb / (a * q.cs), off},
		{0, 0, 0, 1},
	}
}

// Identity passes samples through unchanged.
var Identity = Matrix{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{0, 0, 0, 1},
}

const fixedShift = 16

// FixedMatrix is a Q16 integer version of a Matrix for 8-bit samples.
type FixedMatrix [3][4]int32

// Fixed converts m for use on 8-bit samples. Offsets are pre-scaled to the
// 0..255 domain and include rounding.
func (m Matrix) Fixed() FixedMatrix {
	var f FixedMatrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			f[r][c] = int32(m[r][c]*(1<<fixedShift) + 0.5*sign(m[r][c]))
		}
		f[r][3] = int32(m[r][3]*255*(1<<fixedShift)+0.5*sign(m[r][3])) + 1<<(fixedShift-1)
	}
	return f
}

// Apply converts one 8-bit sample triple.
func (f *FixedMatrix) Apply(c0, c1, c2 uint8) (uint8, uint8, uint8) {
	x, y, z := int32(c0), int32(c1), int32(c2)
	return clamp8((f[0][0]*x + f[0][1]*y + f[0][2]*z + f[0][3]) >> fixedShift),
		clamp8((f[1][0]*x + f[1][1]*y + f[1][2]*z + f[1][3]) >> fixedShift),
		clamp8((f[2][0]*x + f[2][1]*y + f[2][2]*z + f[2][3]) >> fixedShift)
}

func clamp8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
