package colorspace

// LuminanceUniforms are the HDR parameters pre-encoded with the forward
// transfer function so per-pixel work only compares signal values.
type LuminanceUniforms struct {
	// MasteringWhite is Forward(maxLuminance / 100).
	MasteringWhite float32
	// MaxLum is Forward(targetNits / 100), the tone mapping ceiling.
	MaxLum float32
}

// NewLuminanceUniforms encodes the mastering peak and the display target.
// Non-positive values fall back to DefaultMaxLuminance and the SDR level.
func NewLuminanceUniforms(t Transfer, maxLuminance, targetNits float64) LuminanceUniforms {
	if maxLuminance <= 0 {
		maxLuminance = DefaultMaxLuminance(t)
	}
	if targetNits <= 0 {
		targetNits = sdrLevel
	}
	return LuminanceUniforms{
		MasteringWhite: float32(Forward(t, maxLuminance/sdrLevel)),
		MaxLum:         float32(Forward(t, targetNits/sdrLevel)),
	}
}

// BT.2020 to BT.709 primaries, linear light.
var bt2020ToBT709 = [3][3]float64{
	{1.6605, -0.5876, -0.0728},
	{-0.1246, 1.1329, -0.0083},
	{-0.0182, -0.1006, 1.1187},
}

// ToneMapper turns HDR R'G'B' signal values into display-ready sRGB.
type ToneMapper struct {
	Transfer Transfer
	Uniforms LuminanceUniforms
	// WideGamut converts from BT.2020 primaries to BT.709.
	WideGamut bool
}

// NewToneMapper builds a mapper for frames mastered at maxLuminance nits and
// displayed on a targetNits panel.
func NewToneMapper(t Transfer, space ColorSpace, maxLuminance, targetNits float64) ToneMapper {
	return ToneMapper{
		Transfer:  t,
		Uniforms:  NewLuminanceUniforms(t, maxLuminance, targetNits),
		WideGamut: space == SpaceBT2020,
	}
}

// EETF compresses a signal value above the knee into the display range with
// the BT.2390 hermite spline. Values are signal-domain, not linear.
func (m ToneMapper) EETF(signal float64) float64 {
	master := float64(m.Uniforms.MasteringWhite)
	if master <= 0 {
		return signal
	}
	maxLum := float64(m.Uniforms.MaxLum) / master
	if maxLum >= 1 {
		return signal
	}
	e1 := signal / master
	ks := 1.5*maxLum - 0.5
	if e1 < ks {
		return signal
	}
	if e1 > 1 {
		e1 = 1
	}
	t := (e1 - ks) / (1 - ks)
	t2 := t * t
	t3 := t2 * t
	e2 := (2*t3-3*t2+1)*ks + (t3-2*t2+t)*(1-ks) + (-2*t3+3*t2)*maxLum
	return e2 * master
}

// Map converts one R'G'B' signal triple to sRGB encoded values in [0, 1].
func (m ToneMapper) Map(r, g, b float64) (float64, float64, float64) {
	lr := Inverse(m.Transfer, m.EETF(r))
	lg := Inverse(m.Transfer, m.EETF(g))
	lb := Inverse(m.Transfer, m.EETF(b))
	if m.WideGamut {
		p := &bt2020ToBT709
		lr, lg, lb = p[0][0]*lr+p[0][1]*lg+p[0][2]*lb,
			p[1][0]*lr+p[1][1]*lg+p[1][2]*lb,
			p[2][0]*lr+p[2][1]*lg+p[2][2]*lb
	}
	return EncodeSRGB(lr), EncodeSRGB(lg), EncodeSRGB(lb)
}
