package colorspace

import "math"

// sdrLevel is the luminance in nits that maps to linear 1.0.
const sdrLevel = 100.0

const (
	pqM1 = 1305.0 / 8192.0
	pqM2 = 2523.0 / 32.0
	pqC1 = 107.0 / 128.0
	pqC2 = 2413.0 / 128.0
	pqC3 = 2392.0 / 128.0

	pqPeak = 10000.0
)

const (
	hlgA = 0.17883277
	hlgB = 0.28466892
	hlgC = 0.55991073
)

// Forward encodes a linear value, where 1.0 is the SDR reference white of
// 100 nits, into a signal value with transfer t.
func Forward(t Transfer, linear float64) float64 {
	if linear < 0 {
		linear = 0
	}
	switch t {
	case TransferST2084:
		p := math.Pow(linear*sdrLevel/pqPeak, pqM1)
		return math.Pow((pqC1+pqC2*p)/(1+pqC3*p), pqM2)
	case TransferSTDB67:
		if linear < 1.0/12.0 {
			return math.Sqrt(3 * linear)
		}
		return hlgA*math.Log(12*linear-hlgB) + hlgC
	case TransferLinear:
		return linear
	case TransferGamma22:
		return math.Pow(linear, 1/2.2)
	case TransferGamma28:
		return math.Pow(linear, 1/2.8)
	default:
		if linear < 0.018 {
			return 4.5 * linear
		}
		return 1.099*math.Pow(linear, 0.45) - 0.099
	}
}

// Inverse decodes a signal value with transfer t back to linear light,
// 1.0 being 100 nits.
func Inverse(t Transfer, signal float64) float64 {
	if signal < 0 {
		signal = 0
	}
	switch t {
	case TransferST2084:
		p := math.Pow(signal, 1/pqM2)
		num := math.Max(p-pqC1, 0)
		den := pqC2 - pqC3*p
		return math.Pow(num/den, 1/pqM1) * pqPeak / sdrLevel
	case TransferSTDB67:
		if signal <= 0.5 {
			return signal * signal / 3
		}
		return (math.Exp((signal-hlgC)/hlgA) + hlgB) / 12
	case TransferLinear:
		return signal
	case TransferGamma22:
		return math.Pow(signal, 2.2)
	case TransferGamma28:
		return math.Pow(signal, 2.8)
	default:
		if signal < 0.081 {
			return signal / 4.5
		}
		return math.Pow((signal+0.099)/1.099, 1/0.45)
	}
}

// EncodeSRGB applies the sRGB display encoding to a linear value in [0, 1].
func EncodeSRGB(linear float64) float64 {
	switch {
	case linear <= 0:
		return 0
	case linear >= 1:
		return 1
	case linear <= 0.0031308:
		return 12.92 * linear
	default:
		return 1.055*math.Pow(linear, 1/2.4) - 0.055
	}
}
