// Package colorspace holds the color model shared by the GPU and CPU
// conversion paths: YUV<->RGB matrices for BT.601, BT.709 and BT.2020, the
// PQ and HLG transfer functions and HDR to SDR tone mapping.
package colorspace

// ColorSpace selects the YUV coefficients of a frame.
type ColorSpace int

const (
	SpaceUndefined ColorSpace = iota
	SpaceBT601
	SpaceBT709
	SpaceAdobeRGB
	SpaceBT2020
)

func (s ColorSpace) String() string {
	switch s {
	case SpaceBT601:
		return "BT.601"
	case SpaceBT709:
		return "BT.709"
	case SpaceAdobeRGB:
		return "AdobeRGB"
	case SpaceBT2020:
		return "BT.2020"
	default:
		return "undefined"
	}
}

// Transfer is the transfer characteristic of a frame.
type Transfer int

const (
	TransferUnknown Transfer = iota
	TransferBT709
	TransferBT601
	TransferLinear
	TransferGamma22
	TransferGamma28
	TransferST2084
	TransferSTDB67
)

// IsHDR reports whether t needs tone mapping before display.
func (t Transfer) IsHDR() bool {
	return t == TransferST2084 || t == TransferSTDB67
}

func (t Transfer) String() string {
	switch t {
	case TransferBT709:
		return "BT.709"
	case TransferBT601:
		return "BT.601"
	case TransferLinear:
		return "linear"
	case TransferGamma22:
		return "gamma2.2"
	case TransferGamma28:
		return "gamma2.8"
	case TransferST2084:
		return "PQ"
	case TransferSTDB67:
		return "HLG"
	default:
		return "unknown"
	}
}

// Range is the quantization range of the luma and chroma samples.
type Range int

const (
	RangeUnknown Range = iota
	// RangeVideo is the limited range: luma in [16, 235], chroma in [16, 240].
	RangeVideo
	RangeFull
)

func (r Range) String() string {
	switch r {
	case RangeVideo:
		return "video"
	case RangeFull:
		return "full"
	default:
		return "unknown"
	}
}

// DefaultMaxLuminance is the mastering peak in nits assumed when a frame
// does not carry one.
func DefaultMaxLuminance(t Transfer) float64 {
	switch t {
	case TransferST2084:
		return 10000
	case TransferSTDB67:
		return 1500
	default:
		return sdrLevel
	}
}

// ResolveSpace returns space, or the space implied by the frame height when
// space is undefined: BT.709 above 576 lines, BT.601 otherwise.
func ResolveSpace(space ColorSpace, frameHeight int) ColorSpace {
	if space != SpaceUndefined {
		return space
	}
	if frameHeight > 576 {
		return SpaceBT709
	}
	return SpaceBT601
}
