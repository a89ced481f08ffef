package cli

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/pion/videoframe/pkg/colorspace"
)

// parseSize parses WIDTHxHEIGHT.
func parseSize(s string) (image.Point, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid size %q, expected WIDTHxHEIGHT", s)
	}
	x, errX := strconv.Atoi(w)
	y, errY := strconv.Atoi(h)
	if errX != nil || errY != nil || x <= 0 || y <= 0 {
		return image.Point{}, fmt.Errorf("invalid size %q, expected WIDTHxHEIGHT", s)
	}
	return image.Pt(x, y), nil
}

// parseRect parses X,Y,WIDTH,HEIGHT.
func parseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid rectangle %q, expected X,Y,WIDTH,HEIGHT", s)
	}
	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid rectangle %q: %w", s, err)
		}
		v[i] = n
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

func parseColorSpace(s string) (colorspace.ColorSpace, error) {
	if s == "" {
		return colorspace.SpaceUndefined, nil
	}
	for _, c := range []colorspace.ColorSpace{
		colorspace.SpaceBT601, colorspace.SpaceBT709, colorspace.SpaceAdobeRGB, colorspace.SpaceBT2020,
	} {
		if strings.EqualFold(c.String(), s) || strings.EqualFold(strings.TrimPrefix(c.String(), "BT."), s) {
			return c, nil
		}
	}
	return colorspace.SpaceUndefined, fmt.Errorf("unknown color space %q", s)
}

func parseTransfer(s string) (colorspace.Transfer, error) {
	if s == "" {
		return colorspace.TransferUnknown, nil
	}
	for t := colorspace.TransferBT709; t <= colorspace.TransferSTDB67; t++ {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return colorspace.TransferUnknown, fmt.Errorf("unknown transfer function %q", s)
}

func parseRange(s string) (colorspace.Range, error) {
	switch strings.ToLower(s) {
	case "":
		return colorspace.RangeUnknown, nil
	case "video", "limited", "tv":
		return colorspace.RangeVideo, nil
	case "full", "pc":
		return colorspace.RangeFull, nil
	}
	return colorspace.RangeUnknown, fmt.Errorf("unknown color range %q", s)
}

// parseColor parses an opaque #RRGGBB color.
func parseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q, expected #RRGGBB", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
