package cli

import (
	"image"
	"image/color"
	"testing"

	"github.com/pion/videoframe/pkg/colorspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	cases := map[string]struct {
		input    string
		expected image.Point
		err      bool
	}{
		"Lower":     {"640x480", image.Pt(640, 480), false},
		"Upper":     {"1920X1080", image.Pt(1920, 1080), false},
		"NoSep":     {"640", image.Point{}, true},
		"Zero":      {"0x480", image.Point{}, true},
		"NotNumber": {"ax2", image.Point{}, true},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			size, err := parseSize(c.input)
			if c.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expected, size)
		})
	}
}

func TestParseRect(t *testing.T) {
	r, err := parseRect("2, 4, 10, 6")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(2, 4, 12, 10), r)

	_, err = parseRect("1,2,3")
	assert.Error(t, err)
	_, err = parseRect("1,2,3,x")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	space, err := parseColorSpace("bt.709")
	require.NoError(t, err)
	assert.Equal(t, colorspace.SpaceBT709, space)
	space, err = parseColorSpace("2020")
	require.NoError(t, err)
	assert.Equal(t, colorspace.SpaceBT2020, space)
	space, err = parseColorSpace("")
	require.NoError(t, err)
	assert.Equal(t, colorspace.SpaceUndefined, space)
	_, err = parseColorSpace("sRGB")
	assert.Error(t, err)

	transfer, err := parseTransfer("pq")
	require.NoError(t, err)
	assert.Equal(t, colorspace.TransferST2084, transfer)
	transfer, err = parseTransfer("HLG")
	require.NoError(t, err)
	assert.Equal(t, colorspace.TransferSTDB67, transfer)
	_, err = parseTransfer("unknown")
	assert.Error(t, err)

	r, err := parseRange("limited")
	require.NoError(t, err)
	assert.Equal(t, colorspace.RangeVideo, r)
	r, err = parseRange("Full")
	require.NoError(t, err)
	assert.Equal(t, colorspace.RangeFull, r)
	_, err = parseRange("half")
	assert.Error(t, err)
}

func TestParseBackground(t *testing.T) {
	cases := map[string]struct {
		input    string
		expected color.RGBA
		err      bool
	}{
		"Black":    {"#000000", color.RGBA{0, 0, 0, 0xFF}, false},
		"NoHash":   {"ff8000", color.RGBA{0xFF, 0x80, 0, 0xFF}, false},
		"Short":    {"#fff", color.RGBA{}, true},
		"NotHex":   {"#gg0000", color.RGBA{}, true},
		"WithAlph": {"#ff000080", color.RGBA{}, true},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			got, err := parseColor(c.input)
			if c.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expected, got)
		})
	}
}
