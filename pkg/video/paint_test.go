package video

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func uniformFrame(size image.Point, c color.RGBA) Frame {
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	return NewFrameFromImage(img)
}

func TestPaintLetterbox(t *testing.T) {
	red := color.RGBA{0xFF, 0, 0, 0xFF}
	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	f := uniformFrame(image.Pt(4, 2), red)

	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	draw.Draw(dst, dst.Rect, image.NewUniform(white), image.Point{}, draw.Src)
	require.True(t, f.Paint(dst, dst.Rect, PaintOptions{}))

	black := color.RGBA{0, 0, 0, 0xFF}
	for _, y := range []int{0, 1, 6, 7} {
		assert.Equal(t, black, dst.RGBAAt(4, y), "row %d", y)
	}
	for _, y := range []int{2, 3, 4, 5} {
		assert.Equal(t, red, dst.RGBAAt(4, y), "row %d", y)
	}
}

func TestPaintStretch(t *testing.T) {
	red := color.RGBA{0xFF, 0, 0, 0xFF}
	f := uniformFrame(image.Pt(4, 2), red)

	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	require.True(t, f.Paint(dst, dst.Rect, PaintOptions{Stretch: true}))
	assert.Equal(t, red, dst.RGBAAt(0, 0))
	assert.Equal(t, red, dst.RGBAAt(7, 7))
}

func TestPaintNothing(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	assert.False(t, Frame{}.Paint(dst, dst.Rect, PaintOptions{}))

	f := uniformFrame(image.Pt(2, 2), color.RGBA{A: 0xFF})
	assert.False(t, f.Paint(dst, image.Rect(20, 20, 30, 30), PaintOptions{}))
}

func TestFitRect(t *testing.T) {
	cases := []struct {
		size     image.Point
		bounds   image.Rectangle
		expected image.Rectangle
	}{
		{image.Pt(4, 2), image.Rect(0, 0, 8, 8), image.Rect(0, 2, 8, 6)},
		{image.Pt(2, 4), image.Rect(0, 0, 8, 8), image.Rect(2, 0, 6, 8)},
		{image.Pt(16, 9), image.Rect(10, 10, 26, 19), image.Rect(10, 10, 26, 19)},
		{image.Point{}, image.Rect(0, 0, 8, 8), image.Rect(0, 0, 8, 8)},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, fitRect(c.size, c.bounds))
	}
}

func TestLayoutSubtitle(t *testing.T) {
	face := basicfont.Face7x13
	cases := map[string]struct {
		text     string
		expected []string
	}{
		"Wrap":         {"aa bb cc", []string{"aa", "bb", "cc"}},
		"LineBreak":    {"aa\nbb", []string{"aa", "bb"}},
		"LongWord":     {"abcdefgh a", []string{"abcdefgh", "a"}},
		"BlankLines":   {"\n\n", nil},
		"ExtraSpacing": {"  ab  ", []string{"ab"}},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.expected, layoutSubtitle(face, c.text, fixed.I(20)))
		})
	}
}

func TestPaintSubtitle(t *testing.T) {
	gray := color.RGBA{0x40, 0x40, 0x40, 0xFF}
	f := uniformFrame(image.Pt(64, 32), gray)
	f.SetSubtitleText("hi")

	plain := image.NewRGBA(image.Rect(0, 0, 64, 32))
	require.True(t, f.Paint(plain, plain.Rect, PaintOptions{NoSubtitles: true}))
	titled := image.NewRGBA(image.Rect(0, 0, 64, 32))
	require.True(t, f.Paint(titled, titled.Rect, PaintOptions{}))

	assert.Equal(t, gray, plain.RGBAAt(32, 28))
	assert.NotEqual(t, plain.Pix, titled.Pix)
	// The text sits at the bottom, the top rows are untouched.
	assert.Equal(t, plain.Pix[:plain.Stride*4], titled.Pix[:titled.Stride*4])
}
