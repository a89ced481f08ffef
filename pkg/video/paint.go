package video

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var defaultConverter = NewConverter()

// ToImage returns the frame as an RGBA image with its orientation applied,
// or nil if it cannot be converted. The image is computed once and shared by
// copies of the frame until the pixels are mapped for writing or the
// orientation changes. It must not be modified.
func (f Frame) ToImage() *image.RGBA {
	if !f.IsValid() {
		return nil
	}
	compute := func() *image.RGBA {
		img, err := defaultConverter.Convert(f, ConvertOptions{})
		if err != nil {
			logger.Debugf("failed to convert %s: %v", f.format, err)
			return nil
		}
		return img
	}
	if f.cache == nil {
		return compute()
	}
	return f.cache.load(f.state.currentGeneration(), compute)
}

// PaintOptions control Paint. The zero value letterboxes the frame on black
// with bilinear scaling and draws subtitles in white 7x13 text.
type PaintOptions struct {
	// Convert, when set, converts with these options instead of using the
	// cached ToImage result.
	Convert   *ConvertOptions
	Converter *Converter
	Scaler    draw.Scaler
	// Stretch fills rect, ignoring the aspect ratio.
	Stretch    bool
	Background color.Color
	// Face defaults to basicfont.Face7x13.
	Face          font.Face
	SubtitleColor color.Color
	NoSubtitles   bool
}

const subtitleMargin = 4

// Paint scales the frame into rect of dst and overlays its subtitle text.
// It reports whether anything was drawn.
func (f Frame) Paint(dst draw.Image, rect image.Rectangle, opts PaintOptions) bool {
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return false
	}

	var img *image.RGBA
	if opts.Convert != nil {
		conv := opts.Converter
		if conv == nil {
			conv = defaultConverter
		}
		var err error
		if img, err = conv.Convert(f, *opts.Convert); err != nil {
			logger.Debugf("paint: %v", err)
		}
	} else {
		img = f.ToImage()
	}
	if img == nil {
		return false
	}

	target := rect
	if !opts.Stretch {
		target = fitRect(img.Bounds().Size(), rect)
	}
	if target != rect {
		bg := opts.Background
		if bg == nil {
			bg = color.Black
		}
		draw.Draw(dst, rect, image.NewUniform(bg), image.Point{}, draw.Src)
	}
	scaler := opts.Scaler
	if scaler == nil {
		scaler = draw.ApproxBiLinear
	}
	scaler.Scale(dst, target, img, img.Bounds(), draw.Over, nil)

	if text := f.SubtitleText(); text != "" && !opts.NoSubtitles {
		drawSubtitle(dst, target, text, opts)
	}
	return true
}

// fitRect returns the largest rectangle of size's aspect ratio centered in
// bounds.
func fitRect(size image.Point, bounds image.Rectangle) image.Rectangle {
	if size.X <= 0 || size.Y <= 0 {
		return bounds
	}
	w, h := bounds.Dx(), bounds.Dy()
	if w*size.Y > h*size.X {
		w = h * size.X / size.Y
	} else {
		h = w * size.Y / size.X
	}
	origin := bounds.Min.Add(image.Pt((bounds.Dx()-w)/2, (bounds.Dy()-h)/2))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}
}

// layoutSubtitle breaks text into lines no wider than width. Explicit line
// breaks are kept; a single word wider than width gets a line of its own.
func layoutSubtitle(face font.Face, text string, width fixed.Int26_6) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if font.MeasureString(face, candidate) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// drawSubtitle draws centered lines anchored to the bottom of area over a
// translucent backdrop.
func drawSubtitle(dst draw.Image, area image.Rectangle, text string, opts PaintOptions) {
	face := opts.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	fg := opts.SubtitleColor
	if fg == nil {
		fg = color.White
	}

	lines := layoutSubtitle(face, text, fixed.I(area.Dx()-2*subtitleMargin))
	if len(lines) == 0 {
		return
	}
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	var widest fixed.Int26_6
	for _, line := range lines {
		if w := font.MeasureString(face, line); w > widest {
			widest = w
		}
	}
	blockW := widest.Ceil() + 2*subtitleMargin
	blockH := lineHeight*len(lines) + 2*subtitleMargin
	block := image.Rect(0, 0, blockW, blockH).Add(image.Pt(
		area.Min.X+(area.Dx()-blockW)/2,
		area.Max.Y-subtitleMargin-blockH,
	)).Intersect(area)
	draw.Draw(dst, block, image.NewUniform(color.NRGBA{A: 0x80}), image.Point{}, draw.Over)

	d := font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: face}
	y := block.Min.Y + subtitleMargin + ascent
	for _, line := range lines {
		w := d.MeasureString(line)
		d.Dot = fixed.P(area.Min.X+(area.Dx()-w.Ceil())/2, y)
		d.DrawString(line)
		y += lineHeight
	}
}
