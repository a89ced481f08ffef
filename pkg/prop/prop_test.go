package prop

import (
	"image"
	"testing"

	"github.com/pion/videoframe/pkg/colorspace"
	"github.com/pion/videoframe/pkg/frame"
)

func newFormat(w, h int, pf frame.PixelFormat, fps float64) frame.Format {
	f := frame.NewFormat(image.Pt(w, h), pf)
	f.SetFrameRate(fps)
	return f
}

func TestCompareMatch(t *testing.T) {
	format := newFormat(1280, 720, frame.YUYV, 30)

	testDataSet := map[string]struct {
		c     VideoConstraints
		match bool
	}{
		"Empty": {VideoConstraints{}, true},
		"WidthExactMatch": {
			VideoConstraints{Width: Exact[int]{1280}},
			true,
		},
		"WidthExactUnmatch": {
			VideoConstraints{Width: Exact[int]{640}},
			false,
		},
		"WidthIdealUnmatch": {
			VideoConstraints{Width: Ideal[int]{640}},
			true,
		},
		"HeightOneOfMatch": {
			VideoConstraints{Height: OneOf[int]{480, 720}},
			true,
		},
		"HeightOneOfUnmatch": {
			VideoConstraints{Height: OneOf[int]{480, 1080}},
			false,
		},
		"FrameRateRangedMatch": {
			VideoConstraints{FrameRate: Ranged[float64]{Min: 15, Max: 60}},
			true,
		},
		"FrameRateRangedUnmatch": {
			VideoConstraints{FrameRate: Ranged[float64]{Min: 50}},
			false,
		},
		"PixelFormatExactMatch": {
			VideoConstraints{PixelFormat: Exact[frame.PixelFormat]{frame.YUYV}},
			true,
		},
		"PixelFormatOneOfUnmatch": {
			VideoConstraints{PixelFormat: OneOf[frame.PixelFormat]{frame.NV12, frame.Jpeg}},
			false,
		},
		"ColorSpaceExactUnmatch": {
			VideoConstraints{ColorSpace: Exact[colorspace.ColorSpace]{colorspace.SpaceBT709}},
			false,
		},
	}

	for name, data := range testDataSet {
		t.Run(name, func(t *testing.T) {
			_, match := data.c.Compare(format)
			if match != data.match {
				t.Errorf("expected match=%v, got %v", data.match, match)
			}
		})
	}
}

func TestFitnessDistance(t *testing.T) {
	testDataSet := map[string]struct {
		c        Constraint[int]
		value    int
		expected float64
	}{
		"IdealSame":        {Ideal[int]{640}, 640, 0},
		"IdealHalf":        {Ideal[int]{640}, 320, 0.5},
		"RangedNoIdeal":    {Ranged[int]{Min: 100, Max: 200}, 150, 0},
		"RangedBelowIdeal": {Ranged[int]{Min: 100, Max: 300, Ideal: 200}, 150, 0.5},
		"RangedAboveIdeal": {Ranged[int]{Min: 100, Max: 300, Ideal: 200}, 275, 0.75},
		"RangedOpenMin":    {Ranged[int]{Max: 300, Ideal: 200}, 10, 0},
		"RangedOpenMax":    {Ranged[int]{Min: 100, Ideal: 200}, 1000, 0},
	}

	for name, data := range testDataSet {
		t.Run(name, func(t *testing.T) {
			dist, _ := data.c.Compare(data.value)
			if dist != data.expected {
				t.Errorf("expected distance %v, got %v", data.expected, dist)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	formats := []frame.Format{
		newFormat(640, 480, frame.YUYV, 30),
		newFormat(1280, 720, frame.YUYV, 10),
		newFormat(1280, 720, frame.Jpeg, 30),
		newFormat(1920, 1080, frame.Jpeg, 30),
	}

	testDataSet := map[string]struct {
		c        VideoConstraints
		expected int
		ok       bool
	}{
		"Empty": {VideoConstraints{}, 0, true},
		"IdealSize": {
			VideoConstraints{Width: Ideal[int]{1280}, Height: Ideal[int]{720}},
			1, true,
		},
		"IdealSizeAndRate": {
			VideoConstraints{Width: Ideal[int]{1280}, Height: Ideal[int]{720}, FrameRate: Ideal[float64]{30}},
			2, true,
		},
		"ExactFormat": {
			VideoConstraints{PixelFormat: Exact[frame.PixelFormat]{frame.Jpeg}, Width: Ideal[int]{1920}},
			3, true,
		},
		"NoMatch": {
			VideoConstraints{Width: Exact[int]{320}},
			0, false,
		},
	}

	for name, data := range testDataSet {
		t.Run(name, func(t *testing.T) {
			f, ok := data.c.Select(formats)
			if ok != data.ok {
				t.Fatalf("expected ok=%v, got %v", data.ok, ok)
			}
			if ok && !f.Equal(formats[data.expected]) {
				t.Errorf("expected %v, got %v", formats[data.expected], f)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	c := VideoConstraints{
		Width:     Ideal[int]{640},
		FrameRate: Ideal[float64]{30},
	}
	c.Merge(VideoConstraints{
		Width:       Exact[int]{1280},
		PixelFormat: Exact[frame.PixelFormat]{frame.NV12},
	})

	if v, _ := c.Width.Value(); v != 1280 {
		t.Errorf("expected merged width 1280, got %d", v)
	}
	if v, _ := c.FrameRate.Value(); v != 30 {
		t.Errorf("expected frame rate to be kept, got %v", v)
	}
	if v, _ := c.PixelFormat.Value(); v != frame.NV12 {
		t.Errorf("expected merged pixel format, got %v", v)
	}
	if c.Height != nil {
		t.Error("expected height to stay unset")
	}
}
