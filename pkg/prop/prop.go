// Package prop selects capture formats by constraints, scoring candidates
// with the fitness distance of the W3C media capture model.
package prop

import (
	"math"

	"github.com/pion/videoframe/pkg/colorspace"
	"github.com/pion/videoframe/pkg/frame"
)

// VideoConstraints restrict the formats a capture source may produce. Nil
// fields accept anything.
type VideoConstraints struct {
	Width, Height Constraint[int]
	FrameRate     Constraint[float64]
	PixelFormat   Constraint[frame.PixelFormat]
	ColorSpace    Constraint[colorspace.ColorSpace]
}

// Compare returns the fitness distance of f and whether every constraint
// accepts it.
func (c *VideoConstraints) Compare(f frame.Format) (float64, bool) {
	var dist float64
	ok := true
	add := func(d float64, accepted bool) {
		dist += d
		ok = ok && accepted
	}
	if c.Width != nil {
		add(c.Width.Compare(f.FrameWidth()))
	}
	if c.Height != nil {
		add(c.Height.Compare(f.FrameHeight()))
	}
	if c.FrameRate != nil {
		add(c.FrameRate.Compare(f.FrameRate()))
	}
	if c.PixelFormat != nil {
		add(c.PixelFormat.Compare(f.PixelFormat()))
	}
	if c.ColorSpace != nil {
		add(c.ColorSpace.Compare(f.ColorSpace()))
	}
	return dist, ok
}

// Select returns the acceptable format with the smallest fitness distance.
// Ties go to the earlier format.
func (c *VideoConstraints) Select(formats []frame.Format) (frame.Format, bool) {
	best, bestDist := frame.Format{}, math.Inf(1)
	for _, f := range formats {
		dist, ok := c.Compare(f)
		if !ok || dist >= bestDist {
			continue
		}
		best, bestDist = f, dist
	}
	return best, !math.IsInf(bestDist, 1)
}

// Merge copies the constraints set in o over those of c.
func (c *VideoConstraints) Merge(o VideoConstraints) {
	if o.Width != nil {
		c.Width = o.Width
	}
	if o.Height != nil {
		c.Height = o.Height
	}
	if o.FrameRate != nil {
		c.FrameRate = o.FrameRate
	}
	if o.PixelFormat != nil {
		c.PixelFormat = o.PixelFormat
	}
	if o.ColorSpace != nil {
		c.ColorSpace = o.ColorSpace
	}
}
