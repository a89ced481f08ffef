package transform

import "image"

// Transformation is a canonical orientation: the image is first rotated
// clockwise by Rotation and then, if MirroredHorizontallyAfterRotation is set,
// flipped around its vertical axis. The zero value is the identity.
type Transformation struct {
	Rotation                          Rotation
	MirroredHorizontallyAfterRotation bool
}

// Identity is the transformation that leaves an image untouched.
var Identity = Transformation{}

// RotationIndex returns the number of clockwise quarter turns, in [0, 4).
func (t Transformation) RotationIndex() int {
	return t.Rotation.Index()
}

// IsIdentity reports whether t leaves an image untouched.
func (t Transformation) IsIdentity() bool {
	return t.Rotation.Index() == 0 && !t.MirroredHorizontallyAfterRotation
}

// Rotate returns t followed by a clockwise rotation r.
//
// A rotation applied after a horizontal mirror turns the other way round the
// unmirrored image, so r is negated while t is mirrored. For quarter turns this
// is the same as adding two extra steps.
func (t Transformation) Rotate(r Rotation) Transformation {
	steps := r.Index()
	if t.MirroredHorizontallyAfterRotation {
		steps = -steps
	}
	t.Rotation = rotationFromIndex(t.Rotation.Index() + steps)
	return t
}

// MirrorHorizontally returns t followed by a flip around the vertical axis.
func (t Transformation) MirrorHorizontally() Transformation {
	t.MirroredHorizontallyAfterRotation = !t.MirroredHorizontallyAfterRotation
	return t
}

// MirrorVertically returns t followed by a flip around the horizontal axis,
// expressed as a horizontal flip plus a half turn.
func (t Transformation) MirrorVertically() Transformation {
	return t.MirrorHorizontally().Rotate(Rotation180)
}

// Then returns t followed by other.
func (t Transformation) Then(other Transformation) Transformation {
	t = t.Rotate(other.Rotation)
	if other.MirroredHorizontallyAfterRotation {
		t = t.MirrorHorizontally()
	}
	return t
}

// Inverse returns the transformation that undoes t.
func (t Transformation) Inverse() Transformation {
	inv := Identity
	if t.MirroredHorizontallyAfterRotation {
		inv = inv.MirrorHorizontally()
	}
	return inv.Rotate(t.Rotation.Inverse())
}

// Size returns the dimensions of a w×h image after t is applied.
func (t Transformation) Size(size image.Point) image.Point {
	if t.Rotation.SwapsDimensions() {
		return image.Pt(size.Y, size.X)
	}
	return size
}

// Surface folds the orientation declared by a surface: a bottom-to-top scan
// line order first, then the surface rotation, then its mirror flag.
func Surface(rotation Rotation, mirrored, bottomToTop bool) Transformation {
	t := Identity
	if bottomToTop {
		t = t.MirrorVertically()
	}
	t = t.Rotate(rotation)
	if mirrored {
		t = t.MirrorHorizontally()
	}
	return t
}

// Frame extends a surface orientation with the rotation and mirroring set on
// an individual frame and an extra rotation requested by the consumer.
func Frame(surface Transformation, rotation Rotation, mirrored bool, additional Rotation) Transformation {
	t := surface.Rotate(rotation)
	if mirrored {
		t = t.MirrorHorizontally()
	}
	return t.Rotate(additional)
}
