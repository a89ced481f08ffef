// Package transform folds the rotation and mirroring declared by a surface,
// a frame and its consumer into one normalized orientation.
package transform

import (
	"fmt"

	"github.com/pion/videoframe/internal/logging"
)

var logger = logging.NewLogger("transform")

// Rotation is a clockwise rotation in degrees. Only quarter turns are valid.
type Rotation int

const (
	RotationNone Rotation = 0
	Rotation90   Rotation = 90
	Rotation180  Rotation = 180
	Rotation270  Rotation = 270
)

// RotationFromDegrees converts an angle to a Rotation. Negative angles and
// angles beyond a full turn are wrapped. Angles that are not a multiple of 90
// log a warning and yield RotationNone.
func RotationFromDegrees(degrees int) Rotation {
	if degrees%90 != 0 {
		logger.Warnf("invalid rotation angle %d, it must be a multiple of 90 degrees", degrees)
		return RotationNone
	}
	return rotationFromIndex(degrees / 90)
}

func rotationFromIndex(steps int) Rotation {
	steps %= 4
	if steps < 0 {
		steps += 4
	}
	return Rotation(steps * 90)
}

// Index returns the number of clockwise quarter turns, in [0, 4).
func (r Rotation) Index() int {
	steps := (int(r) / 90) % 4
	if steps < 0 {
		steps += 4
	}
	return steps
}

// Add returns the rotation obtained by turning r by other.
func (r Rotation) Add(other Rotation) Rotation {
	return rotationFromIndex(r.Index() + other.Index())
}

// Inverse returns the rotation that undoes r.
func (r Rotation) Inverse() Rotation {
	return rotationFromIndex(-r.Index())
}

// SwapsDimensions reports whether r exchanges width and height.
func (r Rotation) SwapsDimensions() bool {
	return r.Index()%2 == 1
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", r.Index()*90)
}
