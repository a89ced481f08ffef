package prop

import (
	"fmt"
	"math"
	"strings"
)

// Constraint scores a property value. Compare returns the fitness distance,
// 0 for a perfect match, and whether the value is acceptable at all.
type Constraint[T any] interface {
	Compare(T) (float64, bool)
	// Value returns the single value the constraint asks for, if it has one.
	Value() (T, bool)
}

type number interface {
	~int | ~float32 | ~float64
}

// Ideal specifies a preferred value. Any value may be selected, but the
// closest takes priority.
type Ideal[T number] struct{ V T }

// Compare implements Constraint.
func (i Ideal[T]) Compare(a T) (float64, bool) {
	x, ideal := float64(a), float64(i.V)
	if x == ideal {
		return 0.0, true
	}
	return math.Abs(x-ideal) / math.Max(math.Abs(x), math.Abs(ideal)), true
}

// Value implements Constraint.
func (i Ideal[T]) Value() (T, bool) { return i.V, true }

func (i Ideal[T]) String() string { return fmt.Sprintf("%v (ideal)", i.V) }

// Exact specifies the only acceptable value.
type Exact[T comparable] struct{ V T }

// Compare implements Constraint.
func (e Exact[T]) Compare(a T) (float64, bool) {
	if e.V == a {
		return 0.0, true
	}
	return 1.0, false
}

// Value implements Constraint.
func (e Exact[T]) Value() (T, bool) { return e.V, true }

func (e Exact[T]) String() string { return fmt.Sprintf("%v (exact)", e.V) }

// OneOf specifies a list of acceptable values.
type OneOf[T comparable] []T

// Compare implements Constraint.
func (o OneOf[T]) Compare(a T) (float64, bool) {
	for _, v := range o {
		if v == a {
			return 0.0, true
		}
	}
	return 1.0, false
}

// Value implements Constraint.
func (OneOf[T]) Value() (T, bool) {
	var zero T
	return zero, false
}

func (o OneOf[T]) String() string {
	opts := make([]string, len(o))
	for i, v := range o {
		opts[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%s (one of values)", strings.Join(opts, ","))
}

// Ranged specifies a range of acceptable values. Zero bounds are open. If
// Ideal is non-zero, the closest value to Ideal takes priority.
type Ranged[T number] struct {
	Min   T
	Max   T
	Ideal T
}

// Compare implements Constraint.
func (r Ranged[T]) Compare(a T) (float64, bool) {
	if r.Min != 0 && r.Min > a {
		// Out of range
		return 1.0, false
	}
	if r.Max != 0 && r.Max < a {
		// Out of range
		return 1.0, false
	}
	if r.Ideal == 0 {
		// Within the range, any value is evenly acceptable.
		return 0.0, true
	}
	switch {
	case a == r.Ideal:
		return 0.0, true
	case a < r.Ideal:
		if r.Min == 0 {
			return 0.0, true
		}
		return float64(r.Ideal-a) / float64(r.Ideal-r.Min), true
	default:
		if r.Max == 0 {
			return 0.0, true
		}
		return float64(a-r.Ideal) / float64(r.Max-r.Ideal), true
	}
}

// Value implements Constraint.
func (Ranged[T]) Value() (T, bool) {
	var zero T
	return zero, false
}

func (r Ranged[T]) String() string {
	return fmt.Sprintf("%v - %v (range), %v (ideal)", r.Min, r.Max, r.Ideal)
}
