package eqsys

import "strconv"

// Tolerance is the absolute uncertainty bound attached to a variable. The
// zero value is "unknown", meaning the bound has not been determined yet; a
// known bound, including a known zero, is built with Known. Keeping the two
// states distinct is what lets the engine tell a perfectly measured boundary
// variable from one it still has to derive.
type Tolerance struct {
	value float64
	known bool
}

// Known returns a determined tolerance. The bound is a magnitude, so the
// absolute value of v is stored.
func Known(v float64) Tolerance {
	if v < 0 {
		v = -v
	}
	return Tolerance{value: v, known: true}
}

// Unknown returns the not-yet-determined tolerance.
func Unknown() Tolerance { return Tolerance{} }

// IsKnown reports whether the tolerance has been determined.
func (t Tolerance) IsKnown() bool { return t.known }

// Value returns the bound and whether it is determined.
func (t Tolerance) Value() (float64, bool) { return t.value, t.known }

func (t Tolerance) String() string {
	if !t.known {
		return "unknown"
	}
	return strconv.FormatFloat(t.value, 'g', -1, 64)
}
