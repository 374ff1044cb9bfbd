package robot

import (
	"fmt"
	"math"
)

// FullCircle is the spread at which a joint wraps instead of clipping.
const FullCircle = 360.0

// Extrema is an immutable (min, max) pair with Min < Max.
type Extrema struct {
	min, max float64
}

// NewExtrema returns the pair. min >= max is a configuration bug and panics.
func NewExtrema(min, max float64) Extrema {
	if !(min < max) {
		panic(fmt.Sprintf("robot: invalid extrema [%g, %g]", min, max))
	}
	return Extrema{min: min, max: max}
}

// FullRange returns limits covering a whole turn.
func FullRange() Extrema {
	return Extrema{min: 0, max: FullCircle}
}

func (e Extrema) Min() float64 { return e.min }
func (e Extrema) Max() float64 { return e.max }

// Spread returns max - min.
func (e Extrema) Spread() float64 { return e.max - e.min }

// Mid returns the center of the range.
func (e Extrema) Mid() float64 { return (e.min + e.max) / 2 }

// Contains reports whether v lies in [min, max].
func (e Extrema) Contains(v float64) bool { return v >= e.min && v <= e.max }

// Clip clamps v into [min, max].
func (e Extrema) Clip(v float64) float64 { return math.Min(math.Max(v, e.min), e.max) }

func (e Extrema) String() string { return fmt.Sprintf("[%g, %g]", e.min, e.max) }

// wrapAngle maps degrees into [0, 360).
func wrapAngle(deg float64) float64 {
	deg = math.Mod(deg, FullCircle)
	if deg < 0 {
		deg += FullCircle
	}
	if deg >= FullCircle {
		// -tiny + 360 rounds up to 360
		deg = 0
	}
	return deg
}

// angleDelta returns the signed shortest rotation from a to b in degrees, in (-180, 180].
func angleDelta(a, b float64) float64 {
	d := wrapAngle(b - a)
	if d > FullCircle/2 {
		d -= FullCircle
	}
	return d
}
