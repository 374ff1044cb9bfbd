package robot

import (
	"math"
	"math/rand/v2"

	"github.com/gwillem/armsim/pkg/input"
)

const (
	// DefaultMaxVelocity is the joint speed cap in degrees per tick.
	DefaultMaxVelocity = 3.0

	// Acceleration is the velocity gained per tick while a key is held.
	Acceleration = 0.15

	// Damping is the factor velocity decays by per tick once keys are released.
	Damping = 0.8

	// FineDivisor scales the speed cap down in fine mode.
	FineDivisor = 4.0

	// ApproachEpsilon is how close, in degrees, an approach must get to its target.
	ApproachEpsilon = 1e-3

	restVelocity = 0.01
)

// KeyBindings are the keys driving one orientation dimension.
type KeyBindings struct {
	Increment input.Key `json:"increment" yaml:"increment"`
	Decrement input.Key `json:"decrement" yaml:"decrement"`
	Velocity  input.Key `json:"velocity" yaml:"velocity"`
}

// OrientationDimension is the scalar state of one joint: angle, velocity and limits.
//
// The angle stays within the limits, or within [0, 360) for full range dimensions,
// and the velocity magnitude never exceeds the max velocity.
type OrientationDimension struct {
	keys        KeyBindings
	startAngle  float64
	limits      Extrema
	fullRange   bool
	maxVelocity float64

	angle        float64
	velocity     float64
	fine         bool
	limitReached bool
}

// NewOrientationDimension returns a dimension resting at startAngle. A limits spread
// of a whole turn or more makes it a full range dimension.
func NewOrientationDimension(keys KeyBindings, startAngle float64, limits Extrema, maxVelocity float64) *OrientationDimension {
	if maxVelocity <= 0 {
		maxVelocity = DefaultMaxVelocity
	}
	d := &OrientationDimension{
		keys:        keys,
		limits:      limits,
		fullRange:   limits.Spread() >= FullCircle,
		maxVelocity: maxVelocity,
	}
	d.angle = startAngle
	d.constrain()
	d.startAngle = d.angle
	d.limitReached = false
	return d
}

// Update reads the bound keys and advances the dimension by one tick.
func (d *OrientationDimension) Update(keys input.Keys) {
	if d.keys.Velocity != "" && keys.Pressed(d.keys.Velocity) {
		d.fine = !d.fine
	}
	d.updateVelocity(keys)
	d.updatePosition()
}

func (d *OrientationDimension) updateVelocity(keys input.Keys) {
	limit := d.velocityCap()
	inc := d.keys.Increment != "" && keys.Down(d.keys.Increment)
	dec := d.keys.Decrement != "" && keys.Down(d.keys.Decrement)

	switch {
	case inc && !dec:
		d.velocity += Acceleration
	case dec && !inc:
		d.velocity -= Acceleration
	default:
		d.velocity *= Damping
		if math.Abs(d.velocity) < restVelocity {
			d.velocity = 0
		}
	}
	d.velocity = math.Max(-limit, math.Min(d.velocity, limit))
}

func (d *OrientationDimension) updatePosition() {
	d.angle += d.velocity
	d.constrain()
}

// constrain clips or wraps the angle and records whether a limit was hit.
func (d *OrientationDimension) constrain() {
	d.limitReached = false
	if d.fullRange {
		d.angle = wrapAngle(d.angle)
		return
	}
	if !d.limits.Contains(d.angle) {
		d.angle = d.limits.Clip(d.angle)
		d.velocity = 0
		d.limitReached = true
	}
}

func (d *OrientationDimension) velocityCap() float64 {
	if d.fine {
		return d.maxVelocity / FineDivisor
	}
	return d.maxVelocity
}

// AngleLimitReached reports whether the angle was clipped this tick or rests on a bound.
// Always false for full range dimensions.
func (d *OrientationDimension) AngleLimitReached() bool {
	if d.fullRange {
		return false
	}
	return d.limitReached || d.angle == d.limits.Min() || d.angle == d.limits.Max()
}

// SetArbitraryAngle jumps to a uniformly sampled legal angle.
func (d *OrientationDimension) SetArbitraryAngle(rng *rand.Rand) {
	d.angle = d.RandomAngle(rng)
	d.velocity = 0
	d.limitReached = false
}

// RandomAngle samples a legal angle without assigning it.
func (d *OrientationDimension) RandomAngle(rng *rand.Rand) float64 {
	if d.fullRange {
		return wrapAngle(rng.Float64() * FullCircle)
	}
	return d.limits.Min() + rng.Float64()*d.limits.Spread()
}

// Legal normalizes a target angle into the dimension's range.
func (d *OrientationDimension) Legal(angle float64) float64 {
	if d.fullRange {
		return wrapAngle(angle)
	}
	return d.limits.Clip(angle)
}

// StepToward moves the angle at most one max-velocity step toward target, taking the
// short way round on full range dimensions. It reports whether target is reached.
func (d *OrientationDimension) StepToward(target float64) bool {
	target = d.Legal(target)
	diff := d.distanceTo(target)
	if math.Abs(diff) <= ApproachEpsilon {
		d.angle = target
		d.limitReached = false
		return true
	}
	step := math.Max(-d.maxVelocity, math.Min(diff, d.maxVelocity))
	d.angle += step
	d.constrain()
	if math.Abs(d.distanceTo(target)) <= ApproachEpsilon {
		d.angle = target
		return true
	}
	return false
}

func (d *OrientationDimension) distanceTo(target float64) float64 {
	if d.fullRange {
		return angleDelta(d.angle, target)
	}
	return target - d.angle
}

// Reset restores the start angle and stops the dimension.
func (d *OrientationDimension) Reset() {
	d.angle = d.startAngle
	d.velocity = 0
	d.fine = false
	d.limitReached = false
}

func (d *OrientationDimension) Angle() float64       { return d.angle }
func (d *OrientationDimension) Velocity() float64    { return d.velocity }
func (d *OrientationDimension) StartAngle() float64  { return d.startAngle }
func (d *OrientationDimension) Limits() Extrema      { return d.limits }
func (d *OrientationDimension) FullRange() bool      { return d.fullRange }
func (d *OrientationDimension) MaxVelocity() float64 { return d.maxVelocity }
func (d *OrientationDimension) Fine() bool           { return d.fine }
func (d *OrientationDimension) Keys() KeyBindings    { return d.keys }
