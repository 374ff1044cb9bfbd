package robot

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gwillem/armsim/pkg/render"
)

// Direction selects the local axis a joint spins around.
type Direction int

const (
	// Rotation spins around the chain's local up axis.
	Rotation Direction = iota
	// Tilt spins around the local axis perpendicular to the arm plane.
	Tilt
)

// Vector returns the local unit vector of the direction.
func (d Direction) Vector() mgl64.Vec3 {
	if d == Tilt {
		return mgl64.Vec3{0, 0, 1}
	}
	return mgl64.Vec3{0, 1, 0}
}

func (d Direction) String() string {
	if d == Tilt {
		return "tilt"
	}
	return "rotation"
}

// ParseDirection parses "rotation" or "tilt".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "rotation", "":
		return Rotation, nil
	case "tilt":
		return Tilt, nil
	}
	return 0, fmt.Errorf("unknown axis direction %q", s)
}

// Axis is one rotational degree of freedom in the kinematic chain.
type Axis struct {
	Name        string
	Orientation *OrientationDimension
	Direction   Direction
	// Offset moves from the previous joint frame to this joint.
	Offset mgl64.Vec3
}

// NewAxis returns an axis owning orientation.
func NewAxis(name string, dir Direction, offset mgl64.Vec3, orientation *OrientationDimension) *Axis {
	return &Axis{
		Name:        name,
		Orientation: orientation,
		Direction:   dir,
		Offset:      offset,
	}
}

// AdjustOrientation rotates the current transform by the joint angle.
func (a *Axis) AdjustOrientation(t render.Transformer) {
	t.Rotate(a.Orientation.Angle(), a.Direction.Vector())
}

// AdjustOrientationInversely undoes AdjustOrientation. Calls must nest LIFO with it.
func (a *Axis) AdjustOrientationInversely(t render.Transformer) {
	t.Rotate(-a.Orientation.Angle(), a.Direction.Vector())
}

// Scoped runs fn inside the joint's frame and restores the outer frame afterwards.
func (a *Axis) Scoped(t render.Transformer, fn func()) {
	a.AdjustOrientation(t)
	defer a.AdjustOrientationInversely(t)
	fn()
}

// Transform returns the joint's local transform: its offset followed by its rotation.
func (a *Axis) Transform() mgl64.Mat4 {
	return mgl64.Translate3D(a.Offset[0], a.Offset[1], a.Offset[2]).
		Mul4(mgl64.HomogRotate3D(mgl64.DegToRad(a.Orientation.Angle()), a.Direction.Vector()))
}
