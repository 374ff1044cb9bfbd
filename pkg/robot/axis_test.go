package robot

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/armsim/pkg/render"
)

func TestDirection(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, Rotation.Vector())
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, Tilt.Vector())

	for _, d := range []Direction{Rotation, Tilt} {
		parsed, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
	_, err := ParseDirection("yaw")
	assert.Error(t, err)
}

func TestAxis_AdjustmentsCancel(t *testing.T) {
	dim := NewOrientationDimension(KeyBindings{}, 37, NewExtrema(-90, 90), 0)
	a := NewAxis("tilt", Tilt, mgl64.Vec3{0, 2, 0}, dim)
	s := render.NewStack()

	a.AdjustOrientation(s)
	assertNearMat4(t, mgl64.HomogRotate3DZ(mgl64.DegToRad(37)), s.Top())

	a.AdjustOrientationInversely(s)
	assertNearMat4(t, mgl64.Ident4(), s.Top())
}

func TestAxis_Scoped(t *testing.T) {
	dim := NewOrientationDimension(KeyBindings{}, 120, FullRange(), 0)
	a := NewAxis("roll", Rotation, mgl64.Vec3{}, dim)
	s := render.NewStack()

	var inside mgl64.Mat4
	a.Scoped(s, func() { inside = s.Top() })

	assertNearMat4(t, mgl64.HomogRotate3DY(mgl64.DegToRad(120)), inside)
	assertNearMat4(t, mgl64.Ident4(), s.Top())
}

func TestAxis_Transform(t *testing.T) {
	dim := NewOrientationDimension(KeyBindings{}, 90, NewExtrema(-90, 90), 0)
	a := NewAxis("tilt", Tilt, mgl64.Vec3{0, 2, 0}, dim)

	tip := mgl64.TransformCoordinate(mgl64.Vec3{0, 1, 0}, a.Transform())
	assertNearVec3(t, mgl64.Vec3{-1, 2, 0}, tip)
}
