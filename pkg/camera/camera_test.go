package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/gwillem/armsim/pkg/input"
)

type fixedTCP mgl64.Mat4

func (f fixedTCP) TCPTransform() mgl64.Mat4 { return mgl64.Mat4(f) }

type fakePointer struct{ dx, dy, wheel int }

func (p fakePointer) Drag() (int, int) { return p.dx, p.dy }
func (p fakePointer) Wheel() int       { return p.wheel }

var _ input.Pointer = fakePointer{}

type recordingViewer struct{ eye, center, up mgl64.Vec3 }

func (v *recordingViewer) LookAt(eye, center, up mgl64.Vec3) {
	v.eye, v.center, v.up = eye, center, up
}

func TestCamera_ToggleMode(t *testing.T) {
	c := New(nil)
	assert.Equal(t, Orbit, c.Mode())

	c.ToggleMode(TCP)
	assert.Equal(t, TCP, c.Mode())
	c.ToggleMode(ReverseTCP)
	assert.Equal(t, ReverseTCP, c.Mode())
	c.ToggleMode(ReverseTCP)
	assert.Equal(t, Orbit, c.Mode())
	c.ToggleMode(Orbit)
	assert.Equal(t, Orbit, c.Mode())
}

func TestCamera_OrbitDistance(t *testing.T) {
	c := New(nil)
	v := &recordingViewer{}
	c.Set(v)

	_, _, dist := c.Orbit()
	assert.InDelta(t, dist, v.eye.Sub(v.center).Len(), 1e-9)
	assert.Equal(t, defaultTarget, v.center)
}

func TestCamera_UpdateClamps(t *testing.T) {
	c := New(nil)
	c.Update(fakePointer{dy: 1000, wheel: 1000})
	_, el, dist := c.Orbit()
	assert.Equal(t, maxElevation, el)
	assert.Equal(t, minDistance, dist)

	c.Update(fakePointer{dy: -1000, wheel: -1000})
	_, el, dist = c.Orbit()
	assert.Equal(t, -maxElevation, el)
	assert.Equal(t, maxDistance, dist)

	c.Reset()
	az, el, dist := c.Orbit()
	assert.Equal(t, []float64{defaultAzimuth, defaultElevation, defaultDistance}, []float64{az, el, dist})
}

func TestCamera_TCPModes(t *testing.T) {
	// tool at (1, 10, 0) pointing along world -X
	tcp := mgl64.Translate3D(1, 10, 0).Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(90)))
	c := New(fixedTCP(tcp))
	v := &recordingViewer{}

	c.ToggleMode(TCP)
	c.Set(v)
	assertNearVec3(t, mgl64.Vec3{1, 10, 0}, v.eye)
	assertNearVec3(t, mgl64.Vec3{-1, 0, 0}, v.center.Sub(v.eye).Normalize())

	c.ToggleMode(ReverseTCP)
	c.Set(v)
	assertNearVec3(t, mgl64.Vec3{1, 10, 0}, v.center)
	assertNearVec3(t, mgl64.Vec3{1 - reverseDistance, 10, 0}, v.eye)
	assert.InDelta(t, 0, v.up.Dot(v.center.Sub(v.eye)), 1e-9, "up is perpendicular to the view")
}

func assertNearVec3(t *testing.T, want, got mgl64.Vec3, msgAndArgs ...any) bool {
	t.Helper()
	return assert.InDeltaSlice(t, want[:], got[:], 1e-9, msgAndArgs...)
}
