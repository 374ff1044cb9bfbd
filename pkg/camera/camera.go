// Package camera places the viewer: orbiting the scene or riding on the robot's tool.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gwillem/armsim/pkg/input"
)

// Mode selects how the camera is placed.
type Mode int

const (
	// Orbit circles a fixed target, steered by the mouse.
	Orbit Mode = iota
	// TCP looks out of the tool center point along the tool axis.
	TCP
	// ReverseTCP looks back at the tool from in front of it.
	ReverseTCP
)

func (m Mode) String() string {
	switch m {
	case TCP:
		return "tcp"
	case ReverseTCP:
		return "reverse tcp"
	}
	return "orbit"
}

const (
	defaultAzimuth   = 35.0
	defaultElevation = 25.0
	defaultDistance  = 34.0

	degreesPerCell = 2.0
	zoomStep       = 1.5
	minDistance    = 4.0
	maxDistance    = 120.0
	maxElevation   = 85.0

	reverseDistance = 8.0
	lookAhead       = 10.0
)

var defaultTarget = mgl64.Vec3{0, 6, 0}

// TCPSource provides the tool center point transform.
type TCPSource interface {
	TCPTransform() mgl64.Mat4
}

// Viewer accepts a camera placement.
type Viewer interface {
	LookAt(eye, center, up mgl64.Vec3)
}

// Camera places the viewer each frame.
type Camera struct {
	src TCPSource

	mode      Mode
	azimuth   float64
	elevation float64
	distance  float64
	target    mgl64.Vec3
}

// New returns an orbiting camera. src is read in the TCP modes.
func New(src TCPSource) *Camera {
	c := &Camera{src: src}
	c.Reset()
	return c
}

// Reset returns to the default orbit.
func (c *Camera) Reset() {
	c.mode = Orbit
	c.azimuth = defaultAzimuth
	c.elevation = defaultElevation
	c.distance = defaultDistance
	c.target = defaultTarget
}

// ToggleMode switches to m, or back to Orbit if m is already active.
func (c *Camera) ToggleMode(m Mode) {
	if c.mode == m {
		c.mode = Orbit
		return
	}
	c.mode = m
}

// Mode returns the active mode.
func (c *Camera) Mode() Mode { return c.mode }

// Update applies mouse drag and wheel to the orbit.
func (c *Camera) Update(p input.Pointer) {
	dx, dy := p.Drag()
	c.azimuth = math.Mod(c.azimuth-float64(dx)*degreesPerCell, 360)
	c.elevation = clamp(c.elevation+float64(dy)*degreesPerCell, -maxElevation, maxElevation)
	c.distance = clamp(c.distance-float64(p.Wheel())*zoomStep, minDistance, maxDistance)
}

// Orbit returns azimuth, elevation and distance of the orbit.
func (c *Camera) Orbit() (azimuth, elevation, distance float64) {
	return c.azimuth, c.elevation, c.distance
}

// Placement returns eye, center and up vector for the active mode.
func (c *Camera) Placement() (eye, center, up mgl64.Vec3) {
	if c.mode == Orbit || c.src == nil {
		az, el := mgl64.DegToRad(c.azimuth), mgl64.DegToRad(c.elevation)
		offset := mgl64.Vec3{
			math.Cos(el) * math.Sin(az),
			math.Sin(el),
			math.Cos(el) * math.Cos(az),
		}
		return c.target.Add(offset.Mul(c.distance)), c.target, mgl64.Vec3{0, 1, 0}
	}

	tcp := c.src.TCPTransform()
	pos := tcp.Col(3).Vec3()
	tool := mgl64.TransformNormal(mgl64.Vec3{0, 1, 0}, tcp).Normalize()
	up = mgl64.TransformNormal(mgl64.Vec3{0, 0, 1}, tcp).Normalize()

	if c.mode == TCP {
		return pos, pos.Add(tool.Mul(lookAhead)), up
	}
	return pos.Add(tool.Mul(reverseDistance)), pos, up
}

// Set applies the camera to v.
func (c *Camera) Set(v Viewer) {
	v.LookAt(c.Placement())
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
