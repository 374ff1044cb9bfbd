package robot

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gwillem/armsim/pkg/render"
)

// Model dimensions in scene units.
const (
	pedestalHeight      = 3.0
	pedestalRadius      = 1.6
	lowerCylinderHeight = 1.6
	lowerCylinderRadius = 1.2
	turretHeight        = 1.6
	upperArmLength      = 6.0
	forearmLength       = 5.0
	linkWidth           = 0.8
	screwCircleRadius   = 1.35
	screwCount          = 8
	tcpFrameLength      = 2.0
)

// Part colors.
const (
	baseColor   render.Color = "245"
	steelColor  render.Color = "250"
	armColor    render.Color = "208"
	jointColor  render.Color = "214"
	weightColor render.Color = "240"
	screwColor  render.Color = "252"
)

// PartFunc draws a piece of geometry in the current model frame.
type PartFunc func(p render.Painter)

// DefaultParts returns the geometry available to robot descriptions by name.
func DefaultParts() map[string]PartFunc {
	return map[string]PartFunc{
		"pedestal":      drawPedestal,
		"base":          drawBase,
		"screws":        drawScrewCircle,
		"turret":        drawTurret,
		"counterweight": drawAxisWeight,
		"upper_arm":     link(upperArmLength),
		"forearm":       link(forearmLength),
		"wrist":         drawWrist,
	}
}

func drawPedestal(p render.Painter) {
	render.Cylinder(p, pedestalRadius, pedestalHeight, 16, baseColor)
}

func drawBase(p render.Painter) {
	p.Push()
	defer p.Pop()
	p.Translate(mgl64.Vec3{0, pedestalHeight, 0})
	render.Cylinder(p, lowerCylinderRadius, lowerCylinderHeight, 12, steelColor)
}

// drawScrewCircle puts screw heads around the top of the pedestal.
func drawScrewCircle(p render.Painter) {
	for _, pos := range screwPositions(screwCircleRadius, screwCount) {
		p.Push()
		p.Translate(mgl64.Vec3{pos[0], pedestalHeight, pos[1]})
		render.Cylinder(p, 0.12, 0.15, 4, screwColor)
		p.Pop()
	}
}

// screwPositions returns n points evenly spaced on a circle in the XZ plane.
func screwPositions(radius float64, n int) [][2]float64 {
	points := make([][2]float64, n)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(n)
		points[i] = [2]float64{radius * math.Cos(a), radius * math.Sin(a)}
	}
	return points
}

func drawTurret(p render.Painter) {
	render.Cylinder(p, 1.0, turretHeight, 12, jointColor)
}

// drawAxisWeight hangs a counterweight behind the shoulder joint.
func drawAxisWeight(p render.Painter) {
	render.Box(p, mgl64.Vec3{-2.2, 0.3, -0.6}, mgl64.Vec3{-1.0, 1.3, 0.6}, weightColor)
}

// link returns a box shaped arm segment of the given length along local +Y,
// with a joint drum at its root.
func link(length float64) PartFunc {
	return func(p render.Painter) {
		p.Push()
		defer p.Pop()
		// drum around the tilt axis
		p.Rotate(90, mgl64.Vec3{1, 0, 0})
		p.Translate(mgl64.Vec3{0, -linkWidth / 2, 0})
		render.Cylinder(p, linkWidth*0.75, linkWidth, 10, jointColor)
		p.Translate(mgl64.Vec3{0, linkWidth / 2, 0})
		p.Rotate(-90, mgl64.Vec3{1, 0, 0})

		h := linkWidth / 2
		render.Box(p, mgl64.Vec3{-h, 0, -h}, mgl64.Vec3{h, length, h}, armColor)
	}
}

func drawWrist(p render.Painter) {
	render.Cylinder(p, 0.45, 1.0, 8, steelColor)
	p.Push()
	defer p.Pop()
	p.Translate(mgl64.Vec3{0, 1.0, 0})
	render.Box(p, mgl64.Vec3{-0.5, 0, -0.15}, mgl64.Vec3{0.5, 0.3, 0.15}, jointColor)
}
