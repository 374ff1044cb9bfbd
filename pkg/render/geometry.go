package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	up   = mgl64.Vec3{0, 1, 0}
	down = mgl64.Vec3{0, -1, 0}
)

// Circle draws a circle of the given radius in the XZ plane at height y.
func Circle(p Painter, radius, y float64, segments int, c Color) {
	for i := 0; i < segments; i++ {
		a, b := ringPoint(radius, y, i, segments), ringPoint(radius, y, i+1, segments)
		p.Line(a, b, c)
	}
}

// Cylinder draws a cylinder standing on the local XZ plane and reaching up to height.
func Cylinder(p Painter, radius, height float64, slices int, c Color) {
	if slices < 3 {
		slices = 3
	}
	cfg := p.Config()
	top := mgl64.Vec3{0, height, 0}

	// walls: every slice when filled, a quarter of them in wireframe
	every := 1
	if cfg.Wireframe {
		every = max(slices/4, 1)
	}
	for i := 0; i < slices; i += every {
		lo := ringPoint(radius, 0, i, slices)
		hi := ringPoint(radius, height, i, slices)
		if p.BackFacing(lo, radial(i, slices)) {
			continue
		}
		p.Line(lo, hi, c)
	}

	topVisible := !p.BackFacing(top, up)
	bottomVisible := !p.BackFacing(mgl64.Vec3{}, down)
	for i := 0; i < slices; i++ {
		wall := !p.BackFacing(ringPoint(radius, 0, i, slices), radialMid(i, slices))
		if wall || bottomVisible {
			p.Line(ringPoint(radius, 0, i, slices), ringPoint(radius, 0, i+1, slices), c)
		}
		if wall || topVisible {
			p.Line(ringPoint(radius, height, i, slices), ringPoint(radius, height, i+1, slices), c)
		}
	}

	if cfg.Wireframe {
		return
	}
	// caps
	for i := 0; i < slices; i += 2 {
		if topVisible {
			p.Line(top, ringPoint(radius, height, i, slices), c)
		}
		if bottomVisible {
			p.Line(mgl64.Vec3{}, ringPoint(radius, 0, i, slices), c)
		}
	}
}

// Box draws an axis-aligned box between two local corners.
func Box(p Painter, lo, hi mgl64.Vec3, c Color) {
	corner := func(i int) mgl64.Vec3 {
		v := lo
		if i&1 != 0 {
			v[0] = hi[0]
		}
		if i&2 != 0 {
			v[1] = hi[1]
		}
		if i&4 != 0 {
			v[2] = hi[2]
		}
		return v
	}
	center := lo.Add(hi).Mul(0.5)

	// faces as (normal axis, side); side 0 is the lo face
	visible := [3][2]bool{}
	for axis := 0; axis < 3; axis++ {
		for side := 0; side < 2; side++ {
			n := mgl64.Vec3{}
			pt := center
			if side == 0 {
				n[axis] = -1
				pt[axis] = lo[axis]
			} else {
				n[axis] = 1
				pt[axis] = hi[axis]
			}
			visible[axis][side] = !p.BackFacing(pt, n)
		}
	}

	// an edge along axis a is shared by one face of each of the two other axes
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			bit := 1 << axis
			if i&bit != 0 {
				continue
			}
			shown := false
			for other := 0; other < 3; other++ {
				if other == axis {
					continue
				}
				side := 0
				if i&(1<<other) != 0 {
					side = 1
				}
				shown = shown || visible[other][side]
			}
			if shown {
				p.Line(corner(i), corner(i|bit), c)
			}
		}
	}

	if p.Config().Wireframe {
		return
	}
	// one diagonal per visible face
	for axis := 0; axis < 3; axis++ {
		u, v := 1<<((axis+1)%3), 1<<((axis+2)%3)
		for side := 0; side < 2; side++ {
			if !visible[axis][side] {
				continue
			}
			base := side << axis
			p.Line(corner(base), corner(base|u|v), c)
		}
	}
}

// CoordSystem draws the local X, Y and Z axes.
func CoordSystem(p Painter, length float64) {
	origin := mgl64.Vec3{}
	p.Line(origin, mgl64.Vec3{length, 0, 0}, ColorX)
	p.Line(origin, mgl64.Vec3{0, length, 0}, ColorY)
	p.Line(origin, mgl64.Vec3{0, 0, length}, ColorZ)
}

// Plane draws the outline of a rectangle in the XZ plane.
func Plane(p Painter, minX, maxX, minZ, maxZ float64, c Color) {
	a := mgl64.Vec3{minX, 0, minZ}
	b := mgl64.Vec3{maxX, 0, minZ}
	d := mgl64.Vec3{maxX, 0, maxZ}
	e := mgl64.Vec3{minX, 0, maxZ}
	p.Line(a, b, c)
	p.Line(b, d, c)
	p.Line(d, e, c)
	p.Line(e, a, c)
}

// Grid draws n by n cells between min and max on both X and Z.
func Grid(p Painter, min, max float64, n int, c Color) {
	if n < 1 {
		return
	}
	step := (max - min) / float64(n)
	for i := 0; i <= n; i++ {
		v := min + float64(i)*step
		p.Line(mgl64.Vec3{v, 0, min}, mgl64.Vec3{v, 0, max}, c)
		p.Line(mgl64.Vec3{min, 0, v}, mgl64.Vec3{max, 0, v}, c)
	}
}

func ringPoint(radius, y float64, i, n int) mgl64.Vec3 {
	a := 2 * math.Pi * float64(i%n) / float64(n)
	return mgl64.Vec3{radius * math.Cos(a), y, radius * math.Sin(a)}
}

func radial(i, n int) mgl64.Vec3 {
	a := 2 * math.Pi * float64(i) / float64(n)
	return mgl64.Vec3{math.Cos(a), 0, math.Sin(a)}
}

func radialMid(i, n int) mgl64.Vec3 {
	a := 2 * math.Pi * (float64(i) + 0.5) / float64(n)
	return mgl64.Vec3{math.Cos(a), 0, math.Sin(a)}
}
