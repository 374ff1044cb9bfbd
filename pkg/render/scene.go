package render

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	fovY = 45.0
	near = 0.5
	far  = 2000.0

	// Terminal cells are roughly twice as tall as they are wide.
	cellAspect = 2.0

	// Depth range mapped onto the shading ramp in light mode.
	shadeNear = 8.0
	shadeFar  = 70.0
)

var shadeRamp = []rune("█▓▒░·")

// Scene is a Painter and Overlay drawing onto a Canvas through a perspective camera.
type Scene struct {
	*Stack

	canvas *Canvas
	cfg    Config
	eye    mgl64.Vec3
	view   mgl64.Mat4
	proj   mgl64.Mat4
	styles map[Color]lipgloss.Style
}

// NewScene returns a scene drawing onto c, looking down -Z from the origin.
func NewScene(c *Canvas) *Scene {
	s := &Scene{
		Stack:  NewStack(),
		canvas: c,
		cfg:    DefaultConfig(),
		view:   mgl64.Ident4(),
		styles: make(map[Color]lipgloss.Style),
	}
	s.updateProjection()
	return s
}

// Begin starts a frame: clears the canvas, resets the model stack and adopts cfg.
func (s *Scene) Begin(cfg Config) {
	s.cfg = cfg
	s.canvas.Clear()
	s.LoadIdentity()
	s.updateProjection()
}

// Canvas returns the canvas the scene draws onto.
func (s *Scene) Canvas() *Canvas { return s.canvas }

// Config returns the configuration of the current frame.
func (s *Scene) Config() Config { return s.cfg }

// Eye returns the camera position in world coordinates.
func (s *Scene) Eye() mgl64.Vec3 { return s.eye }

// LookAt places the camera.
func (s *Scene) LookAt(eye, center, up mgl64.Vec3) {
	s.eye = eye
	s.view = mgl64.LookAtV(eye, center, up)
}

func (s *Scene) updateProjection() {
	w, h := s.canvas.Size()
	aspect := float64(w) / (float64(h) * cellAspect)
	s.proj = mgl64.Perspective(mgl64.DegToRad(fovY), aspect, near, far)
}

// Project maps a world point to a cell position and its distance along the view axis.
// ok is false for points behind the near plane.
func (s *Scene) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	v := s.view.Mul4x1(p.Vec4(1))
	if -v[2] < near {
		return 0, 0, 0, false
	}
	x, y = s.toScreen(v)
	return x, y, -v[2], true
}

func (s *Scene) toScreen(v mgl64.Vec4) (x, y float64) {
	clip := s.proj.Mul4x1(v)
	nx, ny := clip[0]/clip[3], clip[1]/clip[3]
	w, h := s.canvas.Size()
	return (nx + 1) / 2 * float64(w-1), (1 - ny) / 2 * float64(h-1)
}

// Line draws a segment given in the current model frame.
func (s *Scene) Line(a, b mgl64.Vec3, c Color) {
	va := s.view.Mul4x1(s.Apply(a).Vec4(1))
	vb := s.view.Mul4x1(s.Apply(b).Vec4(1))

	// clip against the near plane in eye space, where visible points have z < -near
	za, zb := -va[2], -vb[2]
	if za < near && zb < near {
		return
	}
	if za < near {
		va = va.Add(vb.Sub(va).Mul((near - za) / (zb - za)))
	} else if zb < near {
		vb = vb.Add(va.Sub(vb).Mul((near - zb) / (za - zb)))
	}

	x0, y0 := s.toScreen(va)
	x1, y1 := s.toScreen(vb)
	s.raster(x0, y0, -va[2], x1, y1, -vb[2], s.style(c))
}

func (s *Scene) raster(fx0, fy0, z0, fx1, fy1, z1 float64, st lipgloss.Style) {
	const limit = 1 << 14
	if math.Abs(fx0) > limit || math.Abs(fx1) > limit || math.Abs(fy0) > limit || math.Abs(fy1) > limit {
		return
	}
	x0, y0 := int(math.Round(fx0)), int(math.Round(fy0))
	x1, y1 := int(math.Round(fx1)), int(math.Round(fy1))
	glyph := slopeGlyph(x1-x0, y1-y0)

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	steps := max(dx, -dy)
	e := dx + dy
	for i := 0; ; i++ {
		z := z0
		if steps > 0 {
			z = z0 + (z1-z0)*float64(i)/float64(steps)
		}
		r := glyph
		if s.cfg.Light {
			r = shade(z)
		}
		s.canvas.Plot(x0, y0, z, r, st)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// BackFacing implements Painter. It only culls when the frame's config asks for it.
func (s *Scene) BackFacing(p, n mgl64.Vec3) bool {
	if !s.cfg.Cull {
		return false
	}
	wp := s.Apply(p)
	wn := s.ApplyNormal(n)
	return wn.Dot(s.eye.Sub(wp)) < 0
}

// Text implements Overlay.
func (s *Scene) Text(col, row int, str string, c Color) {
	s.canvas.Write(col, row, str, s.style(c))
}

// Size implements Overlay.
func (s *Scene) Size() (cols, rows int) {
	return s.canvas.Size()
}

// View renders the frame.
func (s *Scene) View() string {
	return s.canvas.View()
}

func (s *Scene) style(c Color) lipgloss.Style {
	st, ok := s.styles[c]
	if !ok {
		st = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
		s.styles[c] = st
	}
	return st
}

func shade(depth float64) rune {
	t := (depth - shadeNear) / (shadeFar - shadeNear)
	i := int(t * float64(len(shadeRamp)))
	return shadeRamp[min(max(i, 0), len(shadeRamp)-1)]
}

func slopeGlyph(dx, dy int) rune {
	// rows are about twice as tall as columns
	fx, fy := float64(dx), float64(dy)*cellAspect
	switch {
	case dx == 0 && dy == 0:
		return '•'
	case math.Abs(fy) < 0.4*math.Abs(fx):
		return '─'
	case math.Abs(fx) < 0.4*math.Abs(fy):
		return '│'
	case (fx > 0) == (fy < 0):
		return '╱'
	default:
		return '╲'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
