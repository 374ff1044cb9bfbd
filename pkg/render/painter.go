package render

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Color is a terminal color as understood by lipgloss ("9", "#ff8800", ...).
type Color string

// Axis colors used by coordinate frames.
const (
	ColorX Color = "9"
	ColorY Color = "10"
	ColorZ Color = "12"
)

// Config selects how geometry is drawn. It replaces process-wide GL state so that
// drawing code can be exercised without a terminal.
type Config struct {
	Wireframe   bool // outlines only
	Light       bool // shade by depth
	Cull        bool // skip edges whose faces point away from the eye
	CoordSystem bool // draw the world coordinate frame
}

// DefaultConfig returns the configuration the simulator starts with.
func DefaultConfig() Config {
	return Config{Light: true}
}

// Painter receives geometry in the current model frame.
type Painter interface {
	Transformer

	// Line draws a segment between two local points.
	Line(a, b mgl64.Vec3, c Color)

	// BackFacing reports whether a face through the local point p with local
	// outward normal n should be culled.
	BackFacing(p, n mgl64.Vec3) bool

	Config() Config
}

// Overlay draws screen-space text on top of the scene.
type Overlay interface {
	Text(col, row int, s string, c Color)
	Size() (cols, rows int)
}
