// Package input provides polled keyboard and mouse state for the simulation loop.
package input

// Key identifies a key by its terminal name ("a", "f1", "up", "esc", ...).
type Key string

// Special keys.
const (
	F1    Key = "f1"
	F2    Key = "f2"
	F3    Key = "f3"
	F4    Key = "f4"
	F5    Key = "f5"
	Up    Key = "up"
	Down  Key = "down"
	Left  Key = "left"
	Right Key = "right"
	Esc   Key = "esc"
)

// Keys answers key queries for the current tick.
type Keys interface {
	// Down reports whether the key is currently held.
	Down(k Key) bool
	// Pressed reports whether the key went down this tick.
	Pressed(k Key) bool
}

// Pointer answers mouse queries for the current tick.
type Pointer interface {
	// Drag returns the cell distance the mouse was dragged this tick.
	Drag() (dx, dy int)
	// Wheel returns the wheel steps this tick, positive away from the user.
	Wheel() int
}

// Static is a fixed key state, handy when no terminal is around.
type Static map[Key]bool

func (s Static) Down(k Key) bool    { return s[k] }
func (s Static) Pressed(k Key) bool { return s[k] }

// None is a Keys with nothing held.
var None Keys = Static(nil)
