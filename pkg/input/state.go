package input

// DefaultHoldTicks covers the pause between a terminal's first key event and its auto-repeat.
const DefaultHoldTicks = 30

// State accumulates terminal events between ticks and exposes them as polled state.
//
// Terminals only report key presses (and auto-repeats), never releases, so a key counts
// as down until HoldTicks ticks pass without another event for it.
type State struct {
	HoldTicks int

	tick     int
	lastSeen map[Key]int
	down     map[Key]bool
	pressed  map[Key]bool

	pendingDX, pendingDY, pendingWheel int
	dx, dy, wheel                      int
}

// NewState returns an empty input state.
func NewState() *State {
	return &State{
		HoldTicks: DefaultHoldTicks,
		lastSeen:  make(map[Key]int),
		down:      make(map[Key]bool),
		pressed:   make(map[Key]bool),
	}
}

// Press records a key event. It becomes visible on the next Tick.
func (s *State) Press(k Key) {
	s.lastSeen[k] = s.tick + 1
}

// Release forgets a key immediately, for sources that do report releases.
func (s *State) Release(k Key) {
	delete(s.lastSeen, k)
}

// Move records a mouse drag.
func (s *State) Move(dx, dy int) {
	s.pendingDX += dx
	s.pendingDY += dy
}

// Scroll records wheel steps.
func (s *State) Scroll(steps int) {
	s.pendingWheel += steps
}

// Tick advances to the next frame and recomputes the polled state.
func (s *State) Tick() {
	s.tick++
	hold := s.HoldTicks
	if hold < 1 {
		hold = 1
	}

	clear(s.pressed)
	for k, seen := range s.lastSeen {
		if s.tick-seen >= hold {
			delete(s.lastSeen, k)
			continue
		}
		if seen == s.tick && !s.down[k] {
			s.pressed[k] = true
		}
	}
	for k := range s.down {
		if _, ok := s.lastSeen[k]; !ok {
			delete(s.down, k)
		}
	}
	for k := range s.lastSeen {
		s.down[k] = true
	}

	s.dx, s.dy, s.wheel = s.pendingDX, s.pendingDY, s.pendingWheel
	s.pendingDX, s.pendingDY, s.pendingWheel = 0, 0, 0
}

func (s *State) Down(k Key) bool    { return s.down[k] }
func (s *State) Pressed(k Key) bool { return s.pressed[k] }

func (s *State) Drag() (dx, dy int) { return s.dx, s.dy }
func (s *State) Wheel() int         { return s.wheel }
