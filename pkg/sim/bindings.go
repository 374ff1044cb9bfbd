package sim

import (
	"github.com/gwillem/armsim/pkg/camera"
	"github.com/gwillem/armsim/pkg/input"
)

// binding is one global command. At most one fires per frame, the first in order.
type binding struct {
	key  input.Key
	desc string
	// held fires while the key is down rather than on the press edge
	held bool
	run  func(s *Simulator)
}

var bindings = []binding{
	// robot
	{key: input.F1, desc: "reset robot", run: func(s *Simulator) { s.robot.Reset() }},
	{key: input.F2, desc: "arbitrary configuration", run: func(s *Simulator) { s.robot.SetArbitraryAxesConfiguration() }},
	{key: input.F3, desc: "toggle TCP coordinate frame", run: func(s *Simulator) { s.robot.ToggleDrawTCPCoordSystem() }},
	{key: input.F4, desc: "approach arbitrary configuration", run: func(s *Simulator) { s.robot.InitializeArbitraryAxisConfigurationApproach() }},
	{key: input.F5, desc: "toggle endless approach", run: func(s *Simulator) { s.robot.ToggleInfiniteArbitraryAxisConfigurationApproachMode() }},

	// camera
	{key: input.Left, desc: "reset camera", run: func(s *Simulator) { s.cam.Reset() }},
	{key: input.Right, desc: "orbit camera", run: func(s *Simulator) { s.cam.ToggleMode(camera.Orbit) }},
	{key: input.Up, desc: "toggle TCP camera", run: func(s *Simulator) { s.cam.ToggleMode(camera.TCP) }},
	{key: input.Down, desc: "toggle reverse TCP camera", run: func(s *Simulator) { s.cam.ToggleMode(camera.ReverseTCP) }},

	// generic
	{key: "q", desc: "quit", held: true, run: func(s *Simulator) { s.quit = true }},
	{key: input.Esc, desc: "toggle help", run: func(s *Simulator) { s.displayHelp = !s.displayHelp }},

	// display
	{key: "b", desc: "toggle fps", run: func(s *Simulator) { s.displayFps = !s.displayFps }},
	{key: "n", desc: "toggle world coordinate frame", run: func(s *Simulator) { s.cfg.CoordSystem = !s.cfg.CoordSystem }},
	{key: "m", desc: "toggle axes states", run: func(s *Simulator) { s.robot.ToggleDisplayAxesStates() }},

	// graphics
	{key: "y", desc: "toggle wireframe", run: func(s *Simulator) { s.cfg.Wireframe = !s.cfg.Wireframe }},
	{key: "x", desc: "toggle depth shading", run: func(s *Simulator) { s.cfg.Light = !s.cfg.Light }},
	{key: "c", desc: "toggle back-face culling", run: func(s *Simulator) { s.cfg.Cull = !s.cfg.Cull }},
}

// dispatch runs the first matching command and returns its description, or "".
func (s *Simulator) dispatch(keys input.Keys) string {
	for _, b := range bindings {
		fired := keys.Pressed(b.key)
		if b.held {
			fired = keys.Down(b.key)
		}
		if fired {
			b.run(s)
			return b.desc
		}
	}
	return ""
}
