// Package sim drives one simulation frame: input dispatch, robot update, camera
// placement, drawing and overlays.
package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gwillem/armsim/pkg/camera"
	"github.com/gwillem/armsim/pkg/input"
	"github.com/gwillem/armsim/pkg/render"
	"github.com/gwillem/armsim/pkg/robot"
)

const (
	groundHalf  = 15.0
	groundCells = 10

	groundColor  render.Color = "240"
	overlayColor render.Color = "252"
	helpColor    render.Color = "229"

	helpWidth = 48
)

// Input is the polled state a frame consumes.
type Input interface {
	input.Keys
	input.Pointer
}

// State is a snapshot of the joint angles, published after every step.
type State struct {
	Angles    map[string]float64
	Timestamp time.Time
}

// Simulator owns the per-frame loop around a robot and a camera.
type Simulator struct {
	robot   *robot.Robot
	cam     *camera.Camera
	canvas  *render.Canvas
	scene   *render.Scene
	cfg     render.Config
	logger  *zap.SugaredLogger
	metrics *Metrics
	now     func() time.Time

	displayHelp bool
	displayFps  bool
	quit        bool
	fps         fpsCounter
	help        []string

	stateCh chan State
	logCh   chan string
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithMetrics records frame and robot metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(s *Simulator) { s.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// New returns a simulator for r viewed through cam.
func New(r *robot.Robot, cam *camera.Camera, opts ...Option) *Simulator {
	canvas := render.NewCanvas(80, 24)
	s := &Simulator{
		robot:   r,
		cam:     cam,
		canvas:  canvas,
		scene:   render.NewScene(canvas),
		cfg:     render.DefaultConfig(),
		logger:  zap.NewNop().Sugar(),
		now:     time.Now,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.help = renderHelp(helpMarkdown(r), helpWidth)
	s.fps.reset(s.now())
	return s
}

// Robot returns the simulated robot.
func (s *Simulator) Robot() *robot.Robot { return s.robot }

// Camera returns the camera.
func (s *Simulator) Camera() *camera.Camera { return s.cam }

// Config returns the current render configuration.
func (s *Simulator) Config() render.Config { return s.cfg }

// Quit reports whether the quit command fired.
func (s *Simulator) Quit() bool { return s.quit }

// DisplayHelp reports whether the help overlay is shown.
func (s *Simulator) DisplayHelp() bool { return s.displayHelp }

// DisplayFps reports whether the frame rate overlay is shown.
func (s *Simulator) DisplayFps() bool { return s.displayFps }

// FPS returns the frame rate measured over the last full second.
func (s *Simulator) FPS() float64 { return s.fps.value }

// States returns a channel holding the latest joint angles.
func (s *Simulator) States() <-chan State { return s.stateCh }

// Logs returns a channel of short, user facing log lines.
func (s *Simulator) Logs() <-chan string { return s.logCh }

// Step advances the simulation by one frame. The robot always updates first,
// then at most one global command runs, then the camera follows the mouse.
func (s *Simulator) Step(in Input) {
	s.robot.Update(in)
	if cmd := s.dispatch(in); cmd != "" {
		s.logger.Debugw("command", "cmd", cmd)
		s.log("%s", cmd)
	}
	s.cam.Update(in)

	now := s.now()
	s.fps.tick(now)
	if s.metrics != nil {
		s.metrics.observeRobot(s.robot)
	}
	s.sendState(now)
}

// Render draws the current frame onto a w by h cell canvas.
func (s *Simulator) Render(w, h int) string {
	start := s.now()
	if cw, ch := s.canvas.Size(); cw != w || ch != h {
		s.canvas.Resize(w, h)
	}

	s.scene.Begin(s.cfg)
	s.cam.Set(s.scene)

	render.Grid(s.scene, -groundHalf, groundHalf, groundCells, groundColor)
	if s.cfg.CoordSystem {
		render.CoordSystem(s.scene, groundHalf)
	}
	s.robot.Draw(s.scene)

	if s.displayHelp || s.displayFps || s.robot.TextToBeDisplayed() {
		s.drawOverlays()
	}

	if s.metrics != nil {
		s.metrics.observeFrame(s.now().Sub(start))
	}
	return s.scene.View()
}

func (s *Simulator) drawOverlays() {
	cols, rows := s.scene.Size()
	if s.displayHelp {
		top := max(rows-len(s.help), 0)
		for i, line := range s.help {
			if top+i >= rows {
				break
			}
			s.scene.Text(1, top+i, line, helpColor)
		}
	}
	if s.displayFps {
		text := fmt.Sprintf("fps %5.1f", s.fps.value)
		s.scene.Text(max(cols-len(text)-1, 0), 0, text, overlayColor)
	}
	if s.robot.TextToBeDisplayed() {
		s.robot.DisplayText(s.scene)
	}
}

func (s *Simulator) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", s.now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case s.logCh <- msg:
	default:
	}
}

// sendState publishes the angles, replacing an unread older snapshot.
func (s *Simulator) sendState(now time.Time) {
	st := State{Angles: make(map[string]float64, len(s.robot.Axes())), Timestamp: now}
	for _, a := range s.robot.Axes() {
		st.Angles[a.Name] = a.Orientation.Angle()
	}
	select {
	case s.stateCh <- st:
	default:
		select {
		case <-s.stateCh:
		default:
		}
		s.stateCh <- st
	}
}

type fpsCounter struct {
	start  time.Time
	frames int
	value  float64
}

func (f *fpsCounter) reset(now time.Time) {
	f.start, f.frames, f.value = now, 0, 0
}

func (f *fpsCounter) tick(now time.Time) {
	f.frames++
	if elapsed := now.Sub(f.start); elapsed >= time.Second {
		f.value = float64(f.frames) / elapsed.Seconds()
		f.start, f.frames = now, 0
	}
}
