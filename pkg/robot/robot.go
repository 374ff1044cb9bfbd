// Package robot models an articulated arm: joint state, kinematic chain traversal
// and the automatic approach of random configurations.
package robot

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/gwillem/armsim/pkg/input"
	"github.com/gwillem/armsim/pkg/render"
)

// ErrApproachInProgress is returned when an approach is requested while one runs.
var ErrApproachInProgress = errors.New("approach already in progress")

// Robot owns a fixed chain of axes, base to tool.
type Robot struct {
	name      string
	axes      []*Axis
	motors    map[*Axis]string
	mounts    map[*Axis]PartFunc
	parts     map[*Axis]PartFunc
	base      []PartFunc
	tcpOffset mgl64.Vec3

	rng    *rand.Rand
	logger *zap.SugaredLogger

	drawTCPCoordSystem   bool
	displayAxesStates    bool
	infiniteApproachMode bool

	approaching bool
	targets     []float64
	completed   int
}

// Option configures a Robot.
type Option func(*options)

type options struct {
	rng    *rand.Rand
	logger *zap.SugaredLogger
	parts  map[string]PartFunc
}

// WithRand sets the random source used for arbitrary configurations.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithPart registers or replaces named geometry.
func WithPart(name string, fn PartFunc) Option {
	return func(o *options) { o.parts[name] = fn }
}

// New builds a robot from a description.
func New(cfg Config, opts ...Option) (*Robot, error) {
	o := options{parts: DefaultParts()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.logger == nil {
		o.logger = zap.NewNop().Sugar()
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	part := func(name string) (PartFunc, error) {
		if name == "" {
			return nil, nil
		}
		fn, ok := o.parts[name]
		if !ok {
			return nil, fmt.Errorf("unknown part %q", name)
		}
		return fn, nil
	}

	r := &Robot{
		name:      cfg.Name,
		motors:    make(map[*Axis]string, len(cfg.Axes)),
		mounts:    make(map[*Axis]PartFunc, len(cfg.Axes)),
		parts:     make(map[*Axis]PartFunc, len(cfg.Axes)),
		tcpOffset: mgl64.Vec3(cfg.TCPOffset),
		rng:       o.rng,
		logger:    o.logger,
	}
	for _, name := range cfg.Base {
		fn, err := part(name)
		if err != nil {
			return nil, fmt.Errorf("base: %w", err)
		}
		if fn != nil {
			r.base = append(r.base, fn)
		}
	}
	for _, ac := range cfg.Axes {
		dir, _ := ParseDirection(ac.Direction)
		dim := NewOrientationDimension(ac.Keys, ac.StartAngle, ac.Limits(), ac.MaxVelocity)
		a := NewAxis(ac.Name, dir, mgl64.Vec3(ac.Offset), dim)

		mount, err := part(ac.Mount)
		if err != nil {
			return nil, fmt.Errorf("axis %q mount: %w", ac.Name, err)
		}
		body, err := part(ac.Part)
		if err != nil {
			return nil, fmt.Errorf("axis %q: %w", ac.Name, err)
		}
		r.axes = append(r.axes, a)
		r.mounts[a] = mount
		r.parts[a] = body
		r.motors[a] = ac.Motor
	}
	return r, nil
}

// Default returns the robot of DefaultConfig.
func Default(opts ...Option) *Robot {
	r, err := New(DefaultConfig(), opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Name returns the robot's name.
func (r *Robot) Name() string { return r.name }

// Axes returns the chain, base to tool. The slice must not be modified.
func (r *Robot) Axes() []*Axis { return r.axes }

// Motor returns the physical motor an axis is mirrored to, if any.
func (r *Robot) Motor(a *Axis) string { return r.motors[a] }

// Angles returns the current joint angles in chain order.
func (r *Robot) Angles() []float64 {
	angles := make([]float64, len(r.axes))
	for i, a := range r.axes {
		angles[i] = a.Orientation.Angle()
	}
	return angles
}

// Update advances every axis by one tick from the key state, then moves any
// running approach on.
func (r *Robot) Update(keys input.Keys) {
	for _, a := range r.axes {
		a.Orientation.Update(keys)
	}
	r.advanceApproach()
}

func (r *Robot) advanceApproach() {
	if !r.approaching {
		return
	}
	done := true
	for i, a := range r.axes {
		if !a.Orientation.StepToward(r.targets[i]) {
			done = false
		}
	}
	if !done {
		return
	}

	r.completed++
	r.logger.Debugw("approach complete", "completed", r.completed, "angles", r.Angles())
	if r.infiniteApproachMode {
		r.startApproach(r.sampleTargets())
		return
	}
	r.approaching = false
	r.targets = nil
}

// Reset returns every axis to its start state and drops a running approach.
func (r *Robot) Reset() {
	for _, a := range r.axes {
		a.Orientation.Reset()
	}
	r.approaching = false
	r.targets = nil
}

// SetArbitraryAxesConfiguration jumps every axis to a random legal angle.
func (r *Robot) SetArbitraryAxesConfiguration() {
	for _, a := range r.axes {
		a.Orientation.SetArbitraryAngle(r.rng)
	}
}

// InitializeArbitraryAxisConfigurationApproach starts moving toward a random
// configuration. While an approach is running the request is ignored.
func (r *Robot) InitializeArbitraryAxisConfigurationApproach() {
	if r.approaching {
		r.logger.Debug("approach requested while approaching, ignored")
		return
	}
	r.startApproach(r.sampleTargets())
}

// ApproachTo starts moving toward a given configuration, one angle per axis.
func (r *Robot) ApproachTo(targets []float64) error {
	if r.approaching {
		return ErrApproachInProgress
	}
	if len(targets) != len(r.axes) {
		return fmt.Errorf("got %d targets for %d axes", len(targets), len(r.axes))
	}
	legal := make([]float64, len(targets))
	for i, a := range r.axes {
		t := targets[i]
		d := a.Orientation
		if math.IsNaN(t) || math.IsInf(t, 0) || (!d.FullRange() && !d.Limits().Contains(t)) {
			return fmt.Errorf("axis %q: target %g outside %s", a.Name, t, d.Limits())
		}
		legal[i] = d.Legal(t)
	}
	r.startApproach(legal)
	return nil
}

func (r *Robot) startApproach(targets []float64) {
	r.targets = targets
	r.approaching = true
	r.logger.Debugw("approach started", "targets", targets)
}

func (r *Robot) sampleTargets() []float64 {
	targets := make([]float64, len(r.axes))
	for i, a := range r.axes {
		targets[i] = a.Orientation.RandomAngle(r.rng)
	}
	return targets
}

// ToggleInfiniteArbitraryAxisConfigurationApproachMode switches endless approaching.
// Switching it on while idle starts an approach right away; switching it off lets
// the running approach finish.
func (r *Robot) ToggleInfiniteArbitraryAxisConfigurationApproachMode() {
	r.infiniteApproachMode = !r.infiniteApproachMode
	if r.infiniteApproachMode && !r.approaching {
		r.startApproach(r.sampleTargets())
	}
}

// ToggleDrawTCPCoordSystem switches the coordinate frame at the tool center point.
func (r *Robot) ToggleDrawTCPCoordSystem() { r.drawTCPCoordSystem = !r.drawTCPCoordSystem }

// ToggleDisplayAxesStates switches the axis state text.
func (r *Robot) ToggleDisplayAxesStates() { r.displayAxesStates = !r.displayAxesStates }

func (r *Robot) Approaching() bool          { return r.approaching }
func (r *Robot) InfiniteApproachMode() bool { return r.infiniteApproachMode }
func (r *Robot) DrawTCPCoordSystem() bool   { return r.drawTCPCoordSystem }
func (r *Robot) DisplayAxesStates() bool    { return r.displayAxesStates }
func (r *Robot) CompletedApproaches() int   { return r.completed }

// Targets returns a copy of the running approach's targets, or nil when idle.
func (r *Robot) Targets() []float64 {
	if !r.approaching {
		return nil
	}
	return append([]float64(nil), r.targets...)
}

// Draw traverses the chain base to tool. Every joint's frame is entered with its
// forward adjustment and left with the matching inverse, so nothing leaks out.
func (r *Robot) Draw(p render.Painter) {
	for _, part := range r.base {
		part(p)
	}
	r.drawAxis(p, 0)
}

func (r *Robot) drawAxis(p render.Painter, i int) {
	if i == len(r.axes) {
		if r.drawTCPCoordSystem {
			p.Translate(r.tcpOffset)
			render.CoordSystem(p, tcpFrameLength)
			p.Translate(r.tcpOffset.Mul(-1))
		}
		return
	}

	a := r.axes[i]
	if mount := r.mounts[a]; mount != nil {
		mount(p)
	}
	p.Translate(a.Offset)
	a.Scoped(p, func() {
		if part := r.parts[a]; part != nil {
			part(p)
		}
		r.drawAxis(p, i+1)
	})
	p.Translate(a.Offset.Mul(-1))
}

// TCPTransform returns the world transform of the tool center point.
func (r *Robot) TCPTransform() mgl64.Mat4 {
	m := mgl64.Ident4()
	for _, a := range r.axes {
		m = m.Mul4(a.Transform())
	}
	return m.Mul4(mgl64.Translate3D(r.tcpOffset[0], r.tcpOffset[1], r.tcpOffset[2]))
}

// TextToBeDisplayed reports whether the robot has overlay text this frame.
func (r *Robot) TextToBeDisplayed() bool { return r.displayAxesStates }

// AxesStates returns one line per axis plus the approach status.
func (r *Robot) AxesStates() []string {
	lines := make([]string, 0, len(r.axes)+1)
	for i, a := range r.axes {
		d := a.Orientation
		line := fmt.Sprintf("%-10s %8.2f° %6.2f°/t", a.Name, d.Angle(), d.Velocity())
		if d.FullRange() {
			line += "  full range"
		} else {
			line += "  " + d.Limits().String()
		}
		if d.AngleLimitReached() {
			line += " LIMIT"
		}
		if d.Fine() {
			line += " fine"
		}
		if r.approaching {
			line += fmt.Sprintf(" → %.1f°", r.targets[i])
		}
		lines = append(lines, line)
	}

	status := "approach: idle"
	if r.approaching {
		status = "approach: running"
	}
	if r.infiniteApproachMode {
		status += " (infinite)"
	}
	return append(lines, fmt.Sprintf("%s, %d done", status, r.completed))
}

// DisplayText writes the axis states in the top left corner.
func (r *Robot) DisplayText(o render.Overlay) {
	for row, line := range r.AxesStates() {
		o.Text(1, row+1, line, jointColor)
	}
}
