// Package mirror replays the simulated joint angles on a physical arm.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gwillem/armsim/pkg/servo"
	"github.com/gwillem/armsim/pkg/sim"
)

// DefaultHz is the write rate when none is configured.
const DefaultHz = 30

// Arm is the part of servo.Arm the controller drives.
type Arm interface {
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
	WritePositions(ctx context.Context, positions map[servo.MotorName]float64) error
	Close() error
}

var _ Arm = (*servo.Arm)(nil)

// Config holds configuration for the controller.
type Config struct {
	Joints []Joint
	Hz     int
	Invert bool // turn shoulder_pan and wrist_roll the other way
}

// Controller writes the latest simulated state to the arm at a fixed rate.
type Controller struct {
	arm    Arm
	joints []Joint
	hz     int
	invert bool

	mu      sync.Mutex
	running bool
	done    chan struct{}
	writes  int
	logCh   chan string
}

// NewController creates a controller driving arm.
func NewController(cfg Config, arm Arm) (*Controller, error) {
	if len(cfg.Joints) == 0 {
		return nil, errors.New("no axis is mapped to a motor")
	}
	if cfg.Hz <= 0 {
		cfg.Hz = DefaultHz
	}
	return &Controller{
		arm:    arm,
		joints: cfg.Joints,
		hz:     cfg.Hz,
		invert: cfg.Invert,
		logCh:  make(chan string, 10),
	}, nil
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the write rate.
func (c *Controller) Hz() int {
	return c.hz
}

// Writes returns the number of successful position writes.
func (c *Controller) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// Close releases the arm. If Start is running, Close blocks until it has
// returned, so cancel Start's context first.
func (c *Controller) Close() error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
	if err := c.arm.Close(); err != nil {
		return fmt.Errorf("close arm: %w", err)
	}
	return nil
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
	}
}

// Start consumes states until ctx is done. Each tick the newest unsent state is
// written; ticks without a new state write nothing.
func (c *Controller) Start(ctx context.Context, states <-chan sim.State) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("already running")
	}
	c.running = true
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()
	defer close(done)

	if err := c.arm.Enable(ctx); err != nil {
		c.log("Warning: failed to enable arm: %v", err)
	} else {
		c.log("Arm: torque enabled")
	}
	c.log("Mirroring %d joints at %d Hz", len(c.joints), c.hz)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()

	var (
		latest  sim.State
		pending bool
	)
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case st := <-states:
			latest, pending = st, true
		case <-ticker.C:
			if pending {
				c.write(ctx, latest)
				pending = false
			}
		}
	}
}

func (c *Controller) write(ctx context.Context, st sim.State) {
	positions := Positions(c.joints, st.Angles, c.invert)
	if len(positions) == 0 {
		return
	}
	if err := c.arm.WritePositions(ctx, positions); err != nil {
		c.log("Write error: %v", err)
		return
	}
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	if err := c.arm.Disable(context.Background()); err != nil {
		c.log("Warning: failed to disable arm: %v", err)
	} else {
		c.log("Arm: torque disabled")
	}
	c.log("Mirroring stopped")
}
