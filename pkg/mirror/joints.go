package mirror

import (
	"errors"
	"fmt"
	"math"

	"github.com/gwillem/armsim/pkg/robot"
	"github.com/gwillem/armsim/pkg/servo"
)

// Joint maps one simulated axis onto one motor.
type Joint struct {
	Axis      string
	Motor     servo.MotorName
	Limits    robot.Extrema
	FullRange bool
}

// JointsFor collects the axes of r that name a motor.
func JointsFor(r *robot.Robot) ([]Joint, error) {
	var (
		joints []Joint
		errs   []error
	)
	used := make(map[servo.MotorName]string)
	for _, a := range r.Axes() {
		m, err := servo.ParseMotor(r.Motor(a))
		if err != nil {
			errs = append(errs, fmt.Errorf("axis %q: %w", a.Name, err))
			continue
		}
		if m == "" {
			continue
		}
		if other, ok := used[m]; ok {
			errs = append(errs, fmt.Errorf("axis %q: motor %s already driven by %q", a.Name, m, other))
			continue
		}
		used[m] = a.Name
		joints = append(joints, Joint{
			Axis:      a.Name,
			Motor:     m,
			Limits:    a.Orientation.Limits(),
			FullRange: a.Orientation.FullRange(),
		})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return joints, nil
}

// Position maps an axis angle onto the normalized motor range [-100, 100].
// Full range axes map one turn, [0, 360), onto it.
func (j Joint) Position(angle float64) float64 {
	lo, span := j.Limits.Min(), j.Limits.Spread()
	if j.FullRange {
		angle = math.Mod(angle, robot.FullCircle)
		if angle < 0 {
			angle += robot.FullCircle
		}
		lo, span = 0, robot.FullCircle
	}
	norm := (angle-lo)/span*200 - 100
	return math.Max(-100, math.Min(100, norm))
}

// Positions maps a snapshot of angles onto motor positions. Axes missing from
// angles are left out.
func Positions(joints []Joint, angles map[string]float64, invert bool) map[servo.MotorName]float64 {
	out := make(map[servo.MotorName]float64, len(joints))
	for _, j := range joints {
		angle, ok := angles[j.Axis]
		if !ok {
			continue
		}
		pos := j.Position(angle)
		// a mirrored arm turns the opposite way around its vertical axes
		if invert && (j.Motor == servo.ShoulderPan || j.Motor == servo.WristRoll) {
			pos = -pos
		}
		out[j.Motor] = pos
	}
	return out
}
