// Package servo drives a physical SO-101 arm over a feetech serial bus.
package servo

import "fmt"

// MotorName identifies a motor in the arm.
type MotorName string

// Motor names for the SO-101 arm.
const (
	ShoulderPan  MotorName = "shoulder_pan"
	ShoulderLift MotorName = "shoulder_lift"
	ElbowFlex    MotorName = "elbow_flex"
	WristFlex    MotorName = "wrist_flex"
	WristRoll    MotorName = "wrist_roll"
	Gripper      MotorName = "gripper"
)

// AllMotors returns all motor names in order (matching servo IDs 1-6).
func AllMotors() []MotorName {
	return []MotorName{
		ShoulderPan,
		ShoulderLift,
		ElbowFlex,
		WristFlex,
		WristRoll,
		Gripper,
	}
}

// ParseMotor checks that s names an SO-101 motor. The empty string is allowed and
// means "not mirrored".
func ParseMotor(s string) (MotorName, error) {
	if s == "" {
		return "", nil
	}
	for _, m := range AllMotors() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown motor %q", s)
}
