// Package armsim renders an articulated robot arm in the terminal and lets you
// drive its joints from the keyboard.
//
// # Installation
//
//	go install github.com/gwillem/armsim/cmd/armsim@latest
//
// # Usage
//
// Start the simulator with the built-in four axis arm, or with your own
// description:
//
//	armsim run
//	armsim run --config arm.yaml
//
// Press Esc inside the simulator for the key bindings. To replay the simulated
// joints on a physical SO-101 arm, configure it once and run with --mirror:
//
//	armsim setup
//	armsim run --mirror
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/armsim: CLI with run, setup and describe commands
//   - pkg/robot: Joint state, kinematic chain and approach animation
//   - pkg/render: Matrix stack, projection and line geometry on a terminal canvas
//   - pkg/camera: Orbit and tool-following camera
//   - pkg/input: Polled key and mouse state
//   - pkg/sim: Frame loop, command dispatch, overlays and metrics
//   - pkg/servo: SO-101 arm access, calibration and configuration
//   - pkg/mirror: Replays simulated joints on the physical arm
package armsim
