package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/armsim/pkg/camera"
	"github.com/gwillem/armsim/pkg/robot"
	"github.com/gwillem/armsim/pkg/servo"
	"github.com/gwillem/armsim/pkg/sim"
)

func TestLoadRobotConfig(t *testing.T) {
	cfg, err := loadRobotConfig("")
	require.NoError(t, err)
	assert.Equal(t, robot.DefaultConfig().Name, cfg.Name)

	_, err = loadRobotConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDescribeTable(t *testing.T) {
	out := describeTable(robot.Default())
	for _, a := range robot.Default().Axes() {
		assert.Contains(t, out, a.Name)
	}
	assert.Contains(t, out, "full turn")
	assert.Contains(t, out, "shoulder_lift")
}

type fakeReader struct{ raw map[int]int }

func (f *fakeReader) RawPositions(context.Context) (map[int]int, error) { return f.raw, nil }

func TestRecordModel(t *testing.T) {
	reader := &fakeReader{raw: map[int]int{1: 2000, 3: 1000}}
	m := newRecordModel(reader, servo.DefaultCalibration())

	next, _ := m.Update(recordTickMsg{})
	reader.raw = map[int]int{1: 1500, 3: 3000}
	next, _ = next.Update(recordTickMsg{})
	reader.raw = map[int]int{1: 2500, 3: 2000}
	next, _ = next.Update(recordTickMsg{})
	m = next.(recordModel)

	cal := m.calibration()
	assert.Equal(t, servo.MotorCalibration{ID: 1, RangeMin: 1500, RangeMax: 2500}, cal[servo.ShoulderPan])
	assert.Equal(t, servo.MotorCalibration{ID: 3, RangeMin: 1000, RangeMax: 3000}, cal[servo.ElbowFlex])
	assert.Equal(t, servo.MotorCalibration{ID: 2, RangeMin: servo.RawMin, RangeMax: servo.RawMax}, cal[servo.ShoulderLift], "never moved")
	assert.Contains(t, m.View(), "shoulder_pan")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
	assert.True(t, next.(recordModel).aborted)
}

func newTestRunModel() runModel {
	r := robot.Default()
	return newRunModel(sim.New(r, camera.New(r)), 60, nil)
}

func TestRunModel_KeysReachSimulator(t *testing.T) {
	m := newTestRunModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyF3})
	next, cmd := next.Update(frameMsg{})
	assert.NotNil(t, cmd)
	m = next.(runModel)
	assert.True(t, m.sim.Robot().DrawTCPCoordSystem())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	assert.True(t, next.(runModel).showChart)

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	next, _ = next.Update(frameMsg{})
	assert.True(t, next.(runModel).quitting)
}

func TestRunModel_MouseDragOrbits(t *testing.T) {
	m := newTestRunModel()
	az, _, dist := m.sim.Camera().Orbit()

	m.handleMouse(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.handleMouse(tea.MouseMsg{X: 14, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.handleMouse(tea.MouseMsg{X: 14, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m.handleMouse(tea.MouseMsg{X: 18, Y: 10, Action: tea.MouseActionMotion})
	m.handleMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})

	next, _ := m.Update(frameMsg{})
	m = next.(runModel)
	az2, _, dist2 := m.sim.Camera().Orbit()
	assert.InDelta(t, az-4*2, az2, 1e-9)
	assert.Less(t, dist2, dist)
}

func TestRunModel_View(t *testing.T) {
	m := newTestRunModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	next, _ = next.Update(logMsg{text: "hello log", from: make(chan string)})
	view := next.View()
	assert.Contains(t, view, "armsim")
	assert.Contains(t, view, "hello log")
}
