package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/gwillem/armsim/internal/logging"
	"github.com/gwillem/armsim/pkg/camera"
	"github.com/gwillem/armsim/pkg/input"
	"github.com/gwillem/armsim/pkg/mirror"
	"github.com/gwillem/armsim/pkg/robot"
	"github.com/gwillem/armsim/pkg/servo"
	"github.com/gwillem/armsim/pkg/sim"
)

type RunCommand struct {
	Config      string `long:"config" short:"c" description:"Robot description file (YAML or JSON)"`
	Hz          int    `long:"hz" default:"60" description:"Frame rate"`
	Seed        uint64 `long:"seed" description:"Seed for arbitrary configurations (0 picks a random one)"`
	Mirror      bool   `long:"mirror" description:"Mirror joint angles onto the arm configured by 'armsim setup'"`
	Invert      bool   `long:"invert" description:"With --mirror: turn shoulder_pan and wrist_roll the other way"`
	MetricsAddr string `long:"metrics-addr" description:"Serve prometheus metrics on this address, e.g. :2112"`
	LogFile     string `long:"log-file" default:"armsim.log" description:"Log file, empty to disable"`
	Debug       bool   `long:"debug" description:"Log debug messages"`
}

const (
	headerHeight = 1 // title line
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	chartHeight  = 10
	borderSize   = 2
)

// Axis colors in chain order, repeated for longer chains.
var axisColors = []string{"196", "208", "226", "46", "51", "201"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (c *RunCommand) Execute(args []string) error {
	if c.Hz <= 0 {
		return fmt.Errorf("invalid --hz %d", c.Hz)
	}

	logger, closeLog := logging.New(c.LogFile, c.Debug)
	defer closeLog()

	cfg, err := loadRobotConfig(c.Config)
	if err != nil {
		return err
	}
	robotOpts := []robot.Option{robot.WithLogger(logger.Named("robot"))}
	if c.Seed != 0 {
		robotOpts = append(robotOpts, robot.WithRand(rand.New(rand.NewPCG(c.Seed, c.Seed))))
	}
	r, err := robot.New(cfg, robotOpts...)
	if err != nil {
		return fmt.Errorf("build robot: %w", err)
	}

	simOpts := []sim.Option{sim.WithLogger(logger.Named("sim"))}
	if c.MetricsAddr != "" {
		metrics := sim.NewMetrics()
		simOpts = append(simOpts, sim.WithMetrics(metrics))
		stop := serveMetrics(c.MetricsAddr, metrics, logger)
		defer stop()
	}
	s := sim.New(r, camera.New(r), simOpts...)

	var mirrorLogs <-chan string
	if c.Mirror {
		ctrl, stop, err := startMirror(r, s, c.Hz, c.Invert, logger)
		if err != nil {
			return err
		}
		defer stop()
		mirrorLogs = ctrl.Logs()
	}

	logger.Infow("simulator started", "robot", r.Name(), "axes", len(r.Axes()), "hz", c.Hz)
	p := tea.NewProgram(newRunModel(s, c.Hz, mirrorLogs), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run simulator: %w", err)
	}
	logger.Infow("simulator stopped", "approaches", r.CompletedApproaches())
	return nil
}

func serveMetrics(addr string, m *sim.Metrics, logger *zap.SugaredLogger) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Infow("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("metrics server", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// startMirror drives the physical arm from the simulator's states. The
// returned stop func ends the loop, waits for the arm to be disabled and
// then closes the bus.
func startMirror(r *robot.Robot, s *sim.Simulator, hz int, invert bool, logger *zap.SugaredLogger) (*mirror.Controller, func(), error) {
	hw, err := servo.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	cal := hw.Calibration
	if !hw.IsCalibrated() {
		cal = servo.DefaultCalibration()
	}

	joints, err := mirror.JointsFor(r)
	if err != nil {
		return nil, nil, fmt.Errorf("map axes to motors: %w", err)
	}
	arm, err := servo.NewArm(hw.Port, cal)
	if err != nil {
		return nil, nil, fmt.Errorf("open arm on %s: %w", hw.Port, err)
	}
	ctrl, err := mirror.NewController(mirror.Config{Joints: joints, Hz: hz, Invert: invert}, arm)
	if err != nil {
		arm.Close()
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ctrl.Start(ctx, s.States()); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorw("mirror stopped", "error", err)
		}
	}()

	stop := func() {
		cancel()
		<-done
		if err := ctrl.Close(); err != nil {
			logger.Warnw("close arm", "error", err)
		}
	}
	return ctrl, stop, nil
}

type runModel struct {
	sim       *sim.Simulator
	in        *input.State
	hz        int
	chart     *streamlinechart.Model
	showChart bool
	width     int
	height    int
	logs      []string
	simLogs   <-chan string
	armLogs   <-chan string

	dragging bool
	mouseX   int
	mouseY   int
	quitting bool
}

type frameMsg time.Time

type logMsg struct {
	text string
	from <-chan string
}

func waitForLog(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return logMsg{text: <-ch, from: ch}
	}
}

func nextFrame(hz int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(hz), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func newRunModel(s *sim.Simulator, hz int, armLogs <-chan string) runModel {
	chart := streamlinechart.New(80, chartHeight, streamlinechart.WithYRange(-180, 360))
	for i, a := range s.Robot().Axes() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[i%len(axisColors)]))
		chart.SetDataSetStyles(a.Name, runes.ThinLineStyle, style)
	}
	return runModel{
		sim:     s,
		in:      input.NewState(),
		hz:      hz,
		chart:   &chart,
		simLogs: s.Logs(),
		armLogs: armLogs,
	}
}

func (m *runModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// sceneSize is what remains of the terminal after header, log box and chart.
func (m *runModel) sceneSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 24
	}
	height = m.height - headerHeight - footerHeight
	if m.showChart {
		height -= chartHeight + borderSize
	}
	return max(m.width, 20), max(height, 5)
}

func (m runModel) Init() tea.Cmd {
	cmds := []tea.Cmd{nextFrame(m.hz), waitForLog(m.simLogs)}
	if m.armLogs != nil {
		cmds = append(cmds, waitForLog(m.armLogs))
	}
	return tea.Batch(cmds...)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chart.Resize(max(m.width-borderSize, 20), chartHeight)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "v":
			m.showChart = !m.showChart
			return m, nil
		}
		m.in.Press(input.Key(msg.String()))
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case frameMsg:
		m.in.Tick()
		m.sim.Step(m.in)
		if m.sim.Quit() {
			m.quitting = true
			return m, tea.Quit
		}
		if m.showChart {
			for _, a := range m.sim.Robot().Axes() {
				m.chart.PushDataSet(a.Name, a.Orientation.Angle())
			}
			m.chart.DrawAll()
		}
		return m, nextFrame(m.hz)

	case logMsg:
		m.addLog(msg.text)
		return m, waitForLog(msg.from)
	}

	return m, nil
}

func (m *runModel) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.in.Scroll(1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.in.Scroll(-1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.mouseX, m.mouseY = msg.X, msg.Y
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.in.Move(msg.X-m.mouseX, msg.Y-m.mouseY)
		m.mouseX, m.mouseY = msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	}
}

func (m runModel) View() string {
	if m.quitting {
		return "Simulator stopped.\n"
	}

	var sb strings.Builder

	// Header
	r := m.sim.Robot()
	sb.WriteString(titleStyle.Render("armsim"))
	sb.WriteString(fmt.Sprintf(" - %s, %s camera", r.Name(), m.sim.Camera().Mode()))
	if r.Approaching() {
		sb.WriteString(statusStyle.Render("  approaching"))
	}
	sb.WriteString("\n")

	w, h := m.sceneSize()
	sb.WriteString(m.sim.Render(w, h))
	sb.WriteString("\n")

	if m.showChart {
		sb.WriteString(chartStyle.Render(m.chart.View()))
		sb.WriteString("\n")
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 20))

	logLines := statusStyle.Render("Esc for help, v for the angle chart, q to quit")
	if len(m.logs) > 0 {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}
