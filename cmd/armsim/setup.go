package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/armsim/pkg/servo"
)

type SetupCommand struct {
	Calibration string `long:"calibration" description:"Calibration JSON to use instead of the full servo range"`
	Record      bool   `long:"record" description:"Record each joint's range of motion by moving the arm by hand"`
	Output      string `long:"output" short:"o" default:"armsim.json" description:"Where to save the configuration"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("armsim Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━"))
	fmt.Println()

	port, err := pickPort()
	if err != nil {
		return err
	}

	cal := servo.DefaultCalibration()
	switch {
	case c.Calibration != "":
		if cal, err = servo.LoadCalibration(c.Calibration); err != nil {
			return err
		}
		fmt.Printf("Using calibration from %s\n", c.Calibration)
	case c.Record:
		fmt.Println()
		fmt.Println(subHeaderStyle.Render("━━━ Record range of motion ━━━"))
		fmt.Println()
		if cal, err = recordCalibration(port); err != nil {
			return err
		}
	}

	cfg := &servo.Config{Port: port, Calibration: cal}
	if err := cfg.SaveTo(c.Output); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", c.Output)
	fmt.Println()
	fmt.Println("Mirror the simulation with: " + headerStyle.Render("armsim run --mirror"))
	return nil
}

func pickPort() (string, error) {
	fmt.Println("Scanning for robot arms...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	arms, err := servo.FindArms(ctx)
	if err != nil {
		return "", err
	}
	if len(arms) == 0 {
		return "", errors.New("no SO-101 arm found, make sure it is connected and powered on")
	}
	for _, a := range arms {
		fmt.Printf("  Found SO-101 arm on %s\n", a.Port)
	}
	if len(arms) == 1 {
		return arms[0].Port, nil
	}

	options := make([]huh.Option[string], 0, len(arms))
	for _, a := range arms {
		options = append(options, huh.NewOption(a.Port, a.Port))
	}
	var port string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which arm should mirror the simulation?").
				Options(options...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("select arm: %w", err)
	}
	return port, nil
}

func recordCalibration(port string) (servo.Calibration, error) {
	defaults := servo.DefaultCalibration()
	arm, err := servo.NewArm(port, defaults)
	if err != nil {
		return nil, err
	}
	defer arm.Close()

	// torque off so the joints move freely by hand
	ctx := context.Background()
	if err := arm.Disable(ctx); err != nil {
		return nil, fmt.Errorf("disable torque: %w", err)
	}

	fmt.Println("Move each joint to its minimum AND maximum positions.")
	fmt.Println()

	final, err := tea.NewProgram(newRecordModel(arm, defaults)).Run()
	if err != nil {
		return nil, fmt.Errorf("record calibration: %w", err)
	}
	m := final.(recordModel)
	if m.aborted {
		return nil, errors.New("calibration aborted")
	}
	return m.calibration(), nil
}

type rawReader interface {
	RawPositions(ctx context.Context) (map[int]int, error)
}

// recordModel tracks the raw range each motor moves through.
type recordModel struct {
	arm      rawReader
	motors   []servo.MotorName
	ids      map[servo.MotorName]int
	cur      map[servo.MotorName]int
	lo, hi   map[servo.MotorName]int
	quitting bool
	aborted  bool
}

type recordTickMsg time.Time

func newRecordModel(arm rawReader, cal servo.Calibration) recordModel {
	m := recordModel{
		arm:    arm,
		motors: servo.AllMotors(),
		ids:    make(map[servo.MotorName]int),
		cur:    make(map[servo.MotorName]int),
		lo:     make(map[servo.MotorName]int),
		hi:     make(map[servo.MotorName]int),
	}
	for _, name := range m.motors {
		m.ids[name] = cal[name].ID
	}
	return m
}

func recordTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return recordTickMsg(t)
	})
}

func (m recordModel) Init() tea.Cmd {
	return recordTick()
}

func (m recordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.quitting = true
			return m, tea.Quit
		case "q", "ctrl+c":
			m.quitting, m.aborted = true, true
			return m, tea.Quit
		}

	case recordTickMsg:
		raw, err := m.arm.RawPositions(context.Background())
		if err == nil {
			m.observe(raw)
		}
		return m, recordTick()
	}
	return m, nil
}

func (m recordModel) observe(raw map[int]int) {
	for _, name := range m.motors {
		pos, ok := raw[m.ids[name]]
		if !ok {
			continue
		}
		if _, seen := m.cur[name]; !seen {
			m.lo[name], m.hi[name] = pos, pos
		}
		m.cur[name] = pos
		m.lo[name] = min(m.lo[name], pos)
		m.hi[name] = max(m.hi[name], pos)
	}
}

// calibration returns the recorded ranges. Motors that never moved keep the full range.
func (m recordModel) calibration() servo.Calibration {
	cal := make(servo.Calibration, len(m.motors))
	for _, name := range m.motors {
		mc := servo.MotorCalibration{ID: m.ids[name], RangeMin: servo.RawMin, RangeMax: servo.RawMax}
		if m.hi[name] > m.lo[name] {
			mc.RangeMin, mc.RangeMax = m.lo[name], m.hi[name]
		}
		cal[name] = mc
	}
	return cal
}

func (m recordModel) View() string {
	if m.quitting {
		return ""
	}

	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableMotorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableRangeGoodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	tableRangeLowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	rows := make([][]string, 0, len(m.motors))
	ranges := make([]int, 0, len(m.motors))
	for _, name := range m.motors {
		span := m.hi[name] - m.lo[name]
		ranges = append(ranges, span)
		rows = append(rows, []string{
			string(name),
			fmt.Sprintf("%d", m.cur[name]),
			fmt.Sprintf("%d", m.lo[name]),
			fmt.Sprintf("%d", m.hi[name]),
			fmt.Sprintf("%d", span),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Motor", "Current", "Min", "Max", "Range").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return tableMotorStyle
			case col == 4 && row >= 0 && row < len(ranges) && ranges[row] > 500:
				return tableRangeGoodStyle
			case col == 4:
				return tableRangeLowStyle
			default:
				return tableCellStyle
			}
		})

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Press Enter when done, q to abort"))
	return sb.String()
}
