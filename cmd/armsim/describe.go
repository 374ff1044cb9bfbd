package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/armsim/pkg/robot"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type DescribeCommand struct {
	Config string `long:"config" short:"c" description:"Robot description file (YAML or JSON)"`
}

func (c *DescribeCommand) Execute(args []string) error {
	cfg, err := loadRobotConfig(c.Config)
	if err != nil {
		return err
	}
	r, err := robot.New(cfg)
	if err != nil {
		return fmt.Errorf("build robot: %w", err)
	}

	fmt.Println(headerStyle.Render(r.Name()))
	fmt.Println(dimStyle.Render(fmt.Sprintf("base: %s  tcp offset: %v", strings.Join(cfg.Base, ", "), cfg.TCPOffset)))
	fmt.Println()
	fmt.Println(describeTable(r))
	return nil
}

func describeTable(r *robot.Robot) string {
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)

	rows := make([][]string, 0, len(r.Axes()))
	for _, a := range r.Axes() {
		d := a.Orientation
		limits := d.Limits().String()
		if d.FullRange() {
			limits = "full turn"
		}
		k := d.Keys()
		motor := r.Motor(a)
		if motor == "" {
			motor = "-"
		}
		rows = append(rows, []string{
			a.Name,
			a.Direction.String(),
			limits,
			fmt.Sprintf("%g", d.StartAngle()),
			fmt.Sprintf("%g", d.MaxVelocity()),
			fmt.Sprintf("%s/%s  %s", k.Increment, k.Decrement, k.Velocity),
			motor,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Axis", "Direction", "Range", "Start", "Max °/tick", "Keys", "Motor").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return nameStyle
			default:
				return cellStyle
			}
		}).
		Render()
}
