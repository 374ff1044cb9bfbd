package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/gwillem/armsim/pkg/robot"
)

type Options struct {
	Run      RunCommand      `command:"run" description:"Start the simulator"`
	Setup    SetupCommand    `command:"setup" description:"Find and configure a physical arm for mirroring"`
	Describe DescribeCommand `command:"describe" alias:"info" description:"Print the robot description"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "armsim - articulated robot arm simulator for the terminal"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

// loadRobotConfig reads a robot description, or returns the built-in one for an empty path.
func loadRobotConfig(path string) (robot.Config, error) {
	if path == "" {
		return robot.DefaultConfig(), nil
	}
	cfg, err := robot.LoadConfig(path)
	if err != nil {
		return robot.Config{}, fmt.Errorf("load robot description: %w", err)
	}
	return cfg, nil
}
