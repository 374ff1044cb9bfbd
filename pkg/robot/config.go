package robot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gwillem/armsim/pkg/input"
)

// ReservedKeys are taken by simulator and terminal commands and cannot drive an axis.
var ReservedKeys = []input.Key{
	input.F1, input.F2, input.F3, input.F4, input.F5,
	input.Left, input.Right, input.Up, input.Down,
	input.Esc, "q", "b", "n", "m", "y", "x", "c", "v",
}

// Vec is a 3D offset in model units.
type Vec [3]float64

// Config describes a robot: its fixed base and its chain of axes, base to tool.
type Config struct {
	Name        string       `yaml:"name" json:"name"`
	Base        []string     `yaml:"base" json:"base"`
	TCPOffset   Vec          `yaml:"tcp_offset" json:"tcp_offset"`
	MaxVelocity float64      `yaml:"max_velocity" json:"max_velocity"`
	Axes        []AxisConfig `yaml:"axes" json:"axes"`
}

// AxisConfig describes one joint.
type AxisConfig struct {
	Name        string      `yaml:"name" json:"name"`
	Direction   string      `yaml:"direction" json:"direction"`
	StartAngle  float64     `yaml:"start_angle" json:"start_angle"`
	Min         float64     `yaml:"min" json:"min"`
	Max         float64     `yaml:"max" json:"max"`
	FullRange   bool        `yaml:"full_range" json:"full_range"`
	MaxVelocity float64     `yaml:"max_velocity" json:"max_velocity"`
	Keys        KeyBindings `yaml:"keys" json:"keys"`
	Offset      Vec         `yaml:"offset" json:"offset"`
	Mount       string      `yaml:"mount" json:"mount"`
	Part        string      `yaml:"part" json:"part"`
	Motor       string      `yaml:"motor" json:"motor"`
}

// Limits returns the joint limits the config describes.
func (a AxisConfig) Limits() Extrema {
	if a.FullRange {
		return FullRange()
	}
	return NewExtrema(a.Min, a.Max)
}

// DefaultConfig returns the four-axis arm of the original model: a turret on a
// pedestal, two tilting links and a rolling wrist.
func DefaultConfig() Config {
	return Config{
		Name:        "praxis arm",
		Base:        []string{"pedestal", "base", "screws"},
		TCPOffset:   Vec{0, 1.4, 0},
		MaxVelocity: DefaultMaxVelocity,
		Axes: []AxisConfig{
			{
				Name:      "turret",
				Direction: "rotation",
				FullRange: true,
				Keys:      KeyBindings{Increment: "a", Decrement: "d", Velocity: "1"},
				Offset:    Vec{0, pedestalHeight + lowerCylinderHeight, 0},
				Part:      "turret",
				Motor:     "shoulder_pan",
			},
			{
				Name:      "shoulder",
				Direction: "tilt",
				Min:       -100,
				Max:       100,
				Keys:      KeyBindings{Increment: "w", Decrement: "s", Velocity: "2"},
				Offset:    Vec{0, turretHeight, 0},
				Mount:     "counterweight",
				Part:      "upper_arm",
				Motor:     "shoulder_lift",
			},
			{
				Name:       "elbow",
				Direction:  "tilt",
				StartAngle: 30,
				Min:        -135,
				Max:        135,
				Keys:       KeyBindings{Increment: "i", Decrement: "k", Velocity: "3"},
				Offset:     Vec{0, upperArmLength, 0},
				Part:       "forearm",
				Motor:      "elbow_flex",
			},
			{
				Name:      "wrist",
				Direction: "rotation",
				FullRange: true,
				Keys:      KeyBindings{Increment: "j", Decrement: "l", Velocity: "4"},
				Offset:    Vec{0, forearmLength, 0},
				Part:      "wrist",
				Motor:     "wrist_roll",
			},
		},
	}
}

// LoadConfig reads a robot description. Files ending in .json are parsed as JSON,
// anything else as YAML. Missing values take defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read robot config: %w", err)
	}

	var cfg Config
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse robot config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("robot config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "robot"
	}
	if c.MaxVelocity <= 0 {
		c.MaxVelocity = DefaultMaxVelocity
	}
	for i := range c.Axes {
		a := &c.Axes[i]
		if a.Name == "" {
			a.Name = fmt.Sprintf("axis%d", i+1)
		}
		if a.Direction == "" {
			a.Direction = Rotation.String()
		}
		if a.MaxVelocity <= 0 {
			a.MaxVelocity = c.MaxVelocity
		}
	}
}

// Validate checks the description for configuration bugs.
func (c Config) Validate() error {
	if len(c.Axes) == 0 {
		return errors.New("no axes")
	}

	var errs []error
	seen := make(map[string]bool, len(c.Axes))
	for i, a := range c.Axes {
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("axis %d: missing name", i+1))
		} else if seen[a.Name] {
			errs = append(errs, fmt.Errorf("axis %q: duplicate name", a.Name))
		}
		seen[a.Name] = true

		if _, err := ParseDirection(a.Direction); err != nil {
			errs = append(errs, fmt.Errorf("axis %q: %w", a.Name, err))
		}
		if !a.FullRange {
			if !(a.Min < a.Max) {
				errs = append(errs, fmt.Errorf("axis %q: min %g must be below max %g", a.Name, a.Min, a.Max))
			} else if a.StartAngle < a.Min || a.StartAngle > a.Max {
				errs = append(errs, fmt.Errorf("axis %q: start angle %g outside [%g, %g]", a.Name, a.StartAngle, a.Min, a.Max))
			}
		}
		if a.MaxVelocity < 0 {
			errs = append(errs, fmt.Errorf("axis %q: negative max velocity", a.Name))
		}
	}
	errs = append(errs, c.validateKeys()...)
	return errors.Join(errs...)
}

// validateKeys rejects reserved keys and keys bound more than once. Empty keys are unbound.
func (c Config) validateKeys() []error {
	var errs []error
	owner := make(map[input.Key]string)
	for _, k := range ReservedKeys {
		owner[k] = "a simulator command"
	}
	for _, a := range c.Axes {
		for _, k := range []input.Key{a.Keys.Increment, a.Keys.Decrement, a.Keys.Velocity} {
			if k == "" {
				continue
			}
			if prev, ok := owner[k]; ok {
				errs = append(errs, fmt.Errorf("axis %q: key %q already used by %s", a.Name, k, prev))
				continue
			}
			owner[k] = fmt.Sprintf("axis %q", a.Name)
		}
	}
	return errs
}
