package servo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"
)

const (
	baudRate    = 1_000_000
	busTimeout  = 100 * time.Millisecond
	scanTimeout = 2 * time.Second
	servoCount  = 6
)

// Arm represents a robot arm with multiple servos.
type Arm struct {
	bus         *feetech.Bus
	group       *feetech.ServoGroup
	calibration Calibration
}

// NewArm opens the bus on port and groups the calibrated servos.
func NewArm(port string, cal Calibration) (*Arm, error) {
	bus, err := openBus(port)
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	return &Arm{
		bus:         bus,
		group:       feetech.NewServoGroupByIDs(bus, cal.MotorIDs()...),
		calibration: cal,
	}, nil
}

func openBus(port string) (*feetech.Bus, error) {
	return feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: baudRate,
		Protocol: feetech.ProtocolSTS,
		Timeout:  busTimeout,
	})
}

// Close closes the arm's bus connection.
func (a *Arm) Close() error {
	return a.bus.Close()
}

// Enable enables torque on all servos.
func (a *Arm) Enable(ctx context.Context) error {
	return a.group.EnableAll(ctx)
}

// Disable disables torque on all servos.
func (a *Arm) Disable(ctx context.Context) error {
	return a.group.DisableAll(ctx)
}

// ReadPositions reads normalized positions in [-100, 100] from all motors.
func (a *Arm) ReadPositions(ctx context.Context) (map[MotorName]float64, error) {
	rawPositions, err := a.group.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	positions := make(map[MotorName]float64, len(rawPositions))
	for id, raw := range rawPositions {
		name, cal, ok := a.calibration.ByID(id)
		if !ok {
			continue
		}
		positions[name] = cal.Normalize(raw)
	}
	return positions, nil
}

// RawPositions reads raw servo positions keyed by servo ID.
func (a *Arm) RawPositions(ctx context.Context) (map[int]int, error) {
	raw, err := a.group.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	return raw, nil
}

// WritePositions writes normalized target positions in [-100, 100].
func (a *Arm) WritePositions(ctx context.Context, positions map[MotorName]float64) error {
	raw := make(feetech.PositionMap, len(positions))
	for name, norm := range positions {
		cal, ok := a.calibration[name]
		if !ok {
			continue
		}
		raw[cal.ID] = cal.Denormalize(norm)
	}

	if err := a.group.SetPositions(ctx, raw); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}
	return nil
}

// Found is a serial port with a complete SO-101 servo set on it.
type Found struct {
	Port   string
	Servos []feetech.FoundServo
}

// FindArms probes every serial port for servos with IDs 1-6.
func FindArms(ctx context.Context) ([]Found, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}

	var arms []Found
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}
		servos, err := probe(ctx, port)
		if err != nil || !isSOArm(servos) {
			continue
		}
		arms = append(arms, Found{Port: port, Servos: servos})
	}
	return arms, nil
}

func probe(ctx context.Context, port string) ([]feetech.FoundServo, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	bus, err := openBus(port)
	if err != nil {
		return nil, err
	}
	defer bus.Close()

	return bus.Scan(ctx, 1, servoCount)
}

func isSOArm(servos []feetech.FoundServo) bool {
	if len(servos) != servoCount {
		return false
	}
	ids := make(map[int]bool, len(servos))
	for _, s := range servos {
		ids[s.ID] = true
	}
	for i := 1; i <= servoCount; i++ {
		if !ids[i] {
			return false
		}
	}
	return true
}
