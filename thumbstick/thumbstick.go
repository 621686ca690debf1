// Package thumbstick maps an analog thumbstick to relative mouse motion.
package thumbstick

import (
	"fmt"
	"log/slog"
)

const (
	// Raw ADC range.
	Min    = 0
	Max    = 1023
	Center = 512
	// Slop is the deadzone radius around Center.
	Slop = 64

	divisor = 320

	// DefaultMaxSpeed matches the mouse-key default speed.
	DefaultMaxSpeed = 10
	// MaxMaxSpeed is the largest speed whose mapped values still fit in int8.
	MaxMaxSpeed = 80
)

// ADC channels wired to the stick.
const (
	ChannelX uint8 = 7
	ChannelY uint8 = 6
)

// ADC reads a raw 10-bit analog channel.
type ADC interface {
	ReadADC(channel uint8) uint16
}

// MouseSink receives relative motion and sends it on Flush.
type MouseSink interface {
	SetRelativeMotion(dx, dy, wheelH, wheelV int8)
	Flush()
}

// MapValue converts a raw reading into a signed speed.
func MapValue(raw uint16, maxSpeed int) int8 {
	if raw > Max {
		raw = Max
	}
	v := int(raw) - Center
	sign := 1
	if v < 0 {
		sign = -1
		v = -v
	}
	if v < Slop {
		return 0
	}
	return int8(sign * maxSpeed * v / divisor)
}

// Mapper turns stick readings into mouse motion. It is not safe for concurrent use.
type Mapper struct {
	maxSpeed int
	lastX    int8
	lastY    int8
	logger   *slog.Logger
}

// New returns a Mapper. A zero maxSpeed selects DefaultMaxSpeed.
func New(maxSpeed int, logger *slog.Logger) (*Mapper, error) {
	if maxSpeed == 0 {
		maxSpeed = DefaultMaxSpeed
	}
	if maxSpeed < 0 || maxSpeed > MaxMaxSpeed {
		return nil, fmt.Errorf("thumbstick max speed %d out of range 1..%d", maxSpeed, MaxMaxSpeed)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Mapper{maxSpeed: maxSpeed, logger: logger}, nil
}


// Process reads both axes and reports motion when either value changed or
// the stick is off center. It reports whether motion was sent.
func (m *Mapper) Process(adc ADC, sink MouseSink) bool {
	dirty := false
	x := m.read(adc, ChannelX, &m.lastX, &dirty)
	y := m.read(adc, ChannelY, &m.lastY, &dirty)

	if !dirty && x == 0 && y == 0 {
		return false
	}
	// screen Y grows downwards
	sink.SetRelativeMotion(x, -y, 0, 0)
	sink.Flush()
	m.logger.Debug("thumbstick motion", "x", x, "y", y)
	return true
}

func (m *Mapper) read(adc ADC, channel uint8, last *int8, dirty *bool) int8 {
	v := MapValue(adc.ReadADC(channel), m.maxSpeed)
	if v != *last {
		*last = v
		*dirty = true
	}
	return v
}
