package scancode

import (
	"context"
	"log/slog"

	"github.com/Alia5/ps2usb/internal/log"
	"github.com/Alia5/ps2usb/matrix"
)

// Transport supplies received PS/2 bytes.
type Transport interface {
	// Recv returns the next received byte without blocking.
	// ok is false when no byte is pending. A non-nil err flags a
	// transmission error on the returned byte.
	Recv() (code byte, ok bool, err error)
}

// Host is the report side of the converter.
type Host interface {
	// ClearPressedKeys releases every key reported to the host.
	ClearPressedKeys()
	// CurrentLEDState returns the LED bitmask last set by the host.
	CurrentLEDState() uint8
}

// Indicator drives the keyboard LEDs.
type Indicator interface {
	SetLEDs(leds uint8)
}

// Decoder is the Scan Code Set 2 state machine. It is not safe for concurrent use.
type Decoder struct {
	state     State
	matrix    *matrix.Matrix
	host      Host
	indicator Indicator
	logger    *slog.Logger
	rawLogger log.RawLogger
}

// NewDecoder returns a decoder in StateInit writing to m.
// host and indicator may be nil.
func NewDecoder(m *matrix.Matrix, host Host, indicator Indicator, logger *slog.Logger, rawLogger log.RawLogger) *Decoder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if rawLogger == nil {
		rawLogger = log.NewRaw(nil)
	}
	return &Decoder{
		matrix:    m,
		host:      host,
		indicator: indicator,
		logger:    logger,
		rawLogger: rawLogger,
	}
}

// State returns the current decoder state.
func (d *Decoder) State() State {
	return d.state
}

// Poll receives at most one byte from t and feeds it. It reports whether a
// byte was consumed. Bytes flagged with a transmission error are dropped.
func (d *Decoder) Poll(t Transport) bool {
	code, ok, err := t.Recv()
	if !ok {
		return false
	}
	if code != 0 {
		d.rawLogger.Log([]byte{code})
		d.logger.Log(context.Background(), log.LevelTrace, "recv", "code", Hex(code))
	}
	if err != nil {
		d.logger.Debug("dropping byte with transmission error", "code", Hex(code), "state", d.state, "error", err)
		return false
	}
	d.Feed(code)
	return true
}

// Feed applies one validated byte.
func (d *Decoder) Feed(code uint8) {
	step := Transition(d.state, code)

	switch step.Action {
	case ActionMake:
		d.matrix.Make(step.Code)
	case ActionBreak:
		d.matrix.Break(step.Code)
	case ActionOverrun:
		d.resync()
		d.logger.Warn("Overrun")
	case ActionSelfTest:
		result := "OK"
		if code == CodeSelfTestFail {
			result = "NG"
		}
		d.logger.Info("BAT "+result, "code", Hex(code))
		if d.host != nil && d.indicator != nil {
			d.indicator.SetLEDs(d.host.CurrentLEDState())
		}
	case ActionUnexpected:
		d.resync()
		if step.Next == StateF0 {
			d.logger.Warn("unexpected scan code, clear and continue", "state", d.state, "code", Hex(code))
		} else {
			d.logger.Warn("unexpected scan code", "state", d.state, "code", Hex(code))
		}
	}

	d.state = step.Next
}

func (d *Decoder) resync() {
	d.matrix.Clear()
	if d.host != nil {
		d.host.ClearPressedKeys()
	}
}
