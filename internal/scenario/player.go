package scenario

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Alia5/ps2usb/device/keyboard"
	"github.com/Alia5/ps2usb/device/mouse"
	"github.com/Alia5/ps2usb/driver"
	"github.com/Alia5/ps2usb/internal/log"
	"github.com/Alia5/ps2usb/thumbstick"
)

// ErrTransmission marks bytes scripted as corrupt.
var ErrTransmission = errors.New("scripted transmission error")

type cycle struct {
	code    byte
	has     bool
	corrupt bool
	buttons uint8
	x, y    uint16
}

// Player feeds a compiled scenario to the driver. It implements the
// transport, button pins, ADC and clock collaborators.
type Player struct {
	cycles []cycle
	pos    int
	now    uint16
	tick   uint16
	cur    cycle
}

// NewPlayer compiles sc into per-cycle input.
func NewPlayer(sc *Scenario) *Player {
	tick := uint16(sc.Tick)
	if tick == 0 {
		tick = 1
	}

	p := &Player{tick: tick}
	state := cycle{x: thumbstick.Center, y: thumbstick.Center}
	for _, st := range sc.Steps {
		if st.Buttons != nil {
			state.buttons = uint8(*st.Buttons)
		}
		if st.Stick != nil {
			state.x, state.y = uint16(st.Stick.X), uint16(st.Stick.Y)
		}
		emit := func(code int, corrupt bool) {
			c := state
			c.code, c.has, c.corrupt = byte(code), true, corrupt
			p.cycles = append(p.cycles, c)
		}
		for _, b := range st.Send {
			emit(b, false)
		}
		for _, b := range st.Corrupt {
			emit(b, true)
		}
		for i := 0; i < st.Cycles; i++ {
			p.cycles = append(p.cycles, state)
		}
		if len(st.Send) == 0 && len(st.Corrupt) == 0 && st.Cycles == 0 {
			// input changes still take one cycle
			p.cycles = append(p.cycles, state)
		}
	}
	return p
}

// Len returns the number of cycles in the scenario.
func (p *Player) Len() int { return len(p.cycles) }

// Next loads the input for the next cycle and advances the clock.
// It returns false once every cycle was played.
func (p *Player) Next() bool {
	if p.pos >= len(p.cycles) {
		return false
	}
	p.cur = p.cycles[p.pos]
	p.pos++
	p.now += p.tick
	return true
}

// Recv implements scancode.Transport. Each cycle yields at most one byte.
func (p *Player) Recv() (byte, bool, error) {
	if !p.cur.has {
		return 0, false, nil
	}
	p.cur.has = false
	if p.cur.corrupt {
		return p.cur.code, true, ErrTransmission
	}
	return p.cur.code, true, nil
}

// ReadButtons implements buttons.Pins with active-low levels.
func (p *Player) ReadButtons() uint8 { return ^p.cur.buttons }

// ReadADC implements thumbstick.ADC.
func (p *Player) ReadADC(channel uint8) uint16 {
	if channel == thumbstick.ChannelX {
		return p.cur.x
	}
	return p.cur.y
}

// Now implements buttons.Clock.
func (p *Player) Now() uint16 { return p.now }

// Result is the final state after a run.
type Result struct {
	Cycles       int
	Pressed      []uint8
	Clears       int
	MouseReports int
}

// Run plays sc through a fresh driver. Matrix changes are logged at info level.
func Run(sc *Scenario, cfg driver.Config, logger *slog.Logger, rawLogger log.RawLogger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := NewPlayer(sc)
	host := keyboard.NewHost(nil, logger)
	sink := mouse.NewSink(nil, logger)

	drv, err := driver.New(cfg, driver.Deps{
		Transport: p,
		Host:      host,
		Indicator: keyboard.NewIndicator(nil, logger),
		Pins:      p,
		Clock:     p,
		ADC:       p,
		Mouse:     sink,
		Logger:    logger,
		RawLogger: rawLogger,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for p.Next() {
		drv.Advance()
		res.Cycles++
		if drv.Matrix().Modified() {
			logger.Info("matrix changed", "cycle", res.Cycles, "pressed", formatCodes(drv.Matrix().Pressed()))
		}
	}
	res.Pressed = drv.Matrix().Pressed()
	res.Clears = host.Clears()
	res.MouseReports = sink.Sent()
	return res, nil
}

// Check compares the result against the expectation. A nil expectation always passes.
func (r *Result) Check(exp *Expect) error {
	if exp == nil {
		return nil
	}
	var errs []error
	want := make([]uint8, 0, len(exp.Pressed))
	for _, c := range exp.Pressed {
		want = append(want, uint8(c))
	}
	slices.Sort(want)
	got := r.Pressed
	if got == nil {
		got = []uint8{}
	}
	if !slices.Equal(want, got) {
		errs = append(errs, fmt.Errorf("pressed: want %s, got %s", formatCodes(want), formatCodes(got)))
	}
	if exp.Clears != nil && *exp.Clears != r.Clears {
		errs = append(errs, fmt.Errorf("clears: want %d, got %d", *exp.Clears, r.Clears))
	}
	if exp.MouseReports != nil && *exp.MouseReports != r.MouseReports {
		errs = append(errs, fmt.Errorf("mouse reports: want %d, got %d", *exp.MouseReports, r.MouseReports))
	}
	return errors.Join(errs...)
}

func formatCodes(codes []uint8) string {
	return fmt.Sprintf("[% X]", codes)
}
