// Package driver runs one scan cycle of the converter: the Pause release,
// one byte of scan-code decoding, the button debouncer and the thumbstick.
package driver

import (
	"errors"
	"log/slog"

	"github.com/Alia5/ps2usb/buttons"
	"github.com/Alia5/ps2usb/internal/log"
	"github.com/Alia5/ps2usb/matrix"
	"github.com/Alia5/ps2usb/scancode"
	"github.com/Alia5/ps2usb/thumbstick"
)

// Alive is returned by Advance. The scan loop never stops on its own.
const Alive = 1

// Config selects and tunes the optional inputs.
type Config struct {
	Buttons          bool   `help:"Poll the two extra buttons" default:"false" env:"PS2USB_BUTTONS"`
	DebounceInterval uint16 `help:"Button debounce window in milliseconds" default:"5" env:"PS2USB_DEBOUNCE"`
	Thumbstick       bool   `help:"Poll the analog thumbstick" default:"false" env:"PS2USB_THUMBSTICK"`
	MaxSpeed         int    `help:"Thumbstick mouse speed at full deflection (1-80)" default:"10" env:"PS2USB_MAX_SPEED"`
}

// Deps are the collaborators of a Driver. Transport is required; the
// others are required only when the matching input is enabled.
type Deps struct {
	Transport scancode.Transport
	Host      scancode.Host
	Indicator scancode.Indicator
	Pins      buttons.Pins
	Clock     buttons.Clock
	ADC       thumbstick.ADC
	Mouse     thumbstick.MouseSink
	Logger    *slog.Logger
	RawLogger log.RawLogger
}

// Driver owns the key matrix and all per-cycle state. It must be driven
// from a single goroutine.
type Driver struct {
	matrix    *matrix.Matrix
	decoder   *scancode.Decoder
	debouncer *buttons.Debouncer
	stick     *thumbstick.Mapper
	deps      Deps
}

// New wires a Driver with every position released and the decoder in INIT.
func New(cfg Config, deps Deps) (*Driver, error) {
	if deps.Transport == nil {
		return nil, errors.New("driver: transport is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	m := matrix.New()
	d := &Driver{
		matrix:  m,
		decoder: scancode.NewDecoder(m, deps.Host, deps.Indicator, deps.Logger, deps.RawLogger),
		deps:    deps,
	}

	if cfg.Buttons {
		if deps.Pins == nil || deps.Clock == nil {
			return nil, errors.New("driver: buttons need pins and a clock")
		}
		d.debouncer = buttons.New(cfg.DebounceInterval, deps.Logger.With("component", "buttons"))
	}

	if cfg.Thumbstick {
		if deps.ADC == nil || deps.Mouse == nil {
			return nil, errors.New("driver: thumbstick needs an ADC and a mouse sink")
		}
		stick, err := thumbstick.New(cfg.MaxSpeed, deps.Logger.With("component", "thumbstick"))
		if err != nil {
			return nil, err
		}
		d.stick = stick
	}

	return d, nil
}

// Matrix returns the key matrix for report assembly.
func (d *Driver) Matrix() *matrix.Matrix {
	return d.matrix
}

// Decoder returns the scan-code decoder.
func (d *Driver) Decoder() *scancode.Decoder {
	return d.decoder
}

// Advance runs one scan cycle and returns Alive.
//
// Order matters: Pause is released before the next byte is decoded so a
// Pause make is visible for exactly one cycle.
func (d *Driver) Advance() int {
	d.matrix.ResetModified()

	if d.matrix.IsOn(matrix.Position(matrix.Pause)) {
		d.matrix.Break(matrix.Pause)
	}

	d.decoder.Poll(d.deps.Transport)

	if d.debouncer != nil {
		d.debouncer.Scan(d.deps.Clock.Now(), d.deps.Pins, d.matrix)
	}

	if d.stick != nil {
		d.stick.Process(d.deps.ADC, d.deps.Mouse)
	}

	return Alive
}
