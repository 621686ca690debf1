// Package buttons debounces two discrete push buttons into reserved key
// matrix positions.
package buttons

import "log/slog"

// DefaultInterval is the debounce window in milliseconds.
const DefaultInterval uint16 = 5

// Matrix positions driven by the buttons. They do not collide with any
// Scan Code Set 2 key.
const (
	CodeButtonOne = 0x08
	CodeButtonTwo = 0x10
)

const (
	bitButtonOne = 1 << 0
	bitButtonTwo = 1 << 1
	buttonMask   = bitButtonOne | bitButtonTwo
)

// Pins reads the electrical button levels. Bit 0 is button one and bit 1
// is button two. The pins are pulled up, so a set bit means released.
type Pins interface {
	ReadButtons() uint8
}

// Clock is a millisecond tick source that wraps at 16 bits.
type Clock interface {
	Now() uint16
}

// Elapsed returns the ticks since start, tolerating one wrap of the counter.
func Elapsed(now, start uint16) uint16 {
	return now - start
}

// Normalize turns active-low pin levels into pressed bits.
func Normalize(levels uint8) uint8 {
	return ^levels & buttonMask
}

// Matrix is the subset of the key matrix the debouncer writes to.
type Matrix interface {
	Make(code uint8)
	Break(code uint8)
}

// Debouncer commits a button sample only once it has been stable for
// longer than Interval. It is not safe for concurrent use.
type Debouncer struct {
	Interval uint16

	stable     uint8
	pending    uint8
	debouncing bool
	since      uint16
	logger     *slog.Logger
}

// New returns a debouncer with the given interval. A zero interval selects DefaultInterval.
func New(interval uint16, logger *slog.Logger) *Debouncer {
	if interval == 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Debouncer{Interval: interval, logger: logger}
}

// Stable returns the last committed pressed bits.
func (d *Debouncer) Stable() uint8 {
	return d.stable
}

// Debouncing reports whether a sample change is waiting to be committed.
func (d *Debouncer) Debouncing() bool {
	return d.debouncing
}

// Scan samples the pins once and commits the sample to m when it has
// settled. It reports whether a commit happened.
func (d *Debouncer) Scan(now uint16, pins Pins, m Matrix) bool {
	return d.Update(now, Normalize(pins.ReadButtons()), m)
}

// Update feeds an already normalized sample.
func (d *Debouncer) Update(now uint16, sample uint8, m Matrix) bool {
	sample &= buttonMask
	if sample != d.pending {
		d.pending = sample
		d.debouncing = true
		d.since = now
		d.logger.Debug("button sample changed", "pressed", sample)
	}

	if !d.debouncing || Elapsed(now, d.since) <= d.Interval {
		return false
	}

	d.debouncing = false
	if d.pending == d.stable {
		// the sample bounced back before settling
		return false
	}
	d.stable = d.pending

	apply(m, CodeButtonOne, d.stable&bitButtonOne != 0)
	apply(m, CodeButtonTwo, d.stable&bitButtonTwo != 0)
	d.logger.Debug("button state committed", "pressed", d.stable)
	return true
}

func apply(m Matrix, code uint8, pressed bool) {
	if pressed {
		m.Make(code)
	} else {
		m.Break(code)
	}
}
