// Package keyboard implements the host-facing collaborators of the
// scan-code decoder: the host report sink and the LED indicator.
package keyboard

import (
	"io"
	"log/slog"
	"sync"
)

// Host tracks the LED state set by the USB host and forwards key-release
// requests to the report layer. LED updates may arrive from another
// goroutine, so the LED byte is guarded.
type Host struct {
	mu       sync.Mutex
	ledState uint8
	clears   int
	onClear  func()
	logger   *slog.Logger
}

// NewHost returns a Host. onClear may be nil.
func NewHost(onClear func(), logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{onClear: onClear, logger: logger}
}

// HandleOutput processes a keyboard output report from the host.
// The first byte is the LED bitmask.
func (h *Host) HandleOutput(out []byte) {
	if len(out) < 1 {
		return
	}
	h.mu.Lock()
	h.ledState = out[0]
	h.mu.Unlock()
	h.logger.Debug("host LED state", "leds", ParseLEDs(out[0]))
}

// CurrentLEDState returns the LED bitmask last set by the host.
func (h *Host) CurrentLEDState() uint8 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ledState
}

// ClearPressedKeys drops every key reported to the host.
func (h *Host) ClearPressedKeys() {
	h.mu.Lock()
	h.clears++
	h.mu.Unlock()
	h.logger.Debug("clear pressed keys")
	if h.onClear != nil {
		h.onClear()
	}
}

// Clears returns how often ClearPressedKeys was called.
func (h *Host) Clears() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clears
}

// Indicator sends LED updates to the keyboard with the PS/2 Set LEDs
// command. A nil writer only logs the state.
type Indicator struct {
	w      io.Writer
	logger *slog.Logger
}

// NewIndicator returns an Indicator writing commands to w.
func NewIndicator(w io.Writer, logger *slog.Logger) *Indicator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Indicator{w: w, logger: logger}
}

// SetLEDs takes a host LED bitmask.
func (i *Indicator) SetLEDs(leds uint8) {
	st := ParseLEDs(leds)
	i.logger.Info("set LEDs", "leds", st)
	if i.w == nil {
		return
	}
	if _, err := i.w.Write([]byte{PS2CmdSetLEDs, st.PS2()}); err != nil {
		i.logger.Warn("failed to send LED command", "error", err)
	}
}
