package mouse

import (
	"io"
	"log/slog"

	"github.com/Alia5/ps2usb/device"
)

var _ device.ReportBuilder = InputState{}

// Sink collects relative motion and writes one report per Flush.
// A nil writer only logs reports. Sink is not safe for concurrent use.
type Sink struct {
	state  InputState
	w      io.Writer
	logger *slog.Logger
	sent   int
}

// NewSink returns a Sink writing reports to w.
func NewSink(w io.Writer, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{w: w, logger: logger}
}

// SetRelativeMotion replaces the pending motion.
func (s *Sink) SetRelativeMotion(dx, dy, wheelH, wheelV int8) {
	s.state.DX = dx
	s.state.DY = dy
	s.state.Pan = wheelH
	s.state.Wheel = wheelV
}

// Sent returns the number of reports written so far.
func (s *Sink) Sent() int {
	return s.sent
}

// Flush sends the pending report. Relative values are one-shot and reset
// after sending. Write errors are logged, never returned,
// so a stalled host cannot stop the scan loop.
func (s *Sink) Flush() {
	report := s.state.BuildReport()
	s.state.DX, s.state.DY, s.state.Wheel, s.state.Pan = 0, 0, 0, 0
	s.sent++

	if s.w == nil {
		s.logger.Debug("mouse report", "report", report)
		return
	}
	if _, err := s.w.Write(report); err != nil {
		s.logger.Warn("failed to write mouse report", "error", err)
	}
}
