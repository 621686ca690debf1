package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Alia5/ps2usb/device/keyboard"
	"github.com/Alia5/ps2usb/driver"
	"github.com/Alia5/ps2usb/internal/log"
	"github.com/Alia5/ps2usb/matrix"
	"github.com/Alia5/ps2usb/transport"

	"golang.org/x/term"
)

// Run decodes a live byte stream.
type Run struct {
	Serial    transport.SerialConfig `embed:"" prefix:"serial."`
	Interval  time.Duration          `help:"Scan cycle interval" default:"1ms" env:"PS2USB_INTERVAL"`
	Render    bool                   `help:"Redraw the key matrix on every change when stdout is a terminal" env:"PS2USB_RENDER"`
	SetLEDs   bool                   `name:"set-leds" help:"Send LED commands to the keyboard after a self-test and on host LED changes" default:"true" env:"PS2USB_SET_LEDS"`
	LEDSource string                 `name:"led-source" help:"Device delivering host keyboard output reports, e.g. a USB gadget /dev/hidg0" env:"PS2USB_LED_SOURCE"`
}

// session is what one run of the scan loop works on.
type session struct {
	tr        *transport.Reader
	host      *keyboard.Host
	indicator *keyboard.Indicator
	// reports carries host output reports; nil without an LED source.
	reports <-chan []byte
	out     io.Writer
	render  bool
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := transport.OpenSerial(r.Serial)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.Serial.Device, err)
	}
	tr := transport.NewReader(f, 0)
	defer tr.Close()

	s := session{
		tr:     tr,
		host:   keyboard.NewHost(func() { logger.Info("released all keys") }, logger),
		out:    os.Stdout,
		render: r.Render && term.IsTerminal(int(os.Stdout.Fd())),
	}
	if r.SetLEDs && f != os.Stdin {
		s.indicator = keyboard.NewIndicator(tr.CommandWriter(f), logger)
	} else {
		s.indicator = keyboard.NewIndicator(nil, logger)
	}

	if r.LEDSource != "" {
		src, err := os.Open(r.LEDSource)
		if err != nil {
			return fmt.Errorf("open LED source %s: %w", r.LEDSource, err)
		}
		defer src.Close()
		reports := make(chan []byte, 1)
		go readOutputReports(ctx, src, reports, logger)
		s.reports = reports
	}

	return r.loop(ctx, s, logger, rawLogger)
}

// readOutputReports forwards every report read from src until it fails or
// ctx ends.
func readOutputReports(ctx context.Context, src io.Reader, reports chan<- []byte, logger *slog.Logger) {
	buf := make([]byte, 8)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			select {
			case reports <- append([]byte(nil), buf[:n]...):
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				logger.Warn("LED source failed", "error", err)
			}
			return
		}
	}
}

func (r *Run) loop(ctx context.Context, s session, logger *slog.Logger, rawLogger log.RawLogger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	drv, err := driver.New(driver.Config{}, driver.Deps{
		Transport: s.tr,
		Host:      s.host,
		Indicator: s.indicator,
		Logger:    logger,
		RawLogger: rawLogger,
	})
	if err != nil {
		return err
	}

	interval := r.Interval
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Scanning", "device", r.Serial.Device, "interval", interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping")
			return nil
		case report := <-s.reports:
			s.host.HandleOutput(report)
			s.indicator.SetLEDs(s.host.CurrentLEDState())
			continue
		case <-ticker.C:
		}

		drv.Advance()
		m := drv.Matrix()
		if m.Modified() {
			if s.render {
				_, _ = io.WriteString(s.out, "\x1b[H\x1b[2J"+RenderMatrix(m))
			} else {
				logger.Info("matrix changed", "pressed", fmt.Sprintf("[% X]", m.Pressed()))
			}
		}

		if s.tr.Drained() {
			if err := s.tr.Err(); !errors.Is(err, io.EOF) && !errors.Is(err, transport.ErrClosed) {
				return fmt.Errorf("transport: %w", err)
			}
			logger.Info("End of input")
			return nil
		}
	}
}

// RenderMatrix draws the matrix as 32 rows of 8 columns, '#' for pressed.
func RenderMatrix(m *matrix.Matrix) string {
	var sb strings.Builder
	sb.WriteString("    01234567\n")
	for row := uint8(0); row < matrix.Rows; row++ {
		fmt.Fprintf(&sb, "%02X  ", row)
		for col := uint8(0); col < matrix.Cols; col++ {
			if m.IsOn(row, col) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "keys: %d\n", m.KeyCount())
	return sb.String()
}
