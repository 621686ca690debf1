package transport

import (
	"errors"
	"os"
	"syscall"
)

// ErrUnsupportedBaud is returned for baud rates the platform cannot set.
var ErrUnsupportedBaud = errors.New("unsupported baud rate")

// SerialConfig describes the serial link to the PS/2 interface board.
type SerialConfig struct {
	Device string `help:"Serial device delivering PS/2 bytes ('-' for stdin)" default:"/dev/ttyUSB0" env:"PS2USB_DEVICE"`
	Baud   int    `help:"Serial baud rate" default:"115200" env:"PS2USB_BAUD"`
}

// OpenSerial opens the configured device in raw mode. The device "-"
// selects stdin and is left untouched.
func OpenSerial(cfg SerialConfig) (*os.File, error) {
	if cfg.Device == "-" {
		return os.Stdin, nil
	}
	f, err := os.OpenFile(cfg.Device, os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, err
	}
	if err := configure(f, cfg.Baud); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}
