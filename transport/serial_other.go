//go:build !linux

package transport

import (
	"errors"
	"os"
)

func configure(_ *os.File, _ int) error {
	return errors.New("serial configuration is only supported on linux")
}
