// Package mouse assembles relative mouse reports from thumbstick motion.
package mouse

import (
	"io"
)

// ReportSize is the length of an encoded mouse report.
const ReportSize = 5

// Button bits.
const (
	ButtonLeft   = 1 << 0
	ButtonRight  = 1 << 1
	ButtonMiddle = 1 << 2
)

// InputState is one relative mouse report.
type InputState struct {
	// Button bitfield: bit 0=Left, 1=Right, 2=Middle
	Buttons uint8
	// Relative motion since the previous report.
	DX, DY int8
	// Vertical and horizontal wheel.
	Wheel, Pan int8
}

// BuildReport encodes the state as a boot-compatible mouse report.
//
// Report layout (5 bytes):
//
//	Byte 0: Button bitfield (bits 3-7 padding)
//	Byte 1: DX
//	Byte 2: DY
//	Byte 3: Wheel
//	Byte 4: Pan
func (m InputState) BuildReport() []byte {
	return []byte{
		m.Buttons & 0x07,
		byte(m.DX),
		byte(m.DY),
		byte(m.Wheel),
		byte(m.Pan),
	}
}

// UnmarshalBinary decodes a report built by BuildReport.
func (m *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < ReportSize {
		return io.ErrUnexpectedEOF
	}
	m.Buttons = data[0]
	m.DX = int8(data[1])
	m.DY = int8(data[2])
	m.Wheel = int8(data[3])
	m.Pan = int8(data[4])
	return nil
}

// IsZero reports whether the state carries neither motion nor buttons.
func (m InputState) IsZero() bool {
	return m == InputState{}
}
