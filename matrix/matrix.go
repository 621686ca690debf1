// Package matrix provides the logical key matrix fed by the scan-code decoder.
//
// Scan Code Set 2 is assigned into a sparse 256-cell (32x8) matrix:
//
//	rows 0x00-0x0F: codes 0x00-0x7F without prefix
//	rows 0x10-0x1F: E0-prefixed codes, stored as (code | 0x80)
//
// Hanguel/English (F1) and Hanja (F2) collide with Delete (E0 71) and
// Down (E0 72). Those two Korean keys are not supported.
package matrix

import "math/bits"

const (
	// Rows is the number of matrix rows.
	Rows = 32
	// Cols is the number of matrix columns (bits per row).
	Cols = 8
)

// Positions of keys that do not map directly onto a single wire byte.
const (
	F7          = 0x83 // normal code beyond 0x7F
	PrintScreen = 0xFC
	Pause       = 0xFE
)

// Row returns the matrix row of a code.
func Row(code uint8) uint8 { return code >> 3 }

// Col returns the matrix column of a code.
func Col(code uint8) uint8 { return code & 0x07 }

// Position returns the (row, col) address of a code.
func Position(code uint8) (row, col uint8) { return Row(code), Col(code) }

// Code returns the code addressed by (row, col).
func Code(row, col uint8) uint8 { return row<<3 | col&0x07 }

// Matrix holds the pressed state of every addressable position.
// A Matrix is not safe for concurrent use.
type Matrix struct {
	rows     [Rows]uint8
	modified bool
}

// New returns a matrix with every position released.
func New() *Matrix {
	return &Matrix{}
}

// IsOn reports whether the position at (row, col) is pressed.
func (m *Matrix) IsOn(row, col uint8) bool {
	return m.rows[row]&(1<<col) != 0
}

// GetRow returns the raw contents of a row.
func (m *Matrix) GetRow(row uint8) uint8 {
	return m.rows[row]
}

// KeyCount returns the number of pressed positions.
func (m *Matrix) KeyCount() int {
	count := 0
	for _, r := range m.rows {
		count += bits.OnesCount8(r)
	}
	return count
}

// Make presses the position of code. The modification flag is only set
// when the position actually changes.
func (m *Matrix) Make(code uint8) {
	if !m.IsOn(Row(code), Col(code)) {
		m.rows[Row(code)] |= 1 << Col(code)
		m.modified = true
	}
}

// Break releases the position of code. The modification flag is only set
// when the position actually changes.
func (m *Matrix) Break(code uint8) {
	if m.IsOn(Row(code), Col(code)) {
		m.rows[Row(code)] &^= 1 << Col(code)
		m.modified = true
	}
}

// Clear releases every position unconditionally.
func (m *Matrix) Clear() {
	for i := range m.rows {
		m.rows[i] = 0x00
	}
}

// Modified reports whether any position changed since the last ResetModified.
func (m *Matrix) Modified() bool {
	return m.modified
}

// ResetModified clears the modification flag. Called at the start of each scan cycle.
func (m *Matrix) ResetModified() {
	m.modified = false
}

// Bitmap returns a copy of all rows.
func (m *Matrix) Bitmap() [Rows]uint8 {
	return m.rows
}

// Pressed returns the codes of all pressed positions in ascending order.
func (m *Matrix) Pressed() []uint8 {
	var codes []uint8
	for row, r := range m.rows {
		for col := uint8(0); col < Cols; col++ {
			if r&(1<<col) != 0 {
				codes = append(codes, Code(uint8(row), col))
			}
		}
	}
	return codes
}
