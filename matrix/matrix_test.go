package matrix_test

import (
	"testing"

	"github.com/Alia5/ps2usb/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition(t *testing.T) {
	type testCase struct {
		name string
		code uint8
		row  uint8
		col  uint8
	}

	cases := []testCase{
		{name: "zero", code: 0x00, row: 0, col: 0},
		{name: "A", code: 0x1C, row: 3, col: 4},
		{name: "last normal", code: 0x7F, row: 15, col: 7},
		{name: "F7", code: matrix.F7, row: 16, col: 3},
		{name: "extended right ctrl", code: 0x14 | 0x80, row: 18, col: 4},
		{name: "print screen", code: matrix.PrintScreen, row: 31, col: 4},
		{name: "pause", code: matrix.Pause, row: 31, col: 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row, col := matrix.Position(tc.code)
			assert.Equal(t, tc.row, row)
			assert.Equal(t, tc.col, col)
			assert.Equal(t, tc.code, matrix.Code(row, col))
		})
	}
}

func TestMakeBreak(t *testing.T) {
	m := matrix.New()
	require.Equal(t, 0, m.KeyCount())

	m.Make(0x1C)
	assert.True(t, m.IsOn(3, 4))
	assert.Equal(t, uint8(1<<4), m.GetRow(3))
	assert.Equal(t, 1, m.KeyCount())
	assert.True(t, m.Modified())

	m.ResetModified()
	m.Make(0x1C)
	assert.False(t, m.Modified(), "repeated make must not flag a change")
	assert.Equal(t, 1, m.KeyCount())

	m.Break(0x1C)
	assert.False(t, m.IsOn(3, 4))
	assert.True(t, m.Modified())
	assert.Equal(t, 0, m.KeyCount())

	m.ResetModified()
	m.Break(0x1C)
	assert.False(t, m.Modified(), "break of a released key must not flag a change")
}

func TestRoundTrip(t *testing.T) {
	m := matrix.New()
	m.Make(0x12)
	m.Make(0x59)
	m.Make(matrix.Pause)
	before := m.Bitmap()

	for code := 0; code < 256; code++ {
		c := uint8(code)
		if m.IsOn(matrix.Row(c), matrix.Col(c)) {
			continue
		}
		m.ResetModified()
		m.Make(c)
		assert.True(t, m.Modified(), "make 0x%02X", c)
		m.ResetModified()
		m.Break(c)
		assert.True(t, m.Modified(), "break 0x%02X", c)
		assert.Equal(t, before, m.Bitmap(), "code 0x%02X", c)
	}
}

func TestClear(t *testing.T) {
	m := matrix.New()
	for _, c := range []uint8{0x01, 0x1C, 0x83, 0xF4, 0xFE} {
		m.Make(c)
	}
	require.Equal(t, 5, m.KeyCount())

	m.Clear()
	assert.Equal(t, 0, m.KeyCount())
	assert.Equal(t, [matrix.Rows]uint8{}, m.Bitmap())
	assert.Empty(t, m.Pressed())
}

func TestPressed(t *testing.T) {
	m := matrix.New()
	m.Make(matrix.Pause)
	m.Make(0x05)
	m.Make(0x75 | 0x80)

	assert.Equal(t, []uint8{0x05, 0xF5, 0xFE}, m.Pressed())
}
