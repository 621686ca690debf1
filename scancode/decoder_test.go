package scancode_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/Alia5/ps2usb/internal/log"
	"github.com/Alia5/ps2usb/matrix"
	"github.com/Alia5/ps2usb/scancode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	clears int
	leds   uint8
}

func (h *fakeHost) ClearPressedKeys()      { h.clears++ }
func (h *fakeHost) CurrentLEDState() uint8 { return h.leds }

type fakeIndicator struct {
	calls []uint8
}

func (i *fakeIndicator) SetLEDs(leds uint8) { i.calls = append(i.calls, leds) }

type recv struct {
	code byte
	ok   bool
	err  error
}

type fakeTransport struct {
	queue []recv
}

func (t *fakeTransport) Recv() (byte, bool, error) {
	if len(t.queue) == 0 {
		return 0, false, nil
	}
	r := t.queue[0]
	t.queue = t.queue[1:]
	return r.code, r.ok, r.err
}

func newDecoder() (*scancode.Decoder, *matrix.Matrix, *fakeHost, *fakeIndicator) {
	m := matrix.New()
	h := &fakeHost{}
	ind := &fakeIndicator{}
	return scancode.NewDecoder(m, h, ind, nil, nil), m, h, ind
}

func feed(d *scancode.Decoder, codes ...uint8) {
	for _, c := range codes {
		d.Feed(c)
	}
}

func isOn(m *matrix.Matrix, code uint8) bool {
	return m.IsOn(matrix.Row(code), matrix.Col(code))
}

var specialCodes = map[uint8]bool{
	0x00: true, 0xE0: true, 0xF0: true, 0xE1: true, 0x83: true, 0x84: true, 0xAA: true, 0xFC: true,
}

func TestNormalMakeSetsSinglePosition(t *testing.T) {
	for code := 0; code < 0x80; code++ {
		c := uint8(code)
		if specialCodes[c] {
			continue
		}
		d, m, _, _ := newDecoder()
		d.Feed(c)
		assert.Equal(t, scancode.StateInit, d.State())
		assert.Equal(t, []uint8{c}, m.Pressed(), "code %02X", c)
	}
}

func TestExtendedMakeSetsHighPosition(t *testing.T) {
	for code := 0; code < 0x80; code++ {
		c := uint8(code)
		if c == 0x12 || c == 0x59 || c == 0x7E {
			continue
		}
		d, m, _, _ := newDecoder()
		feed(d, 0xE0, c)
		assert.Equal(t, scancode.StateInit, d.State())
		assert.Equal(t, []uint8{c | 0x80}, m.Pressed(), "code E0 %02X", c)
	}
}

func TestBreakAfterMake(t *testing.T) {
	type testCase struct {
		name string
		make []uint8
		brk  []uint8
		code uint8
	}

	cases := []testCase{
		{name: "normal", make: []uint8{0x1C}, brk: []uint8{0xF0, 0x1C}, code: 0x1C},
		{name: "extended", make: []uint8{0xE0, 0x75}, brk: []uint8{0xE0, 0xF0, 0x75}, code: 0xF5},
		{name: "F7", make: []uint8{0x83}, brk: []uint8{0xF0, 0x83}, code: matrix.F7},
		{name: "alt printscreen", make: []uint8{0x84}, brk: []uint8{0xF0, 0x84}, code: matrix.PrintScreen},
		{name: "printscreen", make: []uint8{0xE0, 0x12, 0xE0, 0x7C}, brk: []uint8{0xE0, 0xF0, 0x7C, 0xE0, 0xF0, 0x12}, code: 0xFC},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, m, _, _ := newDecoder()
			m.Make(0x29) // unrelated key held down
			feed(d, tc.make...)
			require.True(t, isOn(m, tc.code))

			m.ResetModified()
			feed(d, tc.brk...)
			assert.False(t, isOn(m, tc.code))
			assert.True(t, m.Modified())
			assert.Equal(t, []uint8{0x29}, m.Pressed())

			m.ResetModified()
			feed(d, tc.brk...)
			assert.False(t, m.Modified(), "second break must be a no-op")
			assert.Equal(t, scancode.StateInit, d.State())
		})
	}
}

func TestShiftNoiseIgnored(t *testing.T) {
	d, m, h, _ := newDecoder()

	// Left Shift held, Num Lock off, Insert pressed and released.
	feed(d, 0x12)
	feed(d, 0xE0, 0xF0, 0x12, 0xE0, 0x70)
	assert.Equal(t, []uint8{0x12, 0xF0}, m.Pressed())

	feed(d, 0xE0, 0xF0, 0x70, 0xE0, 0x12)
	assert.Equal(t, []uint8{0x12}, m.Pressed())
	assert.Equal(t, 0, h.clears)
	assert.Equal(t, scancode.StateInit, d.State())
}

func TestPauseSequences(t *testing.T) {
	type testCase struct {
		name  string
		codes []uint8
	}

	cases := []testCase{
		{name: "pause", codes: []uint8{0xE1, 0x14, 0x77, 0xE1, 0xF0, 0x14, 0xF0, 0x77}},
		{name: "control'd pause", codes: []uint8{0xE0, 0x7E, 0xE0, 0xF0, 0x7E}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, m, _, _ := newDecoder()
			for i, c := range tc.codes {
				d.Feed(c)
				if i < len(tc.codes)-1 {
					assert.NotEqual(t, scancode.StateInit, d.State(), "byte %d", i)
					assert.Equal(t, 0, m.KeyCount())
				}
			}
			assert.Equal(t, scancode.StateInit, d.State())
			assert.Equal(t, []uint8{matrix.Pause}, m.Pressed())
		})
	}
}

func TestPauseAbortedSequence(t *testing.T) {
	d, m, h, _ := newDecoder()
	feed(d, 0xE1, 0x14, 0x1C)
	assert.Equal(t, scancode.StateInit, d.State())
	assert.Equal(t, 0, m.KeyCount(), "aborting byte is swallowed")
	assert.Equal(t, 0, h.clears)
}

func TestUnexpectedClearsEverything(t *testing.T) {
	type testCase struct {
		name   string
		prefix []uint8
		code   uint8
		next   scancode.State
	}

	cases := []testCase{
		{name: "init", code: 0x90, next: scancode.StateInit},
		{name: "E0", prefix: []uint8{0xE0}, code: 0xE1, next: scancode.StateInit},
		{name: "F0", prefix: []uint8{0xF0}, code: 0xAA, next: scancode.StateInit},
		{name: "E0_F0", prefix: []uint8{0xE0, 0xF0}, code: 0x83, next: scancode.StateInit},
		{name: "F0 F0 continues", prefix: []uint8{0xF0}, code: 0xF0, next: scancode.StateF0},
		{name: "overrun", code: 0x00, next: scancode.StateInit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, m, h, _ := newDecoder()
			feed(d, 0x1C, 0x1B, 0xE0, 0x14)
			require.Equal(t, 3, m.KeyCount())

			feed(d, tc.prefix...)
			d.Feed(tc.code)
			assert.Equal(t, 0, m.KeyCount())
			assert.Equal(t, 1, h.clears)
			assert.Equal(t, tc.next, d.State())
		})
	}
}

func TestRepeatedBreakPrefixStillBreaks(t *testing.T) {
	d, m, h, _ := newDecoder()
	feed(d, 0x1C, 0xF0, 0xF0)
	assert.Equal(t, scancode.StateF0, d.State())
	assert.Equal(t, 1, h.clears)

	m.Make(0x1C)
	d.Feed(0x1C)
	assert.False(t, isOn(m, 0x1C))
	assert.Equal(t, scancode.StateInit, d.State())
}

func TestSelfTestRefreshesLEDs(t *testing.T) {
	var out bytes.Buffer
	m := matrix.New()
	h := &fakeHost{leds: 0x05}
	ind := &fakeIndicator{}
	logger := slog.New(slog.NewTextHandler(&out, nil))
	d := scancode.NewDecoder(m, h, ind, logger, nil)

	m.Make(0x1C)
	d.Feed(0xAA)
	d.Feed(0xFC)

	assert.Equal(t, []uint8{0x05, 0x05}, ind.calls)
	assert.Equal(t, 1, m.KeyCount(), "self-test does not touch the matrix")
	assert.Equal(t, 0, h.clears)
	assert.Contains(t, out.String(), "BAT OK")
	assert.Contains(t, out.String(), "BAT NG")
}

func TestNilCollaborators(t *testing.T) {
	m := matrix.New()
	d := scancode.NewDecoder(m, nil, nil, nil, nil)
	assert.NotPanics(t, func() {
		feed(d, 0x1C, 0xAA, 0x00, 0xF0, 0xF0)
	})
	assert.Equal(t, 0, m.KeyCount())
}

func TestPoll(t *testing.T) {
	var raw bytes.Buffer
	m := matrix.New()
	h := &fakeHost{}
	d := scancode.NewDecoder(m, h, nil, nil, log.NewRaw(&raw))
	tr := &fakeTransport{queue: []recv{
		{code: 0xF0, ok: true},
		{code: 0x1C, ok: true, err: errors.New("parity")},
		{},
		{code: 0x1B, ok: true},
		{code: 0x00, ok: true},
	}}

	assert.True(t, d.Poll(tr))
	assert.Equal(t, scancode.StateF0, d.State())

	assert.False(t, d.Poll(tr), "errored byte is dropped")
	assert.Equal(t, scancode.StateF0, d.State(), "no transition on transmission error")

	assert.False(t, d.Poll(tr), "nothing pending")
	assert.Equal(t, scancode.StateF0, d.State())

	m.Make(0x1B)
	assert.True(t, d.Poll(tr))
	assert.Equal(t, 0, m.KeyCount())
	assert.Equal(t, scancode.StateInit, d.State())

	m.Make(0x1C)
	assert.True(t, d.Poll(tr), "0x00 is a received overrun, not idle")
	assert.Equal(t, 0, m.KeyCount())
	assert.Equal(t, 1, h.clears)

	assert.Contains(t, raw.String(), "F0")
	assert.Contains(t, raw.String(), "1B")
	assert.Equal(t, 3, bytes.Count(raw.Bytes(), []byte("\n")), "overrun byte is not dumped")
}
