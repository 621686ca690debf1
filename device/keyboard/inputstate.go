package keyboard

import (
	"io"
)

// LEDState represents the state of keyboard LEDs controlled by the host.
type LEDState struct {
	NumLock    bool
	CapsLock   bool
	ScrollLock bool
	Compose    bool
	Kana       bool
}

// ParseLEDs decodes a host LED bitmask.
func ParseLEDs(b uint8) LEDState {
	return LEDState{
		NumLock:    b&LEDNumLock != 0,
		CapsLock:   b&LEDCapsLock != 0,
		ScrollLock: b&LEDScrollLock != 0,
		Compose:    b&LEDCompose != 0,
		Kana:       b&LEDKana != 0,
	}
}

// UnmarshalBinary decodes a 1-byte LED bitmask into LEDState.
func (st *LEDState) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return io.ErrUnexpectedEOF
	}
	*st = ParseLEDs(data[0])
	return nil
}

// Bitmask encodes the state back into a host LED bitmask.
func (st LEDState) Bitmask() uint8 {
	var b uint8
	if st.NumLock {
		b |= LEDNumLock
	}
	if st.CapsLock {
		b |= LEDCapsLock
	}
	if st.ScrollLock {
		b |= LEDScrollLock
	}
	if st.Compose {
		b |= LEDCompose
	}
	if st.Kana {
		b |= LEDKana
	}
	return b
}

// PS2 returns the argument byte for the PS/2 Set LEDs command.
// Compose and Kana have no PS/2 indicator.
func (st LEDState) PS2() uint8 {
	var b uint8
	if st.ScrollLock {
		b |= PS2LEDScrollLock
	}
	if st.NumLock {
		b |= PS2LEDNumLock
	}
	if st.CapsLock {
		b |= PS2LEDCapsLock
	}
	return b
}
