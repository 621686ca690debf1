// Package scancode decodes a PS/2 Scan Code Set 2 byte stream into make and
// break events on a key matrix.
//
// Several keys need exceptional handling because their codes vary or get
// prefix/postfix bytes depending on modifier state:
//
//	Insert, Delete, Home, End, PageUp, PageDown, arrows, Keypad /:
//	    E0 12 / E0 59 / E0 F0 12 / E0 F0 59 wrap the real code depending on
//	    Shift and Num Lock. These wrapper bytes are ignored.
//	PrintScreen:
//	    E0 7C normally, 84 when Alt is held. Both are PrintScreen.
//	Pause (no break code):
//	    E1 14 77 E1 F0 14 F0 77, or E0 7E E0 F0 7E when Control is held.
//	    Both sequences are treated as a whole and the key is released again
//	    on the next scan cycle.
package scancode

import "fmt"

// State is the progress of the decoder through a multi-byte sequence.
type State uint8

const (
	StateInit State = iota
	StateF0
	StateE0
	StateE0_F0
	// Pause
	StateE1
	StateE1_14
	StateE1_14_77
	StateE1_14_77_E1
	StateE1_14_77_E1_F0
	StateE1_14_77_E1_F0_14
	StateE1_14_77_E1_F0_14_F0
	// Control'd Pause
	StateE0_7E
	StateE0_7E_E0
	StateE0_7E_E0_F0
)

var stateNames = [...]string{
	StateInit:                 "INIT",
	StateF0:                   "F0",
	StateE0:                   "E0",
	StateE0_F0:                "E0_F0",
	StateE1:                   "E1",
	StateE1_14:                "E1_14",
	StateE1_14_77:             "E1_14_77",
	StateE1_14_77_E1:          "E1_14_77_E1",
	StateE1_14_77_E1_F0:       "E1_14_77_E1_F0",
	StateE1_14_77_E1_F0_14:    "E1_14_77_E1_F0_14",
	StateE1_14_77_E1_F0_14_F0: "E1_14_77_E1_F0_14_F0",
	StateE0_7E:                "E0_7E",
	StateE0_7E_E0:             "E0_7E_E0",
	StateE0_7E_E0_F0:          "E0_7E_E0_F0",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Wire bytes with protocol meaning.
const (
	CodeOverrun      = 0x00
	CodeExtended     = 0xE0
	CodeBreak        = 0xF0
	CodePause        = 0xE1
	CodeSelfTestOK   = 0xAA
	CodeSelfTestFail = 0xFC

	codeF7            = 0x83
	codeAltPrintScr   = 0x84
	codeLeftShift     = 0x12
	codeRightShift    = 0x59
	codeCtrlPause     = 0x7E
	codePauseCtrl     = 0x14
	codePauseNumLock  = 0x77
	extendedBit       = 0x80
	normalCodeCeiling = 0x80
)

// Hex formats a wire byte the way scan codes are usually written.
func Hex(code uint8) string {
	return fmt.Sprintf("%02X", code)
}
