package scancode

import "github.com/Alia5/ps2usb/matrix"

// Action is the effect of a single decoded byte.
type Action uint8

const (
	ActionNone Action = iota
	ActionMake
	ActionBreak
	// ActionOverrun clears the matrix after a 0x00 byte at the top level.
	ActionOverrun
	// ActionSelfTest reports a basic assurance test result and refreshes LEDs.
	ActionSelfTest
	// ActionUnexpected clears the matrix after a byte that is invalid in the current state.
	ActionUnexpected
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionMake:
		return "make"
	case ActionBreak:
		return "break"
	case ActionOverrun:
		return "overrun"
	case ActionSelfTest:
		return "self-test"
	case ActionUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Step is the outcome of feeding one byte in a given state.
// For make and break Code is the matrix position, otherwise it is the wire byte.
type Step struct {
	Action Action
	Code   uint8
	Next   State
}

// Transition computes the action and next state for a byte received in state s.
// It has no side effects.
func Transition(s State, code uint8) Step {
	switch s {
	case StateInit:
		switch code {
		case CodeExtended:
			return Step{Next: StateE0}
		case CodeBreak:
			return Step{Next: StateF0}
		case CodePause:
			return Step{Next: StateE1}
		case codeF7:
			return Step{Action: ActionMake, Code: matrix.F7}
		case codeAltPrintScr:
			return Step{Action: ActionMake, Code: matrix.PrintScreen}
		case CodeOverrun:
			return Step{Action: ActionOverrun, Code: code}
		case CodeSelfTestOK, CodeSelfTestFail:
			return Step{Action: ActionSelfTest, Code: code}
		default:
			if code < normalCodeCeiling {
				return Step{Action: ActionMake, Code: code}
			}
			return Step{Action: ActionUnexpected, Code: code}
		}

	case StateE0:
		switch code {
		case codeLeftShift, codeRightShift:
			return Step{}
		case codeCtrlPause:
			return Step{Next: StateE0_7E}
		case CodeBreak:
			return Step{Next: StateE0_F0}
		default:
			if code < normalCodeCeiling {
				return Step{Action: ActionMake, Code: code | extendedBit}
			}
			return Step{Action: ActionUnexpected, Code: code}
		}

	case StateF0:
		switch code {
		case codeF7:
			return Step{Action: ActionBreak, Code: matrix.F7}
		case codeAltPrintScr:
			return Step{Action: ActionBreak, Code: matrix.PrintScreen}
		case CodeBreak:
			// A repeated break prefix clears the matrix but keeps waiting
			// for the code to release.
			return Step{Action: ActionUnexpected, Code: code, Next: StateF0}
		default:
			if code < normalCodeCeiling {
				return Step{Action: ActionBreak, Code: code}
			}
			return Step{Action: ActionUnexpected, Code: code}
		}

	case StateE0_F0:
		switch code {
		case codeLeftShift, codeRightShift:
			return Step{}
		default:
			if code < normalCodeCeiling {
				return Step{Action: ActionBreak, Code: code | extendedBit}
			}
			return Step{Action: ActionUnexpected, Code: code}
		}

	case StateE1:
		return expect(code, codePauseCtrl, StateE1_14)
	case StateE1_14:
		return expect(code, codePauseNumLock, StateE1_14_77)
	case StateE1_14_77:
		return expect(code, CodePause, StateE1_14_77_E1)
	case StateE1_14_77_E1:
		return expect(code, CodeBreak, StateE1_14_77_E1_F0)
	case StateE1_14_77_E1_F0:
		return expect(code, codePauseCtrl, StateE1_14_77_E1_F0_14)
	case StateE1_14_77_E1_F0_14:
		return expect(code, CodeBreak, StateE1_14_77_E1_F0_14_F0)
	case StateE1_14_77_E1_F0_14_F0:
		if code == codePauseNumLock {
			return Step{Action: ActionMake, Code: matrix.Pause}
		}
		return Step{}

	case StateE0_7E:
		return expect(code, CodeExtended, StateE0_7E_E0)
	case StateE0_7E_E0:
		return expect(code, CodeBreak, StateE0_7E_E0_F0)
	case StateE0_7E_E0_F0:
		if code == codeCtrlPause {
			return Step{Action: ActionMake, Code: matrix.Pause}
		}
		return Step{}
	}
	return Step{}
}

// expect advances to next when code matches want and falls back to INIT otherwise.
func expect(code, want uint8, next State) Step {
	if code == want {
		return Step{Next: next}
	}
	return Step{}
}
