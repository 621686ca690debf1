package keyboard

// LED bitmasks as sent by the host in the keyboard output report.
const (
	LEDNumLock    = 0x01
	LEDCapsLock   = 0x02
	LEDScrollLock = 0x04
	LEDCompose    = 0x08
	LEDKana       = 0x10
)

// LED bits of the PS/2 Set LEDs command argument.
const (
	PS2LEDScrollLock = 0x01
	PS2LEDNumLock    = 0x02
	PS2LEDCapsLock   = 0x04
)

// PS2CmdSetLEDs is the keyboard command preceding the LED argument byte.
const PS2CmdSetLEDs = 0xED
