// Package cmd holds the kong command tree of the ps2usb binary.
package cmd

// CLI is the root command.
type CLI struct {
	ConfigFile string `name:"config" help:"Configuration file (json, yaml or toml)" type:"path" env:"PS2USB_CONFIG"`
	Log        Log    `embed:"" prefix:"log."`

	Run    Run           `cmd:"" help:"Decode a live PS/2 byte stream from a serial port or stdin"`
	Replay Replay        `cmd:"" help:"Play a scripted scenario through the converter"`
	Config ConfigCommand `cmd:"" help:"Configuration helpers"`
}

// Log configures logging.
type Log struct {
	Level   string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"PS2USB_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"PS2USB_LOG_FILE"`
	RawFile string `help:"Write every received PS/2 byte to this file" env:"PS2USB_LOG_RAW_FILE"`
}
