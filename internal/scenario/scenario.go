// Package scenario replays scripted keyboard, button and thumbstick input
// through the driver, one scan cycle at a time.
//
// A scenario is a YAML or TOML file:
//
//	name: shifted insert
//	tick: 1
//	steps:
//	  - send: [0x12, 0xE0, 0xF0, 0x12, 0xE0, 0x70]
//	  - buttons: 1
//	    cycles: 10
//	  - stick: {x: 900, y: 512}
//	    cycles: 3
//	expect:
//	  pressed: [0x08, 0x12, 0xF0]
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// Scenario is a scripted input run.
type Scenario struct {
	Name string `yaml:"name" toml:"name"`
	// Tick is the number of milliseconds one cycle takes. Zero means 1.
	Tick   int     `yaml:"tick" toml:"tick"`
	Steps  []Step  `yaml:"steps" toml:"steps"`
	Expect *Expect `yaml:"expect,omitempty" toml:"expect,omitempty"`
}

// Step describes input for one or more cycles. Bytes are delivered one per
// cycle, all of Send first and then all of Corrupt, whatever order the file
// lists them in; Cycles idle cycles follow. Buttons and Stick
// persist until changed by a later step.
type Step struct {
	Send []int `yaml:"send,omitempty" toml:"send,omitempty"`
	// Corrupt bytes arrive with the transmission error flag set.
	Corrupt []int  `yaml:"corrupt,omitempty" toml:"corrupt,omitempty"`
	Buttons *int   `yaml:"buttons,omitempty" toml:"buttons,omitempty"`
	Stick   *Stick `yaml:"stick,omitempty" toml:"stick,omitempty"`
	Cycles  int    `yaml:"cycles,omitempty" toml:"cycles,omitempty"`
}

// Stick holds raw ADC readings.
type Stick struct {
	X int `yaml:"x" toml:"x"`
	Y int `yaml:"y" toml:"y"`
}

// Expect is checked against the final state of a run.
type Expect struct {
	Pressed      []int `yaml:"pressed" toml:"pressed"`
	Clears       *int  `yaml:"clears,omitempty" toml:"clears,omitempty"`
	MouseReports *int  `yaml:"mouseReports,omitempty" toml:"mouseReports,omitempty"`
}

// Load reads a scenario, choosing the decoder by file extension.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	sc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes a scenario in the given format ("yaml" or "toml") and validates it.
func Parse(data []byte, format string) (*Scenario, error) {
	var sc Scenario
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", format)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks value ranges.
func (sc *Scenario) Validate() error {
	var errs []error
	if sc.Tick < 0 || sc.Tick > 0xFFFF {
		errs = append(errs, fmt.Errorf("tick %d out of range", sc.Tick))
	}
	for i, st := range sc.Steps {
		for _, b := range append(append([]int{}, st.Send...), st.Corrupt...) {
			if b < 0 || b > 0xFF {
				errs = append(errs, fmt.Errorf("step %d: byte %d out of range", i, b))
			}
		}
		if st.Buttons != nil && (*st.Buttons < 0 || *st.Buttons > 0x03) {
			errs = append(errs, fmt.Errorf("step %d: buttons %d out of range 0..3", i, *st.Buttons))
		}
		if st.Stick != nil && (st.Stick.X < 0 || st.Stick.X > 1023 || st.Stick.Y < 0 || st.Stick.Y > 1023) {
			errs = append(errs, fmt.Errorf("step %d: stick reading out of range 0..1023", i))
		}
		if st.Cycles < 0 {
			errs = append(errs, fmt.Errorf("step %d: negative cycles", i))
		}
	}
	if sc.Expect != nil {
		for _, c := range sc.Expect.Pressed {
			if c < 0 || c > 0xFF {
				errs = append(errs, fmt.Errorf("expect: position %d out of range", c))
			}
		}
	}
	return errors.Join(errs...)
}
