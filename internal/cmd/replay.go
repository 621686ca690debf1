package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/ps2usb/driver"
	"github.com/Alia5/ps2usb/internal/log"
	"github.com/Alia5/ps2usb/internal/scenario"
)

// Replay plays a scenario file.
type Replay struct {
	Scenario string        `arg:"" help:"Scenario file (.yaml, .yml or .toml)" type:"existingfile"`
	Input    driver.Config `embed:"" prefix:"input."`
	Tick     int           `help:"Override the scenario's milliseconds per cycle" default:"0"`

	out io.Writer `kong:"-"`
}

// Run is called by Kong when the replay command is executed.
func (r *Replay) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	sc, err := scenario.Load(r.Scenario)
	if err != nil {
		return err
	}
	if r.Tick > 0 {
		sc.Tick = r.Tick
	}

	logger.Info("Replaying scenario", "name", sc.Name, "steps", len(sc.Steps))
	res, err := scenario.Run(sc, r.Input, logger, rawLogger)
	if err != nil {
		return err
	}

	out := r.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "cycles: %d\npressed: [% X]\nclears: %d\nmouse reports: %d\n",
		res.Cycles, res.Pressed, res.Clears, res.MouseReports)

	if err := res.Check(sc.Expect); err != nil {
		return fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	return nil
}
