package main

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/asciiascii/api"
	"github.com/sarchlab/asciiascii/samples"
)

func main() {
	engine := sim.NewSerialEngine()

	driver := api.NewDriverBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Driver")

	if err := driver.Load(samples.Truth); err != nil {
		slog.Error("Cannot load program", "err", err)
		atexit.Exit(1)
	}

	if err := driver.Run(); err != nil {
		slog.Error("Program failed", "err", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
