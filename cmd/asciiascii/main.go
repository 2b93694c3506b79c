// Command asciiascii runs a program written in pairs of characters.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/asciiascii/api"
	"github.com/sarchlab/asciiascii/bank"
	"github.com/sarchlab/asciiascii/config"
	"github.com/sarchlab/asciiascii/console"
	"github.com/sarchlab/asciiascii/core"
	"github.com/sarchlab/asciiascii/lexer"
	"github.com/sarchlab/asciiascii/verify"
)

const (
	exitOK = iota
	exitFailure
	exitUnmatchedBracket
	exitMissingTerminator
	exitInvalidNumericInput
	exitOutOfMemory
	exitStepLimit
)

// lintSteps bounds the simulation done by -lint when no step limit is set.
const lintSteps = 1_000_000

func main() {
	con := console.NewTerminal()
	atexit.Register(func() {
		_ = con.Flush()
	})

	atexit.Exit(run(os.Args[1:], con, os.Stdout, os.Stderr))
}

func run(args []string, con console.Console, stdout, stderr io.Writer) int {
	opts, err := config.ParseArgs("asciiascii", args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	if opts.ShowHelp {
		return exitOK
	}

	cfg := opts.Config
	logger := cfg.NewLogger(stderr)
	slog.SetDefault(logger)

	src := []byte(opts.Code)
	if opts.Code == "" {
		src, err = os.ReadFile(opts.SourcePath)
		if err != nil {
			logger.Error("Cannot read source", "path", opts.SourcePath, "err", err)
			return exitFailure
		}
	}

	driver := api.NewDriverBuilder().
		WithFreq(cfg.Freq()).
		WithConsole(con).
		WithLogger(logger).
		WithOptimize(cfg.Optimize).
		WithRequireNumber(cfg.RequireNumber).
		WithBankLimit(cfg.BankLimit).
		WithStepLimit(cfg.StepLimit).
		Build("Interpreter")

	if err := driver.Load(src); err != nil {
		logger.Error("Cannot load program", "err", err)
		return exitCode(err)
	}

	if cfg.PrintCode() {
		driver.Original().Print(stderr, "Code")
		if cfg.Optimize {
			driver.Program().Print(stderr, "Optimized code")
		}
	}

	switch {
	case opts.Emit != "":
		return emit(driver, opts.Emit, logger)
	case opts.Lint:
		return lint(driver, cfg, stdout)
	}

	err = driver.Run()

	if cfg.PrintState() {
		driver.PrintState(stderr)
	}

	if err != nil {
		logger.Error("Program failed", "err", err)
		return exitCode(err)
	}

	return exitOK
}

func emit(driver api.Driver, path string, logger *slog.Logger) int {
	img, err := driver.Image()
	if err != nil {
		logger.Error("Cannot encode program", "err", err)
		return exitFailure
	}

	if err := os.WriteFile(path, img, 0o644); err != nil {
		logger.Error("Cannot write image", "path", path, "err", err)
		return exitFailure
	}

	logger.Info("Wrote program image", "path", path, "bytes", len(img))

	return exitOK
}

func lint(driver api.Driver, cfg config.Config, stdout io.Writer) int {
	steps := cfg.StepLimit
	if steps == 0 {
		steps = lintSteps
	}

	report := verify.GenerateReport(driver.Original(), "", steps)
	report.WriteReport(stdout)

	if !report.OK() {
		return exitFailure
	}

	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, lexer.ErrUnmatchedBracket):
		return exitUnmatchedBracket
	case errors.Is(err, core.ErrMissingTerminator):
		return exitMissingTerminator
	case errors.Is(err, console.ErrInvalidNumericInput):
		return exitInvalidNumericInput
	case errors.Is(err, bank.ErrOutOfMemory):
		return exitOutOfMemory
	case errors.Is(err, core.ErrStepLimit):
		return exitStepLimit
	default:
		return exitFailure
	}
}
