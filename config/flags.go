package config

import (
	"flag"
	"fmt"
	"io"
)

// Options is the parsed command line.
type Options struct {
	Config     Config
	ConfigPath string
	SourcePath string
	Code       string
	Emit       string
	Lint       bool
	ShowHelp   bool
}

// ParseArgs parses command line arguments. Flags that are given override the
// config file named by -config.
func ParseArgs(name string, args []string, output io.Writer) (*Options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	opts := &Options{}
	flagged := Default()

	fs.StringVar(&opts.ConfigPath, "config", "", "YAML or TOML config file")
	fs.StringVar(&opts.Code, "e", "", "run the given code instead of a file")
	fs.StringVar(&opts.Emit, "emit", "", "write the program image to this file instead of running")
	fs.BoolVar(&opts.Lint, "lint", false, "check the program and print a report instead of running")
	fs.BoolVar(&opts.ShowHelp, "help", false, "show help")
	fs.BoolVar(&opts.ShowHelp, "h", false, "show help (shorthand)")

	fs.IntVar(&flagged.DebugLevel, "debug", flagged.DebugLevel, "debug level (0 to 3)")
	fs.IntVar(&flagged.DebugLevel, "d", flagged.DebugLevel, "debug level (shorthand)")
	fs.BoolVar(&flagged.Optimize, "optimize", flagged.Optimize, "optimize the program before running")
	fs.BoolVar(&flagged.RequireNumber, "require-number", flagged.RequireNumber,
		"wait for a valid line when reading numbers")
	fs.IntVar(&flagged.BankLimit, "bank-limit", flagged.BankLimit, "maximum number of banks (0 for no limit)")
	fs.Uint64Var(&flagged.StepLimit, "step-limit", flagged.StepLimit,
		"maximum number of executed instructions (0 for no limit)")
	fs.Float64Var(&flagged.FreqGHz, "freq", flagged.FreqGHz, "core frequency in GHz")
	fs.StringVar(&flagged.LogFormat, "log-format", flagged.LogFormat, "log format (text or json)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.ShowHelp {
		fmt.Fprintf(output, "Usage: %s [flags] <file>\n", name)
		fs.PrintDefaults()

		return opts, nil
	}

	opts.Config = Default()
	if opts.ConfigPath != "" {
		cfg, err := Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		opts.Config = cfg
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug", "d":
			opts.Config.DebugLevel = flagged.DebugLevel
		case "optimize":
			opts.Config.Optimize = flagged.Optimize
		case "require-number":
			opts.Config.RequireNumber = flagged.RequireNumber
		case "bank-limit":
			opts.Config.BankLimit = flagged.BankLimit
		case "step-limit":
			opts.Config.StepLimit = flagged.StepLimit
		case "freq":
			opts.Config.FreqGHz = flagged.FreqGHz
		case "log-format":
			opts.Config.LogFormat = flagged.LogFormat
		}
	})

	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		opts.SourcePath = fs.Arg(0)
	}

	if opts.SourcePath == "" && opts.Code == "" {
		return nil, fmt.Errorf("no program given: pass a file or use -e")
	}

	return opts, nil
}
