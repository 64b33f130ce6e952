package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mergington/signup/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-t", "-m", "-l", "-h", "-help", "--help"}

// usageOutput receives usage text on -h and on flag errors.
var usageOutput io.Writer = os.Stderr

// parseFlags overlays cfg with command-line flags. Flags owned by other
// parsers (such as -c) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the activities API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local session database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds, 0 = none)")
	delay := fs.Int("m", int(cfg.MessageDelay.Seconds()), "status message display time (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(usageOutput, err)
		}
		printUsage(fs)
		return fmt.Errorf("parse flags: %w", err)
	}

	// Only touch durations that were given, so sub-second values from the
	// JSON file or environment survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "m":
			cfg.MessageDelay = time.Duration(*delay) * time.Second
		}
	})
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(usageOutput, "Usage of %s:\n  -c string\n    \tpath to a JSON config file (also -config)\n", fs.Name())
	fs.SetOutput(usageOutput)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
}
