package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults for everything not set by file or flag.
const (
	DefaultPollIntervalMS = 2000
	DefaultMaxEntries     = 5000
	DefaultExportDir      = "."
	DefaultLogDir         = "."
)

// Config is the fully resolved console configuration.
type Config struct {
	// Input is a JSON5 log dump path; empty selects the in-memory store.
	Input        string
	ExportDir    string
	PollInterval time.Duration
	MaxEntries   int
	Demo         bool
	Verbose      bool
	LogDir       string
}

// CLIArgs holds the raw command-line arguments. Flags that were explicitly
// set take precedence over config file values.
type CLIArgs struct {
	ConfigPath     string
	Input          string
	ExportDir      string
	PollIntervalMS int
	MaxEntries     int
	Demo           bool
	Verbose        bool
	LogDir         string

	set map[string]bool
}

// fileConfig is the TOML shape of the optional config file.
type fileConfig struct {
	Input          string `toml:"input"`
	ExportDir      string `toml:"export_dir"`
	PollIntervalMS int    `toml:"poll_interval_ms"`
	MaxEntries     int    `toml:"max_entries"`
	Demo           bool   `toml:"demo"`
	Verbose        bool   `toml:"verbose"`
	LogDir         string `toml:"log_dir"`
}

// ParseCLIArgs parses os.Args through the standard flag set.
func ParseCLIArgs() *CLIArgs {
	args, err := ParseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		// flag.CommandLine uses ExitOnError, so this is unreachable.
		panic(err)
	}
	return args
}

// ParseArgs parses argv with the given flag set and returns the populated
// CLIArgs. Split out from ParseCLIArgs for tests.
func ParseArgs(fs *flag.FlagSet, argv []string) (*CLIArgs, error) {
	args := &CLIArgs{}

	fs.StringVar(&args.ConfigPath, "config", "", "Path to an optional TOML config file.")
	fs.StringVar(&args.Input, "input", "", "Read logs from a JSON5 dump file instead of the in-memory store.")
	fs.StringVar(&args.ExportDir, "export-dir", DefaultExportDir, "Directory for exported log files.")
	fs.IntVar(&args.PollIntervalMS, "poll-interval", DefaultPollIntervalMS, "Snapshot poll interval in milliseconds.")
	fs.IntVar(&args.MaxEntries, "max-entries", DefaultMaxEntries, "Retention cap of the in-memory store.")
	fs.BoolVar(&args.Demo, "demo", false, "Feed the in-memory store with synthetic proxy traffic.")
	fs.BoolVar(&args.Verbose, "verbose", false, "Enable verbose (debug) logging.")
	fs.StringVar(&args.LogDir, "log-dir", DefaultLogDir, "Specifies the directory to store diagnostic log files.")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	args.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { args.set[f.Name] = true })
	return args, nil
}

// Resolve layers defaults, the optional TOML file, and explicitly set flags
// (highest precedence) into a Config.
func Resolve(args *CLIArgs) (*Config, error) {
	cfg := &Config{
		ExportDir:    DefaultExportDir,
		PollInterval: DefaultPollIntervalMS * time.Millisecond,
		MaxEntries:   DefaultMaxEntries,
		LogDir:       DefaultLogDir,
	}

	if args.ConfigPath != "" {
		data, err := os.ReadFile(args.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", args.ConfigPath, err)
		}
		applyFile(cfg, fc)
	}

	applyFlags(cfg, args)
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollIntervalMS * time.Millisecond
	}
	return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) {
	if fc.Input != "" {
		cfg.Input = fc.Input
	}
	if fc.ExportDir != "" {
		cfg.ExportDir = fc.ExportDir
	}
	if fc.PollIntervalMS > 0 {
		cfg.PollInterval = time.Duration(fc.PollIntervalMS) * time.Millisecond
	}
	if fc.MaxEntries > 0 {
		cfg.MaxEntries = fc.MaxEntries
	}
	if fc.Demo {
		cfg.Demo = true
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	if fc.LogDir != "" {
		cfg.LogDir = fc.LogDir
	}
}

func applyFlags(cfg *Config, args *CLIArgs) {
	if args.set["input"] {
		cfg.Input = args.Input
	}
	if args.set["export-dir"] {
		cfg.ExportDir = args.ExportDir
	}
	if args.set["poll-interval"] {
		cfg.PollInterval = time.Duration(args.PollIntervalMS) * time.Millisecond
	}
	if args.set["max-entries"] {
		cfg.MaxEntries = args.MaxEntries
	}
	if args.set["demo"] {
		cfg.Demo = args.Demo
	}
	if args.set["verbose"] {
		cfg.Verbose = args.Verbose
	}
	if args.set["log-dir"] {
		cfg.LogDir = args.LogDir
	}
}
