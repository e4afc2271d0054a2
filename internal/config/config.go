// Package config resolves CLI settings from flags, falling back to
// JDDF_FUZZ_* environment variables.
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Environment variables consulted for flag defaults.
const (
	EnvNumValues = "JDDF_FUZZ_NUM_VALUES"
	EnvSeed      = "JDDF_FUZZ_SEED"
	EnvFormat    = "JDDF_FUZZ_FORMAT"
	EnvLang      = "JDDF_FUZZ_LANG"
	EnvMaxDepth  = "JDDF_FUZZ_MAX_DEPTH"
)

// Config holds the resolved settings for one run.
type Config struct {
	Count    int    // 0 means unbounded
	Seed     uint64 // 0 means pick one at random
	Format   string
	MaxDepth int
	Lang     string
	Verbose  bool
	Input    string // "-" means stdin
}

// Default returns the settings used when neither flags nor environment say
// otherwise.
func Default() Config {
	return Config{Format: FormatJSON, MaxDepth: 32, Lang: "en", Input: "-"}
}

// Load parses args (without the program name). getenv supplies environment
// defaults and may be nil. Usage output goes to usage. A -h request returns
// flag.ErrHelp.
func Load(args []string, getenv func(string) string, usage io.Writer) (Config, error) {
	cfg := Default()
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("jddf-fuzz", flag.ContinueOnError)
	fs.SetOutput(usage)
	fs.IntVar(&cfg.Count, "n", cfg.Count, "how many values to generate; zero (0) indicates infinity")
	fs.IntVar(&cfg.Count, "num-values", cfg.Count, "alias of -n")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed; zero (0) picks one")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: json or yaml")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "nesting depth after which recursive schemas shrink")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "language for schema error messages: en or ja")
	fs.BoolVar(&cfg.Verbose, "v", false, "enable verbose logs")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Creates random JSON documents satisfying a JDDF schema\n\nUsage:\n  jddf-fuzz [flags] [INPUT]\n\nINPUT is a schema file; dash (-) or nothing reads stdin.\n\nFlags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Input = fs.Arg(0)
	default:
		return Config{}, fmt.Errorf("config: expected at most one INPUT, got %d", fs.NArg())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvNumValues); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvNumValues, err)
		}
		c.Count = n
	}
	if v := getenv(EnvSeed); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvSeed, err)
		}
		c.Seed = n
	}
	if v := getenv(EnvMaxDepth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvMaxDepth, err)
		}
		c.MaxDepth = n
	}
	if v := getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v := getenv(EnvLang); v != "" {
		c.Lang = v
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("config: count must not be negative, got %d", c.Count)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("config: max depth must be positive, got %d", c.MaxDepth)
	}
	if c.Format != FormatJSON && c.Format != FormatYAML {
		return fmt.Errorf("config: unknown format %q", c.Format)
	}
	if c.Lang != "en" && c.Lang != "ja" {
		return fmt.Errorf("config: unknown language %q", c.Lang)
	}
	if c.Input == "" {
		return fmt.Errorf("config: empty INPUT")
	}
	return nil
}
