package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	jddffuzz "github.com/jddf/jddf-fuzz"
	"github.com/jddf/jddf-fuzz/i18n"
	"github.com/jddf/jddf-fuzz/internal/config"
	"github.com/jddf/jddf-fuzz/schema"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Getenv, os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, getenv func(string) string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, getenv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	i18n.SetLanguage(cfg.Lang)

	data, err := readInput(cfg.Input, stdin)
	if err != nil {
		logger.Error("io error", "input", cfg.Input, "err", err)
		return exitError
	}
	s, err := schema.Parse(data)
	if err != nil {
		if iss, ok := schema.AsIssues(err); ok {
			for _, it := range iss {
				logger.Error("schema error", "path", it.Path, "code", it.Code, "msg", it.Message)
			}
		} else {
			logger.Error("schema error", "err", err)
		}
		return exitError
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = jddffuzz.RandomSeed()
	}
	logger.Debug("schema loaded", "input", cfg.Input, "form", s.Form.Kind().String(), "seed", seed, "count", cfg.Count)

	var sink interface {
		jddffuzz.Sink
		Close() error
	}
	switch cfg.Format {
	case config.FormatYAML:
		sink = jddffuzz.NewYAMLSink(stdout)
	default:
		sink = jddffuzz.NewJSONSink(stdout)
	}

	n, err := jddffuzz.Run(ctx, s, jddffuzz.NewRand(seed), sink, jddffuzz.Options{Count: cfg.Count, MaxDepth: cfg.MaxDepth})
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = cerr
	}
	logger.Debug("run finished", "emitted", n)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		logger.Warn("interrupted", "emitted", n)
		return exitOK
	case errors.Is(err, schema.ErrUnsupportedForm), errors.Is(err, jddffuzz.ErrDepthExceeded):
		logger.Error("internal error", "emitted", n, "err", err)
		return exitError
	default:
		logger.Error("io error", "emitted", n, "err", err)
		return exitError
	}
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}
