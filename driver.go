package jddffuzz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jddf/jddf-fuzz/schema"
)

// Options configures Run.
type Options struct {
	// Count is the number of values to emit. Zero means unbounded.
	Count int
	// MaxDepth is passed to NewGenerator.
	MaxDepth int
}

// ErrInvalidCount is returned by Run for a negative Count.
var ErrInvalidCount = errors.New("jddffuzz: count must not be negative")

// Run generates values from s and emits each one to sink before generating the
// next. It stops after opt.Count values, or when ctx is done if opt.Count is
// zero. ctx is checked before every value.
//
// It returns the number of values emitted. A value that fails to generate is
// never emitted: unsupported forms abort with an error wrapping
// schema.ErrUnsupportedForm, runaway recursion with ErrDepthExceeded.
func Run(ctx context.Context, s *schema.Schema, r Rand, sink Sink, opt Options) (int, error) {
	if opt.Count < 0 {
		return 0, ErrInvalidCount
	}
	g := NewGenerator(r, opt.MaxDepth)
	n := 0
	for opt.Count == 0 || n < opt.Count {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		v, err := g.TryGenerate(s)
		if err != nil {
			return n, fmt.Errorf("generate value %d: %w", n, err)
		}
		if err := sink.Emit(v); err != nil {
			return n, fmt.Errorf("emit value %d: %w", n, err)
		}
		n++
	}
	return n, nil
}
