// Package jddffuzz generates random JSON values that conform to a JDDF
// schema, for use as synthetic test and fuzz input.
//
// It provides:
//
// - Generate / Generator: a recursive generator dispatching on the schema form
// - Rand: the injected random source (NewRand for seeded, reproducible runs)
// - Run: the driver loop emitting values to a Sink until a count or ctx is done
// - JSONSink / YAMLSink: line-delimited JSON and YAML stream output
//
// Schemas are compiled by the schema package; the validate package checks
// values against them.
//
// Typical usage:
//
//	s, err := schema.Parse(data)
//	n, err := jddffuzz.Run(ctx, s, jddffuzz.NewRand(seed), jddffuzz.NewJSONSink(os.Stdout), jddffuzz.Options{Count: 10})
//
// Values use plain Go types: nil, bool, fixed-width integers, float32, float64,
// string, []any and map[string]any. Member order of objects is unspecified.
package jddffuzz
