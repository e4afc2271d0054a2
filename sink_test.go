package jddffuzz_test

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	jddffuzz "github.com/jddf/jddf-fuzz"
)

func TestJSONSink_OneValuePerLine(t *testing.T) {
	var buf bytes.Buffer
	sink := jddffuzz.NewJSONSink(&buf)
	for _, v := range []any{true, "a\nb", []any{uint8(1), nil}, map[string]any{"k": int16(-2)}} {
		if err := sink.Emit(v); err != nil {
			t.Fatalf("emit: %v", err)
		}
	}
	want := "true\n\"a\\nb\"\n[1,null]\n{\"k\":-2}\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestJSONSink_NonFiniteAsNull(t *testing.T) {
	var buf bytes.Buffer
	sink := jddffuzz.NewJSONSink(&buf)
	values := []any{
		math.NaN(),
		float32(math.Inf(1)),
		map[string]any{"f": math.Inf(-1), "ok": 1.5},
		[]any{math.NaN(), float32(2)},
	}
	for _, v := range values {
		if err := sink.Emit(v); err != nil {
			t.Fatalf("emit: %v", err)
		}
	}
	want := "null\nnull\n{\"f\":null,\"ok\":1.5}\n[null,2]\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestJSONSink_FlushesEachValue(t *testing.T) {
	var buf bytes.Buffer
	sink := jddffuzz.NewJSONSink(&buf)
	if err := sink.Emit("x"); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if buf.String() != "\"x\"\n" {
		t.Fatalf("value not flushed before the next one: %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestJSONSink_WriteError(t *testing.T) {
	sink := jddffuzz.NewJSONSink(failingWriter{})
	if err := sink.Emit(true); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestYAMLSink_Documents(t *testing.T) {
	var buf bytes.Buffer
	sink := jddffuzz.NewYAMLSink(&buf)
	if err := sink.Emit(map[string]any{"a": uint8(1)}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := sink.Emit([]any{"x", math.NaN()}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !strings.Contains(buf.String(), ".nan") {
		t.Fatalf("expected native NaN rendering: %s", buf.String())
	}
	dec := yaml.NewDecoder(&buf)
	docs := 0
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		docs++
	}
	if docs != 2 {
		t.Fatalf("expected 2 documents, got %d", docs)
	}
}

func TestJSONSink_NoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	if err := jddffuzz.NewJSONSink(&buf).Emit("<&>"); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if buf.String() != "\"<&>\"\n" {
		t.Fatalf("unexpected escaping: %q", buf.String())
	}
}
