package jddffuzz

import (
	"bufio"
	"io"
	"math"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Sink receives generated values in generation order.
type Sink interface {
	Emit(v any) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(v any) error

func (f SinkFunc) Emit(v any) error { return f(v) }

// JSONSink writes one JSON text per line and flushes after each value.
// Non-finite floats have no JSON representation and are written as null.
type JSONSink struct {
	w *bufio.Writer
}

// NewJSONSink returns a JSONSink writing to w.
func NewJSONSink(w io.Writer) *JSONSink { return &JSONSink{w: bufio.NewWriter(w)} }

func (s *JSONSink) Emit(v any) error {
	b, err := json.MarshalWithOption(finite(v), json.DisableHTMLEscape())
	if err != nil {
		return err
	}
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return err
	}
	return s.w.Flush()
}

// Close flushes buffered output.
func (s *JSONSink) Close() error { return s.w.Flush() }

// YAMLSink writes each value as a document of a YAML stream.
type YAMLSink struct {
	enc *yaml.Encoder
}

// NewYAMLSink returns a YAMLSink writing to w.
func NewYAMLSink(w io.Writer) *YAMLSink { return &YAMLSink{enc: yaml.NewEncoder(w)} }

func (s *YAMLSink) Emit(v any) error { return s.enc.Encode(v) }

// Close terminates the YAML stream.
func (s *YAMLSink) Close() error { return s.enc.Close() }

// finite replaces NaN and infinities with nil, in place for containers.
func finite(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case []any:
		for i := range t {
			t[i] = finite(t[i])
		}
	case map[string]any:
		for k := range t {
			t[k] = finite(t[k])
		}
	}
	return v
}
