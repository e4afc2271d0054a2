package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Parse compiles a schema document, detecting the encoding: input whose first
// non-space byte is '{' is read as JSON, anything else as YAML.
func Parse(data []byte) (*Schema, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseJSON decodes a JSON schema document and compiles it. Duplicate object
// keys and trailing data are rejected.
func ParseJSON(data []byte) (*Schema, error) {
	doc, err := DecodeJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return compileDocument(doc)
}

// ParseYAML decodes the first document of a YAML stream and compiles it.
func ParseYAML(data []byte) (*Schema, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return compileDocument(yamlNormalizeValue(node))
}

func compileDocument(doc any) (*Schema, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, Issues{NewIssue(nil, CodeInvalidType, map[string]string{"expected": "object"})}
	}
	return Compile(m)
}

// DecodeJSON reads exactly one JSON value from r into plain Go values
// (map[string]any, []any, string, bool, json.Number, nil). Duplicate object
// keys are collected and returned as Issues; for anything else the last
// occurrence would win.
func DecodeJSON(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, parseIssue(err)
	}
	// The token stream does not check separators, so syntax is checked by a
	// full decode first.
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, parseIssue(err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	d := &jsonDecoder{dec: dec}
	v, err := d.value(nil)
	if err != nil {
		return nil, parseIssue(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, parseIssue(err)
	}
	if len(d.issues) > 0 {
		return nil, d.issues
	}
	return v, nil
}

func parseIssue(err error) Issues {
	return Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
}

type jsonDecoder struct {
	dec    *json.Decoder
	issues Issues
}

func (d *jsonDecoder) value(p Pointer) (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return d.object(p)
		case '[':
			return d.array(p)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
	case string, bool, json.Number, float64, nil:
		return v, nil
	}
	return nil, fmt.Errorf("unexpected token %T", tok)
}

func (d *jsonDecoder) object(p Pointer) (any, error) {
	obj := map[string]any{}
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		if _, dup := obj[key]; dup {
			d.issues = append(d.issues, NewIssue(p.Field(key), CodeDuplicateKey, map[string]string{"key": key}))
		}
		v, err := d.value(p.Field(key))
		if err != nil {
			return nil, err
		}
		obj[key] = v
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (d *jsonDecoder) array(p Pointer) (any, error) {
	arr := []any{}
	for d.dec.More() {
		v, err := d.value(p.Index(len(arr)))
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like values recursively. Non-string keys are dropped.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
