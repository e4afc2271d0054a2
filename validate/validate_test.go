package validate_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/jddf/jddf-fuzz/schema"
	"github.com/jddf/jddf-fuzz/validate"
)

func codesOf(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	iss, ok := schema.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %T: %v", err, err)
	}
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}

func expectIssue(t *testing.T, err error, code, path string) {
	t.Helper()
	iss, ok := schema.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	for _, it := range iss {
		if it.Code == code && it.Path == path {
			return
		}
	}
	t.Fatalf("expected %s at %s, got %v", code, path, iss)
}

func TestValidate_IntegerRanges(t *testing.T) {
	cases := []struct {
		typ  schema.Type
		v    any
		code string
	}{
		{schema.TypeInt8, int8(-128), ""},
		{schema.TypeInt8, float64(127), ""},
		{schema.TypeInt8, float64(128), schema.CodeOutOfRange},
		{schema.TypeUint8, float64(-1), schema.CodeOutOfRange},
		{schema.TypeUint8, json.Number("255"), ""},
		{schema.TypeUint8, json.Number("256"), schema.CodeOutOfRange},
		{schema.TypeInt16, int16(-32768), ""},
		{schema.TypeUint16, float64(65536), schema.CodeOutOfRange},
		{schema.TypeInt32, json.Number("-2147483648"), ""},
		{schema.TypeInt32, json.Number("2147483648"), schema.CodeOutOfRange},
		{schema.TypeUint32, uint32(4294967295), ""},
		{schema.TypeUint32, json.Number("1.5"), schema.CodeInvalidType},
		{schema.TypeInt32, "1", schema.CodeInvalidType},
		{schema.TypeFloat32, json.Number("1e3"), ""},
		{schema.TypeFloat64, float32(0.5), ""},
		{schema.TypeFloat64, true, schema.CodeInvalidType},
	}
	for _, c := range cases {
		err := validate.Validate(schema.OfType(c.typ), c.v)
		if c.code == "" {
			if err != nil {
				t.Fatalf("%s %#v: unexpected %v", c.typ, c.v, err)
			}
			continue
		}
		codes := codesOf(t, err)
		if len(codes) != 1 || codes[0] != c.code {
			t.Fatalf("%s %#v: expected [%s], got %v", c.typ, c.v, c.code, codes)
		}
	}
}

func TestValidate_BooleanStringTimestamp(t *testing.T) {
	if err := validate.Validate(schema.OfType(schema.TypeBoolean), false); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	if err := validate.Validate(schema.OfType(schema.TypeBoolean), "false"); err == nil {
		t.Fatalf("expected error for string boolean")
	}
	if err := validate.Validate(schema.OfType(schema.TypeString), ""); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	ts := schema.OfType(schema.TypeTimestamp)
	if err := validate.Validate(ts, "1985-04-12T23:20:50.52Z"); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	if err := validate.Validate(ts, "1990-12-31T15:59:59-08:00"); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	expectIssue(t, validate.Validate(ts, "yesterday"), schema.CodeInvalidFormat, "/")
	expectIssue(t, validate.Validate(ts, 1), schema.CodeInvalidType, "/")
}

func TestValidate_Enum(t *testing.T) {
	s := schema.Enum("PENDING", "DONE")
	if err := validate.Validate(s, "DONE"); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	expectIssue(t, validate.Validate(s, "done"), schema.CodeInvalidEnum, "/")
	expectIssue(t, validate.Validate(s, 1), schema.CodeInvalidType, "/")
}

func TestValidate_ElementsAndValues(t *testing.T) {
	el := schema.Elements(schema.OfType(schema.TypeString))
	if err := validate.Validate(el, []any{}); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	expectIssue(t, validate.Validate(el, []any{"a", 1, "b", true}), schema.CodeInvalidType, "/1")
	expectIssue(t, validate.Validate(el, []any{"a", 1, "b", true}), schema.CodeInvalidType, "/3")
	expectIssue(t, validate.Validate(el, map[string]any{}), schema.CodeInvalidType, "/")

	vals := schema.Values(schema.OfType(schema.TypeBoolean))
	if err := validate.Validate(vals, map[string]any{"a": true, "b": false}); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	expectIssue(t, validate.Validate(vals, map[string]any{"a/b": "x"}), schema.CodeInvalidType, "/a~1b")
}

func TestValidate_Properties(t *testing.T) {
	s := schema.Properties(
		map[string]*schema.Schema{"name": schema.OfType(schema.TypeString)},
		map[string]*schema.Schema{"age": schema.OfType(schema.TypeUint8)},
		false,
	)
	if err := validate.Validate(s, map[string]any{"name": "x"}); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	if err := validate.Validate(s, map[string]any{"name": "x", "age": uint8(3)}); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	expectIssue(t, validate.Validate(s, map[string]any{}), schema.CodeRequired, "/name")
	expectIssue(t, validate.Validate(s, map[string]any{"name": "x", "age": float64(300)}), schema.CodeOutOfRange, "/age")
	expectIssue(t, validate.Validate(s, map[string]any{"name": "x", "extra": 1}), schema.CodeUnknownKey, "/extra")

	open := schema.Properties(map[string]*schema.Schema{"name": schema.OfType(schema.TypeString)}, nil, true)
	if err := validate.Validate(open, map[string]any{"name": "x", "extra": 1}); err != nil {
		t.Fatalf("additional keys should be allowed: %v", err)
	}
}

func TestValidate_Discriminator(t *testing.T) {
	s := schema.Discriminator("kind", map[string]*schema.Schema{
		"circle": schema.Properties(map[string]*schema.Schema{"radius": schema.OfType(schema.TypeFloat64)}, nil, false),
		"dot":    schema.Properties(nil, nil, false),
	})
	if err := validate.Validate(s, map[string]any{"kind": "circle", "radius": 1.5}); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	// The tag itself is not an unknown key of the mapping schema.
	if err := validate.Validate(s, map[string]any{"kind": "dot"}); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	expectIssue(t, validate.Validate(s, map[string]any{"radius": 1.5}), schema.CodeDiscriminatorMissing, "/kind")
	expectIssue(t, validate.Validate(s, map[string]any{"kind": "square"}), schema.CodeDiscriminatorUnknown, "/kind")
	expectIssue(t, validate.Validate(s, map[string]any{"kind": 7}), schema.CodeInvalidType, "/kind")
	expectIssue(t, validate.Validate(s, map[string]any{"kind": "circle"}), schema.CodeRequired, "/radius")
	expectIssue(t, validate.Validate(s, map[string]any{"kind": "dot", "x": 1}), schema.CodeUnknownKey, "/x")
}

func TestValidate_Nullable(t *testing.T) {
	s := schema.OfType(schema.TypeString)
	expectIssue(t, validate.Validate(s, nil), schema.CodeInvalidType, "/")
	s.Nullable = true
	if err := validate.Validate(s, nil); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	if err := validate.Validate(schema.Empty(), nil); err != nil {
		t.Fatalf("empty schema should accept null: %v", err)
	}
}

func TestValidate_Ref(t *testing.T) {
	s, err := schema.ParseJSON([]byte(`{
		"definitions": {"node": {"properties": {"next": {"ref": "node", "nullable": true}}}},
		"ref": "node"
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ok := map[string]any{"next": map[string]any{"next": nil}}
	if err := validate.Validate(s, ok); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	bad := map[string]any{"next": map[string]any{"next": 1}}
	expectIssue(t, validate.Validate(s, bad), schema.CodeInvalidType, "/next/next")
}

func TestValidate_DecodedJSON(t *testing.T) {
	s, err := schema.ParseJSON([]byte(`{"properties": {"n": {"type": "int8"}, "xs": {"elements": {"type": "uint32"}}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := schema.DecodeJSON(strings.NewReader(`{"n": -5, "xs": [0, 4294967295]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := validate.Validate(s, v); err != nil {
		t.Fatalf("unexpected %v", err)
	}
}

func TestValidate_RefCycleRejectedAtCompile(t *testing.T) {
	_, err := schema.ParseJSON([]byte(`{"definitions": {"a": {"ref": "a"}}, "ref": "a"}`))
	expectIssue(t, err, schema.CodeInvalidDefinitions, "/definitions/a")
}

func TestValidate_RefCycleInBuiltTree(t *testing.T) {
	a := &schema.Schema{}
	b := &schema.Schema{Form: &schema.RefForm{Name: "a", Schema: a}}
	a.Form = &schema.RefForm{Name: "b", Schema: b}
	root := &schema.Schema{Form: &schema.RefForm{Name: "a", Schema: a}}
	for _, v := range []any{true, nil, map[string]any{"k": 1}} {
		expectIssue(t, validate.Validate(root, v), schema.CodeInvalidDefinitions, "/")
	}
	// The same ref met again below a nested value is recursion, not a cycle.
	list := &schema.Schema{}
	list.Form = &schema.ElementsForm{Schema: &schema.Schema{Form: &schema.RefForm{Name: "list", Schema: list}}}
	if err := validate.Validate(list, []any{[]any{}, []any{[]any{}}}); err != nil {
		t.Fatalf("unexpected %v", err)
	}
}
