// Package validate checks JSON values against compiled JDDF schemas.
//
// Values may come from a JSON decoder (json.Number, float64) or straight from
// the generator (fixed-width integers, float32).
package validate

import (
	"math"
	"sort"
	"strconv"

	"github.com/jddf/jddf-fuzz/codec"
	"github.com/jddf/jddf-fuzz/schema"
)

// Validate reports every way v fails to conform to s. It returns nil when v
// conforms.
func Validate(s *schema.Schema, v any) error {
	iss := check(s, v, nil, "", nil)
	if len(iss) == 0 {
		return nil
	}
	return iss
}

func check(s *schema.Schema, v any, p schema.Pointer, tag string, refs []*schema.RefForm) schema.Issues {
	if s != nil && v == nil && s.Nullable {
		return nil
	}
	return schema.Visit[schema.Issues](s, node{value: v, path: p, tag: tag, refs: refs})
}

// node validates one value. tag names the discriminator member a mapping
// schema must ignore. refs holds the refs followed since the last nested
// value; meeting one again means the schema loops without consuming input.
type node struct {
	value any
	path  schema.Pointer
	tag   string
	refs  []*schema.RefForm
}

var _ schema.Visitor[schema.Issues] = node{}

func (n node) fail(code string, data map[string]string) schema.Issues {
	return schema.Issues{schema.NewIssue(n.path, code, data)}
}

func (n node) Empty(*schema.Schema) schema.Issues { return nil }

func (n node) Ref(_ *schema.Schema, f *schema.RefForm) schema.Issues {
	for _, seen := range n.refs {
		if seen == f {
			return n.fail(schema.CodeInvalidDefinitions, map[string]string{"detail": "ref cycle through " + f.Name})
		}
	}
	refs := append(n.refs[:len(n.refs):len(n.refs)], f)
	return check(f.Schema, n.value, n.path, "", refs)
}

func (n node) Type(_ *schema.Schema, f *schema.TypeForm) schema.Issues {
	switch f.Type {
	case schema.TypeBoolean:
		if _, ok := n.value.(bool); !ok {
			return n.fail(schema.CodeInvalidType, map[string]string{"expected": "boolean"})
		}
		return nil
	case schema.TypeString:
		if _, ok := n.value.(string); !ok {
			return n.fail(schema.CodeInvalidType, map[string]string{"expected": "string"})
		}
		return nil
	case schema.TypeTimestamp:
		str, ok := n.value.(string)
		if !ok {
			return n.fail(schema.CodeInvalidType, map[string]string{"expected": "string"})
		}
		if _, err := codec.ParseTimestamp(str); err != nil {
			return n.fail(schema.CodeInvalidFormat, map[string]string{"expected": "RFC 3339 timestamp"})
		}
		return nil
	case schema.TypeFloat32, schema.TypeFloat64:
		if _, ok := number(n.value); !ok {
			return n.fail(schema.CodeInvalidType, map[string]string{"expected": "number"})
		}
		return nil
	}
	lo, hi, ok := intRange(f.Type)
	if !ok {
		return n.fail(schema.CodeInvalidType, map[string]string{"expected": string(f.Type)})
	}
	x, ok := number(n.value)
	if !ok || x != math.Trunc(x) {
		return n.fail(schema.CodeInvalidType, map[string]string{"expected": "integer"})
	}
	if x < lo || x > hi {
		return n.fail(schema.CodeOutOfRange, map[string]string{"expected": string(f.Type)})
	}
	return nil
}

func (n node) Enum(_ *schema.Schema, f *schema.EnumForm) schema.Issues {
	str, ok := n.value.(string)
	if !ok {
		return n.fail(schema.CodeInvalidType, map[string]string{"expected": "string"})
	}
	for _, e := range f.Values {
		if e == str {
			return nil
		}
	}
	return n.fail(schema.CodeInvalidEnum, map[string]string{"key": str})
}

func (n node) Elements(_ *schema.Schema, f *schema.ElementsForm) schema.Issues {
	arr, ok := n.value.([]any)
	if !ok {
		return n.fail(schema.CodeInvalidType, map[string]string{"expected": "array"})
	}
	var iss schema.Issues
	for i, item := range arr {
		iss = append(iss, check(f.Schema, item, n.path.Index(i), "", nil)...)
	}
	return iss
}

func (n node) Properties(_ *schema.Schema, f *schema.PropertiesForm) schema.Issues {
	obj, ok := n.value.(map[string]any)
	if !ok {
		return n.fail(schema.CodeInvalidType, map[string]string{"expected": "object"})
	}
	var iss schema.Issues
	for _, k := range f.RequiredKeys() {
		v, present := obj[k]
		if !present {
			iss = append(iss, schema.NewIssue(n.path.Field(k), schema.CodeRequired, map[string]string{"key": k}))
			continue
		}
		iss = append(iss, check(f.Required[k], v, n.path.Field(k), "", nil)...)
	}
	for _, k := range f.OptionalKeys() {
		if v, present := obj[k]; present {
			iss = append(iss, check(f.Optional[k], v, n.path.Field(k), "", nil)...)
		}
	}
	if !f.Additional {
		for _, k := range sortedKeys(obj) {
			_, req := f.Required[k]
			_, opt := f.Optional[k]
			if !req && !opt && k != n.tag {
				iss = append(iss, schema.NewIssue(n.path.Field(k), schema.CodeUnknownKey, map[string]string{"key": k}))
			}
		}
	}
	return iss
}

func (n node) Values(_ *schema.Schema, f *schema.ValuesForm) schema.Issues {
	obj, ok := n.value.(map[string]any)
	if !ok {
		return n.fail(schema.CodeInvalidType, map[string]string{"expected": "object"})
	}
	var iss schema.Issues
	for _, k := range sortedKeys(obj) {
		iss = append(iss, check(f.Schema, obj[k], n.path.Field(k), "", nil)...)
	}
	return iss
}

func (n node) Discriminator(_ *schema.Schema, f *schema.DiscriminatorForm) schema.Issues {
	obj, ok := n.value.(map[string]any)
	if !ok {
		return n.fail(schema.CodeInvalidType, map[string]string{"expected": "object"})
	}
	raw, present := obj[f.Tag]
	if !present {
		return schema.Issues{schema.NewIssue(n.path.Field(f.Tag), schema.CodeDiscriminatorMissing, map[string]string{"key": f.Tag})}
	}
	tag, ok := raw.(string)
	if !ok {
		return schema.Issues{schema.NewIssue(n.path.Field(f.Tag), schema.CodeInvalidType, map[string]string{"expected": "string"})}
	}
	sub, ok := f.Mapping[tag]
	if !ok {
		return schema.Issues{schema.NewIssue(n.path.Field(f.Tag), schema.CodeDiscriminatorUnknown, map[string]string{"key": tag})}
	}
	return check(sub, obj, n.path, f.Tag, n.refs)
}

func intRange(t schema.Type) (lo, hi float64, ok bool) {
	switch t {
	case schema.TypeInt8:
		return math.MinInt8, math.MaxInt8, true
	case schema.TypeUint8:
		return 0, math.MaxUint8, true
	case schema.TypeInt16:
		return math.MinInt16, math.MaxInt16, true
	case schema.TypeUint16:
		return 0, math.MaxUint16, true
	case schema.TypeInt32:
		return math.MinInt32, math.MaxInt32, true
	case schema.TypeUint32:
		return 0, math.MaxUint32, true
	}
	return 0, 0, false
}

// number converts the numeric representations produced by JSON decoders and
// by the generator to float64. Every integer type used here fits exactly.
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int8:
		return float64(t), true
	case uint8:
		return float64(t), true
	case int16:
		return float64(t), true
	case uint16:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case interface{ String() string }:
		// json.Number from encoding/json or go-json.
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
