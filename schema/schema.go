// Package schema defines the compiled JDDF schema tree consumed by the
// generator and the validator, together with the compiler that builds it from
// JSON or YAML documents.
//
// A compiled tree is immutable: nodes are created once by Compile and only
// read afterwards.
package schema

import "sort"

// FormKind identifies the structural variant of a schema node.
type FormKind int

const (
	FormEmpty FormKind = iota
	FormRef
	FormType
	FormEnum
	FormElements
	FormProperties
	FormValues
	FormDiscriminator
)

func (k FormKind) String() string {
	switch k {
	case FormEmpty:
		return "empty"
	case FormRef:
		return "ref"
	case FormType:
		return "type"
	case FormEnum:
		return "enum"
	case FormElements:
		return "elements"
	case FormProperties:
		return "properties"
	case FormValues:
		return "values"
	case FormDiscriminator:
		return "discriminator"
	}
	return "unknown"
}

// Type names a JDDF primitive type.
type Type string

const (
	TypeBoolean   Type = "boolean"
	TypeInt8      Type = "int8"
	TypeUint8     Type = "uint8"
	TypeInt16     Type = "int16"
	TypeUint16    Type = "uint16"
	TypeInt32     Type = "int32"
	TypeUint32    Type = "uint32"
	TypeFloat32   Type = "float32"
	TypeFloat64   Type = "float64"
	TypeString    Type = "string"
	TypeTimestamp Type = "timestamp"
)

// Types lists every primitive type in declaration order.
var Types = []Type{
	TypeBoolean, TypeInt8, TypeUint8, TypeInt16, TypeUint16, TypeInt32,
	TypeUint32, TypeFloat32, TypeFloat64, TypeString, TypeTimestamp,
}

func (t Type) valid() bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}

// Schema is a node of a compiled schema tree.
type Schema struct {
	// Definitions is only populated on the root node.
	Definitions map[string]*Schema
	Form        Form
	Nullable    bool
	Metadata    map[string]any
}

// Form is the closed set of node shapes. Only this package implements it.
type Form interface {
	Kind() FormKind
	isForm()
}

// EmptyForm accepts any JSON value.
type EmptyForm struct{}

// RefForm points at a root definition. Schema is linked by Compile.
type RefForm struct {
	Name   string
	Schema *Schema
}

// TypeForm requires a JSON representation of a primitive type.
type TypeForm struct {
	Type Type
}

// EnumForm requires one of a set of strings. Values are sorted and unique.
type EnumForm struct {
	Values []string
}

// ElementsForm requires an array whose items all match Schema.
type ElementsForm struct {
	Schema *Schema
}

// PropertiesForm requires an object with the given required and optional
// members. Additional reports whether other members are allowed.
type PropertiesForm struct {
	Required   map[string]*Schema
	Optional   map[string]*Schema
	Additional bool
}

// ValuesForm requires an object whose member values all match Schema.
type ValuesForm struct {
	Schema *Schema
}

// DiscriminatorForm requires an object whose Tag member selects a Mapping
// entry the rest of the object must match.
type DiscriminatorForm struct {
	Tag     string
	Mapping map[string]*Schema
}

func (*EmptyForm) Kind() FormKind         { return FormEmpty }
func (*RefForm) Kind() FormKind           { return FormRef }
func (*TypeForm) Kind() FormKind          { return FormType }
func (*EnumForm) Kind() FormKind          { return FormEnum }
func (*ElementsForm) Kind() FormKind      { return FormElements }
func (*PropertiesForm) Kind() FormKind    { return FormProperties }
func (*ValuesForm) Kind() FormKind        { return FormValues }
func (*DiscriminatorForm) Kind() FormKind { return FormDiscriminator }

func (*EmptyForm) isForm()         {}
func (*RefForm) isForm()           {}
func (*TypeForm) isForm()          {}
func (*EnumForm) isForm()          {}
func (*ElementsForm) isForm()      {}
func (*PropertiesForm) isForm()    {}
func (*ValuesForm) isForm()        {}
func (*DiscriminatorForm) isForm() {}

// RequiredKeys returns the required member names in sorted order.
func (f *PropertiesForm) RequiredKeys() []string { return sortedKeys(f.Required) }

// OptionalKeys returns the optional member names in sorted order.
func (f *PropertiesForm) OptionalKeys() []string { return sortedKeys(f.Optional) }

// Tags returns the mapping keys in sorted order.
func (f *DiscriminatorForm) Tags() []string { return sortedKeys(f.Mapping) }

func sortedKeys(m map[string]*Schema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Convenience constructors for building trees in code.

// Empty returns a schema accepting any value.
func Empty() *Schema { return &Schema{Form: &EmptyForm{}} }

// OfType returns a schema of the given primitive type.
func OfType(t Type) *Schema { return &Schema{Form: &TypeForm{Type: t}} }

// Enum returns a schema accepting the given strings. Duplicates are dropped.
func Enum(values ...string) *Schema {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return &Schema{Form: &EnumForm{Values: out}}
}

// Elements returns an array schema.
func Elements(item *Schema) *Schema { return &Schema{Form: &ElementsForm{Schema: item}} }

// Values returns a map schema.
func Values(item *Schema) *Schema { return &Schema{Form: &ValuesForm{Schema: item}} }

// Properties returns an object schema. Nil maps are treated as empty.
func Properties(required, optional map[string]*Schema, additional bool) *Schema {
	if required == nil {
		required = map[string]*Schema{}
	}
	if optional == nil {
		optional = map[string]*Schema{}
	}
	return &Schema{Form: &PropertiesForm{Required: required, Optional: optional, Additional: additional}}
}

// Discriminator returns a tagged union schema.
func Discriminator(tag string, mapping map[string]*Schema) *Schema {
	return &Schema{Form: &DiscriminatorForm{Tag: tag, Mapping: mapping}}
}
