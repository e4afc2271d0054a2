package schema

import (
	"sort"
	"strings"
)

// keywords accepted on any schema node.
var keywords = map[string]struct{}{
	"definitions":          {},
	"nullable":             {},
	"metadata":             {},
	"ref":                  {},
	"type":                 {},
	"enum":                 {},
	"elements":             {},
	"properties":           {},
	"optionalProperties":   {},
	"additionalProperties": {},
	"values":               {},
	"discriminator":        {},
}

// Compile checks a decoded JSON schema document against the JDDF rules and
// builds the schema tree. All problems found are reported together as Issues.
func Compile(doc map[string]any) (*Schema, error) {
	c := &compiler{}
	root := c.node(doc, nil, true)
	c.resolve(root)
	c.refCycles(root)
	if len(c.issues) > 0 {
		return nil, c.issues
	}
	return root, nil
}

type pendingRef struct {
	form *RefForm
	path Pointer
}

type compiler struct {
	issues Issues
	refs   []pendingRef
}

func (c *compiler) fail(p Pointer, code string, data map[string]string) {
	c.issues = append(c.issues, NewIssue(p, code, data))
}

func (c *compiler) node(doc map[string]any, p Pointer, root bool) *Schema {
	s := &Schema{}
	for _, k := range sortedAnyKeys(doc) {
		if _, ok := keywords[k]; !ok {
			c.fail(p.Field(k), CodeUnknownKey, map[string]string{"key": k})
		}
	}

	if raw, ok := doc["definitions"]; ok {
		if !root {
			c.fail(p.Field("definitions"), CodeInvalidDefinitions, map[string]string{"detail": "definitions are only allowed at the root"})
		} else {
			s.Definitions = c.children(raw, p.Field("definitions"))
		}
	}
	if raw, ok := doc["nullable"]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			c.fail(p.Field("nullable"), CodeInvalidType, map[string]string{"expected": "boolean"})
		}
		s.Nullable = b
	}
	if raw, ok := doc["metadata"]; ok {
		m, isObj := raw.(map[string]any)
		if !isObj {
			c.fail(p.Field("metadata"), CodeInvalidType, map[string]string{"expected": "object"})
		}
		s.Metadata = m
	}

	var forms []string
	for _, k := range []string{"ref", "type", "enum", "elements", "values", "discriminator"} {
		if _, ok := doc[k]; ok {
			forms = append(forms, k)
		}
	}
	_, hasReq := doc["properties"]
	_, hasOpt := doc["optionalProperties"]
	_, hasAdd := doc["additionalProperties"]
	if hasReq || hasOpt {
		forms = append(forms, "properties")
	} else if hasAdd {
		c.fail(p.Field("additionalProperties"), CodeInvalidForm, map[string]string{"detail": "additionalProperties requires properties or optionalProperties"})
	}
	if len(forms) > 1 {
		c.fail(p, CodeInvalidForm, map[string]string{"detail": "conflicting keywords " + strings.Join(forms, ", ")})
		s.Form = &EmptyForm{}
		return s
	}
	if len(forms) == 0 {
		s.Form = &EmptyForm{}
		return s
	}

	switch forms[0] {
	case "ref":
		s.Form = c.ref(doc["ref"], p.Field("ref"))
	case "type":
		s.Form = c.typeForm(doc["type"], p.Field("type"))
	case "enum":
		s.Form = c.enum(doc["enum"], p.Field("enum"))
	case "elements":
		s.Form = &ElementsForm{Schema: c.child(doc["elements"], p.Field("elements"))}
	case "values":
		s.Form = &ValuesForm{Schema: c.child(doc["values"], p.Field("values"))}
	case "properties":
		s.Form = c.properties(doc, p)
	case "discriminator":
		s.Form = c.discriminator(doc["discriminator"], p.Field("discriminator"))
	}
	return s
}

// child compiles a nested schema; non-objects are reported and replaced by an
// empty schema so compilation can continue.
func (c *compiler) child(raw any, p Pointer) *Schema {
	m, ok := raw.(map[string]any)
	if !ok {
		c.fail(p, CodeInvalidType, map[string]string{"expected": "object"})
		return Empty()
	}
	return c.node(m, p, false)
}

func (c *compiler) children(raw any, p Pointer) map[string]*Schema {
	m, ok := raw.(map[string]any)
	if !ok {
		c.fail(p, CodeInvalidType, map[string]string{"expected": "object"})
		return map[string]*Schema{}
	}
	out := make(map[string]*Schema, len(m))
	for _, k := range sortedAnyKeys(m) {
		out[k] = c.child(m[k], p.Field(k))
	}
	return out
}

func (c *compiler) ref(raw any, p Pointer) Form {
	name, ok := raw.(string)
	if !ok {
		c.fail(p, CodeInvalidType, map[string]string{"expected": "string"})
		return &EmptyForm{}
	}
	f := &RefForm{Name: name}
	c.refs = append(c.refs, pendingRef{form: f, path: p})
	return f
}

func (c *compiler) typeForm(raw any, p Pointer) Form {
	name, ok := raw.(string)
	if !ok {
		c.fail(p, CodeInvalidType, map[string]string{"expected": "string"})
		return &EmptyForm{}
	}
	t := Type(name)
	if !t.valid() {
		c.fail(p, CodeInvalidForm, map[string]string{"detail": "unknown type " + name})
		return &EmptyForm{}
	}
	return &TypeForm{Type: t}
}

func (c *compiler) enum(raw any, p Pointer) Form {
	arr, ok := raw.([]any)
	if !ok {
		c.fail(p, CodeInvalidType, map[string]string{"expected": "array"})
		return &EmptyForm{}
	}
	if len(arr) == 0 {
		c.fail(p, CodeInvalidEnum, map[string]string{"detail": "enum must not be empty"})
		return &EmptyForm{}
	}
	seen := make(map[string]struct{}, len(arr))
	values := make([]string, 0, len(arr))
	for i, v := range arr {
		str, ok := v.(string)
		if !ok {
			c.fail(p.Index(i), CodeInvalidType, map[string]string{"expected": "string"})
			continue
		}
		if _, dup := seen[str]; dup {
			c.fail(p.Index(i), CodeInvalidEnum, map[string]string{"key": str})
			continue
		}
		seen[str] = struct{}{}
		values = append(values, str)
	}
	sort.Strings(values)
	return &EnumForm{Values: values}
}

func (c *compiler) properties(doc map[string]any, p Pointer) Form {
	f := &PropertiesForm{Required: map[string]*Schema{}, Optional: map[string]*Schema{}}
	if raw, ok := doc["properties"]; ok {
		f.Required = c.children(raw, p.Field("properties"))
	}
	if raw, ok := doc["optionalProperties"]; ok {
		f.Optional = c.children(raw, p.Field("optionalProperties"))
	}
	for _, k := range f.OptionalKeys() {
		if _, dup := f.Required[k]; dup {
			c.fail(p.Field("optionalProperties").Field(k), CodeOverlappingProperties, map[string]string{"key": k})
		}
	}
	if raw, ok := doc["additionalProperties"]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			c.fail(p.Field("additionalProperties"), CodeInvalidType, map[string]string{"expected": "boolean"})
		}
		f.Additional = b
	}
	return f
}

func (c *compiler) discriminator(raw any, p Pointer) Form {
	m, ok := raw.(map[string]any)
	if !ok {
		c.fail(p, CodeInvalidType, map[string]string{"expected": "object"})
		return &EmptyForm{}
	}
	for _, k := range sortedAnyKeys(m) {
		if k != "tag" && k != "mapping" {
			c.fail(p.Field(k), CodeUnknownKey, map[string]string{"key": k})
		}
	}
	tag, ok := m["tag"].(string)
	if !ok {
		c.fail(p.Field("tag"), CodeInvalidType, map[string]string{"expected": "string"})
		return &EmptyForm{}
	}
	rawMapping, ok := m["mapping"]
	if !ok {
		c.fail(p.Field("mapping"), CodeInvalidDiscriminator, map[string]string{"detail": "mapping is required"})
		return &EmptyForm{}
	}
	mapping := c.children(rawMapping, p.Field("mapping"))
	if len(mapping) == 0 {
		c.fail(p.Field("mapping"), CodeInvalidDiscriminator, map[string]string{"detail": "mapping must not be empty"})
		return &EmptyForm{}
	}
	for _, k := range sortedKeys(mapping) {
		sub := mapping[k]
		mp := p.Field("mapping").Field(k)
		pf, isProps := sub.Form.(*PropertiesForm)
		if !isProps {
			c.fail(mp, CodeInvalidDiscriminator, map[string]string{"detail": "mapping values must be properties schemas"})
			continue
		}
		if sub.Nullable {
			c.fail(mp.Field("nullable"), CodeInvalidDiscriminator, map[string]string{"detail": "mapping values must not be nullable"})
		}
		_, inReq := pf.Required[tag]
		_, inOpt := pf.Optional[tag]
		if inReq || inOpt {
			c.fail(mp, CodeInvalidDiscriminator, map[string]string{"detail": "mapping value redefines tag " + tag})
		}
	}
	return &DiscriminatorForm{Tag: tag, Mapping: mapping}
}

// resolve links every ref to its root definition.
func (c *compiler) resolve(root *Schema) {
	for _, r := range c.refs {
		def, ok := root.Definitions[r.form.Name]
		if !ok {
			c.fail(r.path, CodeUnresolvedRef, map[string]string{"key": r.form.Name})
			continue
		}
		r.form.Schema = def
	}
}

// refCycles reports definitions that reach themselves through refs alone.
// Such a schema never nests a value, so neither generating nor validating
// against it terminates.
func (c *compiler) refCycles(root *Schema) {
	for _, name := range sortedKeys(root.Definitions) {
		seen := map[string]bool{name: true}
		s := root.Definitions[name]
		for {
			f, ok := s.Form.(*RefForm)
			if !ok || f.Schema == nil {
				break
			}
			if seen[f.Name] {
				if f.Name == name {
					c.fail(Pointer{"definitions", name}, CodeInvalidDefinitions, map[string]string{"detail": "ref cycle through " + name})
				}
				break
			}
			seen[f.Name] = true
			s = f.Schema
		}
	}
}

func sortedAnyKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
