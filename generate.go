package jddffuzz

import (
	"errors"
	"fmt"

	"github.com/jddf/jddf-fuzz/codec"
	"github.com/jddf/jddf-fuzz/schema"
)

const (
	// maxLen bounds generated string lengths, array lengths and member counts.
	maxLen = 7
	// DefaultMaxDepth is the nesting depth after which generation shrinks.
	DefaultMaxDepth = 32
	// hardDepthFactor times the max depth bounds nested ref hops.
	hardDepthFactor = 4
)

// ErrDepthExceeded is returned when a schema keeps requiring nested refs past
// the hard limit, which only happens with recursive refs.
var ErrDepthExceeded = errors.New("jddffuzz: depth limit exceeded")

type depthError struct{ limit int }

func (e *depthError) Error() string {
	return fmt.Sprintf("%v: required ref nesting deeper than %d", ErrDepthExceeded, e.limit)
}

func (e *depthError) Unwrap() error { return ErrDepthExceeded }

// Generator produces random values conforming to a schema. It is not safe for
// concurrent use.
//
// Generated values are built from nil, bool, the fixed-width integer types,
// float32, float64, string, []any and map[string]any.
type Generator struct {
	rand     Rand
	maxDepth int
	depth    int
	refs     int // ref hops on the current path
}

// NewGenerator returns a Generator drawing from r. maxDepth <= 0 selects
// DefaultMaxDepth.
func NewGenerator(r Rand, maxDepth int) *Generator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Generator{rand: r, maxDepth: maxDepth}
}

// Generate returns one value conforming to s, using DefaultMaxDepth.
//
// It panics with *schema.FormError when s contains a form it cannot handle.
func Generate(s *schema.Schema, r Rand) any {
	return NewGenerator(r, 0).Generate(s)
}

// Generate returns one value conforming to s.
//
// It panics with *schema.FormError when s contains a form it cannot handle,
// and with an error wrapping ErrDepthExceeded when recursive refs never
// terminate. Only ref hops count toward that limit, so trees without refs
// of any depth always generate. Use Run to turn both into errors.
func (g *Generator) Generate(s *schema.Schema) any {
	g.depth, g.refs = 0, 0
	return g.gen(s)
}

// TryGenerate is like Generate but returns the panics described there as
// errors. No value is returned alongside an error.
func (g *Generator) TryGenerate(s *schema.Schema) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			switch e := rec.(type) {
			case *schema.FormError:
				err = e
			case *depthError:
				err = e
			default:
				panic(rec)
			}
			v = nil
		}
	}()
	return g.Generate(s), nil
}

func (g *Generator) gen(s *schema.Schema) any {
	if s != nil && s.Nullable && randBool(g.rand) {
		return nil
	}
	g.depth++
	defer func() { g.depth-- }()
	return schema.Visit[any](s, (*formVisitor)(g))
}

// shrinking reports whether optional structure should be left out.
func (g *Generator) shrinking() bool { return g.depth > g.maxDepth }

func (g *Generator) length() int {
	if g.shrinking() {
		return 0
	}
	return randBetween(g.rand, 0, maxLen)
}

func (g *Generator) str() string {
	n := randBetween(g.rand, 0, maxLen)
	b := make([]byte, n)
	for i := range b {
		// printable ASCII, 32..126
		b[i] = byte(randBetween(g.rand, 32, 126))
	}
	return string(b)
}

// anyValue samples the fixed repertoire used for the empty form.
func (g *Generator) anyValue() any {
	switch g.rand.IntN(5) {
	case 0:
		return nil
	case 1:
		return randBool(g.rand)
	case 2:
		return randUint8(g.rand)
	case 3:
		return randFloat64(g.rand)
	default:
		return g.str()
	}
}

// formVisitor keeps the per-form cases off Generator's exported method set.
type formVisitor Generator

var _ schema.Visitor[any] = (*formVisitor)(nil)

func (v *formVisitor) g() *Generator { return (*Generator)(v) }

func (v *formVisitor) Empty(*schema.Schema) any { return v.g().anyValue() }

func (v *formVisitor) Ref(_ *schema.Schema, f *schema.RefForm) any {
	if f.Schema == nil {
		panic(&schema.FormError{Kind: schema.FormRef, Detail: "unresolved ref " + f.Name})
	}
	g := v.g()
	if limit := g.maxDepth * hardDepthFactor; g.refs >= limit {
		panic(&depthError{limit: limit})
	}
	g.refs++
	defer func() { g.refs-- }()
	return g.gen(f.Schema)
}

func (v *formVisitor) Type(_ *schema.Schema, f *schema.TypeForm) any {
	r := v.rand
	switch f.Type {
	case schema.TypeBoolean:
		return randBool(r)
	case schema.TypeInt8:
		return randInt8(r)
	case schema.TypeUint8:
		return randUint8(r)
	case schema.TypeInt16:
		return randInt16(r)
	case schema.TypeUint16:
		return randUint16(r)
	case schema.TypeInt32:
		return randInt32(r)
	case schema.TypeUint32:
		return randUint32(r)
	case schema.TypeFloat32:
		return randFloat32(r)
	case schema.TypeFloat64:
		return randFloat64(r)
	case schema.TypeString:
		return v.g().str()
	case schema.TypeTimestamp:
		return codec.TimestampFromUnix(int64(randInt32(r)))
	}
	panic(&schema.FormError{Kind: schema.FormType, Detail: "unknown type " + string(f.Type)})
}

func (v *formVisitor) Enum(_ *schema.Schema, f *schema.EnumForm) any {
	if len(f.Values) == 0 {
		panic(&schema.FormError{Kind: schema.FormEnum, Detail: "empty enum"})
	}
	return choose(v.rand, f.Values)
}

func (v *formVisitor) Elements(_ *schema.Schema, f *schema.ElementsForm) any {
	g := v.g()
	out := make([]any, g.length())
	for i := range out {
		out[i] = g.gen(f.Schema)
	}
	return out
}

func (v *formVisitor) Properties(_ *schema.Schema, f *schema.PropertiesForm) any {
	g := v.g()
	out := map[string]any{}
	for _, k := range f.RequiredKeys() {
		out[k] = g.gen(f.Required[k])
	}
	for _, k := range f.OptionalKeys() {
		if g.shrinking() {
			break
		}
		if randBool(g.rand) {
			out[k] = g.gen(f.Optional[k])
		}
	}
	if f.Additional {
		for i, n := 0, g.length(); i < n; i++ {
			out[g.str()] = g.anyValue()
		}
	}
	return out
}

func (v *formVisitor) Values(_ *schema.Schema, f *schema.ValuesForm) any {
	g := v.g()
	out := map[string]any{}
	for i, n := 0, g.length(); i < n; i++ {
		k := g.str()
		out[k] = g.gen(f.Schema)
	}
	return out
}

func (v *formVisitor) Discriminator(_ *schema.Schema, f *schema.DiscriminatorForm) any {
	g := v.g()
	tags := f.Tags()
	if len(tags) == 0 {
		panic(&schema.FormError{Kind: schema.FormDiscriminator, Detail: "empty mapping"})
	}
	tag := choose(g.rand, tags)
	obj, ok := g.gen(f.Mapping[tag]).(map[string]any)
	if !ok {
		panic(&schema.FormError{Kind: schema.FormDiscriminator, Detail: fmt.Sprintf("mapping %q did not produce an object", tag)})
	}
	obj[f.Tag] = tag
	return obj
}
