package schema

import (
	"errors"
	"fmt"
)

// Visitor handles one case per form. Adding a form to this package adds a
// method here, so every implementation stops compiling until it handles it.
type Visitor[R any] interface {
	Empty(s *Schema) R
	Ref(s *Schema, f *RefForm) R
	Type(s *Schema, f *TypeForm) R
	Enum(s *Schema, f *EnumForm) R
	Elements(s *Schema, f *ElementsForm) R
	Properties(s *Schema, f *PropertiesForm) R
	Values(s *Schema, f *ValuesForm) R
	Discriminator(s *Schema, f *DiscriminatorForm) R
}

// ErrUnsupportedForm is wrapped by FormError.
var ErrUnsupportedForm = errors.New("schema: unsupported form")

// FormError reports a node whose form cannot be handled. It signals a tree
// that did not come out of Compile (or a consumer out of sync with this
// package) and is raised as a panic by Visit.
type FormError struct {
	Kind   FormKind
	Detail string
}

func (e *FormError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %s", ErrUnsupportedForm, e.Kind)
	}
	return fmt.Sprintf("%v: %s: %s", ErrUnsupportedForm, e.Kind, e.Detail)
}

func (e *FormError) Unwrap() error { return ErrUnsupportedForm }

// Visit dispatches s to the Visitor method matching its form. A nil schema or
// form panics with *FormError.
func Visit[R any](s *Schema, v Visitor[R]) R {
	if s == nil {
		panic(&FormError{Kind: -1, Detail: "nil schema"})
	}
	switch f := s.Form.(type) {
	case *EmptyForm:
		return v.Empty(s)
	case *RefForm:
		return v.Ref(s, f)
	case *TypeForm:
		return v.Type(s, f)
	case *EnumForm:
		return v.Enum(s, f)
	case *ElementsForm:
		return v.Elements(s, f)
	case *PropertiesForm:
		return v.Properties(s, f)
	case *ValuesForm:
		return v.Values(s, f)
	case *DiscriminatorForm:
		return v.Discriminator(s, f)
	}
	panic(&FormError{Kind: -1, Detail: fmt.Sprintf("form %T", s.Form)})
}
