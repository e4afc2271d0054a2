package schema

import (
	"strconv"
	"strings"
)

// Pointer builds RFC 6901 JSON Pointers one token at a time.
type Pointer []string

// Field appends an object member name.
func (p Pointer) Field(name string) Pointer {
	out := make(Pointer, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Index appends an array index.
func (p Pointer) Index(i int) Pointer { return p.Field(strconv.Itoa(i)) }

// String renders the pointer; the root renders as "/".
func (p Pointer) String() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, part := range p {
		b.WriteByte('/')
		// escape '~' -> '~0', '/' -> '~1'
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(part, "~", "~0"), "/", "~1"))
	}
	return b.String()
}
