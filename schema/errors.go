package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jddf/jddf-fuzz/i18n"
)

// Issue codes.
const (
	CodeParseError            = "parse_error"
	CodeDuplicateKey          = "duplicate_key"
	CodeInvalidType           = "invalid_type"
	CodeUnknownKey            = "unknown_key"
	CodeInvalidForm           = "invalid_form"
	CodeInvalidEnum           = "invalid_enum"
	CodeOverlappingProperties = "overlapping_properties"
	CodeInvalidDiscriminator  = "invalid_discriminator"
	CodeUnresolvedRef         = "unresolved_ref"
	CodeInvalidDefinitions    = "invalid_definitions"
	// Instance validation.
	CodeRequired             = "required"
	CodeOutOfRange           = "out_of_range"
	CodeInvalidFormat        = "invalid_format"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
)

// Issue is a single schema or instance error.
type Issue struct {
	Path    string // JSON Pointer (for example: /properties/name/type).
	Code    string // One of the codes listed above.
	Message string
	Cause   error          // Optional: underlying error.
	Params  map[string]any // Optional structured parameters.
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// NewIssue builds an Issue whose message comes from the current i18n
// translator. data is forwarded to the translator and kept as Params.
func NewIssue(p Pointer, code string, data map[string]string) Issue {
	var params map[string]any
	if len(data) > 0 {
		params = make(map[string]any, len(data))
		for k, v := range data {
			params[k] = v
		}
	}
	return Issue{Path: p.String(), Code: code, Message: i18n.T(code, data), Params: params}
}
