// File: internal/css/parser/types.go
package parser

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/xkilldash9x/termstyle/internal/css/selector"
)

// Declaration is a single `property: value` pair. Value is the raw text with
// any !important marker removed; variable references are left in place and
// substituted at resolution time.
type Declaration struct {
	Property  string
	Value     string
	Important bool
	// Order is the declaration's position in the stylesheet. It is strictly
	// increasing in source order across all rules and media blocks.
	Order int
}

// Rule binds a selector list to its declarations.
type Rule struct {
	Selector     selector.List
	Raw          string
	Declarations []Declaration
}

// Scope maps variable names (including the leading "--") to raw values.
type Scope map[string]string

// Clone returns an independent copy of the scope.
func (s Scope) Clone() Scope {
	out := make(Scope, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// MediaFeature is one `(name: value)` test of a media query. Boolean
// features such as `(true-color)` have an empty Value.
type MediaFeature struct {
	Name  string
	Value string
}

// MediaQuery is a conjunction of features.
type MediaQuery struct {
	Raw      string
	Features []MediaFeature
}

// MediaBlock groups the rules and variable redefinitions that apply only
// while its query is satisfied.
type MediaBlock struct {
	Query     MediaQuery
	Rules     []Rule
	Variables Scope
}

// Diagnostic describes a recoverable problem found while parsing.
type Diagnostic struct {
	Source  string
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) Error() string {
	if d.Source != "" {
		return fmt.Sprintf("%s:%d:%d: %s", d.Source, d.Line, d.Column, d.Message)
	}
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Stylesheet is the parsed form of one or more style sources. It is
// read-only once returned by the parser.
type Stylesheet struct {
	Rules     []Rule
	Media     []MediaBlock
	Variables Scope
	// Imports lists @import targets in source order. They are recorded,
	// never fetched.
	Imports     []string
	Diagnostics []Diagnostic
	// Version changes every time a stylesheet is produced, so callers can
	// key caches on (tree shape, Version).
	Version uuid.UUID
}

// Err combines all diagnostics into one error, or nil when there are none.
func (s *Stylesheet) Err() error {
	var err error
	for _, d := range s.Diagnostics {
		err = multierr.Append(err, d)
	}
	return err
}

// DeclarationCount is the number of declarations across all rules.
func (s *Stylesheet) DeclarationCount() int {
	n := 0
	for _, r := range s.Rules {
		n += len(r.Declarations)
	}
	for _, m := range s.Media {
		for _, r := range m.Rules {
			n += len(r.Declarations)
		}
	}
	return n
}

// Merge concatenates stylesheets in the given order into a new stylesheet.
// Declaration orders are shifted so every declaration of a later sheet comes
// after all declarations of the earlier ones; later variable definitions
// replace earlier ones.
func Merge(sheets ...*Stylesheet) *Stylesheet {
	out := &Stylesheet{Variables: Scope{}, Version: uuid.New()}
	offset := 0
	for _, s := range sheets {
		if s == nil {
			continue
		}
		last := 0
		shift := func(rules []Rule) []Rule {
			res := make([]Rule, len(rules))
			for i, r := range rules {
				decls := make([]Declaration, len(r.Declarations))
				for j, d := range r.Declarations {
					if d.Order > last {
						last = d.Order
					}
					d.Order += offset
					decls[j] = d
				}
				r.Declarations = decls
				res[i] = r
			}
			return res
		}

		out.Rules = append(out.Rules, shift(s.Rules)...)
		for _, m := range s.Media {
			m.Rules = shift(m.Rules)
			m.Variables = m.Variables.Clone()
			out.Media = append(out.Media, m)
		}
		for k, v := range s.Variables {
			out.Variables[k] = v
		}
		out.Imports = append(out.Imports, s.Imports...)
		out.Diagnostics = append(out.Diagnostics, s.Diagnostics...)
		offset += last
	}
	return out
}

// SplitValues splits a declaration value into its whitespace separated
// components. Quoted strings and parenthesized groups stay intact.
func SplitValues(v string) []string {
	var (
		out   []string
		buf   strings.Builder
		quote byte
		depth int
	)
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case isWhitespace(c) && depth == 0:
			if buf.Len() > 0 {
				out = append(out, buf.String())
				buf.Reset()
			}
			continue
		}
		buf.WriteByte(c)
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}
