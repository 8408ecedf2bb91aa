// File: internal/css/selector/types.go
package selector

import (
	"strings"
)

// Kind is the closed set of simple selector kinds.
type Kind int

const (
	KindType Kind = iota
	KindClass
	KindID
	KindUniversal
	KindPseudoClass
	KindPseudoElement
	KindAttribute
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindClass:
		return "class"
	case KindID:
		return "id"
	case KindUniversal:
		return "universal"
	case KindPseudoClass:
		return "pseudo-class"
	case KindPseudoElement:
		return "pseudo-element"
	case KindAttribute:
		return "attribute"
	}
	return "unknown"
}

// AttrOp is the comparison used by an attribute selector.
type AttrOp string

const (
	AttrExists    AttrOp = ""
	AttrEquals    AttrOp = "="
	AttrIncludes  AttrOp = "~="
	AttrDashMatch AttrOp = "|="
	AttrPrefix    AttrOp = "^="
	AttrSuffix    AttrOp = "$="
	AttrSubstring AttrOp = "*="
)

// Simple is one atomic test against an element.
type Simple struct {
	Kind Kind
	Name string
	// Arg is the attribute value, or the argument of a functional
	// pseudo-class such as :not(.hidden).
	Arg    string
	Op     AttrOp
	HasArg bool
}

func (s Simple) String() string {
	switch s.Kind {
	case KindType:
		return s.Name
	case KindClass:
		return "." + s.Name
	case KindID:
		return "#" + s.Name
	case KindUniversal:
		return "*"
	case KindPseudoClass:
		if s.HasArg {
			return ":" + s.Name + "(" + s.Arg + ")"
		}
		return ":" + s.Name
	case KindPseudoElement:
		return "::" + s.Name
	case KindAttribute:
		if s.Op == AttrExists {
			return "[" + s.Name + "]"
		}
		return "[" + s.Name + string(s.Op) + `"` + s.Arg + `"]`
	}
	return ""
}

// Compound is an ordered conjunction of simple selectors.
type Compound []Simple

func (c Compound) String() string {
	if len(c) == 0 {
		return "*"
	}
	var b strings.Builder
	for _, s := range c {
		b.WriteString(s.String())
	}
	return b.String()
}

// Combinator relates two compounds in a complex selector.
type Combinator int

const (
	Descendant Combinator = iota
	Child
	Adjacent
	GeneralSibling
)

func (c Combinator) String() string {
	switch c {
	case Child:
		return " > "
	case Adjacent:
		return " + "
	case GeneralSibling:
		return " ~ "
	}
	return " "
}

// Complex is a chain of compounds. Combinators[i] joins Parts[i] and
// Parts[i+1], so len(Combinators) == len(Parts)-1.
type Complex struct {
	Parts       []Compound
	Combinators []Combinator
}

func (c Complex) String() string {
	var b strings.Builder
	for i, p := range c.Parts {
		if i > 0 {
			b.WriteString(c.Combinators[i-1].String())
		}
		b.WriteString(p.String())
	}
	return b.String()
}

// Subject is the rightmost compound, the one tested against the element
// itself.
func (c Complex) Subject() Compound {
	if len(c.Parts) == 0 {
		return nil
	}
	return c.Parts[len(c.Parts)-1]
}

// List is a comma separated selector group; it matches when any member does.
type List []Complex

func (l List) String() string {
	parts := make([]string, len(l))
	for i, c := range l {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
