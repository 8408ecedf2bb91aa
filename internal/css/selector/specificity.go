// File: internal/css/selector/specificity.go
package selector

import "fmt"

// Specificity is the (ids, classes, types) weight of a selector, compared
// lexicographically.
type Specificity [3]int

// Less reports whether s sorts before o.
func (s Specificity) Less(o Specificity) bool {
	if s[0] != o[0] {
		return s[0] < o[0]
	}
	if s[1] != o[1] {
		return s[1] < o[1]
	}
	return s[2] < o[2]
}

// Add sums two specificities component-wise.
func (s Specificity) Add(o Specificity) Specificity {
	return Specificity{s[0] + o[0], s[1] + o[1], s[2] + o[2]}
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s[0], s[1], s[2])
}

// Specificity of a simple selector. Universal contributes nothing; classes,
// attributes and pseudo-classes share the middle bucket.
func (s Simple) Specificity() Specificity {
	switch s.Kind {
	case KindID:
		return Specificity{1, 0, 0}
	case KindClass, KindAttribute, KindPseudoClass:
		return Specificity{0, 1, 0}
	case KindType, KindPseudoElement:
		return Specificity{0, 0, 1}
	}
	return Specificity{}
}

func (c Compound) Specificity() Specificity {
	var out Specificity
	for _, s := range c {
		out = out.Add(s.Specificity())
	}
	return out
}

func (c Complex) Specificity() Specificity {
	var out Specificity
	for _, p := range c.Parts {
		out = out.Add(p.Specificity())
	}
	return out
}

// Specificity of a list is the highest of its members, not their sum.
func (l List) Specificity() Specificity {
	var out Specificity
	for _, c := range l {
		if sp := c.Specificity(); out.Less(sp) {
			out = sp
		}
	}
	return out
}
