// File: internal/css/selector/matcher.go
package selector

import (
	"strings"

	"github.com/xkilldash9x/termstyle/internal/dom"
)

// Context carries the state a selector needs beyond the element itself.
type Context struct {
	// Focused is the element holding input focus, or dom.NoID.
	Focused dom.ID
	// PseudoElement names the generated box being styled (e.g. "before").
	// Empty means the element itself, which no ::pseudo-element matches.
	PseudoElement string
}

// NewContext returns a context with nothing focused.
func NewContext() Context {
	return Context{Focused: dom.NoID}
}

// Match reports whether any member of the list matches the element, and the
// highest specificity among the matching members.
func (l List) Match(t *dom.Tree, id dom.ID, ctx Context) (bool, Specificity) {
	var (
		matched bool
		best    Specificity
	)
	for _, c := range l {
		if !Matches(t, id, c, ctx) {
			continue
		}
		sp := c.Specificity()
		if !matched || best.Less(sp) {
			best = sp
		}
		matched = true
	}
	return matched, best
}

// Matches evaluates a complex selector right to left: the subject compound
// against the element, then each combinator walks towards ancestors or
// earlier siblings.
func Matches(t *dom.Tree, id dom.ID, sel Complex, ctx Context) bool {
	if len(sel.Parts) == 0 || t.Get(id) == nil {
		return false
	}
	return matchFrom(t, id, sel, len(sel.Parts)-1, ctx)
}

func matchFrom(t *dom.Tree, id dom.ID, sel Complex, idx int, ctx Context) bool {
	if !matchCompound(t, id, sel.Parts[idx], ctx, idx == len(sel.Parts)-1) {
		return false
	}
	if idx == 0 {
		return true
	}

	el := t.Get(id)
	switch sel.Combinators[idx-1] {
	case Descendant:
		for anc := el.Parent; anc != dom.NoID; anc = t.Get(anc).Parent {
			if matchFrom(t, anc, sel, idx-1, ctx) {
				return true
			}
		}
	case Child:
		if el.Parent != dom.NoID {
			return matchFrom(t, el.Parent, sel, idx-1, ctx)
		}
	case Adjacent:
		if el.PrevSibling != dom.NoID {
			return matchFrom(t, el.PrevSibling, sel, idx-1, ctx)
		}
	case GeneralSibling:
		for sib := el.PrevSibling; sib != dom.NoID; sib = t.Get(sib).PrevSibling {
			if matchFrom(t, sib, sel, idx-1, ctx) {
				return true
			}
		}
	}
	return false
}

func matchCompound(t *dom.Tree, id dom.ID, c Compound, ctx Context, subject bool) bool {
	hasPseudoElement := false
	for _, s := range c {
		if s.Kind == KindPseudoElement {
			hasPseudoElement = true
		}
		if !matchSimple(t, id, s, ctx) {
			return false
		}
	}
	// A generated box is only styled by selectors whose subject names it.
	if subject && ctx.PseudoElement != "" && !hasPseudoElement {
		return false
	}
	return true
}

func matchSimple(t *dom.Tree, id dom.ID, s Simple, ctx Context) bool {
	el := t.Get(id)
	switch s.Kind {
	case KindUniversal:
		return true
	case KindType:
		return el.Type == s.Name
	case KindID:
		return el.Identifier == s.Name
	case KindClass:
		return el.HasClass(s.Name)
	case KindAttribute:
		return matchAttribute(el, s)
	case KindPseudoElement:
		return ctx.PseudoElement == s.Name
	case KindPseudoClass:
		return matchPseudoClass(t, id, s, ctx)
	}
	return false
}

func matchAttribute(el *dom.Element, s Simple) bool {
	val, ok := el.Attr(s.Name)
	if !ok {
		return false
	}
	switch s.Op {
	case AttrExists:
		return true
	case AttrEquals:
		return val == s.Arg
	case AttrIncludes:
		for _, f := range strings.Fields(val) {
			if f == s.Arg {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return val == s.Arg || strings.HasPrefix(val, s.Arg+"-")
	case AttrPrefix:
		return s.Arg != "" && strings.HasPrefix(val, s.Arg)
	case AttrSuffix:
		return s.Arg != "" && strings.HasSuffix(val, s.Arg)
	case AttrSubstring:
		return s.Arg != "" && strings.Contains(val, s.Arg)
	}
	return false
}

func flagSet(el *dom.Element, name string) bool {
	if el.HasPseudo(name) {
		return true
	}
	v, ok := el.Attrs[name]
	return ok && v != "false"
}

func matchPseudoClass(t *dom.Tree, id dom.ID, s Simple, ctx Context) bool {
	el := t.Get(id)
	switch s.Name {
	case "root":
		return el.Parent == dom.NoID
	case "first-child":
		return el.PrevSibling == dom.NoID
	case "last-child":
		return el.NextSibling == dom.NoID
	case "only-child":
		return el.PrevSibling == dom.NoID && el.NextSibling == dom.NoID
	case "empty":
		return el.FirstChild == dom.NoID && el.Text == ""
	case "not-empty":
		return el.FirstChild != dom.NoID || el.Text != ""
	case "focus":
		return (ctx.Focused != dom.NoID && ctx.Focused == id) || el.HasPseudo("focus")
	case "disabled":
		return flagSet(el, "disabled")
	case "enabled":
		return !flagSet(el, "disabled")
	case "checked":
		return flagSet(el, "checked")
	case "not":
		// Only class exclusion is supported: :not(.name).
		return !el.HasClass(strings.TrimPrefix(s.Arg, "."))
	}
	return el.HasPseudo(s.Name)
}
