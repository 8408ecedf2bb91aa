// File: internal/css/style/engine.go
package style

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/termstyle/internal/css/parser"
	"github.com/xkilldash9x/termstyle/internal/css/selector"
	"github.com/xkilldash9x/termstyle/internal/dom"
)

// Entry is the resolved value of one property.
type Entry struct {
	Values    []string
	Important bool
}

// Value joins the components back into a single string.
func (e Entry) Value() string {
	return strings.Join(e.Values, " ")
}

// Resolved maps property names to their winning values for one element.
type Resolved map[string]Entry

// Get returns the joined value of prop, or "" when it is not set.
func (r Resolved) Get(prop string) string {
	return r[prop].Value()
}

// MatchedRule is a rule whose selector matched an element.
type MatchedRule struct {
	Rule        *parser.Rule
	Specificity selector.Specificity
	// Media is the @media block the rule came from, or nil for top-level rules.
	Media *parser.MediaBlock
}

// Engine resolves computed styles for elements of a tree against one
// stylesheet. It keeps no per-call state and is safe for concurrent use.
type Engine struct {
	logger      *zap.Logger
	sheet       *parser.Stylesheet
	maxVarDepth int
	inheritable map[string]struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l.Named("style-engine")
		}
	}
}

// WithMaxVariableDepth bounds var() indirection; values below 1 are ignored.
func WithMaxVariableDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxVarDepth = n
		}
	}
}

// WithInheritable adds properties to the inherited set.
func WithInheritable(props ...string) Option {
	return func(e *Engine) {
		for _, p := range props {
			e.inheritable[p] = struct{}{}
		}
	}
}

// NewEngine creates an engine for sheet. A nil sheet behaves as empty.
func NewEngine(sheet *parser.Stylesheet, opts ...Option) *Engine {
	if sheet == nil {
		sheet = &parser.Stylesheet{Variables: parser.Scope{}}
	}
	e := &Engine{
		logger:      zap.NewNop(),
		sheet:       sheet,
		maxVarDepth: DefaultMaxVariableDepth,
		inheritable: defaultInheritable(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stylesheet returns the sheet the engine resolves against.
func (e *Engine) Stylesheet() *parser.Stylesheet { return e.sheet }

// IsInheritable reports whether prop passes from parent to child.
func (e *Engine) IsInheritable(prop string) bool {
	_, ok := e.inheritable[prop]
	return ok
}

// GetMatchingRules returns the rules matching the element, including rules
// of satisfied @media blocks, in ascending cascade order.
func (e *Engine) GetMatchingRules(t *dom.Tree, id dom.ID, m Media, ctx selector.Context) []MatchedRule {
	var out []MatchedRule
	collect := func(rules []parser.Rule, block *parser.MediaBlock) {
		for i := range rules {
			r := &rules[i]
			if ok, sp := r.Selector.Match(t, id, ctx); ok {
				out = append(out, MatchedRule{Rule: r, Specificity: sp, Media: block})
			}
		}
	}

	collect(e.sheet.Rules, nil)
	for i := range e.sheet.Media {
		block := &e.sheet.Media[i]
		if m.Matches(block.Query) {
			collect(block.Rules, block)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Specificity != b.Specificity {
			return a.Specificity.Less(b.Specificity)
		}
		return firstOrder(a.Rule) < firstOrder(b.Rule)
	})
	return out
}

func firstOrder(r *parser.Rule) int {
	if len(r.Declarations) == 0 {
		return 0
	}
	return r.Declarations[0].Order
}

type candidate struct {
	decl parser.Declaration
	spec selector.Specificity
}

// ResolveStyles computes the style of one element. inherited is the parent's
// resolved style (nil for a root); only inheritable properties carry over,
// and never as important.
func (e *Engine) ResolveStyles(t *dom.Tree, id dom.ID, inherited Resolved, m Media, ctx selector.Context) Resolved {
	out := make(Resolved)
	for prop, entry := range inherited {
		if e.IsInheritable(prop) {
			out[prop] = Entry{Values: entry.Values}
		}
	}

	var cands []candidate
	for _, mr := range e.GetMatchingRules(t, id, m, ctx) {
		for _, d := range mr.Rule.Declarations {
			cands = append(cands, candidate{decl: d, spec: mr.Specificity})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.spec != b.spec {
			return a.spec.Less(b.spec)
		}
		return a.decl.Order < b.decl.Order
	})

	var scope parser.Scope
	for _, c := range cands {
		prop := c.decl.Property
		if cur, ok := out[prop]; ok && cur.Important && !c.decl.Important {
			continue
		}

		value := c.decl.Value
		if strings.Contains(value, "var(") {
			if scope == nil {
				scope = e.Scope(m)
			}
			value = e.substitute(value, scope)
		}

		if strings.EqualFold(value, "inherit") {
			parent, ok := inherited[prop]
			if !ok {
				delete(out, prop)
				continue
			}
			out[prop] = Entry{Values: parent.Values, Important: c.decl.Important}
			continue
		}
		out[prop] = Entry{Values: parser.SplitValues(value), Important: c.decl.Important}
	}
	return out
}

// ResolveTree resolves every element in document order, feeding each
// parent's result to its children. The result is indexed by dom.ID.
func (e *Engine) ResolveTree(t *dom.Tree, m Media, ctx selector.Context) []Resolved {
	out := make([]Resolved, t.Len())
	t.Walk(func(id dom.ID, el *dom.Element) bool {
		var parent Resolved
		if el.Parent != dom.NoID {
			parent = out[el.Parent]
		}
		out[id] = e.ResolveStyles(t, id, parent, m, ctx)
		return true
	})
	e.logger.Debug("Resolved styles for tree.",
		zap.Int("elements", t.Len()),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
		zap.String("stylesheet", e.sheet.Version.String()),
	)
	return out
}
