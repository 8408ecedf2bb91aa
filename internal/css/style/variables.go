// File: internal/css/style/variables.go
package style

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/termstyle/internal/css/parser"
)

// DefaultMaxVariableDepth bounds how many var() indirections are followed
// while resolving a single value.
const DefaultMaxVariableDepth = 32

// MaxVariableExpansions bounds the total number of var() references expanded
// while resolving a single value, however wide the references fan out.
const MaxVariableExpansions = 4096

// Scope returns the variables in effect for m: the global scope overlaid by
// the variables of every satisfied @media block, in source order.
func (e *Engine) Scope(m Media) parser.Scope {
	scope := e.sheet.Variables.Clone()
	for _, block := range e.sheet.Media {
		if !m.Matches(block.Query) {
			continue
		}
		for k, v := range block.Variables {
			scope[k] = v
		}
	}
	return scope
}

// Substitute replaces var(--name) and var(--name, fallback) references in v
// using scope. References to undefined variables without a fallback are left
// as written, as are references that would re-enter a variable already being
// expanded or that go past the depth or expansion limits.
func (e *Engine) Substitute(v string, scope parser.Scope) string {
	return e.substitute(v, scope)
}

func (e *Engine) substitute(v string, scope parser.Scope) string {
	if !strings.Contains(v, "var(") {
		return v
	}
	r := &varResolver{e: e, scope: scope, budget: MaxVariableExpansions}
	return r.substitute(v)
}

// varResolver carries the state shared by every expansion of one value.
type varResolver struct {
	e      *Engine
	scope  parser.Scope
	active []string
	depth  int
	budget int
	spent  bool
}

func (r *varResolver) substitute(v string) string {
	if !strings.Contains(v, "var(") {
		return v
	}
	var b strings.Builder
	i := 0
	for {
		j := indexVarCall(v, i)
		if j < 0 {
			b.WriteString(v[i:])
			break
		}
		b.WriteString(v[i:j])
		end := closingParen(v, j+3)
		if end < 0 {
			b.WriteString(v[j:])
			break
		}
		b.WriteString(r.expand(v[j:end+1], v[j+4:end]))
		i = end + 1
	}
	return b.String()
}

func (r *varResolver) expand(ref, body string) string {
	if r.depth >= r.e.maxVarDepth {
		r.e.logger.Warn("Variable resolution depth exceeded; leaving reference unresolved.",
			zap.String("reference", ref),
			zap.Int("max_depth", r.e.maxVarDepth),
		)
		return ref
	}
	if r.budget <= 0 {
		if !r.spent {
			r.spent = true
			r.e.logger.Warn("Variable expansion limit reached; leaving references unresolved.",
				zap.String("reference", ref),
				zap.Int("max_expansions", MaxVariableExpansions),
			)
		}
		return ref
	}
	r.budget--

	name, fallback, hasFallback := cutTopLevel(body, ',')
	name = strings.TrimSpace(name)
	if val, ok := r.scope[name]; ok {
		if slices.Contains(r.active, name) {
			r.e.logger.Warn("Variable reference cycle; leaving reference unresolved.",
				zap.String("reference", ref),
				zap.Strings("chain", slices.Clone(r.active)),
			)
			return ref
		}
		r.active = append(r.active, name)
		r.depth++
		out := r.substitute(val)
		r.depth--
		r.active = r.active[:len(r.active)-1]
		return out
	}
	if hasFallback {
		r.depth++
		out := r.substitute(strings.TrimSpace(fallback))
		r.depth--
		return out
	}
	return ref
}

// indexVarCall finds the next "var(" at or after from that is not the tail of
// a longer identifier.
func indexVarCall(v string, from int) int {
	for from < len(v) {
		j := strings.Index(v[from:], "var(")
		if j < 0 {
			return -1
		}
		j += from
		if j == 0 || !isIdentByte(v[j-1]) {
			return j
		}
		from = j + 4
	}
	return -1
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// closingParen returns the index of the ')' balancing the '(' at open.
func closingParen(v string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(v); i++ {
		c := v[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// cutTopLevel splits s at the first sep outside parens and quotes.
func cutTopLevel(s string, sep byte) (before, after string, found bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}
