// File: internal/css/selector/parser.go
package selector

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Parse turns selector source into a List. It never fails: fragments it
// cannot make sense of degrade to the universal selector and are reported
// in the returned warnings.
func Parse(input string) (List, []string) {
	p := &parser{input: input}
	return p.parseList(), p.warnings
}

// MustParse parses a selector that is known to be well formed. It panics
// when Parse reports any warning.
func MustParse(input string) List {
	l, warnings := Parse(input)
	if len(warnings) > 0 {
		panic(fmt.Sprintf("selector %q: %s", input, strings.Join(warnings, "; ")))
	}
	return l
}

type parser struct {
	input    string
	warnings []string
}

func (p *parser) warnf(format string, args ...interface{}) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func universal() Complex {
	return Complex{Parts: []Compound{{{Kind: KindUniversal}}}}
}

func (p *parser) parseList() List {
	var out List
	for _, member := range splitTopLevel(p.input, ',') {
		if strings.TrimSpace(member) == "" {
			p.warnf("empty selector in list %q; using *", p.input)
			out = append(out, universal())
			continue
		}
		out = append(out, p.parseComplex(member))
	}
	return out
}

// scanState tracks the opaque regions of selector text: quoted strings and
// bracket/paren nesting. Structural characters only count at depth zero.
type scanState struct {
	quote    byte
	brackets int
	parens   int
}

// step advances the state over c and reports whether c sits at top level
// (outside quotes and outside any brackets or parens).
func (s *scanState) step(c byte) bool {
	if s.quote != 0 {
		if c == s.quote {
			s.quote = 0
		}
		return false
	}
	switch c {
	case '"', '\'':
		s.quote = c
		return false
	case '[':
		s.brackets++
		return false
	case ']':
		if s.brackets > 0 {
			s.brackets--
			return false
		}
	case '(':
		s.parens++
		return false
	case ')':
		if s.parens > 0 {
			s.parens--
			return false
		}
	}
	return s.brackets == 0 && s.parens == 0
}

func splitTopLevel(input string, sep byte) []string {
	var parts []string
	var st scanState
	start := 0
	for i := 0; i < len(input); i++ {
		if st.step(input[i]) && input[i] == sep {
			parts = append(parts, input[start:i])
			start = i + 1
		}
	}
	return append(parts, input[start:])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func combinatorFor(c byte) (Combinator, bool) {
	switch c {
	case '>':
		return Child, true
	case '+':
		return Adjacent, true
	case '~':
		return GeneralSibling, true
	}
	return Descendant, false
}

// parseComplex splits one list member into compound tokens and combinators.
// Whitespace around explicit combinators is absorbed, so "a>b", "a > b" and
// "a  >  b" produce the same chain.
func (p *parser) parseComplex(src string) Complex {
	var (
		tokens      []string
		combinators []Combinator
		pending     = Descendant
		explicit    bool
		buf         strings.Builder
		st          scanState
	)

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		if len(tokens) > 0 {
			combinators = append(combinators, pending)
		} else if explicit {
			p.warnf("selector %q starts with a combinator; ignoring it", src)
		}
		tokens = append(tokens, buf.String())
		buf.Reset()
		pending, explicit = Descendant, false
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		top := st.step(c)
		if !top {
			buf.WriteByte(c)
			continue
		}
		if isSpace(c) {
			flush()
			continue
		}
		if comb, ok := combinatorFor(c); ok {
			flush()
			if explicit {
				p.warnf("consecutive combinators in selector %q", src)
			}
			pending, explicit = comb, true
			continue
		}
		buf.WriteByte(c)
	}
	if st.quote != 0 || st.brackets > 0 || st.parens > 0 {
		p.warnf("unbalanced quotes or brackets in selector %q", src)
	}
	flush()
	if explicit {
		p.warnf("selector %q ends with a combinator; ignoring it", src)
	}

	if len(tokens) == 0 {
		p.warnf("no compound selector in %q; using *", src)
		return universal()
	}

	out := Complex{Combinators: combinators}
	for _, tok := range tokens {
		out.Parts = append(out.Parts, p.parseCompound(tok))
	}
	return out
}

// parseCompound decomposes one token in a fixed order: attribute selectors,
// then pseudo-classes and pseudo-elements, then the id, then classes. What is
// left is the type name. The result is stored in display order.
func (p *parser) parseCompound(tok string) Compound {
	rest, attrs, ok := p.extractAttributes(tok)
	if !ok {
		return Compound{{Kind: KindUniversal}}
	}
	rest, pseudos, ok := p.extractPseudos(rest, tok)
	if !ok {
		return Compound{{Kind: KindUniversal}}
	}
	rest, ids := extractPrefixed(rest, '#')
	rest, classes := extractPrefixed(rest, '.')

	var out Compound
	switch {
	case rest == "" || rest == "*":
	case isIdent(rest):
		out = append(out, Simple{Kind: KindType, Name: cases.Fold().String(rest)})
	default:
		p.warnf("unsupported token %q in selector %q; using *", rest, tok)
		return Compound{{Kind: KindUniversal}}
	}
	for _, id := range ids {
		if !isIdent(id) {
			p.warnf("invalid id %q in selector %q; using *", id, tok)
			return Compound{{Kind: KindUniversal}}
		}
		out = append(out, Simple{Kind: KindID, Name: id})
	}
	for _, cls := range classes {
		if !isIdent(cls) {
			p.warnf("invalid class %q in selector %q; using *", cls, tok)
			return Compound{{Kind: KindUniversal}}
		}
		out = append(out, Simple{Kind: KindClass, Name: cls})
	}
	out = append(out, attrs...)
	out = append(out, pseudos...)

	if len(out) == 0 {
		out = Compound{{Kind: KindUniversal}}
	}
	return out
}

// extractAttributes pulls every [...] span out of tok.
func (p *parser) extractAttributes(tok string) (string, []Simple, bool) {
	var (
		rest  strings.Builder
		attrs []Simple
	)
	for i := 0; i < len(tok); i++ {
		if tok[i] != '[' {
			rest.WriteByte(tok[i])
			continue
		}
		end := closingIndex(tok, i, '[', ']')
		if end < 0 {
			p.warnf("unterminated attribute selector in %q; using *", tok)
			return "", nil, false
		}
		attr, ok := parseAttribute(tok[i+1 : end])
		if !ok {
			p.warnf("malformed attribute selector %q; using *", tok[i:end+1])
			return "", nil, false
		}
		attrs = append(attrs, attr)
		i = end
	}
	return rest.String(), attrs, true
}

// closingIndex finds the byte that closes the open delimiter at tok[start],
// skipping quoted strings and nested pairs.
func closingIndex(tok string, start int, open, close byte) int {
	depth := 0
	var quote byte
	for i := start; i < len(tok); i++ {
		c := tok[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseAttribute(body string) (Simple, bool) {
	body = strings.TrimSpace(body)
	opAt := strings.IndexAny(body, "=~|^$*")
	if opAt < 0 {
		if !isIdent(body) {
			return Simple{}, false
		}
		return Simple{Kind: KindAttribute, Name: body, Op: AttrExists}, true
	}

	name := strings.TrimSpace(body[:opAt])
	var op AttrOp
	if body[opAt] == '=' {
		op = AttrEquals
	} else if opAt+1 < len(body) && body[opAt+1] == '=' {
		op = AttrOp(body[opAt : opAt+2])
	} else {
		return Simple{}, false
	}
	if !isIdent(name) {
		return Simple{}, false
	}

	value := strings.TrimSpace(body[opAt+len(op):])
	// Drop a trailing case-sensitivity flag such as `i` or `s`.
	if n := len(value); n > 2 && isSpace(value[n-2]) && (value[n-1] == 'i' || value[n-1] == 's') &&
		(value[0] == '"' || value[0] == '\'') {
		value = strings.TrimSpace(value[:n-2])
	}
	if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '\'') && value[n-1] == value[0] {
		value = value[1 : n-1]
	}
	return Simple{Kind: KindAttribute, Name: name, Op: op, Arg: value, HasArg: true}, true
}

// extractPseudos removes every :name, :name(arg) and ::name from s.
func (p *parser) extractPseudos(s, tok string) (string, []Simple, bool) {
	var (
		rest    strings.Builder
		pseudos []Simple
	)
	for i := 0; i < len(s); {
		if s[i] != ':' {
			rest.WriteByte(s[i])
			i++
			continue
		}
		kind := KindPseudoClass
		i++
		if i < len(s) && s[i] == ':' {
			kind = KindPseudoElement
			i++
		}
		start := i
		for i < len(s) && isIdentChar(s[i]) {
			i++
		}
		name := strings.ToLower(s[start:i])
		if name == "" {
			p.warnf("empty pseudo selector in %q; using *", tok)
			return "", nil, false
		}
		simple := Simple{Kind: kind, Name: name}
		if i < len(s) && s[i] == '(' {
			end := closingIndex(s, i, '(', ')')
			if end < 0 {
				p.warnf("unterminated pseudo-class argument in %q; using *", tok)
				return "", nil, false
			}
			simple.Arg = strings.TrimSpace(s[i+1 : end])
			simple.HasArg = true
			i = end + 1
		}
		pseudos = append(pseudos, simple)
	}
	return rest.String(), pseudos, true
}

// extractPrefixed removes every prefix-led name (#id or .class) from s and
// returns what remains before the first prefix plus the extracted names.
func extractPrefixed(s string, prefix byte) (string, []string) {
	var (
		rest  strings.Builder
		names []string
	)
	for i := 0; i < len(s); {
		if s[i] != prefix {
			rest.WriteByte(s[i])
			i++
			continue
		}
		i++
		start := i
		for i < len(s) && s[i] != '#' && s[i] != '.' {
			i++
		}
		names = append(names, s[start:i])
	}
	return rest.String(), names
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return !(s[0] >= '0' && s[0] <= '9')
}
