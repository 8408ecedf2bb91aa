// File: internal/css/parser/parser.go
package parser

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/termstyle/internal/css/selector"
)

// Parser is a hand-written scanner for terminal stylesheets. It understands
// rules, top-level and :root variables, @media blocks and @import, and it
// recovers from malformed input by recording a diagnostic and skipping to the
// next statement. A Parser is not safe for concurrent use; create one per
// goroutine.
type Parser struct {
	logger *zap.Logger

	input  string
	source string
	pos    int
	order  int
	sheet  *Stylesheet
}

// New creates a parser. A nil logger disables logging.
func New(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger.Named("css-parser")}
}

// Parse parses src into a new Stylesheet.
func (p *Parser) Parse(src string) *Stylesheet {
	return p.ParseSource("", src)
}

// ParseSource parses src, attributing diagnostics to the named source.
func (p *Parser) ParseSource(name, src string) *Stylesheet {
	p.input = src
	p.source = name
	p.pos = 0
	p.order = 0
	p.sheet = &Stylesheet{Variables: Scope{}, Version: uuid.New()}

	p.parseStatements(&p.sheet.Rules, p.sheet.Variables, false)

	sheet := p.sheet
	p.sheet = nil
	p.logger.Debug("Stylesheet parsed.",
		zap.String("source", name),
		zap.Int("rules", len(sheet.Rules)),
		zap.Int("media_blocks", len(sheet.Media)),
		zap.Int("variables", len(sheet.Variables)),
		zap.Int("diagnostics", len(sheet.Diagnostics)),
	)
	return sheet
}

func (p *Parser) diagnose(at int, format string, args ...interface{}) {
	line, col := p.position(at)
	d := Diagnostic{Source: p.source, Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
	p.sheet.Diagnostics = append(p.sheet.Diagnostics, d)
	p.logger.Debug("Stylesheet diagnostic.",
		zap.String("source", d.Source),
		zap.Int("line", d.Line),
		zap.Int("column", d.Column),
		zap.String("message", d.Message),
	)
}

// position converts a byte offset into a 1-based line and column.
func (p *Parser) position(at int) (int, int) {
	if at > len(p.input) {
		at = len(p.input)
	}
	line, col := 1, 1
	for i := 0; i < at; i++ {
		if p.input[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// parseStatements reads rules, variables and at-rules until EOF, or until the
// closing brace of the enclosing block when nested.
func (p *Parser) parseStatements(rules *[]Rule, vars Scope, nested bool) {
	for {
		p.skipTrivia()
		if p.eof() {
			if nested {
				p.diagnose(p.pos, "unterminated @media block")
			}
			return
		}

		switch ch := p.currentChar(); {
		case ch == '}':
			p.consumeChar()
			if nested {
				return
			}
			p.diagnose(p.pos-1, "unexpected '}'")
		case ch == ';':
			p.consumeChar()
		case ch == '@':
			p.parseAtRule(nested)
		case p.startsWith("--"):
			p.parseVariable(vars)
		default:
			if r, ok := p.parseRule(vars); ok {
				*rules = append(*rules, r)
			}
		}
	}
}

func (p *Parser) parseAtRule(nested bool) {
	start := p.pos
	p.consumeChar() // '@'
	name := strings.ToLower(p.parseIdentifier())

	switch name {
	case "import":
		p.consumeWhitespace()
		target := p.parseValue()
		p.consumeIf(';')
		if t := importTarget(target); t != "" {
			p.sheet.Imports = append(p.sheet.Imports, t)
		} else {
			p.diagnose(start, "@import without a target")
		}
	case "media":
		if nested {
			p.diagnose(start, "nested @media is not supported")
			p.pos = start
			p.skipAtRule()
			return
		}
		preludeStart := p.pos
		p.skipTo('{', ';', '}')
		prelude := strings.TrimSpace(p.input[preludeStart:p.pos])
		if p.eof() || p.currentChar() != '{' {
			p.diagnose(start, "@media without a block")
			p.consumeIf(';')
			return
		}
		p.consumeChar() // '{'
		block := MediaBlock{Query: p.parseMediaQuery(prelude, preludeStart), Variables: Scope{}}
		p.parseStatements(&block.Rules, block.Variables, true)
		p.sheet.Media = append(p.sheet.Media, block)
	default:
		p.diagnose(start, "unsupported at-rule @%s skipped", name)
		p.pos = start
		p.skipAtRule()
	}
}

// importTarget extracts the location from `"x"`, `'x'` or `url(x)`.
func importTarget(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(strings.ToLower(v), "url(") {
		if end := strings.IndexByte(v, ')'); end > 0 {
			v = strings.TrimSpace(v[4:end])
		}
	} else if fields := SplitValues(v); len(fields) > 0 {
		v = fields[0]
	}
	return unquote(v)
}

func unquote(v string) string {
	if n := len(v); n >= 2 && (v[0] == '"' || v[0] == '\'') && v[n-1] == v[0] {
		return v[1 : n-1]
	}
	return v
}

// parseMediaQuery reads `(feature: value) and (feature)` preludes. Media
// types and the `and`/`only` keywords are accepted and ignored.
func (p *Parser) parseMediaQuery(prelude string, at int) MediaQuery {
	q := MediaQuery{Raw: prelude}
	for i := 0; i < len(prelude); {
		c := prelude[i]
		switch {
		case isWhitespace(c):
			i++
		case c == '(':
			end := strings.IndexByte(prelude[i:], ')')
			if end < 0 {
				p.diagnose(at+i, "unterminated media feature in %q", prelude)
				return q
			}
			body := prelude[i+1 : i+end]
			name, value, _ := strings.Cut(body, ":")
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				p.diagnose(at+i, "empty media feature in %q", prelude)
			} else {
				q.Features = append(q.Features, MediaFeature{Name: name, Value: strings.TrimSpace(value)})
			}
			i += end + 1
		case c == ',':
			p.diagnose(at+i, "media query lists are not supported; treating %q as one query", prelude)
			i++
		default:
			j := i
			for j < len(prelude) && !isWhitespace(prelude[j]) && prelude[j] != '(' && prelude[j] != ',' {
				j++
			}
			switch word := strings.ToLower(prelude[i:j]); word {
			case "and", "only", "all", "screen", "terminal":
			default:
				p.diagnose(at+i, "unsupported media keyword %q", word)
			}
			i = j
		}
	}
	return q
}

// parseVariable reads `--name: value;` into vars.
func (p *Parser) parseVariable(vars Scope) {
	start := p.pos
	name := p.parseIdentifier()
	p.consumeWhitespace()
	if p.eof() || p.currentChar() != ':' {
		p.diagnose(start, "variable %s has no value", name)
		p.skipTo(';', '}')
		p.consumeIf(';')
		return
	}
	p.consumeChar()
	p.consumeWhitespace()
	vars[name] = p.parseValue()
	p.consumeIf(';')
}

func (p *Parser) parseRule(vars Scope) (Rule, bool) {
	start := p.pos
	p.skipTo('{', ';', '}')
	raw := strings.TrimSpace(p.input[start:p.pos])
	if p.eof() || p.currentChar() != '{' {
		p.diagnose(start, "expected '{' after selector %q", raw)
		p.consumeIf(';')
		return Rule{}, false
	}
	p.consumeChar() // '{'
	if raw == "" {
		p.diagnose(start, "declaration block without a selector skipped")
		p.skipBlock('{', '}')
		return Rule{}, false
	}

	sel, warnings := selector.Parse(raw)
	for _, w := range warnings {
		p.diagnose(start, "%s", w)
	}
	rule := Rule{Selector: sel, Raw: raw}
	isRoot := raw == ":root"

	for {
		p.skipTrivia()
		if p.eof() {
			p.diagnose(start, "unterminated block for selector %q", raw)
			break
		}
		if p.currentChar() == '}' {
			p.consumeChar()
			break
		}
		if p.currentChar() == ';' {
			p.consumeChar()
			continue
		}

		declStart := p.pos
		decl, ok := p.parseDeclaration()
		if !ok {
			continue
		}
		if strings.HasPrefix(decl.Property, "--") {
			if isRoot {
				vars[decl.Property] = decl.Value
			} else {
				p.diagnose(declStart, "custom property %s outside :root is ignored", decl.Property)
			}
			continue
		}
		p.order++
		decl.Order = p.order
		rule.Declarations = append(rule.Declarations, decl)
	}

	if isRoot && len(rule.Declarations) == 0 {
		return Rule{}, false
	}
	return rule, true
}

func (p *Parser) parseDeclaration() (Declaration, bool) {
	start := p.pos
	if !isValidIdentifierStart(p.currentChar()) {
		p.diagnose(start, "unexpected character %q in declaration block", p.currentChar())
		p.skipTo(';', '}')
		p.consumeIf(';')
		return Declaration{}, false
	}
	prop := p.parseIdentifier()
	if !strings.HasPrefix(prop, "--") {
		prop = strings.ToLower(prop)
	}
	p.consumeWhitespace()

	if p.eof() || p.currentChar() != ':' {
		p.diagnose(start, "expected ':' after property %s", prop)
		p.skipTo(';', '}')
		p.consumeIf(';')
		return Declaration{}, false
	}
	p.consumeChar()
	p.consumeWhitespace()

	val := p.parseValue()
	p.consumeIf(';')

	important := false
	if i := strings.LastIndexByte(val, '!'); i >= 0 && strings.EqualFold(strings.TrimSpace(val[i+1:]), "important") {
		important = true
		val = strings.TrimSpace(val[:i])
	}
	if val == "" {
		p.diagnose(start, "property %s has an empty value", prop)
		return Declaration{}, false
	}
	return Declaration{Property: prop, Value: val, Important: important}, true
}

// parseValue reads up to the next ';' or '}' outside strings and parens.
// Comments inside the value are dropped.
func (p *Parser) parseValue() string {
	var b strings.Builder
	start := p.pos
	for !p.eof() {
		ch := p.currentChar()
		if ch == ';' || ch == '}' {
			break
		}
		switch {
		case p.startsWith("/*"):
			b.WriteString(p.input[start:p.pos])
			p.skipComment()
			b.WriteByte(' ')
			start = p.pos
		case ch == '"' || ch == '\'':
			p.skipQuotedString(ch)
		case ch == '(':
			p.consumeChar()
			p.skipBlock('(', ')')
		default:
			p.pos++
		}
	}
	b.WriteString(p.input[start:p.pos])
	return strings.TrimSpace(b.String())
}
