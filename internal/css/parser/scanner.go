// File: internal/css/parser/scanner.go
package parser

import "strings"

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) currentChar() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) consumeChar() byte {
	ch := p.currentChar()
	if !p.eof() {
		p.pos++
	}
	return ch
}

// consumeIf consumes ch when it is the current character.
func (p *Parser) consumeIf(ch byte) bool {
	if !p.eof() && p.currentChar() == ch {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) consumeWhitespace() {
	for !p.eof() && isWhitespace(p.currentChar()) {
		p.pos++
	}
}

// skipTrivia skips whitespace and comments.
func (p *Parser) skipTrivia() {
	for {
		p.consumeWhitespace()
		if !p.startsWith("/*") {
			return
		}
		p.skipComment()
	}
}

func (p *Parser) startsWith(s string) bool {
	if p.pos+len(s) > len(p.input) {
		return false
	}
	return p.input[p.pos:p.pos+len(s)] == s
}

func (p *Parser) skipComment() {
	p.pos += 2
	endIndex := strings.Index(p.input[p.pos:], "*/")
	if endIndex == -1 {
		p.pos = len(p.input)
	} else {
		p.pos += endIndex + 2
	}
}

// skipTo advances to the first of targets found outside quoted strings and
// bracketed attribute selectors.
func (p *Parser) skipTo(targets ...byte) {
	depth := 0
	for !p.eof() {
		ch := p.currentChar()
		switch ch {
		case '"', '\'':
			p.skipQuotedString(ch)
			continue
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && strings.IndexByte(string(targets), ch) >= 0 {
			return
		}
		p.pos++
	}
}

// skipBlock skips to just past the close that balances an already consumed
// open.
func (p *Parser) skipBlock(open, close byte) {
	depth := 1
	for !p.eof() {
		c := p.currentChar()
		if c == '"' || c == '\'' {
			p.skipQuotedString(c)
			continue
		}
		p.pos++
		if c == open {
			depth++
		} else if c == close {
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) skipQuotedString(quote byte) {
	p.consumeChar() // opening quote
	for !p.eof() {
		ch := p.consumeChar()
		if ch == '\\' {
			p.consumeChar()
		} else if ch == quote {
			return
		}
	}
}

// skipAtRule skips an at-rule statement or block starting at '@'.
func (p *Parser) skipAtRule() {
	p.consumeChar() // '@'
	_ = p.parseIdentifier()
	for !p.eof() {
		ch := p.currentChar()
		switch ch {
		case '"', '\'':
			p.skipQuotedString(ch)
			continue
		case '{':
			p.consumeChar()
			p.skipBlock('{', '}')
			return
		case ';':
			p.consumeChar()
			return
		case '}':
			return
		}
		p.pos++
	}
}

func (p *Parser) parseIdentifier() string {
	start := p.pos
	for !p.eof() && isValidIdentifierChar(p.currentChar()) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isValidIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '-'
}

func isValidIdentifierChar(ch byte) bool {
	return isValidIdentifierStart(ch) || (ch >= '0' && ch <= '9')
}
