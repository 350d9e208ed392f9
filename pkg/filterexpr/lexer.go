package filterexpr

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType identifies lexical tokens of the filter grammar.
type TokenType int

const (
	EOF TokenType = iota
	Illegal
	Ident
	Number
	String
	LParen
	RParen
	Plus
	Minus
	Star
	Slash
	Percent
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	And
	Or
	Not
	True
	False
)

// Token represents a lexical item with its position in the input.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

var keywords = map[string]TokenType{
	"AND":   And,
	"OR":    Or,
	"NOT":   Not,
	"TRUE":  True,
	"FALSE": False,
}

type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) next() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case ch == '(':
		l.pos++
		return Token{Type: LParen, Literal: "(", Pos: start}, nil
	case ch == ')':
		l.pos++
		return Token{Type: RParen, Literal: ")", Pos: start}, nil
	case ch == '+':
		l.pos++
		return Token{Type: Plus, Literal: "+", Pos: start}, nil
	case ch == '-':
		l.pos++
		return Token{Type: Minus, Literal: "-", Pos: start}, nil
	case ch == '*':
		l.pos++
		return Token{Type: Star, Literal: "*", Pos: start}, nil
	case ch == '/':
		l.pos++
		return Token{Type: Slash, Literal: "/", Pos: start}, nil
	case ch == '%':
		l.pos++
		return Token{Type: Percent, Literal: "%", Pos: start}, nil
	case ch == '=':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return Token{Type: Equal, Literal: "==", Pos: start}, nil
		}
		return Token{Type: Equal, Literal: "=", Pos: start}, nil
	case ch == '!':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return Token{Type: NotEqual, Literal: "!=", Pos: start}, nil
		}
		return Token{Type: Not, Literal: "!", Pos: start}, nil
	case ch == '<':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return Token{Type: LessEqual, Literal: "<=", Pos: start}, nil
		}
		if l.peek() == '>' {
			l.pos++
			return Token{Type: NotEqual, Literal: "<>", Pos: start}, nil
		}
		return Token{Type: Less, Literal: "<", Pos: start}, nil
	case ch == '>':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return Token{Type: GreaterEqual, Literal: ">=", Pos: start}, nil
		}
		return Token{Type: Greater, Literal: ">", Pos: start}, nil
	case ch == '&':
		l.pos++
		if l.peek() == '&' {
			l.pos++
			return Token{Type: And, Literal: "&&", Pos: start}, nil
		}
		return Token{}, fmt.Errorf("unexpected character %q at position %d", ch, start)
	case ch == '|':
		l.pos++
		if l.peek() == '|' {
			l.pos++
			return Token{Type: Or, Literal: "||", Pos: start}, nil
		}
		return Token{}, fmt.Errorf("unexpected character %q at position %d", ch, start)
	case ch == '\'' || ch == '"':
		return l.lexString(ch)
	case isDigit(ch) || (ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
		return l.lexNumber()
	case isIdentStart(ch):
		return l.lexIdent()
	default:
		return Token{}, fmt.Errorf("unexpected character %q at position %d", ch, start)
	}
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

func (l *lexer) lexString(quote byte) (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == quote {
			l.pos++
			return Token{Type: String, Literal: sb.String(), Pos: start}, nil
		}
		sb.WriteByte(ch)
		l.pos++
	}
	return Token{}, fmt.Errorf("unterminated string starting at position %d", start)
}

func (l *lexer) lexNumber() (Token, error) {
	start := l.pos
	seenDot := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '.' {
			if seenDot {
				return Token{}, fmt.Errorf("malformed number at position %d", start)
			}
			seenDot = true
			l.pos++
			continue
		}
		if !isDigit(ch) {
			break
		}
		l.pos++
	}
	return Token{Type: Number, Literal: l.input[start:l.pos], Pos: start}, nil
}

func (l *lexer) lexIdent() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	literal := l.input[start:l.pos]
	if tt, ok := keywords[strings.ToUpper(literal)]; ok {
		return Token{Type: tt, Literal: literal, Pos: start}, nil
	}
	return Token{Type: Ident, Literal: literal, Pos: start}, nil
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }
