package filterexpr

import (
	"fmt"
	"strconv"
)

// Expr is a node of the parsed filter expression. The grammar is
// deliberately small: boolean connectives over comparisons over arithmetic
// over column references and literals. No calls, no indexing, no general
// expression language.
type Expr interface {
	exprNode()
}

type ColumnRef struct {
	Name string
	Pos  int
}

type NumberLit struct {
	Value float64
}

type StringLit struct {
	Value string
}

type BoolLit struct {
	Value bool
}

type BinaryExpr struct {
	Op    TokenType
	OpLit string
	Left  Expr
	Right Expr
}

type UnaryExpr struct {
	Op      TokenType
	Operand Expr
}

func (*ColumnRef) exprNode()  {}
func (*NumberLit) exprNode()  {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}

// parser is a recursive-descent parser with the usual precedence ladder:
// OR < AND < NOT < comparison < additive < multiplicative < unary.
type parser struct {
	tokens []Token
	pos    int
}

// Parse turns a filter string into an expression tree. Errors are plain
// syntax errors; no schema knowledge is applied here.
func Parse(input string) (Expr, error) {
	lex := newLexer(input)
	var tokens []Token
	for {
		tok, err := lex.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}

	p := &parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().Type != EOF {
		return nil, fmt.Errorf("unexpected %q at position %d", p.current().Literal, p.current().Pos)
	}
	return expr, nil
}

func (p *parser) current() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == Or {
		op := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: Or, OpLit: op.Literal, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.current().Type == And {
		op := p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: And, OpLit: op.Literal, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.current().Type == Not {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: Not, Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	switch p.current().Type {
	case Equal, NotEqual, Less, LessEqual, Greater, GreaterEqual:
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op.Type, OpLit: op.Literal, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.current().Type == Plus || p.current().Type == Minus {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Type, OpLit: op.Literal, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current().Type == Star || p.current().Type == Slash || p.current().Type == Percent {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Type, OpLit: op.Literal, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.current().Type == Minus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: Minus, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.current()
	switch tok.Type {
	case Number:
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed number %q at position %d", tok.Literal, tok.Pos)
		}
		return &NumberLit{Value: value}, nil
	case String:
		p.advance()
		return &StringLit{Value: tok.Literal}, nil
	case True:
		p.advance()
		return &BoolLit{Value: true}, nil
	case False:
		p.advance()
		return &BoolLit{Value: false}, nil
	case Ident:
		p.advance()
		return &ColumnRef{Name: tok.Literal, Pos: tok.Pos}, nil
	case LParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current().Type != RParen {
			return nil, fmt.Errorf("expected closing parenthesis at position %d", p.current().Pos)
		}
		p.advance()
		return inner, nil
	case EOF:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q at position %d", tok.Literal, tok.Pos)
	}
}
