package syntax

import "github.com/gogpu/shaderlab/source"

// expression parses a comma-separated expression sequence.
func (p *Parser) expression() (Expr, error) {
	start := p.peek()
	first, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenComma) {
		return first, nil
	}
	seq := &SequenceExpr{List: []Expr{first}}
	for p.match(TokenComma) {
		next, err := p.assignment()
		if err != nil {
			return nil, err
		}
		seq.List = append(seq.List, next)
	}
	seq.Span = p.span(start)
	return seq, nil
}

// assignment parses right-associative assignment operators.
func (p *Parser) assignment() (Expr, error) {
	start := p.peek()
	left, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if !isAssignOp(p.peek().Kind) {
		return left, nil
	}
	op := p.advance()
	right, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &AssignExpr{Left: left, Op: op.Kind, Right: right, Span: p.span(start)}, nil
}

func (p *Parser) ternary() (Expr, error) {
	start := p.peek()
	cond, err := p.binary(0)
	if err != nil {
		return nil, err
	}
	if !p.match(TokenQuestion) {
		return cond, nil
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon, "':' in conditional expression"); err != nil {
		return nil, err
	}
	els, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &TernaryExpr{Condition: cond, Then: then, Else: els, Span: p.span(start)}, nil
}

// binaryLevels lists the binary operators from lowest to highest
// precedence.
var binaryLevels = [][]TokenKind{
	{TokenPipePipe},
	{TokenCaretCaret},
	{TokenAmpAmp},
	{TokenPipe},
	{TokenCaret},
	{TokenAmpersand},
	{TokenEqualEqual, TokenBangEqual},
	{TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual},
	{TokenLessLess, TokenGreaterGreater},
	{TokenPlus, TokenMinus},
	{TokenStar, TokenSlash, TokenPercent},
}

// binary parses the left-associative operators of binaryLevels[level].
func (p *Parser) binary(level int) (Expr, error) {
	if level == len(binaryLevels) {
		return p.unary()
	}
	start := p.peek()
	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.matchAny(binaryLevels[level]) {
		op := p.previous().Kind
		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right, Span: p.span(start)}
	}
	return left, nil
}

func (p *Parser) matchAny(kinds []TokenKind) bool {
	for _, k := range kinds {
		if p.match(k) {
			return true
		}
	}
	return false
}

func (p *Parser) unary() (Expr, error) {
	start := p.peek()
	switch start.Kind {
	case TokenPlus, TokenMinus, TokenBang, TokenTilde, TokenPlusPlus, TokenMinusMinus:
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: start.Kind, Operand: operand, Span: p.span(start)}, nil
	}
	return p.postfix()
}

func (p *Parser) postfix() (Expr, error) {
	start := p.peek()
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(TokenLeftBracket):
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenRightBracket, "']' after index"); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Expr: expr, Index: index, Span: p.span(start)}
		case p.match(TokenDot):
			member, err := p.expect(TokenIdent, "member name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &MemberExpr{Expr: expr, Member: member.Lexeme, Span: p.span(start)}
		case p.check(TokenPlusPlus), p.check(TokenMinusMinus):
			op := p.advance()
			expr = &UnaryExpr{Op: op.Kind, Operand: expr, Postfix: true, Span: p.span(start)}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIdent:
		p.advance()
		id := &Ident{Name: tok.Lexeme, Scope: p.scope, Span: p.span(tok)}
		if p.check(TokenLeftParen) {
			return p.call(id)
		}
		id.Symbol = p.symbols.Lookup(p.scope, tok.Lexeme, SymbolVar)
		return id, nil

	case TokenIntLiteral, TokenFloatLiteral, TokenBoolLiteral:
		p.advance()
		return &Literal{Kind: tok.Kind, Value: tok.Lexeme, Span: p.span(tok)}, nil

	case TokenLeftParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen, "')' after expression"); err != nil {
			return nil, err
		}
		return &ParenExpr{Expr: inner, Span: p.span(tok)}, nil
	}
	return nil, p.errorf(tok, "unexpected %s, expected an expression", describe(tok))
}

// call parses the argument list of a function call or constructor.
func (p *Parser) call(callee *Ident) (*CallExpr, error) {
	p.advance() // (
	c := &CallExpr{Func: callee}
	if p.check(TokenIdent) && p.peek().Lexeme == "void" && p.peekNext().Kind == TokenRightParen {
		p.advance()
	}
	for !p.check(TokenRightParen) && !p.isAtEnd() {
		arg, err := p.assignment()
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, arg)
		if !p.match(TokenComma) {
			break
		}
	}
	if _, err := p.expect(TokenRightParen, "')' after arguments"); err != nil {
		return nil, err
	}
	c.Span = source.Span{Start: callee.Span.Start, End: p.previous().End()}
	return c, nil
}
