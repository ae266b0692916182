package syntax

// block parses "{ statements }". With newScope the block opens a child
// scope; function bodies share the parameter scope.
func (p *Parser) block(newScope bool) (*BlockStmt, error) {
	start, err := p.expect(TokenLeftBrace, "'{'")
	if err != nil {
		return nil, err
	}

	outer := p.scope
	if newScope {
		p.scope = p.symbols.Push(outer, ScopeBlock)
	}
	block := &BlockStmt{Scope: p.scope}
	defer func() { p.scope = outer }()

	var stmts []Stmt
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(TokenRightBrace, "'}' to close block"); err != nil {
		return nil, err
	}

	for i := len(stmts) - 1; i >= 0; i-- {
		block.List = &StatementList{Head: stmts[i], Tail: block.List}
	}
	block.Span = p.span(start)
	return block, nil
}

// statement parses a statement inside a function body.
func (p *Parser) statement() (Stmt, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenLeftBrace:
		return p.block(true)
	case TokenIf:
		return p.ifStmt()
	case TokenFor:
		return p.forStmt()
	case TokenWhile:
		return p.whileStmt()
	case TokenDo:
		return p.doWhileStmt()
	case TokenReturn:
		return p.returnStmt()
	case TokenBreak:
		p.advance()
		return &BreakStmt{Span: p.span(tok)}, p.semicolon("break")
	case TokenContinue:
		p.advance()
		return &ContinueStmt{Span: p.span(tok)}, p.semicolon("continue")
	case TokenDiscard:
		p.advance()
		return &DiscardStmt{Span: p.span(tok)}, p.semicolon("discard")
	case TokenSemicolon:
		p.advance()
		return &EmptyStmt{Span: p.span(tok)}, nil
	case TokenPrecision:
		return p.precisionDecl()
	case TokenUniform, TokenAttribute, TokenVarying, TokenInvariant:
		return nil, p.errorf(tok, "%s is not allowed inside a function", tok.Lexeme)
	case TokenStruct:
		return nil, p.errorf(tok, "struct declarations are only allowed at block level")
	}
	if p.isLocalDecl() {
		return p.localDecl()
	}
	return p.exprStmt()
}

func (p *Parser) semicolon(after string) error {
	_, err := p.expect(TokenSemicolon, "';' after "+after)
	return err
}

// isLocalDecl reports whether the next tokens start a local declaration:
// a qualifier, or a type name followed by a variable name.
func (p *Parser) isLocalDecl() bool {
	tok := p.peek()
	if tok.Kind == TokenConst || isPrecision(tok.Kind) {
		return true
	}
	return tok.Kind == TokenIdent && p.peekNext().Kind == TokenIdent
}

func (p *Parser) localDecl() (*VarDecl, error) {
	start := p.peek()
	qualifier := ""
	if p.match(TokenConst) {
		qualifier = "const"
	}
	typ, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent, "variable name")
	if err != nil {
		return nil, err
	}
	return p.varDeclRest(start, false, qualifier, typ, name)
}

func (p *Parser) exprStmt() (*ExprStmt, error) {
	start := p.peek()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.semicolon("expression"); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr, Span: p.span(start)}, nil
}

func (p *Parser) condition(keyword string) (Expr, error) {
	if _, err := p.expect(TokenLeftParen, "'(' after "+keyword); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen, "')' after "+keyword+" condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) ifStmt() (*IfStmt, error) {
	start := p.advance()
	cond, err := p.condition("if")
	if err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Condition: cond, Then: then}
	if p.match(TokenElse) {
		if stmt.Else, err = p.statement(); err != nil {
			return nil, err
		}
	}
	stmt.Span = p.span(start)
	return stmt, nil
}

func (p *Parser) forStmt() (*ForStmt, error) {
	start := p.advance()
	if _, err := p.expect(TokenLeftParen, "'(' after for"); err != nil {
		return nil, err
	}

	outer := p.scope
	stmt := &ForStmt{Scope: p.symbols.Push(outer, ScopeBlock)}
	p.scope = stmt.Scope
	defer func() { p.scope = outer }()

	var err error
	switch {
	case p.match(TokenSemicolon):
	case p.isLocalDecl():
		stmt.Init, err = p.localDecl()
	default:
		stmt.Init, err = p.exprStmt()
	}
	if err != nil {
		return nil, err
	}

	if !p.check(TokenSemicolon) {
		if stmt.Condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if err := p.semicolon("for condition"); err != nil {
		return nil, err
	}
	if !p.check(TokenRightParen) {
		if stmt.Update, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRightParen, "')' after for clauses"); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.statement(); err != nil {
		return nil, err
	}
	stmt.Span = p.span(start)
	return stmt, nil
}

func (p *Parser) whileStmt() (*WhileStmt, error) {
	start := p.advance()
	cond, err := p.condition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body, Span: p.span(start)}, nil
}

func (p *Parser) doWhileStmt() (*DoWhileStmt, error) {
	start := p.advance()
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenWhile, "'while' after do body"); err != nil {
		return nil, err
	}
	cond, err := p.condition("while")
	if err != nil {
		return nil, err
	}
	if err := p.semicolon("do-while"); err != nil {
		return nil, err
	}
	return &DoWhileStmt{Body: body, Condition: cond, Span: p.span(start)}, nil
}

func (p *Parser) returnStmt() (*ReturnStmt, error) {
	start := p.advance()
	stmt := &ReturnStmt{}
	if !p.check(TokenSemicolon) {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	if err := p.semicolon("return"); err != nil {
		return nil, err
	}
	stmt.Span = p.span(start)
	return stmt, nil
}
