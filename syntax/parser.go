package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/shaderlab/renderstate"
	"github.com/gogpu/shaderlab/source"
)

// Options configures a Parser.
type Options struct {
	// Registry validates render-state keys and enum values. Nil selects
	// renderstate.DefaultRegistry().
	Registry *renderstate.Registry
}

// Parser parses ShaderLab tokens into a Shader, filling its symbol table as
// declarations are read. The first error aborts parsing.
type Parser struct {
	tokens   []Token
	current  int
	registry *renderstate.Registry
	symbols  *SymbolTable
	scope    ScopeID
}

// NewParser creates a new parser for the given tokens.
func NewParser(tokens []Token, opts Options) *Parser {
	reg := opts.Registry
	if reg == nil {
		reg = renderstate.DefaultRegistry()
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		tokens = append(tokens, Token{Kind: TokenEOF})
	}
	return &Parser{
		tokens:   tokens,
		registry: reg,
		symbols:  NewSymbolTable(),
		scope:    GlobalScope,
	}
}

// Parse tokenizes and parses src. Errors are *source.Error values
// positioned in src.
func Parse(src string, opts Options) (*Shader, error) {
	tokens, err := Tokenize(src)
	if err == nil {
		var shader *Shader
		shader, err = NewParser(tokens, opts).Parse()
		if err == nil {
			return shader, nil
		}
	}
	if srcErr, ok := err.(*source.Error); ok && srcErr.Source == "" {
		srcErr.Source = src
	}
	return nil, err
}

// Parse parses the token stream as a single Shader block.
func (p *Parser) Parse() (*Shader, error) {
	start := p.peek()
	if !p.match(TokenShader) {
		return nil, p.errorf(start, "expected 'Shader', got %s", describe(start))
	}
	name, err := p.expectString("shader name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftBrace, "'{' after shader name"); err != nil {
		return nil, err
	}

	shader := &Shader{
		Name:         name,
		Scope:        GlobalScope,
		Tags:         renderstate.Tags{},
		RenderStates: renderstate.NewStates(),
		Symbols:      p.symbols,
	}

	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		switch tok := p.peek(); tok.Kind {
		case TokenTags:
			err = p.tags(shader.Tags)
		case TokenRenderState:
			err = p.renderState(shader.RenderStates)
		case TokenSubShader:
			var sub *SubShader
			if sub, err = p.subShader(); err == nil {
				shader.SubShaders = append(shader.SubShaders, sub)
			}
		case TokenPass, TokenUsePass:
			err = p.errorf(tok, "%s must appear inside a SubShader", tok.Lexeme)
		default:
			var decl Decl
			if decl, err = p.globalDecl(); err == nil {
				shader.Decls = append(shader.Decls, decl)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenRightBrace, "'}' to close the Shader block"); err != nil {
		return nil, err
	}
	if !p.isAtEnd() {
		return nil, p.errorf(p.peek(), "unexpected %s after the Shader block", describe(p.peek()))
	}
	shader.Span = p.span(start)
	return shader, nil
}

func (p *Parser) subShader() (*SubShader, error) {
	start := p.advance()
	sub := &SubShader{
		Tags:         renderstate.Tags{},
		RenderStates: renderstate.NewStates(),
	}
	if p.check(TokenStringLiteral) {
		name, err := p.expectString("sub-shader name")
		if err != nil {
			return nil, err
		}
		sub.Name = name
	}
	if _, err := p.expect(TokenLeftBrace, "'{' after SubShader"); err != nil {
		return nil, err
	}

	outer := p.scope
	sub.Scope = p.symbols.Push(outer, ScopeSubShader)
	p.scope = sub.Scope
	defer func() { p.scope = outer }()

	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		var err error
		switch tok := p.peek(); tok.Kind {
		case TokenTags:
			err = p.tags(sub.Tags)
		case TokenRenderState:
			err = p.renderState(sub.RenderStates)
		case TokenPass:
			var pass *Pass
			if pass, err = p.pass(); err == nil {
				sub.Passes = append(sub.Passes, pass)
			}
		case TokenUsePass:
			var use *UsePass
			if use, err = p.usePass(); err == nil {
				sub.Passes = append(sub.Passes, use)
			}
		case TokenSubShader, TokenShader:
			err = p.errorf(tok, "%s cannot be nested in a SubShader", tok.Lexeme)
		default:
			var decl Decl
			if decl, err = p.globalDecl(); err == nil {
				sub.Decls = append(sub.Decls, decl)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenRightBrace, "'}' to close the SubShader block"); err != nil {
		return nil, err
	}
	sub.Span = p.span(start)
	return sub, nil
}

func (p *Parser) pass() (*Pass, error) {
	start := p.advance()
	name, err := p.expectString("pass name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftBrace, "'{' after pass name"); err != nil {
		return nil, err
	}

	pass := &Pass{
		Name:         name,
		Tags:         renderstate.Tags{},
		RenderStates: renderstate.NewStates(),
	}
	outer := p.scope
	pass.Scope = p.symbols.Push(outer, ScopePass)
	p.scope = pass.Scope
	defer func() { p.scope = outer }()

	var vertex, fragment *Token
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		var err error
		switch tok := p.peek(); tok.Kind {
		case TokenTags:
			err = p.tags(pass.Tags)
		case TokenRenderState:
			err = p.renderState(pass.RenderStates)
		case TokenVertexShader:
			vertex, err = p.entryAssignment(vertex)
		case TokenFragmentShader:
			fragment, err = p.entryAssignment(fragment)
		case TokenShader, TokenSubShader, TokenPass, TokenUsePass:
			err = p.errorf(tok, "%s cannot be nested in a Pass", tok.Lexeme)
		default:
			var decl Decl
			if decl, err = p.globalDecl(); err == nil {
				pass.Decls = append(pass.Decls, decl)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRightBrace, "'}' to close the Pass block"); err != nil {
		return nil, err
	}

	if vertex == nil {
		return nil, p.errorf(start, "pass %q does not declare a VertexShader entry", name)
	}
	if fragment == nil {
		return nil, p.errorf(start, "pass %q does not declare a FragmentShader entry", name)
	}
	if pass.Vertex, err = p.entryPoint(*vertex); err != nil {
		return nil, err
	}
	if pass.Fragment, err = p.entryPoint(*fragment); err != nil {
		return nil, err
	}

	pass.Span = p.span(start)
	return pass, nil
}

// entryAssignment parses "VertexShader = name;" and returns the name token.
func (p *Parser) entryAssignment(prev *Token) (*Token, error) {
	key := p.advance()
	if prev != nil {
		return nil, p.errorf(key, "%s is assigned twice", key.Lexeme)
	}
	if _, err := p.expect(TokenEqual, "'=' after "+key.Lexeme); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent, "entry function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "';' after entry function name"); err != nil {
		return nil, err
	}
	return &name, nil
}

// entryPoint resolves an entry function name to its single definition.
func (p *Parser) entryPoint(name Token) (*FunctionDecl, error) {
	var found *FunctionDecl
	for _, sym := range p.symbols.Functions(p.scope, name.Lexeme) {
		if sym.Function.Body == nil {
			continue
		}
		if found != nil {
			return nil, p.errorf(name, "entry point %q is overloaded", name.Lexeme)
		}
		found = sym.Function
	}
	if found == nil {
		return nil, p.errorf(name, "entry point %q is not a defined function", name.Lexeme)
	}
	return found, nil
}

func (p *Parser) usePass() (*UsePass, error) {
	start := p.advance()
	path, err := p.expectString("pass path")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(path, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, p.errorf(p.previous(), "UsePass path %q should have the form \"Shader/SubShader/Pass\"", path)
	}
	p.match(TokenSemicolon)
	return &UsePass{Path: path, Span: p.span(start)}, nil
}

// tags parses "Tags { Key = literal, ... }" into dst.
func (p *Parser) tags(dst renderstate.Tags) error {
	p.advance()
	if _, err := p.expect(TokenLeftBrace, "'{' after Tags"); err != nil {
		return err
	}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		key, err := p.expect(TokenIdent, "tag name")
		if err != nil {
			return err
		}
		if _, err := p.expect(TokenEqual, "'=' after tag name"); err != nil {
			return err
		}
		value, err := p.literalValue()
		if err != nil {
			return err
		}
		dst[key.Lexeme] = value
		if !p.match(TokenComma) && !p.match(TokenSemicolon) {
			break
		}
	}
	_, err := p.expect(TokenRightBrace, "'}' to close Tags")
	return err
}

// renderState parses a RenderState block into dst.
func (p *Parser) renderState(dst renderstate.States) error {
	p.advance()
	if _, err := p.expect(TokenLeftBrace, "'{' after RenderState"); err != nil {
		return err
	}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		if err := p.stateEntry(dst, ""); err != nil {
			return err
		}
	}
	_, err := p.expect(TokenRightBrace, "'}' to close RenderState")
	return err
}

// stateEntry parses "Key.Path[i] = value;" or "Group { ... }".
func (p *Parser) stateEntry(dst renderstate.States, group string) error {
	keyTok, err := p.expect(TokenIdent, "render state key")
	if err != nil {
		return err
	}
	path := keyTok.Lexeme
	for p.match(TokenDot) {
		part, err := p.expect(TokenIdent, "render state key")
		if err != nil {
			return err
		}
		path += "." + part.Lexeme
	}
	if group != "" {
		path = group + "." + path
	}

	if p.check(TokenLeftBrace) && group == "" {
		p.advance()
		for !p.check(TokenRightBrace) && !p.isAtEnd() {
			if err := p.stateEntry(dst, path); err != nil {
				return err
			}
		}
		if _, err := p.expect(TokenRightBrace, "'}' to close "+path); err != nil {
			return err
		}
		p.match(TokenSemicolon)
		return nil
	}

	sk, ok := p.registry.Key(path)
	if !ok {
		return p.errorf(keyTok, "unknown render state %q", path)
	}
	key := path
	if p.match(TokenLeftBracket) {
		idx, err := p.expect(TokenIntLiteral, "render target index")
		if err != nil {
			return err
		}
		if _, err := p.expect(TokenRightBracket, "']'"); err != nil {
			return err
		}
		if !sk.Indexed {
			return p.errorf(idx, "render state %q does not take an index", path)
		}
		key = fmt.Sprintf("%s[%s]", path, idx.Lexeme)
	}
	if _, err := p.expect(TokenEqual, "'=' after render state key"); err != nil {
		return err
	}
	if err := p.stateValue(dst, key, sk); err != nil {
		return err
	}
	_, err = p.expect(TokenSemicolon, "';' after render state value")
	return err
}

func (p *Parser) stateValue(dst renderstate.States, key string, sk renderstate.StateKey) error {
	kind, _ := sk.Kind()
	tok := p.peek()

	setConstant := func(v renderstate.Value) {
		dst.Constant[key] = v
		delete(dst.Variable, key)
	}

	if tok.Kind == TokenIdent {
		p.advance()
		if p.registry.HasEnum(tok.Lexeme) && p.check(TokenDot) {
			p.advance()
			member, err := p.expect(TokenIdent, "enum member")
			if err != nil {
				return err
			}
			if kind != renderstate.KindEnum || sk.Enum != tok.Lexeme {
				return p.errorf(tok, "render state %q does not take %s values", key, tok.Lexeme)
			}
			if !p.registry.HasMember(tok.Lexeme, member.Lexeme) {
				return p.errorf(member, "%s is not a member of %s", member.Lexeme, tok.Lexeme)
			}
			setConstant(renderstate.Enum(tok.Lexeme, member.Lexeme))
			return nil
		}
		if kind == renderstate.KindEnum && p.registry.HasMember(sk.Enum, tok.Lexeme) {
			setConstant(renderstate.Enum(sk.Enum, tok.Lexeme))
			return nil
		}
		if p.symbols.Lookup(p.scope, tok.Lexeme, SymbolVar) != nil {
			dst.Variable[key] = tok.Lexeme
			delete(dst.Constant, key)
			return nil
		}
		return p.errorf(tok, "unresolved identifier %q in render state %q", tok.Lexeme, key)
	}

	value, err := p.literalValue()
	if err != nil {
		return err
	}
	if value.Kind != kind {
		return p.errorf(tok, "render state %q expects a %s value, got %s", key, kind, value.Kind)
	}
	setConstant(value)
	return nil
}

// literalValue parses a number (optionally negated), bool or string.
func (p *Parser) literalValue() (renderstate.Value, error) {
	neg := p.match(TokenMinus)
	tok := p.advance()
	switch tok.Kind {
	case TokenIntLiteral:
		text := strings.TrimRight(tok.Lexeme, "uU")
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return renderstate.Value{}, p.errorf(tok, "invalid integer %s", tok.Lexeme)
		}
		if neg {
			n = -n
		}
		return renderstate.Number(float64(n)), nil
	case TokenFloatLiteral:
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return renderstate.Value{}, p.errorf(tok, "invalid number %s", tok.Lexeme)
		}
		if neg {
			f = -f
		}
		return renderstate.Number(f), nil
	case TokenBoolLiteral:
		if !neg {
			return renderstate.Bool(tok.Lexeme == "true"), nil
		}
	case TokenStringLiteral:
		if !neg {
			s, err := strconv.Unquote(tok.Lexeme)
			if err != nil {
				return renderstate.Value{}, p.errorf(tok, "invalid string %s", tok.Lexeme)
			}
			return renderstate.String(s), nil
		}
	}
	return renderstate.Value{}, p.errorf(tok, "expected a literal value, got %s", describe(tok))
}

// globalDecl parses a block-level declaration.
func (p *Parser) globalDecl() (Decl, error) {
	tok := p.peek()
	switch {
	case tok.Kind == TokenPrecision:
		return p.precisionDecl()
	case tok.Kind == TokenStruct:
		return p.structDecl()
	case tok.Kind == TokenIdent, tok.Kind == TokenConst, tok.Kind == TokenUniform,
		tok.Kind == TokenAttribute, tok.Kind == TokenVarying, tok.Kind == TokenInvariant,
		isPrecision(tok.Kind):
	default:
		return nil, p.errorf(tok, "unexpected %s, expected a declaration", describe(tok))
	}

	invariant, qualifier := p.qualifiers()
	typ, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent, "declaration name")
	if err != nil {
		return nil, err
	}
	if p.check(TokenLeftParen) {
		if qualifier != "" || invariant {
			return nil, p.errorf(tok, "functions cannot have storage qualifiers")
		}
		return p.functionDecl(tok, typ, name)
	}
	return p.varDeclRest(tok, invariant, qualifier, typ, name)
}

// qualifiers parses optional invariant and storage qualifiers.
func (p *Parser) qualifiers() (bool, string) {
	invariant := p.match(TokenInvariant)
	switch p.peek().Kind {
	case TokenConst, TokenUniform, TokenAttribute, TokenVarying:
		return invariant, p.advance().Lexeme
	}
	return invariant, ""
}

// typeSpec parses "[precision] TypeName".
func (p *Parser) typeSpec() (*TypeSpec, error) {
	start := p.peek()
	spec := &TypeSpec{Scope: p.scope}
	if isPrecision(start.Kind) {
		spec.Precision = p.advance().Lexeme
	}
	name, err := p.expect(TokenIdent, "type name")
	if err != nil {
		return nil, err
	}
	spec.Name = name.Lexeme
	spec.Span = p.span(start)
	return spec, nil
}

func (p *Parser) precisionDecl() (*PrecisionDecl, error) {
	start := p.advance()
	prec := p.peek()
	if !isPrecision(prec.Kind) {
		return nil, p.errorf(prec, "expected a precision qualifier, got %s", describe(prec))
	}
	p.advance()
	typ, err := p.expect(TokenIdent, "type name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "';' after precision statement"); err != nil {
		return nil, err
	}
	return &PrecisionDecl{Precision: prec.Lexeme, Type: typ.Lexeme, Span: p.span(start)}, nil
}

func (p *Parser) structDecl() (*StructDecl, error) {
	start := p.advance()
	name, err := p.expect(TokenIdent, "struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftBrace, "'{' after struct name"); err != nil {
		return nil, err
	}

	decl := &StructDecl{Name: name.Lexeme}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		typ, err := p.typeSpec()
		if err != nil {
			return nil, err
		}
		for {
			fieldTok, err := p.expect(TokenIdent, "field name")
			if err != nil {
				return nil, err
			}
			if decl.Field(fieldTok.Lexeme) != nil {
				return nil, p.errorf(fieldTok, "duplicate field %q in struct %s", fieldTok.Lexeme, decl.Name)
			}
			field := &StructField{Type: typ, Name: fieldTok.Lexeme}
			if field.ArraySize, err = p.arraySize(); err != nil {
				return nil, err
			}
			field.Span = p.span(fieldTok)
			decl.Fields = append(decl.Fields, field)
			if !p.match(TokenComma) {
				break
			}
		}
		if _, err := p.expect(TokenSemicolon, "';' after struct field"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRightBrace, "'}' to close struct"); err != nil {
		return nil, err
	}
	p.match(TokenSemicolon)
	decl.Span = p.span(start)

	sym, err := p.symbols.Declare(p.scope, &Symbol{Name: decl.Name, Kind: SymbolStruct, Type: decl.Name, Struct: decl})
	if err != nil {
		return nil, p.errorf(name, "%v", err)
	}
	decl.Symbol = sym
	return decl, nil
}

// varDeclRest parses the declarators following "qualifiers type".
func (p *Parser) varDeclRest(start Token, invariant bool, qualifier string, typ *TypeSpec, name Token) (*VarDecl, error) {
	decl := &VarDecl{Invariant: invariant, Qualifier: qualifier, Type: typ}
	for {
		d := &Declarator{Name: name.Lexeme, Decl: decl}
		var err error
		if d.ArraySize, err = p.arraySize(); err != nil {
			return nil, err
		}
		if p.match(TokenEqual) {
			if d.Init, err = p.assignment(); err != nil {
				return nil, err
			}
		}
		d.Span = p.span(name)

		sym := &Symbol{Name: d.Name, Kind: SymbolVar, Type: typ.Name, Array: d.ArraySize != nil, Declarator: d}
		if d.Symbol, err = p.symbols.Declare(p.scope, sym); err != nil {
			return nil, p.errorf(name, "%v", err)
		}
		decl.Declarators = append(decl.Declarators, d)

		if !p.match(TokenComma) {
			break
		}
		if name, err = p.expect(TokenIdent, "variable name"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenSemicolon, "';' after declaration"); err != nil {
		return nil, err
	}
	decl.Span = p.span(start)
	return decl, nil
}

func (p *Parser) arraySize() (Expr, error) {
	if !p.match(TokenLeftBracket) {
		return nil, nil
	}
	size, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightBracket, "']' after array size"); err != nil {
		return nil, err
	}
	return size, nil
}

func (p *Parser) functionDecl(start Token, ret *TypeSpec, name Token) (*FunctionDecl, error) {
	fn := &FunctionDecl{ReturnType: ret, Name: name.Lexeme}
	fn.Scope = p.symbols.Push(p.scope, ScopeFunction)

	p.advance() // (
	if p.check(TokenIdent) && p.peek().Lexeme == "void" && p.peekNext().Kind == TokenRightParen {
		p.advance()
	}
	for !p.check(TokenRightParen) && !p.isAtEnd() {
		param, err := p.parameter()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, param)
		if !p.match(TokenComma) {
			break
		}
	}
	if _, err := p.expect(TokenRightParen, "')' after parameters"); err != nil {
		return nil, err
	}

	for _, param := range fn.Params {
		if param.Name == "" {
			continue
		}
		sym := &Symbol{Name: param.Name, Kind: SymbolVar, Type: param.Type.Name, Array: param.ArraySize != nil, Param: param}
		var err error
		if param.Symbol, err = p.symbols.Declare(fn.Scope, sym); err != nil {
			return nil, p.errorf(p.tokenAt(param.Span.Start), "%v", err)
		}
	}

	if !p.match(TokenSemicolon) {
		outer := p.scope
		p.scope = fn.Scope
		body, err := p.block(false)
		p.scope = outer
		if err != nil {
			return nil, err
		}
		fn.Body = body
	}
	fn.Span = p.span(start)

	sym := &Symbol{Name: fn.Name, Kind: SymbolFunction, Type: ret.Name, Params: fn.Signature(), Function: fn}
	stored, err := p.symbols.Declare(p.scope, sym)
	if err != nil {
		return nil, p.errorf(name, "%v", err)
	}
	fn.Symbol = stored
	return fn, nil
}

func (p *Parser) parameter() (*ParamDecl, error) {
	start := p.peek()
	param := &ParamDecl{Const: p.match(TokenConst)}
	switch p.peek().Kind {
	case TokenIn, TokenOut, TokenInout:
		param.Qualifier = p.advance().Lexeme
	}
	typ, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	param.Type = typ
	if p.check(TokenIdent) {
		param.Name = p.advance().Lexeme
	}
	if param.ArraySize, err = p.arraySize(); err != nil {
		return nil, err
	}
	param.Span = p.span(start)
	return param, nil
}

// Token helpers

func (p *Parser) advance() Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) peekNext() Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+1]
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == TokenEOF
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return Token{}, p.errorf(p.peek(), "expected %s, got %s", what, describe(p.peek()))
}

func (p *Parser) expectString(what string) (string, error) {
	tok, err := p.expect(TokenStringLiteral, what)
	if err != nil {
		return "", err
	}
	s, uerr := strconv.Unquote(tok.Lexeme)
	if uerr != nil {
		return "", p.errorf(tok, "invalid string %s", tok.Lexeme)
	}
	return s, nil
}

// tokenAt returns the token starting at pos, for error reporting.
func (p *Parser) tokenAt(pos source.Position) Token {
	for _, tok := range p.tokens {
		if tok.Pos.Index == pos.Index {
			return tok
		}
	}
	return Token{Pos: pos}
}

func (p *Parser) span(start Token) source.Span {
	return source.Span{Start: start.Pos, End: p.previous().End()}
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	return source.Errorf(tok.Pos, format, args...)
}

func describe(tok Token) string {
	if tok.Kind == TokenEOF {
		return "end of input"
	}
	return strconv.Quote(tok.Lexeme)
}
