package syntax

import (
	"github.com/gogpu/shaderlab/source"
)

// Lexer tokenizes preprocessed ShaderLab source.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	start  source.Position
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	// Estimate ~1 token per 5 characters of source.
	estTokens := len(src) / 5
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source: src,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens from the source, terminated by TokenEOF.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Tokenize()
}

// Tokenize returns all tokens from the source, terminated by TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.position()
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, Token{Kind: TokenEOF, Pos: l.position()})
	return l.tokens, nil
}

func (l *Lexer) position() source.Position {
	return source.Position{Index: l.pos, Line: l.line, Column: l.column}
}

func (l *Lexer) scanToken() error {
	c := l.advance()

	switch c {
	case '(':
		l.addToken(TokenLeftParen)
	case ')':
		l.addToken(TokenRightParen)
	case '{':
		l.addToken(TokenLeftBrace)
	case '}':
		l.addToken(TokenRightBrace)
	case '[':
		l.addToken(TokenLeftBracket)
	case ']':
		l.addToken(TokenRightBracket)
	case ',':
		l.addToken(TokenComma)
	case ':':
		l.addToken(TokenColon)
	case ';':
		l.addToken(TokenSemicolon)
	case '?':
		l.addToken(TokenQuestion)
	case '~':
		l.addToken(TokenTilde)
	case '.':
		if isDigit(l.peek()) {
			l.fraction()
		} else {
			l.addToken(TokenDot)
		}
	case '%':
		l.addToken(l.either('=', TokenPercentEqual, TokenPercent))
	case '=':
		l.addToken(l.either('=', TokenEqualEqual, TokenEqual))
	case '!':
		l.addToken(l.either('=', TokenBangEqual, TokenBang))
	case '*':
		l.addToken(l.either('=', TokenStarEqual, TokenStar))
	case '^':
		if l.match('^') {
			l.addToken(TokenCaretCaret)
		} else {
			l.addToken(l.either('=', TokenCaretEqual, TokenCaret))
		}
	case '+':
		if l.match('+') {
			l.addToken(TokenPlusPlus)
		} else {
			l.addToken(l.either('=', TokenPlusEqual, TokenPlus))
		}
	case '-':
		if l.match('-') {
			l.addToken(TokenMinusMinus)
		} else {
			l.addToken(l.either('=', TokenMinusEqual, TokenMinus))
		}
	case '&':
		if l.match('&') {
			l.addToken(TokenAmpAmp)
		} else {
			l.addToken(l.either('=', TokenAmpEqual, TokenAmpersand))
		}
	case '|':
		if l.match('|') {
			l.addToken(TokenPipePipe)
		} else {
			l.addToken(l.either('=', TokenPipeEqual, TokenPipe))
		}
	case '<':
		if l.match('<') {
			l.addToken(l.either('=', TokenLessLessEqual, TokenLessLess))
		} else {
			l.addToken(l.either('=', TokenLessEqual, TokenLess))
		}
	case '>':
		if l.match('>') {
			l.addToken(l.either('=', TokenGreaterGreaterEqual, TokenGreaterGreater))
		} else {
			l.addToken(l.either('=', TokenGreaterEqual, TokenGreater))
		}
	case '/':
		switch {
		case l.match('/'):
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		case l.match('*'):
			return l.blockComment()
		default:
			l.addToken(l.either('=', TokenSlashEqual, TokenSlash))
		}
	case '"':
		return l.str()

	// Whitespace
	case ' ', '\r', '\t', '\f', '\v':
	case '\n':
		l.line++
		l.column = 1

	default:
		switch {
		case isDigit(c):
			l.number()
		case isAlpha(c):
			l.identifier()
		default:
			return source.Errorf(l.start, "unexpected character %q", rune(c))
		}
	}

	return nil
}

func (l *Lexer) either(next byte, matched, single TokenKind) TokenKind {
	if l.match(next) {
		return matched
	}
	return single
}

func (l *Lexer) blockComment() error {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		if l.advance() == '\n' {
			l.line++
			l.column = 1
		}
	}
	return source.Errorf(l.start, "unterminated block comment")
}

func (l *Lexer) str() error {
	for !l.isAtEnd() && l.peek() != '"' {
		if l.peek() == '\n' {
			return source.Errorf(l.start, "unterminated string literal")
		}
		if l.advance() == '\\' && !l.isAtEnd() {
			l.advance()
		}
	}
	if l.isAtEnd() {
		return source.Errorf(l.start, "unterminated string literal")
	}
	l.advance() // closing quote
	l.addToken(TokenStringLiteral)
	return nil
}

func (l *Lexer) number() {
	if l.source[l.start.Index] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == 'u' || l.peek() == 'U' {
			l.advance()
		}
		l.addToken(TokenIntLiteral)
		return
	}

	for isDigit(l.peek()) {
		l.advance()
	}

	// "1." and "1.5" are floats, "1.x" is not a valid GLSL construct.
	if l.peek() == '.' {
		l.advance()
		l.fraction()
		return
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.exponent()
		l.addToken(TokenFloatLiteral)
		return
	}
	if l.peek() == 'u' || l.peek() == 'U' {
		l.advance()
	}
	l.addToken(TokenIntLiteral)
}

// fraction scans the digits after a decimal point and an optional exponent.
func (l *Lexer) fraction() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.exponent()
	}
	l.addToken(TokenFloatLiteral)
}

func (l *Lexer) exponent() {
	l.advance()
	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
	}
	for isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.source[l.start.Index:l.pos]
	l.addToken(lookupKeyword(text))
}

func lookupKeyword(text string) TokenKind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	if text == "true" || text == "false" {
		return TokenBoolLiteral
	}
	return TokenIdent
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start.Index:l.pos],
		Pos:    l.start,
	})
}

func (l *Lexer) advance() byte {
	c := l.source[l.pos]
	l.pos++
	l.column++
	return c
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.pos++
	l.column++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
