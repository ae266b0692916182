package syntax

import "github.com/gogpu/shaderlab/source"

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenBoolLiteral
	TokenStringLiteral

	// Operators
	TokenPlus                // +
	TokenMinus               // -
	TokenStar                // *
	TokenSlash               // /
	TokenPercent             // %
	TokenAmpersand           // &
	TokenPipe                // |
	TokenCaret               // ^
	TokenTilde               // ~
	TokenBang                // !
	TokenEqual               // =
	TokenLess                // <
	TokenGreater             // >
	TokenDot                 // .
	TokenComma               // ,
	TokenColon               // :
	TokenSemicolon           // ;
	TokenQuestion            // ?
	TokenPlusPlus            // ++
	TokenMinusMinus          // --
	TokenEqualEqual          // ==
	TokenBangEqual           // !=
	TokenLessEqual           // <=
	TokenGreaterEqual        // >=
	TokenAmpAmp              // &&
	TokenPipePipe            // ||
	TokenCaretCaret          // ^^
	TokenLessLess            // <<
	TokenGreaterGreater      // >>
	TokenPlusEqual           // +=
	TokenMinusEqual          // -=
	TokenStarEqual           // *=
	TokenSlashEqual          // /=
	TokenPercentEqual        // %=
	TokenAmpEqual            // &=
	TokenPipeEqual           // |=
	TokenCaretEqual          // ^=
	TokenLessLessEqual       // <<=
	TokenGreaterGreaterEqual // >>=

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]

	// GLSL keywords
	TokenAttribute
	TokenBreak
	TokenConst
	TokenContinue
	TokenDiscard
	TokenDo
	TokenElse
	TokenFor
	TokenHighp
	TokenIf
	TokenIn
	TokenInout
	TokenInvariant
	TokenLowp
	TokenMediump
	TokenOut
	TokenPrecision
	TokenReturn
	TokenStruct
	TokenUniform
	TokenVarying
	TokenWhile

	// ShaderLab keywords
	TokenShader
	TokenSubShader
	TokenPass
	TokenUsePass
	TokenTags
	TokenRenderState
	TokenVertexShader
	TokenFragmentShader
)

var tokenText = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenIdent:         "Ident",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenBoolLiteral:   "BoolLiteral",
	TokenStringLiteral: "StringLiteral",

	TokenPlus:                "+",
	TokenMinus:               "-",
	TokenStar:                "*",
	TokenSlash:               "/",
	TokenPercent:             "%",
	TokenAmpersand:           "&",
	TokenPipe:                "|",
	TokenCaret:               "^",
	TokenTilde:               "~",
	TokenBang:                "!",
	TokenEqual:               "=",
	TokenLess:                "<",
	TokenGreater:             ">",
	TokenDot:                 ".",
	TokenComma:               ",",
	TokenColon:               ":",
	TokenSemicolon:           ";",
	TokenQuestion:            "?",
	TokenPlusPlus:            "++",
	TokenMinusMinus:          "--",
	TokenEqualEqual:          "==",
	TokenBangEqual:           "!=",
	TokenLessEqual:           "<=",
	TokenGreaterEqual:        ">=",
	TokenAmpAmp:              "&&",
	TokenPipePipe:            "||",
	TokenCaretCaret:          "^^",
	TokenLessLess:            "<<",
	TokenGreaterGreater:      ">>",
	TokenPlusEqual:           "+=",
	TokenMinusEqual:          "-=",
	TokenStarEqual:           "*=",
	TokenSlashEqual:          "/=",
	TokenPercentEqual:        "%=",
	TokenAmpEqual:            "&=",
	TokenPipeEqual:           "|=",
	TokenCaretEqual:          "^=",
	TokenLessLessEqual:       "<<=",
	TokenGreaterGreaterEqual: ">>=",

	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenLeftBracket:  "[",
	TokenRightBracket: "]",
}

// String returns the operator text of the kind, its keyword, or a name for
// literal kinds.
func (k TokenKind) String() string {
	if s, ok := tokenText[k]; ok {
		return s
	}
	for word, kind := range keywords {
		if kind == k {
			return word
		}
	}
	return "Unknown"
}

// Token represents a lexical token. Pos refers to the preprocessed text.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Pos    source.Position
}

// End returns the position just past the token.
func (t Token) End() source.Position {
	return t.Pos.Offset(len(t.Lexeme))
}

var keywords = map[string]TokenKind{
	"attribute": TokenAttribute,
	"break":     TokenBreak,
	"const":     TokenConst,
	"continue":  TokenContinue,
	"discard":   TokenDiscard,
	"do":        TokenDo,
	"else":      TokenElse,
	"for":       TokenFor,
	"highp":     TokenHighp,
	"if":        TokenIf,
	"in":        TokenIn,
	"inout":     TokenInout,
	"invariant": TokenInvariant,
	"lowp":      TokenLowp,
	"mediump":   TokenMediump,
	"out":       TokenOut,
	"precision": TokenPrecision,
	"return":    TokenReturn,
	"struct":    TokenStruct,
	"uniform":   TokenUniform,
	"varying":   TokenVarying,
	"while":     TokenWhile,

	"Shader":         TokenShader,
	"SubShader":      TokenSubShader,
	"Pass":           TokenPass,
	"UsePass":        TokenUsePass,
	"Tags":           TokenTags,
	"RenderState":    TokenRenderState,
	"VertexShader":   TokenVertexShader,
	"FragmentShader": TokenFragmentShader,
}

// IsKeyword reports whether name is a reserved word of the language.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok || name == "true" || name == "false"
}

func isPrecision(kind TokenKind) bool {
	return kind == TokenHighp || kind == TokenMediump || kind == TokenLowp
}

func isAssignOp(kind TokenKind) bool {
	switch kind {
	case TokenEqual, TokenPlusEqual, TokenMinusEqual, TokenStarEqual,
		TokenSlashEqual, TokenPercentEqual, TokenAmpEqual, TokenPipeEqual,
		TokenCaretEqual, TokenLessLessEqual, TokenGreaterGreaterEqual:
		return true
	}
	return false
}
