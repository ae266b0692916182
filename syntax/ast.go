package syntax

import (
	"github.com/gogpu/shaderlab/renderstate"
	"github.com/gogpu/shaderlab/source"
)

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() source.Span
}

// Decl is the interface for declarations.
type Decl interface {
	Node
	declNode()
}

// Stmt is the interface for statements.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the interface for expressions.
type Expr interface {
	Node
	exprNode()
}

// Shader is the root of a parsed ShaderLab source. Its declarations live in
// the global scope of Symbols.
type Shader struct {
	Name         string
	Scope        ScopeID
	Decls        []Decl
	Tags         renderstate.Tags
	RenderStates renderstate.States
	SubShaders   []*SubShader
	Symbols      *SymbolTable
	Span         source.Span
}

func (s *Shader) Pos() source.Span { return s.Span }

// SubShader is a named group of passes.
type SubShader struct {
	Name         string
	Scope        ScopeID
	Decls        []Decl
	Tags         renderstate.Tags
	RenderStates renderstate.States
	Passes       []PassItem
	Span         source.Span
}

func (s *SubShader) Pos() source.Span { return s.Span }

// PassItem is a *Pass or a *UsePass.
type PassItem interface {
	Node
	passItem()
}

// Pass is the innermost compilation unit: one vertex and one fragment entry.
type Pass struct {
	Name         string
	Scope        ScopeID
	Decls        []Decl
	Tags         renderstate.Tags
	RenderStates renderstate.States
	Vertex       *FunctionDecl
	Fragment     *FunctionDecl
	Span         source.Span
}

func (p *Pass) Pos() source.Span { return p.Span }
func (p *Pass) passItem()        {}

// UsePass references a pass compiled elsewhere as "Shader/SubShader/Pass".
type UsePass struct {
	Path string
	Span source.Span
}

func (u *UsePass) Pos() source.Span { return u.Span }
func (u *UsePass) passItem()        {}

// TypeSpec is a type reference: an optional precision and a builtin or
// struct type name.
type TypeSpec struct {
	Precision string
	Name      string
	Scope     ScopeID
	Span      source.Span
}

// StructDecl represents a struct declaration.
type StructDecl struct {
	Name   string
	Fields []*StructField
	Symbol *Symbol
	Span   source.Span
}

func (s *StructDecl) Pos() source.Span { return s.Span }
func (s *StructDecl) declNode()        {}

// Field returns the field called name, or nil.
func (s *StructDecl) Field(name string) *StructField {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// StructField is one member of a struct. "vec2 a, b;" produces two fields.
type StructField struct {
	Type      *TypeSpec
	Name      string
	ArraySize Expr
	Span      source.Span
}

// VarDecl declares one or more variables sharing a type and qualifiers. At
// block level it is a global, inside a function it is a local statement.
type VarDecl struct {
	Invariant   bool
	Qualifier   string // "", const, uniform, attribute, varying
	Type        *TypeSpec
	Declarators []*Declarator
	Span        source.Span
}

func (v *VarDecl) Pos() source.Span { return v.Span }
func (v *VarDecl) declNode()        {}
func (v *VarDecl) stmtNode()        {}

// Declarator is one name of a VarDecl.
type Declarator struct {
	Name      string
	ArraySize Expr
	Init      Expr
	Decl      *VarDecl
	Symbol    *Symbol
	Span      source.Span
}

// PrecisionDecl is a default precision statement: precision mediump float;
type PrecisionDecl struct {
	Precision string
	Type      string
	Span      source.Span
}

func (p *PrecisionDecl) Pos() source.Span { return p.Span }
func (p *PrecisionDecl) declNode()        {}
func (p *PrecisionDecl) stmtNode()        {}

// FunctionDecl is a function prototype (Body == nil) or definition.
type FunctionDecl struct {
	ReturnType *TypeSpec
	Name       string
	Params     []*ParamDecl
	Body       *BlockStmt
	Scope      ScopeID // parameter scope
	Symbol     *Symbol
	Span       source.Span
}

func (f *FunctionDecl) Pos() source.Span { return f.Span }
func (f *FunctionDecl) declNode()        {}

// Signature returns the parameter type names.
func (f *FunctionDecl) Signature() []string {
	sig := make([]string, len(f.Params))
	for i, p := range f.Params {
		sig[i] = p.Type.Name
	}
	return sig
}

// ParamDecl is a function parameter. Name may be empty in prototypes.
type ParamDecl struct {
	Const     bool
	Qualifier string // "", in, out, inout
	Type      *TypeSpec
	Name      string
	ArraySize Expr
	Symbol    *Symbol
	Span      source.Span
}

// Statements

// StatementList is a cons cell: Head followed by the statements in Tail.
type StatementList struct {
	Head Stmt
	Tail *StatementList
}

// Len returns the number of statements in the list.
func (l *StatementList) Len() int {
	n := 0
	for ; l != nil; l = l.Tail {
		n++
	}
	return n
}

// Slice returns the statements of the list in order.
func (l *StatementList) Slice() []Stmt {
	var out []Stmt
	for ; l != nil; l = l.Tail {
		out = append(out, l.Head)
	}
	return out
}

// BlockStmt represents a compound statement with its own scope.
type BlockStmt struct {
	List  *StatementList
	Scope ScopeID
	Span  source.Span
}

func (b *BlockStmt) Pos() source.Span { return b.Span }
func (b *BlockStmt) stmtNode()        {}

// ExprStmt represents an expression statement.
type ExprStmt struct {
	Expr Expr
	Span source.Span
}

func (e *ExprStmt) Pos() source.Span { return e.Span }
func (e *ExprStmt) stmtNode()        {}

// IfStmt represents an if statement.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
	Span      source.Span
}

func (i *IfStmt) Pos() source.Span { return i.Span }
func (i *IfStmt) stmtNode()        {}

// ForStmt represents a for loop. Init is nil, a *VarDecl or an *ExprStmt.
type ForStmt struct {
	Init      Stmt
	Condition Expr
	Update    Expr
	Body      Stmt
	Scope     ScopeID
	Span      source.Span
}

func (f *ForStmt) Pos() source.Span { return f.Span }
func (f *ForStmt) stmtNode()        {}

// WhileStmt represents a while loop.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
	Span      source.Span
}

func (w *WhileStmt) Pos() source.Span { return w.Span }
func (w *WhileStmt) stmtNode()        {}

// DoWhileStmt represents a do-while loop.
type DoWhileStmt struct {
	Body      Stmt
	Condition Expr
	Span      source.Span
}

func (d *DoWhileStmt) Pos() source.Span { return d.Span }
func (d *DoWhileStmt) stmtNode()        {}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	Value Expr
	Span  source.Span
}

func (r *ReturnStmt) Pos() source.Span { return r.Span }
func (r *ReturnStmt) stmtNode()        {}

// BreakStmt represents a break statement.
type BreakStmt struct {
	Span source.Span
}

func (b *BreakStmt) Pos() source.Span { return b.Span }
func (b *BreakStmt) stmtNode()        {}

// ContinueStmt represents a continue statement.
type ContinueStmt struct {
	Span source.Span
}

func (c *ContinueStmt) Pos() source.Span { return c.Span }
func (c *ContinueStmt) stmtNode()        {}

// DiscardStmt represents a discard statement.
type DiscardStmt struct {
	Span source.Span
}

func (d *DiscardStmt) Pos() source.Span { return d.Span }
func (d *DiscardStmt) stmtNode()        {}

// EmptyStmt is a lone ';'.
type EmptyStmt struct {
	Span source.Span
}

func (e *EmptyStmt) Pos() source.Span { return e.Span }
func (e *EmptyStmt) stmtNode()        {}

// Expressions

// Ident represents an identifier. Symbol is bound when the name resolved
// while parsing, otherwise it is looked up in Scope when needed.
type Ident struct {
	Name   string
	Scope  ScopeID
	Symbol *Symbol
	Span   source.Span
}

func (i *Ident) Pos() source.Span { return i.Span }
func (i *Ident) exprNode()        {}

// Literal represents a literal value.
type Literal struct {
	Kind  TokenKind // IntLiteral, FloatLiteral, BoolLiteral
	Value string
	Span  source.Span
}

func (l *Literal) Pos() source.Span { return l.Span }
func (l *Literal) exprNode()        {}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	Left  Expr
	Op    TokenKind
	Right Expr
	Span  source.Span
}

func (b *BinaryExpr) Pos() source.Span { return b.Span }
func (b *BinaryExpr) exprNode()        {}

// AssignExpr represents an assignment or compound assignment.
type AssignExpr struct {
	Left  Expr
	Op    TokenKind
	Right Expr
	Span  source.Span
}

func (a *AssignExpr) Pos() source.Span { return a.Span }
func (a *AssignExpr) exprNode()        {}

// UnaryExpr represents a prefix or postfix unary expression.
type UnaryExpr struct {
	Op      TokenKind
	Operand Expr
	Postfix bool
	Span    source.Span
}

func (u *UnaryExpr) Pos() source.Span { return u.Span }
func (u *UnaryExpr) exprNode()        {}

// TernaryExpr represents cond ? a : b.
type TernaryExpr struct {
	Condition Expr
	Then      Expr
	Else      Expr
	Span      source.Span
}

func (t *TernaryExpr) Pos() source.Span { return t.Span }
func (t *TernaryExpr) exprNode()        {}

// CallExpr represents a function call or a type constructor.
type CallExpr struct {
	Func *Ident
	Args []Expr
	Span source.Span
}

func (c *CallExpr) Pos() source.Span { return c.Span }
func (c *CallExpr) exprNode()        {}

// IndexExpr represents an index expression.
type IndexExpr struct {
	Expr  Expr
	Index Expr
	Span  source.Span
}

func (i *IndexExpr) Pos() source.Span { return i.Span }
func (i *IndexExpr) exprNode()        {}

// MemberExpr represents a field access or swizzle.
type MemberExpr struct {
	Expr   Expr
	Member string
	Span   source.Span
}

func (m *MemberExpr) Pos() source.Span { return m.Span }
func (m *MemberExpr) exprNode()        {}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	Expr Expr
	Span source.Span
}

func (p *ParenExpr) Pos() source.Span { return p.Span }
func (p *ParenExpr) exprNode()        {}

// SequenceExpr represents the comma operator.
type SequenceExpr struct {
	List []Expr
	Span source.Span
}

func (s *SequenceExpr) Pos() source.Span { return s.Span }
func (s *SequenceExpr) exprNode()        {}
