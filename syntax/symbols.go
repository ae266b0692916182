package syntax

import (
	"fmt"
	"sort"

	"github.com/gogpu/shaderlab/source"
)

// ScopeID is the index of a scope in a SymbolTable arena.
type ScopeID int32

// NoScope is the parent of the global scope.
const NoScope ScopeID = -1

// GlobalScope is the scope of declarations in the Shader block.
const GlobalScope ScopeID = 0

// ScopeKind tells which construct opened a scope.
type ScopeKind uint8

const (
	ScopeGlobal ScopeKind = iota
	ScopeSubShader
	ScopePass
	ScopeFunction
	ScopeBlock
)

// SymbolKind distinguishes the symbol namespaces.
type SymbolKind uint8

const (
	SymbolVar SymbolKind = iota
	SymbolStruct
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "variable"
	case SymbolStruct:
		return "struct"
	case SymbolFunction:
		return "function"
	}
	return "symbol"
}

// Symbol is a named declaration.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Scope ScopeID

	// Global is set for symbols declared in a Shader, SubShader or Pass
	// block rather than inside a function.
	Global bool

	// Type is the variable type or the function return type.
	Type string

	// Array is set for array variables.
	Array bool

	// Params is the parameter type signature of a function.
	Params []string

	Struct     *StructDecl   // SymbolStruct
	Declarator *Declarator   // SymbolVar declared by a VarDecl
	Param      *ParamDecl    // SymbolVar declared as a parameter
	Function   *FunctionDecl // SymbolFunction: the definition, or the prototype until defined
	Prototype  *FunctionDecl // SymbolFunction: a prototype preceding the definition
}

// Pos returns the position of the declaration.
func (s *Symbol) Pos() source.Position {
	switch {
	case s.Struct != nil:
		return s.Struct.Span.Start
	case s.Declarator != nil:
		return s.Declarator.Span.Start
	case s.Param != nil:
		return s.Param.Span.Start
	case s.Function != nil:
		return s.Function.Span.Start
	}
	return source.Position{}
}

type scope struct {
	parent  ScopeID
	kind    ScopeKind
	symbols map[string][]*Symbol
}

// SymbolTable is an arena of scopes. Scope 0 is the global scope; every
// other scope names its parent by index.
type SymbolTable struct {
	scopes []scope
}

// NewSymbolTable returns a table holding only the global scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		scopes: []scope{{parent: NoScope, kind: ScopeGlobal, symbols: make(map[string][]*Symbol)}},
	}
}

// Push opens a new scope under parent and returns its id.
func (t *SymbolTable) Push(parent ScopeID, kind ScopeKind) ScopeID {
	t.scopes = append(t.scopes, scope{parent: parent, kind: kind, symbols: make(map[string][]*Symbol)})
	return ScopeID(len(t.scopes) - 1)
}

// Parent returns the parent of id, NoScope for the global scope.
func (t *SymbolTable) Parent(id ScopeID) ScopeID {
	return t.scopes[id].parent
}

// Kind returns the kind of scope id.
func (t *SymbolTable) Kind(id ScopeID) ScopeKind {
	return t.scopes[id].kind
}

// Len returns the number of scopes.
func (t *SymbolTable) Len() int {
	return len(t.scopes)
}

// IsGlobal reports whether declarations in id are block-level globals.
func (t *SymbolTable) IsGlobal(id ScopeID) bool {
	return t.scopes[id].kind <= ScopePass
}

// Declare adds sym to scope id. Redefining a name in the same scope is an
// error, except for function overloads with distinct signatures and for a
// prototype paired with its definition. The returned symbol is the one
// stored in the table.
func (t *SymbolTable) Declare(id ScopeID, sym *Symbol) (*Symbol, error) {
	s := &t.scopes[id]
	sym.Scope = id
	sym.Global = t.IsGlobal(id)

	for _, existing := range s.symbols[sym.Name] {
		if existing.Kind != SymbolFunction || sym.Kind != SymbolFunction {
			return nil, fmt.Errorf("redefinition of %q", sym.Name)
		}
		if !sameSignature(existing.Params, sym.Params) {
			continue
		}
		if existing.Type != sym.Type {
			return nil, fmt.Errorf("function %q redeclared with a different return type", sym.Name)
		}
		newDef := sym.Function.Body != nil
		oldDef := existing.Function.Body != nil
		switch {
		case newDef && oldDef:
			return nil, fmt.Errorf("redefinition of function %q", sym.Name)
		case newDef:
			if existing.Prototype == nil {
				existing.Prototype = existing.Function
			}
			existing.Function = sym.Function
		}
		return existing, nil
	}

	s.symbols[sym.Name] = append(s.symbols[sym.Name], sym)
	return sym, nil
}

// Lookup finds the innermost symbol called name of the given kind visible
// from scope id.
func (t *SymbolTable) Lookup(id ScopeID, name string, kind SymbolKind) *Symbol {
	for ; id != NoScope; id = t.scopes[id].parent {
		for _, sym := range t.scopes[id].symbols[name] {
			if sym.Kind == kind {
				return sym
			}
		}
	}
	return nil
}

// LookupFunction finds the overload of name with exactly the parameter
// types sig.
func (t *SymbolTable) LookupFunction(id ScopeID, name string, sig []string) *Symbol {
	for ; id != NoScope; id = t.scopes[id].parent {
		for _, sym := range t.scopes[id].symbols[name] {
			if sym.Kind == SymbolFunction && sameSignature(sym.Params, sig) {
				return sym
			}
		}
	}
	return nil
}

// Functions returns every overload of name visible from id, inner scopes
// first. An inner overload hides an outer one with the same signature.
func (t *SymbolTable) Functions(id ScopeID, name string) []*Symbol {
	var out []*Symbol
	for ; id != NoScope; id = t.scopes[id].parent {
	next:
		for _, sym := range t.scopes[id].symbols[name] {
			if sym.Kind != SymbolFunction {
				continue
			}
			for _, seen := range out {
				if sameSignature(seen.Params, sym.Params) {
					continue next
				}
			}
			out = append(out, sym)
		}
	}
	return out
}

// Symbols returns the symbols declared directly in scope id, in
// declaration order.
func (t *SymbolTable) Symbols(id ScopeID) []*Symbol {
	var out []*Symbol
	for _, list := range t.scopes[id].symbols {
		out = append(out, list...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos().Index < out[j].Pos().Index })
	return out
}

// Clone returns a table with its own scope arena. Symbols are shared.
func (t *SymbolTable) Clone() *SymbolTable {
	out := &SymbolTable{scopes: make([]scope, len(t.scopes))}
	for i, s := range t.scopes {
		symbols := make(map[string][]*Symbol, len(s.symbols))
		for name, list := range s.symbols {
			symbols[name] = append([]*Symbol(nil), list...)
		}
		out.scopes[i] = scope{parent: s.parent, kind: s.kind, symbols: symbols}
	}
	return out
}

func sameSignature(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
