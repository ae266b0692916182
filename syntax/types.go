package syntax

import "strings"

var builtinTypes = map[string]bool{
	"void": true, "bool": true, "int": true, "uint": true, "float": true,
	"vec2": true, "vec3": true, "vec4": true,
	"bvec2": true, "bvec3": true, "bvec4": true,
	"ivec2": true, "ivec3": true, "ivec4": true,
	"uvec2": true, "uvec3": true, "uvec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"mat2x2": true, "mat2x3": true, "mat2x4": true,
	"mat3x2": true, "mat3x3": true, "mat3x4": true,
	"mat4x2": true, "mat4x3": true, "mat4x4": true,
	"sampler2D": true, "samplerCube": true, "sampler3D": true,
	"sampler2DShadow": true, "samplerCubeShadow": true,
	"sampler2DArray": true, "sampler2DArrayShadow": true,
	"isampler2D": true, "isampler3D": true, "isamplerCube": true, "isampler2DArray": true,
	"usampler2D": true, "usampler3D": true, "usamplerCube": true, "usampler2DArray": true,
	"samplerExternalOES": true,
}

// IsBuiltinType reports whether name is a GLSL ES builtin type.
func IsBuiltinType(name string) bool {
	return builtinTypes[name]
}

// builtinResults maps builtin functions with a fixed result type.
var builtinResults = map[string]string{
	"texture2D": "vec4", "texture2DProj": "vec4", "texture2DLod": "vec4",
	"texture2DProjLod": "vec4", "textureCube": "vec4", "textureCubeLod": "vec4",
	"texture2DLodEXT": "vec4", "texture2DProjLodEXT": "vec4", "textureCubeLodEXT": "vec4",
	"texture2DGradEXT": "vec4", "texture2DProjGradEXT": "vec4", "textureCubeGradEXT": "vec4",
	"texture": "vec4", "textureProj": "vec4", "textureLod": "vec4", "textureGrad": "vec4",
	"dot": "float", "length": "float", "distance": "float",
	"any": "bool", "all": "bool",
}

// ResolveVar returns the variable an identifier refers to, or nil.
func ResolveVar(t *SymbolTable, id *Ident) *Symbol {
	if id.Symbol != nil && id.Symbol.Kind == SymbolVar {
		return id.Symbol
	}
	if id.Scope == NoScope {
		return nil
	}
	return t.Lookup(id.Scope, id.Name, SymbolVar)
}

// TypeOf infers the static type of an expression evaluated in scope. Array
// types carry a "[]" suffix. The empty string means unknown.
func TypeOf(t *SymbolTable, scope ScopeID, e Expr) string {
	switch e := e.(type) {
	case *Literal:
		switch e.Kind {
		case TokenIntLiteral:
			if strings.HasSuffix(e.Value, "u") || strings.HasSuffix(e.Value, "U") {
				return "uint"
			}
			return "int"
		case TokenFloatLiteral:
			return "float"
		case TokenBoolLiteral:
			return "bool"
		}
	case *Ident:
		if sym := ResolveVar(t, e); sym != nil {
			if sym.Array {
				return sym.Type + "[]"
			}
			return sym.Type
		}
	case *ParenExpr:
		return TypeOf(t, scope, e.Expr)
	case *MemberExpr:
		return memberType(t, scope, TypeOf(t, scope, e.Expr), e.Member)
	case *IndexExpr:
		return elementType(TypeOf(t, scope, e.Expr))
	case *CallExpr:
		return callType(t, scope, e)
	case *BinaryExpr:
		switch e.Op {
		case TokenEqualEqual, TokenBangEqual, TokenLess, TokenGreater,
			TokenLessEqual, TokenGreaterEqual, TokenAmpAmp, TokenPipePipe, TokenCaretCaret:
			return "bool"
		}
		return arithmeticType(TypeOf(t, scope, e.Left), TypeOf(t, scope, e.Right))
	case *UnaryExpr:
		if e.Op == TokenBang {
			return "bool"
		}
		return TypeOf(t, scope, e.Operand)
	case *TernaryExpr:
		return TypeOf(t, scope, e.Then)
	case *AssignExpr:
		return TypeOf(t, scope, e.Left)
	case *SequenceExpr:
		if len(e.List) > 0 {
			return TypeOf(t, scope, e.List[len(e.List)-1])
		}
	}
	return ""
}

func memberType(t *SymbolTable, scope ScopeID, base, member string) string {
	if base == "" || strings.HasSuffix(base, "[]") {
		if base != "" && member == "length" {
			return "int"
		}
		return ""
	}
	if sym := t.Lookup(scope, base, SymbolStruct); sym != nil {
		f := sym.Struct.Field(member)
		if f == nil {
			return ""
		}
		if f.ArraySize != nil {
			return f.Type.Name + "[]"
		}
		return f.Type.Name
	}
	if prefix, n := vectorShape(base); n > 0 {
		if len(member) == 1 {
			return scalarOf(prefix)
		}
		return prefix + string(rune('0'+len(member)))
	}
	return ""
}

func elementType(base string) string {
	if strings.HasSuffix(base, "[]") {
		return strings.TrimSuffix(base, "[]")
	}
	if prefix, n := vectorShape(base); n > 0 {
		return scalarOf(prefix)
	}
	if strings.HasPrefix(base, "mat") && len(base) >= 4 {
		// matN and matCxR index to a column vector.
		return "vec" + base[len(base)-1:]
	}
	return ""
}

func callType(t *SymbolTable, scope ScopeID, c *CallExpr) string {
	name := c.Func.Name
	if IsBuiltinType(name) {
		return name
	}
	if t.Lookup(scope, name, SymbolStruct) != nil {
		return name
	}
	if overloads := t.Functions(scope, name); len(overloads) > 0 {
		if len(overloads) == 1 {
			return overloads[0].Type
		}
		sig := make([]string, len(c.Args))
		for i, a := range c.Args {
			sig[i] = TypeOf(t, scope, a)
		}
		if sym := t.LookupFunction(scope, name, sig); sym != nil {
			return sym.Type
		}
		return ""
	}
	if res, ok := builtinResults[name]; ok {
		return res
	}
	// Component-wise builtins (abs, normalize, mix, ...) follow their first
	// argument.
	if len(c.Args) > 0 {
		return TypeOf(t, scope, c.Args[0])
	}
	return ""
}

func arithmeticType(l, r string) string {
	switch {
	case l == r:
		return l
	case l == "":
		return r
	case r == "":
		return l
	case isScalar(l):
		return r
	case isScalar(r):
		return l
	case strings.HasPrefix(l, "mat") && strings.HasPrefix(r, "vec"):
		return r
	case strings.HasPrefix(l, "vec") && strings.HasPrefix(r, "mat"):
		return l
	}
	return l
}

func isScalar(t string) bool {
	return t == "float" || t == "int" || t == "uint" || t == "bool"
}

// vectorShape splits "vec3" into ("vec", 3). Non-vector types return 0.
func vectorShape(t string) (string, int) {
	for _, prefix := range []string{"vec", "ivec", "uvec", "bvec"} {
		if strings.HasPrefix(t, prefix) && len(t) == len(prefix)+1 {
			n := int(t[len(prefix)] - '0')
			if n >= 2 && n <= 4 {
				return prefix, n
			}
		}
	}
	return "", 0
}

func scalarOf(prefix string) string {
	switch prefix {
	case "ivec":
		return "int"
	case "uvec":
		return "uint"
	case "bvec":
		return "bool"
	}
	return "float"
}
