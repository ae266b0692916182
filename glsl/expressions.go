// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shaderlab/syntax"
)

// expression generates GLSL for an expression. Parentheses come from the
// source, so operators are written without adding any.
func (w *Writer) expression(expr syntax.Expr) (string, error) {
	switch e := expr.(type) {
	case *syntax.Literal:
		return e.Value, nil

	case *syntax.Ident:
		return w.writeIdent(e), nil

	case *syntax.ParenExpr:
		inner, err := w.expression(e.Expr)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil

	case *syntax.MemberExpr:
		return w.writeMember(e)

	case *syntax.IndexExpr:
		base, err := w.expression(e.Expr)
		if err != nil {
			return "", err
		}
		index, err := w.expression(e.Index)
		if err != nil {
			return "", err
		}
		return base + "[" + index + "]", nil

	case *syntax.CallExpr:
		return w.writeCall(e)

	case *syntax.UnaryExpr:
		operand, err := w.expression(e.Operand)
		if err != nil {
			return "", err
		}
		if e.Postfix {
			return operand + e.Op.String(), nil
		}
		return e.Op.String() + operand, nil

	case *syntax.BinaryExpr:
		return w.writeBinary(e.Left, e.Op, e.Right)

	case *syntax.AssignExpr:
		return w.writeBinary(e.Left, e.Op, e.Right)

	case *syntax.TernaryExpr:
		cond, err := w.expression(e.Condition)
		if err != nil {
			return "", err
		}
		then, err := w.expression(e.Then)
		if err != nil {
			return "", err
		}
		els, err := w.expression(e.Else)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s ? %s : %s", cond, then, els), nil

	case *syntax.SequenceExpr:
		list, err := w.expressions(e.List)
		if err != nil {
			return "", err
		}
		return strings.Join(list, ", "), nil

	default:
		return "", fmt.Errorf("unsupported expression: %T", expr)
	}
}

func (w *Writer) expressions(list []syntax.Expr) ([]string, error) {
	out := make([]string, len(list))
	for i, e := range list {
		s, err := w.expression(e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (w *Writer) writeBinary(left syntax.Expr, op syntax.TokenKind, right syntax.Expr) (string, error) {
	l, err := w.expression(left)
	if err != nil {
		return "", err
	}
	r, err := w.expression(right)
	if err != nil {
		return "", err
	}
	return l + " " + op.String() + " " + r, nil
}

// writeIdent writes a variable reference, recording globals and plain
// vertex attributes. Unresolved names are builtins.
func (w *Writer) writeIdent(id *syntax.Ident) string {
	sym := syntax.ResolveVar(w.symbols, id)
	switch {
	case sym == nil:
		return w.dialect.variable(w.ctx, id.Name)
	case sym.Param != nil && w.ctx.attributeParams[sym.Param]:
		w.ctx.referencedAttributes.add(sym.Name)
		return sym.Name
	case sym.Global:
		w.ctx.referenceGlobal(sym)
		return sym.Name
	}
	return w.dialect.escape(sym.Name)
}

// writeMember writes a field access or swizzle. Fields of the varying and
// attribute structs are written as the bare field name.
func (w *Writer) writeMember(m *syntax.MemberExpr) (string, error) {
	base := syntax.TypeOf(w.symbols, w.scope, m.Expr)

	if v := w.ctx.varying; v != nil && base == v.Name {
		if v.Field(m.Member) == nil {
			return m.Member, w.undeclared("varying", m.Member, m.Span.Start)
		}
		w.ctx.referencedVaryings.add(m.Member)
		return m.Member, nil
	}
	if _, ok := w.ctx.attributeStructs[base]; ok {
		if w.ctx.attribute(m.Member) == nil {
			return m.Member, w.undeclared("attribute", m.Member, m.Span.Start)
		}
		w.ctx.referencedAttributes.add(m.Member)
		return m.Member, nil
	}

	inner, err := w.expression(m.Expr)
	if err != nil {
		return "", err
	}
	return inner + "." + m.Member, nil
}

// writeCall writes a call or constructor. Calls that match no user
// function are builtins the dialect may rename.
func (w *Writer) writeCall(c *syntax.CallExpr) (string, error) {
	args, err := w.expressions(c.Args)
	if err != nil {
		return "", err
	}
	name := c.Func.Name
	var st *syntax.Symbol
	if !syntax.IsBuiltinType(name) {
		st = w.symbols.Lookup(w.scope, name, syntax.SymbolStruct)
	}

	switch {
	case syntax.IsBuiltinType(name):
	case st != nil:
		w.ctx.referenceGlobal(st)
	default:
		if w.referenceFunction(name, c.Args) {
			name = w.dialect.escape(name)
		} else {
			name = w.dialect.function(w.ctx.stage, name)
		}
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

// referenceFunction records the user functions a call can reach. The
// overload is resolved by argument types; when that fails every overload
// of matching arity is recorded. It reports whether any was.
func (w *Writer) referenceFunction(name string, args []syntax.Expr) bool {
	overloads := w.symbols.Functions(w.scope, name)
	if len(overloads) == 0 {
		return false
	}
	sig := make([]string, len(args))
	for i, a := range args {
		sig[i] = syntax.TypeOf(w.symbols, w.scope, a)
	}
	if sym := w.symbols.LookupFunction(w.scope, name, sig); sym != nil {
		w.ctx.referenceGlobal(sym)
		return true
	}
	found := false
	for _, sym := range overloads {
		if len(sym.Params) == len(args) {
			w.ctx.referenceGlobal(sym)
			found = true
		}
	}
	return found
}
