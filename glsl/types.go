// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"

	"github.com/gogpu/shaderlab/syntax"
)

// typeName formats a type reference and records the struct it names.
func (w *Writer) typeName(t *syntax.TypeSpec) string {
	if !syntax.IsBuiltinType(t.Name) {
		w.ctx.referenceGlobal(w.symbols.Lookup(t.Scope, t.Name, syntax.SymbolStruct))
	}
	if t.Precision != "" {
		return t.Precision + " " + t.Name
	}
	return t.Name
}

// arraySuffix formats an optional array size.
func (w *Writer) arraySuffix(size syntax.Expr) (string, error) {
	if size == nil {
		return "", nil
	}
	n, err := w.expression(size)
	if err != nil {
		return "", err
	}
	return "[" + n + "]", nil
}

// variable formats "type name[size]" for interface declarations and
// struct fields.
func (w *Writer) variable(t *syntax.TypeSpec, name string, size syntax.Expr) (string, error) {
	suffix, err := w.arraySuffix(size)
	if err != nil {
		return "", err
	}
	return w.typeName(t) + " " + name + suffix, nil
}

// localDeclaration formats a declaration statement without its semicolon.
func (w *Writer) localDeclaration(d *syntax.VarDecl) (string, error) {
	var sb strings.Builder
	if d.Qualifier != "" {
		sb.WriteString(d.Qualifier)
		sb.WriteByte(' ')
	}
	sb.WriteString(w.typeName(d.Type))
	for i, decl := range d.Declarators {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(' ')
		sb.WriteString(w.dialect.escape(decl.Name))
		suffix, err := w.arraySuffix(decl.ArraySize)
		if err != nil {
			return "", err
		}
		sb.WriteString(suffix)
		if decl.Init != nil {
			init, err := w.expression(decl.Init)
			if err != nil {
				return "", err
			}
			sb.WriteString(" = ")
			sb.WriteString(init)
		}
	}
	return sb.String(), nil
}

// globalDeclaration formats one declarator of a block-level variable.
// Variables without a storage qualifier are uniforms unless initialized.
func (w *Writer) globalDeclaration(d *syntax.Declarator) (string, error) {
	decl := d.Decl
	var parts []string
	if decl.Invariant {
		parts = append(parts, "invariant")
	}
	switch {
	case decl.Qualifier != "":
		parts = append(parts, w.dialect.qualifier(w.ctx.stage, decl.Qualifier))
	case d.Init == nil:
		parts = append(parts, "uniform")
	}

	v, err := w.variable(decl.Type, d.Name, d.ArraySize)
	if err != nil {
		return "", err
	}
	parts = append(parts, v)
	text := strings.Join(parts, " ")
	if d.Init != nil {
		init, err := w.expression(d.Init)
		if err != nil {
			return "", err
		}
		text += " = " + init
	}
	return text + ";", nil
}

// structDeclaration formats a struct type.
func (w *Writer) structDeclaration(s *syntax.StructDecl) (string, error) {
	w.writeLine("struct %s {", s.Name)
	w.pushIndent()
	for _, f := range s.Fields {
		field, err := w.variable(f.Type, f.Name, f.ArraySize)
		if err != nil {
			return "", err
		}
		w.writeLine("%s;", field)
	}
	w.popIndent()
	w.writeLine("};")
	return strings.TrimSuffix(w.String(), "\n"), nil
}

// functionHeader formats "ret name(params)". Interface structs are not
// declared in the output, so a helper using one in its signature is
// written as is with a warning.
func (w *Writer) functionHeader(fn *syntax.FunctionDecl) (string, error) {
	if w.ctx.isInterfaceStruct(fn.ReturnType.Name) {
		w.logger.Warnf("%s: function %q returns interface struct %s, which is not declared", fn.Span.Start, fn.Name, fn.ReturnType.Name)
	}
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		if w.ctx.isInterfaceStruct(p.Type.Name) {
			w.logger.Warnf("%s: parameter %q of function %q has interface struct type %s, which is not declared", p.Span.Start, p.Name, fn.Name, p.Type.Name)
		}
		var sb strings.Builder
		if p.Const {
			sb.WriteString("const ")
		}
		if p.Qualifier != "" {
			sb.WriteString(p.Qualifier)
			sb.WriteByte(' ')
		}
		sb.WriteString(w.typeName(p.Type))
		if p.Name != "" {
			sb.WriteByte(' ')
			sb.WriteString(w.dialect.escape(p.Name))
		}
		suffix, err := w.arraySuffix(p.ArraySize)
		if err != nil {
			return "", err
		}
		sb.WriteString(suffix)
		params = append(params, sb.String())
	}
	return w.typeName(fn.ReturnType) + " " + w.dialect.escape(fn.Name) + "(" + strings.Join(params, ", ") + ")", nil
}

// functionDeclaration formats a prototype, or a definition with its body.
func (w *Writer) functionDeclaration(fn *syntax.FunctionDecl) (string, error) {
	header, err := w.functionHeader(fn)
	if err != nil {
		return "", err
	}
	if fn.Body == nil {
		return header + ";", nil
	}
	w.scope = fn.Scope
	w.writeLine("%s {", header)
	w.pushIndent()
	if err := w.writeStatementList(fn.Body.List); err != nil {
		return "", err
	}
	w.popIndent()
	w.writeLine("}")
	return strings.TrimSuffix(w.String(), "\n"), nil
}
