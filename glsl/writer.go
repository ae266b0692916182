// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shaderlab/logging"
	"github.com/gogpu/shaderlab/source"
	"github.com/gogpu/shaderlab/syntax"
)

// Writer generates the GLSL text of one stage. Nested writers created for
// closure entries share the stage context of their parent.
type Writer struct {
	symbols *syntax.SymbolTable
	options *Options
	dialect dialect
	logger  *logging.Logger
	ctx     *stageContext

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Scope of the code being written
	scope syntax.ScopeID

	// Entry point context (set while writing main)
	entry     *syntax.FunctionDecl
	entryLast syntax.Stmt
}

func newWriter(symbols *syntax.SymbolTable, options *Options, d dialect, logger *logging.Logger, ctx *stageContext) *Writer {
	return &Writer{
		symbols: symbols,
		options: options,
		dialect: d,
		logger:  logger,
		ctx:     ctx,
		scope:   syntax.GlobalScope,
	}
}

// sub returns an empty writer for a closure entry.
func (w *Writer) sub(scope syntax.ScopeID) *Writer {
	return &Writer{
		symbols: w.symbols,
		options: w.options,
		dialect: w.dialect,
		logger:  w.logger,
		ctx:     w.ctx,
		scope:   scope,
	}
}

// String returns the generated text.
func (w *Writer) String() string {
	return w.out.String()
}

// writeStage generates the complete program of the context's stage with
// entry as main.
func (w *Writer) writeStage(entry *syntax.FunctionDecl, precisions []*syntax.PrecisionDecl) (string, error) {
	// 1. Entry point body; records the first references
	if err := w.writeMain(entry); err != nil {
		return "", err
	}

	// 2. Global closure; may record further references
	globals, err := w.closure(precisions)
	if err != nil {
		return "", err
	}

	// 3. Interface declarations, known only once the closure is complete
	iface, err := w.interfaceDeclarations()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(w.dialect.version())
	sb.WriteByte('\n')
	for _, ext := range w.options.Extensions {
		if w.dialect.keepExtension(ext.Name) {
			fmt.Fprintf(&sb, "#extension %s : %s\n", ext.Name, ext.Behavior)
		}
	}
	if len(iface) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(iface, "\n"))
		sb.WriteByte('\n')
	}
	if len(globals) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(joinEntries(globals))
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	sb.WriteString(w.String())
	return sb.String(), nil
}

// writeMain writes entry as "void main()".
func (w *Writer) writeMain(entry *syntax.FunctionDecl) error {
	w.entry = entry
	w.scope = entry.Scope
	defer func() { w.entry = nil }()

	w.writeLine("void main() {")
	w.pushIndent()
	if entry.Body != nil {
		if stmts := entry.Body.List.Slice(); len(stmts) > 0 {
			w.entryLast = stmts[len(stmts)-1]
		}
		if err := w.writeStatementList(entry.Body.List); err != nil {
			return err
		}
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

// interfaceDeclarations returns the attribute, varying and output
// declarations the stage referenced, in declaration order.
func (w *Writer) interfaceDeclarations() ([]string, error) {
	var lines []string
	if w.ctx.stage == StageVertex {
		for _, a := range w.ctx.attributes {
			if !w.ctx.referencedAttributes.has(a.name) {
				continue
			}
			if w.ctx.referencedVaryings.has(a.name) {
				if err := w.interfaceClash(a); err != nil {
					return nil, err
				}
			}
			decl, err := w.variable(a.typ, a.name, a.arraySize)
			if err != nil {
				return nil, err
			}
			lines = append(lines, w.dialect.attribute(decl+";"))
		}
	}
	if v := w.ctx.varying; v != nil {
		for _, f := range v.Fields {
			if !w.ctx.referencedVaryings.has(f.Name) {
				continue
			}
			decl, err := w.variable(f.Type, f.Name, f.ArraySize)
			if err != nil {
				return nil, err
			}
			lines = append(lines, w.dialect.varying(w.ctx.stage, decl+";"))
		}
	}
	return append(lines, w.dialect.outputs(w.ctx)...), nil
}

// undeclared reports a reference to an attribute or varying field the pass
// does not declare.
func (w *Writer) undeclared(kind, name string, pos source.Position) error {
	if w.options.StrictInterface {
		return source.Errorf(pos, "%s %q is not declared", kind, name)
	}
	w.logger.Errorf("%s: %s %q is not declared", pos, kind, name)
	return nil
}

// interfaceClash reports an attribute sharing its name with a referenced
// varying. Both flatten to the same GLSL identifier.
func (w *Writer) interfaceClash(a *attribute) error {
	if w.options.StrictInterface {
		return source.Errorf(a.pos, "attribute %q has the name of a varying", a.name)
	}
	w.logger.Errorf("%s: attribute %q has the name of a varying", a.pos, a.name)
	return nil
}

// joinEntries joins closure entries, separating multi-line entries with a
// blank line.
func joinEntries(entries []string) string {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteByte('\n')
			if strings.Contains(e, "\n") || strings.Contains(entries[i-1], "\n") {
				sb.WriteByte('\n')
			}
		}
		sb.WriteString(e)
	}
	return sb.String()
}

// Output helpers

// writeLine writes a line with indentation and newline.
//
//nolint:goprintffuncname
func (w *Writer) writeLine(format string, args ...any) {
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

// pushIndent increases indentation.
func (w *Writer) pushIndent() {
	w.indent++
}

// popIndent decreases indentation.
func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}
