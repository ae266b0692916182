// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/shaderlab/syntax"
)

// writeStatementList writes the head statement, then the rest of the list.
func (w *Writer) writeStatementList(list *syntax.StatementList) error {
	for ; list != nil; list = list.Tail {
		if err := w.writeStatement(list.Head); err != nil {
			return err
		}
	}
	return nil
}

// writeBlock writes the statements of a block in the block's scope.
func (w *Writer) writeBlock(block *syntax.BlockStmt) error {
	outer := w.scope
	w.scope = block.Scope
	defer func() { w.scope = outer }()
	return w.writeStatementList(block.List)
}

// writeBody writes the body of a branch or loop, which is always braced
// in the output.
func (w *Writer) writeBody(stmt syntax.Stmt) error {
	w.pushIndent()
	defer w.popIndent()
	if block, ok := stmt.(*syntax.BlockStmt); ok {
		return w.writeBlock(block)
	}
	return w.writeStatement(stmt)
}

// writeStatement writes a single statement.
func (w *Writer) writeStatement(stmt syntax.Stmt) error {
	switch s := stmt.(type) {
	case *syntax.BlockStmt:
		w.writeLine("{")
		w.pushIndent()
		if err := w.writeBlock(s); err != nil {
			return err
		}
		w.popIndent()
		w.writeLine("}")
		return nil

	case *syntax.VarDecl:
		return w.writeLocalDecl(s)

	case *syntax.PrecisionDecl:
		w.writeLine("precision %s %s;", s.Precision, s.Type)
		return nil

	case *syntax.ExprStmt:
		expr, err := w.expression(s.Expr)
		if err != nil {
			return err
		}
		w.writeLine("%s;", expr)
		return nil

	case *syntax.IfStmt:
		return w.writeIf(s, "")

	case *syntax.ForStmt:
		return w.writeFor(s)

	case *syntax.WhileStmt:
		cond, err := w.expression(s.Condition)
		if err != nil {
			return err
		}
		w.writeLine("while (%s) {", cond)
		if err := w.writeBody(s.Body); err != nil {
			return err
		}
		w.writeLine("}")
		return nil

	case *syntax.DoWhileStmt:
		w.writeLine("do {")
		if err := w.writeBody(s.Body); err != nil {
			return err
		}
		cond, err := w.expression(s.Condition)
		if err != nil {
			return err
		}
		w.writeLine("} while (%s);", cond)
		return nil

	case *syntax.ReturnStmt:
		return w.writeReturn(s)

	case *syntax.BreakStmt:
		w.writeLine("break;")
		return nil

	case *syntax.ContinueStmt:
		w.writeLine("continue;")
		return nil

	case *syntax.DiscardStmt:
		w.writeLine("discard;")
		return nil

	case *syntax.EmptyStmt:
		w.writeLine(";")
		return nil

	default:
		return fmt.Errorf("unsupported statement: %T", stmt)
	}
}

// writeLocalDecl writes a local declaration. Variables of the varying
// struct type are not declared: their fields are the varyings. An
// initializer of such a variable is dropped with a warning.
func (w *Writer) writeLocalDecl(d *syntax.VarDecl) error {
	if w.ctx.varying != nil && d.Type.Name == w.ctx.varying.Name {
		for _, decl := range d.Declarators {
			if decl.Init != nil {
				w.logger.Warnf("%s: initializer of varying struct variable %q is dropped; assign its fields instead", decl.Span.Start, decl.Name)
			}
		}
		return nil
	}
	text, err := w.localDeclaration(d)
	if err != nil {
		return err
	}
	w.writeLine("%s;", text)
	return nil
}

// writeIf writes an if statement; else-if chains continue on the closing
// brace line.
func (w *Writer) writeIf(s *syntax.IfStmt, prefix string) error {
	cond, err := w.expression(s.Condition)
	if err != nil {
		return err
	}
	w.writeLine("%sif (%s) {", prefix, cond)
	if err := w.writeBody(s.Then); err != nil {
		return err
	}

	switch e := s.Else.(type) {
	case nil:
	case *syntax.IfStmt:
		return w.writeIf(e, "} else ")
	default:
		w.writeLine("} else {")
		if err := w.writeBody(e); err != nil {
			return err
		}
	}
	w.writeLine("}")
	return nil
}

func (w *Writer) writeFor(s *syntax.ForStmt) error {
	outer := w.scope
	w.scope = s.Scope
	defer func() { w.scope = outer }()

	var init string
	var err error
	switch i := s.Init.(type) {
	case *syntax.VarDecl:
		init, err = w.localDeclaration(i)
	case *syntax.ExprStmt:
		init, err = w.expression(i.Expr)
	}
	if err != nil {
		return err
	}

	var cond, update string
	if s.Condition != nil {
		if cond, err = w.expression(s.Condition); err != nil {
			return err
		}
		cond = " " + cond
	}
	if s.Update != nil {
		if update, err = w.expression(s.Update); err != nil {
			return err
		}
		update = " " + update
	}

	w.writeLine("for (%s;%s;%s) {", init, cond, update)
	if err := w.writeBody(s.Body); err != nil {
		return err
	}
	w.writeLine("}")
	return nil
}

// writeReturn writes a return statement. In the vertex main, returning the
// varying struct only ends the function: the final one is dropped and
// earlier ones become a bare return.
func (w *Writer) writeReturn(ret *syntax.ReturnStmt) error {
	if ret.Value == nil {
		w.writeLine("return;")
		return nil
	}
	if w.entry != nil && w.ctx.varying != nil &&
		syntax.TypeOf(w.symbols, w.scope, ret.Value) == w.ctx.varying.Name {
		if syntax.Stmt(ret) != w.entryLast {
			w.writeLine("return;")
		}
		return nil
	}
	value, err := w.expression(ret.Value)
	if err != nil {
		return err
	}
	w.writeLine("return %s;", value)
	return nil
}
