// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"sort"

	"github.com/gogpu/shaderlab/syntax"
)

// globalEntry is one serialized top-level declaration.
type globalEntry struct {
	pos  int
	text string
}

// closure serializes every global the stage reaches, directly or through
// other globals, and returns the texts ordered by source position.
// Precision statements are always part of the result.
func (w *Writer) closure(precisions []*syntax.PrecisionDecl) ([]string, error) {
	var entries []globalEntry
	for _, p := range precisions {
		entries = append(entries, globalEntry{
			pos:  p.Span.Start.Index,
			text: fmt.Sprintf("precision %s %s;", p.Precision, p.Type),
		})
	}

	// Serializing an entry can reference new globals, which are appended to
	// referencedGlobals. The loop ends when a full pass adds nothing.
	for i := 0; i < len(w.ctx.referencedGlobals); i++ {
		sym := w.ctx.referencedGlobals[i]
		serialized, err := w.serializeGlobal(sym)
		if err != nil {
			return nil, err
		}
		entries = append(entries, serialized...)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.text
	}
	return texts, nil
}

func (w *Writer) serializeGlobal(sym *syntax.Symbol) ([]globalEntry, error) {
	switch sym.Kind {
	case syntax.SymbolVar:
		if sym.Declarator == nil {
			return nil, nil
		}
		text, err := w.sub(sym.Scope).globalDeclaration(sym.Declarator)
		if err != nil {
			return nil, err
		}
		return []globalEntry{{pos: sym.Declarator.Span.Start.Index, text: text}}, nil

	case syntax.SymbolStruct:
		text, err := w.sub(sym.Scope).structDeclaration(sym.Struct)
		if err != nil {
			return nil, err
		}
		return []globalEntry{{pos: sym.Struct.Span.Start.Index, text: text}}, nil

	case syntax.SymbolFunction:
		var out []globalEntry
		for _, fn := range []*syntax.FunctionDecl{sym.Prototype, sym.Function} {
			if fn == nil {
				continue
			}
			text, err := w.sub(sym.Scope).functionDeclaration(fn)
			if err != nil {
				return nil, err
			}
			out = append(out, globalEntry{pos: fn.Span.Start.Index, text: text})
		}
		return out, nil
	}
	return nil, nil
}
