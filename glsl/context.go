// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/shaderlab/source"
	"github.com/gogpu/shaderlab/syntax"
)

// attribute is one declared vertex input: a field of an attribute struct
// or a plain vertex entry parameter.
type attribute struct {
	name      string
	typ       *syntax.TypeSpec
	arraySize syntax.Expr
	pos       source.Position
}

// nameSet is an insertion-ordered set of names.
type nameSet struct {
	seen  map[string]bool
	names []string
}

func (s *nameSet) add(name string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if !s.seen[name] {
		s.seen[name] = true
		s.names = append(s.names, name)
	}
}

func (s *nameSet) has(name string) bool { return s.seen[name] }

// stageContext accumulates what one stage walk references. A new context
// is built for every stage of every pass.
type stageContext struct {
	stage Stage

	// Declared interface of the pass.
	attributes       []*attribute
	attributeStructs map[string]*syntax.StructDecl
	attributeParams  map[*syntax.ParamDecl]bool
	varying          *syntax.StructDecl

	// Reference sets filled while generating.
	referencedAttributes nameSet
	referencedVaryings   nameSet
	referencedGlobals    []*syntax.Symbol
	globalSeen           map[*syntax.Symbol]bool

	// GLES300 fragment outputs in use.
	fragColor bool
	fragData  bool
}

func newStageContext(stage Stage, varying *syntax.StructDecl) *stageContext {
	return &stageContext{
		stage:            stage,
		varying:          varying,
		attributeStructs: make(map[string]*syntax.StructDecl),
		attributeParams:  make(map[*syntax.ParamDecl]bool),
		globalSeen:       make(map[*syntax.Symbol]bool),
	}
}

// attribute returns the declared attribute called name, or nil.
func (c *stageContext) attribute(name string) *attribute {
	for _, a := range c.attributes {
		if a.name == name {
			return a
		}
	}
	return nil
}

// isInterfaceStruct reports whether a struct type stands for the varying
// or attribute interface rather than a GLSL struct.
func (c *stageContext) isInterfaceStruct(name string) bool {
	if c.varying != nil && c.varying.Name == name {
		return true
	}
	_, ok := c.attributeStructs[name]
	return ok
}

// referenceGlobal records a global symbol for the closure.
func (c *stageContext) referenceGlobal(sym *syntax.Symbol) {
	if sym == nil || !sym.Global || c.globalSeen[sym] {
		return
	}
	if sym.Kind == syntax.SymbolStruct && c.isInterfaceStruct(sym.Name) {
		return
	}
	c.globalSeen[sym] = true
	c.referencedGlobals = append(c.referencedGlobals, sym)
}
