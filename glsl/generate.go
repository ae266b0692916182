// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/shaderlab/logging"
	"github.com/gogpu/shaderlab/renderstate"
	"github.com/gogpu/shaderlab/source"
	"github.com/gogpu/shaderlab/syntax"
)

// ShaderResult is the generated code of a shader for one backend.
type ShaderResult struct {
	Name       string
	Backend    Backend
	SubShaders []*SubShaderResult
}

// SubShaderResult holds the passes of a sub-shader. Tags and RenderStates
// are merged over the shader's.
type SubShaderResult struct {
	Name         string
	Tags         renderstate.Tags
	RenderStates renderstate.States
	Passes       []*PassResult
}

// PassResult is one compiled pass. A pass reached through UsePass is the
// same *PassResult as the pass it names.
type PassResult struct {
	Name           string
	VertexSource   string
	FragmentSource string
	RenderStates   renderstate.States
	Tags           renderstate.Tags
}

// Pass returns the pass called name in the sub-shader called subShader, or
// nil.
func (r *ShaderResult) Pass(subShader, name string) *PassResult {
	for _, sub := range r.SubShaders {
		if sub.Name != subShader {
			continue
		}
		for _, p := range sub.Passes {
			if p.Name == name {
				return p
			}
		}
	}
	return nil
}

// generator generates the passes of one shader.
type generator struct {
	shader  *syntax.Shader
	options *Options
	dialect dialect
	logger  *logging.Logger

	// passes compiled so far, by "Shader/SubShader/Pass" path
	compiled map[string]*PassResult
}

// Generate produces GLSL for every pass of shader. The shader is not
// modified, so it can be generated again for another backend.
func Generate(shader *syntax.Shader, options Options) (*ShaderResult, error) {
	logger := options.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	g := &generator{
		shader:   shader,
		options:  &options,
		dialect:  newDialect(options.Backend),
		logger:   logger,
		compiled: make(map[string]*PassResult),
	}

	result := &ShaderResult{Name: shader.Name, Backend: options.Backend}
	for _, sub := range shader.SubShaders {
		sr := &SubShaderResult{
			Name:         sub.Name,
			Tags:         renderstate.MergeTags(shader.Tags, sub.Tags),
			RenderStates: renderstate.Merge(shader.RenderStates, sub.RenderStates),
		}
		for _, item := range sub.Passes {
			var pr *PassResult
			var err error
			switch item := item.(type) {
			case *syntax.Pass:
				pr, err = g.pass(sub, item, sr)
			case *syntax.UsePass:
				pr, err = g.usePass(item)
			}
			if err != nil {
				return nil, err
			}
			sr.Passes = append(sr.Passes, pr)
		}
		result.SubShaders = append(result.SubShaders, sr)
	}
	return result, nil
}

func passPath(shader, sub, pass string) string {
	return shader + "/" + sub + "/" + pass
}

// pass generates both stages of a pass.
func (g *generator) pass(sub *syntax.SubShader, pass *syntax.Pass, parent *SubShaderResult) (*PassResult, error) {
	varying, err := g.varyingStruct(pass.Vertex)
	if err != nil {
		return nil, err
	}
	precisions := g.precisions(sub, pass)

	vctx := newStageContext(StageVertex, varying)
	if err := g.collectAttributes(vctx, pass.Vertex); err != nil {
		return nil, err
	}
	vertex, err := newWriter(g.shader.Symbols, g.options, g.dialect, g.logger, vctx).writeStage(pass.Vertex, precisions)
	if err != nil {
		return nil, err
	}

	fctx := newStageContext(StageFragment, varying)
	if err := g.checkFragmentEntry(pass.Fragment, varying); err != nil {
		return nil, err
	}
	fragment, err := newWriter(g.shader.Symbols, g.options, g.dialect, g.logger, fctx).writeStage(pass.Fragment, precisions)
	if err != nil {
		return nil, err
	}

	result := &PassResult{
		Name:           pass.Name,
		VertexSource:   vertex,
		FragmentSource: fragment,
		RenderStates:   renderstate.Merge(parent.RenderStates, pass.RenderStates),
		Tags:           renderstate.MergeTags(parent.Tags, pass.Tags),
	}
	path := passPath(g.shader.Name, sub.Name, pass.Name)
	if _, ok := g.compiled[path]; !ok {
		g.compiled[path] = result
	}
	g.logger.Infof("generated pass %s (%s)", path, g.options.Backend)
	return result, nil
}

// usePass resolves a UsePass reference, first among the passes already
// generated for this shader, then in the library.
func (g *generator) usePass(use *syntax.UsePass) (*PassResult, error) {
	if pr, ok := g.compiled[use.Path]; ok {
		return pr, nil
	}
	if g.options.Library != nil {
		if pr, ok := g.options.Library.LookupPass(g.options.Backend, use.Path); ok {
			return pr, nil
		}
	}
	return nil, source.Errorf(use.Span.Start, "UsePass %q does not name a compiled pass", use.Path)
}

// varyingStruct resolves the vertex entry's return type, which must be a
// struct.
func (g *generator) varyingStruct(vertex *syntax.FunctionDecl) (*syntax.StructDecl, error) {
	ret := vertex.ReturnType
	sym := g.shader.Symbols.Lookup(ret.Scope, ret.Name, syntax.SymbolStruct)
	if sym == nil {
		return nil, source.Errorf(ret.Span.Start, "vertex entry %q must return a struct, got %s", vertex.Name, ret.Name)
	}
	return sym.Struct, nil
}

// collectAttributes flattens the vertex entry parameters into attributes:
// struct parameters contribute their fields, others themselves.
func (g *generator) collectAttributes(ctx *stageContext, vertex *syntax.FunctionDecl) error {
	add := func(a *attribute) error {
		if ctx.attribute(a.name) != nil {
			return source.Errorf(a.pos, "duplicate vertex attribute %q", a.name)
		}
		ctx.attributes = append(ctx.attributes, a)
		return nil
	}

	for _, p := range vertex.Params {
		if sym := g.shader.Symbols.Lookup(p.Type.Scope, p.Type.Name, syntax.SymbolStruct); sym != nil {
			ctx.attributeStructs[sym.Name] = sym.Struct
			for _, f := range sym.Struct.Fields {
				if err := add(&attribute{name: f.Name, typ: f.Type, arraySize: f.ArraySize, pos: f.Span.Start}); err != nil {
					return err
				}
			}
			continue
		}
		if p.Name == "" {
			continue
		}
		ctx.attributeParams[p] = true
		if err := add(&attribute{name: p.Name, typ: p.Type, arraySize: p.ArraySize, pos: p.Span.Start}); err != nil {
			return err
		}
	}
	return nil
}

// checkFragmentEntry validates the fragment entry against the varying
// struct. Parameters that are not structs are ignored with a warning.
func (g *generator) checkFragmentEntry(fragment *syntax.FunctionDecl, varying *syntax.StructDecl) error {
	if ret := fragment.ReturnType; ret.Name != "void" {
		return source.Errorf(ret.Span.Start, "fragment entry %q must return void, got %s", fragment.Name, ret.Name)
	}
	for _, p := range fragment.Params {
		sym := g.shader.Symbols.Lookup(p.Type.Scope, p.Type.Name, syntax.SymbolStruct)
		switch {
		case sym == nil:
			g.logger.Warnf("%s: fragment entry parameter %q is not the varying struct and is ignored", p.Span.Start, p.Name)
		case sym.Struct != varying:
			return source.Errorf(p.Span.Start, "fragment entry %q takes %s but the vertex entry returns %s",
				fragment.Name, sym.Name, varying.Name)
		}
	}
	return nil
}

// precisions returns the precision statements visible to a pass.
func (g *generator) precisions(sub *syntax.SubShader, pass *syntax.Pass) []*syntax.PrecisionDecl {
	var out []*syntax.PrecisionDecl
	for _, decls := range [][]syntax.Decl{g.shader.Decls, sub.Decls, pass.Decls} {
		for _, d := range decls {
			if p, ok := d.(*syntax.PrecisionDecl); ok {
				out = append(out, p)
			}
		}
	}
	return out
}
