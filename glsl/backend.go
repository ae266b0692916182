// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shaderlab/logging"
)

// Backend selects the target GLSL dialect.
type Backend uint8

const (
	// GLES100 targets GLSL ES 1.00 (WebGL 1.0).
	GLES100 Backend = iota
	// GLES300 targets GLSL ES 3.00 (WebGL 2.0).
	GLES300
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case GLES100:
		return "GLES100"
	case GLES300:
		return "GLES300"
	}
	return fmt.Sprintf("Backend(%d)", uint8(b))
}

// ParseBackend parses a backend name such as "GLES300" or "gles100".
func ParseBackend(name string) (Backend, error) {
	switch strings.ToUpper(name) {
	case "GLES100":
		return GLES100, nil
	case "GLES300":
		return GLES300, nil
	}
	return 0, fmt.Errorf("unknown backend %q", name)
}

// Stage is the shading stage being generated.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// Extension is a "#extension name : behavior" directive carried over from
// the preprocessed source.
type Extension struct {
	Name     string
	Behavior string
}

// Options configures GLSL generation.
type Options struct {
	// Backend is the target dialect.
	Backend Backend

	// Extensions are re-emitted after the version header of every stage.
	Extensions []Extension

	// Library resolves UsePass paths that do not name a pass of the shader
	// being generated. May be nil.
	Library PassLibrary

	// Logger receives soft errors and warnings. Nil discards them.
	Logger *logging.Logger

	// StrictInterface turns references to undeclared attribute or varying
	// fields into hard errors instead of logged errors.
	StrictInterface bool
}

// dialect holds the differences between the GLES backends.
type dialect interface {
	version() string
	attribute(decl string) string
	varying(stage Stage, decl string) string
	// qualifier maps a storage qualifier written on a global variable.
	qualifier(stage Stage, q string) string
	// function renames a builtin function.
	function(stage Stage, name string) string
	// variable renames a builtin variable, noting outputs it needs declared.
	variable(ctx *stageContext, name string) string
	outputs(ctx *stageContext) []string
	keepExtension(name string) bool
	escape(name string) string
}

func newDialect(b Backend) dialect {
	if b == GLES300 {
		return gles300{}
	}
	return gles100{}
}

// gles100 emits GLSL ES 1.00 unchanged.
type gles100 struct{}

func (gles100) version() string { return "#version 100 es" }

func (gles100) attribute(decl string) string { return "attribute " + decl }

func (gles100) varying(_ Stage, decl string) string { return "varying " + decl }

func (gles100) qualifier(_ Stage, q string) string { return q }

func (gles100) function(_ Stage, name string) string { return name }

func (gles100) variable(_ *stageContext, name string) string { return name }

func (gles100) outputs(*stageContext) []string { return nil }

func (gles100) keepExtension(string) bool { return true }

func (gles100) escape(name string) string { return name }

// gles300 rewrites ES 1.00 builtins to their ES 3.00 forms.
type gles300 struct{}

var es300Functions = map[string]string{
	"texture2D":     "texture",
	"textureCube":   "texture",
	"texture2DProj": "textureProj",
}

var es300VertexFunctions = map[string]string{
	"texture2DLod":     "textureLod",
	"texture2DProjLod": "textureProjLod",
	"textureCubeLod":   "textureLod",
}

var es300FragmentFunctions = map[string]string{
	"texture2DLodEXT":      "textureLod",
	"texture2DProjLodEXT":  "textureProjLod",
	"textureCubeLodEXT":    "textureLod",
	"texture2DGradEXT":     "textureGrad",
	"texture2DProjGradEXT": "textureProjGrad",
	"textureCubeGradEXT":   "textureGrad",
}

// Extensions whose functionality is core in GLSL ES 3.00.
var es300CoreExtensions = map[string]bool{
	"GL_EXT_shader_texture_lod":   true,
	"GL_OES_standard_derivatives": true,
	"GL_EXT_frag_depth":           true,
	"GL_EXT_draw_buffers":         true,
}

const (
	fragColorOutput = "glFragColor"
	fragDataOutput  = "glFragData"
)

func (gles300) version() string { return "#version 300 es" }

func (gles300) attribute(decl string) string { return "in " + decl }

func (gles300) varying(stage Stage, decl string) string {
	if stage == StageVertex {
		return "out " + decl
	}
	return "in " + decl
}

func (gles300) qualifier(stage Stage, q string) string {
	switch q {
	case "attribute":
		return "in"
	case "varying":
		if stage == StageVertex {
			return "out"
		}
		return "in"
	}
	return q
}

func (gles300) function(stage Stage, name string) string {
	if renamed, ok := es300Functions[name]; ok {
		return renamed
	}
	table := es300VertexFunctions
	if stage == StageFragment {
		table = es300FragmentFunctions
	}
	if renamed, ok := table[name]; ok {
		return renamed
	}
	return name
}

func (gles300) variable(ctx *stageContext, name string) string {
	switch name {
	case "gl_FragDepthEXT":
		return "gl_FragDepth"
	case "gl_FragColor":
		if ctx.stage == StageFragment {
			ctx.fragColor = true
			return fragColorOutput
		}
	case "gl_FragData":
		if ctx.stage == StageFragment {
			ctx.fragData = true
			return fragDataOutput
		}
	}
	return name
}

func (gles300) outputs(ctx *stageContext) []string {
	var out []string
	if ctx.fragColor {
		out = append(out, "layout(location = 0) out vec4 "+fragColorOutput+";")
	}
	if ctx.fragData {
		out = append(out, "out vec4 "+fragDataOutput+"[gl_MaxDrawBuffers];")
	}
	return out
}

func (gles300) keepExtension(name string) bool { return !es300CoreExtensions[name] }

func (gles300) escape(name string) string { return escapeKeyword(name) }
