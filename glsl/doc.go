// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl generates GLSL ES source for the passes of a parsed shader.
//
// Each pass produces a vertex and a fragment program. The vertex entry's
// return struct is the varying struct: its fields become varying
// declarations and "o.uv" becomes "uv". Struct parameters of the vertex
// entry are flattened into one attribute per field the same way.
//
// Only what the entry points reach is emitted. Referenced uniforms, structs
// and functions are collected to a fixed point and written in source order,
// so unused declarations never appear in the output and generating twice
// gives identical text.
//
// Two dialects are supported:
//
//   - GLES100: GLSL ES 1.00 (WebGL 1.0), attribute/varying declarations
//   - GLES300: GLSL ES 3.00 (WebGL 2.0), in/out declarations, texture2D and
//     friends renamed to texture, gl_FragColor replaced by a layout output
//
// # Basic Usage
//
//	shader, err := syntax.Parse(src, syntax.Options{})
//	result, err := glsl.Generate(shader, glsl.Options{Backend: glsl.GLES300})
//	for _, sub := range result.SubShaders {
//	    for _, pass := range sub.Passes {
//	        compile(pass.VertexSource, pass.FragmentSource)
//	    }
//	}
//
// # Reserved Words
//
// Under GLES300, locals, parameters and functions whose names became
// reserved in ES 3.00 are prefixed with an underscore. Uniform, attribute
// and varying names are part of the program interface and are never
// renamed.
package glsl
