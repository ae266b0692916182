// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"testing"
)

// =============================================================================
// Texture Builtin Renaming Tests
// =============================================================================

const textureShader = `Shader "Test" {
    struct V2F { vec2 uv; };
    sampler2D tex;
    samplerCube cube;
    SubShader "Default" {
        Pass "Main" {
            VertexShader = vert;
            FragmentShader = frag;
            V2F vert(vec2 coord) {
                V2F o;
                o.uv = coord + texture2DLod(tex, coord, 0.0).xy + textureCubeLod(cube, vec3(coord, 1.0), 0.0).xy;
                return o;
            }
            void frag(V2F i) {
                vec4 c = texture2D(tex, i.uv);
                c += textureCube(cube, vec3(i.uv, 1.0));
                c += texture2DProj(tex, vec3(i.uv, 1.0));
                c += texture2DLodEXT(tex, i.uv, 0.0);
                c += texture2DGradEXT(tex, i.uv, vec2(0.0), vec2(0.0));
                gl_FragColor = c;
            }
        }
    }
}`

func TestGenerate_TextureRenaming(t *testing.T) {
	tests := []struct {
		name     string
		backend  Backend
		vertex   []string
		fragment []string
	}{
		{
			name:    "GLES100",
			backend: GLES100,
			vertex: []string{
				"texture2DLod(tex, coord, 0.0)",
				"textureCubeLod(cube, vec3(coord, 1.0), 0.0)",
			},
			fragment: []string{
				"vec4 c = texture2D(tex, uv);",
				"c += textureCube(cube, vec3(uv, 1.0));",
				"c += texture2DProj(tex, vec3(uv, 1.0));",
				"c += texture2DLodEXT(tex, uv, 0.0);",
				"c += texture2DGradEXT(tex, uv, vec2(0.0), vec2(0.0));",
			},
		},
		{
			name:    "GLES300",
			backend: GLES300,
			vertex: []string{
				"textureLod(tex, coord, 0.0)",
				"textureLod(cube, vec3(coord, 1.0), 0.0)",
			},
			fragment: []string{
				"vec4 c = texture(tex, uv);",
				"c += texture(cube, vec3(uv, 1.0));",
				"c += textureProj(tex, vec3(uv, 1.0));",
				"c += textureLod(tex, uv, 0.0);",
				"c += textureGrad(tex, uv, vec2(0.0), vec2(0.0));",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass := mainPass(t, generate(t, textureShader, Options{Backend: tt.backend}))
			for _, want := range tt.vertex {
				mustContain(t, pass.VertexSource, want)
			}
			for _, want := range tt.fragment {
				mustContain(t, pass.FragmentSource, want)
			}
		})
	}
}

func TestGenerate_TextureRenamingIsPerStage(t *testing.T) {
	src := `Shader "Test" {
    struct V2F { vec2 uv; };
    sampler2D tex;
    SubShader "Default" {
        Pass "Main" {
            VertexShader = vert;
            FragmentShader = frag;
            V2F vert(vec2 coord) {
                V2F o;
                o.uv = texture2DLodEXT(tex, coord, 0.0).xy;
                return o;
            }
            void frag(V2F i) { gl_FragColor = texture2DLod(tex, i.uv, 0.0); }
        }
    }
}`

	pass := mainPass(t, generate(t, src, Options{Backend: GLES300}))
	// The EXT forms are fragment-only and the plain Lod forms vertex-only,
	// so neither is renamed in the other stage.
	mustContain(t, pass.VertexSource, "texture2DLodEXT(tex, coord, 0.0)")
	mustContain(t, pass.FragmentSource, "texture2DLod(tex, uv, 0.0)")
}

func TestGenerate_UserFunctionShadowsBuiltin(t *testing.T) {
	src := varyingShader(`
            sampler2D tex;
            vec4 texture2D(sampler2D s, vec2 p, float bias) { return vec4(bias); }
            V2F vert() { V2F o; o.uv = vec2(0.0); return o; }
            void frag(V2F i) {
                gl_FragColor = texture2D(tex, i.uv, 1.0) + texture2D(tex, i.uv);
            }`)

	fs := mainPass(t, generate(t, src, Options{Backend: GLES300})).FragmentSource
	mustContain(t, fs, "vec4 texture2D(sampler2D s, vec2 p, float bias) {")
	mustContain(t, fs, "glFragColor = texture2D(tex, uv, 1.0) + texture(tex, uv);")
}

// =============================================================================
// Fragment Output Tests
// =============================================================================

func TestGenerate_FragmentOutputs(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		backend   Backend
		contains  []string
		forbidden []string
	}{
		{
			name:      "FragColor GLES100",
			body:      "gl_FragColor = vec4(1.0);",
			backend:   GLES100,
			contains:  []string{"gl_FragColor = vec4(1.0);"},
			forbidden: []string{"glFragColor", "layout"},
		},
		{
			name:    "FragColor GLES300",
			body:    "gl_FragColor = vec4(1.0);",
			backend: GLES300,
			contains: []string{
				"layout(location = 0) out vec4 glFragColor;",
				"glFragColor = vec4(1.0);",
			},
			forbidden: []string{"gl_FragColor", "glFragData"},
		},
		{
			name:    "FragData GLES300",
			body:    "gl_FragData[0] = vec4(1.0); gl_FragData[1] = vec4(0.0);",
			backend: GLES300,
			contains: []string{
				"out vec4 glFragData[gl_MaxDrawBuffers];",
				"glFragData[0] = vec4(1.0);",
				"glFragData[1] = vec4(0.0);",
			},
			forbidden: []string{"gl_FragData[", "glFragColor"},
		},
		{
			name:      "FragDepth GLES300",
			body:      "gl_FragColor = vec4(1.0); gl_FragDepthEXT = 0.5;",
			backend:   GLES300,
			contains:  []string{"gl_FragDepth = 0.5;"},
			forbidden: []string{"gl_FragDepthEXT"},
		},
		{
			name:      "FragDepth GLES100",
			body:      "gl_FragColor = vec4(1.0); gl_FragDepthEXT = 0.5;",
			backend:   GLES100,
			contains:  []string{"gl_FragDepthEXT = 0.5;"},
			forbidden: []string{"gl_FragDepth "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := varyingShader(`
            V2F vert() { V2F o; o.uv = vec2(0.0); return o; }
            void frag(V2F i) { ` + tt.body + ` }`)
			fs := mainPass(t, generate(t, src, Options{Backend: tt.backend})).FragmentSource
			for _, want := range tt.contains {
				mustContain(t, fs, want)
			}
			for _, bad := range tt.forbidden {
				mustNotContain(t, fs, bad)
			}
		})
	}
}

func TestGenerate_FragColorInVertexStage(t *testing.T) {
	// Only the fragment stage rewrites gl_FragColor; a vertex reference is
	// left for the GLSL compiler to reject.
	src := varyingShader(`
            V2F vert() { V2F o; o.uv = gl_FragColor.xy; return o; }
            void frag(V2F i) { gl_FragColor = vec4(i.uv, 0.0, 1.0); }`)

	vs := mainPass(t, generate(t, src, Options{Backend: GLES300})).VertexSource
	mustContain(t, vs, "uv = gl_FragColor.xy;")
	mustNotContain(t, vs, "layout(location = 0)")
}
