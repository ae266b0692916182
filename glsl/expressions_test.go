// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"testing"
)

// fragmentShader wraps a fragment body and extra declarations in a pass
// whose vertex entry only writes the uv varying.
func fragmentShader(decls, body string) string {
	return varyingShader(decls + `
            V2F vert() { V2F o; o.uv = vec2(0.0); return o; }
            void frag(V2F i) {
` + body + `
            }`)
}

// =============================================================================
// Statement Tests
// =============================================================================

func TestGenerate_Statements(t *testing.T) {
	src := fragmentShader("", `
                float acc = 0.0;
                for (int k = 0; k < 4; k++) {
                    if (k == 2) {
                        continue;
                    } else if (k > 2) {
                        break;
                    } else {
                        acc += 1.0;
                    }
                }
                int n = 0;
                while (n < 3) n++;
                do {
                    n--;
                } while (n > 0);
                if (acc < 0.5) discard;
                gl_FragColor = acc > 1.0 ? vec4(i.uv, 0.0, 1.0) : vec4(0.0);`)

	want := `void main() {
    float acc = 0.0;
    for (int k = 0; k < 4; k++) {
        if (k == 2) {
            continue;
        } else if (k > 2) {
            break;
        } else {
            acc += 1.0;
        }
    }
    int n = 0;
    while (n < 3) {
        n++;
    }
    do {
        n--;
    } while (n > 0);
    if (acc < 0.5) {
        discard;
    }
    gl_FragColor = acc > 1.0 ? vec4(uv, 0.0, 1.0) : vec4(0.0);
}
`
	fs := mainPass(t, generate(t, src, Options{Backend: GLES100})).FragmentSource
	if !strings.HasSuffix(fs, want) {
		t.Errorf("fragment source:\n%s\nwant main:\n%s", fs, want)
	}
}

func TestGenerate_ForClauses(t *testing.T) {
	tests := []struct {
		name string
		loop string
		want string
	}{
		{"full", "for (int k = 0; k < 2; ++k) { gl_FragColor.x += 1.0; }", "for (int k = 0; k < 2; ++k) {"},
		{"empty", "for (;;) { break; }", "for (;;) {"},
		{"expression init", "int k; for (k = 0; k < 2;) { k++; }", "for (k = 0; k < 2;) {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mainPass(t, generate(t, fragmentShader("", tt.loop), Options{Backend: GLES100})).FragmentSource
			mustContain(t, fs, "    "+tt.want+"\n")
		})
	}
}

// =============================================================================
// Expression Tests
// =============================================================================

func TestGenerate_Expressions(t *testing.T) {
	tests := []struct {
		name string
		stmt string
		want string
	}{
		{"parentheses kept", "float a = (1.0 + 2.0) * 3.0;", "float a = (1.0 + 2.0) * 3.0;"},
		{"no parentheses added", "float a = 1.0 + 2.0 * 3.0;", "float a = 1.0 + 2.0 * 3.0;"},
		{"unary", "float a = -i.uv.x;", "float a = -uv.x;"},
		{"not", "bool b = !(i.uv.x > 0.5);", "bool b = !(uv.x > 0.5);"},
		{"logical xor", "bool b = true ^^ false;", "bool b = true ^^ false;"},
		{"swizzle", "vec3 v = vec4(1.0).xyz;", "vec3 v = vec4(1.0).xyz;"},
		{"index", "float m[2]; m[1] = 0.0;", "m[1] = 0.0;"},
		{"array declaration", "float m[2];", "float m[2];"},
		{"multiple declarators", "float a = 1.0, b, c = a;", "float a = 1.0, b, c = a;"},
		{"chained assignment", "float a; float b; a = b = 1.0;", "a = b = 1.0;"},
		{"compound", "vec2 v = i.uv; v *= 2.0;", "v *= 2.0;"},
		{"sequence", "float a; float b; a = 1.0, b = 2.0;", "a = 1.0, b = 2.0;"},
		{"constructor", "mat2 m = mat2(1.0, 0.0, 0.0, 1.0);", "mat2 m = mat2(1.0, 0.0, 0.0, 1.0);"},
		{"builtin call", "float d = dot(i.uv, i.uv);", "float d = dot(uv, uv);"},
		{"const local", "const float k = 2.0;", "const float k = 2.0;"},
		{"precision qualified local", "highp float h = 1.0;", "highp float h = 1.0;"},
		{"block", "{ float a = 1.0; }", "    {\n        float a = 1.0;\n    }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mainPass(t, generate(t, fragmentShader("", tt.stmt), Options{Backend: GLES100})).FragmentSource
			mustContain(t, fs, tt.want)
		})
	}
}

// =============================================================================
// Identifier Escaping Tests
// =============================================================================

func TestGenerate_EscapeReservedNames(t *testing.T) {
	decls := `
            uniform float filter;
            float sample(float texture) { return texture * filter; }`
	body := `
                float flat = sample(1.0);
                gl_FragColor = vec4(flat);`
	src := fragmentShader(decls, body)

	t.Run("GLES300", func(t *testing.T) {
		fs := mainPass(t, generate(t, src, Options{Backend: GLES300})).FragmentSource
		mustContain(t, fs, "float _sample(float _texture) {\n    return _texture * filter;\n}")
		mustContain(t, fs, "float _flat = _sample(1.0);")
		mustContain(t, fs, "glFragColor = vec4(_flat);")
		// Uniforms are bound by name and keep it.
		mustContain(t, fs, "uniform float filter;")
	})

	t.Run("GLES100", func(t *testing.T) {
		fs := mainPass(t, generate(t, src, Options{Backend: GLES100})).FragmentSource
		mustContain(t, fs, "float sample(float texture) {")
		mustContain(t, fs, "float flat = sample(1.0);")
		mustNotContain(t, fs, "_sample")
		mustNotContain(t, fs, "_flat")
	})
}

// =============================================================================
// Global Closure Tests
// =============================================================================

func TestGenerate_ClosureOrder(t *testing.T) {
	decls := `
            uniform vec4 tint;
            float scale;
            vec4 applyTint(vec4 c) { return c * tint * scale; }
            sampler2D tex;`
	src := fragmentShader(decls, "gl_FragColor = applyTint(texture2D(tex, i.uv));")

	fs := mainPass(t, generate(t, src, Options{Backend: GLES100})).FragmentSource
	want := `uniform vec4 tint;
uniform float scale;

vec4 applyTint(vec4 c) {
    return c * tint * scale;
}

uniform sampler2D tex;
`
	mustContain(t, fs, want)
}

func TestGenerate_DeadCodeElimination(t *testing.T) {
	decls := `
            struct Unused { float a; };
            uniform vec4 unusedColor;
            float unusedHelper(float x) { return x * 2.0; }
            float usedHelper(float x) { return x + 1.0; }`
	src := fragmentShader(decls, "gl_FragColor = vec4(usedHelper(i.uv.x));")

	pass := mainPass(t, generate(t, src, Options{Backend: GLES300}))
	for _, src := range []string{pass.VertexSource, pass.FragmentSource} {
		mustNotContain(t, src, "Unused")
		mustNotContain(t, src, "unusedColor")
		mustNotContain(t, src, "unusedHelper")
	}
	mustContain(t, pass.FragmentSource, "float usedHelper(float x) {")
	mustNotContain(t, pass.VertexSource, "usedHelper")
}

func TestGenerate_TransitiveClosure(t *testing.T) {
	decls := `
            struct Light { vec3 color; float intensity; };
            uniform Light light;
            const float PI = 3.14159;
            float gain = 2.0;
            float falloff(float d) { return PI * d * gain; }
            vec3 shade(float d) { return light.color * light.intensity * falloff(d); }`
	src := fragmentShader(decls, "gl_FragColor = vec4(shade(i.uv.x), 1.0);")

	fs := mainPass(t, generate(t, src, Options{Backend: GLES100})).FragmentSource
	want := `struct Light {
    vec3 color;
    float intensity;
};

uniform Light light;
const float PI = 3.14159;
float gain = 2.0;

float falloff(float d) {
    return PI * d * gain;
}

vec3 shade(float d) {
    return light.color * light.intensity * falloff(d);
}
`
	mustContain(t, fs, want)
}

func TestGenerate_Precision(t *testing.T) {
	src := `Shader "Test" {
    precision mediump float;
    struct V2F { vec2 uv; };
    SubShader "Default" {
        precision highp int;
        Pass "Main" {
            VertexShader = vert;
            FragmentShader = frag;
            V2F vert() { V2F o; o.uv = vec2(0.0); return o; }
            void frag(V2F i) { gl_FragColor = vec4(i.uv, 0.0, 1.0); }
        }
    }
}`

	pass := mainPass(t, generate(t, src, Options{Backend: GLES300}))
	for _, src := range []string{pass.VertexSource, pass.FragmentSource} {
		mustContain(t, src, "\nprecision mediump float;\nprecision highp int;\n")
	}
}

func TestGenerate_Overloads(t *testing.T) {
	decls := `
            float f(float x) { return x; }
            vec2 f(vec2 x) { return x; }
            vec3 f(vec3 x) { return x; }`

	t.Run("resolved by argument type", func(t *testing.T) {
		src := fragmentShader(decls, "gl_FragColor = vec4(f(i.uv), 0.0, 1.0);")
		fs := mainPass(t, generate(t, src, Options{Backend: GLES100})).FragmentSource
		mustContain(t, fs, "vec2 f(vec2 x) {")
		mustNotContain(t, fs, "float f(float x)")
		mustNotContain(t, fs, "vec3 f(vec3 x)")
	})

	t.Run("unknown argument type keeps every overload", func(t *testing.T) {
		src := fragmentShader(decls, "gl_FragColor = vec4(f(gl_FragCoord.x));")
		fs := mainPass(t, generate(t, src, Options{Backend: GLES100})).FragmentSource
		mustContain(t, fs, "float f(float x) {")
		mustContain(t, fs, "vec2 f(vec2 x) {")
		mustContain(t, fs, "vec3 f(vec3 x) {")
	})
}

func TestGenerate_Prototype(t *testing.T) {
	decls := `
            vec4 shade(vec4 c);
            uniform vec4 tint;
            vec4 shade(vec4 c) { return c * tint; }`
	src := fragmentShader(decls, "gl_FragColor = shade(vec4(i.uv, 0.0, 1.0));")

	fs := mainPass(t, generate(t, src, Options{Backend: GLES100})).FragmentSource
	want := `vec4 shade(vec4 c);
uniform vec4 tint;

vec4 shade(vec4 c) {
    return c * tint;
}
`
	mustContain(t, fs, want)
}

func TestGenerate_ScopedGlobals(t *testing.T) {
	src := `Shader "Test" {
    struct V2F { vec2 uv; };
    float level = 1.0;
    SubShader "Default" {
        float level = 2.0;
        Pass "Main" {
            VertexShader = vert;
            FragmentShader = frag;
            V2F vert() { V2F o; o.uv = vec2(level); return o; }
            void frag(V2F i) { gl_FragColor = vec4(i.uv, 0.0, 1.0); }
        }
    }
}`

	vs := mainPass(t, generate(t, src, Options{Backend: GLES100})).VertexSource
	mustContain(t, vs, "float level = 2.0;")
	mustNotContain(t, vs, "float level = 1.0;")
}
