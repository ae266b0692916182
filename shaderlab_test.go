package shaderlab

import (
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/gogpu/shaderlab/glsl"
	"github.com/gogpu/shaderlab/logging"
	"github.com/gogpu/shaderlab/renderstate"
	"github.com/gogpu/shaderlab/source"
)

const unlitShader = `Shader "Unlit" {
    #include "common"
    sampler2D tex;
    SubShader "Default" {
        Tags { RenderType = "Opaque" }
        Pass "Forward" {
            VertexShader = vert;
            FragmentShader = frag;
            vec2 a_uv;
            V2F vert() {
                V2F o;
                o.uv = a_uv;
                return o;
            }
            void frag(V2F i) {
                gl_FragColor = texture2D(tex, i.uv);
            }
        }
    }
}`

var unlitIncludes = map[string]string{
	"common": "struct V2F { vec2 uv; };\n",
}

func newTestCompiler(t *testing.T, cfg Config) *ShaderLab {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	sl, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return sl
}

// TestParseShaderGLES300 tests the full pipeline for WebGL 2.0.
func TestParseShaderGLES300(t *testing.T) {
	sl := newTestCompiler(t, Config{})
	result, err := sl.ParseShader(unlitShader, unlitIncludes, GLES300)
	if err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}

	if result.Name != "Unlit" {
		t.Errorf("Name = %q, want Unlit", result.Name)
	}
	pass := result.Pass("Default", "Forward")
	if pass == nil {
		t.Fatal("pass Default/Forward missing")
	}

	for _, want := range []string{"#version 300 es", "in vec2 uv;", "texture(tex, uv)"} {
		if !strings.Contains(pass.FragmentSource, want) {
			t.Errorf("fragment source lacks %q:\n%s", want, pass.FragmentSource)
		}
	}
	if strings.Contains(pass.FragmentSource, "varying") {
		t.Errorf("fragment source declares a varying:\n%s", pass.FragmentSource)
	}
	if !strings.Contains(pass.VertexSource, "out vec2 uv;") {
		t.Errorf("vertex source lacks the varying output:\n%s", pass.VertexSource)
	}
	if got := pass.Tags["RenderType"]; got != renderstate.String("Opaque") {
		t.Errorf("RenderType tag = %v, want \"Opaque\"", got)
	}
}

// TestParseShaderGLES100 tests the full pipeline for WebGL 1.0.
func TestParseShaderGLES100(t *testing.T) {
	sl := newTestCompiler(t, Config{})
	result, err := sl.ParseShader(unlitShader, unlitIncludes, GLES100)
	if err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}

	pass := result.Pass("Default", "Forward")
	for _, want := range []string{"#version 100 es", "varying vec2 uv;", "gl_FragColor = texture2D(tex, uv);"} {
		if !strings.Contains(pass.FragmentSource, want) {
			t.Errorf("fragment source lacks %q:\n%s", want, pass.FragmentSource)
		}
	}
}

func defaultTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Logger = logging.Discard()
	return cfg
}

// TestParseShaderDeterministic tests that repeated calls give identical
// output, with and without a pass library.
func TestParseShaderDeterministic(t *testing.T) {
	configs := map[string]func() Config{
		"NoLibrary": func() Config { return Config{} },
		"Default":   defaultTestConfig,
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			sl := newTestCompiler(t, cfg())
			first, err := sl.ParseShader(unlitShader, unlitIncludes, GLES300)
			if err != nil {
				t.Fatalf("ParseShader failed: %v", err)
			}
			second, err := sl.ParseShader(unlitShader, unlitIncludes, GLES300)
			if err != nil {
				t.Fatalf("ParseShader failed: %v", err)
			}

			a, b := first.Pass("Default", "Forward"), second.Pass("Default", "Forward")
			if a.VertexSource != b.VertexSource || a.FragmentSource != b.FragmentSource {
				t.Error("two compilations of the same source differ")
			}
		})
	}
}

// TestParseShaderIndependentOfOtherBackend tests that compiling for one
// backend does not change the output of another through the library.
func TestParseShaderIndependentOfOtherBackend(t *testing.T) {
	fresh := newTestCompiler(t, defaultTestConfig())
	want, err := fresh.ParseShader(unlitShader, unlitIncludes, GLES100)
	if err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}

	sl := newTestCompiler(t, defaultTestConfig())
	if _, err := sl.ParseShader(unlitShader, unlitIncludes, GLES300); err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}
	got, err := sl.ParseShader(unlitShader, unlitIncludes, GLES100)
	if err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}

	w, g := want.Pass("Default", "Forward"), got.Pass("Default", "Forward")
	if w.VertexSource != g.VertexSource || w.FragmentSource != g.FragmentSource {
		t.Errorf("GLES100 output changed after a GLES300 compilation:\n%s", g.FragmentSource)
	}
}

// TestCrossShaderUsePassPerBackend tests that UsePass through the default
// library only resolves passes compiled for the same backend.
func TestCrossShaderUsePassPerBackend(t *testing.T) {
	const user = `Shader "User" { SubShader "Main" { UsePass "Unlit/Default/Forward" } }`

	sl := newTestCompiler(t, defaultTestConfig())
	if _, err := sl.ParseShader(unlitShader, unlitIncludes, GLES300); err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}
	if _, err := sl.ParseShader(user, nil, GLES100); err == nil {
		t.Fatal("GLES100 UsePass resolved to a pass compiled for GLES300")
	}

	if _, err := sl.ParseShader(unlitShader, unlitIncludes, GLES100); err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}
	for _, tt := range []struct {
		backend Backend
		version string
	}{
		{GLES100, "#version 100 es"},
		{GLES300, "#version 300 es"},
	} {
		result, err := sl.ParseShader(user, nil, tt.backend)
		if err != nil {
			t.Fatalf("%s: ParseShader failed: %v", tt.backend, err)
		}
		pass := result.SubShaders[0].Passes[0]
		for _, src := range []string{pass.VertexSource, pass.FragmentSource} {
			if !strings.HasPrefix(src, tt.version) {
				t.Errorf("%s: UsePass resolved to:\n%s", tt.backend, src)
			}
		}
	}
}

// TestParseShaderConcurrent tests that one compiler can serve many goroutines.
func TestParseShaderConcurrent(t *testing.T) {
	sl := newTestCompiler(t, defaultTestConfig())
	want, err := sl.ParseShader(unlitShader, unlitIncludes, GLES300)
	if err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}
	wantFragment := want.Pass("Default", "Forward").FragmentSource

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := sl.ParseShader(unlitShader, unlitIncludes, GLES300)
			if err != nil {
				errs <- err
				return
			}
			if result.Pass("Default", "Forward").FragmentSource != wantFragment {
				errs <- errors.New("concurrent compilation differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// TestBackendMacros tests the macros predefined per backend.
func TestBackendMacros(t *testing.T) {
	src := `Shader "Macros" {
    struct V2F { vec2 uv; };
    SubShader "Default" {
        Pass "Main" {
            VertexShader = vert;
            FragmentShader = frag;
            V2F vert() { V2F o; o.uv = vec2(0.0); return o; }
            void frag(V2F i) {
#if defined(GL_ES) && defined(GRAPHICS_API_WEBGL2)
                gl_FragColor = vec4(2.0);
#elif defined(GRAPHICS_API_WEBGL1)
                gl_FragColor = vec4(1.0);
#endif
                gl_FragColor.a = SCALE;
            }
        }
    }
}`

	sl := newTestCompiler(t, Config{Macros: map[string]string{"SCALE": "0.5"}})
	tests := []struct {
		backend Backend
		want    string
	}{
		{GLES100, "gl_FragColor = vec4(1.0);"},
		{GLES300, "glFragColor = vec4(2.0);"},
	}

	for _, tt := range tests {
		t.Run(tt.backend.String(), func(t *testing.T) {
			result, err := sl.ParseShader(src, nil, tt.backend)
			if err != nil {
				t.Fatalf("ParseShader failed: %v", err)
			}
			fs := result.Pass("Default", "Main").FragmentSource
			if !strings.Contains(fs, tt.want) {
				t.Errorf("fragment source lacks %q:\n%s", tt.want, fs)
			}
			if !strings.Contains(fs, ".a = 0.5;") {
				t.Errorf("configured macro not expanded:\n%s", fs)
			}
		})
	}
}

// TestExtensions tests that #extension directives reach the output.
func TestExtensions(t *testing.T) {
	src := "#extension GL_OES_standard_derivatives : enable\n" + strings.Replace(unlitShader,
		"texture2D(tex, i.uv)", "texture2D(tex, i.uv) * dFdx(i.uv.x)", 1)

	sl := newTestCompiler(t, Config{})
	es1, err := sl.ParseShader(src, unlitIncludes, GLES100)
	if err != nil {
		t.Fatalf("ParseShader GLES100 failed: %v", err)
	}
	es3, err := sl.ParseShader(src, unlitIncludes, GLES300)
	if err != nil {
		t.Fatalf("ParseShader GLES300 failed: %v", err)
	}

	if fs := es1.Pass("Default", "Forward").FragmentSource; !strings.Contains(fs, "#extension GL_OES_standard_derivatives : enable") {
		t.Errorf("GLES100 output lacks the extension:\n%s", fs)
	}
	if fs := es3.Pass("Default", "Forward").FragmentSource; strings.Contains(fs, "#extension") {
		t.Errorf("GLES300 output keeps a core extension:\n%s", fs)
	}
}

// TestCrossShaderUsePass tests UsePass through the configured library.
func TestCrossShaderUsePass(t *testing.T) {
	sl := newTestCompiler(t, Config{Library: glsl.NewLibrary()})
	base, err := sl.ParseShader(unlitShader, unlitIncludes, GLES300)
	if err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}

	user, err := sl.ParseShader(`Shader "User" {
    SubShader "Default" {
        UsePass "Unlit/Default/Forward"
    }
}`, nil, GLES300)
	if err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}
	if user.SubShaders[0].Passes[0] != base.Pass("Default", "Forward") {
		t.Error("UsePass did not return the compiled pass")
	}

	// Without a library the reference cannot be resolved.
	isolated := newTestCompiler(t, Config{})
	if _, err := isolated.ParseShader(`Shader "User" { SubShader "Default" { UsePass "Unlit/Default/Forward" } }`, nil, GLES300); err == nil {
		t.Error("expected an unresolved UsePass error")
	}
}

// TestErrorPositions tests that errors point into the authored text.
func TestErrorPositions(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		includes map[string]string
		file     string
		line     int
		column   int
		prefix   string
	}{
		{
			name:   "parse error in main source",
			src:    "#define UNUSED 1\nShader \"s\" {\n    float x;\n    float x;\n}",
			line:   4,
			column: 11,
			prefix: "parse error",
		},
		{
			name:     "parse error in include chunk",
			src:      "Shader \"s\" {\n#include \"common\"\n}",
			includes: map[string]string{"common": "float y;\nfloat y;\n"},
			file:     "common",
			line:     2,
			column:   7,
			prefix:   "parse error",
		},
		{
			name:   "preprocessor error",
			src:    "Shader \"s\" {\n#include \"missing\"\n}",
			line:   2,
			column: 1,
			prefix: "preprocessing error",
		},
		{
			name: "generation error",
			src: `Shader "s" {
    SubShader "Default" {
        UsePass "Nope/Default/Forward"
    }
}`,
			line:   3,
			column: 9,
			prefix: "code generation error",
		},
	}

	sl := newTestCompiler(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sl.ParseShader(tt.src, tt.includes, GLES300)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.HasPrefix(err.Error(), tt.prefix+": ") {
				t.Errorf("error %q does not start with %q", err, tt.prefix)
			}

			serr, ok := errors.Cause(err).(*source.Error)
			if !ok {
				t.Fatalf("cause %T is not a *source.Error", errors.Cause(err))
			}
			if serr.File != tt.file || serr.Pos.Line != tt.line || serr.Pos.Column != tt.column {
				t.Errorf("error at %q %d:%d, want %q %d:%d",
					serr.File, serr.Pos.Line, serr.Pos.Column, tt.file, tt.line, tt.column)
			}
			if serr.Source == "" {
				t.Error("error carries no source text")
			}
		})
	}
}

// TestNewValidatesRegistry tests registry validation at construction.
func TestNewValidatesRegistry(t *testing.T) {
	bad := &renderstate.Registry{
		StateKeys: map[string]renderstate.StateKey{
			"Blend.Mode": {Type: "enum", Enum: "Missing"},
		},
		Enums: map[string][]string{},
	}
	if _, err := New(Config{Registry: bad, Logger: logging.Discard()}); err == nil {
		t.Fatal("expected New to reject the registry")
	}
}

// TestRegistryIsCopied tests that later changes to the configured registry
// do not reach the compiler.
func TestRegistryIsCopied(t *testing.T) {
	reg := renderstate.DefaultRegistry()
	sl := newTestCompiler(t, Config{Registry: reg})
	delete(reg.StateKeys, "DepthState.Enabled")

	src := `Shader "s" { RenderState { DepthState.Enabled = false; } }`
	result, err := sl.ParseShader(src, nil, GLES100)
	if err != nil {
		t.Fatalf("ParseShader failed: %v", err)
	}
	if result.Name != "s" {
		t.Errorf("Name = %q, want s", result.Name)
	}
}

// TestStrictInterface tests that the option reaches the generator.
func TestStrictInterface(t *testing.T) {
	src := strings.Replace(unlitShader, "o.uv = a_uv;", "o.uv = a_uv;\n                o.fog = 1.0;", 1)

	lenient := newTestCompiler(t, Config{})
	if _, err := lenient.ParseShader(src, unlitIncludes, GLES300); err != nil {
		t.Fatalf("lenient ParseShader failed: %v", err)
	}

	strict := newTestCompiler(t, Config{StrictInterface: true})
	_, err := strict.ParseShader(src, unlitIncludes, GLES300)
	var serr *source.Error
	if !errors.As(err, &serr) {
		t.Fatalf("strict ParseShader error = %v, want a *source.Error", err)
	}
	if !strings.Contains(serr.Message, `varying "fog" is not declared`) {
		t.Errorf("unexpected message %q", serr.Message)
	}
}

// TestStageHelpers tests the individual pipeline stages.
func TestStageHelpers(t *testing.T) {
	sl := newTestCompiler(t, Config{})
	pre, err := sl.Preprocess(unlitShader, unlitIncludes, GLES100)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if strings.Contains(pre.Text, "#include") || !strings.Contains(pre.Text, "struct V2F") {
		t.Errorf("include not expanded:\n%s", pre.Text)
	}

	shader, err := sl.Parse(pre)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(shader.SubShaders) != 1 {
		t.Fatalf("got %d sub-shaders, want 1", len(shader.SubShaders))
	}

	result, err := sl.Generate(shader, pre, GLES100)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Pass("Default", "Forward") == nil {
		t.Error("pass Default/Forward missing")
	}
}
