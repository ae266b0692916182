// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/shaderlab/renderstate"
	"github.com/gogpu/shaderlab/source"
)

const libraryShader = `Shader "Lib" {
    struct V2F { vec2 uv; };
    SubShader "Default" {
        Pass "Forward" {
            VertexShader = vert;
            FragmentShader = frag;
            V2F vert() { V2F o; o.uv = vec2(0.0); return o; }
            void frag(V2F i) { gl_FragColor = vec4(i.uv, 0.0, 1.0); }
        }
        UsePass "Lib/Default/Forward"
    }
    SubShader "Fallback" {
        UsePass "Lib/Default/Forward"
    }
}`

// =============================================================================
// UsePass Tests
// =============================================================================

func TestGenerate_UsePassSameShader(t *testing.T) {
	result := generate(t, libraryShader, Options{Backend: GLES300})

	forward := result.Pass("Default", "Forward")
	if forward == nil {
		t.Fatal("pass Default/Forward not generated")
	}
	if got := result.SubShaders[0].Passes; len(got) != 2 || got[1] != forward {
		t.Errorf("UsePass in the same sub-shader does not share the pass result")
	}
	if got := result.SubShaders[1].Passes; len(got) != 1 || got[0] != forward {
		t.Errorf("UsePass in another sub-shader does not share the pass result")
	}
}

func TestGenerate_UsePassLibrary(t *testing.T) {
	lib := NewLibrary()
	lib.Register(generate(t, libraryShader, Options{Backend: GLES300}))

	src := `Shader "User" {
    SubShader "Main" {
        UsePass "Lib/Default/Forward"
    }
}`
	result := generate(t, src, Options{Backend: GLES300, Library: lib})
	want, ok := lib.LookupPass(GLES300, "Lib/Default/Forward")
	if !ok {
		t.Fatal("library has no Lib/Default/Forward")
	}
	if got := result.SubShaders[0].Passes[0]; got != want {
		t.Errorf("UsePass through the library does not share the pass result")
	}
}

func TestGenerate_UsePassLibraryPerBackend(t *testing.T) {
	lib := NewLibrary()
	lib.Register(generate(t, libraryShader, Options{Backend: GLES300}))

	src := `Shader "User" {
    SubShader "Main" {
        UsePass "Lib/Default/Forward"
    }
}`
	if _, ok := lib.LookupPass(GLES100, "Lib/Default/Forward"); ok {
		t.Fatal("a GLES300 pass resolves for GLES100")
	}
	err := generateErr(t, src, Options{Backend: GLES100, Library: lib})
	if !strings.Contains(err.Error(), `UsePass "Lib/Default/Forward" does not name a compiled pass`) {
		t.Errorf("unexpected error %v", err)
	}

	lib.Register(generate(t, libraryShader, Options{Backend: GLES100}))
	result := generate(t, src, Options{Backend: GLES100, Library: lib})
	pass := result.SubShaders[0].Passes[0]
	if !strings.HasPrefix(pass.FragmentSource, "#version 100 es") {
		t.Errorf("GLES100 UsePass resolved to:\n%s", pass.FragmentSource)
	}
	gles300, _ := lib.LookupPass(GLES300, "Lib/Default/Forward")
	if pass == gles300 {
		t.Error("GLES100 UsePass shares the GLES300 pass result")
	}
}

func TestGenerate_UsePassUnresolved(t *testing.T) {
	src := `Shader "User" {
    SubShader "Main" {
        UsePass "Missing/Default/Forward"
    }
}`

	for _, opts := range []Options{{}, {Library: NewLibrary()}} {
		err := generateErr(t, src, opts)
		var serr *source.Error
		if !errors.As(err, &serr) {
			t.Fatalf("error %v is not a *source.Error", err)
		}
		if !strings.Contains(serr.Message, `UsePass "Missing/Default/Forward" does not name a compiled pass`) {
			t.Errorf("unexpected message %q", serr.Message)
		}
		if serr.Pos.Line != 3 {
			t.Errorf("error line = %d, want 3", serr.Pos.Line)
		}
	}
}

func TestLibrary_Paths(t *testing.T) {
	var lib Library
	if got := lib.Paths(GLES100); len(got) != 0 {
		t.Errorf("empty library Paths() = %v", got)
	}

	lib.Register(generate(t, libraryShader, Options{Backend: GLES100}))
	lib.Register(&ShaderResult{
		Name:       "Anonymous",
		SubShaders: []*SubShaderResult{{Passes: []*PassResult{{Name: "P"}}}},
	})

	want := []string{"Lib/Default/Forward", "Lib/Fallback/Forward"}
	if got := lib.Paths(GLES100); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths(GLES100) = %v, want %v", got, want)
	}
	if got := lib.Paths(GLES300); len(got) != 0 {
		t.Errorf("Paths(GLES300) = %v, want none", got)
	}
}

func TestLibrary_Concurrent(t *testing.T) {
	lib := NewLibrary()
	pass := &PassResult{Name: "P"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lib.Add(GLES300, "S/Sub/P", pass)
			lib.LookupPass(GLES300, "S/Sub/P")
			lib.Paths(GLES300)
		}()
	}
	wg.Wait()

	if got, ok := lib.LookupPass(GLES300, "S/Sub/P"); !ok || got != pass {
		t.Errorf("LookupPass() = %v, %v", got, ok)
	}
}

// =============================================================================
// Render State and Tag Merge Tests
// =============================================================================

func TestGenerate_MergeStatesAndTags(t *testing.T) {
	src := `Shader "Test" {
    Tags { A = 1, B = 4 }
    RenderState {
        StencilState.Mask = 1;
        StencilState.WriteMask = 4;
    }
    struct V2F { vec2 uv; };
    SubShader "Default" {
        Tags { C = "sub" }
        RenderState { DepthState.Enabled = false; }
        Pass "Main" {
            Tags { A = 2 }
            RenderState {
                StencilState.Mask = 2;
                DepthState.Enabled = true;
            }
            VertexShader = vert;
            FragmentShader = frag;
            V2F vert() { V2F o; o.uv = vec2(0.0); return o; }
            void frag(V2F i) { gl_FragColor = vec4(i.uv, 0.0, 1.0); }
        }
    }
}`

	result := generate(t, src, Options{})
	sub := result.SubShaders[0]
	pass := mainPass(t, result)

	wantSubTags := renderstate.Tags{
		"A": renderstate.Number(1),
		"B": renderstate.Number(4),
		"C": renderstate.String("sub"),
	}
	if !reflect.DeepEqual(sub.Tags, wantSubTags) {
		t.Errorf("sub-shader tags = %v, want %v", sub.Tags, wantSubTags)
	}

	wantTags := renderstate.Tags{
		"A": renderstate.Number(2),
		"B": renderstate.Number(4),
		"C": renderstate.String("sub"),
	}
	if !reflect.DeepEqual(pass.Tags, wantTags) {
		t.Errorf("pass tags = %v, want %v", pass.Tags, wantTags)
	}

	wantStates := map[string]renderstate.Value{
		"StencilState.Mask":      renderstate.Number(2),
		"StencilState.WriteMask": renderstate.Number(4),
		"DepthState.Enabled":     renderstate.Bool(true),
	}
	if !reflect.DeepEqual(pass.RenderStates.Constant, wantStates) {
		t.Errorf("pass render states = %v, want %v", pass.RenderStates.Constant, wantStates)
	}
	if got := sub.RenderStates.Constant["DepthState.Enabled"]; got != renderstate.Bool(false) {
		t.Errorf("sub-shader DepthState.Enabled = %v, want false", got)
	}
}

func TestGenerate_VariableRenderStates(t *testing.T) {
	src := `Shader "Test" {
    bool depthOn;
    struct V2F { vec2 uv; };
    SubShader "Default" {
        RenderState { DepthState.Enabled = depthOn; }
        Pass "Main" {
            RenderState { DepthState.Enabled = true; }
            VertexShader = vert;
            FragmentShader = frag;
            V2F vert() { V2F o; o.uv = vec2(0.0); return o; }
            void frag(V2F i) { gl_FragColor = vec4(i.uv, 0.0, 1.0); }
        }
    }
}`

	result := generate(t, src, Options{})
	sub := result.SubShaders[0]
	if got := sub.RenderStates.Variable["DepthState.Enabled"]; got != "depthOn" {
		t.Errorf("sub-shader variable state = %q, want depthOn", got)
	}

	// The two tables merge independently: the pass constant does not
	// remove the inherited variable reference.
	pass := mainPass(t, result)
	if got := pass.RenderStates.Constant["DepthState.Enabled"]; got != renderstate.Bool(true) {
		t.Errorf("pass constant state = %v, want true", got)
	}
	if got := pass.RenderStates.Variable["DepthState.Enabled"]; got != "depthOn" {
		t.Errorf("pass variable state = %q, want depthOn", got)
	}
}
