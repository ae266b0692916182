package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml"

	"github.com/gogpu/shaderlab"
	"github.com/gogpu/shaderlab/renderstate"
)

func TestLoadIncludes(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"common.glsl":       "uniform mat4 u_mvp;",
		"lighting/pbr.glsl": "float pbr() { return 1.0; }",
	}
	for name, text := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	includes, err := loadIncludes(dir)
	if err != nil {
		t.Fatalf("loadIncludes failed: %v", err)
	}
	if len(includes) != 2 {
		t.Fatalf("got %d includes, want 2: %v", len(includes), includes)
	}
	if got := includes["common"]; got != files["common.glsl"] {
		t.Errorf("common = %q", got)
	}
	if got := includes["lighting/pbr"]; got != files["lighting/pbr.glsl"] {
		t.Errorf("lighting/pbr = %q", got)
	}
}

func TestLoadIncludesMissingDir(t *testing.T) {
	if _, err := loadIncludes(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestWriteOutputs(t *testing.T) {
	states := renderstate.NewStates()
	states.Constant["DepthState.Enabled"] = renderstate.Bool(true)
	states.Constant["RenderQueueType"] = renderstate.Enum("RenderQueueType", "Transparent")
	states.Variable["BlendState.Enabled"] = "blendOn"

	pass := &shaderlab.PassResult{
		Name:           "Forward",
		VertexSource:   "void main() {}\n",
		FragmentSource: "void main() { gl_FragColor = vec4(1.0); }\n",
		RenderStates:   states,
		Tags: renderstate.Tags{
			"Queue":       renderstate.Number(2000),
			"LightMode":   renderstate.String("Forward"),
			"Transparent": renderstate.Bool(false),
		},
	}
	result := &shaderlab.ShaderResult{
		Name: "Test/Lit",
		SubShaders: []*shaderlab.SubShaderResult{
			{Name: "Default", Passes: []*shaderlab.PassResult{pass}},
			{Name: "Fallback", Passes: []*shaderlab.PassResult{pass}},
		},
	}

	dir := t.TempDir()
	n, err := writeOutputs(dir, result, shaderlab.GLES300)
	if err != nil {
		t.Fatalf("writeOutputs failed: %v", err)
	}
	if n != 5 {
		t.Errorf("wrote %d files, want 5", n)
	}

	for _, name := range []string{"Default/Forward.vert", "Default/Forward.frag", "Fallback/Forward.frag"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	frag, err := os.ReadFile(filepath.Join(dir, "Default", "Forward.frag"))
	if err != nil {
		t.Fatal(err)
	}
	if string(frag) != pass.FragmentSource {
		t.Errorf("fragment = %q", frag)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.toml"))
	if err != nil {
		t.Fatal(err)
	}
	var m manifestFile
	if err := toml.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest does not decode: %v\n%s", err, data)
	}

	if m.Shader != "Test/Lit" || m.Backend != "GLES300" {
		t.Errorf("header = %q %q", m.Shader, m.Backend)
	}
	if len(m.SubShaders) != 2 || m.SubShaders[1].Name != "Fallback" {
		t.Fatalf("subshaders = %+v", m.SubShaders)
	}
	if len(m.SubShaders[0].Passes) != 1 {
		t.Fatalf("passes = %+v", m.SubShaders[0].Passes)
	}

	mp := m.SubShaders[0].Passes[0]
	if mp.Vertex != "Default/Forward.vert" || mp.Fragment != "Default/Forward.frag" {
		t.Errorf("stage paths = %q %q", mp.Vertex, mp.Fragment)
	}
	wantStates := map[string]string{
		"DepthState.Enabled": "true",
		"RenderQueueType":    "RenderQueueType.Transparent",
	}
	for k, v := range wantStates {
		if mp.States[k] != v {
			t.Errorf("states[%s] = %q, want %q", k, mp.States[k], v)
		}
	}
	if mp.Variables["BlendState.Enabled"] != "blendOn" {
		t.Errorf("variables = %v", mp.Variables)
	}
	wantTags := map[string]string{
		"Queue":       "2000",
		"LightMode":   "Forward",
		"Transparent": "false",
	}
	for k, v := range wantTags {
		if mp.Tags[k] != v {
			t.Errorf("tags[%s] = %q, want %q", k, mp.Tags[k], v)
		}
	}
}

func TestWriteOutputsOmitsEmptyTables(t *testing.T) {
	result := &shaderlab.ShaderResult{
		Name: "Plain",
		SubShaders: []*shaderlab.SubShaderResult{{
			Name:   "Default",
			Passes: []*shaderlab.PassResult{{Name: "Main", RenderStates: renderstate.NewStates()}},
		}},
	}
	dir := t.TempDir()
	if _, err := writeOutputs(dir, result, shaderlab.GLES100); err != nil {
		t.Fatalf("writeOutputs failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.toml"))
	if err != nil {
		t.Fatal(err)
	}
	var m manifestFile
	if err := toml.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest does not decode: %v\n%s", err, data)
	}
	if m.Backend != "GLES100" {
		t.Errorf("backend = %q", m.Backend)
	}
	mp := m.SubShaders[0].Passes[0]
	if mp.States != nil || mp.Variables != nil || mp.Tags != nil {
		t.Errorf("empty tables written:\n%s", data)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Forward", "Forward"},
		{"", "_"},
		{"Lit/Base", "Lit_Base"},
		{`a\b:c`, "a_b_c"},
	}
	for _, tt := range tests {
		if got := fileName(tt.in); got != tt.want {
			t.Errorf("fileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
