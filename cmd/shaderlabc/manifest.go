package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/gogpu/shaderlab"
	"github.com/gogpu/shaderlab/renderstate"
)

// manifestFile is the manifest.toml written next to the generated stages.
type manifestFile struct {
	Shader     string              `toml:"shader"`
	Backend    string              `toml:"backend"`
	SubShaders []manifestSubShader `toml:"subshader"`
}

type manifestSubShader struct {
	Name   string         `toml:"name"`
	Passes []manifestPass `toml:"pass"`
}

type manifestPass struct {
	Name     string `toml:"name"`
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`

	// render states with literal values, and the ones bound to variables
	States    map[string]string `toml:"states,omitempty"`
	Variables map[string]string `toml:"variables,omitempty"`
	Tags      map[string]string `toml:"tags,omitempty"`
}

// writeOutputs writes the stages of every pass and the manifest under dir
// and returns the number of files written. A pass shared through UsePass
// is written once per sub-shader that lists it.
func writeOutputs(dir string, result *shaderlab.ShaderResult, backend shaderlab.Backend) (int, error) {
	m := &manifestFile{Shader: result.Name, Backend: backend.String()}
	files := 0

	for _, sub := range result.SubShaders {
		ms := manifestSubShader{Name: sub.Name}
		subDir := fileName(sub.Name)
		if err := os.MkdirAll(filepath.Join(dir, subDir), 0o755); err != nil {
			return files, errors.Wrap(err, "error creating output directory")
		}

		for _, pass := range sub.Passes {
			base := filepath.Join(subDir, fileName(pass.Name))
			mp := manifestPass{
				Name:      pass.Name,
				Vertex:    filepath.ToSlash(base + ".vert"),
				Fragment:  filepath.ToSlash(base + ".frag"),
				States:    valueTable(pass.RenderStates.Constant),
				Variables: pass.RenderStates.Variable,
				Tags:      valueTable(pass.Tags),
			}
			if err := os.WriteFile(filepath.Join(dir, base+".vert"), []byte(pass.VertexSource), 0o644); err != nil {
				return files, errors.Wrap(err, "error writing vertex stage")
			}
			if err := os.WriteFile(filepath.Join(dir, base+".frag"), []byte(pass.FragmentSource), 0o644); err != nil {
				return files, errors.Wrap(err, "error writing fragment stage")
			}
			files += 2
			ms.Passes = append(ms.Passes, mp)
		}
		m.SubShaders = append(m.SubShaders, ms)
	}

	f, err := os.Create(filepath.Join(dir, "manifest.toml"))
	if err != nil {
		return files, errors.Wrap(err, "error creating manifest")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return files, errors.Wrap(err, "error encoding manifest TOML")
	}
	return files + 1, nil
}

// valueTable formats render-state values for the manifest. Strings are
// written unquoted; TOML quotes them.
func valueTable[M ~map[string]renderstate.Value](values M) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if v.Kind == renderstate.KindString {
			out[k] = v.Str
			continue
		}
		out[k] = v.String()
	}
	return out
}

// fileName makes a shader block name usable as a path element.
func fileName(name string) string {
	if name == "" {
		return "_"
	}
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(name)
}
