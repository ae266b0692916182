// Package shaderlab compiles ShaderLab effect files to GLSL ES.
//
// A ShaderLab source declares a Shader made of SubShaders and Passes. Each
// pass names a vertex and a fragment entry function written in GLSL ES 1.00
// syntax, plus render states and tags inherited down the hierarchy. The
// compiler produces, for every pass, a standalone vertex and fragment
// program in the selected dialect:
//   - GLES100 — GLSL ES 1.00 for WebGL 1.0
//   - GLES300 — GLSL ES 3.00 for WebGL 2.0
//
// Example usage:
//
//	sl, err := shaderlab.New(shaderlab.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := sl.ParseShader(source, includes, shaderlab.GLES300)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pass := result.Pass("Default", "Forward")
//	fmt.Println(pass.VertexSource)
//
// The individual stages are available through Preprocess, Parse and
// Generate, or directly through the preprocessor, syntax and glsl packages.
package shaderlab

import (
	"github.com/pkg/errors"

	"github.com/gogpu/shaderlab/glsl"
	"github.com/gogpu/shaderlab/logging"
	"github.com/gogpu/shaderlab/preprocessor"
	"github.com/gogpu/shaderlab/renderstate"
	"github.com/gogpu/shaderlab/source"
	"github.com/gogpu/shaderlab/syntax"
)

// Backend selects the target GLSL dialect.
type Backend = glsl.Backend

// Target dialects.
const (
	GLES100 = glsl.GLES100
	GLES300 = glsl.GLES300
)

// Result types.
type (
	ShaderResult    = glsl.ShaderResult
	SubShaderResult = glsl.SubShaderResult
	PassResult      = glsl.PassResult
)

// Config configures a ShaderLab compiler.
type Config struct {
	// Registry lists the engine's render-state keys and enum types. Nil
	// selects renderstate.DefaultRegistry().
	Registry *renderstate.Registry

	// Macros are defined before every source, after the built-in GL_ES and
	// GRAPHICS_API_* macros, which they may override.
	Macros map[string]string

	// Library resolves UsePass paths naming passes of other shaders
	// compiled for the same backend. Every compiled shader is registered
	// into it. Nil limits UsePass to the shader being compiled.
	Library *glsl.Library

	// Logger receives warnings and soft errors. Nil selects
	// logging.Default().
	Logger *logging.Logger

	// StrictInterface makes references to undeclared attribute or varying
	// fields hard errors.
	StrictInterface bool
}

// DefaultConfig returns a configuration with the default engine registry,
// an empty pass library and the default logger.
func DefaultConfig() Config {
	return Config{
		Registry: renderstate.DefaultRegistry(),
		Library:  glsl.NewLibrary(),
		Logger:   logging.Default(),
	}
}

// ShaderLab is a configured compiler. Its registry is a private copy taken
// by New, so a ShaderLab is safe for concurrent use.
type ShaderLab struct {
	registry *renderstate.Registry
	macros   map[string]string
	library  *glsl.Library
	logger   *logging.Logger
	strict   bool
}

// New validates cfg and returns a compiler.
func New(cfg Config) (*ShaderLab, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = renderstate.DefaultRegistry()
	}
	if err := reg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid render-state registry")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	macros := make(map[string]string, len(cfg.Macros))
	for name, body := range cfg.Macros {
		macros[name] = body
	}

	return &ShaderLab{
		registry: reg.Clone(),
		macros:   macros,
		library:  cfg.Library,
		logger:   logger,
		strict:   cfg.StrictInterface,
	}, nil
}

// ParseShader compiles src for backend. includes maps chunk names to the
// text of #include chunks.
//
// The compilation pipeline is:
//  1. Preprocess macros, conditionals and includes
//  2. Tokenize and parse to a Shader with its symbol table
//  3. Generate GLSL for every pass
//
// Errors are reported against the original source or include chunk; use
// errors.As with *source.Error to get the position.
func (s *ShaderLab) ParseShader(src string, includes map[string]string, backend Backend) (*ShaderResult, error) {
	pre, err := s.Preprocess(src, includes, backend)
	if err != nil {
		return nil, err
	}

	shader, err := s.Parse(pre)
	if err != nil {
		return nil, err
	}

	result, err := s.Generate(shader, pre, backend)
	if err != nil {
		return nil, err
	}

	if s.library != nil {
		s.library.Register(result)
	}
	s.logger.Infof("compiled shader %q for %s", result.Name, backend)
	return result, nil
}

// Preprocess runs the preprocessor over src with the built-in macros of
// backend and the configured macros defined.
func (s *ShaderLab) Preprocess(src string, includes map[string]string, backend Backend) (*preprocessor.Result, error) {
	pre, err := preprocessor.ProcessWithOptions(src, preprocessor.Options{
		Includes: includes,
		Macros:   s.predefined(backend),
		Logger:   s.logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "preprocessing error")
	}
	return pre, nil
}

// predefined returns the macros defined before the first line.
func (s *ShaderLab) predefined(backend Backend) map[string]string {
	macros := map[string]string{"GL_ES": "1"}
	if backend == GLES300 {
		macros["GRAPHICS_API_WEBGL2"] = "1"
	} else {
		macros["GRAPHICS_API_WEBGL1"] = "1"
	}
	for name, body := range s.macros {
		macros[name] = body
	}
	return macros
}

// Parse parses preprocessed text to a Shader.
func (s *ShaderLab) Parse(pre *preprocessor.Result) (*syntax.Shader, error) {
	shader, err := syntax.Parse(pre.Text, syntax.Options{Registry: s.registry})
	if err != nil {
		return nil, errors.Wrap(remap(err, pre.SourceMap), "parse error")
	}
	return shader, nil
}

// Generate produces the GLSL of every pass of shader. pre supplies the
// extensions to re-emit and the source map for error positions.
func (s *ShaderLab) Generate(shader *syntax.Shader, pre *preprocessor.Result, backend Backend) (*ShaderResult, error) {
	opts := glsl.Options{
		Backend:         backend,
		Logger:          s.logger,
		StrictInterface: s.strict,
	}
	// A nil *Library must not become a non-nil PassLibrary.
	if s.library != nil {
		opts.Library = s.library
	}
	for _, ext := range pre.Extensions {
		opts.Extensions = append(opts.Extensions, glsl.Extension{Name: ext.Name, Behavior: ext.Behavior})
	}

	result, err := glsl.Generate(shader, opts)
	if err != nil {
		return nil, errors.Wrap(remap(err, pre.SourceMap), "code generation error")
	}
	return result, nil
}

// remap moves a position-tagged error from the preprocessed text to the
// user-authored source.
func remap(err error, sm *preprocessor.SourceMap) error {
	var serr *source.Error
	if sm != nil && errors.As(err, &serr) {
		return sm.Remap(serr)
	}
	return err
}
