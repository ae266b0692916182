// Command shaderlabc is the ShaderLab compiler CLI.
//
// Usage:
//
//	shaderlabc [options] <input.shader>
//
// Every pass is written to <out>/<SubShader>/<Pass>.vert and .frag, and a
// manifest.toml describing the sub-shaders, passes, render states and tags
// is written to <out>.
//
// Examples:
//
//	shaderlabc unlit.shader                          # GLES300 into the current directory
//	shaderlabc -b gles100 -o build unlit.shader      # WebGL 1.0 output into build/
//	shaderlabc -I chunks -r engine.toml lit.shader   # include chunks and engine registry
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ComedicChimera/olive"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"

	"github.com/gogpu/shaderlab"
	"github.com/gogpu/shaderlab/glsl"
	"github.com/gogpu/shaderlab/logging"
	"github.com/gogpu/shaderlab/renderstate"
	"github.com/gogpu/shaderlab/source"
)

var (
	successStyle = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	errorStyle   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

func main() {
	cli := olive.NewCLI("shaderlabc", "shaderlabc compiles ShaderLab files to GLSL ES", true)
	cli.AddPrimaryArg("input", "the .shader file to compile", true)
	backendArg := cli.AddSelectorArg("backend", "b", "the target dialect", false, []string{"gles100", "gles300"})
	backendArg.SetDefaultValue("gles300")
	cli.AddStringArg("includes", "I", "a directory of #include chunks", false)
	cli.AddStringArg("registry", "r", "a render-state registry TOML file", false)
	cli.AddStringArg("out", "o", "the output directory", false)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "info"})
	logLvlArg.SetDefaultValue("warn")

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		printError("CLI Usage Error", err)
		os.Exit(2)
	}

	if err := run(result); err != nil {
		printError("Compilation Error", err)
		os.Exit(1)
	}
}

// run compiles the input named by the parsed arguments.
func run(result *olive.ArgParseResult) error {
	logging.SetLevel(logging.ParseLevel(result.Arguments["loglevel"].(string)))

	backend, err := glsl.ParseBackend(result.Arguments["backend"].(string))
	if err != nil {
		return err
	}

	input, _ := result.PrimaryArg()
	src, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(err, "error reading input")
	}

	var includes map[string]string
	if dir, ok := stringArg(result, "includes"); ok {
		if includes, err = loadIncludes(dir); err != nil {
			return err
		}
	}

	cfg := shaderlab.DefaultConfig()
	if path, ok := stringArg(result, "registry"); ok {
		reg, err := renderstate.LoadRegistryFile(path)
		if err != nil {
			return errors.Wrap(err, "error loading registry")
		}
		cfg.Registry = cfg.Registry.Overlay(reg)
	}

	sl, err := shaderlab.New(cfg)
	if err != nil {
		return err
	}
	compiled, err := sl.ParseShader(string(src), includes, backend)
	if err != nil {
		var serr *source.Error
		if errors.As(err, &serr) && serr.Source != "" {
			return errors.New(serr.FormatWithContext())
		}
		return err
	}

	out := "."
	if dir, ok := stringArg(result, "out"); ok {
		out = dir
	}
	files, err := writeOutputs(out, compiled, backend)
	if err != nil {
		return err
	}

	successStyle.Print("Compiled")
	pterm.FgLightGreen.Println(fmt.Sprintf(" %s -> %s (%s, %d files)", input, out, backend, files))
	return nil
}

func stringArg(result *olive.ArgParseResult, name string) (string, bool) {
	v, ok := result.Arguments[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// loadIncludes reads every file below dir as an include chunk. A chunk is
// named by its slash-separated path relative to dir without extension, so
// dir/lighting/pbr.glsl is included as "lighting/pbr".
func loadIncludes(dir string) (map[string]string, error) {
	includes := make(map[string]string)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		text, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
		includes[name] = string(text)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "error loading includes")
	}
	return includes, nil
}

func printError(tag string, err error) {
	errorStyle.Print(tag)
	pterm.FgRed.Println(" " + err.Error())
}
