// Package preprocessor expands macros and inlines #include chunks in
// ShaderLab source text.
//
// The output is flat text with no directives left in it, plus a SourceMap
// that converts offsets in that text back into positions in the original
// main source or include chunk. Directive lines are replaced by empty lines
// so that the preprocessed text keeps a line structure close to the input.
//
// Supported directives:
//
//	#define NAME body           object-like macro
//	#define NAME(a, b) body     function-like macro (# and ## supported)
//	#undef NAME
//	#ifdef / #ifndef / #if / #elif / #else / #endif
//	#include <chunk>  or  #include "chunk"
//	#extension name : behavior  collected into Result.Extensions
//	#version, #pragma, #line    dropped (#version with a warning)
//	#error message              hard error
//
// Every failure is a hard *source.Error positioned in the file that caused
// it.
package preprocessor

import (
	"sort"
	"strings"

	"github.com/gogpu/shaderlab/logging"
	"github.com/gogpu/shaderlab/source"
)

// Extension describes a GLSL extension requested with #extension.
type Extension struct {
	Name     string
	Behavior string
}

// Options configures a preprocessing run.
type Options struct {
	// Includes maps chunk names to chunk source for #include.
	Includes map[string]string

	// Macros are object-like macros defined before the first line.
	Macros map[string]string

	// Logger receives warnings. Nil discards them.
	Logger *logging.Logger
}

// Result is the output of a preprocessing run.
type Result struct {
	Text       string
	SourceMap  *SourceMap
	Extensions []Extension
}

// Process preprocesses src, resolving #include directives against includes.
func Process(src string, includes map[string]string) (*Result, error) {
	return ProcessWithOptions(src, Options{Includes: includes})
}

// ProcessWithOptions preprocesses src with custom options.
func ProcessWithOptions(src string, opts Options) (*Result, error) {
	p := newPreprocessor(opts)
	if err := p.file("", src); err != nil {
		return nil, err
	}
	return &Result{
		Text:       p.out.sb.String(),
		SourceMap:  p.out.sm,
		Extensions: p.extensions,
	}, nil
}

// ifEntry tracks one open conditional block.
type ifEntry struct {
	HadElse  bool // an #else was seen
	Skipping bool // lines of the current branch are dropped
	SkipElse bool // every later #elif/#else branch is dropped
}

type macro struct {
	name     string
	function bool
	params   []string
	body     string
}

type preprocessor struct {
	opts       Options
	log        *logging.Logger
	macros     map[string]*macro
	ifStack    []ifEntry
	stack      []string // include chain, main source first
	out        output
	extensions []Extension
}

func newPreprocessor(opts Options) *preprocessor {
	p := &preprocessor{
		opts:   opts,
		log:    opts.Logger,
		macros: make(map[string]*macro),
		out:    output{sm: newSourceMap()},
	}
	if p.log == nil {
		p.log = logging.Discard()
	}

	p.macros["GL_ES"] = &macro{name: "GL_ES", body: "1"}
	names := make([]string, 0, len(opts.Macros))
	for name := range opts.Macros {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.macros[name] = &macro{name: name, body: opts.Macros[name]}
	}
	return p
}

func (p *preprocessor) skipping() bool {
	n := len(p.ifStack)
	return n > 0 && p.ifStack[n-1].Skipping
}

func (p *preprocessor) position(file string, index int) source.Position {
	return p.out.sm.files[file].lines.Position(index)
}

func (p *preprocessor) errorf(file string, index int, format string, args ...interface{}) *source.Error {
	err := source.Errorf(p.position(file, index), format, args...)
	err.File = file
	err.Source = p.out.sm.files[file].text
	return err
}

// file processes one source text: the main source or an include chunk.
func (p *preprocessor) file(name, text string) error {
	p.out.sm.addFile(name, text)
	p.stack = append(p.stack, name)
	defer func() { p.stack = p.stack[:len(p.stack)-1] }()

	depth := len(p.ifStack)
	inComment := false
	pos := 0
	for pos < len(text) {
		end := lineEnd(text, pos)
		line := text[pos:end]

		if !inComment && isDirective(line) {
			dirEnd := end
			directive := line
			lines := 1
			for continues(directive) && dirEnd < len(text) {
				trimmed := strings.TrimRight(directive, " \t\r")
				next := lineEnd(text, dirEnd+1)
				directive = trimmed[:len(trimmed)-1] + " " + text[dirEnd+1:next]
				dirEnd = next
				lines++
			}
			if err := p.directive(name, pos, directive, depth); err != nil {
				return err
			}
			if dirEnd == len(text) {
				lines--
			}
			p.out.mapped(strings.Repeat("\n", lines), name, pos)
			pos = dirEnd + 1
			continue
		}

		if p.skipping() {
			inComment = scanComments(line, inComment)
			if end < len(text) {
				p.out.mapped("\n", name, end)
			}
			pos = end + 1
			continue
		}

		var err error
		inComment, err = p.expandLine(name, pos, line, inComment)
		if err != nil {
			return err
		}
		if end < len(text) {
			p.out.verbatim("\n", name, end)
		}
		pos = end + 1
	}

	if len(p.ifStack) != depth {
		return p.errorf(name, len(text), "unterminated conditional directive at end of %s", describe(name))
	}
	return nil
}

func describe(file string) string {
	if file == "" {
		return "source"
	}
	return "include " + file
}

func lineEnd(text string, from int) int {
	if i := strings.IndexByte(text[from:], '\n'); i >= 0 {
		return from + i
	}
	return len(text)
}

func isDirective(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

func continues(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t\r"), "\\")
}

// directive handles one (possibly continued) directive line starting at
// byte lineStart of file. depth is the conditional depth at file entry.
func (p *preprocessor) directive(file string, lineStart int, line string, depth int) error {
	hash := strings.IndexByte(line, '#')
	at := lineStart + hash
	body := strings.TrimSpace(stripComments(line[hash+1:]))
	name := leadingIdent(body)
	rest := strings.TrimSpace(body[len(name):])

	switch name {
	case "ifdef", "ifndef":
		if p.skipping() {
			p.ifStack = append(p.ifStack, ifEntry{Skipping: true, SkipElse: true})
			return nil
		}
		macroName := leadingIdent(rest)
		if macroName == "" {
			return p.errorf(file, at, "#%s needs a macro name", name)
		}
		_, defined := p.macros[macroName]
		value := defined == (name == "ifdef")
		p.ifStack = append(p.ifStack, ifEntry{Skipping: !value, SkipElse: value})
		return nil

	case "if":
		if p.skipping() {
			// The condition of a dropped block is never evaluated.
			p.ifStack = append(p.ifStack, ifEntry{Skipping: true, SkipElse: true})
			return nil
		}
		value, err := p.evalCondition(file, at, rest)
		if err != nil {
			return err
		}
		p.ifStack = append(p.ifStack, ifEntry{Skipping: !value, SkipElse: value})
		return nil

	case "elif":
		if len(p.ifStack) <= depth {
			return p.errorf(file, at, "#elif without #if")
		}
		entry := &p.ifStack[len(p.ifStack)-1]
		if entry.HadElse {
			return p.errorf(file, at, "#elif after #else")
		}
		if entry.SkipElse {
			entry.Skipping = true
			return nil
		}
		value, err := p.evalCondition(file, at, rest)
		if err != nil {
			return err
		}
		entry.Skipping = !value
		entry.SkipElse = value
		return nil

	case "else":
		if len(p.ifStack) <= depth {
			return p.errorf(file, at, "#else without #if")
		}
		entry := &p.ifStack[len(p.ifStack)-1]
		if entry.HadElse {
			return p.errorf(file, at, "#if directive has multiple #else directives")
		}
		entry.HadElse = true
		entry.Skipping = entry.SkipElse
		return nil

	case "endif":
		if len(p.ifStack) <= depth {
			return p.errorf(file, at, "#endif without #if")
		}
		p.ifStack = p.ifStack[:len(p.ifStack)-1]
		return nil
	}

	if p.skipping() {
		return nil
	}

	switch name {
	case "define":
		return p.define(file, at, rest)

	case "undef":
		macroName := leadingIdent(rest)
		if macroName == "" {
			return p.errorf(file, at, "#undef needs a macro name")
		}
		delete(p.macros, macroName)
		return nil

	case "include":
		return p.include(file, at, rest)

	case "extension":
		ext, ok := parseExtension(rest)
		if !ok {
			return p.errorf(file, at, "#extension should have the form '#extension name : behavior'")
		}
		p.extensions = append(p.extensions, ext)
		return nil

	case "version":
		p.log.Warnf("%s: #version %s ignored, the backend selects the version", p.position(file, at), rest)
		return nil

	case "pragma", "line":
		return nil

	case "error":
		return p.errorf(file, at, "#error %s", rest)

	case "":
		if rest == "" {
			return nil // null directive
		}
		return p.errorf(file, at, "malformed preprocessor directive")

	default:
		return p.errorf(file, at, "unknown preprocessor directive #%s", name)
	}
}

func (p *preprocessor) define(file string, at int, rest string) error {
	name := leadingIdent(rest)
	if name == "" {
		return p.errorf(file, at, "#define needs a macro name")
	}
	if name == "defined" {
		return p.errorf(file, at, "'defined' cannot be used as a macro name")
	}

	m := &macro{name: name}
	after := rest[len(name):]
	if strings.HasPrefix(after, "(") {
		closing := strings.IndexByte(after, ')')
		if closing < 0 {
			return p.errorf(file, at, "unterminated parameter list in definition of macro %q", name)
		}
		list := strings.TrimSpace(after[1:closing])
		if list != "" {
			seen := make(map[string]struct{})
			for _, param := range strings.Split(list, ",") {
				param = strings.TrimSpace(param)
				if param == "" || leadingIdent(param) != param {
					return p.errorf(file, at, "invalid parameter %q in definition of macro %q", param, name)
				}
				if _, dup := seen[param]; dup {
					return p.errorf(file, at, "macro %q has two parameters named %q", name, param)
				}
				seen[param] = struct{}{}
				m.params = append(m.params, param)
			}
		}
		m.function = true
		m.body = strings.TrimSpace(after[closing+1:])
	} else {
		m.body = strings.TrimSpace(after)
	}

	p.macros[name] = m
	return nil
}

func (p *preprocessor) include(file string, at int, rest string) error {
	if len(rest) < 2 {
		return p.errorf(file, at, "#include expects <name> or \"name\"")
	}
	var closing byte
	switch rest[0] {
	case '<':
		closing = '>'
	case '"':
		closing = '"'
	default:
		return p.errorf(file, at, "#include expects <name> or \"name\"")
	}
	end := strings.IndexByte(rest[1:], closing)
	if end < 0 {
		return p.errorf(file, at, "unterminated #include name")
	}
	name := rest[1 : 1+end]

	chunk, ok := p.opts.Includes[name]
	if !ok {
		return p.errorf(file, at, "unresolved include %q", name)
	}
	for _, open := range p.stack {
		if open == name {
			return p.errorf(file, at, "recursive include of %q", name)
		}
	}
	return p.file(name, chunk)
}

func parseExtension(rest string) (Extension, bool) {
	name, behavior, ok := strings.Cut(rest, ":")
	if !ok {
		return Extension{}, false
	}
	name = strings.TrimSpace(name)
	behavior = strings.TrimSpace(behavior)
	if leadingIdent(name) != name || leadingIdent(behavior) != behavior || name == "" || behavior == "" {
		return Extension{}, false
	}
	return Extension{Name: name, Behavior: behavior}, true
}

func (p *preprocessor) evalCondition(file string, at int, expr string) (bool, error) {
	if expr == "" {
		return false, p.errorf(file, at, "conditional directive needs an expression")
	}
	resolved, err := p.resolveDefined(expr)
	if err != nil {
		return false, p.errorf(file, at, "%v", err)
	}
	expanded, err := p.expand(resolved, nil)
	if err != nil {
		return false, p.errorf(file, at, "%v", err)
	}
	value, err := evalExpression(expanded)
	if err != nil {
		return false, p.errorf(file, at, "malformed conditional expression: %v", err)
	}
	return value != 0, nil
}
