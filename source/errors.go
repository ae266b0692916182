// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package source

import (
	"fmt"
	"strings"
)

// Error is a hard compilation error tagged with the position it refers to.
type Error struct {
	Message string
	Pos     Position
	File    string // include chunk name, empty for the main source
	Source  string // text Pos refers to, for context display
}

// Error implements the error interface.
func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Message
	}
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// FormatWithContext returns the error message with the offending source
// line and a caret under the error column.
func (e *Error) FormatWithContext() string {
	if e.Source == "" || !e.Pos.IsValid() {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	lineNum := e.Pos.Line
	if lineNum > len(lines) {
		return e.Error()
	}

	line := lines[lineNum-1]
	col := e.Pos.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	if e.File != "" {
		fmt.Fprintf(&sb, "  --> %s line %d:%d\n", e.File, lineNum, col)
	} else {
		fmt.Fprintf(&sb, "  --> line %d:%d\n", lineNum, col)
	}
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))

	return sb.String()
}

// Errorf creates an Error at pos with a formatted message.
func Errorf(pos Position, format string, args ...interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// Errors is a list of source errors.
type Errors []*Error

// Error implements the error interface.
func (el Errors) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	if len(el) == 1 {
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

// FormatAll returns all errors formatted with context.
func (el Errors) FormatAll() string {
	var sb strings.Builder
	for i, e := range el {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.FormatWithContext())
	}
	return sb.String()
}

// Add appends an error to the list.
func (el *Errors) Add(err *Error) {
	*el = append(*el, err)
}

// HasErrors returns true if there are any errors.
func (el Errors) HasErrors() bool {
	return len(el) > 0
}
