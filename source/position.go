// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package source holds the source-location vocabulary shared by every
// compiler stage: positions, spans, line indexes and position-tagged errors.
package source

import (
	"fmt"
	"sort"
)

// Position is a location in a text. Index is the byte offset, Line and
// Column are 1-based.
type Position struct {
	Index  int
	Line   int
	Column int
}

// Offset returns the position shifted by count characters on the same line.
func (p Position) Offset(count int) Position {
	return Position{Index: p.Index + count, Line: p.Line, Column: p.Column + count}
}

// IsValid reports whether the position was set.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents a source range.
type Span struct {
	Start Position
	End   Position
}

// LineIndex converts byte offsets of one text into positions.
type LineIndex struct {
	starts []int
	size   int
}

// NewLineIndex builds the line table for text.
func NewLineIndex(text string) *LineIndex {
	starts := make([]int, 1, len(text)/32+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(text)}
}

// Position returns the position of the byte at index. Out-of-range indexes
// are clamped to the text bounds.
func (li *LineIndex) Position(index int) Position {
	if index < 0 {
		index = 0
	}
	if index > li.size {
		index = li.size
	}
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > index }) - 1
	return Position{
		Index:  index,
		Line:   line + 1,
		Column: index - li.starts[line] + 1,
	}
}

// Lines returns the number of lines in the text.
func (li *LineIndex) Lines() int {
	return len(li.starts)
}
