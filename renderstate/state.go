// Package renderstate holds the render-state and tag tables declared by
// Shader, SubShader and Pass blocks, their inheritance merge, and the engine
// registry used to validate state declarations.
package renderstate

import (
	"sort"
	"strconv"
)

// Kind identifies the type of a state or tag value.
type Kind uint8

const (
	KindNumber Kind = iota
	KindBool
	KindString
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a literal state or tag value.
type Value struct {
	Kind   Kind
	Number float64
	Bool   bool
	Str    string // KindString text, or the member name for KindEnum
	Enum   string // enum type name for KindEnum
}

// Number returns a numeric value.
func Number(v float64) Value { return Value{Kind: KindNumber, Number: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// String returns a string value.
func String(v string) Value { return Value{Kind: KindString, Str: v} }

// Enum returns an enum member value.
func Enum(enum, member string) Value { return Value{Kind: KindEnum, Enum: enum, Str: member} }

// String formats the value the way it would be written in source.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindString:
		return strconv.Quote(v.Str)
	case KindEnum:
		return v.Enum + "." + v.Str
	}
	return "<invalid>"
}

// States is the pair of render-state tables of a block: literal values and
// references to runtime-bound variables, both keyed by state key.
type States struct {
	Constant map[string]Value
	Variable map[string]string
}

// NewStates returns empty, non-nil tables.
func NewStates() States {
	return States{
		Constant: make(map[string]Value),
		Variable: make(map[string]string),
	}
}

// Clone returns a deep copy of s.
func (s States) Clone() States {
	out := States{
		Constant: make(map[string]Value, len(s.Constant)),
		Variable: make(map[string]string, len(s.Variable)),
	}
	for k, v := range s.Constant {
		out.Constant[k] = v
	}
	for k, v := range s.Variable {
		out.Variable[k] = v
	}
	return out
}

// Len returns the number of entries in both tables.
func (s States) Len() int {
	return len(s.Constant) + len(s.Variable)
}

// Keys returns every key of both tables, sorted.
func (s States) Keys() []string {
	seen := make(map[string]struct{}, s.Len())
	for k := range s.Constant {
		seen[k] = struct{}{}
	}
	for k := range s.Variable {
		seen[k] = struct{}{}
	}
	return sortedKeys(seen)
}

// Merge returns the tables of a child block inheriting from parent. Each
// table is overlaid independently: child keys win, everything else comes
// from parent. Neither argument is modified.
func Merge(parent, child States) States {
	out := parent.Clone()
	for k, v := range child.Constant {
		out.Constant[k] = v
	}
	for k, v := range child.Variable {
		out.Variable[k] = v
	}
	return out
}

// Tags is a block's tag dictionary.
type Tags map[string]Value

// Clone returns a copy of t. The copy of a nil Tags is empty, not nil.
func (t Tags) Clone() Tags {
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Keys returns the tag names, sorted.
func (t Tags) Keys() []string {
	seen := make(map[string]struct{}, len(t))
	for k := range t {
		seen[k] = struct{}{}
	}
	return sortedKeys(seen)
}

// MergeTags overlays child on parent without modifying either.
func MergeTags(parent, child Tags) Tags {
	out := parent.Clone()
	for k, v := range child {
		out[k] = v
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
