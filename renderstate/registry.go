package renderstate

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// StateKey describes one render-state key known to the engine.
type StateKey struct {
	// Type is the value kind accepted by the key: "number", "bool",
	// "string" or "enum".
	Type string `toml:"type"`

	// Enum names the enum type of an "enum" key.
	Enum string `toml:"enum,omitempty"`

	// Indexed keys take a render target index: Key[0] = value.
	Indexed bool `toml:"indexed"`
}

// Kind returns the value kind of the key.
func (k StateKey) Kind() (Kind, bool) {
	switch k.Type {
	case "number":
		return KindNumber, true
	case "bool":
		return KindBool, true
	case "string":
		return KindString, true
	case "enum":
		return KindEnum, true
	}
	return 0, false
}

// Registry is the engine-provided vocabulary of render-state keys and enum
// types. A compiler holds a validated clone for its whole lifetime and
// never modifies it.
type Registry struct {
	StateKeys map[string]StateKey `toml:"states"`
	Enums     map[string][]string `toml:"enums"`
}

// LoadRegistry decodes a registry from TOML:
//
//	[enums]
//	CullMode = ["Off", "Front", "Back"]
//
//	[states."RasterState.CullMode"]
//	type = "enum"
//	enum = "CullMode"
//
// The result is validated.
func LoadRegistry(r io.Reader) (*Registry, error) {
	buff, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	reg := &Registry{}
	if err := toml.Unmarshal(buff, reg); err != nil {
		return nil, errors.Wrap(err, "error decoding registry TOML")
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

// LoadRegistryFile loads a registry TOML file.
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reg, err := LoadRegistry(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return reg, nil
}

// Encode writes the registry as TOML.
func (r *Registry) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(r)
}

// Validate checks that every enum has unique identifier members and that
// every key has a known type referring to a declared enum.
func (r *Registry) Validate() error {
	if r == nil {
		return errors.New("nil registry")
	}
	for _, name := range sortedNames(r.Enums) {
		if !isIdent(name) {
			return fmt.Errorf("enum name %q is not an identifier", name)
		}
		members := r.Enums[name]
		if len(members) == 0 {
			return fmt.Errorf("enum %s has no members", name)
		}
		seen := make(map[string]struct{}, len(members))
		for _, m := range members {
			if !isIdent(m) {
				return fmt.Errorf("enum %s: member %q is not an identifier", name, m)
			}
			if _, dup := seen[m]; dup {
				return fmt.Errorf("enum %s: duplicate member %s", name, m)
			}
			seen[m] = struct{}{}
		}
	}

	for _, key := range sortedNames(r.StateKeys) {
		for _, part := range strings.Split(key, ".") {
			if !isIdent(part) {
				return fmt.Errorf("state key %q is not a dotted identifier", key)
			}
		}
		sk := r.StateKeys[key]
		kind, ok := sk.Kind()
		if !ok {
			return fmt.Errorf("state key %s: unknown type %q", key, sk.Type)
		}
		if kind == KindEnum {
			if _, ok := r.Enums[sk.Enum]; !ok {
				return fmt.Errorf("state key %s: unknown enum %q", key, sk.Enum)
			}
		} else if sk.Enum != "" {
			return fmt.Errorf("state key %s: enum %q set on a %s key", key, sk.Enum, sk.Type)
		}
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		StateKeys: make(map[string]StateKey, len(r.StateKeys)),
		Enums:     make(map[string][]string, len(r.Enums)),
	}
	for k, v := range r.StateKeys {
		out.StateKeys[k] = v
	}
	for k, v := range r.Enums {
		out.Enums[k] = append([]string(nil), v...)
	}
	return out
}

// Overlay returns a new registry with the keys and enums of other replacing
// those of r. Neither registry is modified.
func (r *Registry) Overlay(other *Registry) *Registry {
	out := r.Clone()
	if other == nil {
		return out
	}
	for k, v := range other.StateKeys {
		out.StateKeys[k] = v
	}
	for k, v := range other.Enums {
		out.Enums[k] = append([]string(nil), v...)
	}
	return out
}

// Key returns the description of a state key.
func (r *Registry) Key(name string) (StateKey, bool) {
	sk, ok := r.StateKeys[name]
	return sk, ok
}

// HasEnum reports whether an enum type is declared.
func (r *Registry) HasEnum(enum string) bool {
	_, ok := r.Enums[enum]
	return ok
}

// HasMember reports whether member belongs to enum.
func (r *Registry) HasMember(enum, member string) bool {
	for _, m := range r.Enums[enum] {
		if m == member {
			return true
		}
	}
	return false
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
