package wave

import (
	"fmt"
	"strings"
)

// Type identifies a wave family.
type Type string

const (
	P  Type = "P"
	Sx Type = "Sx"
	Sy Type = "Sy"
)

var allTypes = []Type{P, Sx, Sy}

// All returns every known wave type in canonical order.
func All() []Type {
	out := make([]Type, len(allTypes))
	copy(out, allTypes)
	return out
}

// Valid reports whether t is a known wave type.
func (t Type) Valid() bool {
	return t.bit() != 0
}

func (t Type) String() string {
	return string(t)
}

func (t Type) bit() Set {
	for i, known := range allTypes {
		if known == t {
			return Set(1) << i
		}
	}
	return 0
}

// Parse converts a user supplied name into a Type. Matching is exact first
// and falls back to a case-insensitive comparison.
func Parse(value string) (Type, error) {
	trimmed := strings.TrimSpace(value)
	for _, t := range allTypes {
		if string(t) == trimmed {
			return t, nil
		}
	}
	for _, t := range allTypes {
		if strings.EqualFold(string(t), trimmed) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown wave type %q (want one of P, Sx, Sy)", value)
}

// Set is an explicit set of wave types.
type Set uint8

// NewSet builds a set from the given types. Unknown types are ignored.
func NewSet(types ...Type) Set {
	var s Set
	for _, t := range types {
		s = s.With(t)
	}
	return s
}

// AllSet returns a set holding every known wave type.
func AllSet() Set {
	return NewSet(allTypes...)
}

// ParseSet parses a comma separated list such as "P,Sx". An empty value
// yields every wave type.
func ParseSet(value string) (Set, error) {
	if strings.TrimSpace(value) == "" {
		return AllSet(), nil
	}
	var s Set
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := Parse(part)
		if err != nil {
			return 0, err
		}
		s = s.With(t)
	}
	return s, nil
}

// With returns a copy of s including t.
func (s Set) With(t Type) Set {
	return s | t.bit()
}

// Without returns a copy of s excluding t.
func (s Set) Without(t Type) Set {
	return s &^ t.bit()
}

// Has reports whether t is in the set.
func (s Set) Has(t Type) bool {
	bit := t.bit()
	return bit != 0 && s&bit != 0
}

// Len returns the number of wave types in the set.
func (s Set) Len() int {
	n := 0
	for _, t := range allTypes {
		if s.Has(t) {
			n++
		}
	}
	return n
}

// Types returns the members in canonical order.
func (s Set) Types() []Type {
	out := make([]Type, 0, len(allTypes))
	for _, t := range allTypes {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s Set) String() string {
	types := s.Types()
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
