package graph

import (
	"maps"
	"slices"
	"strings"
)

// Variable is an opaque node identifier in a causal graph. Variables are
// compared by name, and the lexicographic order on names is the total order
// used wherever a deterministic tie-break is needed (topological sorting,
// apt-order expansion, printing).
type Variable string

// String returns the variable name.
func (v Variable) String() string { return string(v) }

// Vars converts names into variables, preserving order.
func Vars(names ...string) []Variable {
	vs := make([]Variable, len(names))
	for i, n := range names {
		vs[i] = Variable(n)
	}
	return vs
}

// Set is the canonical set-of-variables type used throughout the module.
//
// Set has value semantics: Union, Intersect, Difference and Clone always
// return a fresh set and never modify their receiver or arguments. Only
// [Set.Add] mutates, and it is meant for building a set before handing it
// to other code. The nil Set is a valid empty set for every read operation.
//
// Iteration order over a Set is undefined; use [Set.Sorted] whenever an
// order is observable.
type Set map[Variable]struct{}

// NewSet creates a set holding the given variables.
func NewSet(vs ...Variable) Set {
	s := make(Set, len(vs))
	for _, v := range vs {
		s[v] = struct{}{}
	}
	return s
}

// SetOf creates a set from variable names.
func SetOf(names ...string) Set {
	return NewSet(Vars(names...)...)
}

// Add inserts v into the set. It must only be used while building a set.
func (s Set) Add(v Variable) { s[v] = struct{}{} }

// Has reports whether v is a member of the set.
func (s Set) Has(v Variable) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool { return len(s) == 0 }

// Clone returns a copy of the set. Cloning a nil set yields an empty,
// non-nil set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	maps.Copy(out, s)
	return out
}

// Union returns the members of s and of every other set.
func (s Set) Union(others ...Set) Set {
	out := s.Clone()
	for _, o := range others {
		maps.Copy(out, o)
	}
	return out
}

// Intersect returns the members of s that are also in o.
func (s Set) Intersect(o Set) Set {
	out := make(Set)
	for v := range s {
		if o.Has(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

// Difference returns the members of s that are in none of the other sets.
func (s Set) Difference(others ...Set) Set {
	out := make(Set, len(s))
outer:
	for v := range s {
		for _, o := range others {
			if o.Has(v) {
				continue outer
			}
		}
		out[v] = struct{}{}
	}
	return out
}

// IsSubset reports whether every member of s is in o.
func (s Set) IsSubset(o Set) bool {
	if len(s) > len(o) {
		return false
	}
	for v := range s {
		if !o.Has(v) {
			return false
		}
	}
	return true
}

// IsStrictSubset reports whether s is a subset of o and o has at least one
// member that s lacks.
func (s Set) IsStrictSubset(o Set) bool {
	return len(s) < len(o) && s.IsSubset(o)
}

// Equal reports whether both sets have exactly the same members.
func (s Set) Equal(o Set) bool {
	return len(s) == len(o) && s.IsSubset(o)
}

// Sorted returns the members in ascending name order.
func (s Set) Sorted() []Variable {
	return slices.Sorted(maps.Keys(s))
}

// Min returns the smallest member by name, and false for an empty set.
func (s Set) Min() (Variable, bool) {
	if len(s) == 0 {
		return "", false
	}
	first := true
	var m Variable
	for v := range s {
		if first || v < m {
			m, first = v, false
		}
	}
	return m, true
}

// String formats the set as "{A, B, C}" in sorted order.
func (s Set) String() string {
	names := make([]string, 0, len(s))
	for _, v := range s.Sorted() {
		names = append(names, string(v))
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// SortSets orders a collection of sets deterministically: by their sorted
// member lists compared lexicographically. It sorts in place and returns
// the slice for convenience.
func SortSets(sets []Set) []Set {
	slices.SortFunc(sets, func(a, b Set) int {
		return slices.Compare(a.Sorted(), b.Sorted())
	})
	return sets
}
