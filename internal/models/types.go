package models

import (
	"fmt"
	"strings"
)

// Resource represents the resource types a robot can collect.
// The order is the dependency order of the recipes: ore robots need nothing but ore,
// geode robots need obsidian, which in turn needs clay.
type Resource int

const (
	Ore Resource = iota
	Clay
	Obsidian
	Geode
)

// NumResources is the number of resource types (and of robot types)
const NumResources = 4

// Target is the resource the search maximizes
const Target = Geode

// AllResources returns all resource types in deterministic order
func AllResources() []Resource {
	return []Resource{Ore, Clay, Obsidian, Geode}
}

// String returns the lowercase name used in blueprint text
func (r Resource) String() string {
	switch r {
	case Ore:
		return "ore"
	case Clay:
		return "clay"
	case Obsidian:
		return "obsidian"
	case Geode:
		return "geode"
	default:
		return fmt.Sprintf("resource(%d)", int(r))
	}
}

// Valid reports whether r is one of the four known resource types
func (r Resource) Valid() bool {
	return r >= Ore && r <= Geode
}

// ParseResource maps a resource name back to its type
func ParseResource(name string) (Resource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ore":
		return Ore, nil
	case "clay":
		return Clay, nil
	case "obsidian":
		return Obsidian, nil
	case "geode", "geodes":
		return Geode, nil
	}
	return 0, fmt.Errorf("unknown resource %q", name)
}

// Vector holds one integer per resource type.
// It is used both for resource stocks and for robot counts; both are plain values,
// so copying a Vector never aliases another state.
type Vector [NumResources]int

// Get returns the component for a resource type
func (v Vector) Get(r Resource) int {
	return v[r]
}

// With returns a copy of v with the component for r replaced
func (v Vector) With(r Resource, n int) Vector {
	v[r] = n
	return v
}

// Add returns the component-wise sum
func (v Vector) Add(o Vector) Vector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Sub returns the component-wise difference
func (v Vector) Sub(o Vector) Vector {
	for i := range v {
		v[i] -= o[i]
	}
	return v
}

// Scale multiplies every component by k
func (v Vector) Scale(k int) Vector {
	for i := range v {
		v[i] *= k
	}
	return v
}

// Covers reports whether v holds at least o in every component
func (v Vector) Covers(o Vector) bool {
	for i := range v {
		if v[i] < o[i] {
			return false
		}
	}
	return true
}

// NonNegative reports whether no component is below zero
func (v Vector) NonNegative() bool {
	for _, n := range v {
		if n < 0 {
			return false
		}
	}
	return true
}

// IsZero reports whether every component is zero
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// String renders the non-zero components, e.g. "3 ore, 14 clay"
func (v Vector) String() string {
	var parts []string
	for _, r := range AllResources() {
		if v[r] != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", v[r], r))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
