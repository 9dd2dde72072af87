package catalog

import (
	"fmt"
	"strings"
)

// NativeBodyPart is a body part value understood by the backend.
type NativeBodyPart string

const (
	NativeChest      NativeBodyPart = "chest"
	NativeBack       NativeBodyPart = "back"
	NativeShoulders  NativeBodyPart = "shoulders"
	NativeBiceps     NativeBodyPart = "biceps"
	NativeTriceps    NativeBodyPart = "triceps"
	NativeForearms   NativeBodyPart = "forearms"
	NativeQuadriceps NativeBodyPart = "quadriceps"
	NativeHamstrings NativeBodyPart = "hamstrings"
	NativeGlutes     NativeBodyPart = "glutes"
	NativeCalves     NativeBodyPart = "calves"
	NativeCore       NativeBodyPart = "core"
	NativeTraps      NativeBodyPart = "traps"
)

// NativeBodyParts lists every native value in backend enum order.
var NativeBodyParts = []NativeBodyPart{
	NativeChest, NativeBack, NativeShoulders,
	NativeBiceps, NativeTriceps, NativeForearms,
	NativeQuadriceps, NativeHamstrings, NativeGlutes, NativeCalves,
	NativeCore, NativeTraps,
}

// BodyPart is a user-facing body part category.
type BodyPart string

const (
	BodyPartChest     BodyPart = "chest"
	BodyPartBack      BodyPart = "back"
	BodyPartShoulders BodyPart = "shoulders"
	BodyPartArms      BodyPart = "arms"
	BodyPartLegs      BodyPart = "legs"
	BodyPartCore      BodyPart = "core"
)

// BodyParts lists every coarse category in display order.
var BodyParts = []BodyPart{
	BodyPartChest, BodyPartBack, BodyPartShoulders,
	BodyPartArms, BodyPartLegs, BodyPartCore,
}

// bodyPartMapping expands a category into native values. Slice order is the
// order in which sub-requests are issued and merged.
var bodyPartMapping = map[BodyPart][]NativeBodyPart{
	BodyPartChest:     {NativeChest},
	BodyPartBack:      {NativeBack, NativeTraps},
	BodyPartShoulders: {NativeShoulders},
	BodyPartArms:      {NativeBiceps, NativeTriceps, NativeForearms},
	BodyPartLegs:      {NativeQuadriceps, NativeHamstrings, NativeGlutes, NativeCalves},
	BodyPartCore:      {NativeCore},
}

// Expand returns the native values for the category. The returned slice is a
// copy and may be modified by the caller.
func (b BodyPart) Expand() ([]NativeBodyPart, bool) {
	parts, ok := bodyPartMapping[b]
	if !ok {
		return nil, false
	}
	out := make([]NativeBodyPart, len(parts))
	copy(out, parts)
	return out, true
}

// Valid reports whether b is a known category.
func (b BodyPart) Valid() bool {
	_, ok := bodyPartMapping[b]
	return ok
}

// Valid reports whether n is a known native value.
func (n NativeBodyPart) Valid() bool {
	_, ok := n.Category()
	return ok
}

// Category returns the coarse category that owns n.
func (n NativeBodyPart) Category() (BodyPart, bool) {
	for _, category := range BodyParts {
		for _, part := range bodyPartMapping[category] {
			if part == n {
				return category, true
			}
		}
	}
	return "", false
}

// ParseBodyPart parses a category name, ignoring case and surrounding space.
func ParseBodyPart(s string) (BodyPart, error) {
	b := BodyPart(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("unknown body part %q", s)
	}
	return b, nil
}

// ParseNativeBodyPart parses a native body part, ignoring case and surrounding space.
func ParseNativeBodyPart(s string) (NativeBodyPart, error) {
	n := NativeBodyPart(strings.ToLower(strings.TrimSpace(s)))
	if !n.Valid() {
		return "", fmt.Errorf("unknown native body part %q", s)
	}
	return n, nil
}
