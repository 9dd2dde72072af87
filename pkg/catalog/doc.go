// Package catalog defines the exercise library data model shared by the
// backend client, the query layer, and the proxy.
//
// The backend stores three entity types:
//
//   - Exercise: references one MovementPattern and two independent sets of
//     Muscles (primary and secondary)
//   - Muscle: belongs to exactly one NativeBodyPart
//   - MovementPattern: a named movement such as "squat" or "hinge"
//
// Users filter by a coarse BodyPart category ("arms", "legs", ...). The
// backend only understands the twelve NativeBodyPart values, so every coarse
// category expands to a fixed, non-empty set of native values:
//
//	parts, ok := catalog.BodyPartArms.Expand()
//	// parts == [biceps triceps forearms]
//
// The expansion table is a partition: every native value belongs to exactly
// one coarse category.
//
// All list responses carry a Metadata block whose JSON field names match the
// backend's pagination envelope exactly.
package catalog
