package testutil

import (
	"fmt"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
)

// Dataset is the initial content of a mock backend.
type Dataset struct {
	Exercises        []catalog.Exercise
	Muscles          []catalog.Muscle
	MovementPatterns []catalog.MovementPattern
}

// Seed returns a small library covering every native body part.
//
// Per native body part the exercise ids are:
//
//	biceps   [1 2 3]     triceps [2 3 4]      forearms [5]
//	chest    [3 6 7]     back    [2 3 11 14]  traps    [5 14 15]
//	shoulders [6 7 8 9]  core    [5 7 10 13]
func Seed() Dataset {
	patterns := []catalog.MovementPattern{
		{ID: 1, Name: "Push", Description: "Pressing away from the body"},
		{ID: 2, Name: "Pull", Description: "Pulling toward the body"},
		{ID: 3, Name: "Squat", Description: "Knee dominant lower body"},
		{ID: 4, Name: "Hinge", Description: "Hip dominant lower body"},
		{ID: 5, Name: "Carry", Description: "Loaded locomotion"},
		{ID: 6, Name: "Core", Description: "Trunk stability"},
	}

	muscles := []catalog.Muscle{
		{ID: 1, Name: "Pectoralis Major", BodyPart: catalog.NativeChest},
		{ID: 2, Name: "Latissimus Dorsi", BodyPart: catalog.NativeBack},
		{ID: 3, Name: "Rhomboids", BodyPart: catalog.NativeBack},
		{ID: 4, Name: "Upper Trapezius", BodyPart: catalog.NativeTraps},
		{ID: 5, Name: "Anterior Deltoid", BodyPart: catalog.NativeShoulders},
		{ID: 6, Name: "Lateral Deltoid", BodyPart: catalog.NativeShoulders},
		{ID: 7, Name: "Biceps Brachii", BodyPart: catalog.NativeBiceps},
		{ID: 8, Name: "Triceps Brachii", BodyPart: catalog.NativeTriceps},
		{ID: 9, Name: "Brachioradialis", BodyPart: catalog.NativeForearms},
		{ID: 10, Name: "Quadriceps Femoris", BodyPart: catalog.NativeQuadriceps},
		{ID: 11, Name: "Biceps Femoris", BodyPart: catalog.NativeHamstrings},
		{ID: 12, Name: "Gluteus Maximus", BodyPart: catalog.NativeGlutes},
		{ID: 13, Name: "Gastrocnemius", BodyPart: catalog.NativeCalves},
		{ID: 14, Name: "Rectus Abdominis", BodyPart: catalog.NativeCore},
	}

	m := func(ids ...int) []catalog.Muscle {
		out := make([]catalog.Muscle, len(ids))
		for i, id := range ids {
			out[i] = muscles[id-1]
		}
		return out
	}

	type row struct {
		id        int
		name      string
		typ       catalog.ExerciseType
		pattern   int
		primary   []int
		secondary []int
	}
	rows := []row{
		{1, "Barbell Curl", catalog.ExerciseTypeIsolation, 2, []int{7}, nil},
		{2, "Chin-Up", catalog.ExerciseTypeCompound, 2, []int{2, 7}, []int{8}},
		{3, "Muscle-Up", catalog.ExerciseTypeCompound, 2, []int{2, 7}, []int{8, 1}},
		{4, "Triceps Pushdown", catalog.ExerciseTypeIsolation, 1, []int{8}, nil},
		{5, "Farmer's Carry", catalog.ExerciseTypeCompound, 5, []int{9, 4}, []int{14}},
		{6, "Bench Press", catalog.ExerciseTypeCompound, 1, []int{1}, []int{5}},
		{7, "Push-Up", catalog.ExerciseTypeCompound, 1, []int{1}, []int{5, 14}},
		{8, "Overhead Press", catalog.ExerciseTypeCompound, 1, []int{5, 6}, nil},
		{9, "Lateral Raise", catalog.ExerciseTypeIsolation, 1, []int{6}, nil},
		{10, "Back Squat", catalog.ExerciseTypeCompound, 3, []int{10, 12}, []int{14}},
		{11, "Romanian Deadlift", catalog.ExerciseTypeCompound, 4, []int{11, 12}, []int{3}},
		{12, "Standing Calf Raise", catalog.ExerciseTypeIsolation, 3, []int{13}, nil},
		{13, "Plank", catalog.ExerciseTypeIsolation, 6, []int{14}, nil},
		{14, "Barbell Row", catalog.ExerciseTypeCompound, 2, []int{2, 3}, []int{4}},
		{15, "Shrug", catalog.ExerciseTypeIsolation, 2, []int{4}, nil},
	}

	exercises := make([]catalog.Exercise, len(rows))
	for i, r := range rows {
		pattern := patterns[r.pattern-1]
		exercises[i] = catalog.Exercise{
			ID:                r.id,
			Name:              r.name,
			Type:              r.typ,
			MovementPatternID: pattern.ID,
			MovementPattern:   &pattern,
			PrimaryMuscles:    m(r.primary...),
			SecondaryMuscles:  m(r.secondary...),
			Version:           1,
		}
	}

	return Dataset{
		Exercises:        exercises,
		Muscles:          muscles,
		MovementPatterns: patterns,
	}
}

// GeneratedExercises returns n exercises with ids 1..n that all target the
// given muscle, for exercising multi-page walks.
func GeneratedExercises(n int, muscle catalog.Muscle, pattern catalog.MovementPattern) []catalog.Exercise {
	out := make([]catalog.Exercise, n)
	for i := range out {
		p := pattern
		out[i] = catalog.Exercise{
			ID:                i + 1,
			Name:              fmt.Sprintf("Generated Exercise %03d", i+1),
			Type:              catalog.ExerciseTypeIsolation,
			MovementPatternID: pattern.ID,
			MovementPattern:   &p,
			PrimaryMuscles:    []catalog.Muscle{muscle},
			Version:           1,
		}
	}
	return out
}
