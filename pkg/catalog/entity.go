package catalog

import (
	"fmt"
	"strings"
)

// ExerciseType classifies an exercise by the number of joints it works.
type ExerciseType string

const (
	ExerciseTypeCompound  ExerciseType = "compound"
	ExerciseTypeIsolation ExerciseType = "isolation"
)

// Valid reports whether t is a known exercise type.
func (t ExerciseType) Valid() bool {
	return t == ExerciseTypeCompound || t == ExerciseTypeIsolation
}

// ParseExerciseType parses an exercise type, ignoring case and surrounding space.
func ParseExerciseType(s string) (ExerciseType, error) {
	t := ExerciseType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown exercise type %q", s)
	}
	return t, nil
}

// Muscle is a single muscle tracked by the library.
type Muscle struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	BodyPart NativeBodyPart `json:"body_part"`
}

// MovementPattern is a named movement shared by several exercises.
type MovementPattern struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Exercise is an exercise with its pattern and target muscles.
// MovementPattern and the muscle lists are only present when the backend
// embeds them.
type Exercise struct {
	ID                int              `json:"id"`
	Name              string           `json:"name"`
	Type              ExerciseType     `json:"type"`
	MovementPatternID int              `json:"movement_pattern_id"`
	MovementPattern   *MovementPattern `json:"movement_pattern,omitempty"`
	PrimaryMuscles    []Muscle         `json:"primary_muscles,omitempty"`
	SecondaryMuscles  []Muscle         `json:"secondary_muscles,omitempty"`
	Version           int              `json:"version"`
}

// PatternName returns the embedded movement pattern name, or "" when the
// pattern was not embedded.
func (e Exercise) PatternName() string {
	if e.MovementPattern == nil {
		return ""
	}
	return e.MovementPattern.Name
}

// ExerciseID, MuscleID and MovementPatternID are id extractors for the
// generic merge helpers.
func ExerciseID(e Exercise) int               { return e.ID }
func MuscleID(m Muscle) int                   { return m.ID }
func MovementPatternID(p MovementPattern) int { return p.ID }
