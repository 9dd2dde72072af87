package catalog

// Metadata is the pagination block attached to every list response.
type Metadata struct {
	CurrentPage  int `json:"current_page"`
	PageSize     int `json:"page_size"`
	FirstPage    int `json:"first_page"`
	LastPage     int `json:"last_page"`
	TotalRecords int `json:"total_records"`
}

// ExercisesResponse is the body of GET /exercises.
type ExercisesResponse struct {
	Exercises []Exercise `json:"exercises"`
	Metadata  Metadata   `json:"metadata"`
}

// MusclesResponse is the body of GET /muscles.
type MusclesResponse struct {
	Muscles  []Muscle `json:"muscles"`
	Metadata Metadata `json:"metadata"`
}

// MovementPatternsResponse is the body of GET /movement-patterns.
type MovementPatternsResponse struct {
	MovementPatterns []MovementPattern `json:"movement_patterns"`
	Metadata         Metadata          `json:"metadata"`
}

// ExerciseEnvelope wraps a single exercise.
type ExerciseEnvelope struct {
	Exercise Exercise `json:"exercise"`
}

// MuscleEnvelope wraps a single muscle.
type MuscleEnvelope struct {
	Muscle Muscle `json:"muscle"`
}

// MovementPatternEnvelope wraps a single movement pattern.
type MovementPatternEnvelope struct {
	MovementPattern MovementPattern `json:"movement_pattern"`
}

// MessageResponse is returned by delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ExerciseInput is the body of POST /exercises.
type ExerciseInput struct {
	Name              string       `json:"name"`
	Type              ExerciseType `json:"type"`
	MovementPatternID int          `json:"movement_pattern_id"`
	PrimaryMuscles    []int        `json:"primary_muscles"`
	SecondaryMuscles  []int        `json:"secondary_muscles"`
}

// ExercisePatch is the body of PATCH /exercises/{id}. Nil fields are left
// unchanged; a pointer to an empty muscle list clears it.
type ExercisePatch struct {
	Name              *string       `json:"name,omitempty"`
	Type              *ExerciseType `json:"type,omitempty"`
	MovementPatternID *int          `json:"movement_pattern_id,omitempty"`
	PrimaryMuscles    *[]int        `json:"primary_muscles,omitempty"`
	SecondaryMuscles  *[]int        `json:"secondary_muscles,omitempty"`
}

// MuscleInput is the body of POST /muscles.
type MuscleInput struct {
	Name     string         `json:"name"`
	BodyPart NativeBodyPart `json:"body_part"`
}

// MusclePatch is the body of PATCH /muscles/{id}.
type MusclePatch struct {
	Name     *string         `json:"name,omitempty"`
	BodyPart *NativeBodyPart `json:"body_part,omitempty"`
}

// MovementPatternInput is the body of POST /movement-patterns.
type MovementPatternInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MovementPatternPatch is the body of PATCH /movement-patterns/{id}.
type MovementPatternPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
