package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
)

const (
	exercisesPath        = "/exercises"
	musclesPath          = "/muscles"
	movementPatternsPath = "/movement-patterns"
)

func itemPath(collection string, id int) string {
	return collection + "/" + strconv.Itoa(id)
}

// ListExercises performs GET /exercises.
func (c *Client) ListExercises(ctx context.Context, params ExerciseParams) (*catalog.ExercisesResponse, error) {
	var out catalog.ExercisesResponse
	if err := c.request(ctx, http.MethodGet, exercisesPath, params.Values(), nil, &out); err != nil {
		return nil, err
	}
	if out.Exercises == nil {
		out.Exercises = []catalog.Exercise{}
	}
	return &out, nil
}

// GetExercise performs GET /exercises/{id}.
func (c *Client) GetExercise(ctx context.Context, id int) (*catalog.Exercise, error) {
	var out catalog.ExerciseEnvelope
	if err := c.request(ctx, http.MethodGet, itemPath(exercisesPath, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Exercise, nil
}

// CreateExercise performs POST /exercises.
func (c *Client) CreateExercise(ctx context.Context, in catalog.ExerciseInput) (*catalog.Exercise, error) {
	var out catalog.ExerciseEnvelope
	if err := c.request(ctx, http.MethodPost, exercisesPath, nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Exercise, nil
}

// UpdateExercise performs PATCH /exercises/{id}.
func (c *Client) UpdateExercise(ctx context.Context, id int, patch catalog.ExercisePatch) (*catalog.Exercise, error) {
	var out catalog.ExerciseEnvelope
	if err := c.request(ctx, http.MethodPatch, itemPath(exercisesPath, id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out.Exercise, nil
}

// DeleteExercise performs DELETE /exercises/{id}.
func (c *Client) DeleteExercise(ctx context.Context, id int) (*catalog.MessageResponse, error) {
	var out catalog.MessageResponse
	if err := c.request(ctx, http.MethodDelete, itemPath(exercisesPath, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMuscles performs GET /muscles.
func (c *Client) ListMuscles(ctx context.Context, params MuscleParams) (*catalog.MusclesResponse, error) {
	var out catalog.MusclesResponse
	if err := c.request(ctx, http.MethodGet, musclesPath, params.Values(), nil, &out); err != nil {
		return nil, err
	}
	if out.Muscles == nil {
		out.Muscles = []catalog.Muscle{}
	}
	return &out, nil
}

// GetMuscle performs GET /muscles/{id}.
func (c *Client) GetMuscle(ctx context.Context, id int) (*catalog.Muscle, error) {
	var out catalog.MuscleEnvelope
	if err := c.request(ctx, http.MethodGet, itemPath(musclesPath, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Muscle, nil
}

// CreateMuscle performs POST /muscles.
func (c *Client) CreateMuscle(ctx context.Context, in catalog.MuscleInput) (*catalog.Muscle, error) {
	var out catalog.MuscleEnvelope
	if err := c.request(ctx, http.MethodPost, musclesPath, nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Muscle, nil
}

// UpdateMuscle performs PATCH /muscles/{id}.
func (c *Client) UpdateMuscle(ctx context.Context, id int, patch catalog.MusclePatch) (*catalog.Muscle, error) {
	var out catalog.MuscleEnvelope
	if err := c.request(ctx, http.MethodPatch, itemPath(musclesPath, id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out.Muscle, nil
}

// DeleteMuscle performs DELETE /muscles/{id}.
func (c *Client) DeleteMuscle(ctx context.Context, id int) (*catalog.MessageResponse, error) {
	var out catalog.MessageResponse
	if err := c.request(ctx, http.MethodDelete, itemPath(musclesPath, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMovementPatterns performs GET /movement-patterns.
func (c *Client) ListMovementPatterns(ctx context.Context, params MovementPatternParams) (*catalog.MovementPatternsResponse, error) {
	var out catalog.MovementPatternsResponse
	if err := c.request(ctx, http.MethodGet, movementPatternsPath, params.Values(), nil, &out); err != nil {
		return nil, err
	}
	if out.MovementPatterns == nil {
		out.MovementPatterns = []catalog.MovementPattern{}
	}
	return &out, nil
}

// GetMovementPattern performs GET /movement-patterns/{id}.
func (c *Client) GetMovementPattern(ctx context.Context, id int) (*catalog.MovementPattern, error) {
	var out catalog.MovementPatternEnvelope
	if err := c.request(ctx, http.MethodGet, itemPath(movementPatternsPath, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.MovementPattern, nil
}

// CreateMovementPattern performs POST /movement-patterns.
func (c *Client) CreateMovementPattern(ctx context.Context, in catalog.MovementPatternInput) (*catalog.MovementPattern, error) {
	var out catalog.MovementPatternEnvelope
	if err := c.request(ctx, http.MethodPost, movementPatternsPath, nil, in, &out); err != nil {
		return nil, err
	}
	return &out.MovementPattern, nil
}

// UpdateMovementPattern performs PATCH /movement-patterns/{id}.
func (c *Client) UpdateMovementPattern(ctx context.Context, id int, patch catalog.MovementPatternPatch) (*catalog.MovementPattern, error) {
	var out catalog.MovementPatternEnvelope
	if err := c.request(ctx, http.MethodPatch, itemPath(movementPatternsPath, id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out.MovementPattern, nil
}

// DeleteMovementPattern performs DELETE /movement-patterns/{id}.
func (c *Client) DeleteMovementPattern(ctx context.Context, id int) (*catalog.MessageResponse, error) {
	var out catalog.MessageResponse
	if err := c.request(ctx, http.MethodDelete, itemPath(movementPatternsPath, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
