package library

import (
	"context"
	"slices"
	"strings"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
	"github.com/Sternrassler/exercise-library-client/pkg/client"
	"github.com/Sternrassler/exercise-library-client/pkg/pagination"
)

// Fan-out keys of an exercise query, used in logs.
const (
	keyBodyPart = "body_part"
	keyMuscle   = "muscle_id"
	keyPattern  = "movement_pattern"
)

// ExerciseQuery selects a page of exercises.
//
// BodyPart and MuscleIDs are fan-out keys and are mutually exclusive. A
// non-nil MuscleIDs selects multi-select mode even when empty, in which case
// the result is an empty page. PatternNames is a whitelist of movement
// pattern names matched case-insensitively against each exercise's embedded
// pattern; with no other fan-out key it becomes the fan-out key itself.
// Queries with none of the three are passed through to the backend.
type ExerciseQuery struct {
	Name            string
	Type            catalog.ExerciseType
	MovementPattern string
	BodyPart        catalog.BodyPart
	MuscleIDs       []int
	PatternNames    []string
	Page            int
	PageSize        int
}

func (q ExerciseQuery) fansOut() bool {
	return q.BodyPart != "" || q.MuscleIDs != nil || q.PatternNames != nil
}

func (q ExerciseQuery) validate() error {
	if q.Type != "" && !q.Type.Valid() {
		return invalid("unknown exercise type %q", q.Type)
	}
	if q.BodyPart != "" && !q.BodyPart.Valid() {
		return invalid("unknown body part %q", q.BodyPart)
	}
	if q.BodyPart != "" && q.MuscleIDs != nil {
		return invalid("body_part and muscle_id cannot be combined")
	}
	if q.MovementPattern != "" && q.PatternNames != nil {
		return invalid("movement_pattern and a pattern whitelist cannot be combined")
	}
	for _, id := range q.MuscleIDs {
		if id <= 0 {
			return invalid("muscle id must be positive (got %d)", id)
		}
	}
	return nil
}

// Exercises returns one page of exercises matching q.
func (l *Library) Exercises(ctx context.Context, q ExerciseQuery) (*catalog.ExercisesResponse, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	win, err := window(q.Page, q.PageSize, DefaultExercisePageSize)
	if err != nil {
		return nil, err
	}

	if !q.fansOut() {
		return l.backend.ListExercises(ctx, client.ExerciseParams{
			Name:            q.Name,
			Type:            q.Type,
			MovementPattern: q.MovementPattern,
			Page:            q.Page,
			PageSize:        q.PageSize,
		})
	}

	base := client.ExerciseParams{
		Name:            q.Name,
		Type:            q.Type,
		MovementPattern: q.MovementPattern,
	}
	whitelist := normalizePatterns(q.PatternNames)

	var merged []catalog.Exercise
	switch {
	case q.BodyPart != "":
		parts, _ := q.BodyPart.Expand()
		merged, err = collect(ctx, l, "exercises", keyBodyPart, parts,
			func(ctx context.Context, part catalog.NativeBodyPart, w pagination.Window) ([]catalog.Exercise, catalog.Metadata, error) {
				p := base
				p.BodyPart = part
				return l.listExercisePage(ctx, p, w)
			}, catalog.ExerciseID)

	case q.MuscleIDs != nil:
		merged, err = collect(ctx, l, "exercises", keyMuscle, distinct(q.MuscleIDs),
			func(ctx context.Context, muscleID int, w pagination.Window) ([]catalog.Exercise, catalog.Metadata, error) {
				p := base
				p.MuscleID = muscleID
				return l.listExercisePage(ctx, p, w)
			}, catalog.ExerciseID)

	default:
		merged, err = collect(ctx, l, "exercises", keyPattern, distinctPatterns(q.PatternNames),
			func(ctx context.Context, pattern string, w pagination.Window) ([]catalog.Exercise, catalog.Metadata, error) {
				p := base
				p.MovementPattern = pattern
				return l.listExercisePage(ctx, p, w)
			}, catalog.ExerciseID)
	}
	if err != nil {
		return nil, err
	}

	if q.PatternNames != nil {
		merged = filterPatterns(merged, whitelist)
	}

	page, meta := pagination.Paginate(merged, win)
	return &catalog.ExercisesResponse{Exercises: page, Metadata: meta}, nil
}

func (l *Library) listExercisePage(ctx context.Context, p client.ExerciseParams, w pagination.Window) ([]catalog.Exercise, catalog.Metadata, error) {
	p.Page = w.Page
	p.PageSize = w.PageSize
	resp, err := l.backend.ListExercises(ctx, p)
	if err != nil {
		return nil, catalog.Metadata{}, err
	}
	return resp.Exercises, resp.Metadata, nil
}

func normalizePattern(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalizePatterns trims, lowercases and deduplicates names, dropping blanks.
func normalizePatterns(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = normalizePattern(n)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// distinctPatterns keeps the first trimmed spelling of each name that
// normalizes differently, dropping blanks. The backend receives names as
// the caller wrote them.
func distinctPatterns(names []string) []string {
	seen := make([]string, 0, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		key := normalizePattern(n)
		if key == "" || slices.Contains(seen, key) {
			continue
		}
		seen = append(seen, key)
		out = append(out, strings.TrimSpace(n))
	}
	return out
}

// filterPatterns keeps exercises whose embedded pattern is in the normalized
// whitelist. Exercises without an embedded pattern never match.
func filterPatterns(exercises []catalog.Exercise, whitelist []string) []catalog.Exercise {
	out := make([]catalog.Exercise, 0, len(exercises))
	for _, e := range exercises {
		if e.MovementPattern == nil {
			continue
		}
		if slices.Contains(whitelist, normalizePattern(e.MovementPattern.Name)) {
			out = append(out, e)
		}
	}
	return out
}

// distinct returns ids in first-seen order without repeats.
func distinct(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
