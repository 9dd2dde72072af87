package library

import (
	"context"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
	"github.com/Sternrassler/exercise-library-client/pkg/client"
	"github.com/Sternrassler/exercise-library-client/pkg/pagination"
)

// MuscleQuery selects a page of muscles. A coarse BodyPart fans out to its
// native body parts; without it the query is passed through.
type MuscleQuery struct {
	BodyPart catalog.BodyPart
	Page     int
	PageSize int
}

// Muscles returns one page of muscles matching q.
func (l *Library) Muscles(ctx context.Context, q MuscleQuery) (*catalog.MusclesResponse, error) {
	if q.BodyPart != "" && !q.BodyPart.Valid() {
		return nil, invalid("unknown body part %q", q.BodyPart)
	}
	win, err := window(q.Page, q.PageSize, DefaultMusclePageSize)
	if err != nil {
		return nil, err
	}

	if q.BodyPart == "" {
		return l.backend.ListMuscles(ctx, client.MuscleParams{
			Page:     q.Page,
			PageSize: q.PageSize,
		})
	}

	parts, _ := q.BodyPart.Expand()
	merged, err := collect(ctx, l, "muscles", keyBodyPart, parts,
		func(ctx context.Context, part catalog.NativeBodyPart, w pagination.Window) ([]catalog.Muscle, catalog.Metadata, error) {
			resp, err := l.backend.ListMuscles(ctx, client.MuscleParams{
				BodyPart: part,
				Page:     w.Page,
				PageSize: w.PageSize,
			})
			if err != nil {
				return nil, catalog.Metadata{}, err
			}
			return resp.Muscles, resp.Metadata, nil
		}, catalog.MuscleID)
	if err != nil {
		return nil, err
	}

	page, meta := pagination.Paginate(merged, win)
	return &catalog.MusclesResponse{Muscles: page, Metadata: meta}, nil
}
