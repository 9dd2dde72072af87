package library

import (
	"context"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
	"github.com/Sternrassler/exercise-library-client/pkg/client"
)

// MovementPatternQuery selects a page of movement patterns.
type MovementPatternQuery struct {
	Name     string
	Page     int
	PageSize int
}

// MovementPatterns passes the query through as a single backend call.
func (l *Library) MovementPatterns(ctx context.Context, q MovementPatternQuery) (*catalog.MovementPatternsResponse, error) {
	if _, err := window(q.Page, q.PageSize, DefaultMovementPatternPageSize); err != nil {
		return nil, err
	}
	return l.backend.ListMovementPatterns(ctx, client.MovementPatternParams{
		Name:     q.Name,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
}
