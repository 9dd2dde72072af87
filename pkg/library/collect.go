package library

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
	"github.com/Sternrassler/exercise-library-client/pkg/fanout"
	"github.com/Sternrassler/exercise-library-client/pkg/pagination"
)

// listFunc fetches one native page of the listing selected by value.
type listFunc[V, T any] func(ctx context.Context, value V, w pagination.Window) ([]T, catalog.Metadata, error)

// collect runs one exhaustive listing per value and merges the results in
// value order, keeping the first occurrence of every id.
func collect[V, T any](ctx context.Context, l *Library, resource, key string, values []V, list listFunc[V, T], id func(T) int) ([]T, error) {
	start := time.Now()

	pageCfg := pagination.Config{
		PageSize:       l.config.SubRequestPageSize,
		MaxPages:       l.config.MaxSubRequestPages,
		MaxConcurrency: l.config.MaxConcurrency,
	}

	fetch := func(ctx context.Context, value V) ([]T, error) {
		fanoutSubRequestsTotal.WithLabelValues(resource).Inc()

		l.logger.Debug().
			Str("resource", resource).
			Str("fanout_key", key).
			Str("value", fmt.Sprint(value)).
			Msg("Dispatching sub-request")

		res, err := pagination.FetchAll(ctx, pageCfg, func(ctx context.Context, w pagination.Window) ([]T, catalog.Metadata, error) {
			return list(ctx, value, w)
		})
		if err != nil {
			return nil, err
		}
		if res.Truncated {
			fanoutTruncationsTotal.WithLabelValues(resource).Inc()
			l.logger.Warn().
				Str("resource", resource).
				Str("fanout_key", key).
				Str("value", fmt.Sprint(value)).
				Int("total_records", res.TotalRecords).
				Int("fetched", len(res.Items)).
				Msg("Sub-request truncated, merged result is incomplete")
		}
		return res.Items, nil
	}

	merged, stats, err := fanout.Collect(ctx, fanout.Config{MaxConcurrency: l.config.MaxConcurrency}, values, fetch, id)
	if err != nil {
		return nil, err
	}

	fanoutDuplicatesTotal.WithLabelValues(resource).Add(float64(stats.Duplicates))

	l.logger.Debug().
		Str("resource", resource).
		Str("fanout_key", key).
		Int("sub_requests", stats.SubRequests).
		Int("fetched", stats.Fetched).
		Int("duplicates", stats.Duplicates).
		Int("total_records", len(merged)).
		Dur("duration", time.Since(start)).
		Msg("Fan-out merged")

	return merged, nil
}

// window applies the default page size and validates the result.
func window(page, pageSize, defaultSize int) (pagination.Window, error) {
	w := pagination.Window{Page: page, PageSize: pageSize}.WithDefaults(defaultSize)
	if err := w.Validate(); err != nil {
		return w, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return w, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
