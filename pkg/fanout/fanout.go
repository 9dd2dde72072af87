// Package fanout runs one fetch per value concurrently and merges the
// results into a single collection, deduplicated by id in first-seen order.
//
// Values are merged in the order they are given, and items within a value in
// the order they were returned, regardless of which fetch finished first.
package fanout

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Config holds fan-out configuration.
type Config struct {
	// MaxConcurrency bounds the number of fetches in flight.
	MaxConcurrency int
}

// DefaultConfig returns the fan-out defaults. The largest body part
// category expands to four values, so six covers every category at once.
func DefaultConfig() Config {
	return Config{MaxConcurrency: 6}
}

// FetchFunc fetches every item matching a single value.
type FetchFunc[V, T any] func(ctx context.Context, value V) ([]T, error)

// Stats describes one fan-out run.
type Stats struct {
	SubRequests int
	Fetched     int
	Duplicates  int
}

// Collect calls fetch once per value, waits for all of them, and merges the
// batches with Merge. The first failing fetch cancels the others and its
// error is returned; no partial result is produced. Zero values yield an
// empty, non-nil result.
func Collect[V any, T any, K comparable](ctx context.Context, cfg Config, values []V, fetch FetchFunc[V, T], id func(T) K) ([]T, Stats, error) {
	stats := Stats{SubRequests: len(values)}
	if len(values) == 0 {
		return []T{}, stats, nil
	}

	limit := cfg.MaxConcurrency
	if limit <= 0 {
		limit = DefaultConfig().MaxConcurrency
	}

	batches := make([][]T, len(values))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, value := range values {
		g.Go(func() error {
			items, err := fetch(gctx, value)
			if err != nil {
				return fmt.Errorf("fetch %v: %w", value, err)
			}
			batches[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	for _, batch := range batches {
		stats.Fetched += len(batch)
	}

	merged, dups := Merge(batches, id)
	stats.Duplicates = dups
	return merged, stats, nil
}

// Merge concatenates batches in order, keeping only the first occurrence of
// each id. It returns the merged slice and the number of dropped duplicates.
func Merge[T any, K comparable](batches [][]T, id func(T) K) ([]T, int) {
	total := 0
	for _, batch := range batches {
		total += len(batch)
	}

	seen := make(map[K]struct{}, total)
	merged := make([]T, 0, total)
	dups := 0

	for _, batch := range batches {
		for _, item := range batch {
			key := id(item)
			if _, ok := seen[key]; ok {
				dups++
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, item)
		}
	}

	return merged, dups
}
