package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
	"github.com/rs/zerolog/log"
)

// Config holds page walker configuration.
type Config struct {
	// PageSize is the page_size requested for every page.
	// The backend caps it, so 100 is the practical maximum.
	PageSize int

	// MaxPages bounds how many pages are walked per listing.
	// Listings with more pages are truncated and reported as such.
	MaxPages int

	// MaxConcurrency is the number of parallel fetches after the first page.
	MaxConcurrency int
}

// DefaultConfig returns the walker defaults.
func DefaultConfig() Config {
	return Config{
		PageSize:       100,
		MaxPages:       50,
		MaxConcurrency: 4,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	if c.MaxPages <= 0 {
		c.MaxPages = def.MaxPages
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = def.MaxConcurrency
	}
	return c
}

// PageFunc fetches one page of a listing and returns its items and metadata.
type PageFunc[T any] func(ctx context.Context, w Window) ([]T, catalog.Metadata, error)

// Result is the outcome of walking a listing.
type Result[T any] struct {
	// Items holds every fetched item in page order.
	Items []T

	// Pages is the number of pages fetched.
	Pages int

	// LastPage and TotalRecords echo the first page's metadata.
	LastPage     int
	TotalRecords int

	// Truncated is true when LastPage exceeded MaxPages.
	Truncated bool
}

type pageResult[T any] struct {
	page  int
	items []T
	err   error
}

// FetchAll walks a listing from the first page to its last page.
// The first page error aborts the walk and no partial result is returned.
func FetchAll[T any](ctx context.Context, cfg Config, fetch PageFunc[T]) (*Result[T], error) {
	cfg = cfg.withDefaults()
	start := time.Now()

	firstItems, meta, err := fetch(ctx, Window{Page: FirstPage, PageSize: cfg.PageSize})
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}

	lastPage := meta.LastPage
	if lastPage < FirstPage {
		lastPage = FirstPage
	}

	pages := lastPage
	if pages > cfg.MaxPages {
		pages = cfg.MaxPages
	}

	result := &Result[T]{
		Pages:        pages,
		LastPage:     lastPage,
		TotalRecords: meta.TotalRecords,
		Truncated:    lastPage > pages,
	}

	// Single page optimization
	if pages == 1 {
		result.Items = firstItems
		if result.Items == nil {
			result.Items = []T{}
		}
		logTruncation(result, cfg)
		return result, nil
	}

	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pageItems := make([][]T, pages)
	pageItems[0] = firstItems

	pageQueue := make(chan int, pages-1)
	for page := FirstPage + 1; page <= pages; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	results := make(chan pageResult[T], pages-1)

	var wg sync.WaitGroup
	for i := 0; i < min(cfg.MaxConcurrency, pages-1); i++ {
		wg.Add(1)
		go worker(walkCtx, cfg.PageSize, fetch, pageQueue, results, &wg, i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("fetch page %d: %w", res.page, res.err)
				cancel()
			}
			continue
		}
		pageItems[res.page-1] = res.items
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("walk listing: %w", err)
	}

	total := 0
	for _, items := range pageItems {
		total += len(items)
	}
	result.Items = make([]T, 0, total)
	for _, items := range pageItems {
		result.Items = append(result.Items, items...)
	}

	log.Debug().
		Int("pages", pages).
		Int("items", total).
		Int("total_records", meta.TotalRecords).
		Dur("duration", time.Since(start)).
		Msg("Listing walk complete")

	logTruncation(result, cfg)
	return result, nil
}

// worker fetches pages from the queue until it is drained or the walk is cancelled.
func worker[T any](ctx context.Context, pageSize int, fetch PageFunc[T], pageQueue <-chan int, results chan<- pageResult[T], wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for page := range pageQueue {
		if ctx.Err() != nil {
			log.Debug().
				Int("worker_id", workerID).
				Int("pages_processed", pagesProcessed).
				Msg("Worker stopping (context cancelled)")
			return
		}

		items, _, err := fetch(ctx, Window{Page: page, PageSize: pageSize})
		// results is buffered for every queued page, so this never blocks
		results <- pageResult[T]{page: page, items: items, err: err}
		if err != nil {
			return
		}
		pagesProcessed++
	}
}

func logTruncation[T any](result *Result[T], cfg Config) {
	if !result.Truncated {
		return
	}
	log.Warn().
		Int("last_page", result.LastPage).
		Int("max_pages", cfg.MaxPages).
		Int("page_size", cfg.PageSize).
		Int("total_records", result.TotalRecords).
		Int("fetched", len(result.Items)).
		Msg("Listing truncated at page limit")
}
