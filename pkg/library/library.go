// Package library answers catalog queries the backend cannot filter natively.
//
// Queries keyed by a coarse body part, a muscle multi-select or a movement
// pattern whitelist are translated into one backend listing per value. The
// listings are walked to exhaustion, merged in declared value order with
// duplicates dropped, optionally filtered, and paginated locally. The result
// has the same shape as a plain backend listing. Queries without such a key
// are passed through as a single backend call.
package library

import (
	"context"
	"errors"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
	"github.com/Sternrassler/exercise-library-client/pkg/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrInvalidQuery is wrapped by every validation error. Validation happens
// before any backend request.
var ErrInvalidQuery = errors.New("invalid query")

// Default page sizes used when a query leaves PageSize zero.
const (
	DefaultExercisePageSize        = 12
	DefaultMusclePageSize          = 20
	DefaultMovementPatternPageSize = 20
)

// Backend is the subset of the REST client used for listings.
// *client.Client implements it.
type Backend interface {
	ListExercises(ctx context.Context, params client.ExerciseParams) (*catalog.ExercisesResponse, error)
	ListMuscles(ctx context.Context, params client.MuscleParams) (*catalog.MusclesResponse, error)
	ListMovementPatterns(ctx context.Context, params client.MovementPatternParams) (*catalog.MovementPatternsResponse, error)
}

// Config holds query configuration.
type Config struct {
	// SubRequestPageSize is the page_size of every fan-out listing request.
	// The backend caps page_size at 100.
	SubRequestPageSize int

	// MaxSubRequestPages bounds the pages walked per fan-out value.
	MaxSubRequestPages int

	// MaxConcurrency bounds concurrent fan-out values and concurrent pages
	// within one value.
	MaxConcurrency int
}

// DefaultConfig returns the query defaults.
func DefaultConfig() Config {
	return Config{
		SubRequestPageSize: 100,
		MaxSubRequestPages: 50,
		MaxConcurrency:     6,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.SubRequestPageSize <= 0 {
		c.SubRequestPageSize = def.SubRequestPageSize
	}
	if c.MaxSubRequestPages <= 0 {
		c.MaxSubRequestPages = def.MaxSubRequestPages
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = def.MaxConcurrency
	}
	return c
}

// Library runs catalog queries against a Backend. It holds no per-query
// state and is safe for concurrent use.
type Library struct {
	backend Backend
	config  Config
	logger  zerolog.Logger
}

// New creates a Library. Zero config fields take their defaults.
func New(backend Backend, cfg Config) *Library {
	return &Library{
		backend: backend,
		config:  cfg.withDefaults(),
		logger:  log.With().Str("component", "library").Logger(),
	}
}

// Config returns the effective configuration.
func (l *Library) Config() Config {
	return l.config
}
