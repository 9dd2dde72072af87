package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
	"github.com/Sternrassler/exercise-library-client/pkg/client"
	"github.com/Sternrassler/exercise-library-client/pkg/library"
	"github.com/Sternrassler/exercise-library-client/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// errBadParam marks malformed query or path parameters.
var errBadParam = errors.New("bad parameter")

type server struct {
	client         *client.Client
	library        *library.Library
	requestTimeout time.Duration
	logger         zerolog.Logger
}

// newApp builds the proxy routes on top of a backend client. Every request
// gets requestTimeout for all of its backend calls.
func newApp(c *client.Client, lib *library.Library, requestTimeout time.Duration, logger zerolog.Logger) *fiber.App {
	s := &server{client: c, library: lib, requestTimeout: requestTimeout, logger: logger}

	app := fiber.New(fiber.Config{
		AppName:               "library-proxy",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(s.accessLog)
	app.Use(s.requestContext)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	v1 := app.Group("/v1")

	exercises := v1.Group("/exercises")
	exercises.Get("", s.listExercises)
	exercises.Post("", s.createExercise)
	exercises.Get("/:id", s.getExercise)
	exercises.Patch("/:id", s.updateExercise)
	exercises.Delete("/:id", s.deleteExercise)

	muscles := v1.Group("/muscles")
	muscles.Get("", s.listMuscles)
	muscles.Post("", s.createMuscle)
	muscles.Get("/:id", s.getMuscle)
	muscles.Patch("/:id", s.updateMuscle)
	muscles.Delete("/:id", s.deleteMuscle)

	patterns := v1.Group("/movement-patterns")
	patterns.Get("", s.listMovementPatterns)
	patterns.Post("", s.createMovementPattern)
	patterns.Get("/:id", s.getMovementPattern)
	patterns.Patch("/:id", s.updateMovementPattern)
	patterns.Delete("/:id", s.deleteMovementPattern)

	return app
}

func (s *server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status_code", c.Response().StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("Handled request")
	return err
}

// requestContext attaches a deadline to the handler's UserContext. The
// context is cancelled once the handler returns.
func (s *server) requestContext(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	defer cancel()
	c.SetUserContext(ctx)
	return c.Next()
}

// fail renders err as {"error": message}. Validation errors are 400, backend
// 4xx keep their status, everything else is 502.
func (s *server) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway
	message := err.Error()

	var reqErr *client.RequestError
	switch {
	case errors.Is(err, errBadParam), errors.Is(err, library.ErrInvalidQuery):
		status = fiber.StatusBadRequest
	case errors.As(err, &reqErr):
		message = reqErr.Message
		if reqErr.StatusCode >= 400 && reqErr.StatusCode < 500 {
			status = reqErr.StatusCode
		}
	}

	if status >= 500 {
		s.logger.Error().Err(err).Str("path", c.Path()).Int("status_code", status).Msg("Query failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func badParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadParam, fmt.Sprintf(format, args...))
}

// intParam parses an optional integer query parameter; absent means 0.
func intParam(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badParam("%s must be an integer (got %q)", key, raw)
	}
	return n, nil
}

func window(c *fiber.Ctx) (page, pageSize int, err error) {
	if page, err = intParam(c, "page"); err != nil {
		return 0, 0, err
	}
	if pageSize, err = intParam(c, "page_size"); err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

// multiParam collects a parameter given repeatedly and/or comma-separated.
// It returns nil when the key is absent and a non-nil slice when it is
// present, even if every value is blank.
func multiParam(c *fiber.Ctx, key string) []string {
	args := c.Context().QueryArgs()
	if !args.Has(key) {
		return nil
	}
	out := []string{}
	for _, raw := range args.PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func idParam(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, badParam("id must be a positive integer (got %q)", c.Params("id"))
	}
	return id, nil
}

func (s *server) listExercises(c *fiber.Ctx) error {
	q := library.ExerciseQuery{
		Name:            c.Query("name"),
		MovementPattern: c.Query("movement_pattern"),
	}

	if raw := c.Query("type"); raw != "" {
		t, err := catalog.ParseExerciseType(raw)
		if err != nil {
			return s.fail(c, badParam("%v", err))
		}
		q.Type = t
	}
	if raw := c.Query("body_part"); raw != "" {
		b, err := catalog.ParseBodyPart(raw)
		if err != nil {
			return s.fail(c, badParam("%v", err))
		}
		q.BodyPart = b
	}
	if raw := multiParam(c, "muscle_id"); raw != nil {
		q.MuscleIDs = make([]int, 0, len(raw))
		for _, v := range raw {
			id, err := strconv.Atoi(v)
			if err != nil {
				return s.fail(c, badParam("muscle_id must be an integer (got %q)", v))
			}
			q.MuscleIDs = append(q.MuscleIDs, id)
		}
	}
	q.PatternNames = multiParam(c, "pattern")

	var err error
	if q.Page, q.PageSize, err = window(c); err != nil {
		return s.fail(c, err)
	}

	resp, err := s.library.Exercises(c.UserContext(), q)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(resp)
}

func (s *server) listMuscles(c *fiber.Ctx) error {
	var q library.MuscleQuery
	if raw := c.Query("body_part"); raw != "" {
		b, err := catalog.ParseBodyPart(raw)
		if err != nil {
			return s.fail(c, badParam("%v", err))
		}
		q.BodyPart = b
	}

	var err error
	if q.Page, q.PageSize, err = window(c); err != nil {
		return s.fail(c, err)
	}

	resp, err := s.library.Muscles(c.UserContext(), q)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(resp)
}

func (s *server) listMovementPatterns(c *fiber.Ctx) error {
	q := library.MovementPatternQuery{Name: c.Query("name")}

	var err error
	if q.Page, q.PageSize, err = window(c); err != nil {
		return s.fail(c, err)
	}

	resp, err := s.library.MovementPatterns(c.UserContext(), q)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(resp)
}

// item handles the single-record routes: parse the id, call the backend,
// wrap the result under key.
func item[T any](s *server, c *fiber.Ctx, key string, call func(id int) (*T, error)) error {
	id, err := idParam(c)
	if err != nil {
		return s.fail(c, err)
	}
	v, err := call(id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{key: v})
}

// body decodes a JSON request body into T.
func body[T any](c *fiber.Ctx) (T, error) {
	var v T
	if err := c.BodyParser(&v); err != nil {
		return v, badParam("invalid request body: %v", err)
	}
	return v, nil
}

func (s *server) getExercise(c *fiber.Ctx) error {
	return item(s, c, "exercise", func(id int) (*catalog.Exercise, error) {
		return s.client.GetExercise(c.UserContext(), id)
	})
}

func (s *server) createExercise(c *fiber.Ctx) error {
	in, err := body[catalog.ExerciseInput](c)
	if err != nil {
		return s.fail(c, err)
	}
	e, err := s.client.CreateExercise(c.UserContext(), in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(catalog.ExerciseEnvelope{Exercise: *e})
}

func (s *server) updateExercise(c *fiber.Ctx) error {
	patch, err := body[catalog.ExercisePatch](c)
	if err != nil {
		return s.fail(c, err)
	}
	return item(s, c, "exercise", func(id int) (*catalog.Exercise, error) {
		return s.client.UpdateExercise(c.UserContext(), id, patch)
	})
}

func (s *server) deleteExercise(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return s.fail(c, err)
	}
	msg, err := s.client.DeleteExercise(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(msg)
}

func (s *server) getMuscle(c *fiber.Ctx) error {
	return item(s, c, "muscle", func(id int) (*catalog.Muscle, error) {
		return s.client.GetMuscle(c.UserContext(), id)
	})
}

func (s *server) createMuscle(c *fiber.Ctx) error {
	in, err := body[catalog.MuscleInput](c)
	if err != nil {
		return s.fail(c, err)
	}
	m, err := s.client.CreateMuscle(c.UserContext(), in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(catalog.MuscleEnvelope{Muscle: *m})
}

func (s *server) updateMuscle(c *fiber.Ctx) error {
	patch, err := body[catalog.MusclePatch](c)
	if err != nil {
		return s.fail(c, err)
	}
	return item(s, c, "muscle", func(id int) (*catalog.Muscle, error) {
		return s.client.UpdateMuscle(c.UserContext(), id, patch)
	})
}

func (s *server) deleteMuscle(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return s.fail(c, err)
	}
	msg, err := s.client.DeleteMuscle(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(msg)
}

func (s *server) getMovementPattern(c *fiber.Ctx) error {
	return item(s, c, "movement_pattern", func(id int) (*catalog.MovementPattern, error) {
		return s.client.GetMovementPattern(c.UserContext(), id)
	})
}

func (s *server) createMovementPattern(c *fiber.Ctx) error {
	in, err := body[catalog.MovementPatternInput](c)
	if err != nil {
		return s.fail(c, err)
	}
	p, err := s.client.CreateMovementPattern(c.UserContext(), in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(catalog.MovementPatternEnvelope{MovementPattern: *p})
}

func (s *server) updateMovementPattern(c *fiber.Ctx) error {
	patch, err := body[catalog.MovementPatternPatch](c)
	if err != nil {
		return s.fail(c, err)
	}
	return item(s, c, "movement_pattern", func(id int) (*catalog.MovementPattern, error) {
		return s.client.UpdateMovementPattern(c.UserContext(), id, patch)
	})
}

func (s *server) deleteMovementPattern(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return s.fail(c, err)
	}
	msg, err := s.client.DeleteMovementPattern(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(msg)
}
