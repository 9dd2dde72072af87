// Package testutil provides an in-memory exercise library backend for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
	"github.com/Sternrassler/exercise-library-client/pkg/pagination"
)

// Backend listing limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MockResponse defines a canned response for a path.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockBackend is an httptest server implementing the exercise library REST
// contract over in-memory data.
type MockBackend struct {
	server   *httptest.Server
	mux      *http.ServeMux
	basePath string

	mu        sync.RWMutex
	overrides map[string]func(w http.ResponseWriter, r *http.Request)
	exercises []catalog.Exercise
	muscles   []catalog.Muscle
	patterns  []catalog.MovementPattern
	nextID    int

	// Tracking
	requestCount int
	requests     []string
	lastHeader   http.Header

	// Budget headers sent with every response; empty disables them.
	rateLimitRemaining string
	rateLimitReset     string
}

// NewMockBackend creates a mock backend serving the given data under basePath.
func NewMockBackend(basePath string, data Dataset) *MockBackend {
	m := &MockBackend{
		mux:       http.NewServeMux(),
		basePath:  strings.TrimRight(basePath, "/"),
		overrides: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		exercises: slices.Clone(data.Exercises),
		muscles:   slices.Clone(data.Muscles),
		patterns:  slices.Clone(data.MovementPatterns),
		nextID:    1000,
	}
	m.routes()

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requestCount++
		m.requests = append(m.requests, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
		m.lastHeader = r.Header.Clone()
		remaining, reset := m.rateLimitRemaining, m.rateLimitReset
		override := m.overrides[r.URL.Path]
		m.mu.Unlock()

		if remaining != "" {
			w.Header().Set("X-RateLimit-Remaining", remaining)
			w.Header().Set("X-RateLimit-Reset", reset)
		}

		if override != nil {
			override(w, r)
			return
		}
		m.mux.ServeHTTP(w, r)
	}))

	return m
}

// NewSeededBackend creates a mock backend under /v1 with the Seed dataset.
func NewSeededBackend() *MockBackend {
	return NewMockBackend("/v1", Seed())
}

// URL returns the mock server URL.
func (m *MockBackend) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBackend) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockBackend) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.requests = nil
	m.lastHeader = nil
}

// SetHandler overrides the handler for an exact path, e.g. "/v1/exercises".
func (m *MockBackend) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[path] = handler
}

// Serve dispatches r to the built-in routes. Overrides that only observe a
// request call it to fall through.
func (m *MockBackend) Serve(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}

// SetResponse configures a canned response for an exact path.
func (m *MockBackend) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// FailWhen makes list requests on path fail with resp whenever match returns true.
func (m *MockBackend) FailWhen(path string, match func(r *http.Request) bool, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if !match(r) {
			m.mux.ServeHTTP(w, r)
			return
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		w.Write([]byte(resp.Body))
	})
}

// SetRateLimit makes every response carry the given budget headers.
func (m *MockBackend) SetRateLimit(remaining, resetSeconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimitRemaining = strconv.Itoa(remaining)
	m.rateLimitReset = strconv.Itoa(resetSeconds)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockBackend) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// Requests returns "METHOD path?query" for every request in arrival order.
func (m *MockBackend) Requests() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.requests)
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockBackend) LastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHeader.Clone()
}

func (m *MockBackend) routes() {
	p := m.basePath
	m.mux.HandleFunc("GET "+p+"/exercises", m.listExercises)
	m.mux.HandleFunc("POST "+p+"/exercises", m.createExercise)
	m.mux.HandleFunc("GET "+p+"/exercises/{id}", m.getExercise)
	m.mux.HandleFunc("PATCH "+p+"/exercises/{id}", m.updateExercise)
	m.mux.HandleFunc("DELETE "+p+"/exercises/{id}", m.deleteExercise)

	m.mux.HandleFunc("GET "+p+"/muscles", m.listMuscles)
	m.mux.HandleFunc("POST "+p+"/muscles", m.createMuscle)
	m.mux.HandleFunc("GET "+p+"/muscles/{id}", m.getMuscle)
	m.mux.HandleFunc("PATCH "+p+"/muscles/{id}", m.updateMuscle)
	m.mux.HandleFunc("DELETE "+p+"/muscles/{id}", m.deleteMuscle)

	m.mux.HandleFunc("GET "+p+"/movement-patterns", m.listPatterns)
	m.mux.HandleFunc("POST "+p+"/movement-patterns", m.createPattern)
	m.mux.HandleFunc("GET "+p+"/movement-patterns/{id}", m.getPattern)
	m.mux.HandleFunc("PATCH "+p+"/movement-patterns/{id}", m.updatePattern)
	m.mux.HandleFunc("DELETE "+p+"/movement-patterns/{id}", m.deletePattern)
}

// window reads page and page_size the way the backend does: missing values
// default, page_size is capped at MaxPageSize.
func window(w http.ResponseWriter, r *http.Request) (pagination.Window, bool) {
	q := r.URL.Query()
	win := pagination.Window{Page: pagination.FirstPage, PageSize: DefaultPageSize}

	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid page")
			return win, false
		}
		win.Page = n
	}
	if s := q.Get("page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid page_size")
			return win, false
		}
		win.PageSize = min(n, MaxPageSize)
	}
	return win, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func hasMuscle(e catalog.Exercise, match func(catalog.Muscle) bool) bool {
	return slices.ContainsFunc(e.PrimaryMuscles, match) || slices.ContainsFunc(e.SecondaryMuscles, match)
}

func (m *MockBackend) listExercises(w http.ResponseWriter, r *http.Request) {
	win, ok := window(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	name := strings.ToLower(q.Get("name"))
	typ := q.Get("type")
	pattern := strings.ToLower(q.Get("movement_pattern"))
	bodyPart := catalog.NativeBodyPart(q.Get("body_part"))
	muscleID, _ := strconv.Atoi(q.Get("muscle_id"))

	m.mu.RLock()
	matched := make([]catalog.Exercise, 0, len(m.exercises))
	for _, e := range m.exercises {
		if name != "" && !strings.Contains(strings.ToLower(e.Name), name) {
			continue
		}
		if typ != "" && string(e.Type) != typ {
			continue
		}
		if pattern != "" && strings.ToLower(e.PatternName()) != pattern {
			continue
		}
		if bodyPart != "" && !hasMuscle(e, func(mu catalog.Muscle) bool { return mu.BodyPart == bodyPart }) {
			continue
		}
		if muscleID != 0 && !hasMuscle(e, func(mu catalog.Muscle) bool { return mu.ID == muscleID }) {
			continue
		}
		matched = append(matched, e)
	}
	m.mu.RUnlock()

	page, meta := pagination.Paginate(matched, win)
	writeJSON(w, http.StatusOK, catalog.ExercisesResponse{Exercises: page, Metadata: meta})
}

func (m *MockBackend) findExercise(id int) int {
	return slices.IndexFunc(m.exercises, func(e catalog.Exercise) bool { return e.ID == id })
}

func (m *MockBackend) findMuscle(id int) int {
	return slices.IndexFunc(m.muscles, func(mu catalog.Muscle) bool { return mu.ID == id })
}

func (m *MockBackend) findPattern(id int) int {
	return slices.IndexFunc(m.patterns, func(p catalog.MovementPattern) bool { return p.ID == id })
}

func (m *MockBackend) resolveMuscles(ids []int) []catalog.Muscle {
	out := make([]catalog.Muscle, 0, len(ids))
	for _, id := range ids {
		if i := m.findMuscle(id); i >= 0 {
			out = append(out, m.muscles[i])
		}
	}
	return out
}

func (m *MockBackend) getExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.findExercise(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "exercise not found")
		return
	}
	writeJSON(w, http.StatusOK, catalog.ExerciseEnvelope{Exercise: m.exercises[i]})
}

func (m *MockBackend) createExercise(w http.ResponseWriter, r *http.Request) {
	var in catalog.ExerciseInput
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	if !in.Type.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "invalid exercise type")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	pi := m.findPattern(in.MovementPatternID)
	if pi < 0 {
		writeError(w, http.StatusUnprocessableEntity, "unknown movement pattern")
		return
	}
	m.nextID++
	pattern := m.patterns[pi]
	e := catalog.Exercise{
		ID:                m.nextID,
		Name:              in.Name,
		Type:              in.Type,
		MovementPatternID: in.MovementPatternID,
		MovementPattern:   &pattern,
		PrimaryMuscles:    m.resolveMuscles(in.PrimaryMuscles),
		SecondaryMuscles:  m.resolveMuscles(in.SecondaryMuscles),
		Version:           1,
	}
	m.exercises = append(m.exercises, e)
	writeJSON(w, http.StatusCreated, catalog.ExerciseEnvelope{Exercise: e})
}

func (m *MockBackend) updateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch catalog.ExercisePatch
	if !decode(w, r, &patch) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findExercise(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "exercise not found")
		return
	}
	e := m.exercises[i]
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "invalid exercise type")
			return
		}
		e.Type = *patch.Type
	}
	if patch.MovementPatternID != nil {
		pi := m.findPattern(*patch.MovementPatternID)
		if pi < 0 {
			writeError(w, http.StatusUnprocessableEntity, "unknown movement pattern")
			return
		}
		pattern := m.patterns[pi]
		e.MovementPatternID = pattern.ID
		e.MovementPattern = &pattern
	}
	if patch.PrimaryMuscles != nil {
		e.PrimaryMuscles = m.resolveMuscles(*patch.PrimaryMuscles)
	}
	if patch.SecondaryMuscles != nil {
		e.SecondaryMuscles = m.resolveMuscles(*patch.SecondaryMuscles)
	}
	e.Version++
	m.exercises[i] = e
	writeJSON(w, http.StatusOK, catalog.ExerciseEnvelope{Exercise: e})
}

func (m *MockBackend) deleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findExercise(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "exercise not found")
		return
	}
	m.exercises = slices.Delete(m.exercises, i, i+1)
	writeJSON(w, http.StatusOK, catalog.MessageResponse{Message: "exercise deleted"})
}

func (m *MockBackend) listMuscles(w http.ResponseWriter, r *http.Request) {
	win, ok := window(w, r)
	if !ok {
		return
	}
	bodyPart := catalog.NativeBodyPart(r.URL.Query().Get("body_part"))

	m.mu.RLock()
	matched := make([]catalog.Muscle, 0, len(m.muscles))
	for _, mu := range m.muscles {
		if bodyPart != "" && mu.BodyPart != bodyPart {
			continue
		}
		matched = append(matched, mu)
	}
	m.mu.RUnlock()

	page, meta := pagination.Paginate(matched, win)
	writeJSON(w, http.StatusOK, catalog.MusclesResponse{Muscles: page, Metadata: meta})
}

func (m *MockBackend) getMuscle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.findMuscle(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "muscle not found")
		return
	}
	writeJSON(w, http.StatusOK, catalog.MuscleEnvelope{Muscle: m.muscles[i]})
}

func (m *MockBackend) createMuscle(w http.ResponseWriter, r *http.Request) {
	var in catalog.MuscleInput
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" || !in.BodyPart.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "name and a valid body_part are required")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	mu := catalog.Muscle{ID: m.nextID, Name: in.Name, BodyPart: in.BodyPart}
	m.muscles = append(m.muscles, mu)
	writeJSON(w, http.StatusCreated, catalog.MuscleEnvelope{Muscle: mu})
}

func (m *MockBackend) updateMuscle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch catalog.MusclePatch
	if !decode(w, r, &patch) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findMuscle(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "muscle not found")
		return
	}
	if patch.Name != nil {
		m.muscles[i].Name = *patch.Name
	}
	if patch.BodyPart != nil {
		if !patch.BodyPart.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "invalid body_part")
			return
		}
		m.muscles[i].BodyPart = *patch.BodyPart
	}
	writeJSON(w, http.StatusOK, catalog.MuscleEnvelope{Muscle: m.muscles[i]})
}

func (m *MockBackend) deleteMuscle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findMuscle(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "muscle not found")
		return
	}
	m.muscles = slices.Delete(m.muscles, i, i+1)
	writeJSON(w, http.StatusOK, catalog.MessageResponse{Message: "muscle deleted"})
}

func (m *MockBackend) listPatterns(w http.ResponseWriter, r *http.Request) {
	win, ok := window(w, r)
	if !ok {
		return
	}
	name := strings.ToLower(r.URL.Query().Get("name"))

	m.mu.RLock()
	matched := make([]catalog.MovementPattern, 0, len(m.patterns))
	for _, p := range m.patterns {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		matched = append(matched, p)
	}
	m.mu.RUnlock()

	page, meta := pagination.Paginate(matched, win)
	writeJSON(w, http.StatusOK, catalog.MovementPatternsResponse{MovementPatterns: page, Metadata: meta})
}

func (m *MockBackend) getPattern(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.findPattern(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "movement pattern not found")
		return
	}
	writeJSON(w, http.StatusOK, catalog.MovementPatternEnvelope{MovementPattern: m.patterns[i]})
}

func (m *MockBackend) createPattern(w http.ResponseWriter, r *http.Request) {
	var in catalog.MovementPatternInput
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p := catalog.MovementPattern{ID: m.nextID, Name: in.Name, Description: in.Description}
	m.patterns = append(m.patterns, p)
	writeJSON(w, http.StatusCreated, catalog.MovementPatternEnvelope{MovementPattern: p})
}

func (m *MockBackend) updatePattern(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch catalog.MovementPatternPatch
	if !decode(w, r, &patch) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findPattern(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "movement pattern not found")
		return
	}
	if patch.Name != nil {
		m.patterns[i].Name = *patch.Name
	}
	if patch.Description != nil {
		m.patterns[i].Description = *patch.Description
	}
	writeJSON(w, http.StatusOK, catalog.MovementPatternEnvelope{MovementPattern: m.patterns[i]})
}

func (m *MockBackend) deletePattern(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findPattern(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "movement pattern not found")
		return
	}
	m.patterns = slices.Delete(m.patterns, i, i+1)
	writeJSON(w, http.StatusOK, catalog.MessageResponse{Message: "movement pattern deleted"})
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"message": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"X-RateLimit-Remaining": "0",
			"X-RateLimit-Reset":     "30",
			"Content-Type":          "application/json; charset=utf-8",
		},
	}
}
