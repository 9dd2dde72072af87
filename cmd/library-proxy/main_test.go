package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/exercise-library-client/internal/testutil"
	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
	"github.com/Sternrassler/exercise-library-client/pkg/client"
	"github.com/Sternrassler/exercise-library-client/pkg/library"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func setupApp(t *testing.T) (*fiber.App, *testutil.MockBackend) {
	t.Helper()
	return setupAppWithTimeout(t, time.Minute)
}

func setupAppWithTimeout(t *testing.T, requestTimeout time.Duration) (*fiber.App, *testutil.MockBackend) {
	t.Helper()

	backend := testutil.NewSeededBackend()
	t.Cleanup(backend.Close)

	c, err := client.New(client.DefaultConfig(backend.URL(), "library-proxy-test/1.0"))
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return newApp(c, library.New(c, library.DefaultConfig()), requestTimeout, zerolog.Nop()), backend
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test(%s %s): %v", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decodeExercises(t *testing.T, data []byte) catalog.ExercisesResponse {
	t.Helper()
	var out catalog.ExercisesResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return out
}

func ids(items []catalog.Exercise) []int {
	out := make([]int, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := do(t, app, http.MethodGet, "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	// One query so the request counters have samples.
	do(t, app, http.MethodGet, "/v1/exercises?body_part=chest", "")

	resp, body := do(t, app, http.MethodGet, "/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "library_requests_total") {
		t.Error("metrics output is missing library_requests_total")
	}
}

func TestListExercises(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		expectedIDs []int
		total       int
		lastPage    int
	}{
		{"coarse body part", "/v1/exercises?body_part=arms", []int{1, 2, 3, 4, 5}, 5, 1},
		{"coarse body part is case-insensitive", "/v1/exercises?body_part=LEGS", []int{10, 11, 12}, 3, 1},
		{"paged merge", "/v1/exercises?body_part=arms&page=2&page_size=2", []int{3, 4}, 5, 3},
		{"page far past the end", "/v1/exercises?body_part=arms&page=9223372036854775807&page_size=2", []int{}, 5, 3},
		{"repeated muscle ids", "/v1/exercises?muscle_id=7&muscle_id=8", []int{1, 2, 3, 4}, 4, 1},
		{"comma-separated muscle ids", "/v1/exercises?muscle_id=7,8", []int{1, 2, 3, 4}, 4, 1},
		{"empty muscle multi-select", "/v1/exercises?muscle_id=", []int{}, 0, 1},
		{"pattern whitelist alone", "/v1/exercises?pattern=pull", []int{1, 2, 3, 14, 15}, 5, 1},
		{"pattern whitelist narrows body part", "/v1/exercises?body_part=arms&pattern=Push", []int{4}, 1, 1},
		{"pass-through", "/v1/exercises?type=isolation&page_size=3", []int{1, 4, 9}, 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := setupApp(t)

			resp, body := do(t, app, http.MethodGet, tt.target, "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
			}

			out := decodeExercises(t, body)
			if got := ids(out.Exercises); !equal(got, tt.expectedIDs) {
				t.Errorf("ids = %v, want %v", got, tt.expectedIDs)
			}
			if out.Metadata.TotalRecords != tt.total || out.Metadata.LastPage != tt.lastPage {
				t.Errorf("Metadata = %+v, want total %d last_page %d", out.Metadata, tt.total, tt.lastPage)
			}
		})
	}
}

func TestListExercises_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"unknown body part", "/v1/exercises?body_part=wings"},
		{"unknown type", "/v1/exercises?type=cardio"},
		{"non-numeric page", "/v1/exercises?page=two"},
		{"negative page", "/v1/exercises?body_part=arms&page=-1"},
		{"non-numeric muscle id", "/v1/exercises?muscle_id=7,abc"},
		{"body part with muscles", "/v1/exercises?body_part=arms&muscle_id=7"},
		{"pattern with whitelist", "/v1/exercises?movement_pattern=Push&pattern=Pull"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, backend := setupApp(t)

			resp, body := do(t, app, http.MethodGet, tt.target, "")
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", resp.StatusCode, body)
			}
			if !strings.Contains(string(body), `"error"`) {
				t.Errorf("body = %s, want error object", body)
			}
			if n := backend.GetRequestCount(); n != 0 {
				t.Errorf("backend saw %d requests, want 0", n)
			}
		})
	}
}

func TestListExercises_BackendFailure(t *testing.T) {
	app, backend := setupApp(t)
	backend.FailWhen("/v1/exercises", func(r *http.Request) bool {
		return r.URL.Query().Get("body_part") == "triceps"
	}, testutil.NewServerErrorResponse())

	resp, body := do(t, app, http.MethodGet, "/v1/exercises?body_part=arms", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Internal server error") {
		t.Errorf("body = %s, want backend message", body)
	}
}

func TestListExercises_RequestTimeout(t *testing.T) {
	app, backend := setupAppWithTimeout(t, 50*time.Millisecond)
	backend.SetHandler("/v1/exercises", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
			backend.Serve(w, r)
		}
	})

	start := time.Now()
	resp, body := do(t, app, http.MethodGet, "/v1/exercises?body_part=arms", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502 (body %s)", resp.StatusCode, body)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("request took %s, want it cut off by the request timeout", elapsed)
	}
}

func TestListMuscles(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := do(t, app, http.MethodGet, "/v1/muscles?body_part=legs", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var out catalog.MusclesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	var got []int
	for _, m := range out.Muscles {
		got = append(got, m.ID)
	}
	if !equal(got, []int{10, 11, 12, 13}) {
		t.Errorf("muscle ids = %v, want [10 11 12 13]", got)
	}
}

func TestListMovementPatterns(t *testing.T) {
	app, backend := setupApp(t)

	resp, body := do(t, app, http.MethodGet, "/v1/movement-patterns?page_size=4", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var out catalog.MovementPatternsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.MovementPatterns) != 4 || out.Metadata.TotalRecords != 6 {
		t.Errorf("got %d patterns, metadata %+v", len(out.MovementPatterns), out.Metadata)
	}
	if n := backend.GetRequestCount(); n != 1 {
		t.Errorf("backend requests = %d, want 1", n)
	}
}

func TestExerciseCRUD(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := do(t, app, http.MethodGet, "/v1/exercises/6", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Bench Press") {
		t.Fatalf("GET: status = %d, body = %s", resp.StatusCode, body)
	}

	resp, body = do(t, app, http.MethodPost, "/v1/exercises",
		`{"name":"Dumbbell Fly","type":"isolation","movement_pattern_id":1,"primary_muscles":[1],"secondary_muscles":[]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST: status = %d, body = %s", resp.StatusCode, body)
	}
	var created catalog.ExerciseEnvelope
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if created.Exercise.Name != "Dumbbell Fly" || created.Exercise.ID == 0 {
		t.Errorf("created = %+v", created.Exercise)
	}

	resp, body = do(t, app, http.MethodPatch, "/v1/exercises/6", `{"name":"Flat Bench Press"}`)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Flat Bench Press") {
		t.Errorf("PATCH: status = %d, body = %s", resp.StatusCode, body)
	}

	// Chin-Up: primary [2 7], secondary [8].
	resp, body = do(t, app, http.MethodPatch, "/v1/exercises/2", `{"secondary_muscles":[]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PATCH clear: status = %d, body = %s", resp.StatusCode, body)
	}
	resp, body = do(t, app, http.MethodGet, "/v1/exercises/2", "")
	var chinUp catalog.ExerciseEnvelope
	if err := json.Unmarshal(body, &chinUp); err != nil {
		t.Fatalf("GET after clear: status = %d, body = %s", resp.StatusCode, body)
	}
	if len(chinUp.Exercise.SecondaryMuscles) != 0 || len(chinUp.Exercise.PrimaryMuscles) != 2 {
		t.Errorf("after clear: primary %v, secondary %v", chinUp.Exercise.PrimaryMuscles, chinUp.Exercise.SecondaryMuscles)
	}

	resp, body = do(t, app, http.MethodDelete, "/v1/exercises/6", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("DELETE: status = %d, body = %s", resp.StatusCode, body)
	}

	resp, _ = do(t, app, http.MethodGet, "/v1/exercises/6", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after DELETE: status = %d, want 404", resp.StatusCode)
	}
}

func TestItemRoutes_InvalidID(t *testing.T) {
	app, backend := setupApp(t)

	for _, target := range []string{"/v1/exercises/abc", "/v1/muscles/0", "/v1/movement-patterns/-3"} {
		resp, _ := do(t, app, http.MethodGet, target, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", target, resp.StatusCode)
		}
	}
	if n := backend.GetRequestCount(); n != 0 {
		t.Errorf("backend requests = %d, want 0", n)
	}
}

func TestMuscleAndPatternItems(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := do(t, app, http.MethodGet, "/v1/muscles/7", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Biceps Brachii") {
		t.Errorf("GET muscle: status = %d, body = %s", resp.StatusCode, body)
	}

	resp, body = do(t, app, http.MethodPost, "/v1/movement-patterns", `{"name":"Lunge","description":"Single leg"}`)
	if resp.StatusCode != http.StatusCreated || !strings.Contains(string(body), "Lunge") {
		t.Errorf("POST pattern: status = %d, body = %s", resp.StatusCode, body)
	}

	resp, _ = do(t, app, http.MethodGet, "/v1/movement-patterns/999", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET missing pattern: status = %d, want 404", resp.StatusCode)
	}
}
