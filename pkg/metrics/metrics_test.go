package metrics_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sternrassler/exercise-library-client/internal/testutil"
	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
	"github.com/Sternrassler/exercise-library-client/pkg/client"
	"github.com/Sternrassler/exercise-library-client/pkg/library"
	"github.com/Sternrassler/exercise-library-client/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func TestRegistry(t *testing.T) {
	if metrics.Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default registerer")
	}
	if metrics.Gatherer != prometheus.DefaultGatherer {
		t.Error("Gatherer should be the default gatherer")
	}
}

func TestHandler_ExposesLibraryMetrics(t *testing.T) {
	backend := testutil.NewSeededBackend()
	defer backend.Close()
	backend.SetRateLimit(100, 60)

	c, err := client.New(client.DefaultConfig(backend.URL(), "metrics-test/1.0"))
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	defer c.Close()

	lib := library.New(c, library.DefaultConfig())
	if _, err := lib.Exercises(context.Background(), library.ExerciseQuery{BodyPart: catalog.BodyPartArms}); err != nil {
		t.Fatalf("Exercises() error = %v", err)
	}

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	for _, name := range []string{
		"library_requests_total",
		"library_request_duration_seconds",
		"library_rate_limit_remaining",
		"library_fanout_subrequests_total",
		"library_fanout_duplicates_total",
	} {
		if !strings.Contains(text, name) {
			t.Errorf("scrape is missing %s", name)
		}
	}
	if !strings.Contains(text, `library_fanout_subrequests_total{resource="exercises"}`) {
		t.Error("fan-out counter is not labelled by resource")
	}
}

func TestNames_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range metrics.Names {
		if !strings.HasPrefix(name, "library_") {
			t.Errorf("%s lacks the library_ prefix", name)
		}
		if seen[name] {
			t.Errorf("%s listed twice", name)
		}
		seen[name] = true
	}
}
