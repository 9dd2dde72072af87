package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sternrassler/exercise-library-client/pkg/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != time.Minute {
		t.Errorf("Server.RequestTimeout = %s, want 1m", cfg.Server.RequestTimeout)
	}
	if cfg.Backend.BasePath != "/v1" {
		t.Errorf("Backend.BasePath = %q, want /v1", cfg.Backend.BasePath)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("Backend.Timeout = %s, want 30s", cfg.Backend.Timeout)
	}
	if cfg.Query.SubRequestPageSize != 100 || cfg.Query.MaxSubRequestPages != 50 || cfg.Query.MaxConcurrency != 6 {
		t.Errorf("Query = %+v, want {100 50 6}", cfg.Query)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("Redis.Addr = %q, want empty", cfg.Redis.Addr)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr() = %q, want :8080", cfg.Addr())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9090
  request_timeout: 15s
backend:
  base_url: http://library.internal:5000
  timeout: 5s
query:
  max_concurrency: 3
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "library-proxy.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LIBRARY_SERVER_PORT", "9191")
	t.Setenv("LIBRARY_REDIS_ADDR", "localhost:6379")
	t.Setenv("LIBRARY_QUERY_SUB_REQUEST_PAGE_SIZE", "50")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want env override 9191", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 15*time.Second {
		t.Errorf("Server.RequestTimeout = %s, want 15s", cfg.Server.RequestTimeout)
	}
	if cfg.Backend.BaseURL != "http://library.internal:5000" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("Backend.Timeout = %s, want 5s", cfg.Backend.Timeout)
	}
	if cfg.Query.MaxConcurrency != 3 || cfg.Query.SubRequestPageSize != 50 {
		t.Errorf("Query = %+v", cfg.Query)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.LoggingConfig().Level != logging.LevelDebug {
		t.Errorf("logging level = %q, want debug", cfg.LoggingConfig().Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"relative base url", "LIBRARY_BACKEND_BASE_URL", "library:5000"},
		{"port out of range", "LIBRARY_SERVER_PORT", "70000"},
		{"page size over backend cap", "LIBRARY_QUERY_SUB_REQUEST_PAGE_SIZE", "250"},
		{"unknown log level", "LIBRARY_LOGGING_LEVEL", "trace"},
		{"zero timeout", "LIBRARY_BACKEND_TIMEOUT", "0s"},
		{"zero request timeout", "LIBRARY_SERVER_REQUEST_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(t.TempDir()); err == nil {
				t.Errorf("Load() with %s=%s succeeded, want error", tt.key, tt.val)
			}
		})
	}
}

func TestConfig_Mapping(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cc := cfg.ClientConfig()
	if cc.BaseURL != cfg.Backend.BaseURL || cc.BasePath != "/v1" || cc.UserAgent != cfg.Backend.UserAgent {
		t.Errorf("ClientConfig() = %+v", cc)
	}
	if cc.RateLimitStore != nil {
		t.Error("ClientConfig() should leave the store unset")
	}

	lc := cfg.LibraryConfig()
	if lc.SubRequestPageSize != 100 || lc.MaxSubRequestPages != 50 || lc.MaxConcurrency != 6 {
		t.Errorf("LibraryConfig() = %+v", lc)
	}
}
