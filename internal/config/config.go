// Package config loads the library proxy configuration from .env, an optional
// library-proxy.yaml and LIBRARY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/Sternrassler/exercise-library-client/pkg/client"
	"github.com/Sternrassler/exercise-library-client/pkg/library"
	"github.com/Sternrassler/exercise-library-client/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LIBRARY_BACKEND_BASE_URL.
const EnvPrefix = "LIBRARY"

// Config holds all proxy configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Query   QueryConfig   `mapstructure:"query"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig sets the listen port and the deadline each proxied request
// gets for all of its backend calls.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// BackendConfig locates the exercise library REST API.
type BackendConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	BasePath  string        `mapstructure:"base_path"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// QueryConfig tunes fan-out queries. See library.Config.
type QueryConfig struct {
	SubRequestPageSize int `mapstructure:"sub_request_page_size"`
	MaxSubRequestPages int `mapstructure:"max_sub_request_pages"`
	MaxConcurrency     int `mapstructure:"max_concurrency"`
}

// RedisConfig enables the shared rate limit store when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

var defaults = map[string]any{
	"server.port":                 8080,
	"server.request_timeout":      "60s",
	"backend.base_url":            "http://localhost:5000",
	"backend.base_path":           "/v1",
	"backend.user_agent":          "exercise-library-proxy/1.0",
	"backend.timeout":             "30s",
	"query.sub_request_page_size": 100,
	"query.max_sub_request_pages": 50,
	"query.max_concurrency":       6,
	"redis.addr":                  "",
	"redis.password":              "",
	"redis.db":                    0,
	"logging.level":               "info",
	"logging.pretty":              false,
}

// Load reads .env from the working directory, then library-proxy.yaml from
// the given directories (default "."), then LIBRARY_* environment variables.
// Later sources win. Missing files are not an error.
func Load(configPaths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		log.Debug().Msg("No .env file found")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("library-proxy")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"."}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the downstream constructors would reject later.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive (got %s)", c.Server.RequestTimeout)
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute URL (got %q)", c.Backend.BaseURL)
	}
	if c.Backend.UserAgent == "" {
		return errors.New("backend.user_agent is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive (got %s)", c.Backend.Timeout)
	}
	if c.Query.SubRequestPageSize > 100 {
		return fmt.Errorf("query.sub_request_page_size exceeds the backend maximum of 100 (got %d)", c.Query.SubRequestPageSize)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Addr is the proxy listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// ClientConfig maps the backend section onto client.Config. The rate limit
// store is left for the caller to attach.
func (c *Config) ClientConfig() client.Config {
	cfg := client.DefaultConfig(c.Backend.BaseURL, c.Backend.UserAgent)
	cfg.BasePath = c.Backend.BasePath
	cfg.Timeout = c.Backend.Timeout
	return cfg
}

func (c *Config) LibraryConfig() library.Config {
	return library.Config{
		SubRequestPageSize: c.Query.SubRequestPageSize,
		MaxSubRequestPages: c.Query.MaxSubRequestPages,
		MaxConcurrency:     c.Query.MaxConcurrency,
	}
}

func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level, _ = logging.ParseLevel(c.Logging.Level)
	cfg.Pretty = c.Logging.Pretty
	return cfg
}
