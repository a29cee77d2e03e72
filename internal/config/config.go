package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/envutil"
)

// Config holds server-level settings. Secrets and per-collaborator settings
// (database DSN, API keys, vector store) stay in the environment; the YAML
// file only carries the operational knobs worth checking into a deploy repo.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	Mode        string   `yaml:"mode"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

type AuthConfig struct {
	// JWTSecret is only read from the environment, never from YAML.
	JWTSecret string `yaml:"-"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:        "8080",
			Mode:        "development",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Retrieval: RetrievalConfig{TopK: 6},
		RateLimit: RateLimitConfig{RequestsPerMinute: 30},
	}
}

// Load reads the optional YAML file named by CONFIG_PATH, then applies
// environment overrides. A missing file is not an error; a malformed one is.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(envutil.String("CONFIG_PATH", "")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.Server.Port = envutil.String("PORT", cfg.Server.Port)
	cfg.Server.Mode = envutil.String("APP_ENV", cfg.Server.Mode)
	if origins := strings.TrimSpace(envutil.String("CORS_ORIGINS", "")); origins != "" {
		cfg.Server.CORSOrigins = splitAndTrim(origins)
	}
	cfg.Retrieval.TopK = envutil.Int("RETRIEVAL_TOP_K", cfg.Retrieval.TopK)
	cfg.RateLimit.RequestsPerMinute = envutil.Int("RATE_LIMIT_PER_MINUTE", cfg.RateLimit.RequestsPerMinute)
	cfg.Auth.JWTSecret = envutil.String("JWT_SECRET", "")

	if cfg.Retrieval.TopK <= 0 {
		return Config{}, fmt.Errorf("config: retrieval top_k must be positive, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: JWT_SECRET is required")
	}
	return cfg, nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
