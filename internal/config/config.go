// Package config loads the prefiks service configuration from per-env YAML
// files with ${VAR} expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the prefiks API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds search engine connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings. An empty APIKey
// disables the vector path entirely.
type EmbeddingConfig struct {
	Provider      string `yaml:"provider"`
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	Model         string `yaml:"model"`
	Dimensions    int    `yaml:"dimensions"`
	CacheTTLHours int    `yaml:"cache_ttl_hours"`
}

// SearchConfig holds catalog index and ranking policy settings. The policy
// knobs are tunables, not invariants.
type SearchConfig struct {
	IndexName        string  `yaml:"index_name"`
	KeyPrefix        string  `yaml:"key_prefix"`
	VectorWeight     float64 `yaml:"vector_weight"`
	NumericTolerance float64 `yaml:"numeric_tolerance"`
	TextOverfetch    int     `yaml:"text_overfetch"`
	VectorOverfetch  int     `yaml:"vector_overfetch"`
	BypassScore      float64 `yaml:"bypass_score"`
	MinScore         float64 `yaml:"min_score"`
	VectorTimeoutMS  int     `yaml:"vector_timeout_ms"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.CacheTTLHours <= 0 {
		c.Embedding.CacheTTLHours = 24
	}
	if c.Search.IndexName == "" {
		c.Search.IndexName = "prefiks:catalog:idx"
	}
	if c.Search.KeyPrefix == "" {
		c.Search.KeyPrefix = "prefiks:catalog:"
	}
	if c.Search.VectorWeight <= 0 {
		c.Search.VectorWeight = 0.5
	}
	if c.Search.NumericTolerance <= 0 {
		c.Search.NumericTolerance = 0.10
	}
	if c.Search.TextOverfetch <= 0 {
		c.Search.TextOverfetch = 2
	}
	if c.Search.VectorOverfetch <= 0 {
		c.Search.VectorOverfetch = 10
	}
	if c.Search.BypassScore <= 0 {
		c.Search.BypassScore = 2.0
	}
	if c.Search.MinScore <= 0 {
		c.Search.MinScore = 0.1
	}
	if c.Search.VectorTimeoutMS <= 0 {
		c.Search.VectorTimeoutMS = 2000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Search.NumericTolerance >= 1 {
		return fmt.Errorf("search.numeric_tolerance must be a fraction below 1, got %g", c.Search.NumericTolerance)
	}
	if c.Search.MinScore > c.Search.BypassScore {
		return fmt.Errorf("search.min_score must not exceed search.bypass_score")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
