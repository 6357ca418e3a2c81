package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends for the persisted session
const (
	StorageKeyring = "keyring"
	StorageFile    = "file"
	StorageMemory  = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// Backend API Configuration
	API APIConfig `yaml:"api"`

	// Web front Configuration
	Server ServerConfig `yaml:"server"`

	// Session persistence Configuration
	Session SessionConfig `yaml:"session"`

	// Logging Configuration
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig holds the REST backend configuration
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	GitHubAuthURL  string        `yaml:"github_auth_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ServerConfig holds the local web front configuration
type ServerConfig struct {
	ListenAddress   string   `yaml:"listen_address"`
	CallbackAddress string   `yaml:"callback_address"` // CLI OAuth callback listener
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// SessionConfig holds session persistence configuration
type SessionConfig struct {
	Storage         string `yaml:"storage"` // keyring, file, memory
	Dir             string `yaml:"dir"`
	RefreshSchedule string `yaml:"refresh_schedule"` // cron spec, empty disables
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080/api",
			GitHubAuthURL:  "http://localhost:8080/oauth2/authorization/github",
			RequestTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			ListenAddress:   ":3000",
			CallbackAddress: "127.0.0.1:8765",
			AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Session: SessionConfig{
			Storage:         StorageKeyring,
			RefreshSchedule: "@every 15m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from an optional YAML file and environment variables.
// Environment variables win over the file, the file wins over defaults.
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := Default()

	if path := os.Getenv("MINDFORGE_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	cfg.API.BaseURL = getEnv("API_BASE_URL", cfg.API.BaseURL)
	cfg.API.GitHubAuthURL = getEnv("GITHUB_AUTH_URL", cfg.API.GitHubAuthURL)

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.API.RequestTimeout = timeout
	}

	cfg.Server.ListenAddress = getEnv("LISTEN_ADDRESS", cfg.Server.ListenAddress)
	cfg.Server.CallbackAddress = getEnv("CALLBACK_ADDRESS", cfg.Server.CallbackAddress)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = parseCommaSeparatedList(v)
	}

	cfg.Session.Storage = strings.ToLower(getEnv("SESSION_STORAGE", cfg.Session.Storage))
	cfg.Session.Dir = getEnv("SESSION_DIR", cfg.Session.Dir)
	if v, ok := os.LookupEnv("PROFILE_REFRESH_SCHEDULE"); ok {
		cfg.Session.RefreshSchedule = v
	}

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	return nil
}

// Validate checks the values that cannot be defaulted sensibly
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is empty")
	}

	switch c.Session.Storage {
	case StorageKeyring, StorageFile, StorageMemory:
	default:
		return fmt.Errorf("invalid session storage %q, must be one of: keyring, file, memory", c.Session.Storage)
	}

	if c.API.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseCommaSeparatedList splits a comma-separated string into a slice
func parseCommaSeparatedList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
