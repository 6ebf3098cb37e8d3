package robot

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultConfigFile = "robobug.json"
	DefaultBaseURL    = "http://localhost:8080/"

	// EnvBaseURL overrides the configured base URL.
	EnvBaseURL = "ROBOBUG_BASE_URL"
)

// Config holds the robobug configuration
type Config struct {
	BaseURL string `json:"base_url"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{BaseURL: DefaultBaseURL}
}

// Base returns the base URL with a trailing slash, falling back to the default
func (c *Config) Base() string {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		return DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveConfig loads the config file if present and applies environment
// overrides. A .env file in the working directory is read first; variables
// already set in the environment win over it.
func ResolveConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadConfigFrom(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	_ = godotenv.Load() // .env is optional
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
