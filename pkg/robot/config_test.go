package robot

import (
	"path/filepath"
	"testing"
)

func TestConfig_Base(t *testing.T) {
	tests := []struct {
		baseURL  string
		expected string
	}{
		{"", DefaultBaseURL},
		{"   ", DefaultBaseURL},
		{"http://10.0.0.5:8080", "http://10.0.0.5:8080/"},
		{"http://10.0.0.5:8080/", "http://10.0.0.5:8080/"},
		{"http://host/api/", "http://host/api/"},
	}

	for _, tt := range tests {
		cfg := Config{BaseURL: tt.baseURL}
		if got := cfg.Base(); got != tt.expected {
			t.Errorf("Base(%q) = %q, want %q", tt.baseURL, got, tt.expected)
		}
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robobug.json")

	cfg := &Config{BaseURL: "http://robobug.local:8080/"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if loaded.BaseURL != cfg.BaseURL {
		t.Errorf("loaded BaseURL = %q, want %q", loaded.BaseURL, cfg.BaseURL)
	}
}

func TestResolveConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// No file, no env: defaults
	t.Setenv(EnvBaseURL, "")
	cfg, err := ResolveConfig(DefaultConfigFile)
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if cfg.Base() != DefaultBaseURL {
		t.Errorf("default base = %q, want %q", cfg.Base(), DefaultBaseURL)
	}

	// File value
	if err := (&Config{BaseURL: "http://from-file:1/"}).Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !ConfigExists() {
		t.Fatal("ConfigExists returned false after Save")
	}
	cfg, err = ResolveConfig(DefaultConfigFile)
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if cfg.BaseURL != "http://from-file:1/" {
		t.Errorf("file base = %q", cfg.BaseURL)
	}

	// Environment wins over file
	t.Setenv(EnvBaseURL, "http://from-env:2/")
	cfg, err = ResolveConfig(DefaultConfigFile)
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if cfg.BaseURL != "http://from-env:2/" {
		t.Errorf("env base = %q", cfg.BaseURL)
	}
}
