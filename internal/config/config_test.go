package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir, err := os.MkdirTemp("", "codescope-config-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("default version = %d, want 1", cfg.Version)
	}
	if cfg.Scan.MaxFileSizeBytes != 10*1024*1024 {
		t.Errorf("default max file size = %d", cfg.Scan.MaxFileSizeBytes)
	}
	if cfg.Security.MinEntropy != 3.0 {
		t.Errorf("default min entropy = %f", cfg.Security.MinEntropy)
	}

	found := false
	for _, d := range cfg.Scan.IgnoreDirs {
		if d == "node_modules" {
			found = true
		}
	}
	if !found {
		t.Error("node_modules missing from default ignore dirs")
	}
}

func TestSaveAndReload(t *testing.T) {
	dir, err := os.MkdirTemp("", "codescope-config-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Scan.Workers = 4

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".codescope", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig after Save: %v", err)
	}

	if loaded.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", loaded.Logging.Level)
	}
	if loaded.Scan.Workers != 4 {
		t.Errorf("workers = %d, want 4", loaded.Scan.Workers)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Version = 9
	if err := cfg.Validate(); err == nil {
		t.Error("unsupported version should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Security.MinEntropy = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative entropy should fail validation")
	}
}
