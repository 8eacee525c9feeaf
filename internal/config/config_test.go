package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zhiyue/BlockCanvas/internal/config"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "loglevel: debug\ncap: 2\nworkers: 4\nprogress_interval: 500\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Cap != 2 {
		t.Errorf("Cap = %d, want 2", cfg.Cap)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	// unset fields keep their defaults
	if cfg.LogFile != "./blockcanvas.log" {
		t.Errorf("LogFile = %q, want default", cfg.LogFile)
	}
}

func TestLoad_Defaults(t *testing.T) {
	f, _ := os.CreateTemp("", "*.yaml")
	f.WriteString("")
	f.Close()
	defer os.Remove(f.Name())

	cfg, err := config.Load(f.Name())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cap != 100 {
		t.Errorf("default Cap = %d, want 100", cfg.Cap)
	}
	if cfg.Workers != 1 {
		t.Errorf("default Workers = %d, want 1", cfg.Workers)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.Defaults()
	cfg.Cap = 2
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Cap != 2 {
		t.Errorf("Cap = %d after round trip, want 2", got.Cap)
	}
}
