package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel         string `yaml:"loglevel"`
	LogFile          string `yaml:"logfile"`
	Cap              int    `yaml:"cap"`               // per-layout tiling cap for build
	Workers          int    `yaml:"workers"`           // search shards; 1 = sequential
	ProgressInterval int    `yaml:"progress_interval"` // solutions between progress logs
	HistoryDB        string `yaml:"history_db"`
}

// Defaults returns a Config populated with all default values.
func Defaults() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		LogLevel:         "info",
		LogFile:          "./blockcanvas.log",
		Cap:              100,
		Workers:          1,
		ProgressInterval: 100,
	}
}

func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path in YAML format, creating parent directories as
// needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
