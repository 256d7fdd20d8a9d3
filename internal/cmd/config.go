package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
		Enabled       bool   `yaml:"enabled"`
	} `yaml:"nats"`

	Sync struct {
		DebounceWindowSeconds    int `yaml:"debounce_window_seconds"`
		ReconcileIntervalSeconds int `yaml:"reconcile_interval_seconds"`
	} `yaml:"sync"`

	Gateway struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"gateway"`
}

func defaultConfig() *Config {
	var config Config
	config.Server.Port = getEnv("PORT", "8080")
	config.NATS.URL = getEnv("NATS_URL", "nats://localhost:4222")
	config.NATS.SubjectPrefix = "match.events"
	config.NATS.Enabled = true
	config.Sync.DebounceWindowSeconds = 5
	config.Sync.ReconcileIntervalSeconds = 30
	config.Gateway.Enabled = true
	return &config
}

func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
