package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes a race between simulated upstreams.
type Config struct {
	TimeoutMS int            `yaml:"timeout_ms"`
	Sources   []SourceConfig `yaml:"sources"`
}

// SourceConfig describes one simulated upstream.
type SourceConfig struct {
	Name    string  `yaml:"name"`
	DelayMS int     `yaml:"delay_ms"`
	Items   int     `yaml:"items"`
	Rate    float64 `yaml:"rate"` // items per second; 0 means unlimited
	Fail    string  `yaml:"fail,omitempty"`
}

const defaultConfig = `
timeout_ms: 2000
sources:
  - name: primary
    delay_ms: 120
    items: 5
    rate: 20
  - name: replica
    delay_ms: 40
    items: 3
    rate: 10
  - name: cache
    delay_ms: 200
    fail: cache miss
`

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func loadConfig(path string) (*Config, error) {
	data := []byte(defaultConfig)
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		data = b
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TimeoutMS <= 0 {
		return errors.New("timeout_ms must be positive")
	}
	for i, s := range c.Sources {
		switch {
		case s.Name == "":
			return fmt.Errorf("sources[%d]: name is required", i)
		case s.DelayMS < 0:
			return fmt.Errorf("sources[%d]: delay_ms must be non-negative", i)
		case s.Items < 0:
			return fmt.Errorf("sources[%d]: items must be non-negative", i)
		case s.Rate < 0:
			return fmt.Errorf("sources[%d]: rate must be non-negative", i)
		}
	}
	return nil
}
