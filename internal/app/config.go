package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/corey/verbhash/internal/domain/phash"
	"gopkg.in/yaml.v3"
)

// Config is the .verbhash/config.yaml layout. Every field is optional;
// command-line flags override whatever the file sets.
type Config struct {
	MaxSeed      uint64 `yaml:"max_seed"`
	SizeFactor   int    `yaml:"size_factor"`
	Workers      int    `yaml:"workers"`
	KeywordsFile string `yaml:"keywords_file"`
	Record       bool   `yaml:"record"`
	Metrics      bool   `yaml:"metrics"`
}

// DefaultConfig returns the reference search bounds with history and
// metrics off.
func DefaultConfig() Config {
	o := phash.DefaultOptions()
	return Config{MaxSeed: o.MaxSeed, SizeFactor: o.SizeFactor, Workers: o.Workers}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// A missing file is not an error: the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects bounds that cannot describe a search.
func (c Config) Validate() error {
	if c.MaxSeed < 1 {
		return fmt.Errorf("max_seed must be at least 1")
	}
	if c.SizeFactor < 1 {
		return fmt.Errorf("size_factor must be at least 1")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}

// Options converts the config to search options.
func (c Config) Options() phash.Options {
	return phash.Options{MaxSeed: c.MaxSeed, SizeFactor: c.SizeFactor, Workers: c.Workers}
}
