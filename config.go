package reactor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/reactor/internal"
)

// Config holds the tunables of a Runtime, loadable from YAML.
type Config struct {
	// Diagnostics enables the recursion guard.
	Diagnostics bool `yaml:"diagnostics"`

	// RecursionLimit is how many times one job may run within a flush.
	RecursionLimit int `yaml:"recursion_limit"`

	// LogLevel overrides the level of the runtime logger when set.
	LogLevel string `yaml:"log_level"`

	// DefaultFlush is the flush mode of watchers that don't pick one.
	DefaultFlush string `yaml:"default_flush"`
}

func DefaultConfig() Config {
	return Config{
		Diagnostics:    true,
		RecursionLimit: internal.DefaultRecursionLimit,
		DefaultFlush:   "pre",
	}
}

// ParseConfig decodes YAML over the defaults. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.RecursionLimit < 1 {
		return fmt.Errorf("recursion_limit: must be >= 1, got %d", c.RecursionLimit)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if _, err := internal.ParseFlushMode(c.DefaultFlush); err != nil {
		return fmt.Errorf("default_flush: %w", err)
	}

	return nil
}

// Level parses LogLevel. An empty level yields zerolog.NoLevel.
func (c Config) Level() (zerolog.Level, error) {
	s := strings.TrimSpace(c.LogLevel)
	if s == "" {
		return zerolog.NoLevel, nil
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}

	return lvl, nil
}

// Marshal encodes the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
