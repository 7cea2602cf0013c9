package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Seeding patterns understood by the driver
const (
	PatternSeed    = "seed"
	PatternGlider  = "glider"
	PatternBlinker = "blinker"
	PatternBlock   = "block"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration for the simulation driver
type Config struct {
	Width           uint32        `json:"width" yaml:"width"`
	Height          uint32        `json:"height" yaml:"height"`
	FrameRate       time.Duration `json:"frame_rate" yaml:"frame_rate"`
	MaxGenerations  int           `json:"max_generations" yaml:"max_generations"`
	Universes       int           `json:"universes" yaml:"universes"`
	Interactive     bool          `json:"interactive" yaml:"interactive"`
	Colorize        bool          `json:"colorize" yaml:"colorize"`
	StopWhenSettled bool          `json:"stop_when_settled" yaml:"stop_when_settled"`
	SettleWindow    int           `json:"settle_window" yaml:"settle_window"`
	Pattern         string        `json:"pattern" yaml:"pattern"`
	UseBufferPool   bool          `json:"use_buffer_pool" yaml:"use_buffer_pool"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:           64,
		Height:          32,
		FrameRate:       100 * time.Millisecond,
		MaxGenerations:  1000,
		Universes:       1,
		Interactive:     false,
		Colorize:        true,
		StopWhenSettled: true,
		SettleWindow:    5,
		Pattern:         PatternSeed,
		UseBufferPool:   true,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Fields missing from the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &config); err != nil {
			return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal yaml from file: %+v", filename)
		}
	default:
		if err = json.Unmarshal(data, &config); err != nil {
			return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
		}
	}

	return config, nil
}

// Validate checks the config for values the driver cannot run with
func (c Config) Validate() error {
	switch {
	case c.Width == 0:
		return errors.Wrap(ErrInvalidConfig, "width must be positive")
	case c.Height == 0:
		return errors.Wrap(ErrInvalidConfig, "height must be positive")
	case c.Universes < 1:
		return errors.Wrapf(ErrInvalidConfig, "universes must be at least 1, got %d", c.Universes)
	case c.FrameRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "frame_rate must not be negative, got %v", c.FrameRate)
	case c.MaxGenerations < 0:
		return errors.Wrapf(ErrInvalidConfig, "max_generations must not be negative, got %d", c.MaxGenerations)
	case c.StopWhenSettled && c.SettleWindow < 2:
		return errors.Wrapf(ErrInvalidConfig, "settle_window must be at least 2, got %d", c.SettleWindow)
	}
	switch c.Pattern {
	case PatternSeed, PatternGlider, PatternBlinker, PatternBlock:
		return nil
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown pattern %q", c.Pattern)
	}
}
