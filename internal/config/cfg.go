package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"photoreader/internal/display"
	"photoreader/internal/settings"
	"photoreader/internal/slideshow"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	AudioConfig struct {
		Enabled   bool    `yaml:"enabled"`
		Frequency float64 `yaml:"frequency" validate:"gt=0,lte=60"`
	}

	SlideshowConfig struct {
		Interval   float64     `yaml:"interval" validate:"gte=0.1,lte=60"`
		Reverse    bool        `yaml:"reverse"`
		ViewMode   int         `yaml:"view_mode" validate:"min=1,max=3"`
		Rotate     bool        `yaml:"rotate"`
		Mirror     bool        `yaml:"mirror"`
		CenterDot  bool        `yaml:"center_dot"`
		CornerDots bool        `yaml:"corner_dots"`
		GuideLine  bool        `yaml:"guide_line"`
		Audio      AudioConfig `yaml:"audio"`
	}

	StageConfig struct {
		Width  int `yaml:"width" validate:"min=100"`
		Height int `yaml:"height" validate:"min=100"`
	}

	ExtractionConfig struct {
		PageLength int `yaml:"page_length" validate:"min=100"`
	}

	StorageConfig struct {
		Path string `yaml:"path"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Slideshow  SlideshowConfig  `yaml:"slideshow"`
		Stage      StageConfig      `yaml:"stage"`
		Extraction ExtractionConfig `yaml:"extraction"`
		Storage    StorageConfig    `yaml:"storage"`
		Logging    LoggingConfig    `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Only fields defined above are accepted.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// lays its values over the built-in defaults and validates the result.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns the default configuration file.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// Preferences converts the slideshow section into the initial preference
// snapshot used before anything has been stored.
func (c *Config) Preferences() settings.Snapshot {
	s := c.Slideshow
	return settings.Snapshot{
		ViewMode:        s.ViewMode,
		CenterDot:       s.CenterDot,
		CornerDots:      s.CornerDots,
		GuideLine:       s.GuideLine,
		Reverse:         s.Reverse,
		Rotate:          s.Rotate,
		Mirror:          s.Mirror,
		IntervalSeconds: s.Interval,
		AudioEnabled:    s.Audio.Enabled,
		AudioFrequency:  s.Audio.Frequency,
	}.Normalize()
}

func (c *Config) Display() display.Config { return c.Preferences().Display() }

func (c *Config) Audio() slideshow.AudioConfig { return c.Preferences().Audio() }
