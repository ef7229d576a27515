package main

import (
	"fmt"
	"os"

	"github.com/DND-IT/avif-decoder"
	"gopkg.in/yaml.v3"
)

// Config holds the settings that can be read from a YAML file. Command line flags override them.
type Config struct {
	// Threads is the decoder thread count; 0 uses one thread per CPU core.
	Threads int `yaml:"threads"`
	// Codec is the AV1 decoder libavif is asked to use: auto, dav1d, aom or libgav1.
	Codec string `yaml:"codec"`
	// Format is the pixel format frames are decoded to before being written out.
	Format string `yaml:"format"`
	// Frame is the frame decoded by the decode command.
	Frame int `yaml:"frame"`
	// Verbose logs decoder diagnostics to stderr.
	Verbose bool `yaml:"verbose"`

	Speed        uint `yaml:"speed"`
	AlphaQuality uint `yaml:"alpha_quality"`
	ColorQuality uint `yaml:"color_quality"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Threads:      0,
		Codec:        "auto",
		Format:       "rgba8888",
		Frame:        0,
		Speed:        6,
		AlphaQuality: 60,
		ColorQuality: 60,
	}
}

// LoadConfig reads a YAML file on top of the defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Threads < 0 {
		return fmt.Errorf("threads must not be negative")
	}
	if c.Frame < 0 {
		return fmt.Errorf("frame must not be negative")
	}
	if _, err := avif.ParseCodec(c.Codec); err != nil {
		return err
	}
	return nil
}
