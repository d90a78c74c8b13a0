// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Verbose bool `yaml:"verbose" toml:"verbose"`

	Resize struct {
		Filter    string `yaml:"filter" toml:"filter"`
		Thumbnail bool   `yaml:"thumbnail" toml:"thumbnail"`
		DestDir   string `yaml:"dest_dir" toml:"dest_dir"`
	} `yaml:"resize" toml:"resize"`

	Transparent struct {
		Threshold int    `yaml:"threshold" toml:"threshold"`
		DestDir   string `yaml:"dest_dir" toml:"dest_dir"`
	} `yaml:"transparent" toml:"transparent"`

	PDF struct {
		DPI     float64 `yaml:"dpi" toml:"dpi"`
		Format  string  `yaml:"format" toml:"format"`
		DestDir string  `yaml:"dest_dir" toml:"dest_dir"`
	} `yaml:"pdf" toml:"pdf"`

	Workbook struct {
		DestDir string `yaml:"dest_dir" toml:"dest_dir"`
	} `yaml:"workbook" toml:"workbook"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads a YAML or TOML file, chosen by extension. A missing file is
// only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Resize.Filter == "" {
		c.Resize.Filter = "NEAREST"
	}
	if c.Resize.DestDir == "" {
		c.Resize.DestDir = "."
	}
	if c.Transparent.Threshold == 0 {
		c.Transparent.Threshold = 205
	}
	if c.Transparent.DestDir == "" {
		c.Transparent.DestDir = "./transparent_images"
	}
	if c.PDF.DPI == 0 {
		c.PDF.DPI = 200
	}
	if c.PDF.Format == "" {
		c.PDF.Format = "png"
	}
	if c.PDF.DestDir == "" {
		c.PDF.DestDir = "."
	}
	if c.Workbook.DestDir == "" {
		c.Workbook.DestDir = "."
	}
}
