package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/XBigRiceH/SeawardSuperStringParser/internal/options"
)

// Config is the sss-decode configuration file.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Decode DecodeConfig `yaml:"decode"`
	Output OutputConfig `yaml:"output"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type DecodeConfig struct {
	// MaxHeaderScan bounds the search for the test result header separator;
	// 0 scans to the end of the payload.
	MaxHeaderScan int `yaml:"max_header_scan"`
}

type OutputConfig struct {
	Format      string `yaml:"format"`
	Path        string `yaml:"path"`
	MetricsFile string `yaml:"metrics_file"`
}

// Formats accepted by Output.Format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Load reads a YAML file on top of Default, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Decode: DecodeConfig{
			MaxHeaderScan: 1024,
		},
		Output: OutputConfig{
			Format: FormatJSON,
		},
	}
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatJSON, FormatYAML, FormatCSV:
	default:
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	return options.ValidateScanLimit(c.Decode.MaxHeaderScan)
}
