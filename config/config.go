// Package config manages pcacompress configuration.
package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/nvr-ai/go-pca/compression"
	"github.com/nvr-ai/go-pca/images"
)

// Config represents the application configuration.
type Config struct {
	Compression CompressionConfig `yaml:"compression"`
	Output      OutputConfig      `yaml:"output"`
	Processing  ProcessingConfig  `yaml:"processing"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CompressionConfig holds the default compression request.
type CompressionConfig struct {
	// Mode is "percentage" or "fixed".
	Mode string `yaml:"mode"`
	// Value is kept as text and parsed by compression.ParseRequest.
	Value string `yaml:"value"`
}

// OutputConfig controls where and how reconstructed images are written.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
	Quality int    `yaml:"quality"` // only used by jpeg and webp
}

// ProcessingConfig controls resource usage.
type ProcessingConfig struct {
	// MaxDimension caps the longest image side before compression; 0 disables the cap.
	MaxDimension int `yaml:"max_dimension"`
	// Workers bounds the number of images compressed at once by batch runs.
	Workers int `yaml:"workers"`
	// SequentialChannels decomposes the three channels one after another.
	SequentialChannels bool `yaml:"sequential_channels"`
}

// LoggingConfig contains logger options.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Compression: CompressionConfig{
			Mode:  compression.ModeNamePercentage,
			Value: "50",
		},
		Output: OutputConfig{
			Dir:     "compressed",
			Prefix:  "compressed_",
			Quality: images.DefaultQuality,
		},
		Processing: ProcessingConfig{
			MaxDimension: 0,
			Workers:      runtime.NumCPU(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Request parses the configured compression request.
func (c *Config) Request() (compression.Request, error) {
	return compression.ParseRequest(c.Compression.Mode, c.Compression.Value)
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	req, err := c.Request()
	if err != nil {
		return fmt.Errorf("compression: %w", err)
	}
	// A 1x1 image accepts every well-formed request, so this only checks the value range.
	if _, err := compression.SelectRank(1, 1, req); err != nil {
		return fmt.Errorf("compression: %w", err)
	}
	if c.Output.Quality < 0 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 0 and 100, got %d", c.Output.Quality)
	}
	if c.Processing.MaxDimension < 0 {
		return fmt.Errorf("processing.max_dimension must not be negative, got %d", c.Processing.MaxDimension)
	}
	if c.Processing.Workers < 1 {
		return fmt.Errorf("processing.workers must be at least 1, got %d", c.Processing.Workers)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
