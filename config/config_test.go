package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-pca/compression"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "percentage", cfg.Compression.Mode)
	assert.Equal(t, "50", cfg.Compression.Value)
	assert.Equal(t, 40, cfg.Output.Quality)
	assert.Equal(t, "compressed_", cfg.Output.Prefix)
	assert.Equal(t, runtime.NumCPU(), cfg.Processing.Workers)
	assert.NoError(t, cfg.Validate())

	req, err := cfg.Request()
	require.NoError(t, err)
	assert.Equal(t, compression.Percentage(50), req)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "bad mode", mutate: func(c *Config) { c.Compression.Mode = "ratio" }},
		{name: "bad value", mutate: func(c *Config) { c.Compression.Value = "lots" }},
		{name: "percentage out of range", mutate: func(c *Config) { c.Compression.Value = "101" }},
		{name: "quality too high", mutate: func(c *Config) { c.Output.Quality = 101 }},
		{name: "negative max dimension", mutate: func(c *Config) { c.Processing.MaxDimension = -1 }},
		{name: "no workers", mutate: func(c *Config) { c.Processing.Workers = 0 }},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "INFO", "", "warn", "warning", "error"} {
		_, err := ParseLevel(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestLoader_SaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	loader := NewLoaderWithPath(configPath)
	assert.Equal(t, configPath, loader.ConfigPath())

	cfg := DefaultConfig()
	cfg.Compression.Mode = "fixed"
	cfg.Compression.Value = "12"
	cfg.Processing.MaxDimension = 1024

	require.NoError(t, loader.Save(cfg))
	assert.True(t, loader.Exists())

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoader_LoadMissingFile(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

// TestLoader_LoadPartial checks that fields absent from the file keep their defaults and that
// environment references are expanded.
func TestLoader_LoadPartial(t *testing.T) {
	t.Setenv("PCA_TEST_QUALITY", "75")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "compression:\n  value: \"80\"\noutput:\n  quality: ${PCA_TEST_QUALITY}\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := NewLoaderWithPath(configPath).Load()
	require.NoError(t, err)

	assert.Equal(t, "percentage", cfg.Compression.Mode)
	assert.Equal(t, "80", cfg.Compression.Value)
	assert.Equal(t, 75, cfg.Output.Quality)
	assert.Equal(t, "compressed_", cfg.Output.Prefix)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoader_LoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output: [unterminated"), 0o644))

	_, err := NewLoaderWithPath(configPath).Load()
	assert.Error(t, err)
}

func TestLoader_Init(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, loader.Init())
	assert.True(t, loader.Exists())
	assert.Error(t, loader.Init(), "init must not overwrite an existing file")
}
