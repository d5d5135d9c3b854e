package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.NotEmpty(t, cfg.Author)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
author = "dana"
format = "yaml"
sanitize = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dana", cfg.Author)
	assert.Equal(t, "yaml", cfg.Format)
	assert.True(t, cfg.Sanitize)
	assert.False(t, cfg.KeepWhitespace)
	// Unset keys keep their defaults.
	assert.Equal(t, ColorAuto, cfg.Color)
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`format = "xml"`), 0o644))

	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "format must be json or yaml")
}

func TestLoadFromFileFormatAliases(t *testing.T) {
	for _, format := range []string{"yml", "y", "j", "JSON"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(`format = "`+format+`"`), 0o644))

			cfg, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, format, cfg.Format)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := &Config{Author: "lee", Format: "json", Color: ColorNever, KeepWhitespace: true}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
