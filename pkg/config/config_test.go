package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glorpus-work/permfix/pkg/classify"
	"github.com/glorpus-work/permfix/pkg/errors"
	"github.com/glorpus-work/permfix/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, classify.DefaultExclusions, cfg.Exclusions.Names)
	assert.Equal(t, "segment", cfg.Exclusions.MatchMode)
	assert.Equal(t, "text", cfg.Settings.OutputFormat)
	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.True(t, cfg.Settings.ColorOutput)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `version: "1.2"
exclusions:
  names: [.git, vendor]
  patterns:
    - wp-content/cache/**
  match_mode: ancestor
settings:
  log_level: debug
  owner: www-data:www-data`

	err := os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, []string{".git", "vendor"}, cfg.Exclusions.Names)
	assert.Equal(t, []string{"wp-content/cache/**"}, cfg.Exclusions.Patterns)
	assert.Equal(t, "ancestor", cfg.Exclusions.MatchMode)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, "www-data:www-data", cfg.Settings.Owner)
	// Untouched keys keep defaults.
	assert.Equal(t, "text", cfg.Settings.OutputFormat)
	assert.True(t, cfg.Settings.ColorOutput)

	c, err := cfg.Classifier()
	require.NoError(t, err)
	assert.Equal(t, classify.MatchAncestor, c.Mode())
	assert.True(t, c.Excluded("vendor/autoload.php"))
	assert.True(t, c.Excluded("wp-content/cache/page.html"))
}

func TestLoadConfig_MissingVersionDefaults(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader("settings:\n  output_format: json\n"))
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, "json", cfg.Settings.OutputFormat)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfigFromReader(strings.NewReader("exclusions: [not, a, map"))
	assert.ErrorIs(t, err, errors.ErrConfigParse)

	_, err = LoadConfigFromReader(strings.NewReader(`version: "2.0"`))
	assert.ErrorIs(t, err, errors.ErrConfigValidation)
	assert.ErrorIs(t, err, errors.ErrConfigVersion)
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.LogLevel = "debug"
	cfg.Exclusions.Names = []string{".git"}
	cfg.Exclusions.Prune = true

	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.SaveConfig(configPath))

	_, err := os.Stat(configPath + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed away")

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	assert.ErrorIs(t, cfg.SaveConfig(""), errors.ErrEmptyConfigPath)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		err    error
	}{
		{"valid", func(*Config) {}, nil},
		{"bad output", func(c *Config) { c.Settings.OutputFormat = "xml" }, errors.ErrInvalidOutput},
		{"bad level", func(c *Config) { c.Settings.LogLevel = "trace" }, errors.ErrInvalidLogLevel},
		{"bad match mode", func(c *Config) { c.Exclusions.MatchMode = "regex" }, errors.ErrInvalidMatchMode},
		{"bad pattern", func(c *Config) { c.Exclusions.Patterns = []string{"[abc"} }, errors.ErrInvalidPattern},
		{"empty name", func(c *Config) { c.Exclusions.Names = []string{""} }, errors.ErrEmptyExclusionName},
		{"bad owner", func(c *Config) { c.Settings.Owner = "www-data:" }, errors.ErrInvalidOwner},
		{"bad version", func(c *Config) { c.Version = "one" }, errors.ErrConfigVersion},
		{"old version", func(c *Config) { c.Version = "0.9" }, errors.ErrConfigVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), errors.ErrConfigValidation)
}

func TestGetDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("HOME", "/home/testuser")

	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, AppName, filepath.Base(filepath.Dir(path)))
	assert.Equal(t, "config.yaml", filepath.Base(path))
}

func TestSetAndGetValue(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"exclusions", ".git, node_modules ,,vendor", ".git,node_modules,vendor"},
		{"exclude_patterns", "**/*.log", "**/*.log"},
		{"match_mode", "ancestor", "ancestor"},
		{"prune_excluded", "true", "true"},
		{"output_format", "json", "json"},
		{"color_output", "false", "false"},
		{"log_level", "warn", "warn"},
		{"owner", "nginx", "nginx"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			require.NoError(t, cfg.SetValue(tt.key, tt.value))
			got, err := cfg.GetValue(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	require.NoError(t, cfg.Validate())

	assert.ErrorIs(t, cfg.SetValue("nope", "x"), errors.ErrUnknownConfigKey)
	_, err := cfg.GetValue("nope")
	assert.ErrorIs(t, err, errors.ErrUnknownConfigKey)
	assert.ErrorIs(t, cfg.SetValue("color_output", "maybe"), errors.ErrInvalidBoolValue)
}

func TestToMap(t *testing.T) {
	m := DefaultConfig().ToMap()

	assert.Len(t, m, len(Keys))
	assert.Equal(t, "segment", m["match_mode"])
	assert.Equal(t, "true", m["color_output"])
	assert.Equal(t, strings.Join(classify.DefaultExclusions, ","), m["exclusions"])
}
