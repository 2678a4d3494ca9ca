// Package config provides configuration management for permfix.
// It handles loading, validating and saving the YAML configuration file that
// supplies the exclusion set and output preferences. Missing values fall back
// to sensible defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/glorpus-work/permfix/pkg/classify"
	"github.com/glorpus-work/permfix/pkg/errors"
	"github.com/glorpus-work/permfix/pkg/fsutil"
	"github.com/glorpus-work/permfix/pkg/owner"
	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Version is the configuration schema version.
	Version string `yaml:"version"`

	// Exclusion rules applied during traversal
	Exclusions ExclusionConfig `yaml:"exclusions"`

	// General settings
	Settings Settings `yaml:"settings"`
}

// ExclusionConfig configures which entries are left untouched.
type ExclusionConfig struct {
	// Names are directory or file names matched against path segments.
	Names []string `yaml:"names"`

	// Patterns are doublestar globs matched against root-relative paths.
	Patterns []string `yaml:"patterns,omitempty"`

	// MatchMode is "segment" or "ancestor".
	MatchMode string `yaml:"match_mode"`

	// Prune skips listing excluded directories altogether. Their contents
	// are then not counted as skipped.
	Prune bool `yaml:"prune"`
}

// Settings represents general application settings.
type Settings struct {
	OutputFormat string `yaml:"output_format"` // text, json, yaml, html
	ColorOutput  bool   `yaml:"color_output"`
	LogLevel     string `yaml:"log_level"` // error, warn, info, debug
	// Owner is applied when no --owner flag is given, as "user[:group]".
	Owner string `yaml:"owner,omitempty"`
}

// Default configuration values.
const (
	// CurrentVersion is written into new configuration files.
	CurrentVersion = "1.0"

	// SupportedVersions is the schema constraint accepted by LoadConfig.
	SupportedVersions = ">= 1.0, < 2.0"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2

	// AppName names the configuration directory.
	AppName = "permfix"
)

var (
	validOutputFormats = []string{"text", "json", "yaml", "html"}
	validLogLevels     = []string{"debug", "info", "warn", "error"}
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Exclusions: ExclusionConfig{
			Names:     append([]string(nil), classify.DefaultExclusions...),
			MatchMode: string(classify.MatchSegment),
		},
		Settings: Settings{
			OutputFormat: "text",
			ColorOutput:  true,
			LogLevel:     "info",
		},
	}
}

// LoadConfig loads configuration from a file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open config file %s", absPath)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigOrDefault loads path if it exists and returns the defaults
// otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// LoadConfigFromReader loads configuration from an io.Reader. Keys absent
// from the document keep their default values.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	config := DefaultConfig()
	config.Version = ""
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
	}

	return config, nil
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateVersion(c.Version); err != nil {
		return err
	}
	if _, err := c.Classifier(); err != nil {
		return err
	}
	if _, err := owner.Parse(c.Settings.Owner); err != nil {
		return err
	}
	return validateSettings(c.Settings)
}

func validateVersion(v string) error {
	parsed, err := version.NewVersion(v)
	if err != nil {
		return errors.Wrapf(errors.ErrConfigVersion, "%q", v)
	}
	constraint, err := version.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(parsed) {
		return errors.Wrapf(errors.ErrConfigVersion, "%s does not satisfy %s", v, SupportedVersions)
	}
	return nil
}

func validateSettings(s Settings) error {
	if !slices.Contains(validOutputFormats, s.OutputFormat) {
		return errors.ErrInvalidOutputWithDetails(s.OutputFormat)
	}
	if !slices.Contains(validLogLevels, strings.ToLower(s.LogLevel)) {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	return nil
}

// Classifier builds the exclusion classifier described by the config.
func (c *Config) Classifier() (*classify.Classifier, error) {
	return classify.New(classify.Options{
		Names:    c.Exclusions.Names,
		Patterns: c.Exclusions.Patterns,
		Mode:     classify.MatchMode(c.Exclusions.MatchMode),
	})
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, AppName, "config.yaml"), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Exclusions.MatchMode == "" {
		c.Exclusions.MatchMode = defaults.Exclusions.MatchMode
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}
