package config

import (
	"strconv"
	"strings"

	"github.com/glorpus-work/permfix/pkg/errors"
)

// Keys lists the keys understood by SetValue and GetValue, in display order.
var Keys = []string{
	"exclusions",
	"exclude_patterns",
	"match_mode",
	"prune_excluded",
	"output_format",
	"color_output",
	"log_level",
	"owner",
}

// SetValue sets a configuration value by key.
// Supported keys:
//   - exclusions: comma separated names
//   - exclude_patterns: comma separated doublestar globs
//   - match_mode: segment or ancestor
//   - prune_excluded, color_output: bool
//   - output_format: text, json, yaml or html
//   - log_level: error, warn, info or debug
//   - owner: user[:group]
//
// The result is not validated; call Validate before saving.
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "exclusions":
		c.Exclusions.Names = splitList(value)
	case "exclude_patterns":
		c.Exclusions.Patterns = splitList(value)
	case "match_mode":
		c.Exclusions.MatchMode = value
	case "prune_excluded":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Exclusions.Prune = b
	case "output_format":
		c.Settings.OutputFormat = value
	case "color_output":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Settings.ColorOutput = b
	case "log_level":
		c.Settings.LogLevel = value
	case "owner":
		c.Settings.Owner = value
	default:
		return errors.ErrUnknownConfigKeyWithName(key)
	}
	return nil
}

// GetValue returns the value for key rendered as a string.
func (c *Config) GetValue(key string) (string, error) {
	switch key {
	case "exclusions":
		return strings.Join(c.Exclusions.Names, ","), nil
	case "exclude_patterns":
		return strings.Join(c.Exclusions.Patterns, ","), nil
	case "match_mode":
		return c.Exclusions.MatchMode, nil
	case "prune_excluded":
		return strconv.FormatBool(c.Exclusions.Prune), nil
	case "output_format":
		return c.Settings.OutputFormat, nil
	case "color_output":
		return strconv.FormatBool(c.Settings.ColorOutput), nil
	case "log_level":
		return c.Settings.LogLevel, nil
	case "owner":
		return c.Settings.Owner, nil
	default:
		return "", errors.ErrUnknownConfigKeyWithName(key)
	}
}

// ToMap returns every key with its current value.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string, len(Keys))
	for _, key := range Keys {
		value, _ := c.GetValue(key)
		result[key] = value
	}
	return result
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Wrapf(errors.ErrInvalidBoolValue, "%s: %s", key, value)
	}
	return b, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
