package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/glorpus-work/permfix/internal/logger"
	"github.com/glorpus-work/permfix/pkg/config"
	"github.com/glorpus-work/permfix/pkg/present"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
)

// loadConfigFile loads the configuration file as stored. An explicit
// --config path must exist; the default path may be missing, in which case
// defaults are used.
func loadConfigFile() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if ConfigPath != nil && *ConfigPath != "" {
		cfg, err = config.LoadConfig(*ConfigPath)
	} else {
		defaultPath, pathErr := config.GetDefaultConfigPath()
		if pathErr != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", pathErr)
		}
		cfg, err = config.LoadConfigOrDefault(defaultPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadConfig loads the configuration file and applies global flag
// overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := loadConfigFile()
	if err != nil {
		return nil, err
	}

	// Override config with CLI flags if provided
	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if NoColor != nil && *NoColor {
		cfg.Settings.ColorOutput = false
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	logger.InitLogger(cfg.Settings.LogLevel, logger.FormatText)
	return cfg, nil
}

// newPresenter picks the report renderer for w from the settings.
func newPresenter(cfg *config.Config, w io.Writer) (present.Presenter, error) {
	color := false
	if f, ok := w.(*os.File); ok && cfg.Settings.ColorOutput {
		color = present.ColorEnabled(f)
	}
	return present.New(cfg.Settings.OutputFormat, color)
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		// An empty path is rejected with ErrEmptyConfigPath when used.
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}
