package errors

import "fmt"

// Common error types.
var (
	// Run errors.
	ErrInvalidRoot    = fmt.Errorf("invalid root directory")
	ErrInvalidOwner   = fmt.Errorf("invalid owner")
	ErrChangesPending = fmt.Errorf("permission changes pending")

	// Config errors.
	ErrEmptyConfigPath    = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath  = fmt.Errorf("invalid config file path")
	ErrConfigParse        = fmt.Errorf("failed to parse config")
	ErrConfigValidation   = fmt.Errorf("invalid configuration")
	ErrConfigEncode       = fmt.Errorf("failed to encode config")
	ErrConfigDirectory    = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate   = fmt.Errorf("failed to create config file")
	ErrConfigFileRename   = fmt.Errorf("failed to rename temporary config file")
	ErrConfigFileExists   = fmt.Errorf("configuration file already exists (use --force to overwrite)")
	ErrConfigVersion      = fmt.Errorf("unsupported config version")
	ErrUnknownConfigKey   = fmt.Errorf("unknown configuration key")
	ErrInvalidBoolValue   = fmt.Errorf("invalid boolean value")
	ErrInvalidMatchMode   = fmt.Errorf("invalid exclusion match mode")
	ErrInvalidPattern     = fmt.Errorf("invalid exclusion pattern")
	ErrInvalidOutput      = fmt.Errorf("invalid output format")
	ErrInvalidLogLevel    = fmt.Errorf("invalid log level")
	ErrEmptyExclusionName = fmt.Errorf("exclusion name cannot be empty")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrInvalidRootWithPath reports the offending root path and why it was rejected.
func ErrInvalidRootWithPath(path, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidRoot, path, reason)
}

// ErrInvalidOwnerWithDetails reports an owner argument that could not be parsed or resolved.
func ErrInvalidOwnerWithDetails(value, reason string) error {
	return fmt.Errorf("%w '%s': %s", ErrInvalidOwner, value, reason)
}

// ErrChangesPendingWithCount reports how many items a check run would change.
func ErrChangesPendingWithCount(n int) error {
	return fmt.Errorf("%w: %d item(s) need fixing", ErrChangesPending, n)
}

// ErrInvalidOutputWithDetails is a helper to create a wrapped error with the invalid format and valid options.
func ErrInvalidOutputWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: text, json, yaml, html", ErrInvalidOutput, format)
}

// ErrInvalidLogLevelWithDetails is a helper to create a wrapped error with the invalid level and valid options.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: error, warn, info, debug", ErrInvalidLogLevel, level)
}

// ErrInvalidMatchModeWithDetails is a helper to create a wrapped error with the invalid mode and valid options.
func ErrInvalidMatchModeWithDetails(mode string) error {
	return fmt.Errorf("%w: '%s', must be one of: segment, ancestor", ErrInvalidMatchMode, mode)
}

// ErrUnknownConfigKeyWithName reports a key not handled by config get/set.
func ErrUnknownConfigKeyWithName(key string) error {
	return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
}
