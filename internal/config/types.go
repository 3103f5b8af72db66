// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/invowk/spice/internal/discovery"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
	OutputTOML OutputFormat = "toml"
)

var (
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of emitted log records.
	LogLevel string

	// OutputFormat selects how the CLI renders results.
	OutputFormat string

	// InvalidLogLevelError is returned for an unrecognized LogLevel.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidOutputFormatError is returned for an unrecognized OutputFormat.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the spice settings.
	Config struct {
		// ThreadCount bounds parallel module loading and variant validation.
		ThreadCount int `json:"thread_count" mapstructure:"thread_count" toml:"thread_count" yaml:"thread_count"`
		// FollowSymlinks makes full loads descend into symlinked directories.
		FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" toml:"follow_symlinks" yaml:"follow_symlinks"`
		// DynamicLoading lets path lookups load modules on demand.
		DynamicLoading bool `json:"dynamic_loading" mapstructure:"dynamic_loading" toml:"dynamic_loading" yaml:"dynamic_loading"`
		// LocalOnly drops edges to external addresses.
		LocalOnly bool `json:"local_only" mapstructure:"local_only" toml:"local_only" yaml:"local_only"`
		// ModuleFileName is the module declaration file name.
		ModuleFileName string `json:"module_file_name" mapstructure:"module_file_name" toml:"module_file_name" yaml:"module_file_name"`
		// WorkspaceFileName is the workspace declaration file name.
		WorkspaceFileName string       `json:"workspace_file_name" mapstructure:"workspace_file_name" toml:"workspace_file_name" yaml:"workspace_file_name"`
		LogLevel          LogLevel     `json:"log_level" mapstructure:"log_level" toml:"log_level" yaml:"log_level"`
		Output            OutputFormat `json:"output" mapstructure:"output" toml:"output" yaml:"output"`
	}
)

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, yaml, toml)", e.Value)
}

func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap exposes the sentinel and every field error to errors.Is.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Level maps the LogLevel onto slog. Unknown values map to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsValid returns whether the OutputFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (o OutputFormat) IsValid() (bool, []error) {
	switch o {
	case OutputText, OutputJSON, OutputYAML, OutputTOML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: o}}
	}
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		ThreadCount:       1,
		FollowSymlinks:    false,
		DynamicLoading:    true,
		LocalOnly:         true,
		ModuleFileName:    discovery.DefaultModuleFileName,
		WorkspaceFileName: discovery.DefaultWorkspaceFileName,
		LogLevel:          LogLevelInfo,
		Output:            OutputText,
	}
}

// IsValid checks the fields CUE cannot check, because they may come from
// the environment.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if c.ThreadCount < 1 {
		errs = append(errs, fmt.Errorf("thread_count must be at least 1, got %d", c.ThreadCount))
	}
	if c.ModuleFileName == "" {
		errs = append(errs, errors.New("module_file_name must not be empty"))
	}
	if c.WorkspaceFileName == "" {
		errs = append(errs, errors.New("workspace_file_name must not be empty"))
	}
	if ok, fieldErrs := c.LogLevel.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Output.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}
