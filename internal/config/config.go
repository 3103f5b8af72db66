// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/invowk/spice/internal/cueutil"
	"github.com/invowk/spice/internal/issue"
	"github.com/invowk/spice/internal/telemetry"
	"github.com/invowk/spice/pkg/fileworkspace"
)

const (
	// AppName is the application name.
	AppName = "spice"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "spice"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override, e.g. SPICE_THREAD_COUNT.
	EnvPrefix = "SPICE"
)

//go:embed config_schema.cue
var configSchema string

// keys lists every configuration key, so that environment overrides are seen
// by Unmarshal.
var keys = []string{
	"thread_count",
	"follow_symlinks",
	"dynamic_loading",
	"local_only",
	"module_file_name",
	"workspace_file_name",
	"log_level",
	"output",
}

// loadWithOptions performs option-driven config loading. It returns the
// loaded configuration and the path of the file it was read from, if any.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("thread_count", defaults.ThreadCount)
	v.SetDefault("follow_symlinks", defaults.FollowSymlinks)
	v.SetDefault("dynamic_loading", defaults.DynamicLoading)
	v.SetDefault("local_only", defaults.LocalOnly)
	v.SetDefault("module_file_name", defaults.ModuleFileName)
	v.SetDefault("workspace_file_name", defaults.WorkspaceFileName)
	v.SetDefault("log_level", string(defaults.LogLevel))
	v.SetDefault("output", string(defaults.Output))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, "", fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestions("Verify the file path is correct", "Check that the file exists and is readable").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else if opts.WorkspaceDir != "" {
		candidate := filepath.Join(opts.WorkspaceDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(candidate) {
			resolvedPath = candidate
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check the " + EnvPrefix + "_* environment variables").
			Wrap(fmt.Errorf("failed to parse config: %w", err)).
			BuildError()
	}
	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check the " + EnvPrefix + "_* environment variables").
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Note: This uses manual CUE parsing instead of cueutil.ParseAndDecode because
// the result is merged into Viper's config map, and optional fields must not
// be required to be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// ToOptions translates the configuration into file workspace options.
// recorder and logger are passed through when not nil.
func (c *Config) ToOptions(logger *slog.Logger, recorder *telemetry.Recorder) []fileworkspace.Option {
	opts := []fileworkspace.Option{
		fileworkspace.WithThreadCount(c.ThreadCount),
		fileworkspace.WithFollowSymlinks(c.FollowSymlinks),
		fileworkspace.WithDynamicLoading(c.DynamicLoading),
		fileworkspace.WithLocalOnly(c.LocalOnly),
		fileworkspace.WithModuleFileName(c.ModuleFileName),
		fileworkspace.WithWorkspaceFileName(c.WorkspaceFileName),
	}
	if logger != nil {
		opts = append(opts, fileworkspace.WithLogger(logger))
	}
	if recorder != nil {
		opts = append(opts, fileworkspace.WithRecorder(recorder))
	}
	return opts
}
