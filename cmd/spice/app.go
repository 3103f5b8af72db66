// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/invowk/spice/internal/config"
	"github.com/invowk/spice/internal/issue"
	"github.com/invowk/spice/internal/telemetry"
	"github.com/invowk/spice/pkg/fileworkspace"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and opens the workspace through it.
	App struct {
		Config         ConfigProvider
		Registry       *prometheus.Registry
		TracerProvider trace.TracerProvider
		// IssueStyle is the glamour style used to render issue help.
		IssueStyle string
		stdout     io.Writer
		stderr     io.Writer

		recorderOnce sync.Once
		recorder     *telemetry.Recorder
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config         ConfigProvider
		Registry       *prometheus.Registry
		TracerProvider trace.TracerProvider
		IssueStyle     string
		Stdout         io.Writer
		Stderr         io.Writer
	}

	// globalFlags holds the persistent root flags.
	globalFlags struct {
		workspace string
		config    string
		output    string
		verbose   bool
	}

	// session is the per-command state: resolved configuration, logger and
	// the opened workspace.
	session struct {
		cfg       *config.Config
		output    config.OutputFormat
		logger    *slog.Logger
		workspace *fileworkspace.Workspace
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	if deps.IssueStyle == "" {
		deps.IssueStyle = "dark"
	}
	return &App{
		Config:         deps.Config,
		Registry:       deps.Registry,
		TracerProvider: deps.TracerProvider,
		IssueStyle:     deps.IssueStyle,
		stdout:         deps.Stdout,
		stderr:         deps.Stderr,
	}
}

// Recorder returns the telemetry recorder shared by every workspace the App
// opens. Its metrics are registered with the App registry once.
func (a *App) Recorder() *telemetry.Recorder {
	a.recorderOnce.Do(func() {
		a.recorder = telemetry.New(
			telemetry.WithRegisterer(a.Registry),
			telemetry.WithTracerProvider(a.TracerProvider),
		)
	})
	return a.recorder
}

// newLogger builds the slog logger used by the workspace, backed by a
// charmbracelet/log handler writing to stderr.
func (a *App) newLogger(level slog.Level) *slog.Logger {
	handler := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  log.Level(level),
	})
	return slog.New(handler)
}

// open resolves configuration for the workspace named by flags and opens it.
func (a *App) open(ctx context.Context, flags *globalFlags) (*session, error) {
	path := flags.workspace
	if path == "" {
		path = "."
	}
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.config, WorkspaceDir: dir})
	if err != nil {
		return nil, err
	}

	output := cfg.Output
	if flags.output != "" {
		output = config.OutputFormat(flags.output)
		if ok, errs := output.IsValid(); !ok {
			return nil, errs[0]
		}
	}
	level := cfg.LogLevel.Level()
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := a.newLogger(level)

	ws, err := fileworkspace.Open(ctx, path, cfg.ToOptions(logger, a.Recorder())...)
	if err != nil {
		return nil, issue.WrapWithContext(err, "open workspace", path)
	}
	logger.Debug("opened workspace", "file", ws.File(), "variants", ws.Variants(), "threads", cfg.ThreadCount)
	return &session{cfg: cfg, output: output, logger: logger, workspace: ws}, nil
}

// logMetrics reports the load phase histograms gathered so far.
func (a *App) logMetrics(logger *slog.Logger) {
	families, err := a.Registry.Gather()
	if err != nil {
		logger.Warn("failed to gather metrics", "error", err)
		return
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make([]any, 0, 2*len(metric.GetLabel()))
			for _, label := range metric.GetLabel() {
				labels = append(labels, label.GetName(), label.GetValue())
			}
			switch {
			case metric.GetHistogram() != nil:
				h := metric.GetHistogram()
				logger.Debug(family.GetName(), append(labels, "count", h.GetSampleCount(), "seconds", h.GetSampleSum())...)
			case metric.GetCounter() != nil:
				logger.Debug(family.GetName(), append(labels, "value", metric.GetCounter().GetValue())...)
			}
		}
	}
}
