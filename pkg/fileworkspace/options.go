// SPDX-License-Identifier: MPL-2.0

package fileworkspace

import (
	"log/slog"

	"github.com/invowk/spice/internal/discovery"
	"github.com/invowk/spice/internal/telemetry"
)

type (
	// Option configures a Workspace.
	Option func(*options)

	options struct {
		threadCount       int
		followSymlinks    bool
		dynamicLoading    bool
		localOnly         bool
		moduleFileName    string
		workspaceFileName string
		recorder          *telemetry.Recorder
		logger            *slog.Logger
	}
)

func defaultOptions() options {
	return options{
		threadCount:       1,
		dynamicLoading:    true,
		localOnly:         true,
		moduleFileName:    discovery.DefaultModuleFileName,
		workspaceFileName: discovery.DefaultWorkspaceFileName,
	}
}

func applyOptions(opts ...Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.recorder == nil {
		o.recorder = telemetry.New()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithThreadCount bounds the number of modules loaded, and variants
// validated, in parallel. Values below 1 are treated as 1.
func WithThreadCount(n int) Option {
	return func(o *options) {
		o.threadCount = max(n, 1)
	}
}

// WithFollowSymlinks makes full loads descend into symlinked directories.
func WithFollowSymlinks(follow bool) Option {
	return func(o *options) {
		o.followSymlinks = follow
	}
}

// WithDynamicLoading controls whether FindModule and FindNode load modules
// along the requested path when the path index has no answer.
func WithDynamicLoading(enabled bool) Option {
	return func(o *options) {
		o.dynamicLoading = enabled
	}
}

// WithLocalOnly controls whether dependencies on non-local addresses are
// dropped when indexing.
func WithLocalOnly(localOnly bool) Option {
	return func(o *options) {
		o.localOnly = localOnly
	}
}

// WithModuleFileName sets the name of module declaration files.
func WithModuleFileName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.moduleFileName = name
		}
	}
}

// WithWorkspaceFileName sets the name of workspace declaration files. Nested
// workspaces are only detected when they use the same name.
func WithWorkspaceFileName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.workspaceFileName = name
		}
	}
}

// WithRecorder sets the recorder timing the read and parse of every module.
func WithRecorder(r *telemetry.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
