// SPDX-License-Identifier: MPL-2.0

// Package telemetry times the phases of module loading. Each phase runs inside
// an OpenTelemetry span and its duration is observed in a Prometheus
// histogram; an optional reporter receives (label, duration) pairs for
// callers that just want timings.
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Load phases.
const (
	PhaseRead  = "read"
	PhaseParse = "parse"
	PhaseIndex = "index"
	// PhaseWorkspace covers reading and parsing the workspace declaration.
	PhaseWorkspace = "workspace"
)

const instrumentationName = "github.com/invowk/spice"

type (
	// Recorder instruments module loading. The zero value is not usable; use New.
	Recorder struct {
		tracer   trace.Tracer
		phases   *prometheus.HistogramVec
		modules  *prometheus.CounterVec
		reporter Reporter
		now      func() time.Time
	}

	// Reporter receives the duration of each traced phase. The label is
	// "<phase> <address>".
	Reporter func(label string, d time.Duration)

	// Option configures a Recorder.
	Option func(*Recorder)
)

// WithRegisterer registers the recorder's metrics with reg. Without it the
// metrics are collected but never exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Recorder) {
		if reg != nil {
			reg.MustRegister(r.phases, r.modules)
		}
	}
}

// WithTracerProvider uses tp instead of the global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Recorder) {
		if tp != nil {
			r.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// WithReporter installs a callback receiving every phase duration.
func WithReporter(fn Reporter) Option {
	return func(r *Recorder) {
		r.reporter = fn
	}
}

// New creates a Recorder.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		tracer: otel.Tracer(instrumentationName),
		phases: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spice_module_load_phase_seconds",
			Help:    "Duration of module load phases",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"phase"}),
		modules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spice_modules_loaded_total",
			Help: "Module loads by result",
		}, []string{"result"}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Trace runs fn as the named phase of loading address.
func (r *Recorder) Trace(ctx context.Context, phase, address string, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "spice.module."+phase,
		trace.WithAttributes(attribute.String("spice.address", address)))
	defer span.End()

	start := r.now()
	err := fn(ctx)
	elapsed := r.now().Sub(start)

	r.phases.WithLabelValues(phase).Observe(elapsed.Seconds())
	if r.reporter != nil {
		r.reporter(phase+" "+address, elapsed)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, phase+" failed")
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// ModuleLoaded counts a finished module load; a nil err counts as success.
func (r *Recorder) ModuleLoaded(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.modules.WithLabelValues(result).Inc()
}
