// Package telemetry is the tracing facade used by every stage of a query.
//
// It wraps OpenTelemetry so callers never branch on backend availability:
// when the collector is disabled, unreachable at setup, or starts failing
// exports, the same API keeps working and spans are simply not transmitted.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultEndpoint is the OTLP/gRPC collector address used when none is configured.
const DefaultEndpoint = "localhost:4317"

// Config controls tracer setup.
type Config struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Insecure    bool
	// DialTimeout bounds the reachability probe done at setup.
	DialTimeout time.Duration
}

// Tracer creates spans. A nil *Tracer is valid and behaves as a no-op.
type Tracer struct {
	tracer   oteltrace.Tracer
	provider *sdktrace.TracerProvider
	guard    *guardedExporter
	logger   *slog.Logger

	shutdownOnce sync.Once
}

// Setup builds a tracer for cfg. It never fails: any problem reaching the
// backend yields a no-op tracer and a logged warning.
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) *Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "telemetry")

	if cfg.ServiceName == "" {
		cfg.ServiceName = "code-assistant"
	}
	if !cfg.Enabled {
		logger.Debug("tracing disabled")
		return Noop()
	}

	endpoint := NormalizeEndpoint(cfg.Endpoint)
	if err := probe(ctx, endpoint, cfg.DialTimeout); err != nil {
		logger.Warn("trace backend unreachable, spans will not be exported",
			"endpoint", endpoint, "error", err)
		return Noop()
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		logger.Warn("otlp exporter setup failed, spans will not be exported",
			"endpoint", endpoint, "error", err)
		return Noop()
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		logger.Warn("otel resource", "error", err)
		res = resource.Default()
	}

	guard := newGuardedExporter(exp, logger)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(guard),
		sdktrace.WithResource(res),
		sdktrace.WithIDGenerator(newQueryIDGenerator()),
	)

	logger.Info("tracing enabled", "endpoint", endpoint, "service", cfg.ServiceName)
	return &Tracer{
		tracer:   tp.Tracer(cfg.ServiceName),
		provider: tp,
		guard:    guard,
		logger:   logger,
	}
}

// Noop returns a tracer that records nothing.
func Noop() *Tracer {
	return &Tracer{
		tracer: noop.NewTracerProvider().Tracer("noop"),
		logger: slog.Default(),
	}
}

// NewWithExporter builds a tracer that exports synchronously to exp.
// It is meant for tests and for tools that inspect spans in-process.
func NewWithExporter(exp sdktrace.SpanExporter) *Tracer {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithIDGenerator(newQueryIDGenerator()),
	)
	return &Tracer{
		tracer:   tp.Tracer("test"),
		provider: tp,
		logger:   slog.Default(),
	}
}

// Degraded reports whether exports have been switched off after a failure.
func (t *Tracer) Degraded() bool {
	if t == nil || t.guard == nil {
		return false
	}
	return t.guard.degraded()
}

// Start begins a span as a child of whatever span ctx carries.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	if t == nil || t.tracer == nil {
		return ctx, nil
	}
	ctx, s := t.tracer.Start(ctx, name, oteltrace.WithAttributes(attrs...))
	return ctx, &Span{span: s}
}

// WithSpan runs fn inside a span named name. The span is ended on every
// exit path, including a panic in fn, and fn's error is recorded on it.
func (t *Tracer) WithSpan(ctx context.Context, name string, fn func(context.Context, *Span) error, attrs ...attribute.KeyValue) error {
	ctx, span := t.Start(ctx, name, attrs...)
	defer span.End()

	err := fn(ctx, span)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Shutdown flushes queued spans. Errors are logged, never returned.
func (t *Tracer) Shutdown(ctx context.Context) {
	if t == nil || t.provider == nil {
		return
	}
	t.shutdownOnce.Do(func() {
		if err := t.provider.Shutdown(ctx); err != nil {
			t.logger.Warn("tracer shutdown", "error", err)
		}
	})
}

// Span is a handle on an open span. A nil *Span is a valid no-op.
type Span struct {
	span oteltrace.Span
	once sync.Once
}

// SetAttributes adds or overwrites attributes on the span.
func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	if s == nil {
		return
	}
	s.span.SetAttributes(attrs...)
}

// RecordError marks the span failed with err.
func (s *Span) RecordError(err error) {
	if s == nil || err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End closes the span. Calling End more than once is harmless.
func (s *Span) End() {
	if s == nil {
		return
	}
	s.once.Do(func() { s.span.End() })
}

// TraceID returns the hex trace ID, or "" when the span is not recording.
func (s *Span) TraceID() string {
	if s == nil {
		return ""
	}
	sc := s.span.SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// NormalizeEndpoint strips a URL scheme and trailing slash so values like
// "http://localhost:4317/" work with the gRPC exporter.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return DefaultEndpoint
	}
	for _, prefix := range []string{"http://", "https://", "grpc://"} {
		endpoint = strings.TrimPrefix(endpoint, prefix)
	}
	return strings.TrimSuffix(endpoint, "/")
}

func probe(ctx context.Context, endpoint string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return conn.Close()
}
