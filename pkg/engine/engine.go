package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/DrSkyle/chronograph/pkg/config"
	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/DrSkyle/chronograph/pkg/query"
	"github.com/DrSkyle/chronograph/pkg/swarm"
	"github.com/DrSkyle/chronograph/pkg/telemetry"
	"github.com/DrSkyle/chronograph/pkg/version"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	engineScope = "chronograph/engine"
	queryScope  = "chronograph/query"
)

// ErrPanic wraps a panic recovered by Do.
var ErrPanic = errors.New("engine: recovered panic")

// Engine is the runtime core: one store, one executor and the ambient
// logging, tracing and metrics around them.
type Engine struct {
	Store  *graph.TemporalStore
	Exec   swarm.Executor
	Logger *slog.Logger
	Tracer trace.Tracer

	// Immutable config.
	config config.Config
	logOut io.Writer

	ownExec   bool
	globals   bool
	tracers   trace.TracerProvider
	meters    metric.MeterProvider
	registry  *prometheus.Registry
	metrics   *http.Server
	shutdowns []telemetry.ShutdownFunc
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New initializes the Engine. The returned engine owns its executor,
// telemetry providers and metrics listener; release them with Close.
//
// Providers, logger and metrics belong to the engine alone. The slog default
// and the otel globals are only replaced with WithGlobalTelemetry, and then the
// most recently built engine wins.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	e := &Engine{
		Store:  graph.NewTemporalStore(),
		Tracer: otel.Tracer(engineScope),
		config: config.DefaultConfig(),
		logOut: os.Stdout,
	}

	for _, opt := range opts {
		opt(e)
	}

	if err := e.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if e.Logger == nil {
		logger, err := newLogger(e.logOut, e.config)
		if err != nil {
			return nil, err
		}
		e.Logger = logger
	}

	if !e.config.SkipTelemetry {
		e.initTelemetry(ctx)
	}
	if e.globals {
		slog.SetDefault(e.Logger)
		telemetry.Install(e.tracers, e.meters)
	}

	if e.config.MetricsAddr != "" {
		if err := e.serveMetrics(); err != nil {
			e.Close(ctx)
			return nil, err
		}
	}

	if e.Exec == nil {
		e.Exec = newExecutor(e.config)
		e.ownExec = true
	}

	e.Logger.Debug("Engine ready",
		"workers", e.Exec.Size(),
		"executor", e.config.Executor,
		"min_partition_size", e.config.MinPartitionSize,
	)
	return e, nil
}

// WithConfig sets raw config.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithLogger sets the logger, bypassing the config's log settings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.Logger = l
	}
}

// WithLogOutput sets where the default logger writes.
func WithLogOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.logOut = w
	}
}

// WithGlobalTelemetry makes the engine's logger the slog default and its
// providers the otel globals. Meant for a process running a single engine.
func WithGlobalTelemetry() Option {
	return func(e *Engine) {
		e.globals = true
	}
}

// WithExecutor injects an executor. The engine will not close it.
func WithExecutor(x swarm.Executor) Option {
	return func(e *Engine) {
		e.Exec = x
	}
}

func (e *Engine) Config() config.Config {
	return e.config
}

// Sequential returns a single-goroutine query engine over the store.
func (e *Engine) Sequential() *query.Sequential {
	return query.NewSequential(e.Store, e.queryOptions()...)
}

// Parallel returns a query engine over the store using the engine's executor.
func (e *Engine) Parallel() *query.Parallel {
	return query.NewParallel(e.Store, e.Exec, e.queryOptions()...)
}

// queryOptions hands the engine's own providers to the query engines. Without
// telemetry they fall back to the otel globals.
func (e *Engine) queryOptions() []query.Option {
	opts := []query.Option{query.WithMinPartitionSize(e.config.MinPartitionSize)}
	if e.tracers != nil {
		opts = append(opts, query.WithTracer(e.tracers.Tracer(queryScope)))
	}
	if e.meters != nil {
		opts = append(opts, query.WithMeter(e.meters.Meter(queryScope)))
	}
	return opts
}

// Querier returns Parallel when parallel is set and Sequential otherwise.
func (e *Engine) Querier(parallel bool) query.Querier {
	if parallel {
		return e.Parallel()
	}
	return e.Sequential()
}

// MetricsAddr is the bound metrics listener address, or "" when not serving.
func (e *Engine) MetricsAddr() string {
	if e.metrics == nil {
		return ""
	}
	return e.metrics.Addr
}

// Do runs fn inside a span named name. A panic in fn is recorded on the
// span, logged and returned as an error wrapping ErrPanic.
func (e *Engine) Do(ctx context.Context, name string, fn func(ctx context.Context) error) (err error) {
	ctx, span := e.Tracer.Start(ctx, name)
	defer span.End()

	defer e.recoverPanic(ctx, &err)

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Close stops the metrics listener, the executor (when the engine built it)
// and flushes telemetry. Errors are logged, not returned.
func (e *Engine) Close(ctx context.Context) {
	if e.metrics != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := e.metrics.Shutdown(shutdownCtx); err != nil {
			e.Logger.Warn("Metrics server shutdown failed", "error", err)
		}
		cancel()
		e.metrics = nil
	}

	if p, ok := e.Exec.(*swarm.Pool); ok && e.ownExec {
		p.Close()
	}

	for i := len(e.shutdowns) - 1; i >= 0; i-- {
		if err := e.shutdowns[i](ctx); err != nil {
			e.Logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}
	e.shutdowns = nil
}

func (e *Engine) initTelemetry(ctx context.Context) {
	tp, err := telemetry.NewTracerProvider(ctx, version.AppName, version.Current, e.config.OtelEndpoint)
	if err != nil {
		e.Logger.Warn("Telemetry failed", "error", err)
	} else {
		e.tracers = tp
		e.Tracer = tp.Tracer(engineScope)
		e.shutdowns = append(e.shutdowns, tp.Shutdown)
	}

	reg := prometheus.NewRegistry()
	mp, err := telemetry.NewMeterProvider(reg, version.AppName, version.Current)
	if err != nil {
		e.Logger.Warn("Metrics failed", "error", err)
		return
	}
	e.registry = reg
	e.meters = mp
	e.shutdowns = append(e.shutdowns, mp.Shutdown)
}

func (e *Engine) serveMetrics() error {
	if e.registry == nil {
		return fmt.Errorf("metrics_addr %q set but telemetry is disabled", e.config.MetricsAddr)
	}

	ln, err := net.Listen("tcp", e.config.MetricsAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", e.config.MetricsAddr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.MetricsHandler(e.registry))
	e.metrics = &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := e.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Error("Metrics server stopped", "error", err)
		}
	}()
	e.Logger.Info("Serving metrics", "addr", e.metrics.Addr)
	return nil
}

// recoverPanic handles failures.
func (e *Engine) recoverPanic(ctx context.Context, errp *error) {
	r := recover()
	if r == nil {
		return
	}

	stack := debug.Stack()
	span := trace.SpanFromContext(ctx)
	span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
	span.SetStatus(codes.Error, "panic")
	span.SetAttributes(
		attribute.String("crash.stack", string(stack)),
		attribute.String("crash.reason", fmt.Sprintf("%v", r)),
	)

	e.Logger.Error("Recovered panic", "error", r, "stack", string(stack))
	*errp = fmt.Errorf("%w: %v", ErrPanic, r)
}

func newExecutor(cfg config.Config) swarm.Executor {
	if cfg.Executor == config.ExecutorLimited {
		return swarm.NewLimited(cfg.Workers)
	}
	return swarm.NewPool(cfg.Workers)
}

func newLogger(w io.Writer, cfg config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: stripTime(cfg.LogTimestamps),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, config.LogFormatText) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler), nil
}

// stripTime drops the top-level time attribute when timestamps are off, so
// log output can be compared byte for byte.
func stripTime(keep bool) func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if !keep && len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}
}
