package registry

import (
	"context"
	"errors"
	"iter"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/routeregistry/internal/async"
	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/route"
	"github.com/vyrodovalexey/routeregistry/internal/util"
)

// Operation names used for logs, metrics and spans.
const (
	OperationSave   = "save"
	OperationDelete = "delete"
	OperationList   = "list"
)

// Instrumented wraps a Repository with structured logs, Prometheus metrics
// and OpenTelemetry spans.
type Instrumented struct {
	inner   Repository
	logger  observability.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
}

// InstrumentedOption is a functional option for configuring Instrumented.
type InstrumentedOption func(*Instrumented)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) InstrumentedOption {
	return func(r *Instrumented) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(metrics *observability.Metrics) InstrumentedOption {
	return func(r *Instrumented) {
		r.metrics = metrics
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer *observability.Tracer) InstrumentedOption {
	return func(r *Instrumented) {
		r.tracer = tracer
	}
}

// NewInstrumented wraps inner.
func NewInstrumented(inner Repository, opts ...InstrumentedOption) *Instrumented {
	r := &Instrumented{
		inner:  inner,
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.tracer == nil {
		r.tracer = observability.NoopTracer()
	}

	return r
}

// Save implements Writer.
func (r *Instrumented) Save(ctx context.Context, def async.Deferred[route.Definition]) *async.Completion {
	ctx, span := r.tracer.StartSpan(ctx, "registry.save", trace.WithSpanKind(trace.SpanKindInternal))
	start := time.Now()

	var id string
	c := r.inner.Save(ctx, captureDefinitionID(def, &id))
	return then(ctx, c, func(err error) {
		r.finish(ctx, span, OperationSave, id, start, err)
	})
}

// Delete implements Writer.
func (r *Instrumented) Delete(ctx context.Context, id async.Deferred[string]) *async.Completion {
	ctx, span := r.tracer.StartSpan(ctx, "registry.delete", trace.WithSpanKind(trace.SpanKindInternal))
	start := time.Now()

	var routeID string
	c := r.inner.Delete(ctx, captureID(id, &routeID))
	return then(ctx, c, func(err error) {
		r.finish(ctx, span, OperationDelete, routeID, start, err)
	})
}

// List implements Locator. A span covers one iteration; the definition
// gauge is only updated when the iteration ran to the end.
func (r *Instrumented) List(ctx context.Context) iter.Seq[route.Definition] {
	inner := r.inner.List(ctx)
	return func(yield func(route.Definition) bool) {
		_, span := r.tracer.StartSpan(ctx, "registry.list", trace.WithSpanKind(trace.SpanKindInternal))
		start := time.Now()
		count := 0
		complete := true

		for def := range inner {
			count++
			if !yield(def) {
				complete = false
				break
			}
		}

		span.SetAttributes(
			attribute.Int("route.count", count),
			attribute.Bool("route.complete", complete),
		)
		span.End()

		if r.metrics != nil {
			r.metrics.RecordOperation(OperationList, observability.ResultSuccess, time.Since(start))
			if complete {
				r.metrics.SetRouteDefinitions(count)
			}
		}
	}
}

func (r *Instrumented) finish(
	ctx context.Context,
	span trace.Span,
	operation, id string,
	start time.Time,
	err error,
) {
	duration := time.Since(start)
	result := classify(err)

	span.SetAttributes(
		attribute.String("route.id", id),
		attribute.String("registry.result", result),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	if r.metrics != nil {
		r.metrics.RecordOperation(operation, result, duration)
	}

	logger := r.logger.WithContext(ctx).With(
		observability.String("operation", operation),
		observability.String("route_id", id),
		observability.Duration("duration", duration),
	)
	switch {
	case err == nil:
		logger.Info("route registry operation completed")
	case util.IsClientError(err):
		logger.Warn("route registry operation rejected", observability.Error(err))
	default:
		logger.Error("route registry operation failed", observability.Error(err))
	}
}

// classify maps an operation error to a metrics result label.
func classify(err error) string {
	switch {
	case err == nil:
		return observability.ResultSuccess
	case errors.Is(err, util.ErrNotFound):
		return observability.ResultNotFound
	case errors.Is(err, util.ErrInvalidDefinition):
		return observability.ResultInvalid
	default:
		return observability.ResultError
	}
}
