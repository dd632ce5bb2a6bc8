package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vyrodovalexey/routeregistry/internal/async"
	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/route"
	"github.com/vyrodovalexey/routeregistry/internal/util"
)

type instrumentedFixture struct {
	repo     *Instrumented
	inner    *InMemory
	metrics  *observability.Metrics
	recorder *tracetest.SpanRecorder
	logs     *observer.ObservedLogs
}

func newInstrumentedFixture(t *testing.T) *instrumentedFixture {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	core, logs := observer.New(zapcore.DebugLevel)
	metrics := observability.NewMetrics("test")
	inner := NewInMemory()

	return &instrumentedFixture{
		repo: NewInstrumented(inner,
			WithLogger(observability.NewLoggerFromZap(zap.New(core))),
			WithMetrics(metrics),
			WithTracer(observability.NewTracerWithProvider(provider, "registry-test")),
		),
		inner:    inner,
		metrics:  metrics,
		recorder: recorder,
		logs:     logs,
	}
}

// gatheredValue returns the counter or gauge value of the series with the
// given labels, or -1 when no such series exists.
func gatheredValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
					matched++
				}
			}
			if matched != len(labels) {
				continue
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return -1
}

func TestInstrumented_Save(t *testing.T) {
	t.Parallel()

	f := newInstrumentedFixture(t)
	ctx := context.Background()

	require.NoError(t, SaveDefinition(ctx, f.repo, def("r1", "http://a")))
	assert.Equal(t, []string{"r1"}, ids(Collect(ctx, f.inner)))

	spans := f.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "registry.save", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "r1", attrs["route.id"])
	assert.Equal(t, observability.ResultSuccess, attrs["registry.result"])

	assert.Equal(t, 1.0, gatheredValue(t, f.metrics.Registry(), "test_registry_operations_total",
		map[string]string{"operation": OperationSave, "result": observability.ResultSuccess}))

	entries := f.logs.FilterMessage("route registry operation completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "r1", entries[0].ContextMap()["route_id"])
}

func TestInstrumented_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("producer failed")

	tests := []struct {
		name      string
		run       func(ctx context.Context, r Repository) error
		target    error
		result    string
		operation string
		level     zapcore.Level
	}{
		{
			name: "empty id is rejected",
			run: func(ctx context.Context, r Repository) error {
				return SaveDefinition(ctx, r, def("", "http://a"))
			},
			target:    util.ErrInvalidDefinition,
			result:    observability.ResultInvalid,
			operation: OperationSave,
			level:     zapcore.WarnLevel,
		},
		{
			name: "missing id is not found",
			run: func(ctx context.Context, r Repository) error {
				return DeleteDefinition(ctx, r, "missing")
			},
			target:    util.ErrNotFound,
			result:    observability.ResultNotFound,
			operation: OperationDelete,
			level:     zapcore.WarnLevel,
		},
		{
			name: "producer failure is an error",
			run: func(ctx context.Context, r Repository) error {
				return r.Save(ctx, async.Fail[route.Definition](boom)).Wait(ctx)
			},
			target:    boom,
			result:    observability.ResultError,
			operation: OperationSave,
			level:     zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newInstrumentedFixture(t)
			ctx := context.Background()

			err := tt.run(ctx, f.repo)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			spans := f.recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			assert.NotEmpty(t, spans[0].Events())

			assert.Equal(t, 1.0, gatheredValue(t, f.metrics.Registry(), "test_registry_operations_total",
				map[string]string{"operation": tt.operation, "result": tt.result}))

			all := f.logs.All()
			require.Len(t, all, 1)
			assert.Equal(t, tt.level, all[0].Level)
		})
	}
}

func TestInstrumented_List(t *testing.T) {
	t.Parallel()

	f := newInstrumentedFixture(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, SaveDefinition(ctx, f.inner, def(id, "http://x")))
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(Collect(ctx, f.repo)))
	assert.Equal(t, 3.0, gatheredValue(t, f.metrics.Registry(), "test_registry_route_definitions", nil))

	spans := f.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "registry.list", spans[0].Name())
}

func TestInstrumented_ListEarlyBreakKeepsGauge(t *testing.T) {
	t.Parallel()

	f := newInstrumentedFixture(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, SaveDefinition(ctx, f.inner, def(id, "http://x")))
	}
	f.metrics.SetRouteDefinitions(9)

	for range f.repo.List(ctx) {
		break
	}

	assert.Equal(t, 9.0, gatheredValue(t, f.metrics.Registry(), "test_registry_route_definitions", nil))

	spans := f.recorder.Ended()
	require.Len(t, spans, 1)
	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "false", attrs["route.complete"])
}

func TestInstrumented_DefaultsWithoutOptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewInstrumented(NewInMemory())

	require.NoError(t, SaveDefinition(ctx, repo, def("r1", "http://a")))
	require.NoError(t, DeleteDefinition(ctx, repo, "r1"))
	assert.Empty(t, Collect(ctx, repo))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: observability.ResultSuccess},
		{name: "not found", err: util.NewRouteNotFoundError("x"), want: observability.ResultNotFound},
		{name: "invalid", err: util.NewInvalidDefinitionError("", "empty id"), want: observability.ResultInvalid},
		{name: "other", err: errors.New("boom"), want: observability.ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}
