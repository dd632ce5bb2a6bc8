// Package observability provides logging, metrics, and tracing
// functionality for the route registry service.
//
// # Logging
//
// The Logger interface provides structured logging over zap:
//
//	logger, err := observability.NewLogger(observability.DefaultLogConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("route saved",
//	    observability.String("route_id", "orders"),
//	)
//
// # Metrics
//
// Prometheus metrics for registry operations and the admin API:
//
//	metrics := observability.NewMetrics("routeregistry")
//	handler := metrics.Handler()
//
// # Tracing
//
// OpenTelemetry tracing with optional OTLP gRPC export:
//
//	tracer, err := observability.NewTracer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(ctx)
package observability
