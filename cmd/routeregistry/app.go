package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/vyrodovalexey/routeregistry/internal/admin"
	"github.com/vyrodovalexey/routeregistry/internal/config"
	"github.com/vyrodovalexey/routeregistry/internal/health"
	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/registry"
	"github.com/vyrodovalexey/routeregistry/internal/routetable"
)

// changeEventBuffer is the route table's subscription buffer.
const changeEventBuffer = 64

// application holds all application components.
type application struct {
	config    *config.GatewayConfig
	logger    observability.Logger
	metrics   *observability.Metrics
	tracer    *observability.Tracer
	store     *registry.InMemory
	publisher *registry.Publisher
	syncer    *registry.Syncer
	table     *routetable.Table
	checker   *health.Checker
	admin     *admin.Server
	applied   atomic.Bool
}

// newApplication wires the registry, its decorators and the admin API.
// Writes flow through Publisher -> Instrumented -> InMemory.
func newApplication(cfg *config.GatewayConfig, logger observability.Logger) (*application, error) {
	metrics := observability.NewMetrics("routeregistry")
	metrics.SetBuildInfo(version, gitCommit, buildTime)

	tracer, err := observability.NewTracer(tracerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	store := registry.NewInMemory(registry.WithInMemoryLogger(logger))
	instrumented := registry.NewInstrumented(store,
		registry.WithLogger(logger),
		registry.WithMetrics(metrics),
		registry.WithTracer(tracer),
	)
	publisher := registry.NewPublisher(instrumented, registry.WithPublisherLogger(logger))

	app := &application{
		config:    cfg,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		store:     store,
		publisher: publisher,
		syncer: registry.NewSyncer(publisher,
			registry.WithSyncLogger(logger),
			registry.WithSyncMetrics(metrics),
		),
		table:   routetable.New(publisher, routetable.WithLogger(logger)),
		checker: health.NewChecker(version, logger),
	}

	app.checker.RegisterCheck("config", health.ConditionCheck(app.applied.Load, "configuration routes not applied"))
	app.checker.RegisterCheck("routetable", health.ConditionCheck(app.table.Ready, "route table not loaded"))

	app.admin = admin.NewServer(adminConfig(cfg), publisher, app.adminOptions()...)

	return app, nil
}

func (a *application) adminOptions() []admin.Option {
	opts := []admin.Option{
		admin.WithLogger(a.logger),
		admin.WithTracer(a.tracer),
		admin.WithHealthChecker(a.checker),
		admin.WithRouteTable(a.table),
	}

	if obs := a.config.Spec.Observability; obs != nil && obs.Metrics != nil && obs.Metrics.Enabled {
		opts = append(opts, admin.WithMetrics(a.metrics))
	}

	if rl := a.config.Spec.Admin.RateLimit; rl.Enabled {
		opts = append(opts, admin.WithRateLimit(rl.RPS, rl.Burst))
	}

	return opts
}

// run applies the configured routes, starts the route table, the config
// watcher and the admin API, and blocks until ctx is done or the admin
// server fails.
func (a *application) run(ctx context.Context, configPath string) error {
	events, unsubscribe := a.publisher.Subscribe(changeEventBuffer)

	tableDone := make(chan struct{})
	go func() {
		defer close(tableDone)
		a.table.Run(ctx, events)
	}()

	a.applyConfig(ctx, a.config)

	watcher := a.startConfigWatcher(ctx, configPath)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.admin.Start(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("received shutdown signal")
	case err := <-serveErr:
		if err != nil {
			runErr = err
		}
	}

	a.shutdown(watcher)
	unsubscribe()
	<-tableDone

	return runErr
}

// applyConfig loads the configuration routes into the registry. Partial
// failures are logged and the successfully saved routes stay in place.
func (a *application) applyConfig(ctx context.Context, cfg *config.GatewayConfig) {
	if err := a.syncer.Apply(ctx, cfg.RouteDefinitions()); err != nil {
		a.logger.Error("failed to apply some configuration routes", observability.Error(err))
	}
	a.applied.Store(true)

	owned := a.syncer.Owned()
	slices.Sort(owned)
	a.logger.Info("route registry updated from configuration",
		observability.Strings("config_routes", owned),
		observability.Int("stored_routes", a.store.Len()),
	)
}

// startConfigWatcher starts the configuration watcher.
func (a *application) startConfigWatcher(ctx context.Context, configPath string) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, func(ctx context.Context, newCfg *config.GatewayConfig) {
		a.logger.Info("configuration changed, reloading routes")
		a.applyConfig(ctx, newCfg)
	}, config.WithLogger(a.logger))
	if err != nil {
		a.logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(ctx); err != nil {
		a.logger.Warn("failed to start config watcher", observability.Error(err))
		return nil
	}

	return watcher
}

// shutdown stops accepting work and releases resources.
func (a *application) shutdown(watcher *config.Watcher) {
	a.checker.SetDraining(true)

	timeout := a.config.Spec.Admin.ShutdownTimeout.Duration()
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout.Duration()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			a.logger.Error("failed to stop config watcher", observability.Error(err))
		}
	}

	if err := a.admin.Stop(shutdownCtx); err != nil {
		a.logger.Error("failed to stop admin server gracefully", observability.Error(err))
	}

	a.publisher.Close()

	if err := a.tracer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		a.logger.Error("failed to shutdown tracer", observability.Error(err))
	}

	a.logger.Info("route registry stopped")
}

// tracerConfig maps the tracing section onto the tracer settings.
func tracerConfig(cfg *config.GatewayConfig) observability.TracerConfig {
	tracerCfg := observability.TracerConfig{
		ServiceName:  config.DefaultServiceName,
		SamplingRate: 1.0,
	}

	if cfg.Spec.Observability != nil && cfg.Spec.Observability.Tracing != nil {
		tracing := cfg.Spec.Observability.Tracing
		tracerCfg.Enabled = tracing.Enabled
		tracerCfg.SamplingRate = tracing.SamplingRate
		tracerCfg.OTLPEndpoint = tracing.OTLPEndpoint
		if tracing.ServiceName != "" {
			tracerCfg.ServiceName = tracing.ServiceName
		}
	}

	return tracerCfg
}

// adminConfig maps the admin section onto the server settings.
func adminConfig(cfg *config.GatewayConfig) admin.ServerConfig {
	serverCfg := admin.DefaultServerConfig()
	serverCfg.Address = cfg.Spec.Admin.Address
	serverCfg.Port = cfg.Spec.Admin.Port

	if obs := cfg.Spec.Observability; obs != nil && obs.Metrics != nil && obs.Metrics.Path != "" {
		serverCfg.MetricsPath = obs.Metrics.Path
	}

	return serverCfg
}
