// Package main is the entry point for the route registry service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vyrodovalexey/routeregistry/internal/config"
	"github.com/vyrodovalexey/routeregistry/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if flags.showVersion {
		printVersion(os.Stdout)
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	cfg := loadAndValidateConfig(flags.configPath, logger)

	app, err := newApplication(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize route registry", observability.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.run(ctx, flags.configPath); err != nil {
		logger.Error("route registry stopped with error", observability.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// parseFlags parses command line flags. Environment variables provide
// the defaults.
func parseFlags(args []string) (cliFlags, error) {
	fs := flag.NewFlagSet("routeregistry", flag.ContinueOnError)

	var flags cliFlags
	fs.StringVar(&flags.configPath, "config", getEnvOrDefault(envConfigPath, "configs/routeregistry.yaml"),
		"Path to configuration file")
	fs.StringVar(&flags.logLevel, "log-level", getEnvOrDefault(envLogLevel, "info"),
		"Log level (debug, info, warn, error)")
	fs.StringVar(&flags.logFormat, "log-format", getEnvOrDefault(envLogFormat, "json"),
		"Log format (json, console)")
	fs.BoolVar(&flags.showVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	return flags, nil
}

// printVersion prints version information.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "routeregistry version %s\n", version)
	_, _ = fmt.Fprintf(w, "  Build time: %s\n", buildTime)
	_, _ = fmt.Fprintf(w, "  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	return logger
}

// loadAndValidateConfig loads and validates the configuration.
func loadAndValidateConfig(configPath string, logger observability.Logger) *config.GatewayConfig {
	logger.Info("starting routeregistry",
		observability.String("version", version),
		observability.String("config", configPath),
	)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", observability.Error(err))
	}

	if err := config.ValidateConfig(cfg); err != nil {
		logger.Fatal("invalid configuration", observability.Error(err))
	}

	logger.Info("configuration loaded",
		observability.String("name", cfg.Metadata.Name),
		observability.Int("routes", len(cfg.Spec.Routes)),
		observability.Int("default_filters", len(cfg.Spec.DefaultFilters)),
	)

	return cfg
}
