package config

import (
	"time"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/routeregistry/internal/route"
)

// Default values.
const (
	DefaultAPIVersion      = "routeregistry.avapigw.io/v1"
	DefaultKind            = "RouteRegistry"
	DefaultAdminAddress    = "0.0.0.0"
	DefaultAdminPort       = 8081
	DefaultRateLimitRPS    = 100
	DefaultRateLimitBurst  = 200
	DefaultShutdownTimeout = Duration(30 * time.Second)
	DefaultMetricsPath     = "/metrics"
	DefaultServiceName     = "routeregistry"
)

// GatewayConfig is the root configuration document.
type GatewayConfig struct {
	APIVersion string       `yaml:"apiVersion" json:"apiVersion"`
	Kind       string       `yaml:"kind" json:"kind"`
	Metadata   Metadata     `yaml:"metadata" json:"metadata"`
	Spec       RegistrySpec `yaml:"spec" json:"spec"`
}

// Metadata identifies the configuration.
type Metadata struct {
	Name   string            `yaml:"name" json:"name"`
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// RegistrySpec holds the service settings.
type RegistrySpec struct {
	// Routes are saved into the registry on startup and on every reload.
	Routes []route.Definition `yaml:"routes,omitempty" json:"routes,omitempty"`

	// DefaultFilters are appended to the filters of every configured route.
	DefaultFilters []route.FilterDefinition `yaml:"defaultFilters,omitempty" json:"defaultFilters,omitempty"`

	Admin         AdminConfig          `yaml:"admin" json:"admin"`
	Observability *ObservabilityConfig `yaml:"observability,omitempty" json:"observability,omitempty"`
}

// AdminConfig configures the admin HTTP API.
type AdminConfig struct {
	Address         string          `yaml:"address,omitempty" json:"address,omitempty"`
	Port            int             `yaml:"port" json:"port"`
	ShutdownTimeout Duration        `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`
	RateLimit       RateLimitConfig `yaml:"rateLimit" json:"rateLimit"`
}

// RateLimitConfig configures the token bucket in front of the admin API.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	RPS     float64 `yaml:"rps,omitempty" json:"rps,omitempty"`
	Burst   int     `yaml:"burst,omitempty" json:"burst,omitempty"`
}

// DefaultConfig returns a configuration with default values and no routes.
func DefaultConfig() *GatewayConfig {
	return &GatewayConfig{
		APIVersion: DefaultAPIVersion,
		Kind:       DefaultKind,
		Metadata: Metadata{
			Name: "routeregistry",
		},
		Spec: RegistrySpec{
			Admin: AdminConfig{
				Address:         DefaultAdminAddress,
				Port:            DefaultAdminPort,
				ShutdownTimeout: DefaultShutdownTimeout,
				RateLimit: RateLimitConfig{
					Enabled: true,
					RPS:     DefaultRateLimitRPS,
					Burst:   DefaultRateLimitBurst,
				},
			},
			Observability: &ObservabilityConfig{
				Metrics: &MetricsConfig{Enabled: true, Path: DefaultMetricsPath},
				Tracing: &TracingConfig{Enabled: false, SamplingRate: 1.0, ServiceName: DefaultServiceName},
				Logging: &LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
			},
		},
	}
}

// RouteDefinitions materializes the configured routes. Routes without an
// id get a random UUID and every route gets the default filters appended
// after its own. The configuration itself is not modified.
func (c *GatewayConfig) RouteDefinitions() []route.Definition {
	defs := make([]route.Definition, 0, len(c.Spec.Routes))
	for _, r := range c.Spec.Routes {
		def := r.Clone()
		if def.ID == "" {
			def.ID = uuid.NewString()
		}
		for _, f := range c.Spec.DefaultFilters {
			def.Filters = append(def.Filters, f.Clone())
		}
		defs = append(defs, def)
	}
	return defs
}

// ApplyDefaults fills unset admin and observability settings.
func (c *GatewayConfig) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.Spec.Admin.Address == "" {
		c.Spec.Admin.Address = defaults.Spec.Admin.Address
	}
	if c.Spec.Admin.Port == 0 {
		c.Spec.Admin.Port = defaults.Spec.Admin.Port
	}
	if c.Spec.Admin.ShutdownTimeout == 0 {
		c.Spec.Admin.ShutdownTimeout = defaults.Spec.Admin.ShutdownTimeout
	}
	if c.Spec.Admin.RateLimit.RPS == 0 {
		c.Spec.Admin.RateLimit.RPS = defaults.Spec.Admin.RateLimit.RPS
	}
	if c.Spec.Admin.RateLimit.Burst == 0 {
		c.Spec.Admin.RateLimit.Burst = defaults.Spec.Admin.RateLimit.Burst
	}

	if c.Spec.Observability == nil {
		c.Spec.Observability = defaults.Spec.Observability
		return
	}
	if c.Spec.Observability.Metrics == nil {
		c.Spec.Observability.Metrics = defaults.Spec.Observability.Metrics
	}
	if c.Spec.Observability.Tracing == nil {
		c.Spec.Observability.Tracing = defaults.Spec.Observability.Tracing
	}
	if c.Spec.Observability.Logging == nil {
		c.Spec.Observability.Logging = defaults.Spec.Observability.Logging
	}
}
