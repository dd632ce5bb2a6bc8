package config

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routeregistry/internal/route"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, DefaultKind, cfg.Kind)
	assert.Equal(t, DefaultAdminPort, cfg.Spec.Admin.Port)
	assert.Equal(t, 30*time.Second, cfg.Spec.Admin.ShutdownTimeout.Duration())
	assert.True(t, cfg.Spec.Admin.RateLimit.Enabled)
	require.NotNil(t, cfg.Spec.Observability)
	assert.Equal(t, "info", cfg.Spec.Observability.Logging.Level)
	assert.Empty(t, cfg.Spec.Routes)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestGatewayConfig_RouteDefinitions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Spec.Routes = []route.Definition{
		{
			ID:      "with-id",
			URI:     "http://a",
			Filters: []route.FilterDefinition{{Name: "StripPrefix", Args: map[string]string{"_genkey_0": "1"}}},
		},
		{URI: "http://b"},
	}
	cfg.Spec.DefaultFilters = []route.FilterDefinition{
		{Name: "AddResponseHeader", Args: map[string]string{"_genkey_0": "X-Registry", "_genkey_1": "yes"}},
	}

	defs := cfg.RouteDefinitions()
	require.Len(t, defs, 2)

	assert.Equal(t, "with-id", defs[0].ID)
	require.Len(t, defs[0].Filters, 2)
	assert.Equal(t, "StripPrefix", defs[0].Filters[0].Name)
	assert.Equal(t, "AddResponseHeader", defs[0].Filters[1].Name)

	_, err := uuid.Parse(defs[1].ID)
	assert.NoError(t, err, "route without id gets a UUID")
	require.Len(t, defs[1].Filters, 1)

	defs[0].Filters[1].Args["_genkey_0"] = "mutated"
	assert.Equal(t, "X-Registry", cfg.Spec.DefaultFilters[0].Args["_genkey_0"])
	assert.Equal(t, "X-Registry", defs[1].Filters[0].Args["_genkey_0"], "each route gets its own copy")
	assert.Len(t, cfg.Spec.Routes[0].Filters, 1)
	assert.Empty(t, cfg.Spec.Routes[1].ID)
}

func TestGatewayConfig_RouteDefinitions_FreshIDs(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Spec.Routes = []route.Definition{{URI: "http://a"}, {URI: "http://b"}}

	defs := cfg.RouteDefinitions()
	require.Len(t, defs, 2)
	assert.NotEqual(t, defs[0].ID, defs[1].ID)
}

func TestGatewayConfig_ApplyDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   GatewayConfig
		check func(t *testing.T, cfg *GatewayConfig)
	}{
		{
			name: "empty config",
			cfg:  GatewayConfig{},
			check: func(t *testing.T, cfg *GatewayConfig) {
				assert.Equal(t, DefaultAdminPort, cfg.Spec.Admin.Port)
				assert.Equal(t, DefaultAdminAddress, cfg.Spec.Admin.Address)
				require.NotNil(t, cfg.Spec.Observability)
				assert.NotNil(t, cfg.Spec.Observability.Logging)
			},
		},
		{
			name: "explicit values are kept",
			cfg: GatewayConfig{Spec: RegistrySpec{
				Admin: AdminConfig{Port: 9000, RateLimit: RateLimitConfig{RPS: 5, Burst: 1}},
				Observability: &ObservabilityConfig{
					Logging: &LoggingConfig{Level: "debug"},
				},
			}},
			check: func(t *testing.T, cfg *GatewayConfig) {
				assert.Equal(t, 9000, cfg.Spec.Admin.Port)
				assert.Equal(t, 5.0, cfg.Spec.Admin.RateLimit.RPS)
				assert.Equal(t, 1, cfg.Spec.Admin.RateLimit.Burst)
				assert.Equal(t, "debug", cfg.Spec.Observability.Logging.Level)
				assert.NotNil(t, cfg.Spec.Observability.Metrics)
				assert.NotNil(t, cfg.Spec.Observability.Tracing)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			cfg.ApplyDefaults()
			tt.check(t, &cfg)
		})
	}
}
