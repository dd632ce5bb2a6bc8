package config

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/util"
)

var (
	validLogFormats = map[string]bool{"json": true, "console": true}
	validLogOutputs = map[string]bool{"stdout": true, "stderr": true}
)

// Validator checks a configuration and collects every problem it finds.
type Validator struct {
	err *util.ValidationError
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateConfig validates cfg. The returned error is a
// *util.ValidationError listing each invalid field, or a *util.ConfigError
// when cfg is nil.
func ValidateConfig(cfg *GatewayConfig) error {
	return NewValidator().Validate(cfg)
}

// Validate validates cfg.
func (v *Validator) Validate(cfg *GatewayConfig) error {
	if cfg == nil {
		return util.NewConfigError("", "configuration is nil")
	}

	v.err = util.NewValidationError("invalid route registry configuration")

	v.validateRoutes(cfg)
	v.validateDefaultFilters(cfg)
	v.validateAdmin(&cfg.Spec.Admin)
	v.validateObservability(cfg.Spec.Observability)

	if v.err.HasErrors() {
		return v.err
	}
	return nil
}

func (v *Validator) validateRoutes(cfg *GatewayConfig) {
	seen := make(map[string]int, len(cfg.Spec.Routes))

	for i, r := range cfg.Spec.Routes {
		path := fmt.Sprintf("spec.routes[%d]", i)

		if r.ID != "" {
			if first, dup := seen[r.ID]; dup {
				v.err.AddField(path+".id",
					fmt.Sprintf("duplicate route id %q (first defined at spec.routes[%d])", r.ID, first))
			} else {
				seen[r.ID] = i
			}
		}

		if err := util.ValidateRouteURI(r.URI); err != nil {
			v.err.AddField(path+".uri", err.Error())
		}

		for j, p := range r.Predicates {
			if err := util.ValidateNonEmpty(p.Name, "predicate name"); err != nil {
				v.err.AddField(fmt.Sprintf("%s.predicates[%d].name", path, j), err.Error())
			}
		}
		for j, f := range r.Filters {
			if err := util.ValidateNonEmpty(f.Name, "filter name"); err != nil {
				v.err.AddField(fmt.Sprintf("%s.filters[%d].name", path, j), err.Error())
			}
		}
	}
}

func (v *Validator) validateDefaultFilters(cfg *GatewayConfig) {
	for i, f := range cfg.Spec.DefaultFilters {
		if err := util.ValidateNonEmpty(f.Name, "filter name"); err != nil {
			v.err.AddField(fmt.Sprintf("spec.defaultFilters[%d].name", i), err.Error())
		}
	}
}

func (v *Validator) validateAdmin(admin *AdminConfig) {
	if err := util.ValidatePort(admin.Port); err != nil {
		v.err.AddField("spec.admin.port", err.Error())
	}
	if admin.ShutdownTimeout < 0 {
		v.err.AddField("spec.admin.shutdownTimeout", "must not be negative")
	}
	if admin.RateLimit.Enabled {
		if admin.RateLimit.RPS <= 0 {
			v.err.AddField("spec.admin.rateLimit.rps", "must be positive when rate limiting is enabled")
		}
		if admin.RateLimit.Burst <= 0 {
			v.err.AddField("spec.admin.rateLimit.burst", "must be positive when rate limiting is enabled")
		}
	}
}

func (v *Validator) validateObservability(obs *ObservabilityConfig) {
	if obs == nil {
		return
	}

	if obs.Logging != nil {
		if obs.Logging.Level != "" {
			if _, err := observability.ParseLevel(obs.Logging.Level); err != nil {
				v.err.AddField("spec.observability.logging.level", err.Error())
			}
		}
		if obs.Logging.Format != "" && !validLogFormats[strings.ToLower(obs.Logging.Format)] {
			v.err.AddField("spec.observability.logging.format",
				fmt.Sprintf("unsupported format %q", obs.Logging.Format))
		}
		if obs.Logging.Output != "" && !validLogOutputs[strings.ToLower(obs.Logging.Output)] {
			v.err.AddField("spec.observability.logging.output",
				fmt.Sprintf("unsupported output %q", obs.Logging.Output))
		}
	}

	if obs.Tracing != nil {
		if obs.Tracing.SamplingRate < 0 || obs.Tracing.SamplingRate > 1 {
			v.err.AddField("spec.observability.tracing.samplingRate", "must be between 0 and 1")
		}
		if obs.Tracing.Enabled && obs.Tracing.OTLPEndpoint == "" {
			v.err.AddField("spec.observability.tracing.otlpEndpoint", "required when tracing is enabled")
		}
	}

	if obs.Metrics != nil && obs.Metrics.Enabled && obs.Metrics.Path != "" &&
		!strings.HasPrefix(obs.Metrics.Path, "/") {
		v.err.AddField("spec.observability.metrics.path", "must start with /")
	}
}
