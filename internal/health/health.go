package health

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vyrodovalexey/routeregistry/internal/observability"
)

// Status represents the health status.
type Status string

const (
	// StatusHealthy indicates the service is healthy.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the service is unhealthy.
	StatusUnhealthy Status = "unhealthy"
	// StatusDegraded indicates the service is degraded but operational.
	StatusDegraded Status = "degraded"
)

// drainingCheck is the check name reported while draining.
const drainingCheck = "draining"

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadinessResponse is the readiness payload.
type ReadinessResponse struct {
	Status    Status           `json:"status"`
	Checks    map[string]Check `json:"checks,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Check is the result of one readiness check.
type Check struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// CheckFunc performs a readiness check.
type CheckFunc func() Check

// Checker aggregates readiness checks.
type Checker struct {
	version   string
	startTime time.Time
	logger    observability.Logger
	checks    map[string]CheckFunc
	draining  atomic.Bool
	mu        sync.RWMutex
}

// NewChecker creates a checker reporting version.
func NewChecker(version string, logger observability.Logger) *Checker {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Checker{
		version:   version,
		startTime: time.Now(),
		logger:    logger,
		checks:    make(map[string]CheckFunc),
	}
}

// RegisterCheck adds or replaces a named readiness check.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// SetDraining marks the service as shutting down. A draining service is
// alive but not ready.
func (c *Checker) SetDraining(draining bool) {
	if c.draining.Swap(draining) != draining {
		c.logger.Info("readiness draining state changed",
			observability.Bool("draining", draining),
		)
	}
}

// IsDraining reports whether SetDraining(true) is in effect.
func (c *Checker) IsDraining() bool {
	return c.draining.Load()
}

// Health returns the liveness status. The process is healthy while it
// can answer.
func (c *Checker) Health() HealthResponse {
	return HealthResponse{
		Status:    StatusHealthy,
		Version:   c.version,
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Readiness runs every registered check. The overall status is the worst
// individual status.
func (c *Checker) Readiness() ReadinessResponse {
	c.mu.RLock()
	checks := maps.Clone(c.checks)
	c.mu.RUnlock()
	names := slices.Sorted(maps.Keys(checks))

	response := ReadinessResponse{
		Status:    StatusHealthy,
		Checks:    make(map[string]Check, len(names)+1),
		Timestamp: time.Now(),
	}

	if c.IsDraining() {
		response.Checks[drainingCheck] = Check{Status: StatusUnhealthy, Message: "service is shutting down"}
		response.Status = StatusUnhealthy
	}

	for _, name := range names {
		check := checks[name]()
		response.Checks[name] = check

		switch {
		case check.Status == StatusUnhealthy:
			response.Status = StatusUnhealthy
		case check.Status == StatusDegraded && response.Status != StatusUnhealthy:
			response.Status = StatusDegraded
		}
	}

	return response
}

// ConditionCheck reports healthy while ready returns true and unhealthy
// with message otherwise.
func ConditionCheck(ready func() bool, message string) CheckFunc {
	return func() Check {
		if ready() {
			return Check{Status: StatusHealthy}
		}
		return Check{Status: StatusUnhealthy, Message: message}
	}
}
