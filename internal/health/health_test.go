package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routeregistry/internal/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewChecker(t *testing.T) {
	t.Parallel()

	checker := NewChecker("1.0.0", nil)

	assert.Equal(t, "1.0.0", checker.version)
	assert.NotNil(t, checker.logger)
	assert.NotNil(t, checker.checks)
	assert.False(t, checker.startTime.IsZero())
	assert.False(t, checker.IsDraining())
}

func TestChecker_Health(t *testing.T) {
	t.Parallel()

	resp := NewChecker("2.1.0", observability.NopLogger()).Health()

	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "2.1.0", resp.Version)
	assert.NotEmpty(t, resp.Uptime)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestChecker_Readiness(t *testing.T) {
	t.Parallel()

	healthy := func() Check { return Check{Status: StatusHealthy} }
	degraded := func() Check { return Check{Status: StatusDegraded, Message: "slow"} }
	unhealthy := func() Check { return Check{Status: StatusUnhealthy, Message: "down"} }

	tests := []struct {
		name     string
		checks   map[string]CheckFunc
		draining bool
		want     Status
	}{
		{name: "no checks", want: StatusHealthy},
		{name: "all healthy", checks: map[string]CheckFunc{"a": healthy, "b": healthy}, want: StatusHealthy},
		{name: "one degraded", checks: map[string]CheckFunc{"a": healthy, "b": degraded}, want: StatusDegraded},
		{name: "unhealthy wins", checks: map[string]CheckFunc{"a": degraded, "b": unhealthy}, want: StatusUnhealthy},
		{name: "draining", checks: map[string]CheckFunc{"a": healthy}, draining: true, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewChecker("test", observability.NopLogger())
			for name, fn := range tt.checks {
				checker.RegisterCheck(name, fn)
			}
			checker.SetDraining(tt.draining)

			resp := checker.Readiness()
			assert.Equal(t, tt.want, resp.Status)
			for name := range tt.checks {
				assert.Contains(t, resp.Checks, name)
			}
			if tt.draining {
				assert.Contains(t, resp.Checks, drainingCheck)
			}
		})
	}
}

func TestChecker_RegisterCheckReplaces(t *testing.T) {
	t.Parallel()

	checker := NewChecker("test", observability.NopLogger())
	checker.RegisterCheck("flaky", func() Check { return Check{Status: StatusUnhealthy} })
	require.Equal(t, StatusUnhealthy, checker.Readiness().Status)

	checker.RegisterCheck("flaky", func() Check { return Check{Status: StatusHealthy} })
	assert.Equal(t, StatusHealthy, checker.Readiness().Status)
}

func TestConditionCheck(t *testing.T) {
	t.Parallel()

	ready := false
	check := ConditionCheck(func() bool { return ready }, "not loaded")

	assert.Equal(t, Check{Status: StatusUnhealthy, Message: "not loaded"}, check())

	ready = true
	assert.Equal(t, Check{Status: StatusHealthy}, check())
}

func TestChecker_Handlers(t *testing.T) {
	t.Parallel()

	checker := NewChecker("test", observability.NopLogger())
	ready := false
	checker.RegisterCheck("routetable", ConditionCheck(func() bool { return ready }, "route table not loaded"))

	router := gin.New()
	checker.Register(router)

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := serve(PathHealth)
	assert.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, StatusHealthy, health.Status)

	rec = serve(PathReady)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var readiness ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &readiness))
	assert.Equal(t, "route table not loaded", readiness.Checks["routetable"].Message)

	ready = true
	assert.Equal(t, http.StatusOK, serve(PathReady).Code)

	checker.SetDraining(true)
	assert.Equal(t, http.StatusServiceUnavailable, serve(PathReady).Code)
	assert.Equal(t, http.StatusOK, serve(PathLive).Code)
}
