package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCheck struct {
	name string
	err  error
}

func (c staticCheck) Name() string                    { return c.name }
func (c staticCheck) Check(ctx context.Context) error { return c.err }

func TestHealthChecker_AddRemove(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(staticCheck{name: "recorder"})
	hc.AddCheck(staticCheck{name: "memory"})
	hc.AddCheck(staticCheck{name: "recorder", err: errors.New("replaced")})

	assert.Equal(t, []string{"memory", "recorder"}, hc.Names())

	report := hc.CheckHealth(context.Background())
	assert.Equal(t, StatusUnhealthy, report.Checks["recorder"].Status)

	hc.RemoveCheck("recorder")
	hc.RemoveCheck("missing")
	assert.Equal(t, []string{"memory"}, hc.Names())
}

func TestHealthChecker_CheckHealth(t *testing.T) {
	t.Run("no checks", func(t *testing.T) {
		report := NewHealthChecker().CheckHealth(context.Background())
		assert.Equal(t, StatusHealthy, report.Status)
		assert.Empty(t, report.Checks)
		assert.False(t, report.CheckedAt.IsZero())
	})

	t.Run("one failing check", func(t *testing.T) {
		hc := NewHealthChecker()
		hc.AddCheck(staticCheck{name: "simulation"})
		hc.AddCheck(staticCheck{name: "recorder", err: errors.New("database is locked")})

		report := hc.CheckHealth(context.Background())
		assert.Equal(t, StatusUnhealthy, report.Status)
		assert.Equal(t, ComponentHealth{Status: StatusHealthy}, report.Checks["simulation"])
		assert.Equal(t, ComponentHealth{Status: StatusUnhealthy, Message: "database is locked"}, report.Checks["recorder"])
	})
}

func TestLivenessHandler(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(staticCheck{name: "simulation", err: errors.New("stopped")})

	rec := httptest.NewRecorder()
	hc.LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alive", body["status"])
	assert.Contains(t, body, "uptimeSeconds")
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		checkErr error
		wantCode int
		want     Status
	}{
		{"ready", nil, http.StatusOK, StatusHealthy},
		{"not ready", errors.New("simulation is not running"), http.StatusServiceUnavailable, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			hc.AddCheck(staticCheck{name: "simulation", err: tt.checkErr})

			rec := httptest.NewRecorder()
			hc.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var report HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.Equal(t, tt.want, report.Status)
			assert.Equal(t, tt.want, report.Checks["simulation"].Status)
		})
	}
}

func TestRoutes(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(staticCheck{name: "simulation", err: errors.New("stopped")})
	server := httptest.NewServer(hc.Routes())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSimulationHealthCheck(t *testing.T) {
	running := false
	check := NewSimulationHealthCheck(func() bool { return running })

	assert.Equal(t, "simulation", check.Name())
	assert.EqualError(t, check.Check(context.Background()), "simulation is not running")

	running = true
	assert.NoError(t, check.Check(context.Background()))
}

func TestTickFreshnessHealthCheck(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var last time.Time
	check := NewTickFreshnessHealthCheck(time.Second, func() time.Time { return last })
	check.now = func() time.Time { return now }

	assert.Equal(t, "tick_freshness", check.Name())
	assert.EqualError(t, check.Check(context.Background()), "simulation has not ticked")

	last = now.Add(-500 * time.Millisecond)
	assert.NoError(t, check.Check(context.Background()))

	last = now.Add(-time.Second)
	assert.NoError(t, check.Check(context.Background()), "exactly maxAge is still fresh")

	last = now.Add(-2500 * time.Millisecond)
	assert.EqualError(t, check.Check(context.Background()), "last tick 2.5s ago exceeds 1s")
}

func TestRecorderHealthCheck(t *testing.T) {
	pingErr := errors.New("sql: database is closed")
	var failing bool
	check := NewRecorderHealthCheck(func(ctx context.Context) error {
		if failing {
			return pingErr
		}
		return nil
	})

	assert.Equal(t, "recorder", check.Name())
	assert.NoError(t, check.Check(context.Background()))

	failing = true
	err := check.Check(context.Background())
	assert.ErrorIs(t, err, pingErr)
	assert.Contains(t, err.Error(), "recorder unavailable")
}

func TestMemoryHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		usageMB int64
		wantErr bool
	}{
		{"under limit", 120, false},
		{"at limit", 500, false},
		{"over limit", 501, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewMemoryHealthCheck(500, func() int64 { return tt.usageMB })
			assert.Equal(t, "memory", check.Name())
			err := check.Check(context.Background())
			if tt.wantErr {
				assert.EqualError(t, err, "memory usage 501MB exceeds limit 500MB")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMemoryHealthCheck_DefaultsToRuntime(t *testing.T) {
	check := NewMemoryHealthCheck(1<<20, nil)
	assert.NoError(t, check.Check(context.Background()))
	assert.GreaterOrEqual(t, HeapAllocMB(), int64(0))
}
