// Package health serves liveness and readiness probes for the headless
// flight simulation runner. Readiness aggregates named checks over the
// simulation loop, the flight data recorder and process memory.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Status is the state reported for a component or for the whole process
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// ReadinessTimeout bounds a single readiness request.
const ReadinessTimeout = 5 * time.Second

// HealthCheck is one named probe. Check returns nil when the component is healthy.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthStatus is the aggregated readiness report.
type HealthStatus struct {
	Status    Status                     `json:"status"`
	Checks    map[string]ComponentHealth `json:"checks"`
	CheckedAt time.Time                  `json:"checkedAt"`
}

// ComponentHealth is the result of one check.
type ComponentHealth struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker holds the registered checks.
type HealthChecker struct {
	mu      sync.RWMutex
	checks  map[string]HealthCheck
	started time.Time
}

// NewHealthChecker creates a checker with no checks. With no checks the
// process reports healthy.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks:  make(map[string]HealthCheck),
		started: time.Now(),
	}
}

// AddCheck registers check, replacing any check with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// Names returns the registered check names in sorted order.
func (hc *HealthChecker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckHealth runs every check. The process is healthy only when all are.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	checks := make([]HealthCheck, 0, len(hc.checks))
	for _, check := range hc.checks {
		checks = append(checks, check)
	}
	hc.mu.RUnlock()

	report := HealthStatus{
		Status:    StatusHealthy,
		Checks:    make(map[string]ComponentHealth, len(checks)),
		CheckedAt: time.Now().UTC(),
	}
	for _, check := range checks {
		result := ComponentHealth{Status: StatusHealthy}
		if err := check.Check(ctx); err != nil {
			result = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			report.Status = StatusUnhealthy
		}
		report.Checks[check.Name()] = result
	}
	return report
}

// Routes returns a mux serving /health (liveness) and /ready (readiness).
func (hc *HealthChecker) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	return mux
}

// LivenessHandler answers 200 while the process can serve HTTP at all.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "alive",
		"uptimeSeconds": int64(time.Since(hc.started).Seconds()),
	})
}

// ReadinessHandler runs the checks and answers 200 when all pass, 503 otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
	defer cancel()

	report := hc.CheckHealth(ctx)
	code := http.StatusOK
	if report.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, report)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// SimulationHealthCheck fails while the simulation loop is stopped.
type SimulationHealthCheck struct {
	running func() bool
}

// NewSimulationHealthCheck creates a check backed by running.
func NewSimulationHealthCheck(running func() bool) *SimulationHealthCheck {
	return &SimulationHealthCheck{running: running}
}

func (s *SimulationHealthCheck) Name() string { return "simulation" }

func (s *SimulationHealthCheck) Check(ctx context.Context) error {
	if !s.running() {
		return fmt.Errorf("simulation is not running")
	}
	return nil
}

// TickFreshnessHealthCheck reports a stalled loop: one that has not ticked
// within maxAge.
type TickFreshnessHealthCheck struct {
	maxAge   time.Duration
	lastTick func() time.Time
	now      func() time.Time
}

// NewTickFreshnessHealthCheck creates a stall check. lastTick returns the
// zero time before the first tick.
func NewTickFreshnessHealthCheck(maxAge time.Duration, lastTick func() time.Time) *TickFreshnessHealthCheck {
	return &TickFreshnessHealthCheck{
		maxAge:   maxAge,
		lastTick: lastTick,
		now:      time.Now,
	}
}

func (t *TickFreshnessHealthCheck) Name() string { return "tick_freshness" }

func (t *TickFreshnessHealthCheck) Check(ctx context.Context) error {
	last := t.lastTick()
	if last.IsZero() {
		return fmt.Errorf("simulation has not ticked")
	}
	if age := t.now().Sub(last); age > t.maxAge {
		return fmt.Errorf("last tick %s ago exceeds %s", age.Round(time.Millisecond), t.maxAge)
	}
	return nil
}

// RecorderHealthCheck pings the flight data recorder's database.
type RecorderHealthCheck struct {
	ping func(ctx context.Context) error
}

// NewRecorderHealthCheck creates a check backed by ping.
func NewRecorderHealthCheck(ping func(ctx context.Context) error) *RecorderHealthCheck {
	return &RecorderHealthCheck{ping: ping}
}

func (r *RecorderHealthCheck) Name() string { return "recorder" }

func (r *RecorderHealthCheck) Check(ctx context.Context) error {
	if err := r.ping(ctx); err != nil {
		return fmt.Errorf("recorder unavailable: %w", err)
	}
	return nil
}

// MemoryHealthCheck fails when heap usage exceeds a limit in MB.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a memory check. A nil getMemoryUsage reads
// the runtime's heap statistics.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	if getMemoryUsage == nil {
		getMemoryUsage = HeapAllocMB
	}
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

func (m *MemoryHealthCheck) Name() string { return "memory" }

func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	if currentMB := m.getMemoryUsage(); currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

// HeapAllocMB returns the allocated heap in MB.
func HeapAllocMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
