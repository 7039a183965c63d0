package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 5 * time.Second

// Status represents the health status of a service or dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the health check result for a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Probe reports whether one dependency is reachable.
type Probe func(ctx context.Context) error

// Checker performs health checks on service dependencies.
type Checker struct {
	probes  map[string]Probe
	version string
}

// NewChecker creates a health checker over the named probes. Nil probes are
// skipped so optional dependencies can be passed unconditionally.
func NewChecker(version string, probes map[string]Probe) *Checker {
	active := make(map[string]Probe, len(probes))
	for name, p := range probes {
		if p != nil {
			active[name] = p
		}
	}
	return &Checker{
		probes:  active,
		version: version,
	}
}

// Check runs every probe concurrently and returns the overall status.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult, len(c.probes)),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, probe := range c.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := time.Now()
			err := probe(checkCtx)

			result := CheckResult{Status: StatusHealthy, LatencyMs: time.Since(start).Milliseconds()}
			if err != nil {
				result = CheckResult{Status: StatusUnhealthy, Error: err.Error()}
			}

			mu.Lock()
			defer mu.Unlock()
			status.Checks[name] = result
			if err != nil {
				status.Status = StatusUnhealthy
			}
		}()
	}
	wg.Wait()

	return status
}

// LiveHandler returns a Gin handler for liveness probes.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler returns a Gin handler for readiness probes.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}
