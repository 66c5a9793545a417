// Package handler provides the HTTP handlers of the City Observatory API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cityobservatory/cityobservatory/internal/api/models"
	"github.com/cityobservatory/cityobservatory/internal/api/response"
	"github.com/cityobservatory/cityobservatory/internal/provider/resilience"
)

// Check is a readiness probe of a dependency such as the database.
type Check func(ctx context.Context) error

// OpsConfig configures an OpsHandler.
type OpsConfig struct {
	Version   string
	BuildTime string
	Registry  *resilience.Registry
	Checks    map[string]Check

	// CheckTimeout bounds each readiness check (default: 2 seconds).
	CheckTimeout time.Duration
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version      string
	buildTime    string
	registry     *resilience.Registry
	checks       map[string]Check
	checkTimeout time.Duration
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	timeout := cfg.CheckTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &OpsHandler{
		version:      cfg.Version,
		buildTime:    cfg.BuildTime,
		registry:     cfg.Registry,
		checks:       cfg.Checks,
		checkTimeout: timeout,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready. It fails when a dependency
// check fails or every provider circuit is open, and reports DEGRADED
// while some providers are unhealthy.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status:  models.HealthStatusOK,
		Time:    models.Timestamp(time.Now()),
		Details: map[string]any{},
	}

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), h.checkTimeout)
		err := check(ctx)
		cancel()
		if err != nil {
			health.Status = models.HealthStatusFail
			health.Details[name] = err.Error()
			continue
		}
		health.Details[name] = "ok"
	}

	if h.registry != nil {
		health.Providers = providerStatuses(h.registry)
		switch h.registry.Overall() {
		case resilience.StatusDown:
			health.Status = models.HealthStatusFail
		case resilience.StatusDegraded:
			if health.Status == models.HealthStatusOK {
				health.Status = models.HealthStatusDegraded
			}
		}
	}

	status := http.StatusOK
	if health.Status == models.HealthStatusFail {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, r, status, health)
}

func providerStatuses(registry *resilience.Registry) []models.ProviderStatus {
	all := registry.GetAllHealth()
	out := make([]models.ProviderStatus, 0, len(all))
	for _, ph := range all {
		ps := models.ProviderStatus{
			Provider:            ph.Name,
			Status:              healthStatus(ph.Status()),
			CircuitState:        ph.CircuitState.String(),
			ConsecutiveFailures: int(ph.Counts.ConsecutiveFailures),
		}
		if ph.LastSuccessAt != nil {
			ts := models.Timestamp(*ph.LastSuccessAt)
			ps.LastSuccessAt = &ts
		}
		if ph.LastFailureAt != nil {
			ts := models.Timestamp(*ph.LastFailureAt)
			ps.LastFailureAt = &ts
		}
		if ph.LastError != "" {
			msg := ph.LastError
			ps.Message = &msg
		}
		out = append(out, ps)
	}
	return out
}

func healthStatus(s resilience.Status) models.HealthStatus {
	switch s {
	case resilience.StatusDown:
		return models.HealthStatusFail
	case resilience.StatusDegraded:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
