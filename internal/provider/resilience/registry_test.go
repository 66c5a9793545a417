package resilience_test

import (
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityobservatory/cityobservatory/internal/provider/resilience"
)

func register(t *testing.T, registry *resilience.Registry, name string) *resilience.Client {
	t.Helper()
	cfg := resilience.DefaultClientConfig(name)
	cfg.Registry = registry
	return resilience.NewClient(cfg)
}

func TestRegistry_NewClientRegisters(t *testing.T) {
	registry := resilience.NewRegistry()
	client := register(t, registry, "forecast")

	assert.Equal(t, 1, registry.ProviderCount())
	assert.Equal(t, "forecast", client.Name())

	health := registry.GetHealth("forecast")
	require.NotNil(t, health)
	assert.Equal(t, gobreaker.StateClosed, health.CircuitState)
	assert.Equal(t, resilience.StatusOK, health.Status())
}

func TestRegistry_Unregister(t *testing.T) {
	registry := resilience.NewRegistry()
	register(t, registry, "forecast")

	registry.Unregister("forecast")

	assert.Equal(t, 0, registry.ProviderCount())
	assert.Nil(t, registry.GetHealth("forecast"))
}

func TestRegistry_RecordOutcomes(t *testing.T) {
	registry := resilience.NewRegistry()
	register(t, registry, "air-quality")

	health := registry.GetHealth("air-quality")
	assert.Nil(t, health.LastSuccessAt)
	assert.Nil(t, health.LastFailureAt)

	registry.RecordSuccess("air-quality")
	registry.RecordFailure("air-quality", assert.AnError)

	health = registry.GetHealth("air-quality")
	require.NotNil(t, health.LastSuccessAt)
	require.NotNil(t, health.LastFailureAt)
	assert.WithinDuration(t, time.Now(), *health.LastSuccessAt, time.Second)
	assert.Equal(t, assert.AnError.Error(), health.LastError)
}

func TestRegistry_UnknownProviderIsIgnored(t *testing.T) {
	registry := resilience.NewRegistry()

	registry.RecordSuccess("missing")
	registry.RecordFailure("missing", assert.AnError)

	assert.Nil(t, registry.GetHealth("missing"))
}

func TestRegistry_GetAllHealthIsSorted(t *testing.T) {
	registry := resilience.NewRegistry()
	for _, name := range []string{"geocoding", "air-quality", "forecast"} {
		register(t, registry, name)
	}

	all := registry.GetAllHealth()
	require.Len(t, all, 3)
	assert.Equal(t, "air-quality", all[0].Name)
	assert.Equal(t, "forecast", all[1].Name)
	assert.Equal(t, "geocoding", all[2].Name)
	assert.Equal(t, []string{"air-quality", "forecast", "geocoding"}, registry.GetProviderNames())
}

func TestRegistry_Overall(t *testing.T) {
	assert.Equal(t, resilience.StatusOK, resilience.NewRegistry().Overall())

	registry := resilience.NewRegistry()
	register(t, registry, "forecast")
	register(t, registry, "air-quality")
	assert.Equal(t, resilience.StatusOK, registry.Overall())
}

func TestProviderHealth_States(t *testing.T) {
	tests := []struct {
		state  gobreaker.State
		status resilience.Status
	}{
		{gobreaker.StateClosed, resilience.StatusOK},
		{gobreaker.StateHalfOpen, resilience.StatusDegraded},
		{gobreaker.StateOpen, resilience.StatusDown},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			h := &resilience.ProviderHealth{CircuitState: tt.state}
			assert.Equal(t, tt.status, h.Status())
			assert.Equal(t, tt.state == gobreaker.StateClosed, h.IsHealthy())
			assert.Equal(t, tt.state == gobreaker.StateHalfOpen, h.IsDegraded())
			assert.Equal(t, tt.state == gobreaker.StateOpen, h.IsUnhealthy())
		})
	}
}
