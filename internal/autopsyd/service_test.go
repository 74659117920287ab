package autopsyd

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/explain"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/failure"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/simulation"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	orch := simulation.New(utils.NewRandSource(42), simulation.WithLogger(quietLogger()))
	return NewService(orch, explain.NewExplainer(nil, explain.WithLogger(quietLogger())))
}

func criticalDatabase() simulation.Request {
	return simulation.Request{Scenario: string(failure.DatabaseLatencySpike), Severity: string(failure.SeverityCritical)}
}

func TestServiceSimulateBaseline(t *testing.T) {
	svc := newTestService(t)

	state, err := svc.Simulate(context.Background(), simulation.Request{})
	require.NoError(t, err)

	assert.NotEmpty(t, state.RunID)
	assert.Empty(t, state.Scenario)
	assert.Len(t, state.Topology.Services, 4)
	assert.False(t, state.GuaranteeApplied)
	for _, s := range state.Topology.Services {
		assert.Equal(t, models.StatusHealthy, s.Status, "baseline %s", s.ID)
	}
}

func TestServiceInjectFailure(t *testing.T) {
	svc := newTestService(t)

	state, err := svc.InjectFailure(context.Background(), criticalDatabase())
	require.NoError(t, err)
	assert.Equal(t, string(failure.DatabaseLatencySpike), state.Scenario)
	assert.Equal(t, models.StatusUnhealthy, state.SystemMode)

	_, err = svc.InjectFailure(context.Background(), simulation.Request{Scenario: "  "})
	assert.ErrorIs(t, err, ErrScenarioRequired)
}

func TestServiceClientErrors(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		req  simulation.Request
	}{
		{"Unknown scenario", simulation.Request{Scenario: "meteor_strike"}},
		{"Unknown severity", simulation.Request{Scenario: string(failure.DatabaseLatencySpike), Severity: "apocalyptic"}},
		{"Severity without scenario", simulation.Request{Severity: "minor"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Simulate(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, isClientError(err), "%v should be a client error", err)
		})
	}

	assert.False(t, isClientError(context.Canceled))
}

func TestServiceExplainFallsBack(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Explain(context.Background(), string(failure.DatabaseLatencySpike))
	require.NoError(t, err)

	assert.Equal(t, explain.SourceFallback, resp.Source)
	assert.NotEmpty(t, resp.Text)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, string(failure.DatabaseLatencySpike), resp.Payload.Scenario)
	assert.Len(t, resp.Payload.Services, 4)

	_, err = svc.Explain(context.Background(), "")
	assert.ErrorIs(t, err, ErrScenarioRequired)
}

func TestServiceScenarios(t *testing.T) {
	svc := newTestService(t)

	ids := svc.ScenarioIDs()
	require.NotEmpty(t, ids)
	scenarios := svc.Scenarios()
	require.Len(t, scenarios, len(ids))
	for i, sc := range scenarios {
		assert.Equal(t, ids[i], sc.ID)
	}
}
