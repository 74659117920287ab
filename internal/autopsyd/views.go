package autopsyd

import (
	"time"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/explain"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/metrics"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/propagation"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

// ServiceView is one node of the topology as clients see it.
// Error rates are reported in percent.
type ServiceView struct {
	ID           models.ServiceName  `json:"id"`
	Name         string              `json:"name"`
	Status       models.HealthStatus `json:"status"`
	LatencyMs    float64             `json:"latency_ms"`
	ErrorRatePct float64             `json:"error_rate_pct"`
}

// DependencyView is a directed call edge: Source calls Target, so
// degradation flows from Target back to Source.
type DependencyView struct {
	Source models.ServiceName `json:"source"`
	Target models.ServiceName `json:"target"`
}

// TopologyView is the service graph with current health.
type TopologyView struct {
	Services     []ServiceView    `json:"services"`
	Dependencies []DependencyView `json:"dependencies"`
}

// SimulationState is the API view of a finalized run.
type SimulationState struct {
	RunID            string                                     `json:"run_id"`
	Scenario         string                                     `json:"scenario,omitempty"`
	Severity         string                                     `json:"severity,omitempty"`
	SystemMode       models.HealthStatus                        `json:"system_mode"`
	Topology         TopologyView                               `json:"topology"`
	Metrics          map[models.SeriesName][]models.MetricPoint `json:"metrics"`
	Summary          map[models.SeriesName]*models.Aggregation  `json:"summary"`
	PropagationPath  []string                                   `json:"propagation_path"`
	Timeline         []models.StageSnapshot                     `json:"timeline,omitempty"`
	GuaranteeApplied bool                                       `json:"guarantee_applied"`
	CreatedAt        time.Time                                  `json:"created_at"`
}

// NewSimulationState converts a result into its API view.
func NewSimulationState(result *models.SimulationResult, graph *propagation.Graph) SimulationState {
	services := make([]ServiceView, 0, len(result.Services))
	for _, name := range models.ServiceNames() {
		svc := result.Service(name)
		if svc == nil {
			continue
		}
		services = append(services, ServiceView{
			ID:           name,
			Name:         name.DisplayName(),
			Status:       svc.Status,
			LatencyMs:    utils.Round(svc.LatencyMs, 1),
			ErrorRatePct: utils.Round(svc.ErrorRatePct(), 2),
		})
	}

	var deps []DependencyView
	if graph != nil {
		for _, e := range graph.Edges() {
			deps = append(deps, DependencyView{Source: e.To, Target: e.From})
		}
	}

	return SimulationState{
		RunID:      result.RunID,
		Scenario:   result.Scenario,
		Severity:   result.Severity,
		SystemMode: explain.SystemMode(result),
		Topology: TopologyView{
			Services:     services,
			Dependencies: deps,
		},
		Metrics:          result.Metrics,
		Summary:          metrics.SummarizeResult(result),
		PropagationPath:  explain.PropagationPath(result),
		Timeline:         result.Timeline,
		GuaranteeApplied: result.GuaranteeApplied,
		CreatedAt:        result.CreatedAt,
	}
}
