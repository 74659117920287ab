package propagation

import (
	"log/slog"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/logger"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

// Engine applies the one-hop cascade over a Graph.
type Engine struct {
	graph  *Graph
	logger *slog.Logger
}

// NewEngine creates an engine over g. A nil graph uses DefaultGraph.
func NewEngine(g *Graph) *Engine {
	if g == nil {
		g = DefaultGraph()
	}
	return &Engine{graph: g, logger: logger.Default}
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Graph returns the engine's dependency graph.
func (e *Engine) Graph() *Graph {
	return e.graph
}

// Propagate runs the cascade exactly once and returns the hops that fired.
//
// Upstream tiers are captured before any edge is applied, so a downstream
// service adjusted by one edge does not change what it passes on to the
// next. Status fields are not touched.
func (e *Engine) Propagate(result *models.SimulationResult) []models.PropagationHop {
	upstream := make(map[models.ServiceName]models.HealthStatus, len(result.Services))
	for name, svc := range result.Services {
		if svc != nil {
			upstream[name] = svc.Status
		}
	}

	var hops []models.PropagationHop
	for _, edge := range e.graph.edges {
		status, ok := upstream[edge.From]
		if !ok {
			continue
		}
		f, fires := edge.Factors[status]
		if !fires {
			continue
		}
		target := result.Service(edge.To)
		if target == nil {
			continue
		}

		target.LatencyMs = utils.NonNegative(target.LatencyMs * f.Latency)
		target.ErrorRate = utils.NonNegative(target.ErrorRate * f.ErrorRate)

		hop := models.PropagationHop{
			From:            edge.From,
			To:              edge.To,
			UpstreamStatus:  status,
			LatencyFactor:   f.Latency,
			ErrorRateFactor: f.ErrorRate,
		}
		hops = append(hops, hop)
		e.logger.Debug("propagated degradation",
			"run_id", result.RunID,
			"from", edge.From,
			"to", edge.To,
			"upstream_status", status,
			"latency_ms", target.LatencyMs,
			"error_rate", target.ErrorRate,
		)
	}

	result.Propagation = append(result.Propagation, hops...)
	return hops
}
