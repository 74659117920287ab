package explain

import (
	"fmt"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/health"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/propagation"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

// Trend is the direction of a series between its first and last sample.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
	TrendUnknown    Trend = "unknown"
)

// ComputeTrend compares the last sample to the first: more than 20% higher
// is increasing, more than 20% lower is decreasing.
func ComputeTrend(values []float64) Trend {
	if len(values) == 0 {
		return TrendUnknown
	}
	first, last := values[0], values[len(values)-1]
	switch {
	case last > first*1.2:
		return TrendIncreasing
	case last < first*0.8:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// ServiceSummary is one service as shown to the model.
type ServiceSummary struct {
	Name         models.ServiceName  `json:"name"`
	Status       models.HealthStatus `json:"status"`
	LatencyMs    float64             `json:"latency_ms"`
	ErrorRatePct float64             `json:"error_rate_pct"`
}

// MetricTrends holds the trend of each global series.
type MetricTrends struct {
	P95Latency    Trend `json:"p95_latency"`
	ErrorRate     Trend `json:"error_rate"`
	RequestVolume Trend `json:"request_volume"`
	QueueDepth    Trend `json:"queue_depth"`
}

// Payload is the only input the language model ever sees.
type Payload struct {
	Scenario        string              `json:"scenario"`
	SystemMode      models.HealthStatus `json:"system_mode"`
	Services        []ServiceSummary    `json:"services"`
	MetricTrends    MetricTrends        `json:"metric_trends"`
	PropagationPath []string            `json:"propagation_path"`
}

// SystemMode returns the worst status among the result's services.
func SystemMode(result *models.SimulationResult) models.HealthStatus {
	return health.Worst(result.Statuses()...)
}

// BuildPayload builds the explain payload for a finalized result.
// Services appear in display order; latency is rounded to 0.1 ms and the
// error rate is converted to percent with two decimals.
func BuildPayload(result *models.SimulationResult, scenario string) Payload {
	services := make([]ServiceSummary, 0, len(result.Services))
	for _, name := range models.ServiceNames() {
		svc := result.Service(name)
		if svc == nil {
			continue
		}
		services = append(services, ServiceSummary{
			Name:         name,
			Status:       svc.Status,
			LatencyMs:    utils.Round(svc.LatencyMs, 1),
			ErrorRatePct: utils.Round(svc.ErrorRatePct(), 2),
		})
	}

	return Payload{
		Scenario:   scenario,
		SystemMode: SystemMode(result),
		Services:   services,
		MetricTrends: MetricTrends{
			P95Latency:    ComputeTrend(result.SeriesValues(models.SeriesLatencyMs)),
			ErrorRate:     ComputeTrend(result.SeriesValues(models.SeriesErrorRatePct)),
			RequestVolume: ComputeTrend(result.SeriesValues(models.SeriesRequestVolume)),
			QueueDepth:    ComputeTrend(result.SeriesValues(models.SeriesQueueDepth)),
		},
		PropagationPath: PropagationPath(result),
	}
}

// PropagationPath describes the hops that fired, e.g.
// "Database → Orders Service (unhealthy)". When nothing propagated it falls
// back to the static dependency chain.
func PropagationPath(result *models.SimulationResult) []string {
	if len(result.Propagation) == 0 {
		return []string{propagation.DefaultGraph().PathString()}
	}
	path := make([]string, len(result.Propagation))
	for i, hop := range result.Propagation {
		path[i] = fmt.Sprintf("%s → %s (%s)", hop.From.DisplayName(), hop.To.DisplayName(), hop.UpstreamStatus)
	}
	return path
}
