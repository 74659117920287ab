package telemetry

import (
	"log/slog"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/health"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/logger"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

// Generator produces baseline telemetry for the simulated services.
type Generator struct {
	rng    *utils.RandSource
	logger *slog.Logger
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng *utils.RandSource) *Generator {
	if rng == nil {
		rng = utils.NewRandSource(0)
	}
	return &Generator{rng: rng, logger: logger.Default}
}

// SetLogger sets the generator's logger
func (g *Generator) SetLogger(l *slog.Logger) {
	g.logger = l
}

// Sample draws from Uniform(base-variance, base+variance), clamped to >= 0.
func (g *Generator) Sample(b Baseline) float64 {
	return utils.NonNegative(g.rng.UniformFloat64(b.Base-b.Variance, b.Base+b.Variance))
}

// GenerateService draws latency and error rate for one service and
// evaluates its initial status.
func (g *Generator) GenerateService(name models.ServiceName) *models.ServiceState {
	profile := ServiceBaselines[name]
	svc := &models.ServiceState{
		Name:      name,
		LatencyMs: g.Sample(profile.Latency),
		ErrorRate: g.Sample(profile.ErrorRate),
	}
	health.EvaluateState(svc)
	return svc
}

// GenerateServices draws a fresh state for each of the four services.
func (g *Generator) GenerateServices() map[models.ServiceName]*models.ServiceState {
	services := make(map[models.ServiceName]*models.ServiceState, 4)
	for _, name := range models.ServiceNames() {
		services[name] = g.GenerateService(name)
	}
	return services
}

// GenerateSeries produces the four global series of SeriesLength samples.
func (g *Generator) GenerateSeries() map[models.SeriesName][]models.MetricPoint {
	series := make(map[models.SeriesName][]models.MetricPoint, 4)
	series[models.SeriesLatencyMs] = g.floatSeries(LatencySeries)
	series[models.SeriesErrorRatePct] = g.floatSeries(ErrorRatePctSeries)
	series[models.SeriesRequestVolume] = g.intSeries(RequestVolumeRange)
	series[models.SeriesQueueDepth] = g.intSeries(QueueDepthRange)
	return series
}

// Generate returns a fresh baseline result.
func (g *Generator) Generate(runID string) *models.SimulationResult {
	result := models.NewSimulationResult(runID)
	result.Services = g.GenerateServices()
	result.Metrics = g.GenerateSeries()
	g.logger.Debug("baseline telemetry generated", "run_id", runID)
	return result
}

func (g *Generator) floatSeries(b Baseline) []models.MetricPoint {
	points := make([]models.MetricPoint, models.SeriesLength)
	for i := range points {
		points[i] = models.MetricPoint{Time: i, Value: g.Sample(b)}
	}
	return points
}

func (g *Generator) intSeries(r IntRange) []models.MetricPoint {
	points := make([]models.MetricPoint, models.SeriesLength)
	for i := range points {
		v := g.rng.IntRange(r.Min, r.Max)
		if v < 0 {
			v = 0
		}
		points[i] = models.MetricPoint{Time: i, Value: float64(v)}
	}
	return points
}
