package telemetry

import "github.com/GoSim-25-26J-441/system-autopsy/pkg/models"

// Baseline describes normal operation as base ± variance.
type Baseline struct {
	Base     float64
	Variance float64
}

// ServiceBaseline holds the normal-operation profile of one service.
// ErrorRate values are fractions.
type ServiceBaseline struct {
	Latency   Baseline
	ErrorRate Baseline
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int
	Max int
}

// ServiceBaselines are the per-service profiles used for every run.
var ServiceBaselines = map[models.ServiceName]ServiceBaseline{
	models.APIGateway:         {Latency: Baseline{80, 20}, ErrorRate: Baseline{0.002, 0.001}},
	models.OrdersService:      {Latency: Baseline{120, 30}, ErrorRate: Baseline{0.005, 0.002}},
	models.Database:           {Latency: Baseline{100, 25}, ErrorRate: Baseline{0.003, 0.001}},
	models.ExternalDependency: {Latency: Baseline{150, 40}, ErrorRate: Baseline{0.007, 0.003}},
}

// Global series profiles. error_rate_pct is a display series in percent.
var (
	LatencySeries      = Baseline{Base: 120, Variance: 30}
	ErrorRatePctSeries = Baseline{Base: 0.5, Variance: 0.2}
	RequestVolumeRange = IntRange{Min: 300, Max: 600}
	QueueDepthRange    = IntRange{Min: 5, Max: 40}
)
