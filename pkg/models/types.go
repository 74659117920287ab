package models

import "time"

// HealthStatus is the health tier of a simulated service
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// ServiceName identifies one of the simulated services
type ServiceName string

const (
	APIGateway         ServiceName = "api_gateway"
	OrdersService      ServiceName = "orders_service"
	Database           ServiceName = "database"
	ExternalDependency ServiceName = "external_dependency"
)

// ServiceNames lists every simulated service in display order.
func ServiceNames() []ServiceName {
	return []ServiceName{APIGateway, OrdersService, Database, ExternalDependency}
}

// DisplayName returns the human-readable service name.
func (n ServiceName) DisplayName() string {
	switch n {
	case APIGateway:
		return "API Gateway"
	case OrdersService:
		return "Orders Service"
	case Database:
		return "Database"
	case ExternalDependency:
		return "External Dependency"
	default:
		return string(n)
	}
}

// Valid reports whether n is one of the four simulated services.
func (n ServiceName) Valid() bool {
	switch n {
	case APIGateway, OrdersService, Database, ExternalDependency:
		return true
	}
	return false
}

// SeriesName identifies a global time series
type SeriesName string

const (
	SeriesLatencyMs     SeriesName = "latency_ms"
	SeriesErrorRatePct  SeriesName = "error_rate_pct"
	SeriesRequestVolume SeriesName = "request_volume"
	SeriesQueueDepth    SeriesName = "queue_depth"
)

// SeriesNames lists every global series in display order.
func SeriesNames() []SeriesName {
	return []SeriesName{SeriesLatencyMs, SeriesErrorRatePct, SeriesRequestVolume, SeriesQueueDepth}
}

// Integral reports whether samples of the series are whole numbers.
func (s SeriesName) Integral() bool {
	return s == SeriesRequestVolume || s == SeriesQueueDepth
}

// Valid reports whether s is one of the four global series.
func (s SeriesName) Valid() bool {
	switch s {
	case SeriesLatencyMs, SeriesErrorRatePct, SeriesRequestVolume, SeriesQueueDepth:
		return true
	}
	return false
}

// SeriesLength is the number of samples in every global series.
const SeriesLength = 30

// ServiceState is the current telemetry and health tier of one service.
// ErrorRate is a fraction in [0, 1]; percent only appears at the API boundary.
type ServiceState struct {
	Name      ServiceName  `json:"name"`
	LatencyMs float64      `json:"latency_ms"`
	ErrorRate float64      `json:"error_rate"`
	Status    HealthStatus `json:"status"`
}

// ErrorRatePct returns the error rate in percent.
func (s *ServiceState) ErrorRatePct() float64 {
	return s.ErrorRate * 100
}

// MetricPoint is a single sample of a time series
type MetricPoint struct {
	Time  int     `json:"time"`
	Value float64 `json:"value"`
}

// Phase is the pipeline state of a simulation run
type Phase string

const (
	PhaseBaseline        Phase = "baseline"
	PhaseScenarioApplied Phase = "scenario_applied"
	PhasePropagated      Phase = "propagated"
	PhaseFinalized       Phase = "finalized"
)

// Stage names a recorded step of the pipeline
type Stage string

const (
	StageBaseline        Stage = "baseline"
	StageScenarioApplied Stage = "scenario_applied"
	StageHealthPass1     Stage = "health_pass_1"
	StagePropagated      Stage = "propagated"
	StageClamped         Stage = "clamped"
	StageHealthPass2     Stage = "health_pass_2"
	StageFinalized       Stage = "finalized"
)

// StageSnapshot is a copy of every service taken after a pipeline stage.
type StageSnapshot struct {
	Stage    Stage                        `json:"stage"`
	Services map[ServiceName]ServiceState `json:"services"`
}

// PropagationHop records one downstream adjustment made during propagation.
type PropagationHop struct {
	From            ServiceName  `json:"from"`
	To              ServiceName  `json:"to"`
	UpstreamStatus  HealthStatus `json:"upstream_status"`
	LatencyFactor   float64      `json:"latency_factor"`
	ErrorRateFactor float64      `json:"error_rate_factor"`
}

// SimulationResult owns every service state and series of a single run.
type SimulationResult struct {
	RunID            string                        `json:"run_id"`
	Scenario         string                        `json:"scenario,omitempty"`
	Severity         string                        `json:"severity,omitempty"`
	Phase            Phase                         `json:"phase"`
	Services         map[ServiceName]*ServiceState `json:"services"`
	Metrics          map[SeriesName][]MetricPoint  `json:"metrics"`
	Propagation      []PropagationHop              `json:"propagation,omitempty"`
	Timeline         []StageSnapshot               `json:"timeline,omitempty"`
	GuaranteeApplied bool                          `json:"guarantee_applied"`
	CreatedAt        time.Time                     `json:"created_at"`
}

// NewSimulationResult creates an empty result with allocated maps.
func NewSimulationResult(runID string) *SimulationResult {
	return &SimulationResult{
		RunID:     runID,
		Phase:     PhaseBaseline,
		Services:  make(map[ServiceName]*ServiceState, 4),
		Metrics:   make(map[SeriesName][]MetricPoint, 4),
		CreatedAt: time.Now().UTC(),
	}
}

// Service returns the state of the named service, or nil.
func (r *SimulationResult) Service(name ServiceName) *ServiceState {
	if r == nil || r.Services == nil {
		return nil
	}
	return r.Services[name]
}

// Series returns the samples of the named series.
func (r *SimulationResult) Series(name SeriesName) []MetricPoint {
	if r == nil || r.Metrics == nil {
		return nil
	}
	return r.Metrics[name]
}

// SeriesValues returns the sample values of the named series in time order.
func (r *SimulationResult) SeriesValues(name SeriesName) []float64 {
	points := r.Series(name)
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}

// Snapshot copies every service state into a new map.
func (r *SimulationResult) Snapshot() map[ServiceName]ServiceState {
	out := make(map[ServiceName]ServiceState, len(r.Services))
	for name, svc := range r.Services {
		if svc != nil {
			out[name] = *svc
		}
	}
	return out
}

// Record appends a snapshot of the current service states to the timeline.
func (r *SimulationResult) Record(stage Stage) {
	r.Timeline = append(r.Timeline, StageSnapshot{Stage: stage, Services: r.Snapshot()})
}

// StageState returns the recorded state of a service after the given stage.
func (r *SimulationResult) StageState(stage Stage, name ServiceName) (ServiceState, bool) {
	for _, snap := range r.Timeline {
		if snap.Stage != stage {
			continue
		}
		svc, ok := snap.Services[name]
		return svc, ok
	}
	return ServiceState{}, false
}

// Statuses returns the status of every present service in display order.
func (r *SimulationResult) Statuses() []HealthStatus {
	out := make([]HealthStatus, 0, len(r.Services))
	for _, name := range ServiceNames() {
		if svc := r.Service(name); svc != nil {
			out = append(out, svc.Status)
		}
	}
	return out
}

// Aggregation represents aggregated statistics over one series
type Aggregation struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	First float64 `json:"first"`
	Last  float64 `json:"last"`
}
