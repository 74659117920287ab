package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/failure"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/health"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/propagation"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/telemetry"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/logger"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

const (
	// ErrorRateCap is the global ceiling applied to every error rate after propagation.
	ErrorRateCap = 0.15

	// Floors forced onto orders_service when a scenario run would otherwise
	// finish with every service healthy.
	VisibilityLatencyFloorMs = 600.0
	VisibilityErrorRateFloor = 0.04
)

// ErrSeverityWithoutScenario is returned when a severity is forced on a baseline run.
var ErrSeverityWithoutScenario = errors.New("severity requires a scenario")

// Request selects what a run simulates. An empty Scenario is a baseline run;
// an empty Severity draws one from the tier weights.
type Request struct {
	Scenario string `json:"scenario,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// Orchestrator sequences generation, scenario application, health
// evaluation, propagation and clamping into a finalized result.
type Orchestrator struct {
	catalog   *failure.Catalog
	generator *telemetry.Generator
	engine    *propagation.Engine
	rng       *utils.RandSource
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCatalog replaces the built-in scenario catalog.
func WithCatalog(c *failure.Catalog) Option {
	return func(o *Orchestrator) { o.catalog = c }
}

// WithEngine replaces the default propagation engine.
func WithEngine(e *propagation.Engine) Option {
	return func(o *Orchestrator) { o.engine = e }
}

// WithLogger sets the orchestrator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an orchestrator drawing every random value from rng.
// A nil rng is seeded from the wall clock.
func New(rng *utils.RandSource, opts ...Option) *Orchestrator {
	if rng == nil {
		rng = utils.NewRandSource(0)
	}
	o := &Orchestrator{
		catalog: failure.DefaultCatalog(),
		engine:  propagation.NewEngine(nil),
		rng:     rng,
		logger:  logger.Default,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.generator = telemetry.NewGenerator(rng)
	o.generator.SetLogger(o.logger)
	o.engine.SetLogger(o.logger)
	return o
}

// Catalog returns the scenario catalog the orchestrator runs against.
func (o *Orchestrator) Catalog() *failure.Catalog {
	return o.catalog
}

// Graph returns the dependency graph used for propagation.
func (o *Orchestrator) Graph() *propagation.Graph {
	return o.engine.Graph()
}

// ListScenarios returns the registered scenario ids in catalog order.
func (o *Orchestrator) ListScenarios() []failure.ScenarioID {
	return o.catalog.List()
}

// RunBaseline runs the pipeline without a scenario.
func (o *Orchestrator) RunBaseline(ctx context.Context) (*models.SimulationResult, error) {
	return o.Run(ctx, Request{})
}

// RunScenario runs the pipeline with the given scenario and a drawn severity.
func (o *Orchestrator) RunScenario(ctx context.Context, id string) (*models.SimulationResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: %q", failure.ErrUnknownScenario, id)
	}
	return o.Run(ctx, Request{Scenario: id})
}

// Run executes one simulation.
//
// Scenario runs go through every stage: apply, health pass 1, a single
// propagation pass reading pass-1 tiers, error-rate clamping, health pass 2,
// then enforceScenarioVisibility. Baseline runs skip straight from
// generation to health pass 2.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*models.SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		scenario *failure.Scenario
		severity failure.Severity
		err      error
	)
	if req.Scenario != "" {
		scenario, err = o.catalog.Lookup(req.Scenario)
		if err != nil {
			return nil, err
		}
	}
	if req.Severity != "" {
		if scenario == nil {
			return nil, ErrSeverityWithoutScenario
		}
		severity, err = failure.ParseSeverity(req.Severity)
		if err != nil {
			return nil, err
		}
	}

	log := o.logger
	if l := logger.FromContext(ctx); l != logger.Default {
		log = l
	}

	runID := utils.GenerateRunID()
	log = log.With("run_id", runID)

	result := o.generator.Generate(runID)
	result.Phase = models.PhaseBaseline
	result.Record(models.StageBaseline)

	if scenario != nil {
		var app failure.Application
		if severity == "" {
			app, err = o.catalog.Apply(result, scenario.ID, o.rng)
		} else {
			app, err = o.catalog.ApplySeverity(result, scenario.ID, severity, o.rng)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to apply scenario %s: %w", scenario.ID, err)
		}
		result.Scenario = string(app.Scenario)
		result.Severity = string(app.Severity)
		result.Phase = models.PhaseScenarioApplied
		result.Record(models.StageScenarioApplied)
		log.Debug("scenario applied",
			"scenario", app.Scenario,
			"severity", app.Severity,
			"target", app.Target)

		health.EvaluateAll(result.Services)
		result.Record(models.StageHealthPass1)

		hops := o.engine.Propagate(result)
		result.Phase = models.PhasePropagated
		result.Record(models.StagePropagated)
		log.Debug("propagation complete", "hops", len(hops))

		clampErrorRates(result)
		result.Record(models.StageClamped)
	}

	health.EvaluateAll(result.Services)
	result.Record(models.StageHealthPass2)

	if scenario != nil {
		o.enforceScenarioVisibility(result, log)
	}
	result.Phase = models.PhaseFinalized
	result.Record(models.StageFinalized)

	log.Info("simulation finalized",
		"scenario", result.Scenario,
		"severity", result.Severity,
		"system_mode", health.Worst(result.Statuses()...),
		"guarantee_applied", result.GuaranteeApplied)
	return result, nil
}

func clampErrorRates(result *models.SimulationResult) {
	for _, svc := range result.Services {
		svc.LatencyMs = utils.NonNegative(svc.LatencyMs)
		svc.ErrorRate = utils.ClampFloat64(utils.NonNegative(svc.ErrorRate), 0, ErrorRateCap)
	}
}

// enforceScenarioVisibility keeps a scenario run from ending fully healthy.
// It runs after health pass 2 and only ever raises orders_service, so it
// cannot hide what propagation produced.
func (o *Orchestrator) enforceScenarioVisibility(result *models.SimulationResult, log *slog.Logger) {
	if !health.AllHealthy(result.Services) {
		return
	}
	orders := result.Service(models.OrdersService)
	if orders == nil {
		return
	}
	orders.LatencyMs = max(orders.LatencyMs, VisibilityLatencyFloorMs)
	orders.ErrorRate = max(orders.ErrorRate, VisibilityErrorRateFloor)
	health.EvaluateState(orders)
	result.GuaranteeApplied = true
	log.Debug("scenario visibility floor applied",
		"service", orders.Name,
		"latency_ms", orders.LatencyMs,
		"error_rate", orders.ErrorRate,
		"status", orders.Status)
}
