package autopsyd

import (
	"context"
	"errors"
	"strings"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/explain"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/failure"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/simulation"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
)

// ErrScenarioRequired is returned when an endpoint that injects a failure
// gets no scenario id.
var ErrScenarioRequired = errors.New("scenario is required")

// Service is the transport-independent API of the daemon.
type Service struct {
	orch      *simulation.Orchestrator
	explainer *explain.Explainer
	health    *HealthPublisher
}

// NewService creates a service. A nil explainer always falls back.
func NewService(orch *simulation.Orchestrator, explainer *explain.Explainer) *Service {
	if explainer == nil {
		explainer = explain.NewExplainer(nil)
	}
	return &Service{orch: orch, explainer: explainer}
}

// SetHealthPublisher makes every finished run update h.
func (s *Service) SetHealthPublisher(h *HealthPublisher) {
	s.health = h
}

// Scenarios returns the catalog in order.
func (s *Service) Scenarios() []failure.Scenario {
	return s.orch.Catalog().Scenarios()
}

// ScenarioIDs returns the registered scenario ids in order.
func (s *Service) ScenarioIDs() []failure.ScenarioID {
	return s.orch.ListScenarios()
}

// Simulate runs one simulation and returns its state view.
func (s *Service) Simulate(ctx context.Context, req simulation.Request) (SimulationState, error) {
	result, err := s.run(ctx, req)
	if err != nil {
		return SimulationState{}, err
	}
	return NewSimulationState(result, s.orch.Graph()), nil
}

// InjectFailure runs a scenario simulation. The scenario is mandatory.
func (s *Service) InjectFailure(ctx context.Context, req simulation.Request) (SimulationState, error) {
	if strings.TrimSpace(req.Scenario) == "" {
		return SimulationState{}, ErrScenarioRequired
	}
	return s.Simulate(ctx, req)
}

// ExplainResponse is an explanation together with the payload it was built from.
type ExplainResponse struct {
	explain.Explanation
	RunID   string          `json:"run_id"`
	Payload explain.Payload `json:"payload"`
}

// Explain runs a scenario and explains the finalized result. Model failures
// never surface here; only an invalid scenario does.
func (s *Service) Explain(ctx context.Context, scenario string) (ExplainResponse, error) {
	if strings.TrimSpace(scenario) == "" {
		return ExplainResponse{}, ErrScenarioRequired
	}
	result, err := s.run(ctx, simulation.Request{Scenario: scenario})
	if err != nil {
		return ExplainResponse{}, err
	}

	payload := explain.BuildPayload(result, result.Scenario)
	return ExplainResponse{
		Explanation: s.explainer.Explain(ctx, payload),
		RunID:       result.RunID,
		Payload:     payload,
	}, nil
}

func (s *Service) run(ctx context.Context, req simulation.Request) (*models.SimulationResult, error) {
	result, err := s.orch.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.health != nil {
		s.health.Publish(result)
	}
	return result, nil
}

// isClientError reports whether err was caused by the caller's input.
func isClientError(err error) bool {
	return errors.Is(err, failure.ErrUnknownScenario) ||
		errors.Is(err, failure.ErrUnknownSeverity) ||
		errors.Is(err, simulation.ErrSeverityWithoutScenario) ||
		errors.Is(err, ErrScenarioRequired)
}
