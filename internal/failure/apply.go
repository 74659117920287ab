package failure

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

// Application describes what a scenario did to a result.
type Application struct {
	Scenario    ScenarioID
	Severity    Severity
	Target      models.ServiceName
	Multipliers map[models.SeriesName]float64
}

// Apply draws a severity and applies the scenario's direct effect.
func (c *Catalog) Apply(result *models.SimulationResult, id ScenarioID, rng *utils.RandSource) (Application, error) {
	if _, err := c.Get(id); err != nil {
		return Application{}, err
	}
	return c.ApplySeverity(result, id, DrawSeverity(rng), rng)
}

// ApplySeverity applies the scenario's direct effect at a fixed severity.
//
// The target's latency and error rate are overwritten with draws from the
// tier's ranges, and each named series is scaled by one multiplier. Status
// is left stale; re-evaluation and propagation belong to the caller.
func (c *Catalog) ApplySeverity(result *models.SimulationResult, id ScenarioID, sev Severity, rng *utils.RandSource) (Application, error) {
	sc, err := c.Get(id)
	if err != nil {
		return Application{}, err
	}
	effect, ok := sc.Severities[sev]
	if !ok {
		return Application{}, fmt.Errorf("%w: %q", ErrUnknownSeverity, sev)
	}
	target := result.Service(sc.Target)
	if target == nil {
		return Application{}, fmt.Errorf("scenario %s: target %s missing from result", id, sc.Target)
	}

	target.LatencyMs = rng.UniformFloat64(effect.LatencyMs.Min, effect.LatencyMs.Max)
	target.ErrorRate = rng.UniformFloat64(effect.ErrorRate.Min, effect.ErrorRate.Max)

	app := Application{
		Scenario:    id,
		Severity:    sev,
		Target:      sc.Target,
		Multipliers: make(map[models.SeriesName]float64, len(sc.Series)),
	}
	for _, scale := range sc.Series {
		m := rng.UniformFloat64(scale.Multiplier.Min, scale.Multiplier.Max)
		scaleSeries(result.Metrics[scale.Name], m, scale.Name.Integral())
		app.Multipliers[scale.Name] = m
	}
	return app, nil
}

func scaleSeries(points []models.MetricPoint, m float64, integral bool) {
	for i := range points {
		v := utils.NonNegative(points[i].Value * m)
		if integral {
			v = math.Trunc(v)
		}
		points[i].Value = v
	}
}
