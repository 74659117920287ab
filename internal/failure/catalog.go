package failure

import (
	_ "embed"
	"fmt"
	"math"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

//go:embed scenarios.yaml
var builtinScenarios []byte

// Catalog holds the registered scenarios in a fixed order.
type Catalog struct {
	order     []ScenarioID
	scenarios map[ScenarioID]*Scenario
}

type catalogFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the built-in catalog. It panics if the embedded
// definition is invalid, which the package tests rule out.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(builtinScenarios)
		if err != nil {
			panic(fmt.Sprintf("failure: invalid built-in catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// ParseCatalog parses and validates a YAML catalog definition.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario catalog: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario catalog is empty")
	}

	c := &Catalog{scenarios: make(map[ScenarioID]*Scenario, len(file.Scenarios))}
	for i := range file.Scenarios {
		sc := file.Scenarios[i]
		if err := validateScenario(&sc); err != nil {
			return nil, fmt.Errorf("scenario %d (%s): %w", i, sc.ID, err)
		}
		if _, exists := c.scenarios[sc.ID]; exists {
			return nil, fmt.Errorf("duplicate scenario id: %s", sc.ID)
		}
		c.order = append(c.order, sc.ID)
		c.scenarios[sc.ID] = &sc
	}
	return c, nil
}

func validateScenario(sc *Scenario) error {
	if _, err := ParseScenarioID(string(sc.ID)); err != nil {
		return err
	}
	if !sc.Target.Valid() {
		return fmt.Errorf("unknown target service: %s", sc.Target)
	}
	for _, sev := range Severities() {
		effect, ok := sc.Severities[sev]
		if !ok {
			return fmt.Errorf("missing %s severity", sev)
		}
		if err := validateRange(effect.LatencyMs, 0, math.Inf(1)); err != nil {
			return fmt.Errorf("%s latency_ms: %w", sev, err)
		}
		if err := validateRange(effect.ErrorRate, 0, 1); err != nil {
			return fmt.Errorf("%s error_rate: %w", sev, err)
		}
	}
	if len(sc.Severities) != len(Severities()) {
		return fmt.Errorf("unexpected severity tiers: %d defined", len(sc.Severities))
	}
	if len(sc.Series) < 1 || len(sc.Series) > 3 {
		return fmt.Errorf("scenario must scale 1 to 3 series, got %d", len(sc.Series))
	}
	seen := make(map[models.SeriesName]bool)
	for _, s := range sc.Series {
		if !s.Name.Valid() {
			return fmt.Errorf("unknown series: %s", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("series %s scaled twice", s.Name)
		}
		seen[s.Name] = true
		if err := validateRange(s.Multiplier, 0, math.Inf(1)); err != nil {
			return fmt.Errorf("series %s multiplier: %w", s.Name, err)
		}
	}
	return nil
}

func validateRange(r Range, lo, hi float64) error {
	if r.Min < lo || r.Max > hi {
		return fmt.Errorf("range [%g, %g] outside [%g, %g]", r.Min, r.Max, lo, hi)
	}
	if r.Min > r.Max {
		return fmt.Errorf("min %g greater than max %g", r.Min, r.Max)
	}
	return nil
}

// List returns the registered scenario ids in catalog order.
func (c *Catalog) List() []ScenarioID {
	out := make([]ScenarioID, len(c.order))
	copy(out, c.order)
	return out
}

// Scenarios returns the registered scenarios in catalog order.
func (c *Catalog) Scenarios() []Scenario {
	out := make([]Scenario, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.scenarios[id])
	}
	return out
}

// Get returns the scenario registered under id.
func (c *Catalog) Get(id ScenarioID) (*Scenario, error) {
	sc, ok := c.scenarios[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}
	return sc, nil
}

// Lookup validates a raw identifier and returns its scenario.
func (c *Catalog) Lookup(raw string) (*Scenario, error) {
	id, err := ParseScenarioID(raw)
	if err != nil {
		return nil, err
	}
	return c.Get(id)
}

// DrawSeverity picks a tier using the minor/major/critical weights.
func DrawSeverity(rng *utils.RandSource) Severity {
	return Severities()[rng.WeightedIndex(severityWeights)]
}
