package failure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
)

var (
	// ErrUnknownScenario is returned for a scenario id that is not registered.
	ErrUnknownScenario = errors.New("unknown scenario")
	// ErrUnknownSeverity is returned for a severity name outside minor/major/critical.
	ErrUnknownSeverity = errors.New("unknown severity")
)

// ScenarioID is a validated scenario identifier
type ScenarioID string

const (
	DatabaseLatencySpike          ScenarioID = "database_latency_spike"
	ExternalDependencyDegradation ScenarioID = "external_dependency_degradation"
	RetryAmplification            ScenarioID = "retry_amplification"
)

// ParseScenarioID validates a raw identifier. Only canonical ids are accepted;
// surrounding whitespace is ignored but no other normalisation happens.
func ParseScenarioID(raw string) (ScenarioID, error) {
	id := ScenarioID(strings.TrimSpace(raw))
	switch id {
	case DatabaseLatencySpike, ExternalDependencyDegradation, RetryAmplification:
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScenario, raw)
}

// Severity is the intensity tier of an applied scenario
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// Severities lists the tiers in ascending order.
func Severities() []Severity {
	return []Severity{SeverityMinor, SeverityMajor, SeverityCritical}
}

// severityWeights are the draw probabilities, aligned with Severities().
var severityWeights = []float64{0.5, 0.35, 0.15}

// ParseSeverity validates a raw severity name.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, raw)
}

// Range is an inclusive-exclusive float range [Min, Max).
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Effect is the direct effect of a scenario on its target at one severity.
type Effect struct {
	LatencyMs Range `yaml:"latency_ms" json:"latency_ms"`
	ErrorRate Range `yaml:"error_rate" json:"error_rate"`
}

// SeriesScale multiplies every sample of a global series.
type SeriesScale struct {
	Name       models.SeriesName `yaml:"name" json:"name"`
	Multiplier Range             `yaml:"multiplier" json:"multiplier"`
}

// Scenario is a registered perturbation with a single target service.
type Scenario struct {
	ID          ScenarioID          `yaml:"id" json:"id"`
	Title       string              `yaml:"title" json:"title"`
	Description string              `yaml:"description" json:"description"`
	Target      models.ServiceName  `yaml:"target" json:"target"`
	Severities  map[Severity]Effect `yaml:"severities" json:"severities"`
	Series      []SeriesScale       `yaml:"series" json:"series"`
}
