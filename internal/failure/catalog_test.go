package failure

import (
	"errors"
	"strings"
	"testing"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	want := []ScenarioID{DatabaseLatencySpike, ExternalDependencyDegradation, RetryAmplification}
	got := c.List()
	if len(got) != len(want) {
		t.Fatalf("expected %d scenarios, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scenario %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	targets := map[ScenarioID]models.ServiceName{
		DatabaseLatencySpike:          models.Database,
		ExternalDependencyDegradation: models.ExternalDependency,
		RetryAmplification:            models.OrdersService,
	}
	for id, target := range targets {
		sc, err := c.Get(id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if sc.Target != target {
			t.Errorf("%s: expected target %s, got %s", id, target, sc.Target)
		}
		if sc.Title == "" {
			t.Errorf("%s: missing title", id)
		}
	}

	db, _ := c.Get(DatabaseLatencySpike)
	critical := db.Severities[SeverityCritical]
	if critical.LatencyMs.Min != 1300 || critical.LatencyMs.Max != 1800 {
		t.Errorf("unexpected critical latency range: %+v", critical.LatencyMs)
	}
	if critical.ErrorRate.Min != 0.07 || critical.ErrorRate.Max != 0.10 {
		t.Errorf("unexpected critical error range: %+v", critical.ErrorRate)
	}
}

func TestListReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	ids := c.List()
	ids[0] = "mutated"
	if c.List()[0] != DatabaseLatencySpike {
		t.Error("List must not expose internal order slice")
	}
}

func TestParseScenarioID(t *testing.T) {
	tests := []struct {
		raw     string
		want    ScenarioID
		wantErr bool
	}{
		{"database_latency_spike", DatabaseLatencySpike, false},
		{"  retry_amplification ", RetryAmplification, false},
		{"external_dependency_degradation", ExternalDependencyDegradation, false},
		{"Database Latency Spike", "", true},
		{"DATABASE_LATENCY_SPIKE", "", true},
		{"", "", true},
		{"cpu_exhaustion", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseScenarioID(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownScenario) {
					t.Fatalf("expected ErrUnknownScenario, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	if s, err := ParseSeverity("Critical"); err != nil || s != SeverityCritical {
		t.Errorf("ParseSeverity(Critical) = %s, %v", s, err)
	}
	if _, err := ParseSeverity("catastrophic"); !errors.Is(err, ErrUnknownSeverity) {
		t.Errorf("expected ErrUnknownSeverity, got %v", err)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := DefaultCatalog().Lookup("disk_full")
	if !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
	if !strings.Contains(err.Error(), "disk_full") {
		t.Errorf("expected error to name the id, got %q", err.Error())
	}
}

func TestDrawSeverityWeights(t *testing.T) {
	rng := utils.NewRandSource(11)
	counts := map[Severity]int{}
	const trials = 20000
	for i := 0; i < trials; i++ {
		counts[DrawSeverity(rng)]++
	}

	expected := map[Severity]float64{SeverityMinor: 0.5, SeverityMajor: 0.35, SeverityCritical: 0.15}
	for sev, p := range expected {
		got := float64(counts[sev]) / trials
		if got < p-0.02 || got > p+0.02 {
			t.Errorf("severity %s drawn with proportion %f, expected about %f", sev, got, p)
		}
	}
}

func TestParseCatalogValidation(t *testing.T) {
	valid := `
scenarios:
  - id: retry_amplification
    title: Retry Amplification
    target: orders_service
    severities:
      minor: {latency_ms: {min: 300, max: 450}, error_rate: {min: 0.02, max: 0.04}}
      major: {latency_ms: {min: 500, max: 800}, error_rate: {min: 0.04, max: 0.07}}
      critical: {latency_ms: {min: 900, max: 1300}, error_rate: {min: 0.08, max: 0.12}}
    series:
      - {name: request_volume, multiplier: {min: 1.4, max: 1.8}}
`
	if _, err := ParseCatalog([]byte(valid)); err != nil {
		t.Fatalf("expected valid catalog, got %v", err)
	}

	tests := []struct {
		name    string
		replace [2]string
		errPart string
	}{
		{"Unknown id", [2]string{"id: retry_amplification", "id: packet_loss"}, "unknown scenario"},
		{"Unknown target", [2]string{"target: orders_service", "target: cache"}, "unknown target"},
		{"Missing tier", [2]string{"      critical: {latency_ms: {min: 900, max: 1300}, error_rate: {min: 0.08, max: 0.12}}\n", ""}, "missing critical"},
		{"Inverted range", [2]string{"{min: 300, max: 450}", "{min: 450, max: 300}"}, "greater than max"},
		{"Error rate above one", [2]string{"{min: 0.08, max: 0.12}", "{min: 0.08, max: 1.5}"}, "error_rate"},
		{"Unknown series", [2]string{"name: request_volume", "name: cpu_util"}, "unknown series"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(valid, tt.replace[0], tt.replace[1], 1)
			_, err := ParseCatalog([]byte(doc))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}

	if _, err := ParseCatalog([]byte("scenarios: []")); err == nil {
		t.Error("expected error for empty catalog")
	}
	if _, err := ParseCatalog([]byte("scenarios: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
