package telemetry

import (
	"math"
	"testing"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/health"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

func TestGenerateServices(t *testing.T) {
	gen := NewGenerator(utils.NewRandSource(42))

	for run := 0; run < 200; run++ {
		services := gen.GenerateServices()
		if len(services) != 4 {
			t.Fatalf("expected 4 services, got %d", len(services))
		}
		for _, name := range models.ServiceNames() {
			svc, ok := services[name]
			if !ok {
				t.Fatalf("missing service %s", name)
			}
			profile := ServiceBaselines[name]
			if svc.LatencyMs < 0 || svc.ErrorRate < 0 {
				t.Fatalf("negative telemetry for %s: %+v", name, svc)
			}
			if svc.LatencyMs > profile.Latency.Base+profile.Latency.Variance {
				t.Errorf("%s latency %f above baseline range", name, svc.LatencyMs)
			}
			if svc.ErrorRate > profile.ErrorRate.Base+profile.ErrorRate.Variance {
				t.Errorf("%s error rate %f above baseline range", name, svc.ErrorRate)
			}
			if svc.Status != health.Evaluate(svc.LatencyMs, svc.ErrorRate) {
				t.Errorf("%s status %s does not match its values", name, svc.Status)
			}
		}
	}
}

func TestGenerateSeries(t *testing.T) {
	gen := NewGenerator(utils.NewRandSource(7))
	series := gen.GenerateSeries()

	if len(series) != 4 {
		t.Fatalf("expected 4 series, got %d", len(series))
	}
	for _, name := range models.SeriesNames() {
		points := series[name]
		if len(points) != models.SeriesLength {
			t.Fatalf("series %s: expected %d samples, got %d", name, models.SeriesLength, len(points))
		}
		for i, p := range points {
			if p.Time != i {
				t.Errorf("series %s: sample %d has time %d", name, i, p.Time)
			}
			if p.Value < 0 {
				t.Errorf("series %s: negative sample %f", name, p.Value)
			}
			if name.Integral() && p.Value != math.Trunc(p.Value) {
				t.Errorf("series %s: expected integer sample, got %f", name, p.Value)
			}
		}
	}

	for _, p := range series[models.SeriesRequestVolume] {
		if p.Value < 300 || p.Value > 600 {
			t.Errorf("request volume %f outside [300, 600]", p.Value)
		}
	}
	for _, p := range series[models.SeriesQueueDepth] {
		if p.Value < 5 || p.Value > 40 {
			t.Errorf("queue depth %f outside [5, 40]", p.Value)
		}
	}
}

func TestSampleClampsNegative(t *testing.T) {
	gen := NewGenerator(utils.NewRandSource(3))
	for i := 0; i < 500; i++ {
		if v := gen.Sample(Baseline{Base: 0.001, Variance: 0.5}); v < 0 {
			t.Fatalf("Sample returned negative value %f", v)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewGenerator(utils.NewRandSource(99)).Generate("run-a")
	b := NewGenerator(utils.NewRandSource(99)).Generate("run-b")

	for _, name := range models.ServiceNames() {
		if *a.Services[name] != *b.Services[name] {
			t.Errorf("same seed produced different %s: %+v vs %+v", name, a.Services[name], b.Services[name])
		}
	}
	for _, name := range models.SeriesNames() {
		av, bv := a.SeriesValues(name), b.SeriesValues(name)
		for i := range av {
			if av[i] != bv[i] {
				t.Fatalf("same seed produced different %s series at %d", name, i)
			}
		}
	}
	if a.Phase != models.PhaseBaseline {
		t.Errorf("expected baseline phase, got %s", a.Phase)
	}
}

func TestGenerateMostlyHealthy(t *testing.T) {
	gen := NewGenerator(utils.NewRandSource(2024))
	healthy := 0
	const runs = 100
	for i := 0; i < runs; i++ {
		if health.AllHealthy(gen.Generate("run").Services) {
			healthy++
		}
	}
	if healthy < runs*9/10 {
		t.Errorf("expected baseline runs to be biased toward healthy, got %d/%d", healthy, runs)
	}
}
