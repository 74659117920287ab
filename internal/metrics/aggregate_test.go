package metrics

import (
	"math"
	"testing"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
)

func series(values ...float64) []models.MetricPoint {
	points := make([]models.MetricPoint, len(values))
	for i, v := range values {
		points[i] = models.MetricPoint{Time: i, Value: v}
	}
	return points
}

func TestSummarize(t *testing.T) {
	agg := Summarize(series(50, 10, 40, 20, 30))
	if agg == nil {
		t.Fatal("expected aggregation")
	}
	if agg.Count != 5 {
		t.Errorf("Count = %d, want 5", agg.Count)
	}
	if agg.Min != 10 || agg.Max != 50 {
		t.Errorf("Min/Max = %f/%f, want 10/50", agg.Min, agg.Max)
	}
	if agg.Mean != 30 {
		t.Errorf("Mean = %f, want 30", agg.Mean)
	}
	if agg.P50 != 30 {
		t.Errorf("P50 = %f, want 30", agg.P50)
	}
	if math.Abs(agg.P95-48) > 1e-9 {
		t.Errorf("P95 = %f, want 48", agg.P95)
	}
	// first/last follow time order, not sorted order
	if agg.First != 50 || agg.Last != 30 {
		t.Errorf("First/Last = %f/%f, want 50/30", agg.First, agg.Last)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if Summarize(nil) != nil {
		t.Error("expected nil aggregation for empty series")
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"Empty", nil, 0.5, 0},
		{"Single", []float64{7}, 0.95, 7},
		{"Median", []float64{1, 2, 3}, 0.5, 2},
		{"Interpolated", []float64{0, 10}, 0.25, 2.5},
		{"Max", []float64{1, 2, 3}, 1.0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(tt.values, tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percentile(%v, %f) = %f, want %f", tt.values, tt.p, got, tt.want)
			}
		})
	}
}

func TestSummarizeResult(t *testing.T) {
	r := models.NewSimulationResult("run-agg")
	r.Metrics[models.SeriesQueueDepth] = series(5, 15)
	r.Metrics[models.SeriesLatencyMs] = nil

	out := SummarizeResult(r)
	if len(out) != 1 {
		t.Fatalf("expected 1 aggregation, got %d", len(out))
	}
	if out[models.SeriesQueueDepth].Mean != 10 {
		t.Errorf("unexpected queue_depth mean: %f", out[models.SeriesQueueDepth].Mean)
	}
}
