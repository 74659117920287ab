package metrics

import (
	"sort"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
)

// Summarize calculates aggregated statistics for a series.
// It returns nil for an empty series.
func Summarize(points []models.MetricPoint) *models.Aggregation {
	if len(points) == 0 {
		return nil
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	first, last := values[0], values[len(values)-1]

	sort.Float64s(values)

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return &models.Aggregation{
		Count: len(values),
		Min:   values[0],
		Max:   values[len(values)-1],
		Mean:  sum / float64(len(values)),
		P50:   Percentile(values, 0.50),
		P95:   Percentile(values, 0.95),
		P99:   Percentile(values, 0.99),
		First: first,
		Last:  last,
	}
}

// SummarizeResult aggregates every series of a result.
func SummarizeResult(result *models.SimulationResult) map[models.SeriesName]*models.Aggregation {
	out := make(map[models.SeriesName]*models.Aggregation, len(result.Metrics))
	for _, name := range models.SeriesNames() {
		if agg := Summarize(result.Series(name)); agg != nil {
			out[name] = agg
		}
	}
	return out
}

// Percentile calculates the percentile value from a sorted slice using
// linear interpolation between closest ranks.
func Percentile(sortedValues []float64, p float64) float64 {
	if len(sortedValues) == 0 {
		return 0.0
	}
	if len(sortedValues) == 1 {
		return sortedValues[0]
	}

	index := p * float64(len(sortedValues)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sortedValues) {
		return sortedValues[len(sortedValues)-1]
	}

	weight := index - float64(lower)
	return sortedValues[lower]*(1-weight) + sortedValues[upper]*weight
}
