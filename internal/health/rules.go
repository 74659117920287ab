package health

import "github.com/GoSim-25-26J-441/system-autopsy/pkg/models"

// Thresholds. Error rates are fractions.
const (
	LatencyDegradedMs  = 300.0
	LatencyUnhealthyMs = 900.0
	ErrorRateDegraded  = 0.03
	ErrorRateUnhealthy = 0.08
)

// Evaluate returns the health tier for the given latency and error rate.
func Evaluate(latencyMs, errorRate float64) models.HealthStatus {
	if latencyMs >= LatencyUnhealthyMs || errorRate >= ErrorRateUnhealthy {
		return models.StatusUnhealthy
	}
	if latencyMs >= LatencyDegradedMs || errorRate >= ErrorRateDegraded {
		return models.StatusDegraded
	}
	return models.StatusHealthy
}

// EvaluateState recomputes svc.Status from its current values.
func EvaluateState(svc *models.ServiceState) {
	if svc == nil {
		return
	}
	svc.Status = Evaluate(svc.LatencyMs, svc.ErrorRate)
}

// EvaluateAll recomputes the status of every service in the map.
func EvaluateAll(services map[models.ServiceName]*models.ServiceState) {
	for _, svc := range services {
		EvaluateState(svc)
	}
}

// Rank orders tiers: healthy 0 < degraded 1 < unhealthy 2.
// Unknown values rank as healthy.
func Rank(status models.HealthStatus) int {
	switch status {
	case models.StatusUnhealthy:
		return 2
	case models.StatusDegraded:
		return 1
	default:
		return 0
	}
}

// Worst returns the most severe tier. It returns healthy for no input.
func Worst(statuses ...models.HealthStatus) models.HealthStatus {
	worst := models.StatusHealthy
	for _, s := range statuses {
		if Rank(s) > Rank(worst) {
			worst = s
		}
	}
	return worst
}

// AllHealthy reports whether every service is healthy.
func AllHealthy(services map[models.ServiceName]*models.ServiceState) bool {
	for _, svc := range services {
		if svc != nil && svc.Status != models.StatusHealthy {
			return false
		}
	}
	return true
}
