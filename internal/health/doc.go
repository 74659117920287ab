// Package health derives a service's health tier from its latency and error rate.
//
// The rule is a pure function with fixed thresholds:
//
//	latency   >= 900 ms  or error rate >= 0.08  -> unhealthy
//	latency   >= 300 ms  or error rate >= 0.03  -> degraded
//	otherwise                                   -> healthy
//
// Error rates are fractions in [0, 1]. The rule has no memory of earlier
// calls, so re-evaluating a service after any mutation always yields the
// tier of its current values.
package health
