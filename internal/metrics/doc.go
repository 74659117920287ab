// Package metrics aggregates the global time series of a simulation result
// into count, extremes, mean and percentile summaries.
package metrics
