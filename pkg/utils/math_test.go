package utils

import (
	"math"
	"testing"
)

func TestClampFloat64(t *testing.T) {
	tests := []struct {
		value, min, max, expected float64
	}{
		{0.20, 0, 0.15, 0.15},
		{0.10, 0, 0.15, 0.10},
		{-0.5, 0, 0.15, 0},
		{0.15, 0, 0.15, 0.15},
	}

	for _, tt := range tests {
		result := ClampFloat64(tt.value, tt.min, tt.max)
		if result != tt.expected {
			t.Errorf("ClampFloat64(%f, %f, %f) = %f, expected %f", tt.value, tt.min, tt.max, result, tt.expected)
		}
	}
}

func TestNonNegative(t *testing.T) {
	tests := []struct {
		value, expected float64
	}{
		{12.5, 12.5},
		{0, 0},
		{-3, 0},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if result := NonNegative(tt.value); result != tt.expected {
			t.Errorf("NonNegative(%f) = %f, expected %f", tt.value, result, tt.expected)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		value    float64
		decimals int
		expected float64
	}{
		{123.456, 1, 123.5},
		{0.0345 * 100, 2, 3.45},
		{1.004, 2, 1.0},
		{99.95, 0, 100},
	}

	for _, tt := range tests {
		result := Round(tt.value, tt.decimals)
		if math.Abs(result-tt.expected) > 1e-9 {
			t.Errorf("Round(%f, %d) = %f, expected %f", tt.value, tt.decimals, result, tt.expected)
		}
	}
}
