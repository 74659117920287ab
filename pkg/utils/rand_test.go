package utils

import (
	"math"
	"sync"
	"testing"
)

func TestNewRandSource(t *testing.T) {
	// Test with seed
	rng1 := NewRandSource(12345)
	if rng1 == nil {
		t.Fatal("Expected RandSource to be created")
	}

	// Test with zero seed (should use current time)
	rng2 := NewRandSource(0)
	if rng2 == nil {
		t.Fatal("Expected RandSource to be created with zero seed")
	}
}

func TestRandSourceFloat64(t *testing.T) {
	rng := NewRandSource(12345)

	for i := 0; i < 100; i++ {
		val := rng.Float64()
		if val < 0 || val >= 1.0 {
			t.Errorf("Float64() returned value outside [0, 1): %f", val)
		}
	}
}

func TestRandSourceUniformFloat64(t *testing.T) {
	rng := NewRandSource(12345)
	min := 5.0
	max := 15.0

	for i := 0; i < 100; i++ {
		val := rng.UniformFloat64(min, max)
		if val < min || val >= max {
			t.Errorf("UniformFloat64(%f, %f) returned value outside range: %f", min, max, val)
		}
	}
}

func TestRandSourceIntRange(t *testing.T) {
	rng := NewRandSource(12345)
	seen := make(map[int]bool)

	for i := 0; i < 1000; i++ {
		val := rng.IntRange(5, 8)
		if val < 5 || val > 8 {
			t.Fatalf("IntRange(5, 8) returned value outside [5, 8]: %d", val)
		}
		seen[val] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected both ends to be reachable, saw %v", seen)
	}

	if got := rng.IntRange(7, 7); got != 7 {
		t.Errorf("IntRange(7, 7) = %d, want 7", got)
	}
}

func TestRandSourceWeightedIndex(t *testing.T) {
	rng := NewRandSource(12345)
	weights := []float64{0.5, 0.35, 0.15}
	counts := make([]int, len(weights))

	trials := 20000
	for i := 0; i < trials; i++ {
		counts[rng.WeightedIndex(weights)]++
	}

	for i, w := range weights {
		proportion := float64(counts[i]) / float64(trials)
		if math.Abs(proportion-w) > 0.02 {
			t.Errorf("index %d proportion %f not close to weight %f", i, proportion, w)
		}
	}
}

func TestRandSourceWeightedIndexSkipsNonPositive(t *testing.T) {
	rng := NewRandSource(7)

	for i := 0; i < 200; i++ {
		if got := rng.WeightedIndex([]float64{0, 1, -2}); got != 1 {
			t.Fatalf("expected index 1, got %d", got)
		}
	}
	if got := rng.WeightedIndex([]float64{0, 0}); got != 0 {
		t.Errorf("expected 0 for all-zero weights, got %d", got)
	}
}

func TestDeterministicBehavior(t *testing.T) {
	// Same seed should produce same sequence
	rng1 := NewRandSource(999)
	rng2 := NewRandSource(999)

	for i := 0; i < 10; i++ {
		val1 := rng1.UniformFloat64(0, 100)
		val2 := rng2.UniformFloat64(0, 100)
		if val1 != val2 {
			t.Errorf("Same seed should produce same sequence: %f != %f", val1, val2)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	rng := NewRandSource(12345)
	const numGoroutines = 50
	const numIterations = 100

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				_ = rng.Float64()
				_ = rng.IntRange(300, 600)
				_ = rng.UniformFloat64(0, 10)
				_ = rng.WeightedIndex([]float64{0.5, 0.35, 0.15})
			}
		}()
	}
	wg.Wait()
}
