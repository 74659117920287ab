package explain

import (
	"sync"
	"time"
)

// CircuitState represents the state of the model circuit
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// Breaker stops calling the model after repeated failures and lets a single
// probe through once the cooldown has passed. It never retries a call.
type Breaker struct {
	failureThreshold int
	cooldown         time.Duration
	now              func() time.Time

	mu              sync.Mutex
	state           CircuitState
	failureCount    int
	lastStateChange time.Time
}

// NewBreaker creates a breaker. A threshold <= 0 disables it.
func NewBreaker(failureThreshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		now:              time.Now,
		lastStateChange:  time.Now(),
	}
}

// Allow reports whether a model call may be attempted.
func (b *Breaker) Allow() bool {
	if b == nil || b.failureThreshold <= 0 {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitOpen:
		if b.now().Sub(b.lastStateChange) < b.cooldown {
			return false
		}
		b.transition(CircuitHalfOpen)
		return true
	case CircuitHalfOpen:
		// one probe at a time
		return false
	default:
		return true
	}
}

// RecordSuccess closes the circuit.
func (b *Breaker) RecordSuccess() {
	if b == nil || b.failureThreshold <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount = 0
	if b.state != CircuitClosed {
		b.transition(CircuitClosed)
	}
}

// RecordFailure counts a failure and opens the circuit at the threshold.
// A failed half-open probe reopens it immediately.
func (b *Breaker) RecordFailure() {
	if b == nil || b.failureThreshold <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	if b.state == CircuitHalfOpen || b.failureCount >= b.failureThreshold {
		b.transition(CircuitOpen)
	}
}

// State returns the current circuit state.
func (b *Breaker) State() CircuitState {
	if b == nil {
		return CircuitClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transition(s CircuitState) {
	b.state = s
	b.lastStateChange = b.now()
}
