package explain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/logger"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 60 * time.Second

// Source says where an explanation came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Mitigation is an informational suggestion shown to the user.
type Mitigation struct {
	Action      string `json:"action"`
	Description string `json:"description"`
}

// Explanation is the user-facing explanation of a run.
type Explanation struct {
	Text                  []string     `json:"text"`
	IdentifiedFactors     []string     `json:"identified_factors"`
	MitigationSuggestions []Mitigation `json:"mitigation_suggestions"`
	Source                Source       `json:"source"`
}

// Fallback returns the deterministic explanation used whenever the model
// cannot be used.
func Fallback(p Payload) Explanation {
	return Explanation{
		Text: []string{fmt.Sprintf(
			"System is currently in a %s state. System behavior reflects the current simulation state and dependency-driven degradation across services.",
			p.SystemMode,
		)},
		IdentifiedFactors:     []string{},
		MitigationSuggestions: []Mitigation{},
		Source:                SourceFallback,
	}
}

func fromModel(out *ModelOutput) Explanation {
	e := Explanation{
		Text:                  []string{out.SystemStateSummary, out.FailureExplanation},
		IdentifiedFactors:     out.IdentifiedFactors,
		MitigationSuggestions: make([]Mitigation, 0, len(out.MitigationSuggestions)),
		Source:                SourceAI,
	}
	if e.IdentifiedFactors == nil {
		e.IdentifiedFactors = []string{}
	}
	for _, m := range out.MitigationSuggestions {
		e.MitigationSuggestions = append(e.MitigationSuggestions, Mitigation{Action: m.Title, Description: m.Description})
	}
	return e
}

// Explainer asks a Client for an explanation under a bounded timeout.
type Explainer struct {
	client  Client
	timeout time.Duration
	breaker *Breaker
	logger  *slog.Logger
}

// Option configures an Explainer.
type Option func(*Explainer)

// WithTimeout bounds each model call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(e *Explainer) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithBreaker guards the client with a circuit breaker.
func WithBreaker(b *Breaker) Option {
	return func(e *Explainer) { e.breaker = b }
}

// WithLogger sets the explainer's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Explainer) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExplainer creates an explainer. A nil client disables the model and
// every call returns the fallback.
func NewExplainer(client Client, opts ...Option) *Explainer {
	e := &Explainer{
		client:  client,
		timeout: DefaultTimeout,
		logger:  logger.Default,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enabled reports whether a model client is configured.
func (e *Explainer) Enabled() bool {
	return e.client != nil
}

// Generate asks the model once. All failures wrap ErrExplanationUnavailable.
func (e *Explainer) Generate(ctx context.Context, p Payload) (Explanation, error) {
	if e.client == nil {
		return Explanation{}, fmt.Errorf("%w: explainer disabled", ErrExplanationUnavailable)
	}
	if !e.breaker.Allow() {
		return Explanation{}, fmt.Errorf("%w: circuit open", ErrExplanationUnavailable)
	}

	prompt, err := BuildPrompt(p)
	if err != nil {
		return Explanation{}, fmt.Errorf("%w: %v", ErrExplanationUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.client.Generate(ctx, prompt)
	if err != nil {
		e.breaker.RecordFailure()
		return Explanation{}, fmt.Errorf("%w: %w", ErrExplanationUnavailable, err)
	}
	out, err := ParseExplanation(raw)
	if err != nil {
		e.breaker.RecordFailure()
		return Explanation{}, err
	}
	e.breaker.RecordSuccess()
	return fromModel(out), nil
}

// Explain returns the model's explanation, or Fallback on any failure.
func (e *Explainer) Explain(ctx context.Context, p Payload) Explanation {
	exp, err := e.Generate(ctx, p)
	if err != nil {
		level := slog.LevelWarn
		if !e.Enabled() {
			level = slog.LevelDebug
		}
		e.logger.Log(ctx, level, "using fallback explanation",
			"scenario", p.Scenario,
			"system_mode", p.SystemMode,
			"timeout", errors.Is(err, context.DeadlineExceeded),
			"error", err)
		return Fallback(p)
	}
	return exp
}
