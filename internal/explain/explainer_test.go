package explain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
)

type stubClient struct {
	response string
	err      error
	delay    time.Duration
	calls    int
	prompt   string
}

func (s *stubClient) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.response, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPayload() Payload {
	return BuildPayload(resultWithStatuses(models.StatusHealthy, models.StatusDegraded), "retry_amplification")
}

func TestExplainUsesModelOutput(t *testing.T) {
	client := &stubClient{response: validOutput}
	e := NewExplainer(client, WithLogger(quietLogger()))

	exp := e.Explain(context.Background(), testPayload())

	assert.Equal(t, SourceAI, exp.Source)
	assert.Equal(t, []string{
		"The system is unhealthy.",
		"Database latency rose and orders service latency followed.",
	}, exp.Text)
	assert.Equal(t, []Mitigation{{Action: "Add read replicas", Description: "Spread query load across replicas."}}, exp.MitigationSuggestions)
	assert.Contains(t, client.prompt, `"scenario": "retry_amplification"`)
}

func TestExplainFallback(t *testing.T) {
	tests := []struct {
		name   string
		client *stubClient
	}{
		{"Transport error", &stubClient{err: errors.New("connection refused")}},
		{"Non-JSON", &stubClient{response: "Sure! Here is your explanation."}},
		{"Missing key", &stubClient{response: `{"system_state_summary": "x"}`}},
		{"Guardrail", &stubClient{response: `{"system_state_summary": "x", "failure_explanation": "hyperquantumfluxcapacitorfailure", "identified_factors": [], "mitigation_suggestions": []}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExplainer(tt.client, WithLogger(quietLogger()))
			exp := e.Explain(context.Background(), testPayload())

			assert.Equal(t, SourceFallback, exp.Source)
			assert.Equal(t, 1, tt.client.calls, "model must not be retried")
			assert.Equal(t, Fallback(testPayload()), exp)
		})
	}
}

func TestExplainTimeout(t *testing.T) {
	client := &stubClient{response: validOutput, delay: time.Second}
	e := NewExplainer(client, WithTimeout(20*time.Millisecond), WithLogger(quietLogger()))

	_, err := e.Generate(context.Background(), testPayload())
	assert.ErrorIs(t, err, ErrExplanationUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	exp := e.Explain(context.Background(), testPayload())
	assert.Equal(t, SourceFallback, exp.Source)
}

func TestExplainDisabled(t *testing.T) {
	e := NewExplainer(nil, WithLogger(quietLogger()))
	assert.False(t, e.Enabled())

	_, err := e.Generate(context.Background(), testPayload())
	assert.ErrorIs(t, err, ErrExplanationUnavailable)
	assert.Equal(t, SourceFallback, e.Explain(context.Background(), testPayload()).Source)
}

func TestExplainBreakerSkipsModel(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	e := NewExplainer(client, WithBreaker(NewBreaker(2, time.Hour)), WithLogger(quietLogger()))

	for i := 0; i < 5; i++ {
		e.Explain(context.Background(), testPayload())
	}
	assert.Equal(t, 2, client.calls)
}

func TestFallbackText(t *testing.T) {
	p := testPayload()
	exp := Fallback(p)

	require.Len(t, exp.Text, 1)
	assert.Equal(t,
		"System is currently in a degraded state. System behavior reflects the current simulation state and dependency-driven degradation across services.",
		exp.Text[0])
	assert.Empty(t, exp.IdentifiedFactors)
	assert.NotNil(t, exp.IdentifiedFactors)
	assert.NotNil(t, exp.MitigationSuggestions)
}
