package explain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrExplanationUnavailable wraps every failure of the language model.
	// Callers recover from it with Fallback.
	ErrExplanationUnavailable = errors.New("explanation unavailable")

	// ErrGuardrailRejected marks output whose free text looks hallucinated.
	ErrGuardrailRejected = errors.New("guardrail rejected output")
)

// MaxWordLength is the longest purely alphabetic token accepted in free text.
const MaxWordLength = 20

// ModelMitigation is a mitigation as the model returns it.
type ModelMitigation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ModelOutput is the schema the model must answer with.
type ModelOutput struct {
	SystemStateSummary    string            `json:"system_state_summary"`
	FailureExplanation    string            `json:"failure_explanation"`
	IdentifiedFactors     []string          `json:"identified_factors"`
	MitigationSuggestions []ModelMitigation `json:"mitigation_suggestions"`
}

var requiredKeys = []string{
	"system_state_summary",
	"failure_explanation",
	"identified_factors",
	"mitigation_suggestions",
}

// ParseExplanation decodes and validates raw model output. Every failure
// wraps ErrExplanationUnavailable.
func ParseExplanation(raw string) (*ModelOutput, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty model output", ErrExplanationUnavailable)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: model output is not a JSON object: %v", ErrExplanationUnavailable, err)
	}
	for _, key := range requiredKeys {
		v, ok := fields[key]
		if !ok || isNull(v) {
			return nil, fmt.Errorf("%w: missing required field %q", ErrExplanationUnavailable, key)
		}
	}

	var out ModelOutput
	if err := decodeField(fields, "system_state_summary", &out.SystemStateSummary); err != nil {
		return nil, err
	}
	if err := decodeField(fields, "failure_explanation", &out.FailureExplanation); err != nil {
		return nil, err
	}
	var factors []json.RawMessage
	if err := decodeField(fields, "identified_factors", &factors); err != nil {
		return nil, err
	}
	out.IdentifiedFactors = make([]string, 0, len(factors))
	for i, f := range factors {
		var factor string
		if err := decodeValue(f, fmt.Sprintf("identified_factors[%d]", i), &factor); err != nil {
			return nil, err
		}
		out.IdentifiedFactors = append(out.IdentifiedFactors, factor)
	}

	var mitigations []map[string]json.RawMessage
	if err := decodeField(fields, "mitigation_suggestions", &mitigations); err != nil {
		return nil, err
	}
	for i, m := range mitigations {
		var mm ModelMitigation
		if err := decodeField(m, "title", &mm.Title); err != nil {
			return nil, fmt.Errorf("mitigation %d: %w", i, err)
		}
		if err := decodeField(m, "description", &mm.Description); err != nil {
			return nil, fmt.Errorf("mitigation %d: %w", i, err)
		}
		out.MitigationSuggestions = append(out.MitigationSuggestions, mm)
	}

	if err := out.checkGuardrail(); err != nil {
		return nil, err
	}
	return &out, nil
}

func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	v, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: missing required field %q", ErrExplanationUnavailable, key)
	}
	return decodeValue(v, key, dst)
}

// decodeValue rejects null, which json.Unmarshal would leave as a zero value.
func decodeValue(v json.RawMessage, key string, dst any) error {
	if isNull(v) {
		return fmt.Errorf("%w: field %q is null", ErrExplanationUnavailable, key)
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%w: field %q has the wrong type: %v", ErrExplanationUnavailable, key, err)
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func (o *ModelOutput) checkGuardrail() error {
	texts := []string{o.SystemStateSummary, o.FailureExplanation}
	texts = append(texts, o.IdentifiedFactors...)
	for _, m := range o.MitigationSuggestions {
		texts = append(texts, m.Title, m.Description)
	}
	for _, text := range texts {
		if word, ok := HallucinationSignal(text); ok {
			return fmt.Errorf("%w: %w: token %q", ErrExplanationUnavailable, ErrGuardrailRejected, word)
		}
	}
	return nil
}

// HallucinationSignal returns the first whitespace-separated token that is
// purely alphabetic and longer than MaxWordLength characters.
func HallucinationSignal(text string) (string, bool) {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(word) > MaxWordLength && isAlpha(word) {
			return word, true
		}
	}
	return "", false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
