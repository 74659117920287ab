package explain

import (
	"encoding/json"
	"fmt"
)

const systemPrompt = `You are an AI system that explains distributed system failures.

You are given structured, deterministic system data.
You MUST follow these rules:

- Use ONLY the provided data.
- Do NOT speculate about causes not present.
- Do NOT invent infrastructure issues (CPU, disk, memory).
- Do NOT invent metrics or services.
- Do NOT suggest automated actions.
- Explanations are informational only.

You MUST return VALID JSON matching the exact schema provided.
No prose outside JSON.`

const outputSchema = `{
  "system_state_summary": "string",
  "failure_explanation": "string",
  "identified_factors": ["string"],
  "mitigation_suggestions": [
    {
      "title": "string",
      "description": "string"
    }
  ]
}`

// BuildPrompt renders the fixed instruction, the payload and the output schema.
func BuildPrompt(p Payload) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode explain payload: %w", err)
	}
	return fmt.Sprintf(`%s

You are given the following system state:

%s

Your task:
1. Summarize the overall system state.
2. Explain the failure using only the provided data.
3. List the identified contributing factors.
4. Provide mitigation suggestions (informational only).

Output MUST be valid JSON and match this schema exactly:

%s
`, systemPrompt, data, outputSchema), nil
}
