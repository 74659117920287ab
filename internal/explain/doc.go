// Package explain turns a finalized simulation result into a deterministic
// payload and, optionally, a natural-language explanation from a language
// model.
//
// The model is best effort. Explainer.Explain never returns an error: a
// timeout, a transport failure, a non-200 reply, malformed JSON, a missing
// or mistyped field or a guardrail hit all produce the deterministic
// Fallback explanation instead. Calls are never retried.
package explain
