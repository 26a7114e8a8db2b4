// Package modeltext holds small helpers for cleaning up raw model responses
// before they are parsed against a contract.
package modeltext

import "strings"

// StripCodeFence trims surrounding whitespace and a markdown code fence from
// a model response. Models wrap JSON in ```json fences despite being told
// not to; the payload inside is returned unchanged.
func StripCodeFence(s string) string {
	text := strings.TrimSpace(s)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
