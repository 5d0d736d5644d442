package assist

import "strings"

// sanitizeResponse strips markdown code fence markers from a raw model
// reply and trims surrounding whitespace. It does no structural validation,
// so it is safe to apply to any text and is idempotent.
func sanitizeResponse(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
