package assist

import "encoding/json"

// decodeResponse parses sanitized model output as a single JSON document.
// Truncated output, prose mixed into the reply, unquoted keys and an empty
// reply all fail here rather than being salvaged into a partial value.
func decodeResponse(cleaned string) (any, error) {
	if cleaned == "" {
		return nil, newError(KindMalformedResponse, "empty response body")
	}
	var value any
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return nil, wrapError(KindMalformedResponse, "response is not valid JSON", err)
	}
	return value, nil
}
