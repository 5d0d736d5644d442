package assist

import "context"

// Invoker sends a prompt to a generative-text service and returns the raw
// textual reply. Implementations make exactly one outbound call per
// invocation, perform no retries and no caching; repeating a call with the
// same prompt is safe but may return different text.
type Invoker interface {
	// Invoke sends the prompt and returns the reply text.
	Invoke(ctx context.Context, prompt string) (string, error)
	// Close releases resources held by the invoker.
	Close() error
}
