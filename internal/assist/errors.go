package assist

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindInput means required caller-supplied data was missing or empty.
	KindInput Kind = iota
	// KindService means the generative-text service was unreachable, errored, or timed out.
	KindService
	// KindMalformedResponse means the service replied but the payload was not decodable JSON.
	KindMalformedResponse
	// KindSchemaValidation means the payload decoded but failed shape or value checks.
	KindSchemaValidation
	// KindNotFound means a referenced record does not exist.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "invalid input"
	case KindService:
		return "service failure"
	case KindMalformedResponse:
		return "malformed response"
	case KindSchemaValidation:
		return "schema validation failure"
	case KindNotFound:
		return "not found"
	default:
		return "unknown failure"
	}
}

// Error is a pipeline failure tagged with its kind. The detail is for
// logging; user-facing wording is the HTTP layer's job.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is (or wraps) a pipeline error of the given kind.
func IsKind(err error, kind Kind) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == kind
}

func newError(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func wrapError(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}
