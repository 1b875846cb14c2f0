package llm

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrUnavailable indicates the model server is unreachable.
	ErrUnavailable = errors.New("llm server unavailable")
	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")
	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
	// ErrRetryExhausted indicates all attempts failed for a non-transport reason.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
	// ErrCircuitOpen indicates the breaker is rejecting calls after repeated failures.
	ErrCircuitOpen = errors.New("llm circuit breaker open")
	// ErrNotConfigured indicates a provider is missing required settings.
	ErrNotConfigured = errors.New("llm provider not configured")
)

// ErrorCode maps an LLM error to a short stable code for logs and events.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrCircuitOpen):
		return "CIRCUIT_OPEN"
	case errors.Is(err, ErrNotConfigured):
		return "NOT_CONFIGURED"
	default:
		return "UNKNOWN"
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
