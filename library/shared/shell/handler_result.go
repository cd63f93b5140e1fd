package shell

import "time"

// HandlerResult is the outcome of a command handler execution.
// It carries the business outcome (idempotency) and the retry metadata
// without coupling the handler to an observability implementation.
type HandlerResult struct {
	// Idempotent is true when nothing had to change. It is a business outcome, not an error.
	Idempotent bool

	// RetryAttempts is the total number of attempts, 1 when there was no retry.
	RetryAttempts int

	// TotalRetryDelay only counts the backoff waits.
	TotalRetryDelay time.Duration

	// LastErrorType is one of "none", "concurrency_conflict", "network_failure",
	// "context_canceled", "context_deadline_exceeded" or "other".
	LastErrorType string

	// RetriesExhausted is true when all attempts failed with a retryable error.
	RetriesExhausted bool

	// Output is what the command produced, e.g. the created record. Read it with OutputAs.
	Output any
}

func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics, false)
}

func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics, true)
}

// NewErrorResult keeps the retry metadata of a failed execution.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics, false)
}

func resultFrom(retryMetrics RetryMetrics, idempotent bool) HandlerResult {
	return HandlerResult{
		Idempotent:       idempotent,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// WithOutput returns a copy carrying output.
func (r HandlerResult) WithOutput(output any) HandlerResult {
	r.Output = output
	return r
}

// OutputAs returns the output of a result, or the zero value when it has none of type T.
func OutputAs[T any](result HandlerResult) T {
	output, _ := result.Output.(T)
	return output
}
