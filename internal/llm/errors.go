package llm

import "errors"

// Sentinel errors returned by LLMClient implementations. Transport failures
// that match none of them are wrapped in ErrRetryExhausted.
var (
	ErrOllamaUnavailable = errors.New("ollama server unavailable")
	ErrTimeout           = errors.New("llm request timed out")
	ErrRetryExhausted    = errors.New("llm retry attempts exhausted")
	ErrMissingAPIKey     = errors.New("llm api key not configured")
	ErrEmptyResponse     = errors.New("llm returned an empty response")

	// ErrRejected means the provider refused the request itself (4xx). It is
	// never retried.
	ErrRejected = errors.New("llm provider rejected the request")

	// ErrInvalidOutput means the text could not be decoded into the
	// structure the caller asked for.
	ErrInvalidOutput = errors.New("invalid llm output format")
)
