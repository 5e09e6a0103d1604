package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// sampling is the effective generation settings for one call.
type sampling struct {
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// samplingFor applies per-request overrides on top of the task defaults.
func (c LLMConfig) samplingFor(req GenerateRequest) sampling {
	task := c.Tasks[req.Task]
	s := sampling{
		temperature: task.Temperature,
		maxTokens:   task.MaxTokens,
		timeout:     time.Duration(c.TaskTimeout(req.Task)) * time.Millisecond,
	}
	if req.Temperature != nil {
		s.temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		s.maxTokens = *req.MaxTokens
	}
	return s
}

// retry runs fn up to 1+retries times. Each attempt gets its own deadline
// when perAttempt is positive; an expired attempt deadline surfaces as
// ErrTimeout and is retried. Rejections and a cancelled parent stop the loop.
func retry(ctx context.Context, retries int, perAttempt time.Duration, fn func(context.Context) error) error {
	var err error
	for i := 0; i <= retries; i++ {
		err = runAttempt(ctx, perAttempt, fn)
		if err == nil || errors.Is(err, ErrRejected) {
			return err
		}
		if ctx.Err() != nil {
			return ErrTimeout
		}
	}
	return err
}

func runAttempt(ctx context.Context, limit time.Duration, fn func(context.Context) error) error {
	if limit <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	err := fn(attemptCtx)
	if err != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// settle reports the call to the observer and maps the final error onto the
// package sentinels callers branch on.
func settle(obs Observer, task TaskType, provider Provider, model string, start time.Time, err error) (int64, error) {
	err = classify(err)
	latency := time.Since(start).Milliseconds()
	obs.OnCallComplete(LLMCallEvent{
		Task:      task,
		Provider:  provider,
		Model:     model,
		LatencyMs: latency,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return latency, err
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrEmptyResponse), errors.Is(err, ErrRejected):
		return err
	case isConnectionError(err):
		return ErrOllamaUnavailable
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrEmptyResponse):
		return "EMPTY_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
