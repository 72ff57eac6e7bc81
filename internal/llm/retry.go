package llm

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
)

// RetryingProvider wraps a Provider with the per-call timeout and
// network-only retry policy from spec §4.6: "Enforces a per-call wall-clock
// timeout (default 60s). Retries on network-class errors only (max 2
// retries, backoff 1s, 2s). Does not retry on model-reported errors or on
// policy refusals." Mirrors internal/agent/providers.BaseProvider.Retry.
type RetryingProvider struct {
	inner      Provider
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
}

// NewRetryingProvider wraps inner with the spec-mandated retry/timeout
// policy. timeout<=0 defaults to 60s; maxRetries<=0 defaults to 2.
func NewRetryingProvider(inner Provider, timeout time.Duration, maxRetries int) *RetryingProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 2
	}
	return &RetryingProvider{inner: inner, timeout: timeout, maxRetries: maxRetries, backoff: time.Second}
}

func (r *RetryingProvider) Name() string { return r.inner.Name() }

// Complete calls the inner provider, retrying network-class errors with
// linear backoff (1s, 2s, ...), and converting a wall-clock timeout into a
// coreerrors.KindTimedOut.
func (r *RetryingProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		result, err := r.inner.Complete(callCtx, req)
		cancel()

		if err == nil {
			return result, nil
		}
		lastErr = err

		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return CompletionResult{}, coreerrors.Wrap(coreerrors.KindTimedOut, err, "llm call to %s timed out", r.inner.Name())
		}
		if ctx.Err() != nil {
			return CompletionResult{}, coreerrors.Wrap(coreerrors.KindCancelled, ctx.Err(), "llm call to %s cancelled", r.inner.Name())
		}
		if !isNetworkError(err) || attempt == r.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return CompletionResult{}, coreerrors.Wrap(coreerrors.KindCancelled, ctx.Err(), "llm call to %s cancelled", r.inner.Name())
		case <-time.After(r.backoff * time.Duration(attempt+1)):
		}
	}
	return CompletionResult{}, coreerrors.Wrap(coreerrors.KindTransient, lastErr, "llm call to %s failed", r.inner.Name())
}

// isNetworkError reports whether err looks like a transport-level failure
// (as opposed to a model-reported error or policy refusal, which the spec
// says must never be retried).
func isNetworkError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}
