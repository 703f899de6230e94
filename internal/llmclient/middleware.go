package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"
)

// Middleware wraps an LLMClient with a cross-cutting concern.
type Middleware func(LLMClient) LLMClient

// Chain applies middlewares so the first listed is the outermost.
func Chain(client LLMClient, mws ...Middleware) LLMClient {
	for i := len(mws) - 1; i >= 0; i-- {
		client = mws[i](client)
	}
	return client
}

// Logging logs request size and call duration per GenerateJSON.
func Logging() Middleware {
	return func(next LLMClient) LLMClient {
		return &logging{next: next}
	}
}

type logging struct {
	next LLMClient
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, prompt string, input any, media ...Media) (json.RawMessage, error) {
	start := time.Now()
	resp, err := l.next.GenerateJSON(ctx, prompt, input, media...)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		log.Printf("LLM %s: %d prompt bytes, %d media, failed in %s: %v", l.next.Name(), len(prompt), len(media), elapsed, err)
		return nil, err
	}
	log.Printf("LLM %s: %d prompt bytes, %d media, %d response bytes in %s", l.next.Name(), len(prompt), len(media), len(resp), elapsed)
	return resp, nil
}

// Retry retries GenerateJSON up to maxAttempts with exponential
// backoff starting at baseDelay. Permanent errors are not retried and
// context cancellation stops the loop immediately.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next LLMClient) LLMClient {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next LLMClient
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) GenerateJSON(ctx context.Context, prompt string, input any, media ...Media) (json.RawMessage, error) {
	var last error
	for i := 0; i < r.max; i++ {
		resp, err := r.next.GenerateJSON(ctx, prompt, input, media...)
		if err == nil {
			return resp, nil
		}
		var pErr *PermanentError
		if errors.As(err, &pErr) {
			return nil, err
		}
		last = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		time.Sleep(r.base * time.Duration(1<<i))
	}
	return nil, last
}
