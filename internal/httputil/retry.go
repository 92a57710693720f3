// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retry executor and HTTP helpers shared
// across harvesting stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/bioscrape/plasmid-engine/pkg/types"
)

// Defaults for the retry budget. The near-flat backoff curve keeps
// worst-case waits bounded even over a budget this large.
const (
	DefaultMaxAttempts = 623
	DefaultBaseDelay   = 60 * time.Second
	DefaultScale       = 10 * time.Second
)

// Executor wraps fallible operations with bounded-retry semantics. It is
// a pure decorator: it knows nothing about what it wraps and composes
// independently around fetching, per-field extraction, and sequence
// resolution. The zero value uses the defaults above.
type Executor struct {
	// MaxAttempts is the total attempt budget including the first try.
	MaxAttempts int

	// BaseDelay and Scale shape the backoff curve:
	// delay(n) = BaseDelay + log2(n)*Scale for the n-th retry (1-based).
	BaseDelay time.Duration
	Scale     time.Duration

	// sleep is overridden in tests to observe delays without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor builds an Executor from config, filling zero fields with
// the defaults.
func NewExecutor(cfg types.RetryConfig) *Executor {
	return &Executor{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		Scale:       cfg.Scale,
	}
}

// Do invokes op, retrying on transient transport failures with the
// computed backoff delay between attempts. Non-transient errors propagate
// immediately. After the MaxAttempts-th consecutive failure the last
// error propagates without a final sleep. Context cancellation during a
// backoff wait returns ctx.Err().
func (e *Executor) Do(ctx context.Context, op func() error) error {
	budget := e.MaxAttempts
	if budget <= 0 {
		budget = DefaultMaxAttempts
	}

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt >= budget {
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}
		if err := e.wait(ctx, e.Delay(attempt)); err != nil {
			return err
		}
	}
}

// Delay computes the backoff before the (attempt+1)-th try, where attempt
// is the 1-based count of failures so far: BaseDelay + log2(attempt)*Scale.
func (e *Executor) Delay(attempt int) time.Duration {
	base := e.BaseDelay
	scale := e.Scale
	if base == 0 && scale == 0 {
		base, scale = DefaultBaseDelay, DefaultScale
	}
	if attempt < 1 {
		attempt = 1
	}
	return base + time.Duration(math.Log2(float64(attempt))*float64(scale))
}

func (e *Executor) wait(ctx context.Context, d time.Duration) error {
	if e.sleep != nil {
		return e.sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Get issues a GET with the given User-Agent and returns the response
// body. Transport failures, HTTP 429 and 5xx classify as transient;
// other non-2xx statuses are permanent. 404 responses return their body:
// the vendor's not-found sentinel lives in the markup, not the status
// line.
func Get(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, Permanent(fmt.Errorf("creating request: %w", err))
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, Transient(fmt.Errorf("GET %s: %w", url, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, Transientf("GET %s: HTTP %d", url, resp.StatusCode)
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, Permanent(fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transient(fmt.Errorf("reading %s: %w", url, err))
	}
	return body, nil
}
