package gemini

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	baseBackoff   = 500 * time.Millisecond
	maxQuotaDelay = 10 * time.Second
)

var (
	newTimer = func(d time.Duration) (<-chan time.Time, func() bool) {
		t := time.NewTimer(d)
		return t.C, t.Stop
	}

	retryAfterRe = regexp.MustCompile(`retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)
)

// withRetry runs call until it succeeds, returns a permanent error, or the
// retry budget is spent.
func (e *Embedder) withRetry(ctx context.Context, call func() error) error {
	var err error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		err = call()
		if err == nil {
			return nil
		}

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == e.maxRetries {
			return err
		}

		e.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if werr := waitFor(ctx, delay); werr != nil {
			return werr
		}
	}
	return err
}

// retryDelay reports whether err is temporary and how long to wait before
// the next attempt. Quota errors asking for a long pause are not retried.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	backoff := baseBackoff * time.Duration(1<<(attempt-1))

	switch apiErr.Code {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return backoff, true
	case http.StatusTooManyRequests:
		m := retryAfterRe.FindStringSubmatch(apiErr.Message)
		if m == nil {
			return backoff, true
		}
		seconds, perr := strconv.ParseFloat(m[1], 64)
		if perr != nil {
			return backoff, true
		}
		delay := time.Duration(seconds * float64(time.Second))
		if delay > maxQuotaDelay {
			return 0, false
		}
		return delay, true
	default:
		return 0, false
	}
}

// waitFor blocks for d unless ctx is done first. The timer is stopped on
// cancellation.
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	fired, stop := newTimer(d)
	select {
	case <-ctx.Done():
		stop()
		return ctx.Err()
	case <-fired:
		return nil
	}
}
