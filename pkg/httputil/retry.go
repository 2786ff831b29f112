package httputil

import (
	"context"
	"errors"
	"time"
)

// TransientError marks a repository fetch failure that is worth
// re-attempting: a connection drop, a timeout, a 5xx from a Maven
// repository. The downloader wraps its ErrNetwork-class failures with
// [Transient] so that [Policy.Do] retries them, while hard failures
// (404s, unparseable POMs, bad coordinates) pass through untouched and
// are not re-attempted; the downloader moves on to the next repository.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err so that [Policy.Do] will re-attempt it.
// A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is marked for re-attempting.
func IsTransient(err error) bool {
	return errors.As(err, new(*TransientError))
}

// Policy controls how POM fetches are re-attempted. Attempts is the total
// number of tries; Delay is the wait before the second try and doubles
// after each failure.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultPolicy is the retry behavior for repository fetches: three tries,
// starting at one second between them.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second}

// Do executes fn under the policy. Only errors marked with [Transient]
// trigger another attempt; anything else is returned as-is. When every
// attempt fails, the last error is returned, still carrying its transient
// marker for callers that classify failures. A cancelled ctx ends the
// backoff wait early with ctx.Err().
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay

	var lastErr error
	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsTransient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
