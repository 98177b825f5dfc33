// Package retry provides a bounded retry policy with exponential backoff and
// jitter, shared by the transaction runner and outbound provider calls.
package retry

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"time"
)

type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 4,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Do runs fn up to p.MaxAttempts times, sleeping between attempts when
// retryable reports the error as transient. The last error is returned after
// exhaustion. Retries never outlive ctx.
func Do(ctx context.Context, p Policy, fn func() error, retryable func(error) bool) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt == p.MaxAttempts-1 {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff(attempt)):
		}
	}
	return err
}

// Backoff returns the wait before the next attempt: base * 2^attempt plus up
// to 20% jitter, capped at MaxDelay.
func (p Policy) Backoff(attempt int) time.Duration {
	wait := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && wait > p.MaxDelay {
		wait = p.MaxDelay
	}
	return wait + time.Duration(cryptoRandInt63n(int64(wait/5)))
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- positive after masking the sign bit
	return int64(uval) % n
}
