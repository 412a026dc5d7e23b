package bedrock

import (
	"math/rand"
	"time"
)

// Policy is the retry policy for model invocations, expressed as a value so
// tests can supply a deterministic jitter function and count attempts
// exactly.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      func(time.Duration) time.Duration
}

// DefaultPolicy returns the production retry policy: full backoff plus up to
// half the computed delay of random jitter.
func DefaultPolicy(maxAttempts int, baseDelay time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		Jitter:      HalfJitter,
	}
}

// HalfJitter adds a random amount up to half of d.
func HalfJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d)/2+1))
}

// NoJitter returns the delay unchanged. Useful in tests.
func NoJitter(d time.Duration) time.Duration {
	return d
}

// delay computes the backoff before retry attempt n (0-based first attempt),
// exponential in the attempt number.
func (p Policy) delay(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if p.Jitter != nil {
		d = p.Jitter(d)
	}
	return d
}
