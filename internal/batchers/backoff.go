package batchers

import (
	"math"
	"math/rand"
	"time"
)

// RetryPolicy bounds delivery retries. The zero value (or Enabled=false)
// keeps the default behavior: requeue forever with no backoff and no cap.
type RetryPolicy struct {
	Enabled           bool
	MaxAttempts       int // consecutive failures before a batch is dropped; 0 = unlimited
	BackoffInitial    time.Duration
	BackoffMax        time.Duration
	BackoffMultiplier float64
	BackoffJitterPct  float64
}

// BackoffConfig derives the backoff parameters of the policy, filling in
// defaults where unset.
func (p *RetryPolicy) BackoffConfig() BackoffConfig {
	cfg := BackoffConfig{
		Initial:    p.BackoffInitial,
		Max:        p.BackoffMax,
		Multiplier: p.BackoffMultiplier,
		JitterPct:  p.BackoffJitterPct,
	}
	if cfg.Initial <= 0 {
		cfg.Initial = 250 * time.Millisecond
	}
	if cfg.Max <= 0 {
		cfg.Max = 5 * time.Second
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = 1.7
	}
	return cfg
}

// BackoffConfig holds the configuration for exponential backoff.
type BackoffConfig struct {
	Initial    time.Duration // delay after the first failure
	Max        time.Duration // cap
	Multiplier float64       // growth per consecutive failure
	JitterPct  float64       // jitter as a fraction of the delay (0.4 = ±20%)
}

// Backoff calculates exponential backoff delays with jitter between
// consecutive failed deliveries.
type Backoff struct {
	config   BackoffConfig
	attempts int
	rng      *rand.Rand
}

// NewBackoff creates a Backoff calculator.
func NewBackoff(cfg BackoffConfig) *Backoff {
	return &Backoff{
		config: cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the next delay and increments the attempt counter.
func (b *Backoff) Next() time.Duration {
	delay := b.calculate()
	b.attempts++
	return delay
}

// Reset resets the attempt counter, to be called after a successful delivery.
func (b *Backoff) Reset() {
	b.attempts = 0
}

func (b *Backoff) calculate() time.Duration {
	delay := float64(b.config.Initial) * math.Pow(b.config.Multiplier, float64(b.attempts))

	if delay > float64(b.config.Max) {
		delay = float64(b.config.Max)
	}

	if b.config.JitterPct > 0 {
		jitterRange := delay * b.config.JitterPct
		jitter := jitterRange*b.rng.Float64() - jitterRange/2
		delay += jitter
	}

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}
