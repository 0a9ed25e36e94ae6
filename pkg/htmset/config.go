package htmset

import (
    "go.uber.org/zap"

    "github.com/Voskan/lockfree-kcas/internal/harness"
)

// defaultMaxAborts is the number of consecutive simulated-transaction
// aborts a thread tolerates before falling back to the pessimistic lock,
// matching the original's retriesLeft=5.
const defaultMaxAborts = 5

// Option configures a Set at construction time.
type Option func(*config)

type config struct {
    metrics         harness.MetricsSink
    logger          *zap.Logger
    maxAborts       int
    drainThreshold  int64
    pessimisticOnly bool
}

func defaultConfig() *config {
    return &config{
        metrics:        harness.NoopMetrics{},
        logger:         zap.NewNop(),
        maxAborts:      defaultMaxAborts,
        drainThreshold: harness.DefaultDrainThreshold,
    }
}

// WithMetrics plugs a harness.MetricsSink reporting transaction outcomes
// and resize events.
func WithMetrics(sink harness.MetricsSink) Option {
    return func(c *config) {
        if sink != nil {
            c.metrics = sink
        }
    }
}

// WithLogger plugs an external zap.Logger. The set never logs on the hot
// path; only invalid-key panics (logged just before panicking) and completed
// resizes produce a log line.
func WithLogger(l *zap.Logger) Option {
    return func(c *config) {
        if l != nil {
            c.logger = l
        }
    }
}

// WithMaxAborts overrides the number of consecutive aborts tolerated before
// a thread falls back to the pessimistic lock.
func WithMaxAborts(n int) Option {
    return func(c *config) {
        if n > 0 {
            c.maxAborts = n
        }
    }
}

// WithDrainThreshold overrides the approximate counter's per-shard drain
// threshold (see internal/harness.ApproxCounter).
func WithDrainThreshold(n int64) Option {
    return func(c *config) {
        if n > 0 {
            c.drainThreshold = n
        }
    }
}

// WithPessimisticOnly disables the simulated-transaction fast path
// entirely: every operation takes the fallback lock directly. This is the
// always-locked degradation of the HTM design, an equally correct (if
// slower) mode; it is chosen per Set at construction time, not by a build
// tag — Go has no HTM intrinsics to simulate in the first place, so this
// option is the honest floor every build can fall back to.
func WithPessimisticOnly() Option {
    return func(c *config) {
        c.pessimisticOnly = true
    }
}
