package kcas

// config.go defines the functional options accepted by NewEngine, following
// the same pattern as the rest of the pack: a private config struct filled
// with sane defaults, mutated only through exported With* constructors, never
// exposed directly.

import (
    "go.uber.org/zap"

    "github.com/Voskan/lockfree-kcas/internal/harness"
)

// defaultMaxK is used when WithMaxK is not supplied. 2 is the minimum useful
// K (spec.md requires K >= 2); 8 comfortably covers the array-increment
// workload the benchmark harness drives.
const defaultMaxK = 8

// Option configures an Engine at construction time.
type Option func(*config)

type config struct {
    maxK    int
    metrics harness.MetricsSink
    logger  *zap.Logger
}

func defaultConfig() *config {
    return &config{
        maxK:    defaultMaxK,
        metrics: harness.NoopMetrics{},
        logger:  zap.NewNop(),
    }
}

// WithMaxK sets the maximum number of entries a single descriptor may hold.
func WithMaxK(k int) Option {
    return func(c *config) {
        if k >= 2 {
            c.maxK = k
        }
    }
}

// WithMetrics plugs a harness.MetricsSink; engine ops are reported as
// "succeeded" or "failed", and every help() call that finds the referenced
// attempt still live increments the help counter. Omit to leave metrics
// disabled.
func WithMetrics(sink harness.MetricsSink) Option {
    return func(c *config) {
        if sink != nil {
            c.metrics = sink
        }
    }
}

// WithLogger plugs an external zap.Logger. The engine never logs on the hot
// path; only programming-error panics are preceded by a log line.
func WithLogger(l *zap.Logger) Option {
    return func(c *config) {
        if l != nil {
            c.logger = l
        }
    }
}
