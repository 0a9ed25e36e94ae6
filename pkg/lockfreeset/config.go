package lockfreeset

import (
    "go.uber.org/zap"

    "github.com/Voskan/lockfree-kcas/internal/harness"
)

// Option configures a Set at construction time.
type Option func(*config)

type config struct {
    metrics harness.MetricsSink
    logger  *zap.Logger
}

func defaultConfig() *config {
    return &config{
        metrics: harness.NoopMetrics{},
        logger:  zap.NewNop(),
    }
}

// WithMetrics plugs a harness.MetricsSink reporting insert/erase outcomes.
func WithMetrics(sink harness.MetricsSink) Option {
    return func(c *config) {
        if sink != nil {
            c.metrics = sink
        }
    }
}

// WithLogger plugs an external zap.Logger. The set never logs on the hot
// path; only invalid-key panics and table-full outcomes are preceded by a
// log line.
func WithLogger(l *zap.Logger) Option {
    return func(c *config) {
        if l != nil {
            c.logger = l
        }
    }
}
