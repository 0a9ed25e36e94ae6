package harness

// metrics.go is a thin abstraction over Prometheus, so the core packages can
// be used with or without metrics. When a caller builds a sink with
// NewMetricsSink from a non-nil *prometheus.Registry and passes it via a
// WithMetrics option, we create labeled collectors and expose them via the
// registry. Otherwise a no-op sink is used and the hot path does not
// pay for metric updates.
//
// Metric names follow Prometheus conventions, suffixed with "_total" for
// counters.
//
// ┌───────────────────────────┬──────┬────────┐
// │ Metric                    │ Type │ Labels │
// ├───────────────────────────┼──────┼────────┤
// │ kcas_ops_total            │ Ctr  │ result │
// │ kcas_help_total           │ Ctr  │        │
// │ set_insert_total          │ Ctr  │ result │
// │ set_erase_total           │ Ctr  │ result │
// │ set_resize_total          │ Ctr  │        │
// │ set_txn_abort_total       │ Ctr  │        │
// └───────────────────────────┴──────┴────────┘

import (
    "github.com/prometheus/client_golang/prometheus"
)

// MetricsSink is the interface the core packages depend on. It is deliberately
// small: each data structure only reports the handful of counters spec.md's
// error-handling and observability notes call out.
type MetricsSink interface {
    IncKcasOp(result string)
    IncKcasHelp()
    IncSetInsert(result string)
    IncSetErase(result string)
    IncSetResize()
    IncSetTxnAbort()
}

// NoopMetrics discards everything; the zero value is ready to use.
type NoopMetrics struct{}

func (NoopMetrics) IncKcasOp(string)    {}
func (NoopMetrics) IncKcasHelp()        {}
func (NoopMetrics) IncSetInsert(string) {}
func (NoopMetrics) IncSetErase(string)  {}
func (NoopMetrics) IncSetResize()       {}
func (NoopMetrics) IncSetTxnAbort()     {}

// PromMetrics is the Prometheus-backed MetricsSink.
type PromMetrics struct {
    kcasOps      *prometheus.CounterVec
    kcasHelp     prometheus.Counter
    setInserts   *prometheus.CounterVec
    setErases    *prometheus.CounterVec
    setResizes   prometheus.Counter
    setTxnAborts prometheus.Counter
}

// NewPromMetrics builds and registers the collectors against reg. Caller
// guarantees reg is non-nil.
func NewPromMetrics(reg *prometheus.Registry) *PromMetrics {
    resultLabel := []string{"result"}

    pm := &PromMetrics{
        kcasOps: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: "lockfree_kcas",
            Name:      "kcas_ops_total",
            Help:      "Number of completed Kcas operations, by result.",
        }, resultLabel),
        kcasHelp: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "lockfree_kcas",
            Name:      "kcas_help_total",
            Help:      "Number of times a thread helped complete another thread's descriptor.",
        }),
        setInserts: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: "lockfree_kcas",
            Name:      "set_insert_total",
            Help:      "Number of InsertIfAbsent calls, by result.",
        }, resultLabel),
        setErases: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: "lockfree_kcas",
            Name:      "set_erase_total",
            Help:      "Number of Erase calls, by result.",
        }, resultLabel),
        setResizes: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "lockfree_kcas",
            Name:      "set_resize_total",
            Help:      "Number of table resizes performed.",
        }),
        setTxnAborts: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "lockfree_kcas",
            Name:      "set_txn_abort_total",
            Help:      "Number of simulated-transaction aborts in the HTM set.",
        }),
    }

    reg.MustRegister(pm.kcasOps, pm.kcasHelp, pm.setInserts, pm.setErases, pm.setResizes, pm.setTxnAborts)
    return pm
}

func (m *PromMetrics) IncKcasOp(result string)    { m.kcasOps.WithLabelValues(result).Inc() }
func (m *PromMetrics) IncKcasHelp()                { m.kcasHelp.Inc() }
func (m *PromMetrics) IncSetInsert(result string) { m.setInserts.WithLabelValues(result).Inc() }
func (m *PromMetrics) IncSetErase(result string)  { m.setErases.WithLabelValues(result).Inc() }
func (m *PromMetrics) IncSetResize()              { m.setResizes.Inc() }
func (m *PromMetrics) IncSetTxnAbort()            { m.setTxnAborts.Inc() }

// NewMetricsSink decides which implementation to use. Passing a nil registry
// disables metrics entirely.
func NewMetricsSink(reg *prometheus.Registry) MetricsSink {
    if reg == nil {
        return NoopMetrics{}
    }
    return NewPromMetrics(reg)
}
