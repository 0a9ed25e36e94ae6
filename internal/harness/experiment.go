package harness

import (
    "context"

    "golang.org/x/sync/errgroup"
)

// defaultOpsBetweenTimeChecks amortizes the cost of checking the clock, the
// same way the original benchmark only samples time once every 500 ops.
const defaultOpsBetweenTimeChecks = 500

// Experiment drives a fixed-duration, fixed-thread-count workload through
// the Barrier, the way runExperiment<T> does in benchmark_kcas.cpp /
// benchmark_set.cpp. It owns one Rng per worker, seeded i+1 (seed 0 would
// make the xorshift generator produce an all-zero stream forever).
type Experiment struct {
    NumThreads           int
    MillisToRun          int
    OpsBetweenTimeChecks int // defaults to 500 when <= 0

    barrier *Barrier
    timer   ElapsedTimer
    rngs    []*Rng
}

// NewExperiment constructs an Experiment ready to Run.
func NewExperiment(numThreads, millisToRun int) *Experiment {
    rngs := make([]*Rng, numThreads)
    for i := range rngs {
        rngs[i] = NewRng(uint32(i + 1))
    }
    return &Experiment{
        NumThreads:  numThreads,
        MillisToRun: millisToRun,
        barrier:     &Barrier{},
        rngs:        rngs,
    }
}

// Op is one worker's per-iteration body: perform one operation against the
// data structure under test using its own Rng, and report whatever the
// caller needs to validate correctness afterward (the harness does not
// interpret the return value; callers close over their own accumulators).
type Op func(tid int, rng *Rng, iteration int)

// Run launches NumThreads goroutines via an errgroup, aligns them on the
// start barrier, lets them run Op until MillisToRun has elapsed (checked
// every OpsBetweenTimeChecks iterations by whichever worker samples the
// clock first), and returns the measured elapsed time once every worker has
// stopped.
func (e *Experiment) Run(op Op) (elapsedMillis int64) {
    opsBetween := e.OpsBetweenTimeChecks
    if opsBetween <= 0 {
        opsBetween = defaultOpsBetweenTimeChecks
    }

    g, _ := errgroup.WithContext(context.Background())
    for tid := 0; tid < e.NumThreads; tid++ {
        tid := tid
        g.Go(func() error {
            e.barrier.WorkerReady()
            e.barrier.WaitToStart()
            for cnt := 0; !e.barrier.IsDone(); cnt++ {
                if cnt%opsBetween == 0 && e.timer.ElapsedMillis() >= int64(e.MillisToRun) {
                    e.barrier.SetDone()
                }
                op(tid, e.rngs[tid], cnt)
            }
            e.barrier.WorkerDone()
            return nil
        })
    }

    e.barrier.WaitForWorkers(e.NumThreads)
    e.timer.Start()
    e.barrier.Release()
    e.barrier.WaitForQuiescence()
    elapsedMillis = e.timer.ElapsedMillis()

    _ = g.Wait() // workers never return an error
    return elapsedMillis
}
