// Command kcasbench is the array-based KCAS benchmark: it spawns a fixed
// number of worker threads that each repeatedly pick K consecutive slots of
// a shared counter array and increment them atomically via pkg/kcas, for a
// configurable duration, then validates that the observed array sum exactly
// matches successful-ops * K. It is the Go port of benchmark_kcas.cpp.
package main

import (
    "fmt"
    "io"
    "os"

    "go.uber.org/zap"

    "github.com/Voskan/lockfree-kcas/internal/harness"
    "github.com/Voskan/lockfree-kcas/pkg/kcas"
    "github.com/Voskan/lockfree-kcas/pkg/kcasarray"
)

func main() {
    os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
    opts, code := harness.ParseBenchFlags("kcasbench", args, out, errOut, "{ lockfree }", true)
    if code != 0 {
        return code
    }

    if opts.KeyRangeSize < opts.K {
        fmt.Fprintf(errOut, "error: --keyrange=%d must be >= --k=%d\n", opts.KeyRangeSize, opts.K)
        return 1
    }
    if opts.Algorithm != "lockfree" {
        fmt.Fprintf(errOut, "error: unknown algorithm %q\n", opts.Algorithm)
        return 1
    }

    logger, _ := zap.NewProduction()
    defer logger.Sync()
    logger.Info("starting kcasbench",
        zap.String("algorithm", opts.Algorithm),
        zap.Int("millisToRun", opts.MillisToRun),
        zap.Int("arraySize", opts.KeyRangeSize),
        zap.Int("threads", opts.NumThreads),
        zap.Int("k", opts.K),
    )

    engine := kcas.NewEngine(opts.NumThreads, kcas.WithMaxK(opts.K))
    arr := kcasarray.New(engine, opts.KeyRangeSize, opts.K)

    totalOps := harness.NewShardedCounter(opts.NumThreads)
    successfulOps := harness.NewShardedCounter(opts.NumThreads)

    exp := harness.NewExperiment(opts.NumThreads, opts.MillisToRun)
    elapsedMillis := exp.Run(func(tid int, rng *harness.Rng, cnt int) {
        ok := arr.AtomicIncrementRandomK(tid, rng)
        totalOps.Inc(tid)
        if ok {
            successfulOps.Inc(tid)
        }
    })

    succeeded := successfulOps.GetTotal()
    total := totalOps.GetTotal()
    sumOfEntries := arr.GetTotal(0)
    expectedSum := succeeded * int64(opts.K)

    fmt.Fprintf(out, "%.3fs\n", float64(elapsedMillis)/1000.0)
    fmt.Fprintf(out, "TOTAL=%d\n", sumOfEntries)
    fmt.Fprintf(out, "Validation: # successful KCAS = %d and K = %d so array sum should be %d.", succeeded, opts.K, expectedSum)
    if expectedSum == sumOfEntries {
        fmt.Fprintln(out, " OK.")
    } else {
        fmt.Fprintln(out, " FAILED.")
    }
    fmt.Fprintln(out)
    fmt.Fprintf(out, "completed ops        : %d\n", total)
    if elapsedMillis > 0 {
        fmt.Fprintf(out, "throughput           : %d\n", total*1000/elapsedMillis)
    }
    fmt.Fprintf(out, "elapsed milliseconds : %d\n", elapsedMillis)

    if expectedSum != sumOfEntries {
        logger.Error("validation failed",
            zap.Int64("successfulOps", succeeded),
            zap.Int64("sumOfEntries", sumOfEntries),
            zap.Int64("expectedSum", expectedSum),
        )
        return 1
    }
    return 0
}
