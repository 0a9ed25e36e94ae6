// Command setbench drives either the purely lock-free hash set
// (pkg/lockfreeset) or the HTM-flavored one (pkg/htmset) through a mixed
// insert/erase workload for a configurable duration, then validates the
// quiescent sum of keys against the running per-thread tallies. It is the
// Go port of benchmark_set.cpp.
package main

import (
    "fmt"
    "io"
    "os"

    "go.uber.org/zap"

    "github.com/Voskan/lockfree-kcas/internal/harness"
    "github.com/Voskan/lockfree-kcas/pkg/htmset"
    "github.com/Voskan/lockfree-kcas/pkg/lockfreeset"
)

func main() {
    os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
    opts, code := harness.ParseBenchFlags("setbench", args, out, errOut, "{ lockfree, htmhash }", false)
    if code != 0 {
        return code
    }

    logger, _ := zap.NewProduction()
    defer logger.Sync()
    logger.Info("starting setbench",
        zap.String("algorithm", opts.Algorithm),
        zap.Int("millisToRun", opts.MillisToRun),
        zap.Int("keyRangeSize", opts.KeyRangeSize),
        zap.Int("threads", opts.NumThreads),
    )

    var (
        insertOp func(tid int, key int64) bool
        eraseOp  func(tid int, key int64) bool
        sumOp    func() int64
        printOp  func(io.Writer)
    )

    switch opts.Algorithm {
    case "lockfree":
        s := lockfreeset.New(opts.NumThreads, opts.KeyRangeSize)
        insertOp = s.InsertIfAbsent
        eraseOp = s.Erase
        sumOp = s.SumOfKeys
        printOp = s.PrintDebuggingDetails
    case "htmhash":
        s := htmset.New(opts.NumThreads, opts.KeyRangeSize)
        insertOp = func(tid int, key int64) bool { return s.InsertIfAbsent(tid, key) == 1 }
        eraseOp = s.Erase
        sumOp = s.SumOfKeys
        printOp = s.PrintDebuggingDetails
    default:
        fmt.Fprintf(errOut, "error: unknown algorithm %q\n", opts.Algorithm)
        return 1
    }

    threadsSumOfKeys := harness.NewShardedCounter(opts.NumThreads)

    exp := harness.NewExperiment(opts.NumThreads, opts.MillisToRun)
    elapsedMillis := exp.Run(func(tid int, rng *harness.Rng, cnt int) {
        key := int64(rng.Intn(opts.KeyRangeSize) + 1)
        if cnt%2 == 0 {
            if insertOp(tid, key) {
                threadsSumOfKeys.Add(tid, key)
            }
        } else {
            if eraseOp(tid, key) {
                threadsSumOfKeys.Add(tid, -key)
            }
        }
    })

    dsSumOfKeys := sumOp()
    trackedSum := threadsSumOfKeys.GetTotal()

    fmt.Fprintf(out, "%.3fs\n", float64(elapsedMillis)/1000.0)
    printOp(out)
    fmt.Fprintf(out, "ds sum of keys      : %d\n", dsSumOfKeys)
    fmt.Fprintf(out, "tracked sum of keys : %d\n", trackedSum)
    fmt.Fprintf(out, "elapsed milliseconds: %d\n", elapsedMillis)

    if trackedSum != dsSumOfKeys {
        logger.Error("validation failed",
            zap.Int64("dsSumOfKeys", dsSumOfKeys),
            zap.Int64("trackedSum", trackedSum),
        )
        fmt.Fprintln(out, "ERROR: validation failed!")
        return 1
    }
    fmt.Fprintln(out, "Validation: OK.")
    return 0
}
