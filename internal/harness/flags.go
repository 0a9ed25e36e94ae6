package harness

import (
    "fmt"
    "io"

    flag "github.com/spf13/pflag"
)

// BenchOptions is the shared CLI surface of cmd/kcasbench and cmd/setbench,
// mirroring the -a/-t/-s/-n[/-k] flags of benchmark_kcas.cpp /
// benchmark_set.cpp.
type BenchOptions struct {
    Algorithm    string
    MillisToRun  int
    KeyRangeSize int
    NumThreads   int
    K            int // only meaningful when RequireK is set; 0 otherwise
}

// ParseBenchFlags parses args (typically os.Args[1:]) into a BenchOptions,
// writing usage text to out on missing args and errors to errOut. progName
// is used only in the usage banner. requireK additionally parses and
// validates -k/--k (kcasbench's "how many slots per KCAS" knob); setbench
// leaves it false and never sees the flag reported as missing.
func ParseBenchFlags(progName string, args []string, out, errOut io.Writer, algHelp string, requireK bool) (BenchOptions, int) {
    fs := flag.NewFlagSet(progName, flag.ContinueOnError)
    fs.SetOutput(io.Discard)

    alg := fs.StringP("algorithm", "a", "", "algorithm name in "+algHelp)
    millis := fs.IntP("millis", "t", -1, "milliseconds to run")
    keyRange := fs.IntP("keyrange", "s", 0, "size of the key range (or array) to operate on")
    threads := fs.IntP("threads", "n", 0, "number of worker threads")
    k := fs.IntP("k", "k", 0, "number of slots touched per KCAS (kcasbench only)")

    if len(args) == 0 {
        printBenchUsage(out, progName, algHelp, requireK)
        return BenchOptions{}, 1
    }

    if err := fs.Parse(args); err != nil {
        fmt.Fprintln(errOut, "error:", err)
        return BenchOptions{}, 1
    }

    if *alg == "" {
        fmt.Fprintln(errOut, "error: must specify --algorithm")
        return BenchOptions{}, 1
    }
    if *threads <= 0 {
        fmt.Fprintln(errOut, "error: --threads must be positive")
        return BenchOptions{}, 1
    }
    if *millis <= 0 {
        fmt.Fprintln(errOut, "error: --millis must be positive")
        return BenchOptions{}, 1
    }
    if *keyRange <= 0 {
        fmt.Fprintln(errOut, "error: --keyrange must be positive")
        return BenchOptions{}, 1
    }
    if requireK && *k < 2 {
        fmt.Fprintln(errOut, "error: --k must be at least 2")
        return BenchOptions{}, 1
    }

    return BenchOptions{
        Algorithm:    *alg,
        MillisToRun:  *millis,
        KeyRangeSize: *keyRange,
        NumThreads:   *threads,
        K:            *k,
    }, 0
}

func printBenchUsage(out io.Writer, progName, algHelp string, requireK bool) {
    fmt.Fprintf(out, "USAGE: %s [options]\n", progName)
    fmt.Fprintln(out, "Options:")
    fmt.Fprintln(out, "    -a, --algorithm string   algorithm name in", algHelp)
    fmt.Fprintln(out, "    -t, --millis int         milliseconds to run")
    fmt.Fprintln(out, "    -s, --keyrange int       size of the key range (or array) to operate on")
    fmt.Fprintln(out, "    -n, --threads int        number of worker threads")
    if requireK {
        fmt.Fprintln(out, "    -k, --k int              number of slots touched per KCAS")
        fmt.Fprintf(out, "\nExample: %s -a lockfree -t 1000 -s 1000000 -n 8 -k 4\n", progName)
        return
    }
    fmt.Fprintf(out, "\nExample: %s -a lockfree -t 5000 -s 1000000 -n 8\n", progName)
}
