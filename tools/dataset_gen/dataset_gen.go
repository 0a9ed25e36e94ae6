// Command dataset_gen emits deterministic key datasets for setbench, so a
// performance regression can be rerun against the exact same keys. It is
// adapted from the teacher's tools/dataset_gen, retargeted from uint64
// cache keys to the bounded [1, keyrange] key space pkg/lockfreeset and
// pkg/htmset operate over.
//
// Usage:
//
//	go run ./tools/dataset_gen -n 1000000 -dist=zipf -keyrange=1000000 -seed=42 -out keys.txt
//
// Flags:
//
//	-n        number of keys to generate (default 1e6)
//	-dist     distribution: "uniform" or "zipf" (default uniform)
//	-keyrange keys are drawn from [1, keyrange] (default 1e6)
//	-zipfs    Zipf s parameter (>1)  (default 1.2)
//	-zipfv    Zipf v parameter (>0)  (default 1.0)
//	-seed     RNG seed (default 42, for reproducible runs)
//	-out      output file (default stdout)
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut *os.File) int {
	fs := flag.NewFlagSet("dataset_gen", flag.ContinueOnError)
	fs.SetOutput(errOut)

	n := fs.Int("n", 1_000_000, "number of keys to generate")
	dist := fs.String("dist", "uniform", "distribution: uniform or zipf")
	keyRange := fs.Int64("keyrange", 1_000_000, "keys are drawn from [1, keyrange]")
	zipfS := fs.Float64("zipfs", 1.2, "zipf s parameter (>1)")
	zipfV := fs.Float64("zipfv", 1.0, "zipf v parameter (>0)")
	seed := fs.Int64("seed", 42, "PRNG seed")
	outPath := fs.String("out", "", "output file (default stdout)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *keyRange <= 0 {
		fmt.Fprintln(errOut, "error: --keyrange must be positive")
		return 1
	}

	rnd := rand.New(rand.NewSource(*seed))

	var gen func() int64
	switch *dist {
	case "uniform":
		gen = func() int64 { return rnd.Int63n(*keyRange) + 1 }
	case "zipf":
		if *zipfS <= 1.0 || *zipfV <= 0 {
			fmt.Fprintln(errOut, "error: zipfs must be >1 and zipfv >0")
			return 1
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, uint64(*keyRange-1))
		gen = func() int64 { return int64(z.Uint64()) + 1 }
	default:
		fmt.Fprintln(errOut, "error: unknown dist:", *dist)
		return 1
	}

	w := out
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(errOut, "error: cannot create file:", err)
			return 1
		}
		defer f.Close()
		w = f
	}

	bw := bufio.NewWriterSize(w, 1<<20)
	defer bw.Flush()

	for i := 0; i < *n; i++ {
		fmt.Fprintln(bw, gen())
	}
	return 0
}
