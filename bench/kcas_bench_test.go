// Package bench provides reproducible micro-benchmarks for the KCAS engine
// and the two concurrent hash sets. Run via:
//
//	go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// NOTE: unit tests live alongside each package; this file is only for
// performance.
package bench

import (
	"math/rand"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/Voskan/lockfree-kcas/internal/harness"
	"github.com/Voskan/lockfree-kcas/pkg/kcas"
	"github.com/Voskan/lockfree-kcas/pkg/kcasarray"
)

const (
	kcasArraySize = 1 << 16
	kcasK         = 4
)

func newBenchArray(numThreads int) (*kcas.Engine, *kcasarray.Array) {
	engine := kcas.NewEngine(numThreads, kcas.WithMaxK(kcasK))
	arr := kcasarray.New(engine, kcasArraySize, kcasK)
	return engine, arr
}

func BenchmarkKcasIncrement(b *testing.B) {
	_, arr := newBenchArray(1)
	rng := harness.NewRng(42)
	b.ReportAllocs()
	b.ResetTimer()
	var succeeded int
	for i := 0; i < b.N; i++ {
		if arr.AtomicIncrementRandomK(0, rng) {
			succeeded++
		}
	}
	b.ReportMetric(float64(succeeded)/float64(b.N)*100, "success-%")
}

func BenchmarkKcasIncrementParallel(b *testing.B) {
	procs := runtime.GOMAXPROCS(0)
	_, arr := newBenchArray(procs)
	b.ReportAllocs()
	b.ResetTimer()

	var tid atomic.Int32
	b.RunParallel(func(pb *testing.PB) {
		my := int(tid.Add(1)-1) % procs
		rng := harness.NewRng(uint32(my) + 1)
		for pb.Next() {
			arr.AtomicIncrementRandomK(my, rng)
		}
	})
}

func BenchmarkKcasReadValue(b *testing.B) {
	_, arr := newBenchArray(1)
	rng := harness.NewRng(7)
	for i := 0; i < 10_000; i++ {
		arr.AtomicIncrementRandomK(0, rng)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		arr.GetTotal(0)
	}
}

func init() {
	rand.Seed(42)
}
