package kcasarray

import (
	"sync"
	"testing"

	"github.com/Voskan/lockfree-kcas/internal/harness"
	"github.com/Voskan/lockfree-kcas/pkg/kcas"
)

func TestNewArrayIsZeroed(t *testing.T) {
	engine := kcas.NewEngine(1)
	arr := New(engine, 8, 2)
	if got := arr.GetTotal(0); got != 0 {
		t.Fatalf("GetTotal() on a fresh array = %d, want 0", got)
	}
}

func TestAtomicIncrementRandomKIncreasesTotalByK(t *testing.T) {
	const k = 3
	engine := kcas.NewEngine(1)
	arr := New(engine, 16, k)
	rng := harness.NewRng(1)

	for i := 0; i < 100; i++ {
		before := arr.GetTotal(0)
		if !arr.AtomicIncrementRandomK(0, rng) {
			t.Fatalf("iteration %d: single-threaded increment should never fail", i)
		}
		after := arr.GetTotal(0)
		if after != before+k {
			t.Fatalf("iteration %d: total went from %d to %d, want +%d", i, before, after, k)
		}
	}
}

func TestConcurrentIncrementsSumMatchesSuccessfulOpsTimesK(t *testing.T) {
	const (
		numThreads = 4
		arraySize  = 32
		k          = 4
		opsPerGo   = 2000
	)
	engine := kcas.NewEngine(numThreads, kcas.WithMaxK(k))
	arr := New(engine, arraySize, k)

	var wg sync.WaitGroup
	succeeded := make([]int64, numThreads)
	wg.Add(numThreads)
	for tid := 0; tid < numThreads; tid++ {
		go func(tid int) {
			defer wg.Done()
			rng := harness.NewRng(uint32(tid) + 1)
			for i := 0; i < opsPerGo; i++ {
				if arr.AtomicIncrementRandomK(tid, rng) {
					succeeded[tid]++
				}
			}
		}(tid)
	}
	wg.Wait()

	var total int64
	for _, s := range succeeded {
		total += s
	}
	want := total * k
	if got := arr.GetTotal(0); got != want {
		t.Fatalf("GetTotal() = %d, want %d (successful ops * k)", got, want)
	}
}
