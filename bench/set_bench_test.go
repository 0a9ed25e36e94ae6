package bench

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/Voskan/lockfree-kcas/internal/harness"
	"github.com/Voskan/lockfree-kcas/pkg/htmset"
	"github.com/Voskan/lockfree-kcas/pkg/lockfreeset"
)

const setKeyRange = 1 << 16

func BenchmarkLockfreeSetInsert(b *testing.B) {
	s := lockfreeset.New(1, setKeyRange)
	rng := harness.NewRng(42)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.InsertIfAbsent(0, int64(rng.Intn(setKeyRange)+1))
	}
}

func BenchmarkLockfreeSetInsertParallel(b *testing.B) {
	procs := runtime.GOMAXPROCS(0)
	s := lockfreeset.New(procs, setKeyRange)
	b.ReportAllocs()
	b.ResetTimer()

	var tid atomic.Int32
	b.RunParallel(func(pb *testing.PB) {
		my := int(tid.Add(1)-1) % procs
		rng := harness.NewRng(uint32(my) + 1)
		for pb.Next() {
			key := int64(rng.Intn(setKeyRange) + 1)
			if i := rng.Intn(2); i == 0 {
				s.InsertIfAbsent(my, key)
			} else {
				s.Erase(my, key)
			}
		}
	})
}

func BenchmarkHtmSetInsertParallel(b *testing.B) {
	procs := runtime.GOMAXPROCS(0)
	s := htmset.New(procs, setKeyRange)
	b.ReportAllocs()
	b.ResetTimer()

	var tid atomic.Int32
	b.RunParallel(func(pb *testing.PB) {
		my := int(tid.Add(1)-1) % procs
		rng := harness.NewRng(uint32(my) + 1)
		for pb.Next() {
			key := int64(rng.Intn(setKeyRange) + 1)
			if i := rng.Intn(2); i == 0 {
				s.InsertIfAbsent(my, key)
			} else {
				s.Erase(my, key)
			}
		}
	})
}
