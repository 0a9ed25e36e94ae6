package kcas

import (
	"sync"
	"testing"

	"github.com/Voskan/lockfree-kcas/internal/wordtag"
)

func TestKcasSingleThreadedThreeWords(t *testing.T) {
	e := NewEngine(1, WithMaxK(3))
	var cells [3]wordtag.Cell
	for i := range cells {
		e.WriteInitValue(&cells[i], int64(i))
	}

	d := e.GetDescriptor(0)
	for i := range cells {
		e.AddEntry(d, &cells[i], int64(i), int64(i)+100)
	}
	if !e.Kcas(0, d) {
		t.Fatal("Kcas on matching expected values should succeed")
	}
	for i := range cells {
		if got := e.ReadValue(0, &cells[i]); got != int64(i)+100 {
			t.Fatalf("cell %d = %d, want %d", i, got, int64(i)+100)
		}
	}
}

func TestKcasFailsOnStaleExpected(t *testing.T) {
	e := NewEngine(1)
	var a, b wordtag.Cell
	e.WriteInitValue(&a, 1)
	e.WriteInitValue(&b, 2)

	d := e.GetDescriptor(0)
	e.AddEntry(d, &a, 1, 10)
	e.AddEntry(d, &b, 999, 20) // stale expected value for b

	if e.Kcas(0, d) {
		t.Fatal("Kcas with a stale expected value should fail")
	}
	if got := e.ReadValue(0, &a); got != 1 {
		t.Fatalf("a = %d, want unchanged 1", got)
	}
	if got := e.ReadValue(0, &b); got != 2 {
		t.Fatalf("b = %d, want unchanged 2", got)
	}
}

func TestKcasAllOrNothingUnderConflict(t *testing.T) {
	e := NewEngine(2)
	var a, b wordtag.Cell
	e.WriteInitValue(&a, 0)
	e.WriteInitValue(&b, 0)

	var wg sync.WaitGroup
	results := make([]bool, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		d := e.GetDescriptor(0)
		e.AddEntry(d, &a, 0, 1)
		e.AddEntry(d, &b, 0, 1)
		results[0] = e.Kcas(0, d)
	}()
	go func() {
		defer wg.Done()
		d := e.GetDescriptor(1)
		e.AddEntry(d, &a, 0, 2)
		e.AddEntry(d, &b, 0, 2)
		results[1] = e.Kcas(1, d)
	}()
	wg.Wait()

	if results[0] == results[1] {
		t.Fatalf("exactly one conflicting KCAS should succeed, got %v and %v", results[0], results[1])
	}

	av, bv := e.ReadValue(0, &a), e.ReadValue(0, &b)
	if av != bv {
		t.Fatalf("a=%d and b=%d diverged; KCAS is not all-or-nothing", av, bv)
	}
	if results[0] && (av != 1 || bv != 1) {
		t.Fatalf("thread 0 won but values are a=%d b=%d, want 1,1", av, bv)
	}
	if results[1] && (av != 2 || bv != 2) {
		t.Fatalf("thread 1 won but values are a=%d b=%d, want 2,2", av, bv)
	}
}

// TestKcasHelping checks that ReadValue completes an in-progress descriptor
// on behalf of its owner rather than spinning forever: thread 0 runs a KCAS
// through its own Kcas call while thread 1 concurrently reads both words
// with ReadValue, helping whenever it finds the descriptor installed.
func TestKcasHelping(t *testing.T) {
	e := NewEngine(2)
	var a, b wordtag.Cell
	e.WriteInitValue(&a, 5)
	e.WriteInitValue(&b, 5)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		d := e.GetDescriptor(0)
		e.AddEntry(d, &a, 5, 6)
		e.AddEntry(d, &b, 5, 6)
		e.Kcas(0, d)
	}()
	go func() {
		defer wg.Done()
		// a is read before b, and both move from 5 to 6 in the same KCAS.
		// Seeing a's new value means the KCAS has linearized, so b must
		// show its new value too. The opposite split (a old, b new) is a
		// legal interleaving: the whole KCAS can complete between the two
		// reads.
		for i := 0; i < 1000; i++ {
			av := e.ReadValue(1, &a)
			bv := e.ReadValue(1, &b)
			if av < 5 || av > 6 || bv < 5 || bv > 6 || (av == 6 && bv != 6) {
				t.Errorf("observed a=%d b=%d mid-KCAS; helping broke atomicity", av, bv)
				return
			}
		}
	}()
	wg.Wait()

	if got := e.ReadValue(0, &a); got != 6 {
		t.Fatalf("a = %d, want 6", got)
	}
	if got := e.ReadValue(0, &b); got != 6 {
		t.Fatalf("b = %d, want 6", got)
	}
}

func TestAddEntryPanicsOnOverflow(t *testing.T) {
	e := NewEngine(1, WithMaxK(2))
	var a, b, c wordtag.Cell
	e.WriteInitValue(&a, 0)
	e.WriteInitValue(&b, 0)
	e.WriteInitValue(&c, 0)

	d := e.GetDescriptor(0)
	e.AddEntry(d, &a, 0, 1)
	e.AddEntry(d, &b, 0, 1)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("AddEntry beyond MaxK should panic")
		}
	}()
	e.AddEntry(d, &c, 0, 1)
}

func TestKcasPanicsOnDuplicateAddress(t *testing.T) {
	e := NewEngine(1)
	var a wordtag.Cell
	e.WriteInitValue(&a, 0)

	d := e.GetDescriptor(0)
	e.AddEntry(d, &a, 0, 1)
	e.AddEntry(d, &a, 0, 2)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Kcas with a duplicate address should panic")
		}
	}()
	e.Kcas(0, d)
}
