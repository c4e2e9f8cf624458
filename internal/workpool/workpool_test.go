package workpool

import (
	"sync/atomic"
	"testing"
)

func TestRunForVisitsEveryIndexExactlyOnce(t *testing.T) {
	p := New(8)
	const n = 10000
	var seen [n]int32
	p.RunFor(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})
	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, v)
		}
	}
}

func TestRunForZeroCountIsNoop(t *testing.T) {
	p := New(4)
	called := false
	p.RunFor(0, func(i int) { called = true })
	if called {
		t.Fatalf("expected RunFor(0, ...) to call fn zero times")
	}
}

func TestReduceIsOrderIndependentOfScheduling(t *testing.T) {
	p := New(16)
	const n = 500
	sum := Reduce(p, n, 0, func(i int) int { return i }, func(acc, v int) int { return acc + v })
	want := n * (n - 1) / 2
	if sum != want {
		t.Fatalf("got %d, want %d", sum, want)
	}
}
