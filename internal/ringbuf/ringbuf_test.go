package ringbuf

import (
	"sync"
	"testing"
)

func TestNewRoundsCapacity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want int
	}{
		{in: -1, want: 2},
		{in: 0, want: 2},
		{in: 2, want: 2},
		{in: 3, want: 4},
		{in: 64, want: 64},
		{in: 65, want: 128},
	}

	for _, tt := range tests {
		q := New[int](tt.in)
		if q.Cap() != tt.want {
			t.Fatalf("New(%d).Cap() = %d, want %d", tt.in, q.Cap(), tt.want)
		}
	}
}

func TestPushPopFIFO(t *testing.T) {
	t.Parallel()

	q := New[int](8)
	for i := range 8 {
		if !q.Push(i) {
			t.Fatalf("Push(%d) = false, want true", i)
		}
	}

	if q.Push(99) {
		t.Fatal("Push on full queue = true, want false")
	}

	if q.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", q.Len())
	}

	for i := range 8 {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("Pop() = (%d, %v), want (%d, true)", v, ok, i)
		}
	}

	if _, ok := q.Pop(); ok {
		t.Fatal("Pop on empty queue = true, want false")
	}
}

func TestPopClearsSlot(t *testing.T) {
	t.Parallel()

	q := New[*int](2)
	v := 5
	q.Push(&v)
	q.Pop()

	if q.slots[0] != nil {
		t.Fatal("slot still references popped value")
	}
}

func TestWrapAround(t *testing.T) {
	t.Parallel()

	q := New[int](4)
	for round := range 100 {
		for i := range 3 {
			if !q.Push(round*3 + i) {
				t.Fatalf("round %d: Push failed", round)
			}
		}

		for i := range 3 {
			v, ok := q.Pop()
			if !ok || v != round*3+i {
				t.Fatalf("round %d: Pop() = (%d, %v), want %d", round, v, ok, round*3+i)
			}
		}
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	t.Parallel()

	const total = 100000

	q := New[int](64)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 0; i < total; {
			if q.Push(i) {
				i++
			}
		}
	}()

	next := 0
	for next < total {
		v, ok := q.Pop()
		if !ok {
			continue
		}

		if v != next {
			t.Fatalf("Pop() = %d, want %d", v, next)
		}

		next++
	}

	wg.Wait()
}
