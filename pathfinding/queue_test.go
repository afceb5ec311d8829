package pathfinding

import (
	"math/rand"
	"sort"
	"testing"
)

func TestPriorityQueue_Empty(t *testing.T) {
	pq := NewPriorityQueue(func(v int) float64 { return float64(v) })

	if pq.Len() != 0 {
		t.Errorf("Len() = %d, want 0", pq.Len())
	}
	if _, ok := pq.Pop(); ok {
		t.Error("Pop() on empty queue returned a value")
	}
	if _, ok := pq.Peek(); ok {
		t.Error("Peek() on empty queue returned a value")
	}
}

func TestPriorityQueue_Order(t *testing.T) {
	pq := NewPriorityQueue(func(v int) float64 { return float64(v) })

	for _, v := range []int{5, 3, 8, 1, 9, 2, 7} {
		pq.Push(v)
	}

	if top, _ := pq.Peek(); top != 1 {
		t.Errorf("Peek() = %d, want 1", top)
	}
	if pq.Len() != 7 {
		t.Errorf("Peek changed the length: %d", pq.Len())
	}

	want := []int{1, 2, 3, 5, 7, 8, 9}
	for i, w := range want {
		got, ok := pq.Pop()
		if !ok {
			t.Fatalf("Pop() %d returned nothing", i)
		}
		if got != w {
			t.Errorf("Pop() %d = %d, want %d", i, got, w)
		}
	}
}

func TestPriorityQueue_CustomScore(t *testing.T) {
	type job struct {
		name     string
		priority float64
	}
	pq := NewPriorityQueue(func(j job) float64 { return j.priority })

	pq.Push(job{"low", 10})
	pq.Push(job{"high", -1})
	pq.Push(job{"mid", 3.5})

	first, _ := pq.Pop()
	if first.name != "high" {
		t.Errorf("first = %s, want high", first.name)
	}
}

func TestPriorityQueue_RandomizedAgainstSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pq := NewPriorityQueue(func(v float64) float64 { return v })

	var values []float64
	for i := 0; i < 500; i++ {
		v := rng.Float64() * 1000
		values = append(values, v)
		pq.Push(v)

		// Interleave some pops to exercise down-heap on a partially filled array
		if i%7 == 0 {
			sort.Float64s(values)
			got, _ := pq.Pop()
			if got != values[0] {
				t.Fatalf("interleaved Pop() = %v, want %v", got, values[0])
			}
			values = values[1:]
		}
	}

	sort.Float64s(values)
	for _, want := range values {
		got, _ := pq.Pop()
		if got != want {
			t.Fatalf("Pop() = %v, want %v", got, want)
		}
	}
	if pq.Len() != 0 {
		t.Errorf("queue not drained: %d left", pq.Len())
	}
}
