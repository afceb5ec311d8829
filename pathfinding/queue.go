package pathfinding

// PriorityQueue is an array-backed binary min-heap ordered by a scoring function.
// Items with equal scores come out in no particular order.
type PriorityQueue[T any] struct {
	items  []queueEntry[T]
	scorer func(T) float64
}

type queueEntry[T any] struct {
	item  T
	score float64
}

// NewPriorityQueue creates an empty queue ordered by score. The score of an item is taken
// once, when it is pushed.
func NewPriorityQueue[T any](score func(T) float64) *PriorityQueue[T] {
	return &PriorityQueue[T]{scorer: score}
}

// Len returns the number of queued items.
func (pq *PriorityQueue[T]) Len() int {
	return len(pq.items)
}

// Push inserts an item.
func (pq *PriorityQueue[T]) Push(item T) {
	pq.items = append(pq.items, queueEntry[T]{item: item, score: pq.scorer(item)})
	pq.up(len(pq.items) - 1)
}

// Pop removes and returns the item with the lowest score.
// The boolean is false when the queue is empty.
func (pq *PriorityQueue[T]) Pop() (T, bool) {
	var zero T
	n := len(pq.items)
	if n == 0 {
		return zero, false
	}

	top := pq.items[0]
	pq.items[0] = pq.items[n-1]
	pq.items[n-1] = queueEntry[T]{} // drop the reference
	pq.items = pq.items[:n-1]
	if len(pq.items) > 0 {
		pq.down(0)
	}
	return top.item, true
}

// Peek returns the item with the lowest score without removing it.
func (pq *PriorityQueue[T]) Peek() (T, bool) {
	if len(pq.items) == 0 {
		var zero T
		return zero, false
	}
	return pq.items[0].item, true
}

func (pq *PriorityQueue[T]) up(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if pq.items[i].score >= pq.items[p].score {
			break
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue[T]) down(i int) {
	n := len(pq.items)
	for {
		s, l, r := i, 2*i+1, 2*i+2
		if l < n && pq.items[l].score < pq.items[s].score {
			s = l
		}
		if r < n && pq.items[r].score < pq.items[s].score {
			s = r
		}
		if s == i {
			break
		}
		pq.items[i], pq.items[s] = pq.items[s], pq.items[i]
		i = s
	}
}
