package datastructure

import (
	"errors"
)

// PriorityQueueNode. rank is the primary key, tie breaks equal ranks.
type PriorityQueueNode[T any] struct {
	rank float64
	tie  Index
	item T
}

func (p *PriorityQueueNode[T]) GetItem() T {
	return p.item
}

func (p *PriorityQueueNode[T]) GetRank() float64 {
	return p.rank
}

func (p *PriorityQueueNode[T]) GetTie() Index {
	return p.tie
}

func NewPriorityQueueNode[T any](rank float64, tie Index, item T) *PriorityQueueNode[T] {
	return &PriorityQueueNode[T]{rank: rank, tie: tie, item: item}
}

// greater orders by (rank, tie).
func (p *PriorityQueueNode[T]) greater(o *PriorityQueueNode[T]) bool {
	if p.rank != o.rank {
		return p.rank > o.rank
	}
	return p.tie > o.tie
}

// MaxHeap d-ary max-heap on (rank, tie). used as the "k best so far" set of a
// nearest-neighbour search: the root is the current worst candidate.
type MaxHeap[T any] struct {
	heap []*PriorityQueueNode[T]
	d    int
}

func NewBinaryHeap[T any]() *MaxHeap[T] {
	return NewdAryHeap[T](2)
}

func NewFourAryHeap[T any]() *MaxHeap[T] {
	return NewdAryHeap[T](4)
}

func NewdAryHeap[T any](d int) *MaxHeap[T] {
	return &MaxHeap[T]{
		heap: make([]*PriorityQueueNode[T], 0),
		d:    d,
	}
}

func (h *MaxHeap[T]) Preallocate(maxSize int) {
	h.heap = make([]*PriorityQueueNode[T], 0, maxSize)
}

func (h *MaxHeap[T]) parent(index int) int {
	return (index - 1) / h.d
}

// heapifyUp swap with the parent while the parent is smaller. O(log n)
func (h *MaxHeap[T]) heapifyUp(index int) {
	for index != 0 && h.heap[index].greater(h.heap[h.parent(index)]) {
		h.Swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown swap with the largest child while it is larger. O(d log n)
func (h *MaxHeap[T]) heapifyDown(index int) {
	for {
		leftMostChild := index*h.d + 1
		if leftMostChild >= len(h.heap) {
			return
		}

		sentinel := leftMostChild + h.d
		if sentinel > len(h.heap) {
			sentinel = len(h.heap)
		}

		largest := leftMostChild
		for i := leftMostChild + 1; i < sentinel; i++ {
			if h.heap[i].greater(h.heap[largest]) {
				largest = i
			}
		}

		if !h.heap[largest].greater(h.heap[index]) {
			return
		}
		h.Swap(index, largest)
		index = largest
	}
}

func (h *MaxHeap[T]) Swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
}

func (h *MaxHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

func (h *MaxHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MaxHeap[T]) Clear() {
	h.heap = h.heap[:0]
}

func (h *MaxHeap[T]) GetMax() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return &PriorityQueueNode[T]{}, errors.New("heap is empty")
	}
	return h.heap[0], nil
}

func (h *MaxHeap[T]) Insert(key *PriorityQueueNode[T]) {
	h.heap = append(h.heap, key)
	h.heapifyUp(h.Size() - 1)
}

func (h *MaxHeap[T]) ExtractMax() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return &PriorityQueueNode[T]{}, errors.New("heap is empty")
	}
	root := h.heap[0]

	h.Swap(0, h.Size()-1)
	h.heap = h.heap[:h.Size()-1]
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}

	return root, nil
}

// Offer keeps at most limit nodes: key is inserted while there is room,
// otherwise it replaces the root when it ranks lower. returns true if kept.
func (h *MaxHeap[T]) Offer(key *PriorityQueueNode[T], limit int) bool {
	if limit <= 0 {
		return false
	}
	if h.Size() < limit {
		h.Insert(key)
		return true
	}
	if !h.heap[0].greater(key) {
		return false
	}
	h.heap[0] = key
	h.heapifyDown(0)
	return true
}

// DrainAscending empties the heap and returns its nodes from lowest to highest.
func (h *MaxHeap[T]) DrainAscending() []*PriorityQueueNode[T] {
	out := make([]*PriorityQueueNode[T], h.Size())
	for i := len(out) - 1; i >= 0; i-- {
		out[i], _ = h.ExtractMax()
	}
	return out
}
