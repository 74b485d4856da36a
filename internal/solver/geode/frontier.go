package geode

import (
	"container/heap"

	"github.com/napolitain/solver-geode/internal/models"
)

// node is a frontier entry. Parent links let the best path be replayed as a plan
// without copying build histories into every state.
type node struct {
	state    State
	parent   *node
	robot    models.Resource
	priority int
	sequence int64
}

// nodeHeap implements heap.Interface as a max-heap on priority.
// Equal priorities pop the most recently pushed node first, which keeps the search
// depth-first inside a priority level and finds an incumbent early.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].sequence > h[j].sequence
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// frontier is the priority queue of states awaiting expansion.
// It is owned by a single search and needs no locking.
type frontier struct {
	h        nodeHeap
	sequence int64
}

// newFrontier creates an empty frontier
func newFrontier() *frontier {
	f := &frontier{h: make(nodeHeap, 0, 64)}
	heap.Init(&f.h)
	return f
}

// Push adds a node with the given priority
func (f *frontier) Push(n *node, priority int) {
	f.sequence++
	n.priority = priority
	n.sequence = f.sequence
	heap.Push(&f.h, n)
}

// Pop removes and returns the highest-priority node, or nil when empty
func (f *frontier) Pop() *node {
	if len(f.h) == 0 {
		return nil
	}
	return heap.Pop(&f.h).(*node)
}

// Len returns the number of queued nodes
func (f *frontier) Len() int {
	return len(f.h)
}
