package hnsw

import "github.com/atlas-ann/vectorindex/pkg/vectorstore"

// searchLayer needs two priority queues over the same (id, distance)
// pairs: a min-heap frontier to expand outward from, and a max-heap of
// the best results seen so far so the worst one can be evicted in
// O(log ef). Two concrete heap types are clearer than one heap flavored
// by a runtime flag.

// candidateHeap is a min-heap on Distance: the nearest unexplored node
// sits at the root.
type candidateHeap []vectorstore.Result

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h[i].Distance < h[j].Distance }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(vectorstore.Result)) }

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// bestHeap is a max-heap on Distance: the worst of the best-so-far
// results sits at the root, ready to be evicted by a closer candidate.
type bestHeap []vectorstore.Result

func (h bestHeap) Len() int           { return len(h) }
func (h bestHeap) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h bestHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *bestHeap) Push(x interface{}) { *h = append(*h, x.(vectorstore.Result)) }

func (h *bestHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
