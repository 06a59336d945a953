// Package vectorstore owns vector payloads keyed by a stable id and
// provides exact brute-force cosine search. It defines the distance
// semantics and the recall oracle the HNSW index in pkg/hnsw is measured
// against.
package vectorstore

import (
	"container/heap"
	"fmt"
	"sync"

	"github.com/atlas-ann/vectorindex/pkg/distance"
	"github.com/atlas-ann/vectorindex/pkg/vectorerr"
)

// Result pairs an id with its distance to some query, ascending order
// meaning closer.
type Result struct {
	ID       uint64
	Distance float32
}

// Store owns a fixed-dimension set of vectors keyed by id. Ids are
// client-chosen uint64s; there is no reserved "absent" value, including 0.
//
// A Store is safe for concurrent use: AddVector takes a write lock, all
// read operations take a read lock.
type Store struct {
	mu      sync.RWMutex
	vectors map[uint64][]float32
	dim     int
}

// New creates an empty Store for vectors of the given dimension. Fails
// with InvalidArgument if dimension <= 0.
func New(dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, vectorerr.Wrap(vectorerr.InvalidArgument, "vectorstore.New",
			fmt.Errorf("dimension must be > 0, got %d", dimension))
	}
	return &Store{
		vectors: make(map[uint64][]float32),
		dim:     dimension,
	}, nil
}

// AddVector stores a copy of v under id. Fails with DimensionMismatch if
// len(v) != s.Dimension(), or DuplicateID if id is already present. On
// failure the store is left unchanged.
func (s *Store) AddVector(id uint64, v []float32) error {
	if len(v) != s.dim {
		return vectorerr.Wrap(vectorerr.DimensionMismatch, "vectorstore.AddVector",
			fmt.Errorf("expected dimension %d, got %d", s.dim, len(v)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vectors[id]; exists {
		return vectorerr.Wrap(vectorerr.DuplicateID, "vectorstore.AddVector",
			fmt.Errorf("id %d already present", id))
	}

	stored := make([]float32, len(v))
	copy(stored, v)
	s.vectors[id] = stored
	return nil
}

// Contains reports whether id is present.
func (s *Store) Contains(id uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.vectors[id]
	return exists
}

// GetVector returns a borrowed view of the vector stored under id. The
// returned slice must not be mutated by the caller. Fails with NotFound
// if id is absent.
func (s *Store) GetVector(id uint64) ([]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, exists := s.vectors[id]
	if !exists {
		return nil, vectorerr.Wrap(vectorerr.NotFound, "vectorstore.GetVector",
			fmt.Errorf("id %d not found", id))
	}
	return v, nil
}

// Size returns the number of stored vectors.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Dimension returns the fixed dimension D of this store.
func (s *Store) Dimension() int {
	return s.dim
}

// BruteForceSearch returns the exact top-k vectors by cosine distance to
// query, ascending. Requires len(query) == Dimension(). Returns up to
// min(k, Size()) results; the empty store returns the empty sequence.
//
// This is the recall oracle pkg/hnsw is measured against. A bounded
// max-heap of size k keeps the working set at O(k) rather than sorting
// all N candidates, while producing the same set and order as a full sort
// on the top k.
//
// Time Complexity: O(N*D + N*log(k))
func (s *Store) BruteForceSearch(query []float32, k int) ([]Result, error) {
	if len(query) != s.dim {
		return nil, vectorerr.Wrap(vectorerr.DimensionMismatch, "vectorstore.BruteForceSearch",
			fmt.Errorf("expected dimension %d, got %d", s.dim, len(query)))
	}
	if k <= 0 {
		return nil, vectorerr.Wrap(vectorerr.InvalidArgument, "vectorstore.BruteForceSearch",
			fmt.Errorf("k must be > 0, got %d", k))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vectors) == 0 {
		return []Result{}, nil
	}

	// Max-heap on distance: the worst-so-far sits at the root, so a
	// better candidate can evict it in O(log k).
	h := &resultHeap{}
	heap.Init(h)

	for id, vec := range s.vectors {
		dist, err := distance.CosineDistance(query, vec)
		if err != nil {
			return nil, vectorerr.Wrap(vectorerr.ZeroMagnitude, "vectorstore.BruteForceSearch", err)
		}

		if h.Len() < k {
			heap.Push(h, Result{ID: id, Distance: dist})
		} else if dist < (*h)[0].Distance {
			heap.Pop(h)
			heap.Push(h, Result{ID: id, Distance: dist})
		}
	}

	results := make([]Result, h.Len())
	for i := len(results) - 1; i >= 0; i-- {
		results[i] = heap.Pop(h).(Result)
	}
	return results, nil
}

// resultHeap is a max-heap over Result.Distance: the worst (largest)
// distance sits at the root so BruteForceSearch can evict it cheaply.
type resultHeap []Result

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].Distance > h[j].Distance }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(Result)) }

func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
