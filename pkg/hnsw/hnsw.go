// Package hnsw implements a Hierarchical Navigable Small World graph: a
// multi-layer proximity graph over vectors that gives approximate nearest
// neighbor search in expected O(log n) instead of the O(n) of brute-force
// scan, at the cost of exactness.
//
// Reference: "Efficient and robust approximate nearest neighbor search
// using Hierarchical Navigable Small World graphs" by Malkov & Yashunin
// (2016).
package hnsw

import (
	"container/heap"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/atlas-ann/vectorindex/pkg/distance"
	"github.com/atlas-ann/vectorindex/pkg/vectorerr"
	"github.com/atlas-ann/vectorindex/pkg/vectorstore"
)

// node is a single id's position in the graph: the layer it was promoted
// to at insertion (immutable thereafter) and one adjacency list per layer
// from 0 up to that level, inclusive.
type node struct {
	id        uint64
	level     int
	neighbors [][]uint64 // neighbors[layer] = ids connected at that layer
}

// Index is a Hierarchical Navigable Small World graph built over the ids
// of a vectorstore.Store. The index borrows the store rather than copying
// payloads; the store must outlive the index.
//
// An Index is safe for concurrent use: AddVector takes a write lock,
// Search and the read-only accessors take a read lock. A caller doing a
// check-then-insert sequence across multiple calls must still hold its
// own lock across that sequence.
type Index struct {
	mu    sync.RWMutex
	store *vectorstore.Store
	nodes map[uint64]*node

	entryPoint uint64
	maxLevel   int // -1 when empty

	m              int
	efConstruction int
	mL             float64
	rng            *rand.Rand
	distFn         distance.Func
	logger         Logger
}

// New creates an empty Index over store. Fails with InvalidArgument if
// cfg.M < 2 or cfg.EfConstruction < cfg.M.
func New(store *vectorstore.Store, cfg Config) (*Index, error) {
	if cfg.M < 2 {
		return nil, vectorerr.Wrap(vectorerr.InvalidArgument, "hnsw.New",
			fmt.Errorf("M must be >= 2, got %d", cfg.M))
	}
	if cfg.EfConstruction < cfg.M {
		return nil, vectorerr.Wrap(vectorerr.InvalidArgument, "hnsw.New",
			fmt.Errorf("EfConstruction (%d) must be >= M (%d)", cfg.EfConstruction, cfg.M))
	}

	distFn := cfg.Distance
	if distFn == nil {
		distFn = distance.CosineDistance
	}

	var rng *rand.Rand
	if cfg.Seed != nil {
		rng = rand.New(rand.NewSource(*cfg.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Index{
		store:          store,
		nodes:          make(map[uint64]*node),
		maxLevel:       -1,
		m:              cfg.M,
		efConstruction: cfg.EfConstruction,
		mL:             1.0 / math.Log(float64(cfg.M)),
		rng:            rng,
		distFn:         distFn,
		logger:         cfg.Logger,
	}, nil
}

// AddVector makes id, which must already be present in the backing store,
// searchable. Fails with NotFound if id is absent from the store, or
// DuplicateID if it has already been added to this index. On failure the
// index is left unchanged: the store lookup is preflighted before any
// node or edge is created.
//
// Time Complexity: O(log n) expected.
func (idx *Index) AddVector(id uint64) error {
	vec, err := idx.store.GetVector(id)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.nodes[id]; exists {
		return vectorerr.Wrap(vectorerr.DuplicateID, "hnsw.AddVector",
			fmt.Errorf("id %d already present in index", id))
	}

	level := idx.selectLevel()
	n := &node{id: id, level: level, neighbors: make([][]uint64, level+1)}
	for i := range n.neighbors {
		n.neighbors[i] = []uint64{}
	}
	idx.nodes[id] = n

	// First insertion: no neighbors to connect.
	if idx.maxLevel == -1 {
		idx.entryPoint = id
		idx.maxLevel = level
		idx.logf("hnsw: added id=%d level=%d entry=true", id, level)
		return nil
	}

	cursor := idx.entryPoint

	// Descend layers above this node's level with a greedy beam of 1.
	for l := idx.maxLevel; l > level; l-- {
		nearest, err := idx.searchLayer(vec, []uint64{cursor}, 1, l)
		if err != nil {
			delete(idx.nodes, id)
			return err
		}
		if len(nearest) > 0 {
			cursor = nearest[0].ID
		}
	}

	// Attach at every layer from min(level, maxLevel) down to 0.
	top := level
	if idx.maxLevel < top {
		top = idx.maxLevel
	}
	prunedNeighbors := 0
	for l := top; l >= 0; l-- {
		candidates, err := idx.searchLayer(vec, []uint64{cursor}, idx.efConstruction, l)
		if err != nil {
			delete(idx.nodes, id)
			return err
		}

		numConnections := idx.m
		if numConnections > len(candidates) {
			numConnections = len(candidates)
		}

		n.neighbors[l] = make([]uint64, 0, numConnections)
		for i := 0; i < numConnections; i++ {
			neighborID := candidates[i].ID
			n.neighbors[l] = append(n.neighbors[l], neighborID)

			neighbor := idx.nodes[neighborID]
			neighbor.neighbors[l] = append(neighbor.neighbors[l], id)
			if len(neighbor.neighbors[l]) > idx.m {
				idx.pruneConnections(neighbor, l)
				prunedNeighbors++
			}
		}

		if len(candidates) > 0 {
			cursor = candidates[0].ID
		}
	}

	if level > idx.maxLevel {
		idx.entryPoint = id
		idx.maxLevel = level
	}

	idx.logf("hnsw: added id=%d level=%d layers_touched=%d pruned=%d", id, level, top+1, prunedNeighbors)
	return nil
}

// Search returns the k approximate nearest neighbors of query, ascending
// by distance. Fails with DimensionMismatch if len(query) does not match
// the backing store's dimension. efSearch is clamped up to k internally,
// matching the spec's "efSearch < k behaves as if it were k" rule.
//
// Time Complexity: O(log n) expected.
func (idx *Index) Search(query []float32, k, efSearch int) ([]vectorstore.Result, error) {
	if len(query) != idx.store.Dimension() {
		return nil, vectorerr.Wrap(vectorerr.DimensionMismatch, "hnsw.Search",
			fmt.Errorf("expected dimension %d, got %d", idx.store.Dimension(), len(query)))
	}
	if k <= 0 {
		return nil, vectorerr.Wrap(vectorerr.InvalidArgument, "hnsw.Search",
			fmt.Errorf("k must be > 0, got %d", k))
	}
	if efSearch <= 0 {
		return nil, vectorerr.Wrap(vectorerr.InvalidArgument, "hnsw.Search",
			fmt.Errorf("efSearch must be > 0, got %d", efSearch))
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.maxLevel == -1 {
		return []vectorstore.Result{}, nil
	}

	cursor := idx.entryPoint
	for l := idx.maxLevel; l > 0; l-- {
		nearest, err := idx.searchLayer(query, []uint64{cursor}, 1, l)
		if err != nil {
			return nil, err
		}
		if len(nearest) > 0 {
			cursor = nearest[0].ID
		}
	}

	ef := efSearch
	if k > ef {
		ef = k
	}

	results, err := idx.searchLayer(query, []uint64{cursor}, ef, 0)
	if err != nil {
		return nil, err
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// searchLayer performs best-first beam search within a single layer,
// starting from entryPoints and returning up to ef results sorted
// ascending by distance. It is the core primitive reused by both
// insertion (descending upper layers, attaching lower ones) and query.
//
// Each node's distance to query is computed at most once per call. The
// caller must hold idx.mu (read or write); searchLayer itself takes no
// lock.
func (idx *Index) searchLayer(query []float32, entryPoints []uint64, ef int, layer int) ([]vectorstore.Result, error) {
	visited := make(map[uint64]bool, ef*2)

	candidates := &candidateHeap{}
	results := &bestHeap{}
	heap.Init(candidates)
	heap.Init(results)

	for _, ep := range entryPoints {
		if visited[ep] {
			continue
		}
		visited[ep] = true

		vec, err := idx.store.GetVector(ep)
		if err != nil {
			return nil, err
		}
		d, err := idx.distFn(query, vec)
		if err != nil {
			return nil, err
		}

		heap.Push(candidates, vectorstore.Result{ID: ep, Distance: d})
		heap.Push(results, vectorstore.Result{ID: ep, Distance: d})
	}

	for candidates.Len() > 0 {
		closest := heap.Pop(candidates).(vectorstore.Result)

		// No remaining candidate can beat the current worst result.
		if results.Len() >= ef && closest.Distance > (*results)[0].Distance {
			break
		}

		n := idx.nodes[closest.ID]
		if n == nil || layer >= len(n.neighbors) {
			continue
		}

		for _, neighborID := range n.neighbors[layer] {
			if visited[neighborID] {
				continue
			}
			visited[neighborID] = true

			neighborVec, err := idx.store.GetVector(neighborID)
			if err != nil {
				return nil, err
			}
			d, err := idx.distFn(query, neighborVec)
			if err != nil {
				return nil, err
			}

			if results.Len() < ef || d < (*results)[0].Distance {
				heap.Push(candidates, vectorstore.Result{ID: neighborID, Distance: d})
				heap.Push(results, vectorstore.Result{ID: neighborID, Distance: d})
				if results.Len() > ef {
					heap.Pop(results)
				}
			}
		}
	}

	out := make([]vectorstore.Result, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(results).(vectorstore.Result)
	}
	return out, nil
}

// pruneConnections keeps only n's M closest neighbors at layer, by
// distance to n's own vector. The edge just added is considered on equal
// terms with the existing ones, so it can be the one evicted.
func (idx *Index) pruneConnections(n *node, layer int) {
	neighbors := n.neighbors[layer]
	if len(neighbors) <= idx.m {
		return
	}

	ownVec, err := idx.store.GetVector(n.id)
	if err != nil {
		panic(fmt.Sprintf("hnsw: invariant violated: node %d missing from store: %v", n.id, err))
	}

	type scoredNeighbor struct {
		id   uint64
		dist float32
	}
	scored := make([]scoredNeighbor, 0, len(neighbors))
	for _, nb := range neighbors {
		nbVec, err := idx.store.GetVector(nb)
		if err != nil {
			panic(fmt.Sprintf("hnsw: invariant violated: neighbor %d missing from store: %v", nb, err))
		}
		d, err := idx.distFn(ownVec, nbVec)
		if err != nil {
			panic(fmt.Sprintf("hnsw: invariant violated: cannot score neighbor %d: %v", nb, err))
		}
		scored = append(scored, scoredNeighbor{id: nb, dist: d})
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].dist < scored[j].dist })

	kept := make([]uint64, idx.m)
	for i := 0; i < idx.m; i++ {
		kept[i] = scored[i].id
	}
	n.neighbors[layer] = kept
}

// selectLevel draws r in (0, 1] uniformly and returns floor(-ln(r) * mL),
// yielding P(level >= L) = M^-L: an exponentially thinning population of
// higher layers.
func (idx *Index) selectLevel() int {
	r := 1 - idx.rng.Float64() // rand.Float64 is [0,1); shift to (0,1]
	return int(math.Floor(-math.Log(r) * idx.mL))
}

func (idx *Index) logf(format string, args ...any) {
	if idx.logger != nil {
		idx.logger.Printf(format, args...)
	}
}

// Size returns the number of ids added to the index.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.nodes)
}

// Dimension returns the dimension of the backing store.
func (idx *Index) Dimension() int {
	return idx.store.Dimension()
}

// MaxLevel returns the current maximum layer across all nodes, or -1 if
// the index is empty.
func (idx *Index) MaxLevel() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.maxLevel
}

// EntryPoint returns the current entry point id and true, or (0, false)
// if the index is empty.
func (idx *Index) EntryPoint() (uint64, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.maxLevel == -1 {
		return 0, false
	}
	return idx.entryPoint, true
}
