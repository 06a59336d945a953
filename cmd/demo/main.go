// Command demo builds a random vector store and HNSW index in-process and
// reports insertion time, search latency, and recall against the
// brute-force oracle. It has no network surface: this library ships as an
// embeddable package, not a service.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/atlas-ann/vectorindex/pkg/hnsw"
	"github.com/atlas-ann/vectorindex/pkg/vectorstore"
)

func main() {
	dimensions := flag.Int("dimensions", 384, "vector dimensions (default: 384 for all-MiniLM-L6-v2)")
	numVectors := flag.Int("vectors", 5000, "number of random vectors to insert")
	k := flag.Int("k", 10, "number of neighbors per query")
	efSearch := flag.Int("ef-search", 100, "candidate list size used at query time")
	m := flag.Int("m", 16, "target out-degree per node per layer")
	efConstruction := flag.Int("ef-construction", 200, "candidate list size used while inserting")
	seed := flag.Int64("seed", 42, "random seed for both vector generation and layer assignment")
	flag.Parse()

	if envDim := os.Getenv("VECTOR_DIMENSIONS"); envDim != "" {
		fmt.Sscanf(envDim, "%d", dimensions)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	logger.Printf("vectorindex demo: dimensions=%d vectors=%d M=%d efConstruction=%d", *dimensions, *numVectors, *m, *efConstruction)

	store, err := vectorstore.New(*dimensions)
	if err != nil {
		log.Fatalf("vectorstore.New: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	start := time.Now()
	for id := uint64(1); id <= uint64(*numVectors); id++ {
		if err := store.AddVector(id, randomVector(rng, *dimensions)); err != nil {
			log.Fatalf("store.AddVector(%d): %v", id, err)
		}
	}
	logger.Printf("loaded %d vectors into store in %s", store.Size(), time.Since(start))

	cfg := hnsw.DefaultConfig()
	cfg.M = *m
	cfg.EfConstruction = *efConstruction
	cfg.Seed = seed
	cfg.Logger = nil // keep per-insert logging off; this driver logs summary stats instead

	idx, err := hnsw.New(store, cfg)
	if err != nil {
		log.Fatalf("hnsw.New: %v", err)
	}

	start = time.Now()
	for id := uint64(1); id <= uint64(*numVectors); id++ {
		if err := idx.AddVector(id); err != nil {
			log.Fatalf("idx.AddVector(%d): %v", id, err)
		}
	}
	buildElapsed := time.Since(start)
	logger.Printf("built index over %d ids in %s (maxLevel=%d)", idx.Size(), buildElapsed, idx.MaxLevel())

	query := randomVector(rng, *dimensions)

	start = time.Now()
	exact, err := store.BruteForceSearch(query, *k)
	if err != nil {
		log.Fatalf("store.BruteForceSearch: %v", err)
	}
	exactElapsed := time.Since(start)

	start = time.Now()
	approx, err := idx.Search(query, *k, *efSearch)
	if err != nil {
		log.Fatalf("idx.Search: %v", err)
	}
	approxElapsed := time.Since(start)

	exactIDs := make(map[uint64]bool, len(exact))
	for _, r := range exact {
		exactIDs[r.ID] = true
	}
	hits := 0
	for _, r := range approx {
		if exactIDs[r.ID] {
			hits++
		}
	}

	logger.Printf("brute-force search: %d results in %s", len(exact), exactElapsed)
	logger.Printf("hnsw search:        %d results in %s (recall@%d = %d/%d)", len(approx), approxElapsed, *k, hits, len(exact))
}

func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	return v
}
