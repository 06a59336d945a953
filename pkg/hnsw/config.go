package hnsw

import "github.com/atlas-ann/vectorindex/pkg/distance"

// Logger is the narrow instrumentation seam AddVector reports through. A
// *log.Logger satisfies it without an adapter. A nil Logger (the default)
// means the index stays silent.
type Logger interface {
	Printf(format string, args ...any)
}

// Config holds construction parameters for an Index.
type Config struct {
	// M is the target out-degree per node per layer. Must be >= 2.
	// Typical value: 16.
	M int

	// EfConstruction is the candidate-list size used while attaching a
	// new node to its neighbors. Must be >= M. Typical value: 200.
	EfConstruction int

	// Distance is the capability the graph searches and prunes by. Nil
	// defaults to distance.CosineDistance — the only metric this module
	// ships (see distance.Func for why the seam exists anyway).
	Distance distance.Func

	// Seed, when non-nil, makes layer assignment deterministic. Intended
	// for tests and reproducible benchmarks; production callers should
	// leave it nil so the index seeds from a nondeterministic source.
	Seed *int64

	// Logger, when non-nil, receives one line per completed AddVector
	// call describing the level assigned and neighbors touched.
	Logger Logger
}

// DefaultConfig returns the HNSW parameters suggested by the literature
// for moderate-dimensional embeddings: M=16, EfConstruction=200.
func DefaultConfig() Config {
	return Config{
		M:              16,
		EfConstruction: 200,
	}
}
