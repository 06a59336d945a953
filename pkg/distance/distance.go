// Package distance provides the numerical primitives the rest of this
// module orders candidates by: dot product, magnitude, cosine similarity,
// and in-place normalization.
//
// These are deliberately hand-rolled rather than pulled from a BLAS-style
// dependency — the module targets plain float32 slices of a few hundred to
// a few thousand dimensions, and a SIMD kernel is out of scope for this
// module.
package distance

import (
	"fmt"
	"math"

	"github.com/atlas-ann/vectorindex/pkg/vectorerr"
)

// zeroThreshold is the magnitude below which a vector is treated as the
// zero vector for cosine purposes.
const zeroThreshold = 1e-6

// Func is the capability the HNSW graph code depends on instead of calling
// CosineDistance directly. The module wires exactly one concrete value,
// CosineDistance, but the seam lets an embedder swap metrics without
// forking the search/insert loops.
type Func func(a, b []float32) (float32, error)

// Dot returns the sum of elementwise products of a and b.
//
// Time Complexity: O(n) where n is the vector dimension.
func Dot(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, vectorerr.Wrap(vectorerr.DimensionMismatch, "distance.Dot",
			fmt.Errorf("len(a)=%d != len(b)=%d", len(a), len(b)))
	}

	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Magnitude returns the Euclidean norm of v. It never fails: the zero
// vector has magnitude 0.
func Magnitude(v []float32) float32 {
	var sumOfSquares float32
	for _, x := range v {
		sumOfSquares += x * x
	}
	return float32(math.Sqrt(float64(sumOfSquares)))
}

// Cosine returns the cosine similarity of a and b, in [-1, 1] up to
// floating rounding. Fails with DimensionMismatch on unequal lengths and
// with ZeroMagnitude if either vector's magnitude is below 1e-6.
func Cosine(a, b []float32) (float32, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}

	magA, magB := Magnitude(a), Magnitude(b)
	if magA < zeroThreshold || magB < zeroThreshold {
		return 0, vectorerr.New(vectorerr.ZeroMagnitude, "distance.Cosine")
	}

	return dot / (magA * magB), nil
}

// CosineDistance returns 1 - Cosine(a, b), the value the store and the
// HNSW index order candidates by: 0 means identical direction, 2 means
// opposite.
func CosineDistance(a, b []float32) (float32, error) {
	sim, err := Cosine(a, b)
	if err != nil {
		return 0, err
	}
	return 1 - sim, nil
}

// Normalize divides v by its own magnitude, in place. Fails with
// ZeroMagnitude if the magnitude is below 1e-6, leaving v untouched.
func Normalize(v []float32) error {
	mag := Magnitude(v)
	if mag < zeroThreshold {
		return vectorerr.New(vectorerr.ZeroMagnitude, "distance.Normalize")
	}

	for i, x := range v {
		v[i] = x / mag
	}
	return nil
}
