package distance

import (
	"math"
	"testing"

	"github.com/atlas-ann/vectorindex/pkg/vectorerr"
)

func approxEqual(a, b, epsilon float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < epsilon
}

func TestDot(t *testing.T) {
	v1 := []float32{1, 2, 3}
	v2 := []float32{4, 5, 6}

	got, err := Dot(v1, v2)
	if err != nil {
		t.Fatalf("Dot returned error: %v", err)
	}
	if !approxEqual(got, 32.0, 1e-5) {
		t.Errorf("Dot(%v, %v) = %f, want 32.0", v1, v2, got)
	}
}

func TestDotDimensionMismatch(t *testing.T) {
	_, err := Dot([]float32{1, 2}, []float32{1, 2, 3})
	if !vectorerr.Is(err, vectorerr.DimensionMismatch) {
		t.Fatalf("expected DimensionMismatch, got %v", err)
	}
}

func TestMagnitude(t *testing.T) {
	v := []float32{1, 2, 3}
	got := Magnitude(v)
	want := float32(math.Sqrt(14))
	if !approxEqual(got, want, 1e-5) {
		t.Errorf("Magnitude(%v) = %f, want %f", v, got, want)
	}
}

func TestMagnitudeZeroVector(t *testing.T) {
	if got := Magnitude([]float32{0, 0, 0}); got != 0 {
		t.Errorf("Magnitude(zero vector) = %f, want 0", got)
	}
}

func TestCosineIdentical(t *testing.T) {
	a := []float32{1, 2, 3}
	got, err := Cosine(a, a)
	if err != nil {
		t.Fatalf("Cosine returned error: %v", err)
	}
	if !approxEqual(got, 1.0, 1e-5) {
		t.Errorf("Cosine(a, a) = %f, want 1.0", got)
	}
}

func TestCosineOrthogonal(t *testing.T) {
	got, err := Cosine([]float32{1, 0, 0}, []float32{0, 1, 0})
	if err != nil {
		t.Fatalf("Cosine returned error: %v", err)
	}
	if !approxEqual(got, 0.0, 1e-5) {
		t.Errorf("Cosine of orthogonal vectors = %f, want 0.0", got)
	}
}

func TestCosineZeroMagnitude(t *testing.T) {
	_, err := Cosine([]float32{1, 0, 0}, []float32{0, 0, 0})
	if !vectorerr.Is(err, vectorerr.ZeroMagnitude) {
		t.Fatalf("expected ZeroMagnitude, got %v", err)
	}
}

func TestCosineDimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 0, 0}, []float32{0, 0})
	if !vectorerr.Is(err, vectorerr.DimensionMismatch) {
		t.Fatalf("expected DimensionMismatch, got %v", err)
	}
}

func TestCosineDistance(t *testing.T) {
	got, err := CosineDistance([]float32{1, 0, 0}, []float32{1, 0, 0})
	if err != nil {
		t.Fatalf("CosineDistance returned error: %v", err)
	}
	if !approxEqual(got, 0.0, 1e-5) {
		t.Errorf("CosineDistance(a, a) = %f, want 0.0", got)
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	v := []float32{3, 4, 0}
	if err := Normalize(v); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if got := Magnitude(v); !approxEqual(got, 1.0, 1e-5) {
		t.Errorf("Magnitude after Normalize = %f, want 1.0", got)
	}
}

func TestNormalizeZeroMagnitude(t *testing.T) {
	v := []float32{0, 0, 0}
	err := Normalize(v)
	if !vectorerr.Is(err, vectorerr.ZeroMagnitude) {
		t.Fatalf("expected ZeroMagnitude, got %v", err)
	}
	// failed normalize must not mutate v
	for _, x := range v {
		if x != 0 {
			t.Fatalf("Normalize mutated v on failure: %v", v)
		}
	}
}
