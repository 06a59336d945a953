package vectorstore

import (
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

func TestNewRejectsZeroDimension(t *testing.T) {
	if _, err := New(0); !vectorerr.Is(err, vectorerr.InvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestEmptyStoreSearch(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	results, err := s.BruteForceSearch([]float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("BruteForceSearch returned error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results on empty store, got %d", len(results))
	}
	if s.Size() != 0 {
		t.Errorf("expected Size() == 0, got %d", s.Size())
	}
}

func TestAddSingleVector(t *testing.T) {
	s, _ := New(3)
	if err := s.AddVector(1, []float32{1, 2, 3}); err != nil {
		t.Fatalf("AddVector returned error: %v", err)
	}

	if s.Size() != 1 {
		t.Errorf("expected Size() == 1, got %d", s.Size())
	}
	if !s.Contains(1) {
		t.Error("expected Contains(1) == true")
	}
	if s.Contains(2) {
		t.Error("expected Contains(2) == false")
	}

	v, err := s.GetVector(1)
	if err != nil {
		t.Fatalf("GetVector returned error: %v", err)
	}
	if len(v) != 3 || !approxEqual(v[0], 1, 1e-5) || !approxEqual(v[1], 2, 1e-5) || !approxEqual(v[2], 3, 1e-5) {
		t.Errorf("GetVector(1) = %v, want [1 2 3]", v)
	}
}

func TestAddVectorCopiesPayload(t *testing.T) {
	s, _ := New(3)
	vec := []float32{1, 2, 3}
	if err := s.AddVector(1, vec); err != nil {
		t.Fatalf("AddVector returned error: %v", err)
	}

	vec[0] = 999 // mutate the caller's slice after insertion
	stored, _ := s.GetVector(1)
	if stored[0] != 1 {
		t.Errorf("store aliased the caller's slice: got %v", stored)
	}
}

// E1/E2 from the spec's end-to-end scenarios.
func TestBruteForceSearchE1E2(t *testing.T) {
	s, _ := New(3)
	_ = s.AddVector(1, []float32{1, 0, 0})
	_ = s.AddVector(2, []float32{0, 1, 0})
	_ = s.AddVector(3, []float32{0, 0, 1})

	results, err := s.BruteForceSearch([]float32{1, 0.1, 0}, 1)
	if err != nil {
		t.Fatalf("BruteForceSearch returned error: %v", err)
	}
	if len(results) != 1 || results[0].ID != 1 {
		t.Fatalf("E1: expected single result id=1, got %v", results)
	}

	_ = s.AddVector(4, []float32{1 / float32(1.41421356), 1 / float32(1.41421356), 0})
	_ = s.AddVector(5, []float32{0, 1 / float32(1.41421356), 1 / float32(1.41421356)})

	results, err = s.BruteForceSearch([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("BruteForceSearch returned error: %v", err)
	}
	if len(results) != 2 || results[0].ID != 1 || results[1].ID != 4 {
		t.Fatalf("E2: expected ids (1, 4), got %v", results)
	}
	if !approxEqual(results[0].Distance, 0, 1e-4) {
		t.Errorf("E2: expected distance of id=1 ~= 0, got %f", results[0].Distance)
	}
}

func TestSearchReturnsCorrectTopK(t *testing.T) {
	s, _ := New(3)
	_ = s.AddVector(1, []float32{1, 0, 0})
	_ = s.AddVector(2, []float32{0.9, 0.1, 0})
	_ = s.AddVector(3, []float32{0.8, 0.2, 0})
	_ = s.AddVector(4, []float32{0, 1, 0})
	_ = s.AddVector(5, []float32{0, 0, 1})

	query := []float32{1, 0, 0}

	if results, _ := s.BruteForceSearch(query, 3); len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	results, _ := s.BruteForceSearch(query, 10)
	if len(results) != 5 {
		t.Errorf("expected 5 results when k > size, got %d", len(results))
	}

	results, _ = s.BruteForceSearch(query, 1)
	if len(results) != 1 || results[0].ID != 1 {
		t.Errorf("expected exact match id=1 first, got %v", results)
	}

	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Fatalf("results not sorted ascending: %v", results)
		}
	}
}

// E3 from the spec's end-to-end scenarios.
func TestAddVectorDimensionMismatch(t *testing.T) {
	s, _ := New(3)
	err := s.AddVector(1, []float32{1, 2})
	if !vectorerr.Is(err, vectorerr.DimensionMismatch) {
		t.Fatalf("expected DimensionMismatch, got %v", err)
	}
	if s.Size() != 0 {
		t.Errorf("expected Size() == 0 after failed insert, got %d", s.Size())
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	s, _ := New(3)
	_, err := s.BruteForceSearch([]float32{1, 2}, 5)
	if !vectorerr.Is(err, vectorerr.DimensionMismatch) {
		t.Fatalf("expected DimensionMismatch, got %v", err)
	}
}

// E4 from the spec's end-to-end scenarios.
func TestDuplicateIDHandling(t *testing.T) {
	s, _ := New(3)
	_ = s.AddVector(1, []float32{1, 2, 3})

	err := s.AddVector(1, []float32{4, 5, 6})
	if !vectorerr.Is(err, vectorerr.DuplicateID) {
		t.Fatalf("expected DuplicateID, got %v", err)
	}

	v, getErr := s.GetVector(1)
	if getErr != nil {
		t.Fatalf("GetVector returned error: %v", getErr)
	}
	if !approxEqual(v[0], 1, 1e-5) {
		t.Errorf("original vector was overwritten: %v", v)
	}
}

func TestGetNonexistentVector(t *testing.T) {
	s, _ := New(3)
	_, err := s.GetVector(999)
	if !vectorerr.Is(err, vectorerr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
