package vectortypes

import (
	"errors"
	"math"
	"testing"
)

func floatEquals(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name     string
		vecA     F32
		vecB     F32
		expected float64
	}{
		{
			name:     "Identical Vectors",
			vecA:     F32{1, 0, 0},
			vecB:     F32{1, 0, 0},
			expected: 0,
		},
		{
			name:     "Perpendicular Vectors",
			vecA:     F32{1, 0, 0},
			vecB:     F32{0, 1, 0},
			expected: 1,
		},
		{
			name:     "Opposite Vectors",
			vecA:     F32{1, 0, 0},
			vecB:     F32{-1, 0, 0},
			expected: 2,
		},
		{
			name:     "Scaled Vectors",
			vecA:     F32{1, 2, 3},
			vecB:     F32{2, 4, 6},
			expected: 0,
		},
		{
			name:     "Zero Vector",
			vecA:     F32{0, 0, 0},
			vecB:     F32{1, 0, 0},
			expected: 1, // no direction, so no similarity
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CosineDistance(tt.vecA, tt.vecB)
			if err != nil {
				t.Fatalf("CosineDistance returned error: %v", err)
			}
			if !floatEquals(result, tt.expected, 1e-6) {
				t.Errorf("CosineDistance(%v, %v) = %v, want %v", tt.vecA, tt.vecB, result, tt.expected)
			}
		})
	}
}

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name     string
		vecA     F32
		vecB     F32
		expected float64
	}{
		{"Identical Vectors", F32{1, 0, 0}, F32{1, 0, 0}, 0},
		{"Unit Vectors", F32{1, 0, 0}, F32{0, 1, 0}, math.Sqrt(2)},
		{"3D Vectors", F32{1, 2, 3}, F32{4, 5, 6}, math.Sqrt(27)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EuclideanDistance(tt.vecA, tt.vecB)
			if err != nil {
				t.Fatalf("EuclideanDistance returned error: %v", err)
			}
			if !floatEquals(result, tt.expected, 1e-6) {
				t.Errorf("EuclideanDistance(%v, %v) = %v, want %v", tt.vecA, tt.vecB, result, tt.expected)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	vectors := []F32{
		{0.1, 0.2, 0.3},
		{-0.5, 0.4, 0.9},
		{1, 1, 1},
		{0.7, -0.2, 0.05},
	}

	for _, metric := range []DistanceType{Cosine, Euclidean} {
		for i := range vectors {
			self, err := Distance(vectors[i], vectors[i], metric)
			if err != nil {
				t.Fatalf("Distance returned error: %v", err)
			}
			if !floatEquals(self, 0, 1e-6) {
				t.Errorf("%s distance of a vector to itself = %v, want 0", metric, self)
			}
			for j := range vectors {
				ab, _ := Distance(vectors[i], vectors[j], metric)
				ba, _ := Distance(vectors[j], vectors[i], metric)
				if ab != ba {
					t.Errorf("%s distance not symmetric for %d,%d: %v != %v", metric, i, j, ab, ba)
				}
			}
		}
	}
}

func TestDimensionMismatch(t *testing.T) {
	a := F32{1, 2, 3}
	b := F32{1, 2}

	checks := map[string]func() error{
		"Euclidean": func() error { _, err := EuclideanDistance(a, b); return err },
		"Cosine":    func() error { _, err := CosineDistance(a, b); return err },
		"Angle":     func() error { _, err := AngleBetween(a, b); return err },
		"Dot":       func() error { _, err := Dot(a, b); return err },
		"Subtract":  func() error { _, err := VectorSubtract(a, b); return err },
		"Project":   func() error { _, err := ProjectOntoLine(a, a, b); return err },
	}

	for name, check := range checks {
		if err := check(); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("%s: expected ErrDimensionMismatch, got %v", name, err)
		}
	}
}

func TestAngleBetween(t *testing.T) {
	angle, err := AngleBetween(F32{1, 0}, F32{0, 1})
	if err != nil {
		t.Fatalf("AngleBetween returned error: %v", err)
	}
	if !floatEquals(angle, math.Pi/2, 1e-9) {
		t.Errorf("AngleBetween perpendicular = %v, want %v", angle, math.Pi/2)
	}

	// Nearly parallel float32 vectors can overshoot 1 before clamping.
	angle, err = AngleBetween(F32{0.1, 0.1, 0.1}, F32{0.1, 0.1, 0.1})
	if err != nil {
		t.Fatalf("AngleBetween returned error: %v", err)
	}
	if math.IsNaN(angle) || !floatEquals(angle, 0, 1e-3) {
		t.Errorf("AngleBetween identical = %v, want 0", angle)
	}
}

func TestProjectOntoLine(t *testing.T) {
	p1 := F32{0, 0}
	p2 := F32{2, 0}

	tests := []struct {
		name     string
		point    F32
		expected float64
	}{
		{"At Start", F32{0, 0}, 0},
		{"At End", F32{2, 0}, 2},
		{"Off Axis", F32{1, 5}, 1},
		{"Behind Start", F32{-3, 1}, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProjectOntoLine(tt.point, p1, p2)
			if err != nil {
				t.Fatalf("ProjectOntoLine returned error: %v", err)
			}
			if !floatEquals(got, tt.expected, 1e-9) {
				t.Errorf("ProjectOntoLine(%v) = %v, want %v", tt.point, got, tt.expected)
			}
		})
	}

	got, err := ProjectOntoLine(F32{3, 4}, F32{1, 1}, F32{1, 1})
	if err != nil || got != 0 {
		t.Errorf("coincident anchors: got %v, %v; want 0, nil", got, err)
	}
}

func TestPolarToCartesian(t *testing.T) {
	p := PolarToCartesian(2, math.Pi/2)
	if !floatEquals(p.X, 0, 1e-9) || !floatEquals(p.Y, 2, 1e-9) {
		t.Errorf("PolarToCartesian(2, pi/2) = %+v, want (0, 2)", p)
	}
}

func TestNormalizeVector(t *testing.T) {
	n := NormalizeVector(F32{3, 4})
	if !floatEquals(VectorMagnitude(n), 1, 1e-6) {
		t.Errorf("normalized magnitude = %v, want 1", VectorMagnitude(n))
	}

	zero := F32{0, 0}
	if got := NormalizeVector(zero); got[0] != 0 || got[1] != 0 {
		t.Errorf("NormalizeVector(zero) = %v, want zero", got)
	}
}
