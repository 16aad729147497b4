// Package vectortypes provides the sample model and vector kernels shared by
// every layout strategy.
package vectortypes

import (
	"errors"
	"fmt"
)

// F32 is a type alias for []float32 to make it more expressive
type F32 = []float32

// ErrDimensionMismatch is returned when two vectors of differing length meet
// in a distance or projection function.
var ErrDimensionMismatch = errors.New("vectors must have the same length")

// DistanceType represents the type of distance function to use
type DistanceType string

const (
	// Cosine distance
	Cosine DistanceType = "cosine"
	// Euclidean distance
	Euclidean DistanceType = "euclidean"
)

// DistanceFunc is a function that computes the distance between two vectors.
type DistanceFunc func(a, b F32) (float64, error)

// GetDistanceFuncByType returns the appropriate DistanceFunc for the given DistanceType
func GetDistanceFuncByType(distType DistanceType) DistanceFunc {
	switch distType {
	case Euclidean:
		return EuclideanDistance
	case Cosine:
		return CosineDistance
	default:
		return CosineDistance // Default to cosine
	}
}

// Distance calculates the distance between two vectors using the specified distance type
func Distance(a, b F32, distType DistanceType) (float64, error) {
	return GetDistanceFuncByType(distType)(a, b)
}

// Tier classifies a sample as primary map content or reference basemap content.
type Tier int

const (
	// TierPrimary marks samples the user placed on the map.
	TierPrimary Tier = iota
	// TierBase marks basemap samples; PCA can be restricted to these.
	TierBase
)

// String returns the short label used in sample files.
func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "map"
	case TierBase:
		return "base"
	default:
		return "unknown"
	}
}

// ParseTier converts a label ("map"/"m" or "base"/"b") into a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "map", "m", "primary", "":
		return TierPrimary, nil
	case "base", "b", "basemap":
		return TierBase, nil
	default:
		return TierPrimary, fmt.Errorf("unknown tier %q", s)
	}
}

// Sample is one text item with its embedding.
type Sample struct {
	ID     string
	Vector F32
	Tier   Tier
}

// Point is a 2-D layout coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Coords maps sample IDs to layout coordinates.
type Coords map[string]Point

// Clone returns a copy of the coordinate map.
func (c Coords) Clone() Coords {
	out := make(Coords, len(c))
	for id, p := range c {
		out[id] = p
	}
	return out
}

// Vectors returns the sample vectors in sample order.
func Vectors(samples []Sample) []F32 {
	out := make([]F32, len(samples))
	for i, s := range samples {
		out[i] = s.Vector
	}
	return out
}

// IndexOf returns the position of the sample with the given ID, or -1.
func IndexOf(samples []Sample, id string) int {
	for i, s := range samples {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// CheckDimensions verifies that two vectors have the same dimensions
func CheckDimensions(a, b F32) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return nil
}

// CheckSampleDimensions verifies that every sample shares the first sample's dimension.
func CheckSampleDimensions(samples []Sample) error {
	if len(samples) == 0 {
		return nil
	}
	dim := len(samples[0].Vector)
	for _, s := range samples[1:] {
		if len(s.Vector) != dim {
			return fmt.Errorf("%w: sample %q has %d dimensions, expected %d",
				ErrDimensionMismatch, s.ID, len(s.Vector), dim)
		}
	}
	return nil
}
