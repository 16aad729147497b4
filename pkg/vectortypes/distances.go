package vectortypes

import (
	"math"
)

// Standard distance functions for vector similarity

// CosineSimilarity calculates the cosine of the angle between vectors.
// A zero-magnitude vector has similarity 0 with everything.
func CosineSimilarity(a, b F32) (float64, error) {
	if err := CheckDimensions(a, b); err != nil {
		return 0, err
	}

	var dotProduct, magnitudeA, magnitudeB float64
	for i := 0; i < len(a); i++ {
		dotProduct += float64(a[i]) * float64(b[i])
		magnitudeA += float64(a[i]) * float64(a[i])
		magnitudeB += float64(b[i]) * float64(b[i])
	}

	// Guard against divide-by-zero
	if magnitudeA == 0 || magnitudeB == 0 {
		return 0, nil
	}

	similarity := dotProduct / (math.Sqrt(magnitudeA) * math.Sqrt(magnitudeB))
	// Clamp similarity to [-1, 1] to account for floating point errors
	return clamp(similarity, -1, 1), nil
}

// CosineDistance calculates the cosine distance between vectors
// Lower value means more similar vectors (0 being identical)
func CosineDistance(a, b F32) (float64, error) {
	similarity, err := CosineSimilarity(a, b)
	if err != nil {
		return 0, err
	}
	return 1.0 - similarity, nil
}

// EuclideanDistance calculates the Euclidean distance between vectors
func EuclideanDistance(a, b F32) (float64, error) {
	if err := CheckDimensions(a, b); err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < len(a); i++ {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}

	return math.Sqrt(sum), nil
}

// AngleBetween returns the angle in radians between two vectors.
func AngleBetween(a, b F32) (float64, error) {
	similarity, err := CosineSimilarity(a, b)
	if err != nil {
		return 0, err
	}
	return math.Acos(clamp(similarity, -1, 1)), nil
}

// Dot returns the dot product of two vectors.
func Dot(a, b F32) (float64, error) {
	if err := CheckDimensions(a, b); err != nil {
		return 0, err
	}

	var dotProduct float64
	for i := 0; i < len(a); i++ {
		dotProduct += float64(a[i]) * float64(b[i])
	}
	return dotProduct, nil
}

// VectorSubtract subtracts vector b from vector a
func VectorSubtract(a, b F32) (F32, error) {
	if err := CheckDimensions(a, b); err != nil {
		return nil, err
	}

	result := make(F32, len(a))
	for i := 0; i < len(a); i++ {
		result[i] = a[i] - b[i]
	}
	return result, nil
}

// VectorMagnitude calculates the magnitude (Euclidean norm) of a vector.
func VectorMagnitude(v F32) float64 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	return math.Sqrt(sumSquares)
}

// NormalizeVector normalizes a vector to unit length.
// The zero vector is returned unchanged.
func NormalizeVector(v F32) F32 {
	magnitude := VectorMagnitude(v)

	// Avoid division by zero
	if magnitude == 0 {
		return v
	}

	normalized := make(F32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}

	return normalized
}

// ProjectOntoLine returns the scalar coordinate of point along the unit
// direction from p1 to p2, measured from p1. Coincident p1 and p2 give 0.
func ProjectOntoLine(point, p1, p2 F32) (float64, error) {
	direction, err := VectorSubtract(p2, p1)
	if err != nil {
		return 0, err
	}
	offset, err := VectorSubtract(point, p1)
	if err != nil {
		return 0, err
	}
	return Dot(offset, NormalizeVector(direction))
}

// PolarToCartesian converts a radius and angle in radians to a Point.
func PolarToCartesian(r, theta float64) Point {
	return Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}
