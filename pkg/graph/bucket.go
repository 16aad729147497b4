package graph

// Bucket is a coarse visual weight for a graph edge. Lighter edges (smaller
// cosine distance) draw thicker.
type Bucket int

const (
	// Thin edges are at or above the first threshold.
	Thin Bucket = iota
	// Medium edges fall between the thresholds.
	Medium
	// Thick edges are below the second threshold.
	Thick
)

// DefaultBucketThresholds are the cut points between Thin/Medium and Medium/Thick.
var DefaultBucketThresholds = [2]float64{0.125, 0.0625}

// BucketWeight classifies an edge weight against descending thresholds.
func BucketWeight(weight float64, thresholds [2]float64) Bucket {
	switch {
	case weight >= thresholds[0]:
		return Thin
	case weight >= thresholds[1]:
		return Medium
	default:
		return Thick
	}
}

// StrokeWidth is the line width used to draw the bucket.
func (b Bucket) StrokeWidth() float64 {
	switch b {
	case Medium:
		return 2
	case Thick:
		return 4
	default:
		return 1
	}
}

// Character is the separator used when printing a path as text.
func (b Bucket) Character() string {
	switch b {
	case Medium:
		return "="
	case Thick:
		return "≡"
	default:
		return "-"
	}
}

// String returns the bucket name.
func (b Bucket) String() string {
	switch b {
	case Thin:
		return "thin"
	case Medium:
		return "medium"
	case Thick:
		return "thick"
	default:
		return "unknown"
	}
}
