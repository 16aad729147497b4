package engine

import (
	"go.uber.org/zap"

	"github.com/TFMV/embedworld/pkg/stats"
	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// Diagnostics summarizes the spread of a sample set.
type Diagnostics struct {
	Metric        vectortypes.DistanceType `json:"metric"`
	MaxDistance   float64                  `json:"max_distance"`
	MaxPair       *[2]string               `json:"max_pair,omitempty"`
	OutlierID     *string                  `json:"outlier_id,omitempty"`
	OutlierZScore float64                  `json:"outlier_zscore"`
	// Spearman correlates pairwise distance ranks in the original space with
	// those in the layout. It is nil when the layout does not cover every
	// sample or there are fewer than three samples.
	Spearman *float64 `json:"spearman,omitempty"`
}

// DiagnosticMetric is Euclidean for the PCA-based strategies and cosine for
// the anchor-based ones.
func DiagnosticMetric(s Strategy) vectortypes.DistanceType {
	if s.fitsProjection() {
		return vectortypes.Euclidean
	}
	return vectortypes.Cosine
}

// Diagnose computes diagnostics for samples under strategy s. coords may be
// nil to skip the layout correlation.
func (e *Engine) Diagnose(samples []vectortypes.Sample, s Strategy, coords vectortypes.Coords) (*Diagnostics, error) {
	metric := DiagnosticMetric(s)
	vectors := vectortypes.Vectors(samples)
	diag := &Diagnostics{Metric: metric}

	maxDistance, pair, err := stats.MaxPairwiseDistance(vectors, metric)
	if err != nil {
		return nil, err
	}
	diag.MaxDistance = maxDistance
	if pair != nil {
		diag.MaxPair = &[2]string{samples[pair.I].ID, samples[pair.J].ID}
	}

	outlier, z, err := stats.OutlierZScore(vectors, metric)
	if err != nil {
		return nil, err
	}
	diag.OutlierZScore = z
	if outlier != stats.NoIndex {
		id := samples[outlier].ID
		diag.OutlierID = &id
	}

	if rho, ok, err := layoutCorrelation(samples, metric, coords); err != nil {
		return nil, err
	} else if ok {
		diag.Spearman = &rho
	}

	if e.metrics != nil {
		e.metrics.RecordDiagnostics(diag.MaxDistance, diag.OutlierZScore, diag.Spearman)
	}

	e.logger.Debug("Diagnostics computed",
		zap.String("metric", string(metric)),
		zap.Float64("max_distance", diag.MaxDistance),
		zap.Float64("outlier_zscore", diag.OutlierZScore))

	return diag, nil
}

// layoutCorrelation ranks pairwise distances before and after layout and
// correlates the two orderings.
func layoutCorrelation(samples []vectortypes.Sample, metric vectortypes.DistanceType, coords vectortypes.Coords) (float64, bool, error) {
	if len(samples) < 3 || coords == nil {
		return 0, false, nil
	}

	points := make([]vectortypes.F32, len(samples))
	for i, s := range samples {
		p, ok := coords[s.ID]
		if !ok {
			return 0, false, nil
		}
		points[i] = vectortypes.F32{float32(p.X), float32(p.Y)}
	}

	original, _, _, err := stats.RankedPairwiseDistances(vectortypes.Vectors(samples), metric)
	if err != nil {
		return 0, false, err
	}
	reduced, _, _, err := stats.RankedPairwiseDistances(points, vectortypes.Euclidean)
	if err != nil {
		return 0, false, err
	}

	rho, err := stats.Spearman(original, reduced)
	if err != nil {
		return 0, false, err
	}
	return rho, true, nil
}

// Run computes the layout and its diagnostics.
func (e *Engine) Run(req Request) (*Result, *Diagnostics, error) {
	result, err := e.Compute(req)
	if err != nil {
		return nil, nil, err
	}

	coords := result.Coords
	if result.Incomplete {
		// a fallback scatter says nothing about the embedding
		coords = nil
	}
	diag, err := e.Diagnose(req.Samples, req.Strategy, coords)
	if err != nil {
		return nil, nil, err
	}
	return result, diag, nil
}
