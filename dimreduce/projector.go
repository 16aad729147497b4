// Package dimreduce fits the global 2-D principal-axis projection and keeps
// successive projections visually continuous.
package dimreduce

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// ErrEmptyFitSubset is returned when the fit predicate selects no samples.
var ErrEmptyFitSubset = errors.New("fit subset is empty")

// Projection is the outcome of FitAndProject.
type Projection struct {
	// Coords holds a coordinate for every input sample.
	Coords vectortypes.Coords
	// FitSize is the number of samples the basis was learned from.
	FitSize int
	// ExplainedVariance is the variance ratio captured per output axis.
	// It is nil for degenerate single-point fits.
	ExplainedVariance []float64
}

// FitSubset returns the samples a projection is fitted on: all samples when
// fitOn is nil, otherwise only those of the given tier.
func FitSubset(samples []vectortypes.Sample, fitOn *vectortypes.Tier) []vectortypes.Sample {
	if fitOn == nil {
		return samples
	}
	subset := make([]vectortypes.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Tier == *fitOn {
			subset = append(subset, s)
		}
	}
	return subset
}

// FitAndProject learns a 2-component basis from the fit subset and projects
// every sample onto it. A single-member fit subset places every sample at
// the origin.
func FitAndProject(samples []vectortypes.Sample, fitOn *vectortypes.Tier, logger *zap.Logger) (*Projection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	coords := make(vectortypes.Coords, len(samples))
	if len(samples) == 0 {
		return &Projection{Coords: coords}, nil
	}

	subset := FitSubset(samples, fitOn)
	switch len(subset) {
	case 0:
		return nil, ErrEmptyFitSubset
	case 1:
		logger.Debug("Single fit sample, placing all samples at the origin",
			zap.String("fit_sample", subset[0].ID),
			zap.Int("samples", len(samples)))
		for _, s := range samples {
			coords[s.ID] = vectortypes.Point{}
		}
		return &Projection{Coords: coords, FitSize: 1}, nil
	}

	config := DefaultDimReducerConfig()
	config.Logger = logger
	reducer, err := NewDimReducer(config)
	if err != nil {
		return nil, err
	}
	if err := reducer.Fit(vectortypes.Vectors(subset)); err != nil {
		return nil, fmt.Errorf("failed to fit projection: %w", err)
	}

	for _, s := range samples {
		projected, err := reducer.TransformVector(s.Vector)
		if err != nil {
			return nil, fmt.Errorf("failed to project sample %q: %w", s.ID, err)
		}
		coords[s.ID] = vectortypes.Point{X: projected[0], Y: projected[1]}
	}

	variance, err := reducer.GetExplainedVarianceRatio()
	if err != nil {
		return nil, err
	}

	return &Projection{
		Coords:            coords,
		FitSize:           len(subset),
		ExplainedVariance: variance,
	}, nil
}
