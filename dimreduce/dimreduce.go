package dimreduce

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// ReductionMethod represents the method used for dimensionality reduction
type ReductionMethod string

const (
	// PCA is Principal Component Analysis
	PCA ReductionMethod = "PCA"
)

// ErrNotFitted is returned by Transform before a successful Fit.
var ErrNotFitted = errors.New("model not fitted, call Fit first")

// DimReducerConfig holds configuration for dimensionality reduction.
type DimReducerConfig struct {
	// TargetDimension is the desired output dimension
	TargetDimension int
	// Method specifies the dimensionality reduction algorithm to use
	Method ReductionMethod
	// Logger for logging operations
	Logger *zap.Logger
}

// DefaultDimReducerConfig returns a configuration for 2-D layouts.
func DefaultDimReducerConfig() DimReducerConfig {
	return DimReducerConfig{
		TargetDimension: 2,
		Method:          PCA,
		Logger:          nil,
	}
}

// DimReducer learns a centered principal-axis basis from a fit set and
// projects arbitrary vectors onto it.
type DimReducer struct {
	config DimReducerConfig
	lock   sync.RWMutex
	logger *zap.Logger

	// PCA specific fields
	pcaComponents *mat.Dense // inputDim x TargetDimension, one component per column
	pcaVariance   []float64  // Explained variance for each kept component
	pcaTotal      float64    // Total variance of the fit set
	pcaMean       []float64  // Mean of each feature
}

// NewDimReducer creates a new dimensionality reducer with the given configuration.
func NewDimReducer(config DimReducerConfig) (*DimReducer, error) {
	if config.TargetDimension <= 0 {
		return nil, errors.New("target dimension must be positive")
	}

	if config.Method == "" {
		config.Method = PCA // Default to PCA if not specified
	}
	if config.Method != PCA {
		return nil, fmt.Errorf("unsupported dimensionality reduction method %q", config.Method)
	}

	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &DimReducer{
		config: config,
		logger: config.Logger,
	}, nil
}

// Fit learns the principal axes of the given vectors. At least two vectors
// are required; a single point has no variance to define axes.
func (dr *DimReducer) Fit(vectors []vectortypes.F32) error {
	dr.lock.Lock()
	defer dr.lock.Unlock()

	if len(vectors) < 2 {
		return errors.New("at least 2 samples are required for PCA")
	}

	// Validate input dimensions
	cols := len(vectors[0])
	for _, vec := range vectors {
		if len(vec) != cols {
			return fmt.Errorf("%w: fit vector has %d dimensions, expected %d",
				vectortypes.ErrDimensionMismatch, len(vec), cols)
		}
		// Check for NaN or Inf values
		for _, val := range vec {
			if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
				return errors.New("input vectors contain NaN or Inf values")
			}
		}
	}

	rows := len(vectors)
	data := make([]float64, 0, rows*cols)
	for _, row := range vectors {
		for _, val := range row {
			data = append(data, float64(val))
		}
	}
	matrix := mat.NewDense(rows, cols, data)

	// Center the data (subtract mean from each column)
	centered := mat.NewDense(rows, cols, nil)
	dr.pcaMean = make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, matrix)
		mean := stat.Mean(col, nil)
		dr.pcaMean[j] = mean
		for i := 0; i < rows; i++ {
			centered.Set(i, j, matrix.At(i, j)-mean)
		}
	}

	// The right singular vectors of the centered data are the principal
	// axes; this avoids forming a cols x cols covariance matrix for wide
	// embeddings with few samples.
	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return errors.New("SVD factorization failed")
	}

	singular := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)
	_, available := v.Dims()

	targetDim := dr.config.TargetDimension
	components := mat.NewDense(cols, targetDim, nil)
	variance := make([]float64, targetDim)
	for k := 0; k < targetDim && k < available; k++ {
		for i := 0; i < cols; i++ {
			components.Set(i, k, v.At(i, k))
		}
		variance[k] = singular[k] * singular[k] / float64(rows-1)
	}
	if available < targetDim {
		dr.logger.Debug("Fit set spans fewer axes than requested, padding with zero components",
			zap.Int("available", available),
			zap.Int("target_dimension", targetDim))
	}

	var total float64
	for _, s := range singular {
		total += s * s / float64(rows-1)
	}

	dr.pcaComponents = components
	dr.pcaVariance = variance
	dr.pcaTotal = total

	dr.logger.Debug("PCA fit completed",
		zap.Int("samples", rows),
		zap.Int("input_dimensions", cols),
		zap.Int("output_dimensions", targetDim))

	return nil
}

// TransformVector transforms a single vector using the fitted model
func (dr *DimReducer) TransformVector(vector vectortypes.F32) ([]float64, error) {
	dr.lock.RLock()
	defer dr.lock.RUnlock()

	if dr.pcaComponents == nil || dr.pcaMean == nil {
		return nil, ErrNotFitted
	}

	if len(vector) != len(dr.pcaMean) {
		return nil, fmt.Errorf("%w: input vector has %d dimensions, model has %d",
			vectortypes.ErrDimensionMismatch, len(vector), len(dr.pcaMean))
	}

	// Project the centered vector onto the principal components
	result := make([]float64, dr.config.TargetDimension)
	for i := 0; i < dr.config.TargetDimension; i++ {
		for j, val := range vector {
			result[i] += (float64(val) - dr.pcaMean[j]) * dr.pcaComponents.At(j, i)
		}
	}

	return result, nil
}

// GetExplainedVarianceRatio returns the explained variance ratio for each component
func (dr *DimReducer) GetExplainedVarianceRatio() ([]float64, error) {
	dr.lock.RLock()
	defer dr.lock.RUnlock()

	if dr.pcaVariance == nil {
		return nil, ErrNotFitted
	}

	ratio := make([]float64, len(dr.pcaVariance))
	if dr.pcaTotal == 0 {
		return ratio, nil
	}
	for i, val := range dr.pcaVariance {
		ratio[i] = val / dr.pcaTotal
	}

	return ratio, nil
}

// GetCumulativeExplainedVariance returns the cumulative explained variance
func (dr *DimReducer) GetCumulativeExplainedVariance() ([]float64, error) {
	ratio, err := dr.GetExplainedVarianceRatio()
	if err != nil {
		return nil, err
	}

	cumulative := make([]float64, len(ratio))
	sum := 0.0
	for i, val := range ratio {
		sum += val
		cumulative[i] = sum
	}

	return cumulative, nil
}
