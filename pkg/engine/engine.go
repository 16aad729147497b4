// Package engine dispatches a sample set to the active layout strategy and
// returns coordinates, the similarity graph, the shortest path and
// diagnostics in one uniform result.
package engine

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/TFMV/embedworld/dimreduce"
	"github.com/TFMV/embedworld/pkg/graph"
	"github.com/TFMV/embedworld/pkg/layout"
	"github.com/TFMV/embedworld/pkg/metrics"
	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// ErrDuplicateID is returned when two samples share an ID.
var ErrDuplicateID = errors.New("duplicate sample id")

// Options configures an Engine.
type Options struct {
	// Threshold is the cosine distance below which samples are linked.
	Threshold float64
	// BucketThresholds classify edge weights into thin/medium/thick.
	BucketThresholds [2]float64
	// ScatterSeed seeds the fallback scatter for incomplete selections.
	ScatterSeed uint64
	// Logger for logging operations
	Logger *zap.Logger
	// Metrics collector; nil disables collection
	Metrics *metrics.Collector
}

// DefaultOptions returns the default engine options.
func DefaultOptions() Options {
	return Options{
		Threshold:        graph.DefaultThreshold,
		BucketThresholds: graph.DefaultBucketThresholds,
		ScatterSeed:      1,
	}
}

// Engine computes layouts. It holds no per-frame state and is safe for
// concurrent use on different sample sets.
type Engine struct {
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Collector
}

// New creates an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Threshold <= 0 || opts.Threshold > 2 {
		return nil, fmt.Errorf("similarity threshold must be in (0, 2], got %v", opts.Threshold)
	}
	if opts.BucketThresholds[0] < opts.BucketThresholds[1] {
		return nil, fmt.Errorf("bucket thresholds must be descending, got %v", opts.BucketThresholds)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Engine{
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}, nil
}

// Request is the input to a single layout computation.
type Request struct {
	Samples   []vectortypes.Sample
	Strategy  Strategy
	TierLock  bool
	Selection Selection
	UseRanks  bool
	// Previous is the last frame's coordinates, used to keep PCA axes from
	// flipping between computations.
	Previous vectortypes.Coords
}

// Line is a graph edge positioned for drawing.
type Line struct {
	Source string            `json:"source"`
	Target string            `json:"target"`
	From   vectortypes.Point `json:"from"`
	To     vectortypes.Point `json:"to"`
	Weight float64           `json:"weight"`
	Bucket graph.Bucket      `json:"bucket"`
}

// Result is the output of a layout computation.
type Result struct {
	Strategy Strategy
	Coords   vectortypes.Coords
	// Graph and Lines are set for PathGraph only.
	Graph *graph.Graph
	Lines []Line
	// Path lists sample IDs from the first to the second path anchor.
	Path        []string
	PathWeights []float64
	PathBuckets []graph.Bucket
	// Incomplete marks a fallback scatter for a partial anchor selection.
	Incomplete bool
	// Selection is the request selection with unknown IDs cleared.
	Selection Selection
	// Signs is the reflection applied by stabilization.
	Signs dimreduce.Signs
	// TierLockReleased is set when the tier lock was requested without any
	// base samples and the fit fell back to all samples.
	TierLockReleased  bool
	ExplainedVariance []float64
}

// Compute lays out the request's samples with its strategy.
func (e *Engine) Compute(req Request) (*Result, error) {
	start := time.Now()
	outcome := metrics.OutcomeOK
	defer func() {
		if e.metrics != nil {
			e.metrics.RecordLayout(req.Strategy.String(), outcome, len(req.Samples), time.Since(start))
		}
	}()

	result, err := e.compute(req, &outcome)
	if err != nil {
		outcome = metrics.OutcomeError
		e.logger.Error("Layout computation failed",
			zap.String("strategy", req.Strategy.String()),
			zap.Int("samples", len(req.Samples)),
			zap.Error(err))
		return nil, err
	}

	e.logger.Debug("Layout computed",
		zap.String("strategy", req.Strategy.String()),
		zap.Int("samples", len(req.Samples)),
		zap.Bool("incomplete", result.Incomplete),
		zap.Float64("sign_x", result.Signs.X),
		zap.Float64("sign_y", result.Signs.Y),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

func (e *Engine) compute(req Request, outcome *metrics.Outcome) (*Result, error) {
	if err := validateSamples(req.Samples); err != nil {
		return nil, err
	}

	result := &Result{
		Strategy:  req.Strategy,
		Coords:    vectortypes.Coords{},
		Selection: e.resolveSelection(req.Samples, req.Selection),
		Signs:     dimreduce.Identity,
	}
	if len(req.Samples) == 0 {
		*outcome = metrics.OutcomeDegenerate
		return result, nil
	}

	var raw vectortypes.Coords
	switch req.Strategy {
	case GlobalProjection, PathGraph:
		projection, err := e.project(req, result)
		if err != nil {
			return nil, err
		}
		if projection.FitSize == 1 {
			*outcome = metrics.OutcomeDegenerate
		}
		raw = projection.Coords
		result.ExplainedVariance = projection.ExplainedVariance

		if req.Strategy == PathGraph {
			if err := e.attachGraph(req.Samples, result); err != nil {
				return nil, err
			}
		}

	case AxisProjection:
		sel := result.Selection
		var second *layout.AnchorPair
		if sel[2] != "" && sel[3] != "" {
			second = &layout.AnchorPair{A: sel[2], B: sel[3]}
		}
		coords, err := layout.ProjectAxis(req.Samples, layout.AnchorPair{A: sel[0], B: sel[1]}, second, req.UseRanks)
		if err != nil && !errors.Is(err, layout.ErrIncompleteSelection) {
			return nil, err
		}
		raw = coords
		result.Incomplete = err != nil

	case NearestPolar:
		coords, err := layout.ProjectPolar(req.Samples, result.Selection[0], req.UseRanks)
		if err != nil && !errors.Is(err, layout.ErrIncompleteSelection) {
			return nil, err
		}
		raw = coords
		result.Incomplete = err != nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(req.Strategy))
	}

	if result.Incomplete {
		*outcome = metrics.OutcomeIncomplete
		result.Coords = layout.FallbackScatter(req.Samples, e.opts.ScatterSeed)
		return result, nil
	}

	result.Coords, result.Signs = dimreduce.Stabilize(raw, req.Previous)
	if result.Graph != nil {
		result.Lines = e.lines(req.Samples, result)
	}
	return result, nil
}

// project fits the PCA basis, releasing the tier lock when there is nothing
// in the base tier to fit on.
func (e *Engine) project(req Request, result *Result) (*dimreduce.Projection, error) {
	var fitOn *vectortypes.Tier
	if req.TierLock {
		base := vectortypes.TierBase
		if len(dimreduce.FitSubset(req.Samples, &base)) == 0 {
			e.logger.Warn("Tier lock requested without base samples, fitting on all samples")
			result.TierLockReleased = true
		} else {
			fitOn = &base
		}
	}
	return dimreduce.FitAndProject(req.Samples, fitOn, e.logger)
}

// attachGraph builds the similarity graph over the original vectors and,
// when both path anchors are chosen, the shortest path between them.
func (e *Engine) attachGraph(samples []vectortypes.Sample, result *Result) error {
	g, err := graph.Build(samples, e.opts.Threshold)
	if err != nil {
		return err
	}
	result.Graph = g

	sel := result.Selection
	pathLength := 0
	defer func() {
		if e.metrics != nil {
			e.metrics.RecordGraph(g.EdgeCount(), pathLength)
		}
	}()

	if sel[0] == "" || sel[1] == "" {
		return nil
	}

	nodes, err := graph.ShortestPath(g, vectortypes.IndexOf(samples, sel[0]), vectortypes.IndexOf(samples, sel[1]))
	if err != nil {
		return err
	}
	if nodes == nil {
		e.logger.Debug("No path between anchors",
			zap.String("from", sel[0]),
			zap.String("to", sel[1]))
		return nil
	}

	weights, err := graph.PathWeights(g, nodes)
	if err != nil {
		return fmt.Errorf("shortest path uses an unrecorded edge: %w", err)
	}

	result.Path = make([]string, len(nodes))
	for i, idx := range nodes {
		result.Path[i] = samples[idx].ID
	}
	result.PathWeights = weights
	result.PathBuckets = make([]graph.Bucket, len(weights))
	for i, w := range weights {
		result.PathBuckets[i] = graph.BucketWeight(w, e.opts.BucketThresholds)
	}
	pathLength = len(nodes)
	return nil
}

// lines positions every undirected graph edge at the final coordinates.
func (e *Engine) lines(samples []vectortypes.Sample, result *Result) []Line {
	edges := result.Graph.Edges()
	out := make([]Line, 0, len(edges))
	for _, edge := range edges {
		source, target := samples[edge.From].ID, samples[edge.To].ID
		out = append(out, Line{
			Source: source,
			Target: target,
			From:   result.Coords[source],
			To:     result.Coords[target],
			Weight: edge.Weight,
			Bucket: graph.BucketWeight(edge.Weight, e.opts.BucketThresholds),
		})
	}
	return out
}

// resolveSelection clears slots naming samples that are no longer present.
func (e *Engine) resolveSelection(samples []vectortypes.Sample, sel Selection) Selection {
	for i, id := range sel {
		if id != "" && vectortypes.IndexOf(samples, id) < 0 {
			e.logger.Debug("Clearing selection of removed sample",
				zap.Int("slot", i),
				zap.String("id", id))
			sel[i] = ""
		}
	}
	return sel
}

func validateSamples(samples []vectortypes.Sample) error {
	seen := make(map[string]struct{}, len(samples))
	for _, s := range samples {
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return vectortypes.CheckSampleDimensions(samples)
}
