package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels the result of a layout computation.
type Outcome string

const (
	// OutcomeOK is a completed layout
	OutcomeOK Outcome = "ok"
	// OutcomeIncomplete is a fallback scatter for a partial anchor selection
	OutcomeIncomplete Outcome = "incomplete"
	// OutcomeDegenerate is a layout with too few points to fit
	OutcomeDegenerate Outcome = "degenerate"
	// OutcomeError is a failed computation
	OutcomeError Outcome = "error"
)

// LayoutMetrics holds the most recent layout figures
type LayoutMetrics struct {
	// Strategy of the last computation
	Strategy string
	// Duration of the last computation in milliseconds
	LatencyMs float64
	// Number of samples laid out
	Samples int
	// Undirected edges in the last similarity graph
	GraphEdges int
	// Length of the last shortest path, 0 when none
	PathLength int
	// Maximum pairwise distance from the last diagnostics
	MaxDistance float64
	// Outlier z-score from the last diagnostics
	OutlierZScore float64
	// Rank correlation between original and layout distances
	Spearman float64
	// Time when metrics were collected
	Timestamp time.Time
}

// Collector manages the collection of metrics
type Collector struct {
	// Prometheus registry
	registry *prometheus.Registry
	// Layout latency histogram
	layoutLatency *prometheus.HistogramVec
	// Layout computation counter
	layouts *prometheus.CounterVec
	// Similarity graph size gauge
	graphEdges prometheus.Gauge
	// Diagnostic gauges
	maxDistance   prometheus.Gauge
	outlierZScore prometheus.Gauge
	spearman      prometheus.Gauge
	// Whether Prometheus metrics are enabled
	prometheusEnabled bool
	// Lock for concurrent access
	mu sync.RWMutex
	// Recent metrics
	recentMetrics LayoutMetrics
}

// NewCollector creates a new metrics collector
func NewCollector(prometheusEnabled bool) *Collector {
	c := &Collector{
		prometheusEnabled: prometheusEnabled,
		recentMetrics: LayoutMetrics{
			Timestamp: time.Now(),
		},
	}

	if prometheusEnabled {
		c.registry = prometheus.NewRegistry()

		c.layoutLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "embedworld_layout_latency_ms",
				Help:    "Layout computation latency in milliseconds",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 12), // 0.25-512ms
			},
			[]string{"strategy"},
		)

		c.layouts = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embedworld_layouts_total",
				Help: "Total number of layout computations",
			},
			[]string{"strategy", "outcome"},
		)

		c.graphEdges = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "embedworld_graph_edges",
				Help: "Undirected edges in the most recent similarity graph",
			},
		)

		c.maxDistance = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "embedworld_max_pairwise_distance",
				Help: "Maximum pairwise distance in the most recent sample set",
			},
		)

		c.outlierZScore = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "embedworld_outlier_zscore",
				Help: "Centroid distance z-score of the most distant sample",
			},
		)

		c.spearman = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "embedworld_reduction_spearman",
				Help: "Rank correlation between original and layout pairwise distances",
			},
		)

		c.registry.MustRegister(c.layoutLatency)
		c.registry.MustRegister(c.layouts)
		c.registry.MustRegister(c.graphEdges)
		c.registry.MustRegister(c.maxDistance)
		c.registry.MustRegister(c.outlierZScore)
		c.registry.MustRegister(c.spearman)
	}

	return c
}

// RecordLayout records a finished layout computation
func (c *Collector) RecordLayout(strategy string, outcome Outcome, samples int, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	latencyMs := float64(latency) / float64(time.Millisecond)
	c.recentMetrics.Strategy = strategy
	c.recentMetrics.LatencyMs = latencyMs
	c.recentMetrics.Samples = samples
	c.recentMetrics.Timestamp = time.Now()

	if c.prometheusEnabled {
		c.layoutLatency.WithLabelValues(strategy).Observe(latencyMs)
		c.layouts.WithLabelValues(strategy, string(outcome)).Inc()
	}
}

// RecordGraph records the size of a similarity graph and its path
func (c *Collector) RecordGraph(edges, pathLength int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recentMetrics.GraphEdges = edges
	c.recentMetrics.PathLength = pathLength
	c.recentMetrics.Timestamp = time.Now()

	if c.prometheusEnabled {
		c.graphEdges.Set(float64(edges))
	}
}

// RecordDiagnostics records point cloud diagnostics
func (c *Collector) RecordDiagnostics(maxDistance, outlierZScore float64, spearman *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recentMetrics.MaxDistance = maxDistance
	c.recentMetrics.OutlierZScore = outlierZScore
	if spearman != nil {
		c.recentMetrics.Spearman = *spearman
	}
	c.recentMetrics.Timestamp = time.Now()

	if c.prometheusEnabled {
		c.maxDistance.Set(maxDistance)
		c.outlierZScore.Set(outlierZScore)
		if spearman != nil {
			c.spearman.Set(*spearman)
		}
	}
}

// GetRecentMetrics retrieves the most recent metrics
func (c *Collector) GetRecentMetrics() LayoutMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recentMetrics
}

// GetRegistry returns the Prometheus registry
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
