package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/embedworld/pkg/config"
	"github.com/TFMV/embedworld/pkg/engine"
	"github.com/TFMV/embedworld/pkg/layout"
	"github.com/TFMV/embedworld/pkg/metrics"
	"github.com/TFMV/embedworld/pkg/sampleio"
)

// layoutCmd computes one frame and writes it as JSON.
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Compute a 2-D layout for a sample set",
	RunE:  runLayout,
}

// diagnoseCmd prints the diagnostics of a sample set under a strategy.
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Report the farthest pair, the outlier and the layout rank correlation",
	RunE:  runDiagnose,
}

// pathCmd prints the shortest similarity path between two samples.
var pathCmd = &cobra.Command{
	Use:   "path FROM TO",
	Short: "Find the shortest similarity-graph path between two samples",
	Args:  cobra.ExactArgs(2),
	RunE:  runPath,
}

var validateCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate the configuration and print any issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		issues := config.Validate(cfg)
		fmt.Println(config.FormatValidationIssues(issues))
		if config.HasErrors(issues) {
			return fmt.Errorf("configuration has errors")
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{layoutCmd, diagnoseCmd, pathCmd} {
		cmd.Flags().StringP("samples", "s", "-", "sample set JSON file, - for stdin")
		cmd.Flags().Bool("metrics", false, "print collected Prometheus metrics to stderr")
	}
	for _, cmd := range []*cobra.Command{layoutCmd, diagnoseCmd} {
		cmd.Flags().String("strategy", "", "layout strategy (pca, project, nearest, paths); defaults to layout.strategy")
		cmd.Flags().StringSlice("select", nil, "anchor sample ids for slots 0-3, empty entries leave a slot unset")
		cmd.Flags().Bool("ranks", false, "replace anchor-based axis values with their ranks")
		cmd.Flags().Bool("tier-lock", false, "fit PCA on base-tier samples only")
		cmd.Flags().String("previous", "", "previous frame to stabilize against")
	}

	layoutCmd.Flags().StringP("output", "o", "", "write the frame to this file instead of stdout")
	layoutCmd.Flags().Bool("diagnostics", true, "include diagnostics in the frame")
	layoutCmd.Flags().Float64("width", 0, "also write viewport coordinates of this width under \"screen\"")
	layoutCmd.Flags().Float64("height", 0, "also write viewport coordinates of this height under \"screen\"")
	layoutCmd.Flags().Float64("padding", 20, "viewport padding")

	pathCmd.Flags().Float64("threshold", 0, "override graph.threshold")
}

// buildRequest assembles an engine request from flags and configuration.
func buildRequest(cmd *cobra.Command) (engine.Request, *metrics.Collector, error) {
	var req engine.Request

	samplesPath, _ := cmd.Flags().GetString("samples")
	samples, err := sampleio.ReadSamples(samplesPath)
	if err != nil {
		return req, nil, err
	}
	req.Samples = samples

	name, _ := cmd.Flags().GetString("strategy")
	if name == "" {
		name = cfg.Layout.Strategy
	}
	if req.Strategy, err = engine.ParseStrategy(name); err != nil {
		return req, nil, err
	}

	selected, _ := cmd.Flags().GetStringSlice("select")
	if len(selected) > len(req.Selection) {
		return req, nil, fmt.Errorf("at most %d anchors can be selected, got %d", len(req.Selection), len(selected))
	}
	for i, id := range selected {
		req.Selection[i] = strings.TrimSpace(id)
	}

	req.UseRanks = cfg.Layout.UseRanks
	if cmd.Flags().Changed("ranks") {
		req.UseRanks, _ = cmd.Flags().GetBool("ranks")
	}
	req.TierLock = cfg.Layout.TierLock
	if cmd.Flags().Changed("tier-lock") {
		req.TierLock, _ = cmd.Flags().GetBool("tier-lock")
	}

	if previous, _ := cmd.Flags().GetString("previous"); previous != "" {
		if req.Previous, err = sampleio.ReadCoords(previous); err != nil {
			return req, nil, err
		}
	}

	printMetrics, _ := cmd.Flags().GetBool("metrics")
	var collector *metrics.Collector
	if cfg.Metrics.Enabled || printMetrics {
		collector = metrics.NewCollector(true)
	}
	return req, collector, nil
}

func runLayout(cmd *cobra.Command, args []string) error {
	req, collector, err := buildRequest(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(collector)
	if err != nil {
		return err
	}

	result, err := eng.Compute(req)
	if err != nil {
		return err
	}
	if result.TierLockReleased {
		logger.Info("No base samples, PCA was fitted on all samples")
	}

	var diag *engine.Diagnostics
	if withDiag, _ := cmd.Flags().GetBool("diagnostics"); withDiag {
		coords := result.Coords
		if result.Incomplete {
			coords = nil
		}
		if diag, err = eng.Diagnose(req.Samples, req.Strategy, coords); err != nil {
			return err
		}
	}

	frame := sampleio.NewFrame(result, diag)
	width, _ := cmd.Flags().GetFloat64("width")
	height, _ := cmd.Flags().GetFloat64("height")
	if width > 0 && height > 0 {
		padding, _ := cmd.Flags().GetFloat64("padding")
		frame.Screen = layout.ToScreen(result.Coords, width, height, padding)
	}

	if err := writeFrameTo(cmd, frame); err != nil {
		return err
	}

	logger.Debug("Frame written",
		zap.String("strategy", frame.Strategy),
		zap.Int("samples", len(frame.Coords)),
		zap.Bool("incomplete", frame.Incomplete))

	return dumpMetrics(cmd, collector)
}

// writeFrameTo writes frame to the --output file, or stdout when unset.
func writeFrameTo(cmd *cobra.Command, frame sampleio.Frame) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return sampleio.WriteFrame(os.Stdout, frame)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := sampleio.WriteFrame(f, frame); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	req, collector, err := buildRequest(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(collector)
	if err != nil {
		return err
	}

	result, diag, err := eng.Run(req)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorder(false)
	table.SetColumnSeparator(" | ")

	table.Append([]string{"Strategy", result.Strategy.String()})
	table.Append([]string{"Samples", fmt.Sprintf("%d", len(req.Samples))})
	table.Append([]string{"Distance", string(diag.Metric)})
	if diag.MaxPair != nil {
		table.Append([]string{"Farthest pair", fmt.Sprintf("%s / %s", diag.MaxPair[0], diag.MaxPair[1])})
	}
	table.Append([]string{"Max distance", fmt.Sprintf("%.4f", diag.MaxDistance)})
	if diag.OutlierID != nil {
		table.Append([]string{"Outlier", *diag.OutlierID})
		table.Append([]string{"Outlier z-score", fmt.Sprintf("%.2f", diag.OutlierZScore)})
	}
	if diag.Spearman != nil {
		table.Append([]string{"Layout Spearman", fmt.Sprintf("%.4f", *diag.Spearman)})
	} else if result.Incomplete {
		table.Append([]string{"Layout Spearman", "n/a (incomplete selection)"})
	}
	if len(result.ExplainedVariance) > 0 {
		table.Append([]string{"Explained variance", fmt.Sprintf("%.4f", result.ExplainedVariance)})
	}
	table.Render()

	return dumpMetrics(cmd, collector)
}

func runPath(cmd *cobra.Command, args []string) error {
	if threshold, _ := cmd.Flags().GetFloat64("threshold"); threshold > 0 {
		cfg.Graph.Threshold = threshold
	}

	req, collector, err := buildRequest(cmd)
	if err != nil {
		return err
	}
	req.Strategy = engine.PathGraph
	req.Selection = engine.Selection{args[0], args[1]}

	eng, err := newEngine(collector)
	if err != nil {
		return err
	}
	result, err := eng.Compute(req)
	if err != nil {
		return err
	}

	for i, id := range args {
		if result.Selection[i] == "" {
			return fmt.Errorf("sample %q is not in the sample set", id)
		}
	}
	if result.Path == nil {
		fmt.Printf("No path between %s and %s at threshold %v (%d edges in graph)\n",
			args[0], args[1], cfg.Graph.Threshold, result.Graph.EdgeCount())
		return dumpMetrics(cmd, collector)
	}

	frame := sampleio.NewFrame(result, nil)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Step", "Sample", "Distance", "Link"})
	table.SetBorder(false)
	table.SetColumnSeparator(" | ")
	for i, step := range frame.Path {
		distance := ""
		if i > 0 {
			distance = fmt.Sprintf("%.4f", step.Weight)
		}
		table.Append([]string{fmt.Sprintf("%d", i), step.ID, distance, step.Glyph})
	}
	table.Render()

	cost := 0.0
	for _, w := range result.PathWeights {
		cost += w
	}
	fmt.Printf("Total distance: %.4f over %d hops\n", cost, len(result.PathWeights))

	return dumpMetrics(cmd, collector)
}

// dumpMetrics prints the collector's registry in the Prometheus text format
// when --metrics is set.
func dumpMetrics(cmd *cobra.Command, collector *metrics.Collector) error {
	printMetrics, _ := cmd.Flags().GetBool("metrics")
	if !printMetrics || collector == nil {
		return nil
	}

	families, err := collector.GetRegistry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stderr, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
