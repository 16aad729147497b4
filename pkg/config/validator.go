package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/TFMV/embedworld/pkg/engine"
)

// ValidationIssue represents a configuration validation issue
type ValidationIssue struct {
	Field      string             // The field with the issue
	Value      interface{}        // The current value
	Message    string             // Description of the issue
	Severity   ValidationSeverity // How severe the issue is
	Suggestion string             // Suggested fix
}

// ValidationSeverity indicates how severe a validation issue is
type ValidationSeverity int

const (
	// Error indicates a configuration that will not work
	Error ValidationSeverity = iota
	// Warning indicates a configuration that may cause problems
	Warning
	// Info indicates a configuration that could be improved
	Info
)

// String returns a string representation of the severity
func (s ValidationSeverity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Validate checks cfg and returns every issue found, most severe first
// within each field.
func Validate(cfg Config) []ValidationIssue {
	var issues []ValidationIssue

	if _, err := engine.ParseStrategy(cfg.Layout.Strategy); err != nil {
		names := make([]string, len(engine.Strategies))
		for i, s := range engine.Strategies {
			names[i] = s.String()
		}
		issues = append(issues, ValidationIssue{
			Field:      "layout.strategy",
			Value:      cfg.Layout.Strategy,
			Message:    "Unknown layout strategy",
			Severity:   Error,
			Suggestion: fmt.Sprintf("Use one of: %s", strings.Join(names, ", ")),
		})
	}

	threshold := cfg.Graph.Threshold
	switch {
	case threshold <= 0 || threshold > 2:
		issues = append(issues, ValidationIssue{
			Field:      "graph.threshold",
			Value:      threshold,
			Message:    "Threshold must be a cosine distance in (0, 2]",
			Severity:   Error,
			Suggestion: "Set graph.threshold to a small distance (0.15 is the default)",
		})
	case threshold > 0.5:
		issues = append(issues, ValidationIssue{
			Field:      "graph.threshold",
			Value:      threshold,
			Message:    "Threshold is unusually high",
			Severity:   Warning,
			Suggestion: "High thresholds link most samples and the graph stops showing structure",
		})
	case threshold < 0.01:
		issues = append(issues, ValidationIssue{
			Field:      "graph.threshold",
			Value:      threshold,
			Message:    "Threshold is unusually low",
			Severity:   Info,
			Suggestion: "Very low thresholds leave most samples unconnected",
		})
	}

	buckets := cfg.Graph.BucketThresholds
	if len(buckets) != 2 {
		issues = append(issues, ValidationIssue{
			Field:      "graph.bucket_thresholds",
			Value:      buckets,
			Message:    "Exactly two bucket thresholds are required",
			Severity:   Error,
			Suggestion: "Use [0.125, 0.0625]",
		})
	} else {
		if buckets[0] < buckets[1] {
			issues = append(issues, ValidationIssue{
				Field:      "graph.bucket_thresholds",
				Value:      buckets,
				Message:    "Bucket thresholds must be in descending order",
				Severity:   Error,
				Suggestion: fmt.Sprintf("Swap them: [%v, %v]", buckets[1], buckets[0]),
			})
		}
		if threshold > 0 && buckets[1] >= threshold {
			issues = append(issues, ValidationIssue{
				Field:      "graph.bucket_thresholds",
				Value:      buckets,
				Message:    "Every edge weight is below the threshold, so only the thin bucket is ever used",
				Severity:   Warning,
				Suggestion: "Keep bucket thresholds below graph.threshold",
			})
		}
	}

	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		issues = append(issues, ValidationIssue{
			Field:      "log.level",
			Value:      cfg.Log.Level,
			Message:    "Invalid log level",
			Severity:   Error,
			Suggestion: "Use one of: debug, info, warn, error",
		})
	}

	if cfg.Layout.UseRanks {
		s, err := engine.ParseStrategy(cfg.Layout.Strategy)
		if err == nil && (s == engine.GlobalProjection || s == engine.PathGraph) {
			issues = append(issues, ValidationIssue{
				Field:      "layout.use_ranks",
				Value:      true,
				Message:    "Ranks mode only affects the project and nearest strategies",
				Severity:   Info,
				Suggestion: "Disable layout.use_ranks or pick an anchor-based strategy",
			})
		}
	}

	if cfg.Layout.TierLock {
		s, err := engine.ParseStrategy(cfg.Layout.Strategy)
		if err == nil && s != engine.GlobalProjection && s != engine.PathGraph {
			issues = append(issues, ValidationIssue{
				Field:      "layout.tier_lock",
				Value:      true,
				Message:    "Tier lock only affects the pca and paths strategies",
				Severity:   Info,
				Suggestion: "Disable layout.tier_lock or pick a PCA-based strategy",
			})
		}
	}

	return issues
}

// HasErrors reports whether any issue has Error severity.
func HasErrors(issues []ValidationIssue) bool {
	for _, issue := range issues {
		if issue.Severity == Error {
			return true
		}
	}
	return false
}

// FormatValidationIssues returns a formatted string representation of validation issues
func FormatValidationIssues(issues []ValidationIssue) string {
	if len(issues) == 0 {
		return "Configuration is valid."
	}

	var errorCount, warningCount, infoCount int
	var sb strings.Builder

	fmt.Fprintf(&sb, "Found %d configuration issues:\n\n", len(issues))

	for i, issue := range issues {
		switch issue.Severity {
		case Error:
			errorCount++
		case Warning:
			warningCount++
		case Info:
			infoCount++
		}

		fmt.Fprintf(&sb, "%d. [%s] %s: %v\n", i+1, issue.Severity, issue.Field, issue.Message)
		fmt.Fprintf(&sb, "   Current value: %v\n", issue.Value)
		fmt.Fprintf(&sb, "   Suggestion: %s\n\n", issue.Suggestion)
	}

	fmt.Fprintf(&sb, "Summary: %d errors, %d warnings, %d informational\n",
		errorCount, warningCount, infoCount)

	return sb.String()
}
