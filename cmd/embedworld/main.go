package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TFMV/embedworld/pkg/config"
	"github.com/TFMV/embedworld/pkg/engine"
	"github.com/TFMV/embedworld/pkg/metrics"
)

var (
	logger   *zap.Logger
	cfg      config.Config
	cfgFile  string
	logLevel string
	verbose  bool
	version  = "0.1.0" // Will be set during build
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "embedworld",
	Short: "Lay out text embeddings on a stable 2-D map",
	Long: `embedworld places high-dimensional embedding vectors on a 2-D map using
PCA, anchor axes, a polar "nearest" view or a thresholded similarity graph,
and reports how faithfully the map preserves the original distances.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, _, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}

		logger, err = newLogger(cfg.Log.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./embedworld.yaml or $HOME/embedworld.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(validateCmd)
}

// newLogger builds a production logger at level, or a development logger
// when verbose is set.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// newEngine builds an engine from the loaded configuration.
func newEngine(collector *metrics.Collector) (*engine.Engine, error) {
	if issues := config.Validate(cfg); config.HasErrors(issues) {
		return nil, fmt.Errorf("invalid configuration:\n%s", config.FormatValidationIssues(issues))
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	opts.Metrics = collector
	return engine.New(opts)
}

func main() {
	defer func() {
		if logger == nil {
			return
		}
		if err := logger.Sync(); err != nil {
			// Syncing stderr fails on some terminals
			if !strings.Contains(err.Error(), "sync /dev/stderr") {
				fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
			}
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
