package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"go-ocr-benchmark/internal/config"
	apperrors "go-ocr-benchmark/internal/errors"
	"go-ocr-benchmark/internal/logger"
)

var version = "dev"

// rootOptions carries the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile   string
	imagesDir    string
	outputDir    string
	modelConfig  string
	reportFormat string
	labelPolicy  string
	workers      int
	logLevel     string
	verbose      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ocrbench",
		Short: "Benchmark text-recognition engines against labeled image datasets",
		Long: `ocrbench evaluates text-recognition engines against a labeled image
dataset and produces comparable accuracy reports.

Datasets are directories containing a Label.txt manifest: one line per
image, tab-separated image path and a JSON array of annotations. Engines
are configured in a YAML or JSON config file and selected by name.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to config file (YAML or JSON)")
	flags.StringVar(&opts.imagesDir, "images-dir", "images", "Root directory of labeled datasets")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Directory for reports and results (overrides config)")
	flags.StringVar(&opts.modelConfig, "model-config", "", "Engine options as JSON, merged over the config file")
	flags.StringVar(&opts.reportFormat, "report-format", "", "Report format: markdown, json, csv or all")
	flags.StringVar(&opts.labelPolicy, "label-policy", "", "Multi-annotation policy: first or all")
	flags.IntVar(&opts.workers, "workers", 0, "Concurrent recognition calls per engine")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Shorthand for --log-level debug")

	cmd.AddCommand(newEvaluateCommand(opts))
	cmd.AddCommand(newCompareCommand(opts))
	cmd.AddCommand(newConfigCommand(opts))
	cmd.AddCommand(newServeCommand(opts))

	return cmd
}

// loadConfig builds the effective configuration: file (or defaults) with
// CLI flags layered on top.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if o.configFile != "" {
		cfg, err = config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if o.modelConfig != "" {
		var overrides map[string]config.EngineOptions
		if err := json.Unmarshal([]byte(o.modelConfig), &overrides); err != nil {
			return nil, apperrors.NewConfigError("invalid --model-config JSON", err)
		}
		for name, opts := range overrides {
			merged := cfg.Engines[name]
			if merged == nil {
				merged = config.EngineOptions{}
			}
			for key, value := range opts {
				merged[key] = value
			}
			cfg.Engines[name] = merged
		}
	}

	if o.outputDir != "" {
		cfg.Output.ReportsDir = o.outputDir
		cfg.Output.ResultsDir = o.outputDir
	}
	if o.reportFormat != "" {
		cfg.Output.ReportFormat = o.reportFormat
	}
	if o.labelPolicy != "" {
		cfg.Evaluation.AnnotationPolicy = o.labelPolicy
	}
	if o.workers > 0 {
		cfg.Runner.Workers = o.workers
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	} else if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("invalid configuration: %v", err), err)
	}

	logger.SetLevel(cfg.Logging.Level)
	return cfg, nil
}
