package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/loan-engine/internal/config"
	"github.com/iwvelando/loan-engine/internal/logging"
	"github.com/iwvelando/loan-engine/internal/report"
	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/iwvelando/loan-engine/pkg/output"
	"github.com/iwvelando/loan-engine/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json, xlsx, pdf")
	outputFile := flag.String("output-file", "", "write output to this file instead of stdout (required for xlsx and pdf)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if validation.RequiresOutputFile(outputFormat) && *outputFile == "" {
		logger.Fatal(fmt.Sprintf("output format %s requires -output-file", outputFormat),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results, err := report.GetReports(context.Background(), logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute loan reports",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if err := writeReports(*outputFile, outputFormat, results); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.String("format", outputFormat),
			zap.Error(err),
		)
	}
	if *outputFile != "" {
		logger.Info(fmt.Sprintf("wrote %d loan reports to %s", len(results), *outputFile),
			zap.String("op", "main"),
		)
	}
}

// writeReports writes results in outputFormat to path, or to stdout when path
// is empty. A file that fails to close is reported as a failed write.
func writeReports(path, outputFormat string, results []report.Report) (err error) {
	var w io.Writer = os.Stdout
	if path != "" {
		file, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("failed to create output file %s: %w", path, createErr)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close output file %s: %w", path, closeErr)
			}
		}()
		w = file
	}
	return output.Write(w, outputFormat, results)
}
