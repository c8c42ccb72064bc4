package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"gradepulse/internal/config"
	"gradepulse/internal/infrastructure"
	"gradepulse/internal/report"
	"gradepulse/internal/services"
)

func main() {
	baseDir := flag.String("base-dir", "", "base directory for data, visualizations and logs (defaults to config)")
	sampleSize := flag.Int("sample-size", 0, "override the generated sample size")
	noSample := flag.Bool("no-sample", false, "fail instead of generating sample data when the input file is missing")
	quiet := flag.Bool("quiet", false, "suppress the console summary tables")
	flag.Parse()

	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *baseDir != "" {
		cfg.Paths.BaseDir = *baseDir
	}
	if *sampleSize > 0 {
		cfg.Pipeline.SampleSize = *sampleSize
	}
	if *noSample {
		cfg.Pipeline.GenerateSample = false
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	pipeline := services.NewPipeline(cfg, logger, nil)
	result, err := pipeline.Run(context.Background())
	if err != nil {
		logger.Error("analysis failed", slog.String("error", err.Error()))
		color.Red("Analysis failed: %v", err)
		os.Exit(1)
	}

	for _, warning := range result.Warnings {
		color.Yellow("warning: %s", warning)
	}

	if !*quiet {
		report.NewConsolePrinter(os.Stdout).Print(result.Summary)
	}

	paths := cfg.GetPaths()
	color.Green("\nAnalysis complete in %s", result.Duration.Round(time.Millisecond))
	color.Green("Report:  %s", paths.ReportFile)
	color.Green("Summary: %s", paths.SummaryJSON)
	color.Green("Charts:  %s", paths.VisualizationsDir)
}
