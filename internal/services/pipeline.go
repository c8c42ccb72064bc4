package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gradepulse/internal/chart"
	"gradepulse/internal/config"
	"gradepulse/internal/dataprocessing"
	"gradepulse/internal/errors"
	"gradepulse/internal/exporter"
	"gradepulse/internal/infrastructure"
	"gradepulse/internal/report"
	"gradepulse/pkg/contracts/domain"
)

// Stage names reported in progress events, in execution order.
const (
	StageLoad      = "load"
	StageClean     = "clean"
	StageTransform = "transform"
	StageAggregate = "aggregate"
	StagePresent   = "present"
)

// Stage statuses.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// StageEvent describes pipeline progress for subscribers.
type StageEvent struct {
	RunID      string    `json:"run_id"`
	Stage      string    `json:"stage"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier receives stage events as a pipeline run progresses. A nil
// notifier is valid and means nobody is listening.
type Notifier interface {
	NotifyStage(event StageEvent)
}

// PipelineResult is the outcome of one full analysis run.
type PipelineResult struct {
	RunID     string
	Dataset   *domain.Dataset // transformed
	Summary   *domain.AggregateResult
	Warnings  []string
	StartedAt time.Time
	Duration  time.Duration
}

// Pipeline runs the full analysis: load (or generate), clean, transform,
// aggregate, then persist the stage outputs, report and charts. Structural
// errors abort the run; persistence errors are collected as warnings.
type Pipeline struct {
	logger   *slog.Logger
	paths    *config.Paths
	notifier Notifier

	loader      *dataprocessing.Loader
	cleaner     *dataprocessing.Cleaner
	transformer *dataprocessing.Transformer
	aggregator  *dataprocessing.Aggregator
	exporter    *exporter.DatasetExporter
	report      *report.Writer
	charts      *chart.Renderer
}

// NewPipeline wires the pipeline from configuration. The sample generator
// fallback is enabled or disabled by cfg.Pipeline.GenerateSample.
func NewPipeline(cfg *config.Config, logger *slog.Logger, notifier Notifier) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	var generator *dataprocessing.SampleGenerator
	if cfg.Pipeline.GenerateSample {
		generator = dataprocessing.NewSampleGenerator(cfg.Pipeline.SampleSize, cfg.Pipeline.SampleSeed)
	}

	return &Pipeline{
		logger:      logger,
		paths:       cfg.GetPaths(),
		notifier:    notifier,
		loader:      dataprocessing.NewLoader(logger, generator),
		cleaner:     dataprocessing.NewCleaner(logger),
		transformer: dataprocessing.NewTransformer(logger),
		aggregator:  dataprocessing.NewAggregator(logger),
		exporter:    exporter.NewDatasetExporter(logger),
		report:      report.NewWriter(logger),
		charts:      chart.NewRenderer(logger),
	}
}

// Run executes one analysis run end to end.
func (p *Pipeline) Run(ctx context.Context) (*PipelineResult, error) {
	runID := uuid.New().String()
	ctx = infrastructure.WithRunID(ctx, runID)
	started := time.Now()

	result := &PipelineResult{RunID: runID, StartedAt: started}

	p.logger.InfoContext(ctx, "pipeline run starting",
		slog.String("input", p.paths.RawCSV))

	if err := p.paths.EnsureDirectories(); err != nil {
		return nil, errors.NewStorageError("failed to create output directories", err)
	}

	raw, err := p.runStage(ctx, runID, StageLoad, func() (*domain.Dataset, error) {
		return p.loader.Load(ctx, p.paths.RawCSV)
	})
	if err != nil {
		return nil, err
	}

	cleaned, err := p.runStage(ctx, runID, StageClean, func() (*domain.Dataset, error) {
		return p.cleaner.Clean(ctx, raw)
	})
	if err != nil {
		return nil, err
	}
	p.persist(ctx, result, "cleaned dataset", func() error {
		return p.exporter.SaveDataset(ctx, p.paths.CleanedCSV, cleaned)
	})

	transformed, err := p.runStage(ctx, runID, StageTransform, func() (*domain.Dataset, error) {
		return p.transformer.Transform(ctx, cleaned)
	})
	if err != nil {
		return nil, err
	}
	p.persist(ctx, result, "transformed dataset", func() error {
		return p.exporter.SaveDataset(ctx, p.paths.TransformedCSV, transformed)
	})
	result.Dataset = transformed

	p.notify(runID, StageAggregate, StatusStarted, "")
	summary, err := p.aggregator.Aggregate(ctx, transformed)
	if err != nil {
		p.notify(runID, StageAggregate, StatusFailed, err.Error())
		return nil, err
	}
	p.notify(runID, StageAggregate, StatusCompleted, "")
	result.Summary = summary

	p.notify(runID, StagePresent, StatusStarted, "")
	p.persist(ctx, result, "summary JSON", func() error {
		return p.exporter.SaveSummary(ctx, p.paths.SummaryJSON, summary)
	})
	p.persist(ctx, result, "report", func() error {
		return p.report.Save(ctx, p.paths.ReportFile, summary)
	})
	p.persist(ctx, result, "charts", func() error {
		return p.charts.SaveAll(ctx, p.paths.VisualizationsDir, summary, transformed)
	})
	p.notify(runID, StagePresent, StatusCompleted, "")

	result.Duration = time.Since(started)

	p.logger.InfoContext(ctx, "pipeline run finished",
		slog.Int("students", summary.TotalStudents),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// runStage wraps a dataset stage with progress notifications.
func (p *Pipeline) runStage(ctx context.Context, runID, stage string, fn func() (*domain.Dataset, error)) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.notify(runID, stage, StatusStarted, "")
	ds, err := fn()
	if err != nil {
		p.notify(runID, stage, StatusFailed, err.Error())
		return nil, err
	}
	p.notify(runID, stage, StatusCompleted, "")
	return ds, nil
}

// persist runs a persistence step, downgrading its failure to a warning.
func (p *Pipeline) persist(ctx context.Context, result *PipelineResult, what string, fn func() error) {
	if err := fn(); err != nil {
		p.logger.WarnContext(ctx, "could not persist "+what,
			slog.String("error", err.Error()))
		result.Warnings = append(result.Warnings, what+": "+err.Error())
	}
}

func (p *Pipeline) notify(runID, stage, status, detail string) {
	if p.notifier == nil {
		return
	}
	p.notifier.NotifyStage(StageEvent{
		RunID:      runID,
		Stage:      stage,
		Status:     status,
		Detail:     detail,
		OccurredAt: time.Now(),
	})
}
