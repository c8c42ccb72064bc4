package chart

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"gradepulse/internal/errors"
	"gradepulse/pkg/contracts/domain"
)

// Renderer writes chart files into the visualizations directory.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a chart renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// SaveAll renders every chart for the result into dir, one text file per
// chart. It keeps going after a failed chart and reports the first error,
// so one bad file does not suppress the rest.
func (r *Renderer) SaveAll(ctx context.Context, dir string, result *domain.AggregateResult, ds *domain.Dataset) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewStorageError("failed to create visualizations directory", err).
			WithContext("dir", dir)
	}

	var firstErr error
	for _, c := range BuildCharts(result, ds) {
		path := filepath.Join(dir, c.Name+".txt")
		if err := os.WriteFile(path, []byte(c.RenderText()), 0644); err != nil {
			r.logger.WarnContext(ctx, "failed to write chart",
				slog.String("chart", c.Name),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = errors.NewStorageError("failed to write chart", err).
					WithContext("chart", c.Name)
			}
			continue
		}
		r.logger.InfoContext(ctx, "chart saved",
			slog.String("chart", c.Name),
			slog.String("path", path))
	}

	return firstErr
}
