// samplegen writes a synthetic student grades CSV for development and
// demos. The same seed always produces the same file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gradepulse/internal/dataprocessing"
	"gradepulse/internal/exporter"
	"gradepulse/internal/validation"
)

func main() {
	out := flag.String("out", "data/student_grades.csv", "output CSV path")
	size := flag.Int("size", 100, "number of students to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := validation.NewFileValidator(nil).ValidateOutputDirectory(filepath.Dir(*out)); err != nil {
		slog.Error("output directory unusable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ds := dataprocessing.NewSampleGenerator(*size, *seed).Generate()

	if err := exporter.NewDatasetExporter(nil).SaveDataset(context.Background(), *out, ds); err != nil {
		slog.Error("failed to write sample", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("wrote %d students to %s\n", ds.Len(), *out)
}
