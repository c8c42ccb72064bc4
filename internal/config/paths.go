package config

import (
	"os"
	"path/filepath"
)

// Paths is the single source of truth for file locations used by the
// pipeline and its presenters.
//
// Directory layout under the base directory:
//
//	data/
//	  student_grades.csv       (raw input, or generated sample)
//	  cleaned_grades.csv       (cleaner output)
//	  transformed_grades.csv   (transformer output, derived columns appended)
//	visualizations/            (rendered charts)
//	analysis_report.txt        (summary report)
//	logs/                      (application logs)
type Paths struct {
	BaseDir           string
	DataDir           string
	VisualizationsDir string
	LogsDir           string

	RawCSV         string
	CleanedCSV     string
	TransformedCSV string
	SummaryJSON    string
	ReportFile     string
}

// NewPaths builds the path set rooted at baseDir. An empty baseDir means
// the current working directory.
func NewPaths(baseDir string) *Paths {
	if baseDir == "" {
		baseDir = "."
	}

	dataDir := filepath.Join(baseDir, "data")

	return &Paths{
		BaseDir:           baseDir,
		DataDir:           dataDir,
		VisualizationsDir: filepath.Join(baseDir, "visualizations"),
		LogsDir:           filepath.Join(baseDir, "logs"),

		RawCSV:         filepath.Join(dataDir, "student_grades.csv"),
		CleanedCSV:     filepath.Join(dataDir, "cleaned_grades.csv"),
		TransformedCSV: filepath.Join(dataDir, "transformed_grades.csv"),
		SummaryJSON:    filepath.Join(dataDir, "analysis_summary.json"),
		ReportFile:     filepath.Join(baseDir, "analysis_report.txt"),
	}
}

// GetPaths returns the path set for the configured base directory.
func (c *Config) GetPaths() *Paths {
	return NewPaths(c.Paths.BaseDir)
}

// EnsureDirectories creates every directory the pipeline writes into.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.VisualizationsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// GetLogPath returns a log file path inside the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetVisualizationPath returns a chart file path inside the
// visualizations directory.
func (p *Paths) GetVisualizationPath(filename string) string {
	return filepath.Join(p.VisualizationsDir, filename)
}
