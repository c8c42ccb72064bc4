package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradepulse/internal/config"
	"gradepulse/internal/errors"
)

// testConfig returns a config rooted at a temp directory with a small
// deterministic sample.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Pipeline.SampleSize = 25
	cfg.Pipeline.SampleSeed = 42
	return cfg
}

func writeInputCSV(t *testing.T, cfg *config.Config, content string) {
	t.Helper()
	paths := cfg.GetPaths()
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.WriteFile(paths.RawCSV, []byte(content), 0644))
}

// recordingNotifier captures stage events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []StageEvent
}

func (n *recordingNotifier) NotifyStage(event StageEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) stages(status string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var stages []string
	for _, e := range n.events {
		if e.Status == status {
			stages = append(stages, e.Stage)
		}
	}
	return stages
}

func TestPipelineRunFromCSV(t *testing.T) {
	cfg := testConfig(t)
	writeInputCSV(t, cfg, `student_id,name,grade_level,gender,Math,Science
STU001,Alice,9th,Female,90,80
STU002,Bob,10th,Male,70,
STU003,Carol,9th,Female,85,95
`)

	notifier := &recordingNotifier{}
	result, err := NewPipeline(cfg, nil, notifier).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 3, result.Summary.TotalStudents)
	assert.True(t, result.Dataset.Transformed)

	// Every stage started and completed, in order.
	expected := []string{StageLoad, StageClean, StageTransform, StageAggregate, StagePresent}
	assert.Equal(t, expected, notifier.stages(StatusStarted))
	assert.Equal(t, expected, notifier.stages(StatusCompleted))
	assert.Empty(t, notifier.stages(StatusFailed))

	// Bob's missing Science score was imputed with the column mean.
	science, ok := result.Dataset.Records[1].Score("Science")
	require.True(t, ok)
	assert.Equal(t, 87.5, science)
}

func TestPipelineWritesArtifacts(t *testing.T) {
	cfg := testConfig(t)
	_, err := NewPipeline(cfg, nil, nil).Run(context.Background())
	require.NoError(t, err)

	paths := cfg.GetPaths()
	for _, path := range []string{
		paths.RawCSV, // generated sample persisted for later runs
		paths.CleanedCSV,
		paths.TransformedCSV,
		paths.SummaryJSON,
		paths.ReportFile,
		filepath.Join(paths.VisualizationsDir, "subject_averages.txt"),
		filepath.Join(paths.VisualizationsDir, "grade_distribution.txt"),
	} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size(), path)
	}
}

func TestPipelineGeneratesSampleWhenInputMissing(t *testing.T) {
	cfg := testConfig(t)
	result, err := NewPipeline(cfg, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, result.Summary.TotalStudents)
}

func TestPipelineFailsWithoutInputOrGenerator(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.GenerateSample = false

	notifier := &recordingNotifier{}
	_, err := NewPipeline(cfg, nil, notifier).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
	assert.Equal(t, []string{StageLoad}, notifier.stages(StatusFailed))
}

func TestPipelineSchemaFailureAbortsDownstream(t *testing.T) {
	cfg := testConfig(t)
	writeInputCSV(t, cfg, "student_id,name\nSTU001,Alice\n")

	notifier := &recordingNotifier{}
	_, err := NewPipeline(cfg, nil, notifier).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchema))

	// Nothing downstream of the failed clean stage ran.
	assert.Equal(t, []string{StageLoad, StageClean}, notifier.stages(StatusStarted))

	paths := cfg.GetPaths()
	_, statErr := os.Stat(paths.TransformedCSV)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipelineDeterministicAcrossRuns(t *testing.T) {
	cfg := testConfig(t)
	pipeline := NewPipeline(cfg, nil, nil)

	first, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	second, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
}
