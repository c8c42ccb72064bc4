package dataprocessing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradepulse/internal/errors"
	"gradepulse/internal/shared/testutil"
	"gradepulse/pkg/contracts/domain"
)

func newTestDataset(subjects []string, records ...domain.StudentRecord) *domain.Dataset {
	return &domain.Dataset{Subjects: subjects, Records: records}
}

func record(id string, scores map[string]float64) domain.StudentRecord {
	return domain.StudentRecord{
		StudentID:  id,
		Name:       "Student " + id,
		GradeLevel: "10th",
		Gender:     "Female",
		Scores:     scores,
	}
}

func TestCleanNormalizesTextFields(t *testing.T) {
	ds := newTestDataset([]string{"Math"},
		domain.StudentRecord{
			StudentID:  "STU001",
			Name:       "  Alice  ",
			GradeLevel: "10TH",
			Gender:     " Female ",
			Scores:     map[string]float64{"Math": 80},
		},
	)

	cleaned, err := NewCleaner(nil).Clean(context.Background(), ds)
	require.NoError(t, err)

	got := cleaned.Records[0]
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "10th", got.GradeLevel)
	assert.Equal(t, "Female", got.Gender)
}

func TestCleanImputesColumnMean(t *testing.T) {
	// Math column [80, missing, 100]: mean of present values is 90.0.
	ds := newTestDataset([]string{"Math"},
		record("STU001", map[string]float64{"Math": 80}),
		record("STU002", map[string]float64{}),
		record("STU003", map[string]float64{"Math": 100}),
	)

	cleaned, err := NewCleaner(nil).Clean(context.Background(), ds)
	require.NoError(t, err)

	filled, ok := cleaned.Records[1].Score("Math")
	require.True(t, ok, "missing score should be filled")
	assert.Equal(t, 90.0, filled)
}

func TestCleanMeanComputedInSinglePass(t *testing.T) {
	// The fill value must come from the raw distribution only: with two
	// missing values the mean stays (60+90)/2=75, not a running mean that
	// absorbs earlier fills.
	ds := newTestDataset([]string{"Math"},
		record("STU001", map[string]float64{"Math": 60}),
		record("STU002", map[string]float64{}),
		record("STU003", map[string]float64{"Math": 90}),
		record("STU004", map[string]float64{}),
	)

	cleaned, err := NewCleaner(nil).Clean(context.Background(), ds)
	require.NoError(t, err)

	for _, i := range []int{1, 3} {
		got, ok := cleaned.Records[i].Score("Math")
		require.True(t, ok)
		assert.Equal(t, 75.0, got, "record %d", i)
	}
}

func TestCleanRoundsFillToOneDecimal(t *testing.T) {
	// Mean of [80, 85, 92] is 85.666..., which fills as 85.7.
	ds := newTestDataset([]string{"Science"},
		record("STU001", map[string]float64{"Science": 80}),
		record("STU002", map[string]float64{"Science": 85}),
		record("STU003", map[string]float64{"Science": 92}),
		record("STU004", map[string]float64{}),
	)

	cleaned, err := NewCleaner(nil).Clean(context.Background(), ds)
	require.NoError(t, err)

	got, ok := cleaned.Records[3].Score("Science")
	require.True(t, ok)
	assert.Equal(t, 85.7, got)
}

func TestCleanExcludesSubjectWithNoValues(t *testing.T) {
	ds := newTestDataset([]string{"Math", "Art"},
		record("STU001", map[string]float64{"Math": 70}),
		record("STU002", map[string]float64{"Math": 90}),
	)

	capture, logger := testutil.NewLogCapture()
	cleaned, err := NewCleaner(logger).Clean(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, []string{"Math"}, cleaned.Subjects)
	_, ok := cleaned.Records[0].Score("Art")
	assert.False(t, ok, "excluded subjects are not filled")
	assert.True(t, capture.HasMessage(slog.LevelWarn, "excluding subject columns with no values"))
}

func TestCleanImputedStudentGetsGradeFromFill(t *testing.T) {
	// Single-subject dataset: the imputed student's overall average equals
	// the fill value (90.0), which bands to A / Excellent.
	ds := newTestDataset([]string{"Math"},
		record("STU001", map[string]float64{"Math": 80}),
		record("STU002", map[string]float64{}),
		record("STU003", map[string]float64{"Math": 100}),
	)

	ctx := context.Background()
	cleaned, err := NewCleaner(nil).Clean(ctx, ds)
	require.NoError(t, err)
	transformed, err := NewTransformer(nil).Transform(ctx, cleaned)
	require.NoError(t, err)

	imputed := transformed.Records[1]
	assert.Equal(t, 90.0, imputed.OverallAverage)
	assert.Equal(t, domain.GradeA, imputed.LetterGrade)
	assert.Equal(t, domain.PerformanceExcellent, imputed.Performance)
	// One subject column: best and worst coincide.
	assert.Equal(t, "Math", imputed.BestSubject)
	assert.Equal(t, "Math", imputed.WorstSubject)
}

func TestCleanLeavesNoMissingValues(t *testing.T) {
	raw := NewSampleGenerator(100, 7).Generate()

	cleaned, err := NewCleaner(nil).Clean(context.Background(), raw)
	require.NoError(t, err)

	for i := range cleaned.Records {
		for _, subject := range cleaned.Subjects {
			_, ok := cleaned.Records[i].Score(subject)
			assert.True(t, ok, "record %s subject %s", cleaned.Records[i].StudentID, subject)
		}
	}
}

func TestCleanMissingSchema(t *testing.T) {
	tests := []struct {
		name string
		ds   *domain.Dataset
	}{
		{
			name: "no subject columns",
			ds:   newTestDataset(nil, record("STU001", map[string]float64{})),
		},
		{
			name: "all subject columns empty",
			ds: newTestDataset([]string{"Math", "Science"},
				record("STU001", map[string]float64{}),
				record("STU002", map[string]float64{}),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCleaner(nil).Clean(context.Background(), tt.ds)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeSchema))
		})
	}
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	ds := newTestDataset([]string{"Math"},
		domain.StudentRecord{
			StudentID:  "STU001",
			Name:       "  Padded  ",
			GradeLevel: "9TH",
			Gender:     "Male",
			Scores:     map[string]float64{"Math": 50},
		},
		record("STU002", map[string]float64{}),
	)

	_, err := NewCleaner(nil).Clean(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, "  Padded  ", ds.Records[0].Name)
	assert.Equal(t, "9TH", ds.Records[0].GradeLevel)
	_, ok := ds.Records[1].Score("Math")
	assert.False(t, ok, "input must keep its missing values")
}
