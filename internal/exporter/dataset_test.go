package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradepulse/pkg/contracts/domain"
)

func testDataset(transformed bool) *domain.Dataset {
	ds := &domain.Dataset{
		Subjects: []string{"Math", "Science"},
		Records: []domain.StudentRecord{
			{
				StudentID: "STU001", Name: "Alice", GradeLevel: "9th", Gender: "Female",
				Scores: map[string]float64{"Math": 90, "Science": 80},
			},
			{
				StudentID: "STU002", Name: "Bob", GradeLevel: "10th", Gender: "Male",
				Scores: map[string]float64{"Math": 70, "Science": 60},
			},
		},
	}
	if transformed {
		ds.Transformed = true
		ds.Records[0].OverallAverage = 85.0
		ds.Records[0].LetterGrade = domain.GradeB
		ds.Records[0].Performance = domain.PerformanceExcellent
		ds.Records[0].BestSubject = "Math"
		ds.Records[0].WorstSubject = "Science"
		ds.Records[1].OverallAverage = 65.0
		ds.Records[1].LetterGrade = domain.GradeD
		ds.Records[1].Performance = domain.PerformanceAverage
		ds.Records[1].BestSubject = "Math"
		ds.Records[1].WorstSubject = "Science"
	}
	return ds
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSaveDatasetCleanedShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "cleaned_grades.csv")
	err := NewDatasetExporter(nil).SaveDataset(context.Background(), path, testDataset(false))
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"student_id", "name", "grade_level", "gender", "Math", "Science"}, rows[0])
	assert.Equal(t, []string{"STU001", "Alice", "9th", "Female", "90.0", "80.0"}, rows[1])
}

func TestSaveDatasetTransformedAppendsDerivedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transformed_grades.csv")
	err := NewDatasetExporter(nil).SaveDataset(context.Background(), path, testDataset(true))
	require.NoError(t, err)

	rows := readCSV(t, path)
	assert.Equal(t, []string{
		"student_id", "name", "grade_level", "gender", "Math", "Science",
		"overall_average", "letter_grade", "performance", "best_subject", "worst_subject",
	}, rows[0])
	assert.Equal(t, []string{
		"STU002", "Bob", "10th", "Male", "70.0", "60.0",
		"65.0", "D", "Average", "Math", "Science",
	}, rows[2])
}

func TestSaveDatasetMissingScoreIsEmptyCell(t *testing.T) {
	ds := testDataset(false)
	delete(ds.Records[1].Scores, "Science")

	path := filepath.Join(t.TempDir(), "cleaned_grades.csv")
	err := NewDatasetExporter(nil).SaveDataset(context.Background(), path, ds)
	require.NoError(t, err)

	rows := readCSV(t, path)
	assert.Equal(t, "", rows[2][5])
}

func TestSaveSummary(t *testing.T) {
	result := &domain.AggregateResult{
		TotalStudents: 2,
		AverageGrade:  75.0,
		HighestGrade:  85.0,
		LowestGrade:   65.0,
		SubjectAverages: []domain.SubjectAverage{
			{Subject: "Math", Average: 80.0},
		},
		GradeDistribution: []domain.GradeCount{
			{Grade: domain.GradeB, Count: 1},
			{Grade: domain.GradeD, Count: 1},
		},
	}

	path := filepath.Join(t.TempDir(), "data", "analysis_summary.json")
	err := NewDatasetExporter(nil).SaveSummary(context.Background(), path, result)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded domain.AggregateResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result.TotalStudents, decoded.TotalStudents)
	assert.Equal(t, result.GradeDistribution, decoded.GradeDistribution)
}

func TestSaveDatasetStorageErrorOnBadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// Using a regular file as a directory component fails at MkdirAll.
	path := filepath.Join(blocker, "cleaned_grades.csv")
	err := NewDatasetExporter(nil).SaveDataset(context.Background(), path, testDataset(false))
	require.Error(t, err)
}
