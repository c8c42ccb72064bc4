package chart

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradepulse/pkg/contracts/domain"
)

func fixtureResult() *domain.AggregateResult {
	return &domain.AggregateResult{
		TotalStudents: 3,
		SubjectAverages: []domain.SubjectAverage{
			{Subject: "Math", Average: 80.0},
			{Subject: "Science", Average: 60.0},
		},
		GradeDistribution: []domain.GradeCount{
			{Grade: domain.GradeB, Count: 2},
			{Grade: domain.GradeD, Count: 1},
		},
		PerformanceByGradeLevel: []domain.GroupAverage{
			{Key: "9th", Average: 75.0},
		},
		GenderPerformance: []domain.GroupAverage{
			{Key: "Female", Average: 77.0},
			{Key: "Male", Average: 72.0},
		},
	}
}

func fixtureDataset() *domain.Dataset {
	return &domain.Dataset{
		Subjects:    []string{"Math"},
		Transformed: true,
		Records: []domain.StudentRecord{
			{StudentID: "STU001", OverallAverage: 85.0},
			{StudentID: "STU002", OverallAverage: 65.0},
			{StudentID: "STU003", OverallAverage: 75.0},
		},
	}
}

func TestBuildCharts(t *testing.T) {
	charts := BuildCharts(fixtureResult(), fixtureDataset())

	names := make([]string, 0, len(charts))
	for _, c := range charts {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"subject_averages",
		"grade_distribution",
		"performance_by_grade_level",
		"gender_performance",
		"overall_distribution",
	}, names)
}

func TestBuildChartsWithoutDataset(t *testing.T) {
	charts := BuildCharts(fixtureResult(), nil)
	for _, c := range charts {
		assert.NotEqual(t, "overall_distribution", c.Name)
	}
}

func TestOverallDistributionSorted(t *testing.T) {
	charts := BuildCharts(fixtureResult(), fixtureDataset())

	var line Chart
	for _, c := range charts {
		if c.Name == "overall_distribution" {
			line = c
		}
	}
	require.Equal(t, KindLine, line.Kind)
	require.Len(t, line.Points, 3)
	assert.Equal(t, 65.0, line.Points[0].Value)
	assert.Equal(t, 75.0, line.Points[1].Value)
	assert.Equal(t, 85.0, line.Points[2].Value)
}

func TestRenderTextBarScaling(t *testing.T) {
	c := Chart{
		Name: "subject_averages", Title: "Average Score by Subject", Kind: KindBar,
		Points: []Point{
			{Label: "Math", Value: 80.0},
			{Label: "Science", Value: 40.0},
		},
	}

	text := c.RenderText()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	var mathLine, scienceLine string
	for _, l := range lines {
		if strings.HasPrefix(l, "Math") {
			mathLine = l
		}
		if strings.HasPrefix(l, "Science") {
			scienceLine = l
		}
	}
	require.NotEmpty(t, mathLine)
	require.NotEmpty(t, scienceLine)

	// The largest value fills the full bar width; half the value gets half
	// the bar.
	assert.Equal(t, maxBarWidth, strings.Count(mathLine, "#"))
	assert.Equal(t, maxBarWidth/2, strings.Count(scienceLine, "#"))
	assert.Contains(t, mathLine, "80.0")
}

func TestRenderTextLine(t *testing.T) {
	charts := BuildCharts(fixtureResult(), fixtureDataset())
	for _, c := range charts {
		if c.Name != "overall_distribution" {
			continue
		}
		text := c.RenderText()
		assert.Contains(t, text, "Overall Average Distribution")
		assert.Contains(t, text, "students, lowest to highest overall average")
	}
}

func TestSaveAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "visualizations")
	err := NewRenderer(nil).SaveAll(context.Background(), dir, fixtureResult(), fixtureDataset())
	require.NoError(t, err)

	for _, name := range []string{
		"subject_averages", "grade_distribution",
		"performance_by_grade_level", "gender_performance",
		"overall_distribution",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name+".txt"))
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}
