package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradepulse/internal/errors"
	"gradepulse/pkg/contracts/domain"
)

func newTestService(t *testing.T) *AnalyticsService {
	t.Helper()
	cfg := testConfig(t)
	writeInputCSV(t, cfg, `student_id,name,grade_level,gender,Math,Science
STU001,Alice,9th,Female,95,93
STU002,Bob,10th,Male,72,68
STU003,Carol,9th,Female,88,84
STU004,Dave,10th,Male,55,61
`)
	return NewAnalyticsService(NewPipeline(cfg, nil, nil), nil)
}

func TestServiceUnavailableBeforeFirstRefresh(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Summary()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeAnalysis))

	_, err = svc.Students(StudentFilter{})
	assert.Error(t, err)

	status := svc.Status()
	assert.False(t, status.Ready)
}

func TestServiceRefreshAndSummary(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Summary.TotalStudents)

	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalStudents)

	status := svc.Status()
	assert.True(t, status.Ready)
	assert.Equal(t, result.RunID, status.RunID)
	assert.Equal(t, 4, status.Students)
}

func TestServiceStudentFilters(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name    string
		filter  StudentFilter
		wantIDs []string
	}{
		{
			name:    "no filter returns everyone",
			filter:  StudentFilter{},
			wantIDs: []string{"STU001", "STU002", "STU003", "STU004"},
		},
		{
			name:    "grade level",
			filter:  StudentFilter{GradeLevel: "9th"},
			wantIDs: []string{"STU001", "STU003"},
		},
		{
			name:    "case insensitive",
			filter:  StudentFilter{GradeLevel: "9TH"},
			wantIDs: []string{"STU001", "STU003"},
		},
		{
			name:    "letter grade",
			filter:  StudentFilter{LetterGrade: "A"},
			wantIDs: []string{"STU001"},
		},
		{
			name:    "filters combine with AND",
			filter:  StudentFilter{GradeLevel: "10th", LetterGrade: "C"},
			wantIDs: []string{"STU002"},
		},
		{
			name:    "no match",
			filter:  StudentFilter{GradeLevel: "12th"},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students, err := svc.Students(tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(students))
			for _, s := range students {
				ids = append(ids, s.StudentID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestServiceTopPerformers(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	top, err := svc.TopPerformers(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "STU001", top[0].StudentID)
	assert.Equal(t, "STU003", top[1].StudentID)
	assert.GreaterOrEqual(t, top[0].OverallAverage, top[1].OverallAverage)

	// Asking for more than exist returns everyone, still ranked.
	all, err := svc.TopPerformers(100)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "STU004", all[3].StudentID)
}

func TestServiceCharts(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	charts, err := svc.Charts()
	require.NoError(t, err)
	assert.NotEmpty(t, charts)

	c, err := svc.Chart("subject_averages")
	require.NoError(t, err)
	assert.Equal(t, "subject_averages", c.Name)
	require.Len(t, c.Points, 2)
	assert.Equal(t, "Math", c.Points[0].Label)

	_, err = svc.Chart("no_such_chart")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestFilterMatches(t *testing.T) {
	record := &domain.StudentRecord{
		GradeLevel:  "9th",
		LetterGrade: domain.GradeB,
		Performance: domain.PerformanceGood,
	}

	assert.True(t, StudentFilter{}.Matches(record))
	assert.True(t, StudentFilter{GradeLevel: "9th", LetterGrade: "b"}.Matches(record))
	assert.False(t, StudentFilter{GradeLevel: "9th", LetterGrade: "A"}.Matches(record))
	assert.False(t, StudentFilter{Performance: "Excellent"}.Matches(record))
}
