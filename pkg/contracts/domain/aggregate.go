package domain

// SubjectAverage is the mean score of one subject across the dataset.
type SubjectAverage struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
}

// GradeCount is the number of students holding one letter grade.
type GradeCount struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
}

// GroupAverage is the mean overall average for one value of a grouping
// column (grade level or gender).
type GroupAverage struct {
	Key     string  `json:"key"`
	Average float64 `json:"average"`
}

// AggregateResult is a read-only snapshot of dataset-wide statistics. All
// slices are sorted by their key fields so repeated aggregations of the same
// dataset serialize identically. GradeDistribution carries only letters that
// actually occur; absent letters are not zero-filled.
type AggregateResult struct {
	TotalStudents int     `json:"total_students"`
	AverageGrade  float64 `json:"average_overall_grade"`
	HighestGrade  float64 `json:"highest_grade"`
	LowestGrade   float64 `json:"lowest_grade"`

	SubjectAverages         []SubjectAverage `json:"subject_averages"`
	GradeDistribution       []GradeCount     `json:"grade_distribution"`
	PerformanceByGradeLevel []GroupAverage   `json:"performance_by_grade_level"`
	GenderPerformance       []GroupAverage   `json:"gender_performance"`
}

// DistributionTotal sums the grade distribution counts. It always equals
// TotalStudents for a result produced from a transformed dataset.
func (a *AggregateResult) DistributionTotal() int {
	total := 0
	for _, gc := range a.GradeDistribution {
		total += gc.Count
	}
	return total
}
