package domain

// KnownSubjects is the canonical ordering of subject score columns. Input
// files may carry any subset of these; columns outside the set are ignored.
// The order here is what breaks ties for best/worst subject.
var KnownSubjects = []string{"Math", "Science", "English", "History", "Art"}

// Letter grades, ordered best to worst.
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeF = "F"
)

// Performance tiers.
const (
	PerformanceExcellent        = "Excellent"
	PerformanceGood             = "Good"
	PerformanceAverage          = "Average"
	PerformanceNeedsImprovement = "Needs Improvement"
)

// StudentRecord represents one student row. Scores maps subject name to a
// numeric score in [0,100]; a subject absent from the map is a missing value.
// The derived fields are zero until the transformer populates them.
type StudentRecord struct {
	StudentID  string             `json:"student_id" csv:"student_id" validate:"required"`
	Name       string             `json:"name" csv:"name"`
	GradeLevel string             `json:"grade_level" csv:"grade_level"`
	Gender     string             `json:"gender" csv:"gender"`
	Scores     map[string]float64 `json:"scores" validate:"dive,min=0,max=100"`

	// Derived fields, computed by the transformer.
	OverallAverage float64 `json:"overall_average,omitempty"`
	LetterGrade    string  `json:"letter_grade,omitempty"`
	Performance    string  `json:"performance,omitempty"`
	BestSubject    string  `json:"best_subject,omitempty"`
	WorstSubject   string  `json:"worst_subject,omitempty"`
}

// Score returns the score for a subject and whether it is present.
func (r *StudentRecord) Score(subject string) (float64, bool) {
	v, ok := r.Scores[subject]
	return v, ok
}

// CloneScores returns a copy of the score map so callers can fill values
// without mutating the source record.
func (r *StudentRecord) CloneScores() map[string]float64 {
	scores := make(map[string]float64, len(r.Scores))
	for subject, score := range r.Scores {
		scores[subject] = score
	}
	return scores
}
