package domain

// Dataset is an ordered collection of student records sharing one schema.
// Subjects holds the subject columns present in the input, in canonical
// order (KnownSubjects order filtered to what the file actually carried).
//
// Pipeline stages treat a Dataset as immutable: each stage builds and
// returns a new Dataset rather than mutating the one it received.
type Dataset struct {
	Subjects []string        `json:"subjects"`
	Records  []StudentRecord `json:"records"`

	// Transformed reports whether derived fields have been computed.
	Transformed bool `json:"transformed"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// HasSubjects reports whether any subject columns survived loading.
func (d *Dataset) HasSubjects() bool {
	return len(d.Subjects) > 0
}

// Clone returns a deep copy of the dataset. Stages clone their input before
// deriving anything so the caller's view is never touched.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Subjects:    append([]string(nil), d.Subjects...),
		Records:     make([]StudentRecord, len(d.Records)),
		Transformed: d.Transformed,
	}
	for i := range d.Records {
		rec := d.Records[i]
		rec.Scores = d.Records[i].CloneScores()
		out.Records[i] = rec
	}
	return out
}
