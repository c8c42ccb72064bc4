package dataprocessing

import (
	"fmt"
	"math/rand"
	"strings"

	"gradepulse/pkg/contracts/domain"
)

// SampleGenerator produces a deterministic synthetic dataset for runs
// without a real input file. The generated data deliberately carries the
// quality issues the cleaner exists for: padded names, inconsistently
// cased grade levels and missing scores.
type SampleGenerator struct {
	size int
	seed int64
}

// NewSampleGenerator creates a generator for size students. The same seed
// always yields the same dataset.
func NewSampleGenerator(size int, seed int64) *SampleGenerator {
	if size <= 0 {
		size = 100
	}
	return &SampleGenerator{size: size, seed: seed}
}

var (
	gradeLevels = []string{"9th", "10th", "11th", "12th"}
	genders     = []string{"Male", "Female"}
)

// missingRate is the chance a subject score is absent for a student.
const missingRate = 0.05

// Generate builds the synthetic dataset. Scores follow a normal
// distribution centred on 75 with a standard deviation of 15, clamped to
// [0,100] and rounded to one decimal.
func (g *SampleGenerator) Generate() *domain.Dataset {
	rng := rand.New(rand.NewSource(g.seed))

	ds := &domain.Dataset{
		Subjects: append([]string(nil), domain.KnownSubjects...),
		Records:  make([]domain.StudentRecord, 0, g.size),
	}

	for i := 0; i < g.size; i++ {
		record := domain.StudentRecord{
			StudentID:  fmt.Sprintf("STU%03d", i+1),
			Name:       fmt.Sprintf("Student %d", i+1),
			GradeLevel: gradeLevels[rng.Intn(len(gradeLevels))],
			Gender:     genders[rng.Intn(len(genders))],
			Scores:     make(map[string]float64, len(domain.KnownSubjects)),
		}

		for _, subject := range domain.KnownSubjects {
			if rng.Float64() <= missingRate {
				continue // missing score
			}
			score := rng.NormFloat64()*15 + 75
			if score < 0 {
				score = 0
			}
			if score > 100 {
				score = 100
			}
			record.Scores[subject] = round1(score)
		}

		ds.Records = append(ds.Records, record)
	}

	// Inject the data quality issues the cleaner demonstrates on:
	// padded names on the first rows, shouty grade levels further in.
	for i := 0; i <= 5 && i < len(ds.Records); i++ {
		ds.Records[i].Name = "  " + ds.Records[i].Name + "  "
	}
	for i := 10; i <= 15 && i < len(ds.Records); i++ {
		ds.Records[i].GradeLevel = strings.ReplaceAll(ds.Records[i].GradeLevel, "th", "TH")
	}

	return ds
}
