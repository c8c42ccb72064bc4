// Package chart turns aggregate results into visualizations: plain-text
// bar charts and distribution plots written to the visualizations
// directory, and structured chart payloads for the dashboard API.
package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"gradepulse/pkg/contracts/domain"
)

// Chart kinds understood by the dashboard front end.
const (
	KindBar  = "bar"
	KindLine = "line"
)

// Point is one labelled value in a chart series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is a renderable series. Name is the stable identifier used in API
// routes and file names; Title is for display.
type Chart struct {
	Name   string  `json:"name"`
	Title  string  `json:"title"`
	Kind   string  `json:"kind"`
	Points []Point `json:"points"`
}

// BuildCharts derives every chart from an aggregate result plus the
// transformed dataset (needed for the overall-average distribution). The
// order is stable.
func BuildCharts(result *domain.AggregateResult, ds *domain.Dataset) []Chart {
	charts := []Chart{
		subjectAveragesChart(result),
		gradeDistributionChart(result),
		groupChart("performance_by_grade_level", "Performance by Grade Level", result.PerformanceByGradeLevel),
		groupChart("gender_performance", "Performance by Gender", result.GenderPerformance),
	}
	if ds != nil && ds.Len() > 0 {
		charts = append(charts, overallDistributionChart(ds))
	}
	return charts
}

func subjectAveragesChart(result *domain.AggregateResult) Chart {
	c := Chart{Name: "subject_averages", Title: "Average Score by Subject", Kind: KindBar}
	for _, sa := range result.SubjectAverages {
		c.Points = append(c.Points, Point{Label: sa.Subject, Value: sa.Average})
	}
	return c
}

func gradeDistributionChart(result *domain.AggregateResult) Chart {
	c := Chart{Name: "grade_distribution", Title: "Grade Distribution", Kind: KindBar}
	for _, gc := range result.GradeDistribution {
		c.Points = append(c.Points, Point{Label: gc.Grade, Value: float64(gc.Count)})
	}
	return c
}

func groupChart(name, title string, groups []domain.GroupAverage) Chart {
	c := Chart{Name: name, Title: title, Kind: KindBar}
	for _, ga := range groups {
		c.Points = append(c.Points, Point{Label: ga.Key, Value: ga.Average})
	}
	return c
}

// overallDistributionChart plots the sorted overall averages, lowest to
// highest, so the curve shape shows how grades spread across the cohort.
func overallDistributionChart(ds *domain.Dataset) Chart {
	averages := make([]float64, 0, ds.Len())
	for i := range ds.Records {
		averages = append(averages, ds.Records[i].OverallAverage)
	}
	sort.Float64s(averages)

	c := Chart{Name: "overall_distribution", Title: "Overall Average Distribution", Kind: KindLine}
	for i, avg := range averages {
		c.Points = append(c.Points, Point{Label: fmt.Sprintf("%d", i+1), Value: avg})
	}
	return c
}

// maxBarWidth is the character width of the longest bar in text charts.
const maxBarWidth = 50

// RenderText renders a chart as plain text. Bar charts become horizontal
// bars scaled against the largest value; line charts become an asciigraph
// plot.
func (c Chart) RenderText() string {
	var b strings.Builder
	b.WriteString(c.Title + "\n")
	b.WriteString(strings.Repeat("=", len(c.Title)) + "\n\n")

	if c.Kind == KindLine {
		values := make([]float64, 0, len(c.Points))
		for _, p := range c.Points {
			values = append(values, p.Value)
		}
		if len(values) > 0 {
			b.WriteString(asciigraph.Plot(values,
				asciigraph.Height(10),
				asciigraph.Width(60),
				asciigraph.Caption("students, lowest to highest overall average")))
			b.WriteString("\n")
		}
		return b.String()
	}

	maxValue := 0.0
	labelWidth := 0
	for _, p := range c.Points {
		if p.Value > maxValue {
			maxValue = p.Value
		}
		if len(p.Label) > labelWidth {
			labelWidth = len(p.Label)
		}
	}

	for _, p := range c.Points {
		width := 0
		if maxValue > 0 {
			width = int(p.Value / maxValue * maxBarWidth)
		}
		fmt.Fprintf(&b, "%-*s | %s %.1f\n", labelWidth, p.Label, strings.Repeat("#", width), p.Value)
	}

	return b.String()
}
