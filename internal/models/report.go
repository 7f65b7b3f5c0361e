// Package models defines data structures and domain types.
package models

import "time"

// Chart names used for rendered files and stored aggregates.
const (
	ChartReleaseYears      = "release_years"
	ChartReleaseYearCounts = "release_year_counts"
	ChartTypes             = "types"
	ChartRatings           = "ratings"
	ChartGenres            = "genres"
	ChartCountries         = "countries"
	ChartDurations         = "durations"
	ChartAddedByYear       = "added_by_year"
	ChartAddedByMonth      = "added_by_month"
)

// Charts lists every chart name in display order.
var Charts = []string{
	ChartTypes, ChartRatings, ChartGenres, ChartCountries,
	ChartReleaseYears, ChartReleaseYearCounts, ChartDurations,
	ChartAddedByYear, ChartAddedByMonth,
}

// Report holds every aggregate computed in one analysis run.
type Report struct {
	GeneratedAt       time.Time          `json:"-"`
	DurationSummaries map[string]Summary `json:"duration_summaries"`
	Fingerprint       string             `json:"-"`
	ReleaseYears      Histogram          `json:"release_years"`
	ReleaseYearCounts FrequencyTable     `json:"release_year_counts"`
	Types             FrequencyTable     `json:"types"`
	Ratings           FrequencyTable     `json:"ratings"`
	Genres            FrequencyTable     `json:"genres"`
	Countries         FrequencyTable     `json:"countries"`
	Durations         PartitionedSeries  `json:"durations"`
	AddedByYear       TimelineSeries     `json:"added_by_year"`
	AddedByMonth      TimelineSeries     `json:"added_by_month"`
	NonMissing        []ColumnCount      `json:"non_missing"`
	RecordCount       int                `json:"record_count"`
	WarningCount      int                `json:"warning_count"`
}

// ColumnCount is the number of rows with a non-blank cell in one column.
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// Frequencies returns the report's frequency tables keyed by chart name.
func (r *Report) Frequencies() map[string]FrequencyTable {
	return map[string]FrequencyTable{
		ChartReleaseYearCounts: r.ReleaseYearCounts,
		ChartTypes:             r.Types,
		ChartRatings:           r.Ratings,
		ChartGenres:            r.Genres,
		ChartCountries:         r.Countries,
	}
}

// Run is a recorded analysis run.
type Run struct {
	CreatedAt     time.Time
	DatasetPath   string
	DatasetSHA256 string
	Fingerprint   string
	ID            int64
	RecordCount   int
	WarningCount  int
	TopN          int
	HistogramBins int
}

// SameOptions reports whether two runs were computed with the same options.
func (r Run) SameOptions(o Run) bool {
	return r.TopN == o.TopN && r.HistogramBins == o.HistogramBins
}

// MonthlyRunCount is the number of runs recorded in a calendar month.
type MonthlyRunCount struct {
	Period Bucket
	Count  int
}

// AggregatePoint is one stored point of a chart.
type AggregatePoint struct {
	Label string
	Value float64
}
