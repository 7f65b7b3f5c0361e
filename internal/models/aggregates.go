// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"strconv"
)

// FrequencyEntry is a single label and its count.
type FrequencyEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FrequencyTable is an ordered list of label counts.
type FrequencyTable []FrequencyEntry

// Total returns the sum of all counts.
func (f FrequencyTable) Total() int {
	total := 0
	for _, e := range f {
		total += e.Count
	}
	return total
}

// Labels returns the labels in table order.
func (f FrequencyTable) Labels() []string {
	labels := make([]string, len(f))
	for i, e := range f {
		labels[i] = e.Label
	}
	return labels
}

// Values returns the counts in table order as floats for charting.
func (f FrequencyTable) Values() []float64 {
	values := make([]float64, len(f))
	for i, e := range f {
		values[i] = float64(e.Count)
	}
	return values
}

// Count returns the count recorded for label, or 0.
func (f FrequencyTable) Count(label string) int {
	for _, e := range f {
		if e.Label == label {
			return e.Count
		}
	}
	return 0
}

// Partition is one group of a PartitionedSeries.
type Partition struct {
	Key    string `json:"key"`
	Values []int  `json:"values"`
}

// PartitionedSeries holds integer series grouped by a discriminator,
// in the order the partitions were first seen.
type PartitionedSeries []Partition

// Get returns the values for key and whether the partition exists.
func (p PartitionedSeries) Get(key string) ([]int, bool) {
	for _, part := range p {
		if part.Key == key {
			return part.Values, true
		}
	}
	return nil, false
}

// Keys returns partition keys in order.
func (p PartitionedSeries) Keys() []string {
	keys := make([]string, len(p))
	for i, part := range p {
		keys[i] = part.Key
	}
	return keys
}

// Granularity selects the calendar bucket size of a timeline.
type Granularity int

const (
	// GranularityYear buckets by calendar year.
	GranularityYear Granularity = iota
	// GranularityMonth buckets by calendar year and month.
	GranularityMonth
)

// String returns the display name for a granularity.
func (g Granularity) String() string {
	switch g {
	case GranularityYear:
		return "year"
	case GranularityMonth:
		return "month"
	default:
		return "unknown"
	}
}

// Bucket is a calendar period. Month is 0 for yearly buckets.
type Bucket struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
}

// Before reports whether b sorts before o chronologically.
func (b Bucket) Before(o Bucket) bool {
	if b.Year != o.Year {
		return b.Year < o.Year
	}
	return b.Month < o.Month
}

// String renders the bucket as "2021" or "2021-03".
func (b Bucket) String() string {
	if b.Month == 0 {
		return strconv.Itoa(b.Year)
	}
	return fmt.Sprintf("%04d-%02d", b.Year, b.Month)
}

// TimelinePoint is the number of titles in one bucket.
type TimelinePoint struct {
	Period Bucket `json:"period"`
	Count  int    `json:"count"`
}

// TimelineSeries is a chronologically ascending list of buckets.
type TimelineSeries []TimelinePoint

// Labels returns the bucket labels in order.
func (t TimelineSeries) Labels() []string {
	labels := make([]string, len(t))
	for i, p := range t {
		labels[i] = p.Period.String()
	}
	return labels
}

// Values returns the counts in order as floats for charting.
func (t TimelineSeries) Values() []float64 {
	values := make([]float64, len(t))
	for i, p := range t {
		values[i] = float64(p.Count)
	}
	return values
}

// HistogramBin is one equal-width bin of a histogram. High is exclusive
// except for the last bin.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram is an ordered list of bins.
type Histogram []HistogramBin

// Total returns the number of observations across all bins.
func (h Histogram) Total() int {
	total := 0
	for _, b := range h {
		total += b.Count
	}
	return total
}

// Summary describes the distribution of a numeric series.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}
