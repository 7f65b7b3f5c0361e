package analysis

import (
	"math"
	"strconv"

	"github.com/aclements/go-moremath/stats"

	"github.com/j-veylop/catalog-eda/internal/models"
)

// LeadingInt parses the run of ASCII digits at the start of s.
// It reports false when s does not start with a digit or the run overflows.
func LeadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractNumeric groups the leading integer of field by the value of
// partition. Partitions are ordered by first contribution; titles without a
// partition value or without a leading digit run are dropped.
func ExtractNumeric(titles []models.Title, partition, field models.Field) models.PartitionedSeries {
	var out models.PartitionedSeries
	index := make(map[string]int)

	for i := range titles {
		key, ok := titles[i].Value(partition)
		if !ok {
			continue
		}
		raw, ok := titles[i].Value(field)
		if !ok {
			continue
		}
		n, ok := LeadingInt(raw)
		if !ok {
			continue
		}

		pos, seen := index[key]
		if !seen {
			pos = len(out)
			index[key] = pos
			out = append(out, models.Partition{Key: key})
		}
		out[pos].Values = append(out[pos].Values, n)
	}

	if out == nil {
		out = models.PartitionedSeries{}
	}
	return out
}

// Describe summarizes values. An empty input yields a zero Summary.
func Describe(values []int) models.Summary {
	if len(values) == 0 {
		return models.Summary{}
	}

	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(v)
	}
	s := stats.Sample{Xs: xs}
	s.Sort()

	lo, hi := s.Bounds()
	sum := models.Summary{
		N:      len(values),
		Mean:   finite(s.Mean()),
		Min:    lo,
		Q1:     finite(s.Quantile(0.25)),
		Median: finite(s.Quantile(0.5)),
		Q3:     finite(s.Quantile(0.75)),
		Max:    hi,
	}
	if len(values) > 1 {
		sum.StdDev = finite(s.StdDev())
	}
	return sum
}

// DescribePartitions summarizes every partition of a series.
func DescribePartitions(series models.PartitionedSeries) map[string]models.Summary {
	out := make(map[string]models.Summary, len(series))
	for _, p := range series {
		out[p.Key] = Describe(p.Values)
	}
	return out
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
