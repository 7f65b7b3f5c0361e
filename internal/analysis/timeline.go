package analysis

import (
	"slices"

	"github.com/aclements/go-moremath/stats"

	"github.com/j-veylop/catalog-eda/internal/models"
)

// BucketOf returns the bucket of a title's date_added at granularity g.
func BucketOf(t *models.Title, g models.Granularity) (models.Bucket, bool) {
	if !t.HasDateAdded() {
		return models.Bucket{}, false
	}
	b := models.Bucket{Year: t.DateAdded.Year()}
	if g == models.GranularityMonth {
		b.Month = int(t.DateAdded.Month())
	}
	return b, true
}

// Timeline counts titles per calendar bucket of date_added, ascending.
// Titles without a date are skipped and empty buckets are not emitted.
func Timeline(titles []models.Title, g models.Granularity) models.TimelineSeries {
	counts := make(map[models.Bucket]int)
	for i := range titles {
		if b, ok := BucketOf(&titles[i], g); ok {
			counts[b]++
		}
	}

	out := make(models.TimelineSeries, 0, len(counts))
	for b, n := range counts {
		out = append(out, models.TimelinePoint{Period: b, Count: n})
	}
	slices.SortFunc(out, func(a, b models.TimelinePoint) int {
		switch {
		case a.Period.Before(b.Period):
			return -1
		case b.Period.Before(a.Period):
			return 1
		default:
			return 0
		}
	})
	return out
}

// ReleaseYearHistogram bins present release years into equal-width bins
// spanning [min, max]. The maximum year falls into the last bin.
func ReleaseYearHistogram(titles []models.Title, bins int) models.Histogram {
	if bins < 1 {
		bins = 1
	}

	var years []float64
	for i := range titles {
		if titles[i].HasReleaseYear() {
			years = append(years, float64(*titles[i].ReleaseYear))
		}
	}
	if len(years) == 0 {
		return models.Histogram{}
	}

	lo, hi := stats.Sample{Xs: years}.Bounds()
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	h := stats.NewLinearHist(lo, hi, bins)
	for _, y := range years {
		h.Add(y)
	}

	_, counts, high := h.Counts()
	out := make(models.Histogram, len(counts))
	for i, c := range counts {
		out[i] = models.HistogramBin{
			Low:   h.BinToValue(float64(i)),
			High:  h.BinToValue(float64(i + 1)),
			Count: int(c),
		}
	}
	// Values equal to the upper bound land past the last bin.
	out[len(out)-1].Count += int(high)
	return out
}
