package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/j-veylop/catalog-eda/internal/models"
)

// Options tunes a full analysis run.
type Options struct {
	// TopN limits every ranked frequency table. Zero keeps all labels.
	TopN int
	// HistogramBins is the number of release-year bins.
	HistogramBins int
	// WarningCount is copied into the report for display.
	WarningCount int
	// NonMissing is copied into the report for display.
	NonMissing []models.ColumnCount
}

// Run computes every aggregate of the report and its fingerprint.
func Run(titles []models.Title, opts Options) (*models.Report, error) {
	durations := ExtractNumeric(titles, models.FieldType, models.FieldDuration)

	r := &models.Report{
		GeneratedAt:       time.Now(),
		ReleaseYears:      ReleaseYearHistogram(titles, opts.HistogramBins),
		ReleaseYearCounts: CountReleaseYears(titles),
		Types:             CountCategorical(titles, models.FieldType, 0),
		Ratings:           CountCategorical(titles, models.FieldRating, opts.TopN),
		Genres:            CountTokens(titles, models.FieldListedIn, AllTokens, opts.TopN),
		Countries:         CountTokens(titles, models.FieldCountry, FirstTokenOnly, opts.TopN),
		Durations:         durations,
		DurationSummaries: DescribePartitions(durations),
		AddedByYear:       Timeline(titles, models.GranularityYear),
		AddedByMonth:      Timeline(titles, models.GranularityMonth),
		NonMissing:        opts.NonMissing,
		RecordCount:       len(titles),
		WarningCount:      opts.WarningCount,
	}

	fp, err := Fingerprint(r)
	if err != nil {
		return nil, err
	}
	r.Fingerprint = fp
	return r, nil
}

// Fingerprint hashes the aggregate content of r. Two reports over the same
// titles with the same options share a fingerprint.
func Fingerprint(r *models.Report) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
