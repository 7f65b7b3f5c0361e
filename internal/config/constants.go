package config

import "time"

const (
	// DefaultDatasetURL is where the public catalog snapshot is published.
	DefaultDatasetURL = "https://raw.githubusercontent.com/amankharwal/Netflix-Dataset-Analysis/main/netflix_titles.csv"

	defaultDatasetPath     = "netflix_titles.csv"
	defaultOutputDir       = "charts"
	defaultTopN            = 10
	defaultHistogramBins   = 30
	defaultDownloadTimeout = 60 * time.Second
	defaultWatchDebounce   = 250 * time.Millisecond
	defaultLogLevel        = "info"

	appDirName = "catalog-eda"
)
