// Package config resolves settings from the environment and an optional
// .env file. Variables already set in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the resolved settings.
type Config struct {
	DatasetPath     string
	DatasetURL      string
	OutputDir       string
	DatabasePath    string
	LogLevel        string
	TopN            int
	HistogramBins   int
	DownloadTimeout time.Duration
	WatchDebounce   time.Duration
	Notify          bool
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		DatasetPath:     defaultDatasetPath,
		DatasetURL:      DefaultDatasetURL,
		OutputDir:       defaultOutputDir,
		DatabasePath:    defaultDatabasePath(),
		LogLevel:        defaultLogLevel,
		TopN:            defaultTopN,
		HistogramBins:   defaultHistogramBins,
		DownloadTimeout: defaultDownloadTimeout,
		WatchDebounce:   defaultWatchDebounce,
	}
}

// binding parses the value of one environment key into a Config field.
type binding struct {
	key   string
	parse func(string) error
}

func (c *Config) bindings() []binding {
	return []binding{
		{"DATASET_PATH", text(&c.DatasetPath)},
		{"DATASET_URL", text(&c.DatasetURL)},
		{"OUTPUT_DIR", text(&c.OutputDir)},
		{"DATABASE_PATH", text(&c.DatabasePath)},
		{"LOG_LEVEL", text(&c.LogLevel)},
		{"TOP_N", integer(&c.TopN)},
		{"HISTOGRAM_BINS", integer(&c.HistogramBins)},
		{"DOWNLOAD_TIMEOUT", duration(&c.DownloadTimeout)},
		{"WATCH_DEBOUNCE", duration(&c.WatchDebounce)},
		{"NOTIFY", boolean(&c.Notify)},
	}
}

func text(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func integer(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		*dst = n
		return nil
	}
}

func boolean(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		*dst = b
		return nil
	}
}

// duration accepts Go durations ("30s", "1m") or a bare number of seconds.
func duration(dst *time.Duration) func(string) error {
	return func(v string) error {
		v = strings.TrimSpace(v)
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
			return nil
		}
		if secs, err := strconv.Atoi(v); err == nil {
			*dst = time.Duration(secs) * time.Second
			return nil
		}
		return fmt.Errorf("invalid duration %q", v)
	}
}

// Load starts from Default, applies the first .env file found and then the
// environment, and validates the result. Every malformed value is reported.
func Load() (*Config, error) {
	file, err := readEnvFile(envFiles())
	if err != nil {
		return nil, err
	}

	cfg := Default()
	var errs []error
	for _, b := range cfg.bindings() {
		v, ok := os.LookupEnv(b.key)
		if !ok || v == "" {
			v, ok = file[b.key]
		}
		if !ok || v == "" {
			continue
		}
		if err := b.parse(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. It runs in Load and again after
// command-line overrides.
func (c *Config) Validate() error {
	switch {
	case c.DatasetPath == "":
		return errors.New("DATASET_PATH must not be empty")
	case c.TopN < 0:
		return fmt.Errorf("TOP_N must be >= 0, got %d", c.TopN)
	case c.HistogramBins < 1:
		return fmt.Errorf("HISTOGRAM_BINS must be >= 1, got %d", c.HistogramBins)
	case c.DownloadTimeout < 0:
		return fmt.Errorf("DOWNLOAD_TIMEOUT must not be negative, got %s", c.DownloadTimeout)
	}
	return nil
}

// envFiles lists candidate .env files, most specific first.
func envFiles() []string {
	var files []string
	if cwd, err := os.Getwd(); err == nil {
		files = append(files, filepath.Join(cwd, ".env"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files,
			filepath.Join(home, ".config", appDirName, ".env"),
			filepath.Join(home, "."+appDirName, ".env"),
		)
	}
	if cwd, err := os.Getwd(); err == nil {
		files = append(files, filepath.Join(filepath.Dir(cwd), ".env"))
	}
	return files
}

// readEnvFile parses the first existing file of paths. No file is not an
// error; a file that cannot be parsed is.
func readEnvFile(paths []string) (map[string]string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		values, err := godotenv.Read(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		return values, nil
	}
	return nil, nil
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "runs.db"
	}
	return filepath.Join(home, ".config", appDirName, "runs.db")
}
