// Package cli implements the catalog-eda command tree.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/j-veylop/catalog-eda/internal/config"
	"github.com/j-veylop/catalog-eda/internal/logger"
	"github.com/j-veylop/catalog-eda/internal/version"
)

// errNoConfig is returned when a command runs without the root's pre-run.
var errNoConfig = errors.New("configuration not loaded")

// rootOptions holds the persistent flags and the configuration they
// override.
type rootOptions struct {
	dataset  string
	out      string
	db       string
	top      int
	bins     int
	logLevel string

	cfg *config.Config
}

// config returns the loaded configuration.
func (o *rootOptions) config() (*config.Config, error) {
	if o.cfg == nil {
		return nil, errNoConfig
	}
	return o.cfg, nil
}

// NewRootCommand builds the catalog-eda command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "catalog-eda",
		Short: "Exploratory analysis of a streaming catalog dataset",
		Long: `catalog-eda loads a CSV of streaming-catalog titles, computes frequency tables,
duration summaries and an additions timeline, writes charts to disk and keeps a
local history of analysis runs.

Configuration is read from .env files and the environment (DATASET_PATH,
OUTPUT_DIR, DATABASE_PATH, TOP_N, HISTOGRAM_BINS, ...). Flags override both.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dataset, "dataset", "", "path to the catalog CSV (default from DATASET_PATH)")
	flags.StringVar(&opts.out, "out", "", "directory for rendered charts (default from OUTPUT_DIR)")
	flags.StringVar(&opts.db, "db", "", "run history database (default from DATABASE_PATH)")
	flags.IntVar(&opts.top, "top", 0, "rows kept in the genre and country tables, 0 keeps all")
	flags.IntVar(&opts.bins, "bins", 0, "release-year histogram bins")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newAnalyzeCommand(opts),
		newDownloadCommand(opts),
		newGenerateCommand(opts),
		newExploreCommand(opts),
		newHistoryCommand(opts),
		newVersionCommand(),
	)

	return root
}

// load reads the configuration and applies flag overrides.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.DatasetPath = o.dataset
	}
	if flags.Changed("out") {
		cfg.OutputDir = o.out
	}
	if flags.Changed("db") {
		cfg.DatabasePath = o.db
	}
	if flags.Changed("top") {
		cfg.TopN = o.top
	}
	if flags.Changed("bins") {
		cfg.HistogramBins = o.bins
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Configure(cmd.ErrOrStderr(), cfg.LogLevel)
	o.cfg = cfg
	return nil
}

// Execute runs the command tree until it finishes or the process receives
// SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}
