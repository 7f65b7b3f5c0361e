package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/j-veylop/catalog-eda/internal/logger"
	"github.com/j-veylop/catalog-eda/internal/services"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	var (
		watch    bool
		noRecord bool
		noCharts bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the dataset, write charts and record the run",
		Example: `  catalog-eda analyze
  catalog-eda analyze --dataset titles.csv --top 20
  catalog-eda analyze --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}

			mgr, err := services.NewManager(cfg, services.Options{Record: !noRecord, Render: !noCharts})
			if err != nil {
				return fmt.Errorf("failed to initialize services: %w", err)
			}
			defer func() {
				if closeErr := mgr.Close(); closeErr != nil {
					logger.Warn("error closing services", "error", closeErr)
				}
			}()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			ev, err := mgr.Analyze(ctx)
			if err != nil {
				return err
			}
			printReport(out, ev)

			if !watch {
				return nil
			}

			events, _ := mgr.Subscribe()
			if err := mgr.Watch(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, styles.InfoTextStyle.Render("Watching "+cfg.DatasetPath+", press Ctrl+C to stop"))

			for {
				select {
				case <-ctx.Done():
					return nil
				case e, ok := <-events:
					if !ok {
						return nil
					}
					switch e := e.(type) {
					case services.ReportReadyEvent:
						fmt.Fprintln(out)
						printReport(out, &e)
					case services.ErrorEvent:
						fmt.Fprintln(cmd.ErrOrStderr(),
							styles.ErrorTextStyle.Render(fmt.Sprintf("[%s] %v", e.Service, e.Error)))
					}
				}
			}
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "re-run whenever the dataset file changes")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "do not store the run in the history database")
	cmd.Flags().BoolVar(&noCharts, "no-charts", false, "do not write chart files")

	return cmd
}
