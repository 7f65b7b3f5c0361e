package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/j-veylop/catalog-eda/internal/models"
	"github.com/j-veylop/catalog-eda/internal/services"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be >= 1, got %d", limit)
			}
			return withHistory(root, func(mgr *services.Manager) error {
				return listRuns(cmd.OutOrStdout(), mgr, limit)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to list")
	cmd.AddCommand(newHistoryShowCommand(root), newHistoryDeleteCommand(root))

	return cmd
}

func newHistoryShowCommand(root *rootOptions) *cobra.Command {
	var chart string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded run and its stored aggregates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			if chart != "" && !slices.Contains(models.Charts, chart) {
				return fmt.Errorf("unknown chart %q, expected one of %s", chart, strings.Join(models.Charts, ", "))
			}
			return withHistory(root, func(mgr *services.Manager) error {
				run, points, err := mgr.Run(id)
				if err != nil {
					return err
				}
				printRun(cmd.OutOrStdout(), run, points, chart)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&chart, "chart", "", "only print this chart's rows")

	return cmd
}

func newHistoryDeleteCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			return withHistory(root, func(mgr *services.Manager) error {
				if err := mgr.DeleteRun(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run #%d\n", id)
				return nil
			})
		},
	}
}

// withHistory opens the run history for the duration of fn.
func withHistory(root *rootOptions, fn func(*services.Manager) error) error {
	cfg, err := root.config()
	if err != nil {
		return err
	}
	mgr, err := services.NewManager(cfg, services.Options{Record: true})
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer mgr.Close()
	return fn(mgr)
}

func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}

func listRuns(out io.Writer, mgr *services.Manager, limit int) error {
	runs, err := mgr.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, styles.HelpStyle.Render("No runs recorded yet."))
		return nil
	}

	fmt.Fprintln(out, styles.TableHeaderStyle.Render(fmt.Sprintf("%5s  %-16s %8s %8s %4s %4s  %-12s  %s",
		"id", "created", "titles", "warnings", "top", "bins", "fingerprint", "dataset")))
	for _, r := range runs {
		fmt.Fprintln(out, runRow(r))
	}

	monthly, err := mgr.RunsPerMonth()
	if err != nil {
		return err
	}
	if len(monthly) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.SubTitleStyle.Render("Runs per month"))
		for _, mc := range monthly {
			fmt.Fprintf(out, "  %s %4d\n", mc.Period, mc.Count)
		}
	}
	return nil
}
