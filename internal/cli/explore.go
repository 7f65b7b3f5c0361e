package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/catalog-eda/internal/app"
	"github.com/j-veylop/catalog-eda/internal/config"
	"github.com/j-veylop/catalog-eda/internal/logger"
	"github.com/j-veylop/catalog-eda/internal/services"
	"github.com/j-veylop/catalog-eda/internal/ui/tabs/categories"
	"github.com/j-veylop/catalog-eda/internal/ui/tabs/durations"
	"github.com/j-veylop/catalog-eda/internal/ui/tabs/history"
	"github.com/j-veylop/catalog-eda/internal/ui/tabs/overview"
	"github.com/j-veylop/catalog-eda/internal/ui/tabs/timeline"
)

func newExploreCommand(root *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse the analysis in an interactive terminal UI",
		Long: `Runs the analysis and opens a tabbed explorer. Keys: 1-5 switch tabs, r re-runs
the analysis, ? shows help, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}

			mgr, err := services.NewManager(cfg, services.Options{Record: true, Render: true})
			if err != nil {
				return fmt.Errorf("failed to initialize services: %w", err)
			}
			defer func() {
				if closeErr := mgr.Close(); closeErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: error closing services: %v\n", closeErr)
				}
			}()

			// The alternate screen owns the terminal while the program runs.
			logger.Configure(io.Discard, cfg.LogLevel)

			ctx := cmd.Context()
			if watch {
				if err := mgr.Watch(ctx); err != nil {
					return err
				}
			}

			p := tea.NewProgram(
				newExplorer(mgr, cfg),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
			)

			if _, err := p.Run(); err != nil && ctx.Err() == nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "re-run whenever the dataset file changes")

	return cmd
}

// newExplorer builds the root model with every tab wired to shared state.
func newExplorer(mgr *services.Manager, cfg *config.Config) *app.Model {
	model := app.NewModel(mgr)
	state := model.State()
	model.SetTabs([]app.Tab{
		overview.New(state, cfg),
		categories.New(state),
		durations.New(state),
		timeline.New(state),
		history.New(state, mgr),
	})
	return model
}
