package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/j-veylop/catalog-eda/internal/generate"
	"github.com/j-veylop/catalog-eda/internal/logger"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

func newGenerateCommand(root *rootOptions) *cobra.Command {
	var (
		records int
		seed    uint64
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic dataset for offline use",
		Long: `Writes a deterministic synthetic catalog with the standard header to the
configured dataset path. Equal seeds produce identical files on the same day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}

			path := cfg.DatasetPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				return fmt.Errorf("failed to create dataset directory: %w", err)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}

			if err := generate.Generate(f, generate.Options{Records: records, Seed: seed}); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", path, err)
			}

			logger.Debug("dataset generated", "path", path, "records", records, "seed", seed)
			fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessTextStyle.Render(
				fmt.Sprintf("Wrote %d titles to %s", records, path)))
			return nil
		},
	}

	cmd.Flags().IntVar(&records, "records", generate.DefaultRecords, "number of titles to generate")
	cmd.Flags().Uint64Var(&seed, "seed", generate.DefaultSeed, "random seed")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing dataset file")

	return cmd
}
